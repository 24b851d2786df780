package timetable

import (
	"errors"
	"fmt"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ErrEmptyBatch is returned when a run is started with no class requests.
var ErrEmptyBatch = errors.New("no class requests to schedule")

// ValidateRequest checks a class request against intake rules before it may
// enter the placement loop. A non-nil error carries the rejection reason.
func ValidateRequest(req models.ClassRequest, week Week) error {
	if req.DurationHours <= 0 {
		return fmt.Errorf("duration must be positive, got %v", req.DurationHours)
	}
	if DurationMinutes(req.DurationHours) > week.WindowMinutes() {
		return fmt.Errorf("duration %vh exceeds the daily window", req.DurationHours)
	}
	if req.Department == "" {
		return errors.New("department is required")
	}
	if req.Instructor == "" {
		return errors.New("instructor is required")
	}
	if !req.ClassType.Valid() {
		return fmt.Errorf("unknown class type %q", req.ClassType)
	}
	return nil
}

// SplitValid partitions a batch into placeable requests and rejected ones.
func SplitValid(requests []models.ClassRequest, week Week) ([]models.ClassRequest, []models.RejectedRequest) {
	valid := make([]models.ClassRequest, 0, len(requests))
	var rejected []models.RejectedRequest
	for _, req := range requests {
		if err := ValidateRequest(req, week); err != nil {
			rejected = append(rejected, models.RejectedRequest{Request: req, Reason: err.Error()})
			continue
		}
		valid = append(valid, req)
	}
	return valid, rejected
}
