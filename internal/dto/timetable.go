package dto

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ClassRequestPayload captures one unit of teaching demand submitted to a run.
type ClassRequestPayload struct {
	ID            string  `json:"id"`
	Subject       string  `json:"subject" validate:"required"`
	Department    string  `json:"departmentCode" validate:"required"`
	Instructor    string  `json:"instructor" validate:"required"`
	ClassType     string  `json:"classType" validate:"required,oneof=lecture laboratory"`
	DurationHours float64 `json:"durationHours" validate:"required,gt=0"`
}

// StartRunRequest starts a timetable run. When Requests is empty the stored
// class-request catalog is scheduled instead. Seed pins the random source for
// reproducible runs; production runs normally leave it unset.
type StartRunRequest struct {
	Requests []ClassRequestPayload `json:"requests" validate:"omitempty,dive"`
	Async    bool                  `json:"async"`
	Seed     *int64                `json:"seed"`
}

// RunStats summarises the outcome of a run.
type RunStats struct {
	Requested   int   `json:"requested"`
	Placed      int   `json:"placed"`
	Unscheduled int   `json:"unscheduled"`
	Rejected    int   `json:"rejected"`
	DurationMs  int64 `json:"durationMs"`
	Seed        int64 `json:"seed"`
}

// RunResponse returns a run's identity, outcome and detail lists. For async
// runs only the identity and status are populated at submission time.
type RunResponse struct {
	RunID       string                    `json:"runId"`
	Status      models.RunStatus          `json:"status"`
	Sessions    []models.ScheduledSession `json:"sessions,omitempty"`
	Unscheduled []models.ClassRequest     `json:"unscheduled,omitempty"`
	Rejected    []models.RejectedRequest  `json:"rejected,omitempty"`
	Stats       *RunStats                 `json:"stats,omitempty"`
}

// RunListQuery filters stored runs.
type RunListQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
