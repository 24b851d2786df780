package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RunStatus tracks the lifecycle of a timetable run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// TimetableRun is one full pass of the orchestrator over a batch of class
// requests. Sessions and unscheduled requests hang off the run record.
type TimetableRun struct {
	ID        string    `db:"id" json:"id"`
	Status    RunStatus `db:"status" json:"status"`
	Requested int       `db:"requested" json:"requested"`
	Placed    int       `db:"placed" json:"placed"`
	Meta      types.JSONText `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduledSession is the result of a successful placement.
type ScheduledSession struct {
	ID           string    `db:"id" json:"id"`
	RunID        string    `db:"run_id" json:"runId"`
	RequestID    string    `db:"request_id" json:"requestId"`
	Subject      string    `db:"subject" json:"subject"`
	DayOfWeek    int       `db:"day_of_week" json:"dayOfWeek"`
	StartMinutes int       `db:"start_minutes" json:"startMinutes"`
	EndMinutes   int       `db:"end_minutes" json:"endMinutes"`
	StartTime    string    `db:"start_time" json:"startTime"`
	EndTime      string    `db:"end_time" json:"endTime"`
	RoomID       string    `db:"room_id" json:"roomId"`
	Instructor   string    `db:"instructor" json:"instructor"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RunProgress reports how far a running timetable run has advanced.
type RunProgress struct {
	RunID     string    `json:"runId"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Current   string    `json:"current,omitempty"`
	Status    RunStatus `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
