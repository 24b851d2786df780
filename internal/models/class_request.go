package models

import "time"

// ClassType distinguishes lecture and laboratory demand.
type ClassType string

const (
	ClassTypeLecture    ClassType = "lecture"
	ClassTypeLaboratory ClassType = "laboratory"
)

// Valid reports whether the class type is one of the supported values.
func (t ClassType) Valid() bool {
	return t == ClassTypeLecture || t == ClassTypeLaboratory
}

// ClassRequest is a unit of teaching demand awaiting a day/time/room
// assignment. Immutable once submitted to a timetable run.
type ClassRequest struct {
	ID            string    `db:"id" json:"id"`
	Subject       string    `db:"subject" json:"subject"`
	Department    string    `db:"department_code" json:"departmentCode"`
	Instructor    string    `db:"instructor" json:"instructor"`
	ClassType     ClassType `db:"class_type" json:"classType"`
	DurationHours float64   `db:"duration_hours" json:"durationHours"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RejectedRequest pairs a request that failed intake validation with the
// reason it was rejected. Rejections are reported separately from requests
// that merely could not find a slot.
type RejectedRequest struct {
	Request ClassRequest `json:"request"`
	Reason  string       `json:"reason"`
}

// ClassRequestFilter describes query params for listing class requests.
type ClassRequestFilter struct {
	Department string
	Instructor string
	ClassType  string
	Page       int
	PageSize   int
}
