package models

import "time"

// FixedSchedule is an administrator-defined recurring block on the weekly
// grid. When AllowClasses is false the interval is a hard block for every
// room and instructor on that day; when true the entry is informational and
// never blocks placement.
type FixedSchedule struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DayOfWeek    string    `db:"day_of_week" json:"dayOfWeek"`
	StartTime    string    `db:"start_time" json:"startTime"`
	EndTime      string    `db:"end_time" json:"endTime"`
	AllowClasses bool      `db:"allow_classes" json:"allowClasses"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
