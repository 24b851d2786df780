package dto

// RoomPayload creates or updates a room.
type RoomPayload struct {
	Name       string   `json:"name" validate:"required"`
	Department string   `json:"departmentCode"`
	Exclusive  bool     `json:"exclusive"`
	Priority   bool     `json:"priority"`
	Tags       []string `json:"tags" validate:"omitempty,dive,alphanum"`
}

// DepartmentPayload creates a department.
type DepartmentPayload struct {
	Code string `json:"code" validate:"required,uppercase"`
	Name string `json:"name" validate:"required"`
}

// FixedSchedulePayload creates a recurring fixed block.
type FixedSchedulePayload struct {
	Name         string `json:"name" validate:"required"`
	DayOfWeek    string `json:"dayOfWeek" validate:"required"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	AllowClasses bool   `json:"allowClasses"`
}

// RoomCSVRow is the bulk-import row format for rooms. Tags use a
// semicolon-separated list so the cell stays a single CSV field.
type RoomCSVRow struct {
	Name       string `csv:"name"`
	Department string `csv:"department"`
	Exclusive  bool   `csv:"exclusive"`
	Priority   bool   `csv:"priority"`
	Tags       string `csv:"tags"`
}

// FixedScheduleCSVRow is the bulk-import row format for fixed schedules.
type FixedScheduleCSVRow struct {
	Name         string `csv:"name"`
	DayOfWeek    string `csv:"day_of_week"`
	StartTime    string `csv:"start_time"`
	EndTime      string `csv:"end_time"`
	AllowClasses bool   `csv:"allow_classes"`
}

// ImportSummary reports the outcome of a CSV catalog import.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
