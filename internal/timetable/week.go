package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// Week describes the schedulable portion of a week: an ordered set of days,
// the usable daily window and the granularity at which candidate start times
// are generated. All times are minutes since midnight; interval comparisons
// use half-open semantics throughout the package.
type Week struct {
	Days        []int // 1 = Monday ... 7 = Sunday, in placement order
	DayStart    int   // inclusive
	DayEnd      int   // exclusive
	SlotMinutes int
}

// DefaultWeek returns the reference deployment grid: Monday through Saturday,
// 07:00-20:00, 30-minute slots.
func DefaultWeek() Week {
	return Week{
		Days:        []int{1, 2, 3, 4, 5, 6},
		DayStart:    7 * 60,
		DayEnd:      20 * 60,
		SlotMinutes: 30,
	}
}

// StartTimes returns every slot boundary within the usable window. Callers
// still need to check that a given duration fits before the window closes.
func (w Week) StartTimes() []int {
	if w.SlotMinutes <= 0 || w.DayEnd <= w.DayStart {
		return nil
	}
	var starts []int
	for t := w.DayStart; t < w.DayEnd; t += w.SlotMinutes {
		starts = append(starts, t)
	}
	return starts
}

// Fits reports whether a session starting at start with the given duration
// ends at or before the window close.
func (w Week) Fits(start, durationMinutes int) bool {
	return start >= w.DayStart && start+durationMinutes <= w.DayEnd
}

// WindowMinutes is the length of the usable daily window.
func (w Week) WindowMinutes() int {
	return w.DayEnd - w.DayStart
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// ParseClock converts a wall-clock "HH:MM" string to minutes since midnight.
func ParseClock(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}
	return hours*60 + minutes, nil
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

var dayIndexMap = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
	7: "SUNDAY",
}

var dayNameIndex = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

// DayName returns the canonical upper-case name for a day index.
func DayName(day int) string {
	if name, ok := dayIndexMap[day]; ok {
		return name
	}
	return ""
}

// DayIndex resolves a day name to its index, 0 when unknown.
func DayIndex(name string) int {
	return dayNameIndex[strings.ToUpper(strings.TrimSpace(name))]
}
