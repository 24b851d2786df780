package timetable

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

type blockedInterval struct {
	start int
	end   int
}

// BlockRegistry answers whether an interval collides with an
// administrator-defined blocking entry. It is built once per run from the
// fixed-schedule snapshot and is read-only afterwards.
type BlockRegistry struct {
	byDay map[int][]blockedInterval
}

// NewBlockRegistry indexes blocking entries by day. Entries with
// AllowClasses set never block and are not indexed. Rows with unparsable
// times or an inverted interval are skipped rather than failing the run.
func NewBlockRegistry(entries []models.FixedSchedule) *BlockRegistry {
	registry := &BlockRegistry{byDay: make(map[int][]blockedInterval)}
	for _, entry := range entries {
		if entry.AllowClasses {
			continue
		}
		day := DayIndex(entry.DayOfWeek)
		if day == 0 {
			continue
		}
		start, err := ParseClock(entry.StartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(entry.EndTime)
		if err != nil || end <= start {
			continue
		}
		registry.byDay[day] = append(registry.byDay[day], blockedInterval{start: start, end: end})
	}
	return registry
}

// IsBlocked reports whether [start,end) on the given day overlaps any
// blocking entry.
func (r *BlockRegistry) IsBlocked(day, start, end int) bool {
	for _, interval := range r.byDay[day] {
		if Overlaps(start, end, interval.start, interval.end) {
			return true
		}
	}
	return false
}
