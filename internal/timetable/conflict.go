package timetable

// Session is a committed placement within a run: a class request pinned to a
// day, a half-open time interval and a room.
type Session struct {
	RequestID  string
	Subject    string
	Day        int
	Start      int
	End        int
	RoomID     string
	Instructor string
}

// ConflictDetector checks a proposed placement against the fixed-schedule
// registry and the sessions already committed in the current run. Room and
// instructor conflicts are independent; either alone disqualifies.
type ConflictDetector struct {
	blocks *BlockRegistry
}

// NewConflictDetector builds a detector over the given registry.
func NewConflictDetector(blocks *BlockRegistry) *ConflictDetector {
	return &ConflictDetector{blocks: blocks}
}

// WouldConflict reports whether placing (day, [start,end), roomID,
// instructor) would collide with a blocking fixed schedule, double-book the
// room, or double-book the instructor.
func (d *ConflictDetector) WouldConflict(day, start, end int, roomID, instructor string, placed []Session) bool {
	if d.blocks != nil && d.blocks.IsBlocked(day, start, end) {
		return true
	}
	for _, session := range placed {
		if session.Day != day {
			continue
		}
		if !Overlaps(start, end, session.Start, session.End) {
			continue
		}
		if session.RoomID == roomID {
			return true
		}
		if session.Instructor == instructor {
			return true
		}
	}
	return false
}

// InstructorBusy reports whether the instructor already teaches an
// overlapping session on the given day.
func (d *ConflictDetector) InstructorBusy(day, start, end int, instructor string, placed []Session) bool {
	for _, session := range placed {
		if session.Day == day && session.Instructor == instructor && Overlaps(start, end, session.Start, session.End) {
			return true
		}
	}
	return false
}
