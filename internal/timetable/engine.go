package timetable

import (
	"math"
	"math/rand"
	"sort"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Engine performs a single placement attempt: it enumerates randomized
// day/time combinations and ranked candidate rooms until one passes every
// conflict check, or the candidate space is exhausted.
type Engine struct {
	week     Week
	rooms    *RoomResolver
	detector *ConflictDetector
	rng      *rand.Rand
}

// NewEngine wires the placement dependencies.
func NewEngine(week Week, rooms *RoomResolver, detector *ConflictDetector, rng *rand.Rand) *Engine {
	return &Engine{week: week, rooms: rooms, detector: detector, rng: rng}
}

// DurationMinutes converts the request's fractional hours to minutes.
func DurationMinutes(hours float64) int {
	return int(math.Round(hours * 60))
}

// Place searches for an unconflicted (day, start, room) combination for the
// request. On success it appends nothing itself: the returned session is
// committed by the caller. The usage map biases room choice toward less-used
// rooms and is incremented for the chosen room.
func (e *Engine) Place(req models.ClassRequest, placed []Session, usage map[string]int) (Session, bool) {
	duration := DurationMinutes(req.DurationHours)
	if duration <= 0 {
		return Session{}, false
	}

	days := make([]int, len(e.week.Days))
	copy(days, e.week.Days)
	e.rng.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })

	starts := e.week.StartTimes()
	shuffled := make([]int, len(starts))
	copy(shuffled, starts)
	e.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, day := range days {
		for _, start := range shuffled {
			end := start + duration
			if !e.week.Fits(start, duration) {
				continue
			}

			candidates := e.rooms.Candidates(req.Department, req.ClassType)
			viable := candidates[:0]
			for _, room := range candidates {
				if !e.detector.WouldConflict(day, start, end, room.ID, req.Instructor, placed) {
					viable = append(viable, room)
				}
			}
			if len(viable) == 0 {
				continue
			}

			// Prefer less-used rooms; ties keep the resolver's order.
			sort.SliceStable(viable, func(i, j int) bool {
				return usage[viable[i].ID] < usage[viable[j].ID]
			})

			room := viable[0]
			if e.detector.InstructorBusy(day, start, end, req.Instructor, placed) {
				continue
			}

			usage[room.ID]++
			return Session{
				RequestID:  req.ID,
				Subject:    req.Subject,
				Day:        day,
				Start:      start,
				End:        end,
				RoomID:     room.ID,
				Instructor: req.Instructor,
			}, true
		}
	}
	return Session{}, false
}
