package timetable

import (
	"math/rand"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// RoomResolver ranks rooms for a department and class type. Rooms exclusive
// to a different department are never returned. Within each priority tier the
// order is shuffled so structurally equivalent rooms share the load.
type RoomResolver struct {
	rooms []models.Room
	rng   *rand.Rand
}

// NewRoomResolver builds a resolver over the room snapshot. The random
// source drives tier shuffling; tests inject a seeded one.
func NewRoomResolver(rooms []models.Room, rng *rand.Rand) *RoomResolver {
	return &RoomResolver{rooms: rooms, rng: rng}
}

// All returns the underlying room snapshot.
func (r *RoomResolver) All() []models.Room {
	return r.rooms
}

// Candidates returns the ordered candidate list for the department and class
// type: priority-flagged affiliated rooms first, then remaining affiliated
// rooms, then every non-exclusive room of other or no affiliation. Each tier
// is shuffled independently, and laboratory requests pull lab-tagged rooms to
// the front of each tier.
func (r *RoomResolver) Candidates(departmentCode string, classType models.ClassType) []models.Room {
	var priority, affiliated, open []models.Room
	for _, room := range r.rooms {
		switch {
		case room.Department != "" && room.Department == departmentCode:
			if room.Priority {
				priority = append(priority, room)
			} else {
				affiliated = append(affiliated, room)
			}
		case room.Exclusive:
			// exclusive to another department, hard excluded
		default:
			open = append(open, room)
		}
	}

	r.shuffle(priority)
	r.shuffle(affiliated)
	r.shuffle(open)

	if classType == models.ClassTypeLaboratory {
		priority = labFirst(priority)
		affiliated = labFirst(affiliated)
		open = labFirst(open)
	}

	candidates := make([]models.Room, 0, len(priority)+len(affiliated)+len(open))
	candidates = append(candidates, priority...)
	candidates = append(candidates, affiliated...)
	candidates = append(candidates, open...)
	return candidates
}

func (r *RoomResolver) shuffle(rooms []models.Room) {
	r.rng.Shuffle(len(rooms), func(i, j int) {
		rooms[i], rooms[j] = rooms[j], rooms[i]
	})
}

// labFirst stably moves lab-capable rooms ahead of the rest of the tier.
func labFirst(rooms []models.Room) []models.Room {
	if len(rooms) < 2 {
		return rooms
	}
	ordered := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.HasTag(models.TagLabCapable) {
			ordered = append(ordered, room)
		}
	}
	for _, room := range rooms {
		if !room.HasTag(models.TagLabCapable) {
			ordered = append(ordered, room)
		}
	}
	return ordered
}
