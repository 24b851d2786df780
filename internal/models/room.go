package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// TagLabCapable marks rooms that can host laboratory sessions.
const TagLabCapable = "lab"

// Room represents a physical teaching space available for placement.
// A room may be affiliated with a department; the exclusive flag restricts it
// to that department, the priority flag puts it first in that department's
// candidate list.
type Room struct {
	ID         string         `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Department string         `db:"department_code" json:"departmentCode,omitempty"`
	Exclusive  bool           `db:"exclusive" json:"exclusive"`
	Priority   bool           `db:"priority" json:"priority"`
	Tags       pq.StringArray `db:"tags" json:"tags,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// HasTag reports whether the room carries the given capability tag.
func (r Room) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// RoomFilter describes query params for listing rooms.
type RoomFilter struct {
	Department string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
