// Package planner exposes the domain collections held inside a planner
// record: timetable entries, assignments, exams, notes and the focus
// log. Collections mutate only the in-memory record; the sync controller
// propagates every change to the store.
package planner

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when updating an entry whose id is absent.
// Removals of absent ids are silent no-ops.
var ErrNotFound = errors.New("entry not found")

// newID returns a fresh collision-free entry id.
func newID() string {
	return uuid.NewString()
}
