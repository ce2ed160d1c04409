package planner

import (
	"fmt"
	"sort"

	"studyplanner/internal/model"
	"studyplanner/internal/syncer"
)

// TimetableInput represents data required to create or update a class
// slot.
type TimetableInput struct {
	Subject   string
	Teacher   string
	Room      string
	StartTime string
	EndTime   string
	Day       model.Day
	Color     string
}

// Timetable manages the weekly class slots.
type Timetable struct {
	ctrl *syncer.Controller
}

func NewTimetable(ctrl *syncer.Controller) *Timetable {
	return &Timetable{ctrl: ctrl}
}

// Add appends a new slot and returns it with its assigned id.
func (t *Timetable) Add(input TimetableInput) (model.TimetableEntry, error) {
	if input.Subject == "" {
		return model.TimetableEntry{}, fmt.Errorf("subject is required")
	}

	entry := model.TimetableEntry{
		ID:        newID(),
		Subject:   input.Subject,
		Teacher:   input.Teacher,
		Room:      input.Room,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Day:       input.Day,
		Color:     input.Color,
	}
	err := t.ctrl.Mutate(func(r *model.UserRecord) {
		r.Timetable = append(r.Timetable, entry)
	})
	if err != nil {
		return model.TimetableEntry{}, err
	}
	return entry, nil
}

// Update replaces the addressed slot's fields, preserving its id.
func (t *Timetable) Update(id string, input TimetableInput) (model.TimetableEntry, error) {
	if input.Subject == "" {
		return model.TimetableEntry{}, fmt.Errorf("subject is required")
	}

	var updated model.TimetableEntry
	found := false
	err := t.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Timetable {
			if r.Timetable[i].ID != id {
				continue
			}
			updated = model.TimetableEntry{
				ID:        id,
				Subject:   input.Subject,
				Teacher:   input.Teacher,
				Room:      input.Room,
				StartTime: input.StartTime,
				EndTime:   input.EndTime,
				Day:       input.Day,
				Color:     input.Color,
			}
			r.Timetable[i] = updated
			found = true
			return
		}
	})
	if err != nil {
		return model.TimetableEntry{}, err
	}
	if !found {
		return model.TimetableEntry{}, ErrNotFound
	}
	return updated, nil
}

// Remove deletes the addressed slot. Absent ids are a no-op.
func (t *Timetable) Remove(id string) error {
	return t.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Timetable {
			if r.Timetable[i].ID == id {
				r.Timetable = append(r.Timetable[:i], r.Timetable[i+1:]...)
				return
			}
		}
	})
}

// List returns all slots in insertion order.
func (t *Timetable) List() ([]model.TimetableEntry, error) {
	record, err := t.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}
	return record.Timetable, nil
}

// ForDay returns the slots for one weekday sorted by start time.
func (t *Timetable) ForDay(day model.Day) ([]model.TimetableEntry, error) {
	record, err := t.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}

	var entries []model.TimetableEntry
	for _, e := range record.Timetable {
		if e.Day == day {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries, nil
}
