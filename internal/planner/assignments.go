package planner

import (
	"fmt"
	"sort"
	"time"

	"studyplanner/internal/model"
	"studyplanner/internal/syncer"
)

// AssignmentInput represents data required to create or update an
// assignment. The completed flag is not part of the input: it defaults
// to false at creation and is only changed by ToggleComplete.
type AssignmentInput struct {
	Title    string
	Subject  string
	DueDate  string
	Priority model.Priority
}

// Assignments manages due work items.
type Assignments struct {
	ctrl *syncer.Controller
}

func NewAssignments(ctrl *syncer.Controller) *Assignments {
	return &Assignments{ctrl: ctrl}
}

// Add appends a new assignment, not yet completed.
func (a *Assignments) Add(input AssignmentInput) (model.Assignment, error) {
	if input.Title == "" {
		return model.Assignment{}, fmt.Errorf("title is required")
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}

	assignment := model.Assignment{
		ID:       newID(),
		Title:    input.Title,
		Subject:  input.Subject,
		DueDate:  input.DueDate,
		Priority: input.Priority,
	}
	err := a.ctrl.Mutate(func(r *model.UserRecord) {
		r.Assignments = append(r.Assignments, assignment)
	})
	if err != nil {
		return model.Assignment{}, err
	}
	return assignment, nil
}

// Update replaces the addressed assignment's fields, preserving its id
// and completed flag.
func (a *Assignments) Update(id string, input AssignmentInput) (model.Assignment, error) {
	if input.Title == "" {
		return model.Assignment{}, fmt.Errorf("title is required")
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}

	var updated model.Assignment
	found := false
	err := a.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Assignments {
			if r.Assignments[i].ID != id {
				continue
			}
			updated = model.Assignment{
				ID:        id,
				Title:     input.Title,
				Subject:   input.Subject,
				DueDate:   input.DueDate,
				Priority:  input.Priority,
				Completed: r.Assignments[i].Completed,
			}
			r.Assignments[i] = updated
			found = true
			return
		}
	})
	if err != nil {
		return model.Assignment{}, err
	}
	if !found {
		return model.Assignment{}, ErrNotFound
	}
	return updated, nil
}

// ToggleComplete flips only the completed flag.
func (a *Assignments) ToggleComplete(id string) (model.Assignment, error) {
	var toggled model.Assignment
	found := false
	err := a.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Assignments {
			if r.Assignments[i].ID != id {
				continue
			}
			r.Assignments[i].Completed = !r.Assignments[i].Completed
			toggled = r.Assignments[i]
			found = true
			return
		}
	})
	if err != nil {
		return model.Assignment{}, err
	}
	if !found {
		return model.Assignment{}, ErrNotFound
	}
	return toggled, nil
}

// Remove deletes the addressed assignment. Absent ids are a no-op.
func (a *Assignments) Remove(id string) error {
	return a.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Assignments {
			if r.Assignments[i].ID == id {
				r.Assignments = append(r.Assignments[:i], r.Assignments[i+1:]...)
				return
			}
		}
	})
}

// List returns all assignments in insertion order.
func (a *Assignments) List() ([]model.Assignment, error) {
	record, err := a.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}
	return record.Assignments, nil
}

// Pending returns unfinished assignments sorted by due date ascending.
func (a *Assignments) Pending() ([]model.Assignment, error) {
	return a.filtered(false)
}

// Completed returns finished assignments sorted by due date ascending.
func (a *Assignments) Completed() ([]model.Assignment, error) {
	return a.filtered(true)
}

func (a *Assignments) filtered(completed bool) ([]model.Assignment, error) {
	record, err := a.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}

	var out []model.Assignment
	for _, item := range record.Assignments {
		if item.Completed == completed {
			out = append(out, item)
		}
	}
	SortByDueDate(out)
	return out, nil
}

// SortByDueDate orders assignments by due date ascending; entries with
// unparseable dates sort last.
func SortByDueDate(assignments []model.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		di, erri := time.Parse(model.DateLayout, assignments[i].DueDate)
		dj, errj := time.Parse(model.DateLayout, assignments[j].DueDate)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return di.Before(dj)
	})
}
