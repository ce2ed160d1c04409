package planner

import (
	"fmt"
	"sort"
	"time"

	"studyplanner/internal/model"
	"studyplanner/internal/syncer"
)

// ExamInput represents data required to create or update an exam.
type ExamInput struct {
	Subject   string
	Name      string
	Date      string
	StartTime string
	Location  string
}

// Exams manages scheduled assessments.
type Exams struct {
	ctrl *syncer.Controller
}

func NewExams(ctrl *syncer.Controller) *Exams {
	return &Exams{ctrl: ctrl}
}

// Add appends a new exam and returns it with its assigned id.
func (e *Exams) Add(input ExamInput) (model.Exam, error) {
	if input.Subject == "" || input.Name == "" {
		return model.Exam{}, fmt.Errorf("subject and name are required")
	}

	exam := model.Exam{
		ID:        newID(),
		Subject:   input.Subject,
		Name:      input.Name,
		Date:      input.Date,
		StartTime: input.StartTime,
		Location:  input.Location,
	}
	err := e.ctrl.Mutate(func(r *model.UserRecord) {
		r.Exams = append(r.Exams, exam)
	})
	if err != nil {
		return model.Exam{}, err
	}
	return exam, nil
}

// Update replaces the addressed exam's fields, preserving its id.
func (e *Exams) Update(id string, input ExamInput) (model.Exam, error) {
	if input.Subject == "" || input.Name == "" {
		return model.Exam{}, fmt.Errorf("subject and name are required")
	}

	var updated model.Exam
	found := false
	err := e.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Exams {
			if r.Exams[i].ID != id {
				continue
			}
			updated = model.Exam{
				ID:        id,
				Subject:   input.Subject,
				Name:      input.Name,
				Date:      input.Date,
				StartTime: input.StartTime,
				Location:  input.Location,
			}
			r.Exams[i] = updated
			found = true
			return
		}
	})
	if err != nil {
		return model.Exam{}, err
	}
	if !found {
		return model.Exam{}, ErrNotFound
	}
	return updated, nil
}

// Remove deletes the addressed exam. Absent ids are a no-op.
func (e *Exams) Remove(id string) error {
	return e.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Exams {
			if r.Exams[i].ID == id {
				r.Exams = append(r.Exams[:i], r.Exams[i+1:]...)
				return
			}
		}
	})
}

// List returns all exams in insertion order.
func (e *Exams) List() ([]model.Exam, error) {
	record, err := e.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}
	return record.Exams, nil
}

// Upcoming returns exams dated today or later, soonest first. Exams with
// unparseable dates are treated as upcoming so they stay visible.
func (e *Exams) Upcoming(now time.Time) ([]model.Exam, error) {
	record, err := e.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}

	today := midnight(now)
	var out []model.Exam
	for _, exam := range record.Exams {
		date, err := time.Parse(model.DateLayout, exam.Date)
		if err != nil || !date.Before(today) {
			out = append(out, exam)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, nil
}

// Past returns exams dated before today, most recent first.
func (e *Exams) Past(now time.Time) ([]model.Exam, error) {
	record, err := e.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}

	today := midnight(now)
	var out []model.Exam
	for _, exam := range record.Exams {
		date, err := time.Parse(model.DateLayout, exam.Date)
		if err == nil && date.Before(today) {
			out = append(out, exam)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
