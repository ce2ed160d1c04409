package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"studyplanner/internal/model"
	"studyplanner/internal/syncer"
)

// ErrImageTooLarge is returned when a note's embedded image exceeds
// model.MaxImageBytes.
var ErrImageTooLarge = errors.New("image exceeds size limit")

// NoteInput represents data required to create or update a note. Image,
// when set, is a base64 data URL.
type NoteInput struct {
	Title   string
	Content string
	Subject string
	Image   string
}

// Notes manages free-text notes.
type Notes struct {
	ctrl *syncer.Controller
	now  func() time.Time
}

func NewNotes(ctrl *syncer.Controller) *Notes {
	return &Notes{ctrl: ctrl, now: time.Now}
}

// Add appends a new note stamped with the current time.
func (n *Notes) Add(input NoteInput) (model.Note, error) {
	if input.Title == "" {
		return model.Note{}, fmt.Errorf("title is required")
	}
	if model.ImageSize(input.Image) > model.MaxImageBytes {
		return model.Note{}, ErrImageTooLarge
	}

	note := model.Note{
		ID:      newID(),
		Title:   input.Title,
		Content: input.Content,
		Subject: input.Subject,
		Image:   input.Image,
		Date:    n.now(),
	}
	err := n.ctrl.Mutate(func(r *model.UserRecord) {
		r.Notes = append(r.Notes, note)
	})
	if err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// Update replaces the addressed note's fields, preserving its id and
// re-stamping the timestamp.
func (n *Notes) Update(id string, input NoteInput) (model.Note, error) {
	if input.Title == "" {
		return model.Note{}, fmt.Errorf("title is required")
	}
	if model.ImageSize(input.Image) > model.MaxImageBytes {
		return model.Note{}, ErrImageTooLarge
	}

	var updated model.Note
	found := false
	err := n.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Notes {
			if r.Notes[i].ID != id {
				continue
			}
			updated = model.Note{
				ID:      id,
				Title:   input.Title,
				Content: input.Content,
				Subject: input.Subject,
				Image:   input.Image,
				Date:    n.now(),
			}
			r.Notes[i] = updated
			found = true
			return
		}
	})
	if err != nil {
		return model.Note{}, err
	}
	if !found {
		return model.Note{}, ErrNotFound
	}
	return updated, nil
}

// Remove deletes the addressed note. Absent ids are a no-op.
func (n *Notes) Remove(id string) error {
	return n.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.Notes {
			if r.Notes[i].ID == id {
				r.Notes = append(r.Notes[:i], r.Notes[i+1:]...)
				return
			}
		}
	})
}

// List returns all notes in insertion order.
func (n *Notes) List() ([]model.Note, error) {
	record, err := n.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}
	return record.Notes, nil
}

// Search returns notes whose title, content or subject contains query,
// case-insensitively. An empty query matches everything.
func (n *Notes) Search(query string) ([]model.Note, error) {
	record, err := n.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return record.Notes, nil
	}

	q := strings.ToLower(query)
	var out []model.Note
	for _, note := range record.Notes {
		if strings.Contains(strings.ToLower(note.Title), q) ||
			strings.Contains(strings.ToLower(note.Content), q) ||
			strings.Contains(strings.ToLower(note.Subject), q) {
			out = append(out, note)
		}
	}
	return out, nil
}
