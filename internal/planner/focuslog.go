package planner

import (
	"fmt"
	"time"

	"studyplanner/internal/model"
	"studyplanner/internal/syncer"
)

// FocusLog manages the timer history and the pomodoro stats aggregate.
// Entries are appended by timer completions and removable by id.
type FocusLog struct {
	ctrl *syncer.Controller
}

func NewFocusLog(ctrl *syncer.Controller) *FocusLog {
	return &FocusLog{ctrl: ctrl}
}

// LogSegment appends a history entry for one completed timer segment.
// Study segments also add their minutes to the daily and lifetime
// totals and count one session; break segments only enter the history.
func (f *FocusLog) LogSegment(label string, minutes int, typ model.SegmentType, at time.Time) (model.TimerHistoryEntry, error) {
	if minutes <= 0 {
		return model.TimerHistoryEntry{}, fmt.Errorf("segment duration must be positive")
	}

	entry := model.TimerHistoryEntry{
		ID:        newID(),
		Label:     label,
		Minutes:   minutes,
		Timestamp: at,
		Type:      typ,
	}
	err := f.ctrl.Mutate(func(r *model.UserRecord) {
		r.TimerHistory = append(r.TimerHistory, entry)
		if typ == model.SegmentStudy {
			r.PomodoroStats.Daily += minutes
			r.PomodoroStats.Total += minutes
			r.PomodoroStats.Sessions++
		}
	})
	if err != nil {
		return model.TimerHistoryEntry{}, err
	}
	return entry, nil
}

// Remove deletes the addressed history entry. Absent ids are a no-op.
// Stats are not rolled back: completed focus time stays counted.
func (f *FocusLog) Remove(id string) error {
	return f.ctrl.Mutate(func(r *model.UserRecord) {
		for i := range r.TimerHistory {
			if r.TimerHistory[i].ID == id {
				r.TimerHistory = append(r.TimerHistory[:i], r.TimerHistory[i+1:]...)
				return
			}
		}
	})
}

// Entries returns the full history in append order.
func (f *FocusLog) Entries() ([]model.TimerHistoryEntry, error) {
	record, err := f.ctrl.Snapshot()
	if err != nil {
		return nil, err
	}
	return record.TimerHistory, nil
}

// Stats returns the current pomodoro aggregate.
func (f *FocusLog) Stats() (model.PomodoroStats, error) {
	record, err := f.ctrl.Snapshot()
	if err != nil {
		return model.PomodoroStats{}, err
	}
	return record.PomodoroStats, nil
}

// ResetDaily zeroes the daily minute counter. Wired to the midnight
// schedule so "daily" means minutes accumulated today.
func (f *FocusLog) ResetDaily() error {
	return f.ctrl.Mutate(func(r *model.UserRecord) {
		r.PomodoroStats.Daily = 0
	})
}
