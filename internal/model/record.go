package model

// PomodoroStats accumulates completed focus time for one user.
type PomodoroStats struct {
	Daily    int `json:"daily"`
	Total    int `json:"total"`
	Sessions int `json:"sessions"`
}

// UserRecord is the complete persisted state for one identity. It is
// written to the store wholesale on every sync; field names match the
// wire format of the data routes.
type UserRecord struct {
	UserName      string              `json:"userName"`
	Email         string              `json:"email"`
	Timetable     []TimetableEntry    `json:"timetable"`
	Assignments   []Assignment        `json:"assignments"`
	Exams         []Exam              `json:"exams"`
	Notes         []Note              `json:"notes"`
	PomodoroStats PomodoroStats       `json:"pomodoroStats"`
	TimerHistory  []TimerHistoryEntry `json:"timerHistory"`
	Theme         string              `json:"theme"`
}

// NewRecord returns an empty record with non-nil collections and the
// default theme.
func NewRecord(email, userName string) *UserRecord {
	return &UserRecord{
		UserName:     userName,
		Email:        email,
		Timetable:    []TimetableEntry{},
		Assignments:  []Assignment{},
		Exams:        []Exam{},
		Notes:        []Note{},
		TimerHistory: []TimerHistoryEntry{},
		Theme:        "light",
	}
}

// Normalize fills in defaults for fields a stored record may be missing,
// so loading an older or partial record never leaves nil collections.
func (r *UserRecord) Normalize() {
	if r.Timetable == nil {
		r.Timetable = []TimetableEntry{}
	}
	if r.Assignments == nil {
		r.Assignments = []Assignment{}
	}
	if r.Exams == nil {
		r.Exams = []Exam{}
	}
	if r.Notes == nil {
		r.Notes = []Note{}
	}
	if r.TimerHistory == nil {
		r.TimerHistory = []TimerHistoryEntry{}
	}
	if r.Theme == "" {
		r.Theme = "light"
	}
}

// Clone returns a deep copy. The sync writer snapshots the record before
// releasing the lock, so in-flight writes never observe later mutations.
func (r *UserRecord) Clone() *UserRecord {
	c := *r
	c.Timetable = append([]TimetableEntry(nil), r.Timetable...)
	c.Assignments = append([]Assignment(nil), r.Assignments...)
	c.Exams = append([]Exam(nil), r.Exams...)
	c.Notes = append([]Note(nil), r.Notes...)
	c.TimerHistory = append([]TimerHistoryEntry(nil), r.TimerHistory...)
	return &c
}
