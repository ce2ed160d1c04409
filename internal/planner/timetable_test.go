package planner

import (
	"errors"
	"testing"

	"studyplanner/internal/model"
)

func TestTimetableAddUpdateRemove(t *testing.T) {
	tt := NewTimetable(newSyncedController(t))

	math, err := tt.Add(TimetableInput{Subject: "Math", Day: model.Monday, StartTime: "09:00", EndTime: "10:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	physics, err := tt.Add(TimetableInput{Subject: "Physics", Day: model.Monday, StartTime: "10:00", EndTime: "11:00"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if math.ID == physics.ID {
		t.Fatal("ids not unique")
	}

	updated, err := tt.Update(math.ID, TimetableInput{Subject: "Algebra", Day: model.Tuesday, StartTime: "08:00", EndTime: "09:00"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != math.ID {
		t.Fatalf("update changed id: %s -> %s", math.ID, updated.ID)
	}
	if updated.Subject != "Algebra" || updated.Day != model.Tuesday {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := tt.Remove(physics.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	entries, err := tt.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != math.ID || entries[0].Subject != "Algebra" {
		t.Fatalf("final list = %+v, want only the updated Algebra slot", entries)
	}
}

func TestTimetableUpdateAbsentID(t *testing.T) {
	tt := NewTimetable(newSyncedController(t))

	if _, err := tt.Update("missing", TimetableInput{Subject: "Math"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTimetableRemoveAbsentIDIsNoOp(t *testing.T) {
	tt := NewTimetable(newSyncedController(t))

	if err := tt.Remove("missing"); err != nil {
		t.Fatalf("remove absent id: %v", err)
	}
}

func TestTimetableForDaySortsByStartTime(t *testing.T) {
	tt := NewTimetable(newSyncedController(t))

	add := func(subject, start string, day model.Day) {
		t.Helper()
		if _, err := tt.Add(TimetableInput{Subject: subject, Day: day, StartTime: start, EndTime: "23:00"}); err != nil {
			t.Fatalf("add %s: %v", subject, err)
		}
	}
	add("Chemistry", "14:00", model.Monday)
	add("Math", "08:30", model.Monday)
	add("History", "10:00", model.Tuesday)
	add("Physics", "11:15", model.Monday)

	entries, err := tt.ForDay(model.Monday)
	if err != nil {
		t.Fatalf("for day: %v", err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, e.Subject)
	}
	want := []string{"Math", "Physics", "Chemistry"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
}

func TestTimetableOverlapsAllowed(t *testing.T) {
	tt := NewTimetable(newSyncedController(t))

	if _, err := tt.Add(TimetableInput{Subject: "Math", Day: model.Monday, StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := tt.Add(TimetableInput{Subject: "Physics", Day: model.Monday, StartTime: "09:30", EndTime: "10:30"}); err != nil {
		t.Fatalf("overlapping add rejected: %v", err)
	}
}
