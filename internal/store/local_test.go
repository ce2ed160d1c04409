package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"studyplanner/internal/model"
)

func openTestLocal(t *testing.T) (*Local, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.json")
	local, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	return local, path
}

func TestRegisterLoginScenario(t *testing.T) {
	local, _ := openTestLocal(t)
	ctx := context.Background()

	id, err := local.Register(ctx, "a@x.com", "pw", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id.Email != "a@x.com" || id.Name != "Ann" {
		t.Fatalf("identity = %+v", id)
	}

	if _, err := local.Login(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("login with correct password: %v", err)
	}
	if _, err := local.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredential", err)
	}
	if _, err := local.Login(ctx, "b@x.com", "pw"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user err = %v, want ErrUserNotFound", err)
	}
	if _, err := local.Register(ctx, "a@x.com", "pw2", "Another Ann"); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("duplicate register err = %v, want ErrDuplicateUser", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	local, _ := openTestLocal(t)
	ctx := context.Background()

	id, err := local.Register(ctx, "a@x.com", "pw", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	record := model.NewRecord("a@x.com", "Ann")
	record.Theme = "dark"
	record.Timetable = append(record.Timetable, model.TimetableEntry{
		ID: "t1", Subject: "Math", Day: model.Monday, StartTime: "09:00", EndTime: "10:00", Color: "#6366f1",
	})
	record.Assignments = append(record.Assignments, model.Assignment{
		ID: "a1", Title: "Essay", Subject: "English", DueDate: "2026-09-10", Priority: model.PriorityHigh,
	})
	record.TimerHistory = append(record.TimerHistory, model.TimerHistoryEntry{
		ID: "h1", Label: "Math", Minutes: 25, Timestamp: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), Type: model.SegmentStudy,
	})
	record.PomodoroStats = model.PomodoroStats{Daily: 25, Total: 250, Sessions: 10}

	if err := local.Save(ctx, id, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := local.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(record, loaded) {
		t.Fatalf("round trip mismatch:\nwrote %+v\nread  %+v", record, loaded)
	}
}

func TestRecordSurvivesReopen(t *testing.T) {
	local, path := openTestLocal(t)
	ctx := context.Background()

	id, err := local.Register(ctx, "a@x.com", "pw", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	record := model.NewRecord("a@x.com", "Ann")
	record.Notes = append(record.Notes, model.Note{ID: "n1", Title: "Derivatives", Date: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)})
	if err := local.Save(ctx, id, record); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := reopened.Login(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("login after reopen: %v", err)
	}
	loaded, err := reopened.Load(ctx, id)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(loaded.Notes) != 1 || loaded.Notes[0].Title != "Derivatives" {
		t.Fatalf("loaded notes = %+v", loaded.Notes)
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	local, _ := openTestLocal(t)
	ctx := context.Background()

	id, err := local.Register(ctx, "a@x.com", "pw", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := local.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first.Theme = "dark"
	first.Notes = append(first.Notes, model.Note{ID: "n1"})

	second, err := local.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if second.Theme == "dark" || len(second.Notes) != 0 {
		t.Fatal("mutating a loaded record leaked into the store")
	}
}

func TestSaveUnknownIdentity(t *testing.T) {
	local, _ := openTestLocal(t)

	err := local.Save(context.Background(), Identity{Email: "ghost@x.com"}, model.NewRecord("ghost@x.com", ""))
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("err = %v, want ErrWriteFailed", err)
	}
}
