package planner

import (
	"errors"
	"testing"

	"studyplanner/internal/model"
)

func TestAssignmentAddDefaults(t *testing.T) {
	as := NewAssignments(newSyncedController(t))

	task, err := as.Add(AssignmentInput{Title: "Essay", Subject: "English", DueDate: "2026-09-10"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.Completed {
		t.Fatal("new assignment starts completed")
	}
	if task.Priority != model.PriorityMedium {
		t.Fatalf("priority = %q, want default Medium", task.Priority)
	}
}

func TestToggleCompleteTwiceRestoresFlag(t *testing.T) {
	as := NewAssignments(newSyncedController(t))

	task, err := as.Add(AssignmentInput{Title: "Essay", DueDate: "2026-09-10"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	once, err := as.ToggleComplete(task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !once.Completed {
		t.Fatal("first toggle did not complete")
	}

	twice, err := as.ToggleComplete(task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if twice.Completed != task.Completed {
		t.Fatalf("double toggle: completed = %v, want original %v", twice.Completed, task.Completed)
	}
}

func TestUpdatePreservesCompletedFlag(t *testing.T) {
	as := NewAssignments(newSyncedController(t))

	task, err := as.Add(AssignmentInput{Title: "Essay", DueDate: "2026-09-10"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := as.ToggleComplete(task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	updated, err := as.Update(task.ID, AssignmentInput{Title: "Longer essay", DueDate: "2026-09-12", Priority: model.PriorityHigh})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed {
		t.Fatal("update clobbered the completed flag")
	}
	if updated.Title != "Longer essay" || updated.Priority != model.PriorityHigh {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestToggleAbsentID(t *testing.T) {
	as := NewAssignments(newSyncedController(t))

	if _, err := as.ToggleComplete("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPendingSortedByDueDate(t *testing.T) {
	as := NewAssignments(newSyncedController(t))

	add := func(title, due string) {
		t.Helper()
		if _, err := as.Add(AssignmentInput{Title: title, DueDate: due}); err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
	}
	add("Late", "2026-12-01")
	add("Soon", "2026-09-05")
	add("Middle", "2026-10-20")

	pending, err := as.Pending()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}

	want := []string{"Soon", "Middle", "Late"}
	if len(pending) != len(want) {
		t.Fatalf("pending = %d items, want %d", len(pending), len(want))
	}
	for i, title := range want {
		if pending[i].Title != title {
			t.Fatalf("pending[%d] = %q, want %q", i, pending[i].Title, title)
		}
	}
}

func TestCompletedExcludedFromPending(t *testing.T) {
	as := NewAssignments(newSyncedController(t))

	done, err := as.Add(AssignmentInput{Title: "Done", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := as.Add(AssignmentInput{Title: "Open", DueDate: "2026-09-02"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := as.ToggleComplete(done.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	pending, err := as.Pending()
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "Open" {
		t.Fatalf("pending = %+v, want only Open", pending)
	}

	completed, err := as.Completed()
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(completed) != 1 || completed[0].Title != "Done" {
		t.Fatalf("completed = %+v, want only Done", completed)
	}
}
