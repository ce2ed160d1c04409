package planner

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"studyplanner/internal/store"
	"studyplanner/internal/syncer"
)

// newSyncedController registers a fresh user in a temporary local store
// and returns a controller in the synced state. The debounce window is
// long enough that no background write fires during a test.
func newSyncedController(t *testing.T) *syncer.Controller {
	t.Helper()

	local, err := store.OpenLocal(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}

	ctx := context.Background()
	id, err := local.Register(ctx, "a@x.com", "pw", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	ctrl := syncer.New(local, time.Hour, log.New(io.Discard, "", 0))
	if err := ctrl.Establish(ctx, id); err != nil {
		t.Fatalf("establish: %v", err)
	}
	return ctrl
}
