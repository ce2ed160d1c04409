package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"studyplanner/internal/model"
	"studyplanner/internal/store"
)

// fakeStore records saves and can be told to fail.
type fakeStore struct {
	mu       sync.Mutex
	record   *model.UserRecord
	saves    []*model.UserRecord
	failLoad bool
	failSave bool
}

func (f *fakeStore) Register(ctx context.Context, email, password, name string) (store.Identity, error) {
	return store.Identity{Email: email, Name: name, Token: email}, nil
}

func (f *fakeStore) Login(ctx context.Context, email, password string) (store.Identity, error) {
	return store.Identity{Email: email, Token: email}, nil
}

func (f *fakeStore) Load(ctx context.Context, id store.Identity) (*model.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLoad {
		return nil, fmt.Errorf("%w: boom", store.ErrFetchFailed)
	}
	if f.record == nil {
		return model.NewRecord(id.Email, id.Name), nil
	}
	return f.record.Clone(), nil
}

func (f *fakeStore) Save(ctx context.Context, id store.Identity, record *model.UserRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return fmt.Errorf("%w: boom", store.ErrWriteFailed)
	}
	f.saves = append(f.saves, record.Clone())
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) lastSave() *model.UserRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

func newSyncedController(t *testing.T, fs *fakeStore, window time.Duration) *Controller {
	t.Helper()

	ctrl := New(fs, window, nil)
	id := store.Identity{Email: "a@x.com", Name: "Ann", Token: "a@x.com"}
	if err := ctrl.Establish(context.Background(), id); err != nil {
		t.Fatalf("establish: %v", err)
	}
	return ctrl
}

func TestEstablishTransitionsToSynced(t *testing.T) {
	fs := &fakeStore{}
	ctrl := newSyncedController(t, fs, time.Second)

	if got := ctrl.State(); got != StateSynced {
		t.Fatalf("state = %v, want %v", got, StateSynced)
	}

	record, err := ctrl.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if record.Timetable == nil || record.Assignments == nil || record.TimerHistory == nil {
		t.Fatal("loaded record has nil collections")
	}
}

func TestEstablishNormalizesPartialRecord(t *testing.T) {
	fs := &fakeStore{record: &model.UserRecord{UserName: "Ann"}}
	ctrl := newSyncedController(t, fs, time.Second)

	record, err := ctrl.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if record.Notes == nil || record.Exams == nil {
		t.Fatal("missing fields not defaulted")
	}
	if record.Theme != "light" {
		t.Fatalf("theme = %q, want light", record.Theme)
	}
}

func TestEstablishFetchFailureReturnsToIdle(t *testing.T) {
	fs := &fakeStore{failLoad: true}
	ctrl := New(fs, time.Second, nil)

	err := ctrl.Establish(context.Background(), store.Identity{Email: "a@x.com"})
	if !errors.Is(err, store.ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
	if got := ctrl.State(); got != StateIdle {
		t.Fatalf("state = %v, want %v", got, StateIdle)
	}
	if _, ok := ctrl.Identity(); ok {
		t.Fatal("identity kept after failed fetch")
	}
}

func TestMutateWithoutSession(t *testing.T) {
	ctrl := New(&fakeStore{}, time.Second, nil)

	err := ctrl.Mutate(func(r *model.UserRecord) { r.Theme = "dark" })
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if _, err := ctrl.Snapshot(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("snapshot err = %v, want ErrNoSession", err)
	}
}

func TestDebounceCollapsesBurstToOneWrite(t *testing.T) {
	fs := &fakeStore{}
	ctrl := newSyncedController(t, fs, 30*time.Millisecond)

	for i := 0; i < 10; i++ {
		theme := fmt.Sprintf("theme-%d", i)
		if err := ctrl.Mutate(func(r *model.UserRecord) { r.Theme = theme }); err != nil {
			t.Fatalf("mutate %d: %v", i, err)
		}
	}

	time.Sleep(150 * time.Millisecond)

	if got := fs.saveCount(); got != 1 {
		t.Fatalf("saves = %d, want 1", got)
	}
	if got := fs.lastSave().Theme; got != "theme-9" {
		t.Fatalf("written theme = %q, want state after last mutation", got)
	}
}

func TestSeparateBurstsWriteSeparately(t *testing.T) {
	fs := &fakeStore{}
	ctrl := newSyncedController(t, fs, 20*time.Millisecond)

	if err := ctrl.Mutate(func(r *model.UserRecord) { r.Theme = "dark" }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := ctrl.Mutate(func(r *model.UserRecord) { r.UserName = "Ann" }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if got := fs.saveCount(); got != 2 {
		t.Fatalf("saves = %d, want 2", got)
	}
}

func TestFailedWriteIsDroppedAndNextMutationRetries(t *testing.T) {
	fs := &fakeStore{failSave: true}
	ctrl := newSyncedController(t, fs, 20*time.Millisecond)

	if err := ctrl.Mutate(func(r *model.UserRecord) { r.Theme = "dark" }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if got := fs.saveCount(); got != 0 {
		t.Fatalf("saves = %d, want 0 while store is failing", got)
	}
	if got := ctrl.State(); got != StateSynced {
		t.Fatalf("state = %v after dropped write, want %v", got, StateSynced)
	}

	fs.mu.Lock()
	fs.failSave = false
	fs.mu.Unlock()

	if err := ctrl.Mutate(func(r *model.UserRecord) { r.UserName = "Ann" }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	last := fs.lastSave()
	if last == nil {
		t.Fatal("no save after store recovered")
	}
	if last.Theme != "dark" || last.UserName != "Ann" {
		t.Fatalf("retry wrote %q/%q, want full current state", last.Theme, last.UserName)
	}
}

func TestFlushWritesPendingImmediately(t *testing.T) {
	fs := &fakeStore{}
	ctrl := newSyncedController(t, fs, time.Hour)

	if err := ctrl.Mutate(func(r *model.UserRecord) { r.Theme = "dark" }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if err := ctrl.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if got := fs.saveCount(); got != 1 {
		t.Fatalf("saves = %d, want 1", got)
	}

	// Nothing pending: a second flush is a no-op.
	if err := ctrl.Flush(context.Background()); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if got := fs.saveCount(); got != 1 {
		t.Fatalf("saves after no-op flush = %d, want 1", got)
	}
}

func TestResetDiscardsPendingWrite(t *testing.T) {
	fs := &fakeStore{}
	ctrl := newSyncedController(t, fs, 20*time.Millisecond)

	if err := ctrl.Mutate(func(r *model.UserRecord) { r.Theme = "dark" }); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	ctrl.Reset()

	time.Sleep(100 * time.Millisecond)

	if got := fs.saveCount(); got != 0 {
		t.Fatalf("saves = %d after reset, want 0", got)
	}
	if got := ctrl.State(); got != StateIdle {
		t.Fatalf("state = %v, want %v", got, StateIdle)
	}
}
