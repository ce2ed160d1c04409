// Package syncer keeps one in-memory planner record mirrored into a
// store. The record is the single source of truth while a session is
// active; the store is a write-behind copy updated after each burst of
// mutations settles.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"studyplanner/internal/model"
	"studyplanner/internal/store"
)

// State is the controller's lifecycle phase.
type State int

const (
	// StateIdle means no identity is established.
	StateIdle State = iota
	// StateLoading means an identity is set but its record is still
	// being fetched.
	StateLoading
	// StateSynced means the record is loaded and mutations flow through.
	StateSynced
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSynced:
		return "synced"
	default:
		return "unknown"
	}
}

// ErrNoSession is returned when reading or mutating the record while no
// identity is established.
var ErrNoSession = errors.New("no active session")

// writeTimeout bounds a single background record write.
const writeTimeout = 15 * time.Second

// Controller owns the in-memory record and the debounced write-behind.
// Each mutation marks the record dirty and restarts the quiescence
// timer; when the timer fires, the full current record is written once.
// A failed write is logged and dropped; the next mutation's write is the
// de facto retry.
type Controller struct {
	store  store.Store
	window time.Duration
	logger *log.Logger

	mu       sync.Mutex
	state    State
	identity store.Identity
	record   *model.UserRecord
	dirty    bool
	timer    *time.Timer
}

// New creates a Controller writing through st after window of
// quiescence. If logger is nil, a default logger writing to stderr is
// used.
func New(st store.Store, window time.Duration, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	if window <= 0 {
		window = time.Second
	}
	return &Controller{
		store:  st,
		window: window,
		logger: logger,
		state:  StateIdle,
	}
}

// State reports the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity returns the established identity, if any.
func (c *Controller) Identity() (store.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.state != StateIdle
}

// Establish sets the identity and loads its record. On fetch failure the
// controller returns to idle and the identity is discarded.
func (c *Controller) Establish(ctx context.Context, id store.Identity) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("establish: session already active for %s", c.identity.Email)
	}
	c.state = StateLoading
	c.identity = id
	c.mu.Unlock()

	record, err := c.store.Load(ctx, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateIdle
		c.identity = store.Identity{}
		return fmt.Errorf("load record: %w", err)
	}

	record.Normalize()
	c.record = record
	c.dirty = false
	c.state = StateSynced
	return nil
}

// Mutate applies fn to the record, marks it dirty and (re)schedules the
// debounced write. fn runs under the controller's lock and must not
// block.
func (c *Controller) Mutate(fn func(*model.UserRecord)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSynced {
		return ErrNoSession
	}

	fn(c.record)
	c.dirty = true

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, c.writePending)
	return nil
}

// Snapshot returns a deep copy of the current record for read-side
// consumers.
func (c *Controller) Snapshot() (*model.UserRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateSynced {
		return nil, ErrNoSession
	}
	return c.record.Clone(), nil
}

// Flush writes the record immediately if a write is pending. Used at
// logout and shutdown so the debounce window cannot swallow the final
// burst of edits.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateSynced || !c.dirty {
		c.mu.Unlock()
		return nil
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	snapshot := c.record.Clone()
	id := c.identity
	c.dirty = false
	c.mu.Unlock()

	if err := c.store.Save(ctx, id, snapshot); err != nil {
		return fmt.Errorf("flush record: %w", err)
	}
	return nil
}

// Reset returns the controller to idle, discarding the record and any
// pending write. The stored record is left untouched.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = StateIdle
	c.identity = store.Identity{}
	c.record = nil
	c.dirty = false
}

// writePending is the debounce timer callback: snapshot under the lock,
// write outside it. A mutation that lands while the write is in flight
// re-marks dirty and schedules its own write.
func (c *Controller) writePending() {
	c.mu.Lock()
	if c.state != StateSynced || !c.dirty {
		c.mu.Unlock()
		return
	}
	snapshot := c.record.Clone()
	id := c.identity
	c.dirty = false
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := c.store.Save(ctx, id, snapshot); err != nil {
		c.logger.Printf("record write for %s dropped: %v", id.Email, err)
	}
}
