// Package pomodoro implements the focus countdown: a single-threaded
// one-second tick alternating study and break segments.
package pomodoro

import (
	"fmt"
	"sync"
	"time"

	"studyplanner/internal/model"
)

// Settings holds the configured segment durations in minutes. Both must
// be positive.
type Settings struct {
	StudyMinutes int
	BreakMinutes int
}

// Validate reports whether the durations are usable.
func (s Settings) Validate() error {
	if s.StudyMinutes <= 0 || s.BreakMinutes <= 0 {
		return fmt.Errorf("segment durations must be positive")
	}
	return nil
}

// minutes returns the configured duration for a mode.
func (s Settings) minutes(mode model.SegmentType) int {
	if mode == model.SegmentBreak {
		return s.BreakMinutes
	}
	return s.StudyMinutes
}

// CompletionFunc is called once per segment that runs to zero, with the
// finished segment's type and configured duration.
type CompletionFunc func(typ model.SegmentType, minutes int)

// Engine is the countdown state machine. Completing a segment reports it
// through the completion callback, flips the mode, reloads the new
// mode's duration and stops.
type Engine struct {
	mu         sync.Mutex
	settings   Settings
	mode       model.SegmentType
	timeLeft   int // seconds
	running    bool
	cancel     chan struct{}
	onComplete CompletionFunc
}

// New creates an Engine in study mode with the countdown loaded.
func New(settings Settings, onComplete CompletionFunc) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		settings:   settings,
		mode:       model.SegmentStudy,
		timeLeft:   settings.StudyMinutes * 60,
		onComplete: onComplete,
	}, nil
}

// Mode returns the active segment type.
func (e *Engine) Mode() model.SegmentType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// TimeLeft returns the remaining seconds of the active segment.
func (e *Engine) TimeLeft() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeLeft
}

// Running reports whether the countdown is ticking.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Settings returns the configured durations.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Start begins ticking. No-op if already running. Any ticker left over
// from an earlier run is cancelled first so seconds are never counted
// twice.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.stopTickerLocked()
	cancel := make(chan struct{})
	e.cancel = cancel
	e.running = true
	e.mu.Unlock()

	go e.run(cancel)
}

// Pause stops ticking, keeping the remaining time.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.stopTickerLocked()
}

// Reset stops ticking and restores the active mode's configured
// duration.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.stopTickerLocked()
	e.timeLeft = e.settings.minutes(e.mode) * 60
}

// SwitchMode stops the countdown and loads the other segment's duration.
func (e *Engine) SwitchMode(mode model.SegmentType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.stopTickerLocked()
	e.mode = mode
	e.timeLeft = e.settings.minutes(mode) * 60
}

// Configure replaces the durations. Rejected while running; while idle
// the displayed countdown immediately reflects the new value for the
// active mode.
func (e *Engine) Configure(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return fmt.Errorf("cannot change durations while the timer is running")
	}
	e.settings = settings
	e.timeLeft = settings.minutes(e.mode) * 60
	return nil
}

// Tick advances the countdown by one second. Reaching zero completes the
// segment. Returns false once the engine is no longer running, so the
// ticker loop knows to exit.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return false
	}

	e.timeLeft--
	if e.timeLeft > 0 {
		e.mu.Unlock()
		return true
	}

	finished := e.mode
	minutes := e.settings.minutes(finished)

	next := model.SegmentBreak
	if finished == model.SegmentBreak {
		next = model.SegmentStudy
	}
	e.mode = next
	e.timeLeft = e.settings.minutes(next) * 60
	e.running = false
	e.stopTickerLocked()
	onComplete := e.onComplete
	e.mu.Unlock()

	if onComplete != nil {
		onComplete(finished, minutes)
	}
	return false
}

// run drives Tick once per elapsed second until cancelled or stopped.
func (e *Engine) run(cancel chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if !e.Tick() {
				return
			}
		}
	}
}

// stopTickerLocked cancels a pending ticker goroutine. Callers hold
// e.mu.
func (e *Engine) stopTickerLocked() {
	if e.cancel != nil {
		close(e.cancel)
		e.cancel = nil
	}
}
