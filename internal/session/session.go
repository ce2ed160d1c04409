// Package session tracks the current identity and its lifecycle:
// register, login, resume and logout, with the identity marker persisted
// so a later process start can pick the session back up.
package session

import (
	"context"
	"log"
	"os"

	"studyplanner/internal/model"
	"studyplanner/internal/prefs"
	"studyplanner/internal/store"
	"studyplanner/internal/syncer"
)

// Session drives the controller's lifecycle from authentication events.
type Session struct {
	store  store.Store
	ctrl   *syncer.Controller
	prefs  *prefs.Manager
	logger *log.Logger
}

// New creates a Session. If logger is nil, a default logger writing to
// stderr is used.
func New(st store.Store, ctrl *syncer.Controller, pm *prefs.Manager, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(os.Stderr, "[session] ", log.LstdFlags)
	}
	return &Session{store: st, ctrl: ctrl, prefs: pm, logger: logger}
}

// Register creates a new identity with an empty record and establishes
// the session.
func (s *Session) Register(ctx context.Context, email, password, name string) (store.Identity, error) {
	id, err := s.store.Register(ctx, email, password, name)
	if err != nil {
		return store.Identity{}, err
	}
	return s.establish(ctx, id)
}

// Login authenticates an existing identity and establishes the session.
func (s *Session) Login(ctx context.Context, email, password string) (store.Identity, error) {
	id, err := s.store.Login(ctx, email, password)
	if err != nil {
		return store.Identity{}, err
	}
	return s.establish(ctx, id)
}

// Resume re-establishes a previously persisted identity without
// credentials. It reports false when no identity marker exists or the
// record fetch fails; a failed fetch degrades to signed-out rather than
// an error the caller must handle.
func (s *Session) Resume(ctx context.Context) (store.Identity, bool) {
	p := s.prefs.Get()
	if p.CurrentUser == "" {
		return store.Identity{}, false
	}

	id := store.Identity{Email: p.CurrentUser, Token: p.Token}
	if id.Token == "" {
		id.Token = id.Email
	}

	if err := s.ctrl.Establish(ctx, id); err != nil {
		s.logger.Printf("resume for %s failed: %v", id.Email, err)
		s.clearMarker()
		return store.Identity{}, false
	}
	return id, true
}

// Logout flushes any pending write, clears the session identity and
// resets the in-memory state. The stored record is kept.
func (s *Session) Logout(ctx context.Context) {
	if err := s.ctrl.Flush(ctx); err != nil {
		s.logger.Printf("flush on logout: %v", err)
	}
	s.ctrl.Reset()
	s.clearMarker()
}

// Current reports the established identity, if any.
func (s *Session) Current() (store.Identity, bool) {
	return s.ctrl.Identity()
}

// SetTheme updates the theme in the synced record and caches it locally
// so the next start renders correctly before login completes.
func (s *Session) SetTheme(theme string) error {
	if err := s.ctrl.Mutate(func(r *model.UserRecord) { r.Theme = theme }); err != nil {
		return err
	}
	return s.prefs.Update(func(p *prefs.Prefs) { p.Theme = theme })
}

// SetUserName updates the display name in the synced record.
func (s *Session) SetUserName(name string) error {
	return s.ctrl.Mutate(func(r *model.UserRecord) { r.UserName = name })
}

func (s *Session) establish(ctx context.Context, id store.Identity) (store.Identity, error) {
	if err := s.ctrl.Establish(ctx, id); err != nil {
		return store.Identity{}, err
	}
	if err := s.prefs.Update(func(p *prefs.Prefs) {
		p.CurrentUser = id.Email
		p.Token = id.Token
	}); err != nil {
		s.logger.Printf("persist identity marker: %v", err)
	}
	return id, nil
}

func (s *Session) clearMarker() {
	if err := s.prefs.Update(func(p *prefs.Prefs) {
		p.CurrentUser = ""
		p.Token = ""
	}); err != nil {
		s.logger.Printf("clear identity marker: %v", err)
	}
}
