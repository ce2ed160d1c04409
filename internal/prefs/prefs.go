// Package prefs persists device-local keys that live outside the synced
// record: the current-identity pointer, the cached theme, and the timer
// durations.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Prefs are the local-only settings for this device.
type Prefs struct {
	CurrentUser  string `json:"currentUser"`
	Token        string `json:"token,omitempty"`
	Theme        string `json:"theme"`
	StudyMinutes int    `json:"studyMinutes"`
	BreakMinutes int    `json:"breakMinutes"`
}

// Default returns the out-of-the-box preferences: light theme, classic
// 25/5 pomodoro split.
func Default() Prefs {
	return Prefs{
		Theme:        "light",
		StudyMinutes: 25,
		BreakMinutes: 5,
	}
}

// Manager loads and saves the preferences file.
type Manager struct {
	path  string
	prefs Prefs
}

// NewManager reads the preferences at path, falling back to defaults if
// the file does not exist or cannot be parsed.
func NewManager(path string) (*Manager, error) {
	m := &Manager{path: path, prefs: Default()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("read prefs: %w", err)
	}

	var loaded Prefs
	if err := json.Unmarshal(data, &loaded); err != nil {
		// A corrupt prefs file is not worth failing startup over.
		return m, nil
	}
	if loaded.Theme == "" {
		loaded.Theme = "light"
	}
	if loaded.StudyMinutes <= 0 {
		loaded.StudyMinutes = Default().StudyMinutes
	}
	if loaded.BreakMinutes <= 0 {
		loaded.BreakMinutes = Default().BreakMinutes
	}
	m.prefs = loaded
	return m, nil
}

// Get returns a copy of the current preferences.
func (m *Manager) Get() Prefs {
	return m.prefs
}

// Update applies fn to the preferences and saves the file.
func (m *Manager) Update(fn func(*Prefs)) error {
	fn(&m.prefs)
	return m.save()
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(&m.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	dir := filepath.Dir(m.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create prefs dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
