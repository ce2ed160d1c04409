package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"studyplanner/internal/model"
)

// localUser is one entry in the on-disk namespace.
type localUser struct {
	PasswordHash string            `json:"passwordHash"`
	Record       *model.UserRecord `json:"record"`
}

// Local is a file-backed Store: a single JSON file mapping email to
// credential hash and record. All operations are synchronous.
type Local struct {
	mu    sync.Mutex
	path  string
	users map[string]*localUser
}

// OpenLocal loads the namespace at path, starting empty if the file does
// not exist yet.
func OpenLocal(path string) (*Local, error) {
	l := &Local{path: path, users: make(map[string]*localUser)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return l, nil
	case err != nil:
		return nil, fmt.Errorf("read local store: %w", err)
	}

	if err := json.Unmarshal(data, &l.users); err != nil {
		return nil, fmt.Errorf("decode local store %s: %w", path, err)
	}
	return l, nil
}

func (l *Local) Register(ctx context.Context, email, password, name string) (Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.users[email]; exists {
		return Identity{}, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	l.users[email] = &localUser{
		PasswordHash: string(hash),
		Record:       model.NewRecord(email, name),
	}
	if err := l.persist(); err != nil {
		delete(l.users, email)
		return Identity{}, err
	}

	return Identity{Email: email, Name: name, Token: email}, nil
}

func (l *Local) Login(ctx context.Context, email, password string) (Identity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, exists := l.users[email]
	if !exists {
		return Identity{}, ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredential
	}

	name := ""
	if user.Record != nil {
		name = user.Record.UserName
	}
	return Identity{Email: email, Name: name, Token: email}, nil
}

func (l *Local) Load(ctx context.Context, id Identity) (*model.UserRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, exists := l.users[id.Email]
	if !exists {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, id.Email, ErrUserNotFound)
	}

	record := user.Record
	if record == nil {
		record = model.NewRecord(id.Email, id.Name)
	}
	record = record.Clone()
	record.Normalize()
	return record, nil
}

func (l *Local) Save(ctx context.Context, id Identity, record *model.UserRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, exists := l.users[id.Email]
	if !exists {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, id.Email, ErrUserNotFound)
	}

	user.Record = record.Clone()
	if err := l.persist(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// persist writes the namespace atomically: temp file then rename.
// Callers hold l.mu.
func (l *Local) persist() error {
	data, err := json.MarshalIndent(l.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}

	dir := filepath.Dir(l.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir %q: %w", dir, err)
		}
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace local store: %w", err)
	}
	return nil
}
