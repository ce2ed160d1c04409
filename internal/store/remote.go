package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studyplanner/internal/model"
)

// Remote is a Store backed by the REST API. Every record call carries
// the identity's bearer token.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates a Remote store for the backend at baseURL
// (e.g. "http://localhost:5000"). If client is nil a default client
// with a 15s timeout is used.
func NewRemote(baseURL string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type authPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserName string `json:"userName,omitempty"`
}

type authResult struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Error    string `json:"error"`
}

func (r *Remote) Register(ctx context.Context, email, password, name string) (Identity, error) {
	return r.authenticate(ctx, "/api/auth/register", authPayload{Email: email, Password: password, UserName: name})
}

func (r *Remote) Login(ctx context.Context, email, password string) (Identity, error) {
	return r.authenticate(ctx, "/api/auth/login", authPayload{Email: email, Password: password})
}

func (r *Remote) authenticate(ctx context.Context, path string, payload authPayload) (Identity, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Identity{}, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Identity{}, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	var result authResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return Identity{}, fmt.Errorf("decode auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Identity{}, authError(result.Error, resp.StatusCode)
	}

	return Identity{Email: payload.Email, Name: result.UserName, Token: result.Token}, nil
}

// authError maps the backend's error strings onto the store sentinels.
func authError(msg string, status int) error {
	switch msg {
	case "User already exists":
		return ErrDuplicateUser
	case "User not found":
		return ErrUserNotFound
	case "Invalid password":
		return ErrInvalidCredential
	default:
		return fmt.Errorf("auth failed: status %d: %s", status, msg)
	}
}

func (r *Remote) Load(ctx context.Context, id Identity) (*model.UserRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/data", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+id.Token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var record model.UserRecord
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRecordBytes)).Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: decode record: %v", ErrFetchFailed, err)
	}
	record.Normalize()
	return &record, nil
}

func (r *Remote) Save(ctx context.Context, id Identity, record *model.UserRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", ErrWriteFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/data", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+id.Token)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrWriteFailed, resp.StatusCode)
	}
	return nil
}

// maxRecordBytes bounds a fetched record; matches the backend's body cap.
const maxRecordBytes = 10 << 20
