// Package httpapi serves the planner's REST backend: credential routes
// that issue bearer tokens and data routes that read and replace one
// full planner record per account.
package httpapi

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"studyplanner/internal/repository"
)

// Server wires the auth and data routes over an account repository.
type Server struct {
	accounts *repository.AccountRepository
	secret   []byte
	logger   *log.Logger
	httpSrv  *http.Server
}

// New creates a Server. If logger is nil, a default logger writing to
// stderr is used.
func New(accounts *repository.AccountRepository, jwtSecret string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stderr, "[httpapi] ", log.LstdFlags)
	}
	return &Server{
		accounts: accounts,
		secret:   []byte(jwtSecret),
		logger:   logger,
	}
}

// Handler returns the route table. Exposed separately from Start so
// tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/data", s.authenticate(http.HandlerFunc(s.handleGetData)))
	mux.Handle("POST /api/data", s.authenticate(http.HandlerFunc(s.handlePostData)))
	return mux
}

// Start begins serving on addr and blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Printf("listening on %s", addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
