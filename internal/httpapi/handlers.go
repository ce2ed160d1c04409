package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"studyplanner/internal/model"
	"studyplanner/internal/repository"
)

// maxBodyBytes bounds request bodies; note images are capped at 2 MB
// decoded, so 10 MB leaves room for the rest of the record.
const maxBodyBytes = 10 << 20

type contextKey string

const accountIDKey contextKey = "accountID"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserName string `json:"userName"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Printf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	record, err := json.Marshal(model.NewRecord(creds.Email, creds.UserName))
	if err != nil {
		s.logger.Printf("marshal empty record: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	account, err := s.accounts.Create(r.Context(), creds.Email, string(hash), creds.UserName, record)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	case err != nil:
		s.logger.Printf("create account: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.issueToken(w, account)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.accounts.FindByEmail(r.Context(), creds.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeError(w, http.StatusBadRequest, "User not found")
		return
	case err != nil:
		s.logger.Printf("find account: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)) != nil {
		writeError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	s.issueToken(w, account)
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.FindByID(r.Context(), accountID(r))
	if err != nil {
		s.logger.Printf("load account: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var record model.UserRecord
	if len(account.Record) > 0 {
		if err := json.Unmarshal(account.Record, &record); err != nil {
			s.logger.Printf("decode stored record for %s: %v", account.Email, err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	record.Normalize()
	record.Email = account.Email
	if record.UserName == "" {
		record.UserName = account.UserName
	}

	writeJSON(w, http.StatusOK, &record)
}

func (s *Server) handlePostData(w http.ResponseWriter, r *http.Request) {
	var record model.UserRecord
	if err := decodeBody(w, r, &record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw, err := json.Marshal(&record)
	if err != nil {
		s.logger.Printf("encode record: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.accounts.SaveRecord(r.Context(), accountID(r), raw); err != nil {
		s.logger.Printf("save record: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Sync successful"})
}

// authenticate verifies the bearer token and stashes the account id in
// the request context. Missing token is 401, bad token 403.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		id, err := s.verifyToken(token)
		if err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) issueToken(w http.ResponseWriter, account *model.Account) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": float64(account.ID),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Printf("sign token: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: signed, UserName: account.UserName})
}

func (s *Server) verifyToken(raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("unexpected claims type")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, fmt.Errorf("missing id claim")
	}
	return uint(id), nil
}

func accountID(r *http.Request) uint {
	id, _ := r.Context().Value(accountIDKey).(uint)
	return id
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
