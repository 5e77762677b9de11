// internal/app/features/usersapi/handler.go

// Package usersapi covers account registration and login. Identity is
// a phone number; a successful login issues the bearer token the rest
// of the API requires.
package usersapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/texthub/internal/app/store/users"
	"github.com/dalemusser/texthub/internal/app/system/auth"
	"github.com/dalemusser/texthub/internal/app/system/timeouts"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"go.uber.org/zap"
)

type Handler struct {
	Users  *userstore.Store
	Issuer *auth.TokenIssuer
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, issuer *auth.TokenIssuer, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Issuer: issuer, Log: logger}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type registerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Token  string `json:"token"`
}

// HandleRegister handles POST /users/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" || req.Password == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, phone, and password are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, req.Name, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, faults.ErrDuplicatePhone) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		h.Log.Error("register failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	token, err := h.Issuer.Issue(u.ID)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.writeJSON(w, http.StatusCreated, authResponse{
		UserID: u.ID.Hex(),
		Name:   u.Name,
		Phone:  u.Phone,
		Token:  token,
	})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// HandleLogin handles POST /users/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, faults.ErrInvalidCredentials) {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		h.Log.Error("login failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	token, err := h.Issuer.Issue(u.ID)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.writeJSON(w, http.StatusOK, authResponse{
		UserID: u.ID.Hex(),
		Name:   u.Name,
		Phone:  u.Phone,
		Token:  token,
	})
}
