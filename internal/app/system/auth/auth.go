// internal/app/system/auth/auth.go

// Package auth issues and verifies the bearer tokens the JSON API
// uses. Tokens are HS256 JWTs carrying only the user id; the
// middleware re-fetches the user on every request so disabled
// accounts lose access immediately.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/texthub/internal/app/store/users"
	"github.com/dalemusser/texthub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	tokenIssuer   = "texthub"
	tokenAudience = "texthub-api"
)

// TokenIssuer mints and verifies API tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for userID.
func (ti *TokenIssuer) Issue(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// Verify parses a token and returns the user id it was issued for.
func (ti *TokenIssuer) Verify(token string) (primitive.ObjectID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return primitive.NilObjectID, err
	}
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	return primitive.ObjectIDFromHex(claims.Subject)
}

type ctxKey struct{}

// CurrentUser returns the authenticated user the middleware stored on
// the request context.
func CurrentUser(r *http.Request) (models.User, bool) {
	u, ok := r.Context().Value(ctxKey{}).(models.User)
	return u, ok
}

// Middleware authenticates API requests.
type Middleware struct {
	issuer *TokenIssuer
	users  *userstore.Store
	log    *zap.Logger
}

func NewMiddleware(issuer *TokenIssuer, users *userstore.Store, logger *zap.Logger) *Middleware {
	return &Middleware{issuer: issuer, users: users, log: logger}
}

// RequireUser rejects requests without a valid bearer token for an
// active user, and otherwise stores the user on the context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(raw, prefix) {
			unauthorized(w, "missing bearer token")
			return
		}

		userID, err := m.issuer.Verify(strings.TrimSpace(raw[len(prefix):]))
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		u, err := m.users.GetByID(r.Context(), userID)
		if err != nil || u.Status != "active" {
			unauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

// WithTestUser stores a user on the request context directly,
// bypassing token verification. For handler tests only.
func WithTestUser(r *http.Request, u models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
