// Package auth issues and verifies operator session JWTs and provides the
// chi middleware guarding operator-only endpoints.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the operator session payload.
type Claims struct {
	OperatorID string `json:"operator_id"`
	Email      string `json:"email"`
	gojwt.RegisteredClaims
}

type ctxKey string

const claimsCtxKey ctxKey = "operator_claims"

// Auth holds the operator session signing secret. The secret is injected at
// construction; there is no package-level state.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

// New returns an Auth issuing sessions valid for ttl.
func New(secret []byte, ttl time.Duration) (*Auth, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: secret is required")
	}
	return &Auth{secret: secret, ttl: ttl}, nil
}

// Generate creates a signed session token for the given operator.
func (a *Auth) Generate(operatorID, email string) (string, error) {
	claims := Claims{
		OperatorID: operatorID,
		Email:      email,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   operatorID,
			IssuedAt:  gojwt.NewNumericDate(time.Now()),
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(a.ttl)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Validate parses and verifies a raw session token.
func (a *Auth) Validate(raw string) (*Claims, error) {
	token, err := gojwt.ParseWithClaims(raw, &Claims{}, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// ---- HTTP Middleware ----

// OptionalAuth extracts operator claims into context if a Bearer token is
// present. Requests without a token pass through (claims will be nil).
func (a *Auth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			if claims, err := a.Validate(h[7:]); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsCtxKey, claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests that have no valid operator session in context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetClaims(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":"unauthenticated","message":"operator session required"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the parsed operator claims from context (nil if absent).
func GetClaims(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsCtxKey).(*Claims)
	return c
}
