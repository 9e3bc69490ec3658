package driver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenAuthority issues and validates the bearer tokens that gate every
// write route, and validates the HMAC API key that gates token issuance.
// Validation failures reject with 401 before any storage call is made.
type TokenAuthority struct {
	secret   []byte
	lifetime time.Duration
	logger   *slog.Logger
}

// NewTokenAuthority creates a TokenAuthority with the given signing secret
// and token lifetime.
func NewTokenAuthority(secret string, lifetime time.Duration, logger *slog.Logger) *TokenAuthority {
	return &TokenAuthority{
		secret:   []byte(secret),
		lifetime: lifetime,
		logger:   logger,
	}
}

// GenerateToken issues a signed HS256 token with an api_access scope.
// It returns the token and its expiry as unix seconds.
func (a *TokenAuthority) GenerateToken() (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(a.lifetime)

	claims := jwt.MapClaims{
		"scope": "api_access",
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", 0, fmt.Errorf("signing token: %w", err)
	}

	return token, expiresAt.Unix(), nil
}

// validateToken parses and verifies a bearer token, enforcing the HMAC
// signing method.
func (a *TokenAuthority) validateToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// expectedAPIKey computes the API key for a nonce: the hex HMAC-SHA256 of
// the nonce under the shared secret.
func (a *TokenAuthority) expectedAPIKey(nonce string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}

// RequireAPIKey guards a route with the pre-shared API key scheme: the
// client sends a nonce in x-nonce and the HMAC of that nonce in x-api-key.
func (a *TokenAuthority) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("x-api-key")
		nonce := r.Header.Get("x-nonce")

		if apiKey == "" || nonce == "" {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Missing x-api-key or x-nonce"})
			return
		}

		expected := a.expectedAPIKey(nonce)
		if !hmac.Equal([]byte(apiKey), []byte(expected)) {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Unauthorized: Invalid API key"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireToken guards a route with bearer token auth.
func (a *TokenAuthority) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 {
			a.logger.Warn("no bearer token provided", "path", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
			return
		}

		if err := a.validateToken(parts[1]); err != nil {
			a.logger.Warn("token validation failed", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Invalid token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
