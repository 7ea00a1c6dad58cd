// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/gigmarket/internal/cache"
)

const (
	// CookieName is the cookie checked when no bearer token is sent.
	CookieName = "session"

	// DefaultTimeout is the lifetime of issued tokens.
	DefaultTimeout = 24 * time.Hour

	resolvedCacheSize = 10000
	resolvedCacheTTL  = 5 * time.Minute
)

// Claims are the JWT claims of a session token. The subject is the user id.
type Claims struct {
	Role  Role   `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver validates HS256 session tokens. Resolved sessions are cached
// in-process keyed by the token hash, so repeat requests skip verification.
type JWTResolver struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
	cookie  string
	cache   *cache.Local[Session]
}

// NewJWTResolver creates a resolver. secret must not be empty.
func NewJWTResolver(secret string, timeout time.Duration) (*JWTResolver, error) {
	return NewJWTResolverWithClock(secret, timeout, time.Now)
}

// NewJWTResolverWithClock creates a resolver with an injected clock.
func NewJWTResolverWithClock(secret string, timeout time.Duration, now func() time.Time) (*JWTResolver, error) {
	if secret == "" {
		return nil, errors.New("session: JWT secret is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &JWTResolver{
		secret:  []byte(secret),
		timeout: timeout,
		now:     now,
		cookie:  CookieName,
		cache:   cache.NewLocalWithClock[Session](resolvedCacheSize, resolvedCacheTTL, now),
	}, nil
}

// WithCookieName changes the cookie read when no bearer token is sent.
func (j *JWTResolver) WithCookieName(name string) *JWTResolver {
	if name != "" {
		j.cookie = name
	}
	return j
}

// PurgeExpired drops cached sessions past their TTL and returns how many
// were removed.
func (j *JWTResolver) PurgeExpired(context.Context) (int, error) {
	return j.cache.CleanupExpired(), nil
}

// Issue mints a token for u.
func (j *JWTResolver) Issue(u User) (string, error) {
	if !u.Role.Valid() {
		return "", fmt.Errorf("session: unknown role %q", u.Role)
	}
	now := j.now()
	claims := &Claims{
		Role:  u.Role,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Resolve implements Resolver.
func (j *JWTResolver) Resolve(r *http.Request) (*Session, error) {
	token := extractToken(r, j.cookie)
	if token == "" {
		return nil, ErrNoCredentials
	}

	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])
	if s, ok := j.cache.Get(key); ok {
		if j.now().Before(s.ExpiresAt) {
			return &s, nil
		}
		j.cache.Delete(key)
		return nil, ErrExpiredCredentials
	}

	s, err := j.parse(token)
	if err != nil {
		return nil, err
	}
	j.cache.SetWithTTL(key, *s, s.ExpiresAt.Sub(j.now()))
	return s, nil
}

func (j *JWTResolver) parse(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidCredentials
	}

	return &Session{
		User:      User{ID: claims.Subject, Role: claims.Role, Email: claims.Email},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func extractToken(r *http.Request, cookie string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	if c, err := r.Cookie(cookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}
