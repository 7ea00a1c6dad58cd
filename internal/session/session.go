// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package session

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"
)

// Role is a marketplace account role.
type Role string

const (
	RoleFreelancer Role = "FREELANCER"
	RoleEmployer   Role = "EMPLOYER"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleFreelancer, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// User is the identity carried by a session.
type User struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Email string `json:"email,omitempty"`
}

// Session is a resolved, valid sign-in.
type Session struct {
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HasRole reports whether the session's role is one of roles.
func (s *Session) HasRole(roles ...Role) bool {
	return s != nil && slices.Contains(roles, s.User.Role)
}

var (
	// ErrNoCredentials means the request carried no session token.
	ErrNoCredentials = errors.New("session: no credentials")
	// ErrInvalidCredentials means a token was present but failed validation.
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	// ErrExpiredCredentials means the token was valid but has expired.
	ErrExpiredCredentials = errors.New("session: expired credentials")
)

// Resolver extracts the session of a request.
type Resolver interface {
	Resolve(r *http.Request) (*Session, error)
}

type contextKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// UserID returns the session user id of r, or "" when unauthenticated.
func UserID(r *http.Request) string {
	if s, ok := FromContext(r.Context()); ok {
		return s.User.ID
	}
	return ""
}
