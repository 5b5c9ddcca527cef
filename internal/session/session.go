// Package session carries the acting user through a request. State is
// created per request by middleware and cleared when the request ends;
// nothing about the session is kept in package-level variables.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNoSession           = errors.New("no session in context")
	ErrImpersonationDenied = errors.New("impersonation requires an admin session")
)

type State struct {
	UserID       uuid.UUID
	Impersonated *uuid.UUID
	Admin        bool
}

// New starts a session. Impersonation is only honoured for admins.
func New(userID uuid.UUID, admin bool, impersonate *uuid.UUID) (*State, error) {
	s := &State{UserID: userID, Admin: admin}
	if impersonate != nil && *impersonate != userID {
		if !admin {
			return nil, ErrImpersonationDenied
		}
		id := *impersonate
		s.Impersonated = &id
	}
	return s, nil
}

// EffectiveUserID is the tenant every read and write is scoped to.
func (s *State) EffectiveUserID() uuid.UUID {
	if s.Impersonated != nil {
		return *s.Impersonated
	}
	return s.UserID
}

func (s *State) Impersonating() bool {
	return s.Impersonated != nil
}

type contextKey struct{}

func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*State, error) {
	s, ok := ctx.Value(contextKey{}).(*State)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// OwnerFromContext returns the effective tenant of the request.
func OwnerFromContext(ctx context.Context) (uuid.UUID, error) {
	s, err := FromContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return s.EffectiveUserID(), nil
}
