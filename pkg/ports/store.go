package ports

import (
	"context"

	"github.com/aretw0/tendero/pkg/domain"
)

// SessionStore defines the interface for keeping in-progress sessions.
type SessionStore interface {
	// Save persists the session for a given identity, overwriting any previous value.
	Save(ctx context.Context, identity string, session *domain.Session) error

	// Load retrieves the session for a given identity.
	// Returns domain.ErrSessionNotFound if the identity has no session.
	Load(ctx context.Context, identity string) (*domain.Session, error)

	// Delete removes the session for a given identity. Deleting a missing
	// session is not an error.
	Delete(ctx context.Context, identity string) error

	// List returns the identities that currently have a session.
	List(ctx context.Context) ([]string, error)
}
