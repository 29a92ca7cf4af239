package ports

import (
	"context"

	"github.com/aretw0/tendero/pkg/domain"
)

// Ledger records confirmed sales.
type Ledger interface {
	// Commit durably records the draft and returns the sale ID.
	// It is idempotent on draft.ID: committing the same draft twice returns
	// the ID of the first commit and records nothing new.
	Commit(ctx context.Context, identity string, draft domain.Draft) (string, error)

	// Sales returns the most recent sales of an identity, newest first.
	Sales(ctx context.Context, identity string, limit int) ([]domain.Sale, error)
}

// AccountRegistry is the authorization gate in front of the sales flow.
type AccountRegistry interface {
	// IsAuthorized reports whether the identity may run the sales flow.
	IsAuthorized(ctx context.Context, identity string) (bool, error)

	// Register adds (or replaces) an account.
	Register(ctx context.Context, account domain.Account) error
}
