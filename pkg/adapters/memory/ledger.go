package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/oklog/ulid/v2"
)

// Ledger implements ports.Ledger and ports.AccountRegistry in memory.
// It backs tests and the zero-config development mode.
type Ledger struct {
	mu       sync.RWMutex
	sales    []domain.Sale
	byDraft  map[string]string // draft ID -> sale ID
	accounts map[string]domain.Account

	now func() time.Time
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		byDraft:  make(map[string]string),
		accounts: make(map[string]domain.Account),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Commit records the draft once per draft ID.
func (l *Ledger) Commit(ctx context.Context, identity string, draft domain.Draft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.byDraft[draft.ID]; ok {
		return id, nil
	}

	sale := domain.NewSale(ulid.Make().String(), identity, draft, l.now())
	l.sales = append(l.sales, sale)
	l.byDraft[draft.ID] = sale.ID
	return sale.ID, nil
}

// Sales returns the latest sales of an identity, newest first.
func (l *Ledger) Sales(ctx context.Context, identity string, limit int) ([]domain.Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.Sale
	for i := len(l.sales) - 1; i >= 0; i-- {
		if l.sales[i].Identity != identity {
			continue
		}
		out = append(out, l.sales[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// IsAuthorized reports whether the identity registered.
func (l *Ledger) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.accounts[identity]
	return ok, nil
}

// Register adds or replaces an account.
func (l *Ledger) Register(ctx context.Context, account domain.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[account.Identity] = account
	return nil
}

// Accounts returns the registered accounts sorted by identity.
func (l *Ledger) Accounts() []domain.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}
