package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/oklog/ulid/v2"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Ledger implements ports.Ledger and ports.AccountRegistry using
// modernc.org/sqlite (pure Go, no CGO).
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) a SQLite database at the given path.
// Call Migrate before first use.
func Open(dbPath string) (*Ledger, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite has one writer; a single connection serializes commits
	// instead of failing with "database is locked".
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return &Ledger{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (l *Ledger) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var count int
		err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := l.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := l.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Commit records the draft. A draft already recorded returns its sale ID.
func (l *Ledger) Commit(ctx context.Context, identity string, draft domain.Draft) (string, error) {
	items, err := json.Marshal(draft.LineItems)
	if err != nil {
		return "", fmt.Errorf("encode line items: %w", err)
	}
	sale := domain.NewSale(ulid.Make().String(), identity, draft, l.now())

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO sales (id, draft_id, identity, client_name, line_items, payment_method, total, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (draft_id) DO NOTHING`,
		sale.ID, sale.DraftID, sale.Identity, sale.ClientName, string(items),
		sale.PaymentMethod, sale.Total, string(sale.Status), sale.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert sale: %w", err)
	}

	var id string
	err = l.db.QueryRowContext(ctx, "SELECT id FROM sales WHERE draft_id = ?", draft.ID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("read sale id: %w", err)
	}
	return id, nil
}

// Sales returns the latest sales of an identity, newest first.
func (l *Ledger) Sales(ctx context.Context, identity string, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, draft_id, identity, client_name, line_items, payment_method, total, status, created_at
		FROM sales WHERE identity = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, identity, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var (
			s      domain.Sale
			items  string
			status string
		)
		if err := rows.Scan(&s.ID, &s.DraftID, &s.Identity, &s.ClientName, &items, &s.PaymentMethod, &s.Total, &status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &s.LineItems); err != nil {
			return nil, fmt.Errorf("decode line items of sale %s: %w", s.ID, err)
		}
		s.Status = domain.SaleStatus(status)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// IsAuthorized reports whether the identity has a registered account.
func (l *Ledger) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	_, err := l.Account(ctx, identity)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Account returns the account of an identity.
func (l *Ledger) Account(ctx context.Context, identity string) (domain.Account, error) {
	var a domain.Account
	err := l.db.QueryRowContext(ctx,
		"SELECT identity, business_name, email, registered_at FROM accounts WHERE identity = ?", identity,
	).Scan(&a.Identity, &a.BusinessName, &a.Email, &a.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// Register adds or replaces an account.
func (l *Ledger) Register(ctx context.Context, account domain.Account) error {
	if account.RegisteredAt.IsZero() {
		account.RegisteredAt = l.now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO accounts (identity, business_name, email, registered_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (identity) DO UPDATE SET
			business_name = excluded.business_name,
			email = excluded.email,
			registered_at = excluded.registered_at`,
		account.Identity, account.BusinessName, account.Email, account.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("register account: %w", err)
	}
	return nil
}
