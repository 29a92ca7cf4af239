package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// Ledger implements ports.Ledger and ports.AccountRegistry on PostgreSQL.
type Ledger struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New connects to the database and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Ledger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Ledger{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close releases the connection pool.
func (l *Ledger) Close() {
	l.pool.Close()
}

// RunMigrations creates the tables if they do not exist.
func (l *Ledger) RunMigrations(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sales (
			id TEXT PRIMARY KEY,
			draft_id TEXT NOT NULL UNIQUE,
			identity TEXT NOT NULL,
			client_name TEXT NOT NULL DEFAULT '',
			line_items JSONB NOT NULL DEFAULT '[]'::jsonb,
			payment_method TEXT NOT NULL DEFAULT '',
			total DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'completed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sales_identity_created ON sales(identity, created_at DESC);

		CREATE TABLE IF NOT EXISTS accounts (
			identity TEXT PRIMARY KEY,
			business_name TEXT NOT NULL,
			email TEXT NOT NULL,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Commit records the draft. A draft already recorded returns its sale ID.
func (l *Ledger) Commit(ctx context.Context, identity string, draft domain.Draft) (string, error) {
	items, err := json.Marshal(draft.LineItems)
	if err != nil {
		return "", fmt.Errorf("encode line items: %w", err)
	}
	sale := domain.NewSale(ulid.Make().String(), identity, draft, l.now())

	var id string
	err = l.pool.QueryRow(ctx,
		`INSERT INTO sales (id, draft_id, identity, client_name, line_items, payment_method, total, status, created_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9)
		 ON CONFLICT (draft_id) DO NOTHING
		 RETURNING id`,
		sale.ID, sale.DraftID, sale.Identity, sale.ClientName, string(items),
		sale.PaymentMethod, sale.Total, string(sale.Status), sale.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already committed.
		err = l.pool.QueryRow(ctx, `SELECT id FROM sales WHERE draft_id = $1`, draft.ID).Scan(&id)
	}
	if err != nil {
		return "", fmt.Errorf("commit sale: %w", err)
	}
	return id, nil
}

// Sales returns the latest sales of an identity, newest first.
func (l *Ledger) Sales(ctx context.Context, identity string, limit int) ([]domain.Sale, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := l.pool.Query(ctx,
		`SELECT id, draft_id, identity, client_name, line_items::text, payment_method, total, status, created_at
		 FROM sales WHERE identity = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, identity, lim,
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
	var exists bool
	err := l.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE identity = $1)`, identity).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check account: %w", err)
	}
	return exists, nil
}

// Register adds or replaces an account.
func (l *Ledger) Register(ctx context.Context, account domain.Account) error {
	if account.RegisteredAt.IsZero() {
		account.RegisteredAt = l.now()
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO accounts (identity, business_name, email, registered_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (identity) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			email = EXCLUDED.email,
			registered_at = EXCLUDED.registered_at`,
		account.Identity, account.BusinessName, account.Email, account.RegisteredAt,
	)
	if err != nil {
		return fmt.Errorf("register account: %w", err)
	}
	return nil
}
