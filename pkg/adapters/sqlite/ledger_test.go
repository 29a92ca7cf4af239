package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "tendero.db"))
	require.NoError(t, err)
	require.NoError(t, l.Migrate(context.Background()))
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(filepath.Join(dir, "data", "tendero.db"))
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.NoError(t, err, "should create parent directory")
}

func TestMigrate_Idempotent(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Migrate(context.Background()))

	var count int
	require.NoError(t, l.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLedger_Contract(t *testing.T) {
	ports.RunLedgerContract(t, newTestLedger(t))
}

func TestLedger_AccountRegistryContract(t *testing.T) {
	ports.RunAccountRegistryContract(t, newTestLedger(t))
}

func TestLedger_NewestFirst(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"d1", "d2", "d3"} {
		at := base.Add(time.Duration(i) * time.Minute)
		l.now = func() time.Time { return at }
		_, err := l.Commit(ctx, "u1", domain.Draft{ID: id, ClientName: id})
		require.NoError(t, err)
	}

	sales, err := l.Sales(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, sales, 3)
	assert.Equal(t, []string{"d3", "d2", "d1"}, []string{sales[0].DraftID, sales[1].DraftID, sales[2].DraftID})
	assert.True(t, sales[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestLedger_Account(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Account(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	require.NoError(t, l.Register(ctx, domain.Account{Identity: "u1", BusinessName: "Bodega", Email: "b@x.pe"}))
	a, err := l.Account(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Bodega", a.BusinessName)
	assert.False(t, a.RegisteredAt.IsZero())
}
