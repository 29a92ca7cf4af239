package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	identity := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		draft := domain.NewDraft("draft-1", time.Now().UTC())
		draft.ClientName = "Acme"
		draft.LineItems = append(draft.LineItems, domain.LineItem{
			Description: "Widget", UnitType: "Unidades", Quantity: 3, Price: 10,
		})
		draft.Pending = &domain.LineItem{Description: "Gadget", UnitType: "Kilos"}
		session := &domain.Session{State: domain.StateAwaitingQuantity, Draft: draft}

		require.NoError(t, store.Save(ctx, identity, session))

		loaded, err := store.Load(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, domain.StateAwaitingQuantity, loaded.State)
		require.NotNil(t, loaded.Draft)
		assert.Equal(t, "draft-1", loaded.Draft.ID)
		assert.Equal(t, "Acme", loaded.Draft.ClientName)
		require.Len(t, loaded.Draft.LineItems, 1)
		assert.Equal(t, draft.LineItems[0], loaded.Draft.LineItems[0])
		require.NotNil(t, loaded.Draft.Pending)
		assert.Equal(t, "Gadget", loaded.Draft.Pending.Description)
	})

	t.Run("Load is isolated from the caller", func(t *testing.T) {
		loaded, err := store.Load(ctx, identity)
		require.NoError(t, err)
		loaded.Draft.ClientName = "mutated"

		again, err := store.Load(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, "Acme", again.Draft.ClientName)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, identity, &domain.Session{State: domain.StateInitial}))

		loaded, err := store.Load(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, domain.StateInitial, loaded.State)
		assert.Nil(t, loaded.Draft)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+identity)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, identity, &domain.Session{State: domain.StateConfirming}))
		require.NoError(t, store.Delete(ctx, identity))

		_, err := store.Load(ctx, identity)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, identity), "Delete of a missing session is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := identity + "-1"
		id2 := identity + "-2"
		require.NoError(t, store.Save(ctx, id1, &domain.Session{State: domain.StateInitial}))
		require.NoError(t, store.Save(ctx, id2, &domain.Session{State: domain.StateInitial}))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunLedgerContract verifies the Ledger contract, including commit idempotency.
func RunLedgerContract(t *testing.T, ledger Ledger) {
	ctx := context.Background()
	identity := "ledger-" + time.Now().Format("20060102150405.000000")

	newDraft := func(id string) domain.Draft {
		d := domain.NewDraft(id, time.Now().UTC())
		d.ClientName = "Acme"
		d.LineItems = append(d.LineItems,
			domain.LineItem{Description: "Widget", UnitType: "Unidades", Quantity: 3, Price: 10},
			domain.LineItem{Description: "Azúcar", UnitType: "Kilos", Quantity: 1.5, Price: 4},
		)
		d.PaymentMethod = "Yape"
		d.Total = d.ComputeTotal()
		return *d
	}

	t.Run("Commit and list", func(t *testing.T) {
		draft := newDraft(identity + "-d1")
		saleID, err := ledger.Commit(ctx, identity, draft)
		require.NoError(t, err)
		assert.NotEmpty(t, saleID)

		sales, err := ledger.Sales(ctx, identity, 10)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		sale := sales[0]
		assert.Equal(t, saleID, sale.ID)
		assert.Equal(t, draft.ID, sale.DraftID)
		assert.Equal(t, identity, sale.Identity)
		assert.Equal(t, "Acme", sale.ClientName)
		assert.Equal(t, "Yape", sale.PaymentMethod)
		assert.Equal(t, domain.SaleCompleted, sale.Status)
		assert.InDelta(t, 36.0, sale.Total, 1e-9)
		assert.Equal(t, draft.LineItems, sale.LineItems)
	})

	t.Run("Commit is idempotent per draft", func(t *testing.T) {
		draft := newDraft(identity + "-d2")
		first, err := ledger.Commit(ctx, identity, draft)
		require.NoError(t, err)
		second, err := ledger.Commit(ctx, identity, draft)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		sales, err := ledger.Sales(ctx, identity, 10)
		require.NoError(t, err)
		assert.Len(t, sales, 2)
	})

	t.Run("Sales respects limit", func(t *testing.T) {
		sales, err := ledger.Sales(ctx, identity, 1)
		require.NoError(t, err)
		assert.Len(t, sales, 1)
	})

	t.Run("Sales of unknown identity", func(t *testing.T) {
		sales, err := ledger.Sales(ctx, "nobody-"+identity, 10)
		require.NoError(t, err)
		assert.Empty(t, sales)
	})
}

// RunAccountRegistryContract verifies the AccountRegistry contract.
func RunAccountRegistryContract(t *testing.T, registry AccountRegistry) {
	ctx := context.Background()
	identity := "account-" + time.Now().Format("20060102150405.000000")

	ok, err := registry.IsAuthorized(ctx, identity)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, registry.Register(ctx, domain.Account{
		Identity:     identity,
		BusinessName: "Bodega Lucha",
		Email:        "lucha@example.com",
		RegisteredAt: time.Now().UTC(),
	}))

	ok, err = registry.IsAuthorized(ctx, identity)
	require.NoError(t, err)
	assert.True(t, ok)

	// Registering twice replaces the account.
	require.NoError(t, registry.Register(ctx, domain.Account{
		Identity:     identity,
		BusinessName: "Bodega Lucha II",
		Email:        "lucha@example.com",
		RegisteredAt: time.Now().UTC(),
	}))
	ok, err = registry.IsAuthorized(ctx, identity)
	require.NoError(t, err)
	assert.True(t, ok)
}
