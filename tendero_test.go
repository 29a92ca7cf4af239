package tendero_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tendero"
	"github.com/aretw0/tendero/pkg/adapters/memory"
	"github.com/aretw0/tendero/pkg/domain"
)

func TestFacade_Integration(t *testing.T) {
	store := memory.NewStore()
	ledger := memory.NewLedger()

	var transitions []domain.StateID
	var commits int
	eng := tendero.New(
		tendero.WithSessionStore(store),
		tendero.WithLedger(ledger),
		tendero.WithLifecycleHooks(domain.LifecycleHooks{
			OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
				transitions = append(transitions, e.To)
			},
			OnCommit: func(ctx context.Context, e *domain.CommitEvent) {
				commits++
			},
		}),
	)
	ctx := context.Background()

	for _, in := range []string{"nueva venta", "Acme", "Widget"} {
		_, err := eng.Handle(ctx, "51999", in)
		require.NoError(t, err)
	}
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"51999"}, ids, "the session lives in the injected store")

	prompt, err := eng.Prompt(ctx, "51999")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Unidades")

	for _, in := range []string{"1", "3", "10", "3", "4", "sí"} {
		_, err := eng.Handle(ctx, "51999", in)
		require.NoError(t, err)
	}
	sales, err := ledger.Sales(ctx, "51999", 0)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 30.0, sales[0].Total)
	assert.Equal(t, 1, commits)
	assert.Equal(t, domain.StateAwaitingClientName, transitions[0])

	require.NoError(t, eng.Reset(ctx, "51999"))
	assert.NotEmpty(t, eng.States())
}
