package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tendero/pkg/adapters/memory"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/persistence/middleware"
	"github.com/aretw0/tendero/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func sampleSession() *domain.Session {
	d := domain.NewDraft("draft-1", time.Unix(100, 0).UTC())
	d.ClientName = "Rosa Quispe"
	d.LineItems = append(d.LineItems, domain.LineItem{Description: "Papa amarilla", UnitType: "Kilos", Quantity: 2, Price: 3.5})
	return &domain.Session{
		State:     domain.StateAwaitingProductAction,
		Draft:     d,
		UpdatedAt: time.Unix(200, 0).UTC(),
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)
	ctx := context.Background()

	original := sampleSession()
	require.NoError(t, secureStore.Save(ctx, "u1", original))

	// The backend only sees the envelope.
	stored, err := underlyingStore.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, stored.Draft)
	assert.NotEmpty(t, stored.Sealed)
	assert.NotContains(t, stored.Sealed, "Rosa")
	assert.Equal(t, original.State, stored.State)
	assert.Equal(t, original.UpdatedAt, stored.UpdatedAt)

	loaded, err := secureStore.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, original.Draft.ClientName, loaded.Draft.ClientName)
	assert.Equal(t, original.Draft.LineItems, loaded.Draft.LineItems)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	require.NoError(t, oldStore.Save(ctx, "u1", sampleSession()))

	// New key only: cannot read.
	newOnly := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newKey})(underlyingStore)
	_, err := newOnly.Load(ctx, "u1")
	assert.Error(t, err)

	// New key with the old one as fallback: reads, and re-saves with the new key.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)
	loaded, err := rotated.Load(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, rotated.Save(ctx, "u1", loaded))

	loaded, err = newOnly.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Rosa Quispe", loaded.Draft.ClientName)
}

func TestEncryptionMiddleware_RejectsPlaintext(t *testing.T) {
	underlyingStore := NewMockStore()
	ctx := context.Background()
	require.NoError(t, underlyingStore.Save(ctx, "u1", sampleSession()))

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	_, err := secureStore.Load(ctx, "u1")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewStore())
	ports.RunSessionStoreContract(t, store)
}

func TestEncryptionMiddleware_PanicsOnShortKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}

func TestParseKeys(t *testing.T) {
	active := hex.EncodeToString(generateKey(t))
	old := hex.EncodeToString(generateKey(t))

	cfg, err := middleware.ParseKeys(active + ", " + old)
	require.NoError(t, err)
	assert.Len(t, cfg.ActiveKey, 32)
	assert.Len(t, cfg.FallbackKeys, 1)

	_, err = middleware.ParseKeys("zz")
	assert.Error(t, err)

	_, err = middleware.ParseKeys(strings.Repeat("ab", 16))
	assert.ErrorContains(t, err, "must be 32 bytes")
}
