package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tendero/pkg/adapters/file"
	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_IdentityEscaping(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	ids := []string{"51999888777@c.us", "../escape", "a/b", "+51 999"}
	for _, id := range ids {
		require.NoError(t, store.Save(ctx, id, &domain.Session{State: domain.StateAwaitingDescription}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(ids), "every identity maps to a file inside the base directory")
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.json"))
	assert.True(t, os.IsNotExist(err))

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, listed)

	for _, id := range ids {
		s, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StateAwaitingDescription, s.State)
	}
}

func TestFileStore_LeadingDotIdentities(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	ids := []string{".x", ".", "..", ".tmp-1", "51999"}
	for _, id := range ids {
		require.NoError(t, store.Save(ctx, id, &domain.Session{State: domain.StateAwaitingPrice}), id)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, '.', e.Name()[0], "session files are never dot files: %s", e.Name())
	}

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, listed)

	require.NoError(t, store.Delete(ctx, ".x"))
	_, err = store.Load(ctx, ".x")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestFileStore_EmptyIdentity(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, "", &domain.Session{}), file.ErrEmptyIdentity)
	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, file.ErrEmptyIdentity)
	assert.ErrorIs(t, store.Delete(ctx, ""), file.ErrEmptyIdentity)
}

func TestFileStore_ListIgnoresStrayFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-123"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
