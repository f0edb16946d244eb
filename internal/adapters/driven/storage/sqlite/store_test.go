package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "cache.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Cache().Set(context.Background(), "k", []byte("v"), time.Hour))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	value, ok, err := second.Cache().Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := setupTestStore(t).Cache()

	require.NoError(t, c.Set(ctx, "applications:all", []byte(`[{"id":"a1"}]`), time.Minute))

	value, ok, err := c.Get(ctx, "applications:all")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"a1"}]`, string(value))
}

func TestCache_GetMissing(t *testing.T) {
	value, ok, err := setupTestStore(t).Cache().Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := setupTestStore(t).Cache()

	require.NoError(t, c.Set(ctx, "k", []byte("one"), time.Minute))
	require.NoError(t, c.Set(ctx, "k", []byte("two"), time.Minute))

	value, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(value))
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	c := store.Cache()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM cache_entries").Scan(&count))
	assert.Zero(t, count, "expired entry should be removed on read")
}

func TestCache_SetRejectsNonPositiveTTL(t *testing.T) {
	err := setupTestStore(t).Cache().Set(context.Background(), "k", []byte("v"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := setupTestStore(t).Cache()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Purge(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	c := store.Cache()

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
	require.NoError(t, c.Set(ctx, "long", []byte("v"), time.Hour))

	now = now.Add(time.Minute)
	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err := c.Get(ctx, "long")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := setupTestStore(t).Cache().Get(ctx, "k")
	assert.Error(t, err)
}
