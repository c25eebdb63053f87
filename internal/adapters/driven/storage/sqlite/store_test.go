package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSource(id string, created time.Time) domain.Source {
	return domain.Source{
		ID:      id,
		Type:    "jira",
		Name:    "Acme Jira",
		Enabled: true,
		Status:  domain.StatusDisconnected,
		Config: map[string]string{
			"base_url": "https://acme.atlassian.net",
			"project":  "PAY",
		},
		Credentials: domain.Credentials{Username: "dev@acme.io", Token: "secret"},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	source := sampleSource("src-1", created)
	require.NoError(t, store.Save(ctx, source))

	got, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, source.ID, got.ID)
	assert.Equal(t, source.Type, got.Type)
	assert.True(t, got.Enabled)
	assert.Equal(t, domain.StatusDisconnected, got.Status)
	assert.Equal(t, source.Config, got.Config)
	assert.Equal(t, source.Credentials, got.Credentials)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	source := sampleSource("src-1", created)
	require.NoError(t, store.Save(ctx, source))

	source.Name = "Renamed"
	source.Enabled = false
	source.Status = domain.StatusConnected
	require.NoError(t, store.Save(ctx, source))

	got, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.False(t, got.Enabled)
	assert.Equal(t, domain.StatusConnected, got.Status)

	sources, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSource("src-1", time.Now())))
	require.NoError(t, store.Delete(ctx, "src-1"))

	_, err := store.Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "src-1"), domain.ErrNotFound)
}

func TestStore_ListOrderedByCreation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, sampleSource(id, base.Add(time.Duration(i)*time.Minute))))
	}

	sources, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "c", sources[0].ID)
	assert.Equal(t, "a", sources[1].ID)
	assert.Equal(t, "b", sources[2].ID)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleSource("src-1", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck

	got, err := reopened.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "src-1", got.ID)
}
