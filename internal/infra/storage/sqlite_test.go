package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "watchlist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	entries := []entry.Entry{
		{ID: "tt0111161", Title: "The Shawshank Redemption", Year: "1994", DurationText: "142 min", RatingText: "9.3"},
		{ID: "tt0068646", Title: "The Godfather", Year: "1972", DurationText: "175 min", RatingText: "9.2", Poster: "https://poster/2.jpg"},
		{ID: "tt0468569", Title: "The Dark Knight", Year: "2008", DurationText: "N/A", RatingText: "N/A"},
	}
	require.NoError(t, store.SaveAll(ctx, entries))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestStore_SaveAllReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.SaveAll(ctx, []entry.Entry{
		{ID: "tt1", Title: "First"},
		{ID: "tt2", Title: "Second"},
	}))
	require.NoError(t, store.SaveAll(ctx, []entry.Entry{
		{ID: "tt2", Title: "Second"},
	}))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "tt2", loaded[0].ID)
}

func TestStore_LoadAllEmptyDatabase(t *testing.T) {
	store := openTestStore(t)

	loaded, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStore_OrderSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "watchlist.db")

	store, err := Open(path)
	require.NoError(t, err)

	entries := []entry.Entry{
		{ID: "tt3", Title: "C"},
		{ID: "tt1", Title: "A"},
		{ID: "tt2", Title: "B"},
	}
	require.NoError(t, store.SaveAll(ctx, entries))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestStore_SaveAllEmptyClearsTable(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.SaveAll(ctx, []entry.Entry{{ID: "tt1"}}))
	require.NoError(t, store.SaveAll(ctx, nil))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "watchlist.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveAll(context.Background(), []entry.Entry{{ID: "tt1"}}))
}

func TestStore_CloseNil(t *testing.T) {
	var store *Store
	assert.NoError(t, store.Close())
}
