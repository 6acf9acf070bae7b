// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcritic/couchcritic/internal/models"
)

// storeFixtures returns both Store implementations backed by fresh state.
func storeFixtures(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = badgerStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"badger": badgerStore,
	}
}

func sampleShows() []models.Show {
	return []models.Show{
		{ID: 3, Title: "Cold Harbor", Genres: []string{"Thriller"}, ExternalRating: 8.7},
		{ID: 1, Title: "Breaking Orbit", Genres: []string{"Drama", "Science-Fiction"}, ExternalRating: 8.6, Runtime: 60},
		{ID: 2, Title: "The Midnight Office", Genres: []string{"Comedy"}, ExternalRating: 8.9, Status: "Ended"},
	}
}

func TestStorePutAndGet(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeFixtures(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.PutShows(ctx, sampleShows()))

			show, err := store.GetShow(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, "The Midnight Office", show.Title)
			assert.Equal(t, "Ended", show.Status)

			_, err = store.GetShow(ctx, 999)
			assert.ErrorIs(t, err, ErrShowNotFound)
		})
	}
}

func TestStoreListSortedByID(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeFixtures(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.PutShows(ctx, sampleShows()))

			shows, err := store.ListShows(ctx)
			require.NoError(t, err)
			require.Len(t, shows, 3)
			assert.Equal(t, []int{1, 2, 3}, []int{shows[0].ID, shows[1].ID, shows[2].ID})
		})
	}
}

func TestStoreUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeFixtures(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.PutShows(ctx, sampleShows()))
			require.NoError(t, store.PutShows(ctx, []models.Show{{ID: 1, Title: "Breaking Orbit (Remastered)", ExternalRating: 9.0}}))

			show, err := store.GetShow(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "Breaking Orbit (Remastered)", show.Title)

			count, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, count)
		})
	}
}

func TestStoreSearch(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeFixtures(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.PutShows(ctx, sampleShows()))

			shows, err := store.SearchShows(ctx, "office", 10)
			require.NoError(t, err)
			require.Len(t, shows, 1)
			assert.Equal(t, 2, shows[0].ID)

			// Case-insensitive, limit respected.
			shows, err = store.SearchShows(ctx, "O", 2)
			require.NoError(t, err)
			assert.Len(t, shows, 2)

			shows, err = store.SearchShows(ctx, "zzz", 10)
			require.NoError(t, err)
			assert.Empty(t, shows)
		})
	}
}

func TestStoreCountEmpty(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeFixtures(t) {
		t.Run(name, func(t *testing.T) {
			count, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.PutShows(ctx, sampleShows()))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	show, err := reopened.GetShow(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Cold Harbor", show.Title)

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
