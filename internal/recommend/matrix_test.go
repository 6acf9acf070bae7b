// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixSetAndGet(t *testing.T) {
	m := NewMatrix()
	require.NoError(t, m.SetRating("alice", 101, 4.5))
	require.NoError(t, m.SetRating("alice", 102, 3))
	require.NoError(t, m.SetRating("bob", 101, 2))

	assert.Equal(t, map[int]float64{101: 4.5, 102: 3}, m.UserRatings("alice"))
	assert.Equal(t, map[string]float64{"alice": 4.5, "bob": 2}, m.ShowRatings(101))
	assert.Equal(t, 2, m.Users())
	assert.Equal(t, 2, m.Shows())
	assert.Equal(t, 3, m.Ratings())
}

func TestMatrixLastWriteWins(t *testing.T) {
	m := NewMatrix()
	require.NoError(t, m.SetRating("alice", 101, 2))
	require.NoError(t, m.SetRating("alice", 101, 5))

	// Overwriting must not change the cell count.
	assert.Equal(t, 1, m.Ratings())
	assert.Equal(t, map[int]float64{101: 5}, m.UserRatings("alice"))
	assert.Equal(t, map[string]float64{"alice": 5}, m.ShowRatings(101))
}

func TestMatrixRatingBounds(t *testing.T) {
	m := NewMatrix()

	// Boundary values are valid.
	assert.NoError(t, m.SetRating("alice", 1, 1))
	assert.NoError(t, m.SetRating("alice", 2, 5))

	tests := []struct {
		name   string
		userID string
		showID int
		value  float64
	}{
		{"below range", "alice", 3, 0},
		{"above range", "alice", 3, 6},
		{"negative", "alice", 3, -1},
		{"empty user", "", 3, 3},
		{"zero show id", "alice", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.SetRating(tt.userID, tt.showID, tt.value)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestMatrixSetRatingsAtomic(t *testing.T) {
	m := NewMatrix()
	err := m.SetRatings("alice", map[int]float64{101: 4, 102: 9})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Nothing from the failed batch is applied.
	assert.Equal(t, 0, m.Ratings())
	assert.Nil(t, m.UserRatings("alice"))
}

func TestMatrixUnknownLookups(t *testing.T) {
	m := NewMatrix()
	assert.Nil(t, m.UserRatings("ghost"))
	assert.Nil(t, m.ShowRatings(999))
	assert.False(t, m.HasUser("ghost"))
	assert.False(t, m.HasShow(999))
}

func TestMatrixCopiesAreIndependent(t *testing.T) {
	m := NewMatrix()
	require.NoError(t, m.SetRating("alice", 101, 4))

	row := m.UserRatings("alice")
	row[101] = 1
	row[999] = 1

	assert.Equal(t, map[int]float64{101: 4}, m.UserRatings("alice"))
	assert.Equal(t, 1, m.Ratings())
}

func TestMatrixAllRatingsSorted(t *testing.T) {
	m := NewMatrix()
	require.NoError(t, m.SetRating("bob", 2, 3))
	require.NoError(t, m.SetRating("alice", 5, 4))
	require.NoError(t, m.SetRating("alice", 1, 5))

	all := m.AllRatings()
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].UserID)
	assert.Equal(t, 1, all[0].ShowID)
	assert.Equal(t, "alice", all[1].UserID)
	assert.Equal(t, 5, all[1].ShowID)
	assert.Equal(t, "bob", all[2].UserID)
}

func TestMatrixConcurrentAccess(t *testing.T) {
	m := NewMatrix()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 1; j <= 50; j++ {
				_ = m.SetRating("alice", j, float64(1+n%5))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = m.UserRatings("alice")
				_ = m.Ratings()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.Ratings())
}
