// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeUserMatrix builds the canonical fixture:
//
//	       S1  S2  S3
//	alice   5   4   -
//	bob     5   5   3
//	carol   1   1   5
//
// bob agrees with alice, carol disagrees.
func threeUserMatrix(t *testing.T) *Matrix {
	t.Helper()
	m := NewMatrix()
	require.NoError(t, m.SetRatings("alice", map[int]float64{1: 5, 2: 4}))
	require.NoError(t, m.SetRatings("bob", map[int]float64{1: 5, 2: 5, 3: 3}))
	require.NoError(t, m.SetRatings("carol", map[int]float64{1: 1, 2: 1, 3: 5}))
	return m
}

func TestNewRecommenderConfig(t *testing.T) {
	_, err := NewRecommender(0)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)

	rec, err := NewRecommender(10)
	require.NoError(t, err)
	require.NotNil(t, rec)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("user")
	require.NoError(t, err)
	assert.Equal(t, ModeUserBased, mode)

	mode, err = ParseMode("item")
	require.NoError(t, err)
	assert.Equal(t, ModeItemBased, mode)

	_, err = ParseMode("hybrid")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRecommendUserBasedWeighting(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	recs, err := rec.Recommend("alice", m, 10, ModeUserBased)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].ShowID)

	// Prediction from the documented formula: dot over co-rated shows,
	// norms over full vectors, similarity-weighted average of the
	// neighbors' S3 ratings.
	simAliceBob := 45.0 / (math.Sqrt(41) * math.Sqrt(59))
	simAliceCarol := 9.0 / (math.Sqrt(41) * math.Sqrt(27))
	want := (simAliceBob*3 + simAliceCarol*5) / (simAliceBob + simAliceCarol)

	assert.Greater(t, simAliceBob, simAliceCarol)
	assert.InDelta(t, want, recs[0].PredictedRating, 1e-9)
	// bob dominates, so the prediction sits nearer his rating of 3.
	assert.Less(t, recs[0].PredictedRating, 4.0)
}

func TestRecommendNeverReturnsRatedShows(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	for _, mode := range []Mode{ModeUserBased, ModeItemBased} {
		recs, err := rec.Recommend("alice", m, 10, mode)
		require.NoError(t, err, "mode %s", mode)
		for _, r := range recs {
			assert.NotContains(t, []int{1, 2}, r.ShowID, "mode %s", mode)
		}
	}
}

func TestRecommendInsufficientData(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	_, err = rec.Recommend("ghost", m, 10, ModeUserBased)
	var ierr *InsufficientDataError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "ghost", ierr.UserID)
}

func TestRecommendNoNeighbors(t *testing.T) {
	// dave's only rating shares no show with anyone.
	m := threeUserMatrix(t)
	require.NoError(t, m.SetRating("dave", 99, 5))
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	_, err = rec.Recommend("dave", m, 10, ModeUserBased)
	var ierr *InsufficientDataError
	require.ErrorAs(t, err, &ierr)
}

func TestRecommendBadParams(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	_, err = rec.Recommend("alice", m, 0, ModeUserBased)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)

	_, err = rec.Recommend("", m, 10, ModeUserBased)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = rec.Recommend("alice", m, 10, Mode("hybrid"))
	require.ErrorAs(t, err, &verr)
}

func TestRecommendOrderingAndTruncation(t *testing.T) {
	m := NewMatrix()
	// Target shares show 1 with every rater; candidates 10, 11, 12 get
	// distinct predictions, candidates 20 and 21 tie exactly.
	require.NoError(t, m.SetRatings("target", map[int]float64{1: 5}))
	require.NoError(t, m.SetRatings("u1", map[int]float64{1: 5, 10: 5, 20: 4, 21: 4}))
	require.NoError(t, m.SetRatings("u2", map[int]float64{1: 5, 11: 3}))
	require.NoError(t, m.SetRatings("u3", map[int]float64{1: 5, 12: 1}))

	rec, err := NewRecommender(10)
	require.NoError(t, err)

	recs, err := rec.Recommend("target", m, 10, ModeUserBased)
	require.NoError(t, err)
	require.Len(t, recs, 5)

	// Descending by prediction.
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].PredictedRating, recs[i].PredictedRating)
	}
	// Exact ties break by ascending show ID.
	var pos20, pos21 int
	for i, r := range recs {
		if r.ShowID == 20 {
			pos20 = i
		}
		if r.ShowID == 21 {
			pos21 = i
		}
	}
	assert.Equal(t, recs[pos20].PredictedRating, recs[pos21].PredictedRating)
	assert.Less(t, pos20, pos21)

	// n truncates.
	recs, err = rec.Recommend("target", m, 2, ModeUserBased)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestRecommendKClampsToPool(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(500)
	require.NoError(t, err)

	recs, err := rec.Recommend("alice", m, 10, ModeUserBased)
	require.NoError(t, err)
	assert.NotEmpty(t, recs)
}

func TestRecommendKLimitsNeighbors(t *testing.T) {
	m := NewMatrix()
	require.NoError(t, m.SetRatings("target", map[int]float64{1: 5, 2: 5}))
	// near is almost identical to target; far shares one show weakly and
	// is the only rater of show 30.
	require.NoError(t, m.SetRatings("near", map[int]float64{1: 5, 2: 5, 10: 4}))
	require.NoError(t, m.SetRatings("far", map[int]float64{1: 2, 20: 1, 21: 1, 30: 5}))

	rec, err := NewRecommender(1)
	require.NoError(t, err)

	recs, err := rec.Recommend("target", m, 10, ModeUserBased)
	require.NoError(t, err)

	// With k=1 only the nearest neighbor contributes, so far's shows
	// cannot appear.
	require.Len(t, recs, 1)
	assert.Equal(t, 10, recs[0].ShowID)
}

func TestRecommendItemBased(t *testing.T) {
	m := NewMatrix()
	// Shows 1 and 2 have identical rating columns; show 3 is opposed.
	require.NoError(t, m.SetRatings("u1", map[int]float64{1: 5, 2: 5, 3: 1}))
	require.NoError(t, m.SetRatings("u2", map[int]float64{1: 4, 2: 4, 3: 2}))
	require.NoError(t, m.SetRatings("alice", map[int]float64{1: 5}))

	rec, err := NewRecommender(10)
	require.NoError(t, err)

	recs, err := rec.Recommend("alice", m, 10, ModeItemBased)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	// Show 2, the twin of alice's one rated show, ranks first and
	// inherits a prediction near her rating of show 1.
	assert.Equal(t, 2, recs[0].ShowID)
	assert.InDelta(t, 5.0, recs[0].PredictedRating, 1e-9)
}

func TestRecommendForRatingsStateless(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	before := m.Ratings()
	recs, err := rec.RecommendForRatings(map[int]float64{1: 5, 2: 4}, m, 10, ModeUserBased)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].ShowID)

	// The ephemeral vector must not leak into the matrix.
	assert.Equal(t, before, m.Ratings())
}

func TestRecommendForRatingsValidation(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	_, err = rec.RecommendForRatings(nil, m, 10, ModeUserBased)
	var ierr *InsufficientDataError
	require.ErrorAs(t, err, &ierr)

	_, err = rec.RecommendForRatings(map[int]float64{1: 7}, m, 10, ModeUserBased)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSimilarShows(t *testing.T) {
	m := NewMatrix()
	require.NoError(t, m.SetRatings("u1", map[int]float64{1: 5, 2: 5, 3: 1}))
	require.NoError(t, m.SetRatings("u2", map[int]float64{1: 4, 2: 4, 3: 1}))

	rec, err := NewRecommender(10)
	require.NoError(t, err)

	recs, err := rec.SimilarShows(1, 10, m)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Show 2's column matches show 1's exactly.
	assert.Equal(t, 2, recs[0].ShowID)
	assert.InDelta(t, 1.0, recs[0].PredictedRating, 1e-12)
	assert.Equal(t, 3, recs[1].ShowID)
	assert.Less(t, recs[1].PredictedRating, recs[0].PredictedRating)
}

func TestSimilarShowsNoRatings(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	_, err = rec.SimilarShows(999, 10, m)
	var ierr *InsufficientDataError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 999, ierr.ShowID)
}

func TestPredictionsClampedToScale(t *testing.T) {
	m := threeUserMatrix(t)
	rec, err := NewRecommender(10)
	require.NoError(t, err)

	for _, mode := range []Mode{ModeUserBased, ModeItemBased} {
		recs, err := rec.Recommend("alice", m, 10, mode)
		require.NoError(t, err)
		for _, r := range recs {
			assert.GreaterOrEqual(t, r.PredictedRating, 1.0)
			assert.LessOrEqual(t, r.PredictedRating, 5.0)
		}
	}
}
