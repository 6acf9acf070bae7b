// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMatrixDeterministic(t *testing.T) {
	cfg := GeneratorConfig{Users: 20, Shows: 30, Sparsity: 0.5, Seed: 42}

	a, err := GenerateMatrix(cfg)
	require.NoError(t, err)
	b, err := GenerateMatrix(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.AllRatings(), b.AllRatings())
	assert.NotZero(t, a.Ratings())
}

func TestGenerateMatrixSeedChangesOutput(t *testing.T) {
	a, err := GenerateMatrix(GeneratorConfig{Users: 20, Shows: 30, Sparsity: 0.5, Seed: 1})
	require.NoError(t, err)
	b, err := GenerateMatrix(GeneratorConfig{Users: 20, Shows: 30, Sparsity: 0.5, Seed: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a.AllRatings(), b.AllRatings())
}

func TestGenerateMatrixValuesInRange(t *testing.T) {
	m, err := GenerateMatrix(GeneratorConfig{Users: 10, Shows: 10, Sparsity: 0.2, Seed: 7})
	require.NoError(t, err)

	for _, r := range m.AllRatings() {
		assert.GreaterOrEqual(t, r.Value, 1.0)
		assert.LessOrEqual(t, r.Value, 5.0)
		assert.Equal(t, r.Value, float64(int(r.Value)), "synthetic ratings are whole numbers")
	}
}

func TestGenerateMatrixSparsity(t *testing.T) {
	// 100x50 cells at sparsity 0.9 should fill roughly 10%.
	m, err := GenerateMatrix(GeneratorConfig{Users: 100, Shows: 50, Sparsity: 0.9, Seed: 3})
	require.NoError(t, err)

	filled := float64(m.Ratings()) / float64(100*50)
	assert.InDelta(t, 0.1, filled, 0.03)
}

func TestGenerateMatrixZeroSparsityFillsAll(t *testing.T) {
	m, err := GenerateMatrix(GeneratorConfig{Users: 5, Shows: 4, Sparsity: 0, Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, 20, m.Ratings())
}

func TestGenerateMatrixExplicitShowIDs(t *testing.T) {
	ids := []int{101, 205, 999}
	m, err := GenerateMatrix(GeneratorConfig{Users: 10, Sparsity: 0, Seed: 5, ShowIDs: ids})
	require.NoError(t, err)

	assert.Equal(t, 3, m.Shows())
	for _, id := range ids {
		assert.True(t, m.HasShow(id))
	}
}

func TestGenerateMatrixBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  GeneratorConfig
	}{
		{"zero users", GeneratorConfig{Users: 0, Shows: 10, Sparsity: 0.5}},
		{"zero shows without ids", GeneratorConfig{Users: 10, Shows: 0, Sparsity: 0.5}},
		{"negative sparsity", GeneratorConfig{Users: 10, Shows: 10, Sparsity: -0.1}},
		{"sparsity one", GeneratorConfig{Users: 10, Shows: 10, Sparsity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateMatrix(tt.cfg)
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
		})
	}
}

func TestGenerateShows(t *testing.T) {
	shows := GenerateShows(10, 42)
	require.Len(t, shows, 10)

	again := GenerateShows(10, 42)
	assert.Equal(t, shows, again)

	for i, show := range shows {
		assert.Equal(t, i+1, show.ID)
		assert.NotEmpty(t, show.Title)
		assert.NotEmpty(t, show.Genres)
		assert.Greater(t, show.ExternalRating, 0.0)
	}
}
