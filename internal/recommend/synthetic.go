// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import (
	"fmt"
	"math/rand"

	"github.com/couchcritic/couchcritic/internal/models"
)

// GeneratorConfig controls synthetic matrix generation.
type GeneratorConfig struct {
	// Users is the number of synthetic users.
	Users int

	// Shows is the number of shows to rate, used when ShowIDs is empty.
	// Show IDs then run 1..Shows.
	Shows int

	// Sparsity is the fraction of cells left empty, in [0, 1). Each cell
	// is populated independently with probability 1-Sparsity.
	Sparsity float64

	// Seed seeds the generator. The same seed always produces the same
	// matrix.
	Seed int64

	// ShowIDs, when non-empty, is the exact set of rateable show IDs
	// (typically real catalog IDs). Takes precedence over Shows.
	ShowIDs []int
}

// ratingWeights is the skewed distribution synthetic ratings are drawn
// from. Real rating data leans positive; a uniform draw would make every
// user vector look alike to the cosine metric.
var ratingWeights = []struct {
	value  float64
	weight float64
}{
	{1, 0.05},
	{2, 0.10},
	{3, 0.25},
	{4, 0.35},
	{5, 0.25},
}

// GenerateMatrix builds a synthetic rating matrix. The output is
// deterministic for a given config and touches no global state.
func GenerateMatrix(cfg GeneratorConfig) (*Matrix, error) {
	if cfg.Users < 1 {
		return nil, &ConfigError{Param: "users", Value: cfg.Users, Message: "must be at least 1"}
	}
	if len(cfg.ShowIDs) == 0 && cfg.Shows < 1 {
		return nil, &ConfigError{Param: "shows", Value: cfg.Shows, Message: "must be at least 1"}
	}
	if cfg.Sparsity < 0 || cfg.Sparsity >= 1 {
		return nil, &ConfigError{Param: "sparsity", Value: cfg.Sparsity, Message: "must be in [0, 1)"}
	}

	showIDs := cfg.ShowIDs
	if len(showIDs) == 0 {
		showIDs = make([]int, cfg.Shows)
		for i := range showIDs {
			showIDs[i] = i + 1
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	m := NewMatrix()
	fill := 1 - cfg.Sparsity

	for u := 1; u <= cfg.Users; u++ {
		userID := fmt.Sprintf("user-%04d", u)
		for _, showID := range showIDs {
			if rng.Float64() >= fill {
				continue
			}
			// m is local until returned, no locking needed
			m.setLocked(userID, showID, drawRating(rng))
		}
	}
	return m, nil
}

// drawRating samples one rating value from ratingWeights.
func drawRating(rng *rand.Rand) float64 {
	p := rng.Float64()
	var cumulative float64
	for _, rw := range ratingWeights {
		cumulative += rw.weight
		if p < cumulative {
			return rw.value
		}
	}
	return ratingWeights[len(ratingWeights)-1].value
}

// syntheticGenres is the genre pool for generated shows.
var syntheticGenres = []string{
	"Drama", "Comedy", "Thriller", "Science-Fiction",
	"Crime", "Horror", "Romance", "Documentary",
}

// GenerateShows produces a synthetic show catalog matching the ID range
// GenerateMatrix uses when no ShowIDs are given. Deterministic per seed.
func GenerateShows(n int, seed int64) []models.Show {
	rng := rand.New(rand.NewSource(seed))
	shows := make([]models.Show, n)
	for i := range shows {
		g1 := syntheticGenres[rng.Intn(len(syntheticGenres))]
		genres := []string{g1}
		if g2 := syntheticGenres[rng.Intn(len(syntheticGenres))]; g2 != g1 {
			genres = append(genres, g2)
		}
		shows[i] = models.Show{
			ID:             i + 1,
			Title:          fmt.Sprintf("Synthetic Show %d", i+1),
			Genres:         genres,
			ExternalRating: 5 + rng.Float64()*4.5,
			Runtime:        30 + 15*rng.Intn(3),
			Status:         "Running",
		}
	}
	return shows
}
