// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import (
	"sort"

	"github.com/couchcritic/couchcritic/internal/models"
)

// Mode selects the neighborhood axis for k-NN scoring.
type Mode string

const (
	// ModeUserBased ranks neighbors among users and predicts a show's
	// rating from what similar users gave it.
	ModeUserBased Mode = "user"

	// ModeItemBased ranks neighbors among the shows the target user has
	// rated and predicts from column-vector similarity.
	ModeItemBased Mode = "item"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeUserBased:
		return ModeUserBased, nil
	case ModeItemBased:
		return ModeItemBased, nil
	default:
		return "", &ValidationError{Field: "mode", Value: s, Message: "must be user or item"}
	}
}

// Recommender scores unrated shows for a target user with k-NN
// collaborative filtering. It holds no state between calls; every
// computation reads the matrix under its read lock and sees one
// consistent snapshot.
type Recommender struct {
	k int
}

// NewRecommender creates a recommender with neighborhood size k.
func NewRecommender(k int) (*Recommender, error) {
	if k < 1 {
		return nil, &ConfigError{Param: "k", Value: k, Message: "must be at least 1"}
	}
	return &Recommender{k: k}, nil
}

// userNeighbor pairs a neighbor user with its similarity to the target.
type userNeighbor struct {
	userID string
	sim    float64
}

// Recommend returns up to n unrated shows for the target user, sorted by
// predicted rating descending with ties broken by ascending show ID.
//
// Shows the target has rated are never returned. Returns
// *InsufficientDataError when the target has no ratings or no eligible
// neighbor contributes a prediction.
func (r *Recommender) Recommend(target string, m *Matrix, n int, mode Mode) ([]models.Recommendation, error) {
	if target == "" {
		return nil, &ValidationError{Field: "user_id", Value: target, Message: "must not be empty"}
	}
	if n < 1 {
		return nil, &ConfigError{Param: "n", Value: n, Message: "must be at least 1"}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	targetRow := m.users[target]
	if len(targetRow) == 0 {
		return nil, &InsufficientDataError{UserID: target, Reason: "no ratings submitted"}
	}

	var scores map[int]float64
	switch mode {
	case ModeUserBased:
		scores = r.scoreUserBased(target, targetRow, m)
	case ModeItemBased:
		scores = r.scoreItemBased(targetRow, m)
	default:
		return nil, &ValidationError{Field: "mode", Value: string(mode), Message: "must be user or item"}
	}

	if len(scores) == 0 {
		return nil, &InsufficientDataError{UserID: target, Reason: "no eligible neighbors"}
	}

	return topN(scores, n), nil
}

// RecommendForRatings scores against an ephemeral rating vector that is
// not stored in the matrix, for stateless one-shot requests.
func (r *Recommender) RecommendForRatings(ratings map[int]float64, m *Matrix, n int, mode Mode) ([]models.Recommendation, error) {
	if n < 1 {
		return nil, &ConfigError{Param: "n", Value: n, Message: "must be at least 1"}
	}
	if len(ratings) == 0 {
		return nil, &InsufficientDataError{Reason: "no ratings submitted"}
	}
	for showID, value := range ratings {
		if err := checkRating("ephemeral", showID, value); err != nil {
			return nil, err
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var scores map[int]float64
	switch mode {
	case ModeUserBased:
		// The empty target ID never collides with a stored user, so the
		// virtual row is compared against every real row.
		scores = r.scoreUserBased("", ratings, m)
	case ModeItemBased:
		scores = r.scoreItemBased(ratings, m)
	default:
		return nil, &ValidationError{Field: "mode", Value: string(mode), Message: "must be user or item"}
	}

	if len(scores) == 0 {
		return nil, &InsufficientDataError{Reason: "no eligible neighbors"}
	}
	return topN(scores, n), nil
}

// SimilarShows ranks other shows by column-vector cosine against the given
// show. PredictedRating carries the similarity score, not a rating.
func (r *Recommender) SimilarShows(showID, n int, m *Matrix) ([]models.Recommendation, error) {
	if n < 1 {
		return nil, &ConfigError{Param: "n", Value: n, Message: "must be at least 1"}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	col := m.shows[showID]
	if len(col) == 0 {
		return nil, &InsufficientDataError{ShowID: showID, Reason: "show has no ratings"}
	}

	type showSim struct {
		showID int
		sim    float64
	}
	sims := make([]showSim, 0, len(m.shows))
	for otherID, otherCol := range m.shows {
		if otherID == showID {
			continue
		}
		sim, ok := Cosine(col, otherCol)
		if !ok {
			continue
		}
		sims = append(sims, showSim{showID: otherID, sim: sim})
	}

	sort.Slice(sims, func(i, j int) bool {
		if sims[i].sim != sims[j].sim {
			return sims[i].sim > sims[j].sim
		}
		return sims[i].showID < sims[j].showID
	})
	if len(sims) > n {
		sims = sims[:n]
	}

	out := make([]models.Recommendation, len(sims))
	for i, s := range sims {
		out[i] = models.Recommendation{ShowID: s.showID, PredictedRating: s.sim}
	}
	return out, nil
}

// scoreUserBased predicts ratings for shows the target has not rated from
// the target's top-k most similar users. Caller holds the matrix read lock.
//
// For a candidate show s:
//
//	score(s) = sum_{v in N} sim(target, v) * r(v, s) / sum_{v in N} sim(target, v)
//
// where N is the subset of the k nearest neighbors that rated s. Neighbors
// with undefined or non-positive similarity are excluded entirely.
func (r *Recommender) scoreUserBased(target string, targetRow map[int]float64, m *Matrix) map[int]float64 {
	neighbors := make([]userNeighbor, 0, len(m.users))
	for userID, row := range m.users {
		if userID == target {
			continue
		}
		sim, ok := Cosine(targetRow, row)
		if !ok || sim <= 0 {
			continue
		}
		neighbors = append(neighbors, userNeighbor{userID: userID, sim: sim})
	}
	if len(neighbors) == 0 {
		return nil
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].sim != neighbors[j].sim {
			return neighbors[i].sim > neighbors[j].sim
		}
		return neighbors[i].userID < neighbors[j].userID
	})
	if len(neighbors) > r.k {
		neighbors = neighbors[:r.k]
	}

	num := make(map[int]float64)
	den := make(map[int]float64)
	for _, nb := range neighbors {
		for showID, value := range m.users[nb.userID] {
			if _, rated := targetRow[showID]; rated {
				continue
			}
			num[showID] += nb.sim * value
			den[showID] += nb.sim
		}
	}

	scores := make(map[int]float64, len(num))
	for showID, numerator := range num {
		if den[showID] <= 0 {
			continue
		}
		scores[showID] = clampRating(numerator / den[showID])
	}
	return scores
}

// scoreItemBased predicts ratings for unrated shows from the column
// similarity between each candidate and the shows in targetRow. For each
// candidate the k most similar rated shows contribute, weighted by
// similarity. Caller holds the matrix read lock.
func (r *Recommender) scoreItemBased(targetRow map[int]float64, m *Matrix) map[int]float64 {
	type contribution struct {
		sim   float64
		value float64
	}

	scores := make(map[int]float64)
	for candidateID, candidateCol := range m.shows {
		if _, rated := targetRow[candidateID]; rated {
			continue
		}

		contribs := make([]contribution, 0, len(targetRow))
		for ratedID, value := range targetRow {
			ratedCol := m.shows[ratedID]
			if len(ratedCol) == 0 {
				continue
			}
			sim, ok := Cosine(candidateCol, ratedCol)
			if !ok || sim <= 0 {
				continue
			}
			contribs = append(contribs, contribution{sim: sim, value: value})
		}
		if len(contribs) == 0 {
			continue
		}

		sort.Slice(contribs, func(i, j int) bool {
			return contribs[i].sim > contribs[j].sim
		})
		if len(contribs) > r.k {
			contribs = contribs[:r.k]
		}

		var num, den float64
		for _, c := range contribs {
			num += c.sim * c.value
			den += c.sim
		}
		if den > 0 {
			scores[candidateID] = clampRating(num / den)
		}
	}
	return scores
}

// topN converts a score map to a sorted, truncated recommendation list.
func topN(scores map[int]float64, n int) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(scores))
	for showID, score := range scores {
		out = append(out, models.Recommendation{ShowID: showID, PredictedRating: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PredictedRating != out[j].PredictedRating {
			return out[i].PredictedRating > out[j].PredictedRating
		}
		return out[i].ShowID < out[j].ShowID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// clampRating bounds a predicted rating to the 1-5 scale. Weighted
// averages of in-range values stay in range; this guards against float
// drift at the boundaries.
func clampRating(v float64) float64 {
	switch {
	case v < 1:
		return 1
	case v > 5:
		return 5
	default:
		return v
	}
}
