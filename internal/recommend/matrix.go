// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import (
	"sort"
	"sync"

	"github.com/couchcritic/couchcritic/internal/models"
)

// Matrix is the sparse user/show rating matrix.
//
// It is stored as paired adjacency maps: one keyed by user (rows), one keyed
// by show (columns), kept in sync on every write. Both views exist so that
// user-based and item-based filtering each get their natural vector lookup
// without scanning the other axis.
//
// A missing cell means the user has not rated the show; 0 is never a stored
// value. Rows and columns appear on first write and are never removed.
//
// All exported methods are safe for concurrent use. Within the package, the
// recommender reads the maps directly while holding mu.RLock so one
// computation sees one consistent snapshot.
type Matrix struct {
	mu    sync.RWMutex
	users map[string]map[int]float64
	shows map[int]map[string]float64
	cells int
}

// NewMatrix creates an empty rating matrix.
func NewMatrix() *Matrix {
	return &Matrix{
		users: make(map[string]map[int]float64),
		shows: make(map[int]map[string]float64),
	}
}

// SetRating stores one rating, overwriting any prior value for the same
// (user, show) pair. The value must be in [1, 5].
func (m *Matrix) SetRating(userID string, showID int, value float64) error {
	if err := checkRating(userID, showID, value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(userID, showID, value)
	return nil
}

// SetRatings stores a batch of ratings for one user atomically: the whole
// batch is validated first and either fully applied or not at all.
func (m *Matrix) SetRatings(userID string, ratings map[int]float64) error {
	for showID, value := range ratings {
		if err := checkRating(userID, showID, value); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for showID, value := range ratings {
		m.setLocked(userID, showID, value)
	}
	return nil
}

// setLocked writes one cell. Caller holds mu.
func (m *Matrix) setLocked(userID string, showID int, value float64) {
	row, ok := m.users[userID]
	if !ok {
		row = make(map[int]float64)
		m.users[userID] = row
	}
	if _, exists := row[showID]; !exists {
		m.cells++
	}
	row[showID] = value

	col, ok := m.shows[showID]
	if !ok {
		col = make(map[string]float64)
		m.shows[showID] = col
	}
	col[userID] = value
}

// checkRating validates one rating submission.
func checkRating(userID string, showID int, value float64) error {
	if userID == "" {
		return &ValidationError{Field: "user_id", Value: userID, Message: "must not be empty"}
	}
	if showID < 1 {
		return &ValidationError{Field: "show_id", Value: showID, Message: "must be positive"}
	}
	if value < 1 || value > 5 {
		return &ValidationError{Field: "rating", Value: value, Message: "must be between 1 and 5"}
	}
	return nil
}

// UserRatings returns a copy of the user's row, or nil if the user is
// unknown.
func (m *Matrix) UserRatings(userID string) map[int]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.users[userID]
	if !ok {
		return nil
	}
	out := make(map[int]float64, len(row))
	for showID, value := range row {
		out[showID] = value
	}
	return out
}

// ShowRatings returns a copy of the show's column, or nil if nobody has
// rated the show.
func (m *Matrix) ShowRatings(showID int) map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.shows[showID]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(col))
	for userID, value := range col {
		out[userID] = value
	}
	return out
}

// HasUser reports whether the user has at least one rating.
func (m *Matrix) HasUser(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users[userID]) > 0
}

// HasShow reports whether the show has at least one rating.
func (m *Matrix) HasShow(showID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.shows[showID]) > 0
}

// Users returns the number of users with at least one rating.
func (m *Matrix) Users() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// Shows returns the number of shows with at least one rating.
func (m *Matrix) Shows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.shows)
}

// Ratings returns the number of stored ratings.
func (m *Matrix) Ratings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cells
}

// AllRatings returns every stored rating sorted by user then show, for
// seed-file export.
func (m *Matrix) AllRatings() []models.Rating {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Rating, 0, m.cells)
	for userID, row := range m.users {
		for showID, value := range row {
			out = append(out, models.Rating{UserID: userID, ShowID: showID, Value: value})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ShowID < out[j].ShowID
	})
	return out
}
