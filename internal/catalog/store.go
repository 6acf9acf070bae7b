// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

// Package catalog maintains the show catalog: the metadata store the
// recommendation service enriches its results from, and the TVMaze ingest
// client that populates it.
//
// Two Store implementations exist: MemoryStore for tests and ephemeral
// deployments, and BadgerStore for persistence across restarts. The
// recommendation core never writes to the catalog; only ingest and
// bootstrap do.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/couchcritic/couchcritic/internal/models"
)

// ErrShowNotFound is returned by Store.GetShow for unknown show IDs.
var ErrShowNotFound = errors.New("show not found")

// Store is the show catalog storage contract.
type Store interface {
	// GetShow returns one show by ID, or ErrShowNotFound.
	GetShow(ctx context.Context, id int) (models.Show, error)

	// ListShows returns all shows sorted by ID.
	ListShows(ctx context.Context) ([]models.Show, error)

	// PutShows upserts a batch of shows.
	PutShows(ctx context.Context, shows []models.Show) error

	// SearchShows returns up to limit shows whose title contains the
	// query, case-insensitively, sorted by ID.
	SearchShows(ctx context.Context, query string, limit int) ([]models.Show, error)

	// Count returns the number of stored shows.
	Count(ctx context.Context) (int, error)

	// Close releases store resources.
	Close() error
}

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	shows map[int]models.Show
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{shows: make(map[int]models.Show)}
}

// GetShow returns one show by ID, or ErrShowNotFound.
func (s *MemoryStore) GetShow(_ context.Context, id int) (models.Show, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	show, ok := s.shows[id]
	if !ok {
		return models.Show{}, ErrShowNotFound
	}
	return show, nil
}

// ListShows returns all shows sorted by ID.
func (s *MemoryStore) ListShows(_ context.Context) ([]models.Show, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Show, 0, len(s.shows))
	for _, show := range s.shows {
		out = append(out, show)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PutShows upserts a batch of shows.
func (s *MemoryStore) PutShows(_ context.Context, shows []models.Show) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, show := range shows {
		s.shows[show.ID] = show
	}
	return nil
}

// SearchShows returns shows whose title contains the query.
func (s *MemoryStore) SearchShows(_ context.Context, query string, limit int) ([]models.Show, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]models.Show, 0)
	for _, show := range s.shows {
		if strings.Contains(strings.ToLower(show.Title), q) {
			out = append(out, show)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the number of stored shows.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shows), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
