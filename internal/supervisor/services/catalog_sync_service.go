// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/couchcritic/couchcritic/internal/catalog"
)

// Ingester matches the catalog TVMaze client's Ingest method, so tests
// can substitute a mock.
type Ingester interface {
	Ingest(ctx context.Context, store catalog.Store) (int, error)
}

// CatalogSyncService periodically refreshes the show catalog from the
// external index.
//
// The first sync runs immediately on start, then every interval. A
// failed sync is logged and retried on the next tick rather than
// returned, so the supervisor only restarts on real faults.
type CatalogSyncService struct {
	ingester Ingester
	store    catalog.Store
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCatalogSyncService creates a catalog sync service wrapper.
func NewCatalogSyncService(ingester Ingester, store catalog.Store, interval time.Duration, logger zerolog.Logger) *CatalogSyncService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CatalogSyncService{
		ingester: ingester,
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "catalog-sync").Logger(),
		name:     "catalog-sync",
	}
}

// Serve implements suture.Service.
func (s *CatalogSyncService) Serve(ctx context.Context) error {
	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *CatalogSyncService) runSync(ctx context.Context) {
	started := time.Now()
	stored, err := s.ingester.Ingest(ctx, s.store)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error().Err(err).
			Dur("elapsed", time.Since(started)).
			Msg("catalog sync failed")
		return
	}
	s.logger.Info().
		Int("shows", stored).
		Dur("elapsed", time.Since(started)).
		Msg("catalog sync complete")
}

// String identifies the service in supervisor log messages.
func (s *CatalogSyncService) String() string {
	return s.name
}
