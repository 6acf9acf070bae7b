// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

// Package main is the entry point for the couchcritic server.
//
// couchcritic serves TV show recommendations computed with k-nearest-
// neighbor collaborative filtering over an in-memory rating matrix,
// backed by a persistent show catalog.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog, configured from LOG_LEVEL / LOG_FORMAT
//  3. Catalog store: BadgerDB at CATALOG_PATH, or in-memory
//  4. Recommendation service: matrix plus k-NN recommender
//  5. Bootstrap: seed file, or synthetic data when the matrix is empty
//  6. Supervisor tree: catalog sync (optional) and the HTTP server
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (HTTP_PORT, CATALOG_STORE, RECOMMEND_K, ...)
//   - Config file (CONFIG_PATH, default ./config.yaml)
//   - Built-in defaults
//
// # Bootstrap
//
// With BOOTSTRAP_SEED_PATH set, shows and ratings are loaded from the
// seed file produced by cmd/seed. Otherwise, when synthetic data is
// enabled and the matrix is empty, a deterministic synthetic matrix is
// generated so the API is usable immediately.
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the supervisor stops
// the sync loop, drains in-flight HTTP requests, and closes the
// catalog store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcritic/couchcritic/internal/api"
	"github.com/couchcritic/couchcritic/internal/catalog"
	"github.com/couchcritic/couchcritic/internal/config"
	"github.com/couchcritic/couchcritic/internal/logging"
	"github.com/couchcritic/couchcritic/internal/recommend"
	"github.com/couchcritic/couchcritic/internal/supervisor"
	"github.com/couchcritic/couchcritic/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The default logger handles config errors, config is not yet available.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_store", cfg.Catalog.Store).
		Bool("tvmaze_enabled", cfg.TVMaze.Enabled).
		Str("recommend_mode", cfg.Recommend.Mode).
		Msg("Starting couchcritic")

	store, err := newCatalogStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open catalog store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog store")
		}
	}()

	service, err := recommend.NewService(recommend.Config{
		K:        cfg.Recommend.K,
		MaxN:     cfg.Recommend.MaxN,
		DefaultN: cfg.Recommend.DefaultN,
		Mode:     recommend.Mode(cfg.Recommend.Mode),
	}, store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bootstrap(ctx, cfg, store, service); err != nil {
		logging.Fatal().Err(err).Msg("Bootstrap failed")
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	if cfg.TVMaze.Enabled {
		client := catalog.NewTVMazeClient(catalog.TVMazeConfig{
			BaseURL:       cfg.TVMaze.URL,
			MaxPages:      cfg.TVMaze.MaxPages,
			RatePerSecond: cfg.TVMaze.RatePerSecond,
			Timeout:       cfg.TVMaze.Timeout,
		})
		tree.AddIngestService(services.NewCatalogSyncService(client, store, cfg.TVMaze.SyncInterval, logging.Logger()))
		logging.Info().
			Dur("interval", cfg.TVMaze.SyncInterval).
			Msg("Catalog sync added to supervisor tree")
	}

	router := api.NewRouter(service, store, cfg.API)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// The channel closes once every child has stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newCatalogStore opens the configured catalog backend.
func newCatalogStore(cfg *config.Config) (catalog.Store, error) {
	switch cfg.Catalog.Store {
	case "badger":
		store, err := catalog.NewBadgerStore(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("open badger catalog at %s: %w", cfg.Catalog.Path, err)
		}
		logging.Info().Str("path", cfg.Catalog.Path).Msg("Badger catalog store opened")
		return store, nil
	case "memory":
		logging.Warn().Msg("In-memory catalog store, shows will be lost on restart")
		return catalog.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown catalog store %q", cfg.Catalog.Store)
	}
}

// bootstrap fills the catalog and rating matrix before the server
// starts listening. A seed file takes precedence over synthetic data.
func bootstrap(ctx context.Context, cfg *config.Config, store catalog.Store, service *recommend.Service) error {
	if cfg.Bootstrap.SeedPath != "" {
		return bootstrapFromSeed(ctx, cfg.Bootstrap.SeedPath, store, service)
	}
	if cfg.Synthetic.Enabled {
		return bootstrapSynthetic(ctx, cfg, store, service)
	}
	logging.Info().Msg("No bootstrap configured, starting with an empty matrix")
	return nil
}

func bootstrapFromSeed(ctx context.Context, path string, store catalog.Store, service *recommend.Service) error {
	seed, err := catalog.LoadSeed(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}

	if err := store.PutShows(ctx, seed.Shows); err != nil {
		return fmt.Errorf("store seed shows: %w", err)
	}

	m := recommend.NewMatrix()
	byUser := make(map[string]map[int]float64)
	for _, r := range seed.Ratings {
		if byUser[r.UserID] == nil {
			byUser[r.UserID] = make(map[int]float64)
		}
		byUser[r.UserID][r.ShowID] = r.Value
	}
	for userID, ratings := range byUser {
		if err := m.SetRatings(userID, ratings); err != nil {
			return fmt.Errorf("seed ratings for user %s: %w", userID, err)
		}
	}
	service.SeedMatrix(m)

	logging.Info().
		Str("path", path).
		Int("shows", len(seed.Shows)).
		Int("ratings", len(seed.Ratings)).
		Msg("Bootstrapped from seed file")
	return nil
}

func bootstrapSynthetic(ctx context.Context, cfg *config.Config, store catalog.Store, service *recommend.Service) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count catalog shows: %w", err)
	}

	gen := recommend.GeneratorConfig{
		Users:    cfg.Synthetic.Users,
		Shows:    cfg.Synthetic.Shows,
		Sparsity: cfg.Synthetic.Sparsity,
		Seed:     cfg.Synthetic.Seed,
	}

	if count > 0 {
		// An existing catalog provides real show IDs to rate against.
		shows, err := store.ListShows(ctx)
		if err != nil {
			return fmt.Errorf("list catalog shows: %w", err)
		}
		if len(shows) > cfg.Synthetic.Shows {
			shows = shows[:cfg.Synthetic.Shows]
		}
		for _, show := range shows {
			gen.ShowIDs = append(gen.ShowIDs, show.ID)
		}
	} else {
		shows := recommend.GenerateShows(cfg.Synthetic.Shows, cfg.Synthetic.Seed)
		if err := store.PutShows(ctx, shows); err != nil {
			return fmt.Errorf("store synthetic shows: %w", err)
		}
	}

	m, err := recommend.GenerateMatrix(gen)
	if err != nil {
		return fmt.Errorf("generate synthetic matrix: %w", err)
	}
	service.SeedMatrix(m)

	stats := service.Stats()
	logging.Info().
		Int("users", stats.Users).
		Int("shows", stats.Shows).
		Int("ratings", stats.Ratings).
		Int64("seed", cfg.Synthetic.Seed).
		Msg("Bootstrapped with synthetic data")
	return nil
}
