// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2:
//  1. Defaults: built-in sensible defaults for every setting
//  2. Config file: optional YAML file (config.yaml)
//  3. Environment variables: override any setting (highest priority)
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	TVMaze    TVMazeConfig    `koanf:"tvmaze"`
	Recommend RecommendConfig `koanf:"recommend"`
	Synthetic SyntheticConfig `koanf:"synthetic"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables:
//   - HTTP_PORT: listen port (default: 8080)
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds API surface settings.
//
// Environment variables:
//   - RATE_LIMIT_REQUESTS: requests allowed per window per client IP (default: 100)
//   - RATE_LIMIT_WINDOW: rate limit window (default: 1m)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
type APIConfig struct {
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// CatalogConfig selects and configures the show catalog store.
//
// Environment variables:
//   - CATALOG_STORE: "badger" or "memory" (default: badger)
//   - CATALOG_PATH: BadgerDB directory (default: /data/catalog)
type CatalogConfig struct {
	Store string `koanf:"store"`
	Path  string `koanf:"path"`
}

// TVMazeConfig holds TVMaze ingest settings. Ingest is optional; when
// disabled the catalog is populated only from seed data.
//
// Environment variables:
//   - TVMAZE_ENABLED: enable periodic catalog sync (default: false)
//   - TVMAZE_URL: API base URL (default: https://api.tvmaze.com)
//   - TVMAZE_MAX_PAGES: show index pages fetched per sync (default: 5)
//   - TVMAZE_RATE_PER_SECOND: outbound request rate (default: 2)
//   - TVMAZE_TIMEOUT: per-request timeout (default: 15s)
//   - TVMAZE_SYNC_INTERVAL: time between syncs (default: 24h)
type TVMazeConfig struct {
	Enabled       bool          `koanf:"enabled"`
	URL           string        `koanf:"url"`
	MaxPages      int           `koanf:"max_pages"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Timeout       time.Duration `koanf:"timeout"`
	SyncInterval  time.Duration `koanf:"sync_interval"`
}

// RecommendConfig holds recommendation engine settings.
//
// Environment variables:
//   - RECOMMEND_K: neighborhood size (default: 10)
//   - RECOMMEND_MAX_N: upper bound on requested result counts (default: 50)
//   - RECOMMEND_DEFAULT_N: results returned when n is unspecified (default: 10)
//   - RECOMMEND_MODE: "user" or "item" (default: user)
type RecommendConfig struct {
	K        int    `koanf:"k"`
	MaxN     int    `koanf:"max_n"`
	DefaultN int    `koanf:"default_n"`
	Mode     string `koanf:"mode"`
}

// SyntheticConfig holds synthetic rating generation settings, used when the
// matrix would otherwise start empty.
//
// Environment variables:
//   - SYNTHETIC_ENABLED: generate ratings at startup if matrix is empty (default: true)
//   - SYNTHETIC_USERS: number of synthetic users (default: 200)
//   - SYNTHETIC_SHOWS: number of shows to rate (default: 100)
//   - SYNTHETIC_SPARSITY: fraction of cells left empty, 0..1 (default: 0.9)
//   - SYNTHETIC_SEED: RNG seed, 0 means time-based (default: 0)
type SyntheticConfig struct {
	Enabled  bool    `koanf:"enabled"`
	Users    int     `koanf:"users"`
	Shows    int     `koanf:"shows"`
	Sparsity float64 `koanf:"sparsity"`
	Seed     int64   `koanf:"seed"`
}

// BootstrapConfig holds startup data loading settings.
//
// Environment variables:
//   - BOOTSTRAP_SEED_PATH: path to a seed JSON file written by couchcritic-seed
//     (default: empty, no seed file)
type BootstrapConfig struct {
	SeedPath string `koanf:"seed_path"`
}

// LoggingConfig holds logging settings.
//
// Environment variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller info (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that configuration values are present and within bounds.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateTVMaze(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSynthetic(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.API.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Store {
	case "badger":
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_STORE=badger")
		}
	case "memory":
	default:
		return fmt.Errorf("CATALOG_STORE must be badger or memory, got %q", c.Catalog.Store)
	}
	return nil
}

func (c *Config) validateTVMaze() error {
	if !c.TVMaze.Enabled {
		return nil
	}
	if c.TVMaze.URL == "" {
		return fmt.Errorf("TVMAZE_URL is required when TVMAZE_ENABLED=true")
	}
	if c.TVMaze.MaxPages < 1 {
		return fmt.Errorf("TVMAZE_MAX_PAGES must be at least 1, got %d", c.TVMaze.MaxPages)
	}
	if c.TVMaze.RatePerSecond <= 0 {
		return fmt.Errorf("TVMAZE_RATE_PER_SECOND must be positive, got %g", c.TVMaze.RatePerSecond)
	}
	if c.TVMaze.SyncInterval < time.Minute {
		return fmt.Errorf("TVMAZE_SYNC_INTERVAL must be at least 1m, got %s", c.TVMaze.SyncInterval)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.K < 1 {
		return fmt.Errorf("RECOMMEND_K must be at least 1, got %d", c.Recommend.K)
	}
	if c.Recommend.MaxN < 1 {
		return fmt.Errorf("RECOMMEND_MAX_N must be at least 1, got %d", c.Recommend.MaxN)
	}
	if c.Recommend.DefaultN < 1 || c.Recommend.DefaultN > c.Recommend.MaxN {
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be between 1 and RECOMMEND_MAX_N (%d), got %d",
			c.Recommend.MaxN, c.Recommend.DefaultN)
	}
	if c.Recommend.Mode != "user" && c.Recommend.Mode != "item" {
		return fmt.Errorf("RECOMMEND_MODE must be user or item, got %q", c.Recommend.Mode)
	}
	return nil
}

func (c *Config) validateSynthetic() error {
	if !c.Synthetic.Enabled {
		return nil
	}
	if c.Synthetic.Users < 1 {
		return fmt.Errorf("SYNTHETIC_USERS must be at least 1, got %d", c.Synthetic.Users)
	}
	if c.Synthetic.Shows < 1 {
		return fmt.Errorf("SYNTHETIC_SHOWS must be at least 1, got %d", c.Synthetic.Shows)
	}
	if c.Synthetic.Sparsity < 0 || c.Synthetic.Sparsity >= 1 {
		return fmt.Errorf("SYNTHETIC_SPARSITY must be in [0, 1), got %g", c.Synthetic.Sparsity)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
