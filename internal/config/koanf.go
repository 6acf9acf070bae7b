// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/couchcritic/config.yaml",
	"/etc/couchcritic/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8080,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		API: APIConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Catalog: CatalogConfig{
			Store: "badger",
			Path:  "/data/catalog",
		},
		TVMaze: TVMazeConfig{
			Enabled:       false,
			URL:           "https://api.tvmaze.com",
			MaxPages:      5,
			RatePerSecond: 2,
			Timeout:       15 * time.Second,
			SyncInterval:  24 * time.Hour,
		},
		Recommend: RecommendConfig{
			K:        10,
			MaxN:     50,
			DefaultN: 10,
			Mode:     "user",
		},
		Synthetic: SyntheticConfig{
			Enabled:  true,
			Users:    200,
			Shows:    100,
			Sparsity: 0.9,
			Seed:     0,
		},
		Bootstrap: BootstrapConfig{
			SeedPath: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources,
// precedence ENV > file > defaults, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive as strings from env vars.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice, from YAML or defaults.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so random environment variables cannot
// pollute the config.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_STORE -> catalog.store
//   - RECOMMEND_K -> recommend.k
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",

		// API mappings
		"rate_limit_requests": "api.rate_limit_reqs",
		"rate_limit_window":   "api.rate_limit_window",
		"cors_origins":        "api.cors_origins",

		// Catalog mappings
		"catalog_store": "catalog.store",
		"catalog_path":  "catalog.path",

		// TVMaze mappings
		"tvmaze_enabled":         "tvmaze.enabled",
		"tvmaze_url":             "tvmaze.url",
		"tvmaze_max_pages":       "tvmaze.max_pages",
		"tvmaze_rate_per_second": "tvmaze.rate_per_second",
		"tvmaze_timeout":         "tvmaze.timeout",
		"tvmaze_sync_interval":   "tvmaze.sync_interval",

		// Recommendation engine mappings
		"recommend_k":         "recommend.k",
		"recommend_max_n":     "recommend.max_n",
		"recommend_default_n": "recommend.default_n",
		"recommend_mode":      "recommend.mode",

		// Synthetic data mappings
		"synthetic_enabled":  "synthetic.enabled",
		"synthetic_users":    "synthetic.users",
		"synthetic_shows":    "synthetic.shows",
		"synthetic_sparsity": "synthetic.sparsity",
		"synthetic_seed":     "synthetic.seed",

		// Bootstrap mappings
		"bootstrap_seed_path": "bootstrap.seed_path",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
