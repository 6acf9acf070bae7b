// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package catalog

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/couchcritic/couchcritic/internal/models"
)

// SeedFile is the bootstrap data format written by couchcritic-seed and
// loaded by the server at startup.
type SeedFile struct {
	// GeneratedAt is an RFC3339 timestamp recorded at write time.
	GeneratedAt string `json:"generated_at"`

	// Seed is the generator seed the data was produced with.
	Seed int64 `json:"seed"`

	Shows   []models.Show   `json:"shows"`
	Ratings []models.Rating `json:"ratings"`
}

// WriteSeed writes a seed file atomically (temp file + rename).
func WriteSeed(path string, seed *SeedFile) error {
	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seed file: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename seed file: %w", err)
	}
	return nil
}

// LoadSeed reads and decodes a seed file.
func LoadSeed(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &seed, nil
}
