// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

// Package main generates a deterministic seed file of synthetic shows
// and ratings for bootstrapping a couchcritic server.
//
// Usage:
//
//	seed -users 200 -shows 100 -sparsity 0.9 -seed 42 -out seed.json
//
// Point the server at the output with BOOTSTRAP_SEED_PATH=seed.json.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcritic/couchcritic/internal/catalog"
	"github.com/couchcritic/couchcritic/internal/recommend"
)

func main() {
	users := flag.Int("users", 200, "number of synthetic users")
	shows := flag.Int("shows", 100, "number of synthetic shows")
	sparsity := flag.Float64("sparsity", 0.9, "fraction of matrix cells left empty, in [0, 1)")
	seed := flag.Int64("seed", 42, "generator seed, same seed gives same output")
	out := flag.String("out", "seed.json", "output file path")
	flag.Parse()

	if err := run(*users, *shows, *sparsity, *seed, *out); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(users, shows int, sparsity float64, seed int64, out string) error {
	matrix, err := recommend.GenerateMatrix(recommend.GeneratorConfig{
		Users:    users,
		Shows:    shows,
		Sparsity: sparsity,
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	file := &catalog.SeedFile{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Seed:        seed,
		Shows:       recommend.GenerateShows(shows, seed),
		Ratings:     matrix.AllRatings(),
	}

	if err := catalog.WriteSeed(out, file); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d shows, %d ratings from %d users\n",
		out, len(file.Shows), len(file.Ratings), matrix.Users())
	return nil
}
