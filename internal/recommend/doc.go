// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

// Package recommend implements k-NN collaborative filtering over an
// in-memory sparse rating matrix.
//
// # Architecture
//
// The package is built from four pieces:
//
//   - Matrix: the sparse user/show rating matrix, maintained as paired
//     row and column adjacency maps under a single RWMutex. A missing
//     cell means "unrated", never 0.
//   - Cosine: the similarity engine. Pure functions over sparse vectors;
//     an undefined similarity is signalled with comma-ok, not a sentinel.
//   - Recommender: the k-NN scorer, supporting user-based and item-based
//     neighborhoods (Mode). Stateless between calls; every computation
//     reads a consistent matrix snapshot under the read lock.
//   - Service: the orchestration layer the API talks to. It owns the
//     Matrix, applies rating submissions, delegates scoring, and enriches
//     results from the show catalog.
//
// A synthetic generator (GenerateMatrix, GenerateShows) provides
// deterministic bootstrap data for the cold-start phase.
//
// # Modes
//
// ModeUserBased ranks neighbors among users and predicts from their
// ratings; ModeItemBased ranks neighbors among the shows the target user
// has already rated. Item-based output tends to be more stable for users
// with few ratings. Mode is open for a future model-based variant.
//
// # Errors
//
// The package surfaces typed errors: *ConfigError for invalid engine
// parameters, *ValidationError for bad input data, and
// *InsufficientDataError when the matrix cannot support a prediction.
// Callers decide the transport mapping; see internal/api.
package recommend
