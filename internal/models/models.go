// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package models

// Show represents a TV show in the catalog.
//
// Shows are immutable once ingested; re-ingestion from the catalog source
// replaces the stored record wholesale.
type Show struct {
	// ID is the stable catalog identifier (TVMaze show ID for ingested shows).
	ID int `json:"id"`

	// Title is the show title.
	Title string `json:"title"`

	// Genres is the set of genre names.
	Genres []string `json:"genres,omitempty"`

	// ExternalRating is the catalog-source average rating on a 0-10 scale.
	// Zero means the source reported no rating.
	ExternalRating float64 `json:"external_rating,omitempty"`

	// Runtime is the episode runtime in minutes, if known.
	Runtime int `json:"runtime,omitempty"`

	// Premiered is the premiere date in YYYY-MM-DD form, if known.
	Premiered string `json:"premiered,omitempty"`

	// Status is the airing status reported by the catalog source
	// (e.g. "Running", "Ended").
	Status string `json:"status,omitempty"`

	// Summary is the plain-text show summary.
	Summary string `json:"summary,omitempty"`
}

// Rating is a single explicit user rating of a show.
//
// There is at most one rating per (UserID, ShowID) pair; a new rating for the
// same pair overwrites the prior value (last-write-wins). Values are in [1, 5]
// and never zero, so "unrated" is always expressed by absence, not by 0.
type Rating struct {
	UserID string  `json:"user_id"`
	ShowID int     `json:"show_id"`
	Value  float64 `json:"value"`
}

// Recommendation is a single scored entry in a recommendation response.
//
// Recommendations are ephemeral: produced per request, never persisted.
// Title, Genres and ExternalRating are filled from the catalog when the
// show is known there; a show can be recommended purely from rating data.
type Recommendation struct {
	ShowID int `json:"show_id"`

	// PredictedRating is the predicted rating on the 1-5 scale for
	// personalized recommendations, or the similarity score in [-1, 1]
	// for show-to-show similarity queries.
	PredictedRating float64 `json:"predicted_rating"`

	Title          string   `json:"title,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	ExternalRating float64  `json:"external_rating,omitempty"`
}
