// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxSearchResults bounds /shows/search responses.
const maxSearchResults = 50

// showIDParam parses the {showID} path parameter.
func showIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "showID"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// handleListShows returns the full catalog.
func (router *Router) handleListShows(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	shows, err := router.store.ListShows(r.Context())
	if err != nil {
		status, code, message := mapServiceError(err)
		respondError(w, status, code, message, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"count": len(shows),
		"shows": shows,
	}, started)
}

// handleGetShow returns one show by ID.
func (router *Router) handleGetShow(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := showIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "show ID must be a positive integer", nil)
		return
	}

	show, err := router.store.GetShow(r.Context(), id)
	if err != nil {
		status, code, message := mapServiceError(err)
		respondError(w, status, code, message, err)
		return
	}

	respondData(w, http.StatusOK, show, started)
}

// handleSearchShows searches the catalog by title substring.
func (router *Router) handleSearchShows(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "query parameter q is required", nil)
		return
	}

	shows, err := router.store.SearchShows(r.Context(), query, maxSearchResults)
	if err != nil {
		status, code, message := mapServiceError(err)
		respondError(w, status, code, message, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"query": query,
		"count": len(shows),
		"shows": shows,
	}, started)
}

// handleSimilarShows ranks shows similar to the given one by rating
// column similarity.
func (router *Router) handleSimilarShows(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	id, ok := showIDParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "show ID must be a positive integer", nil)
		return
	}
	n, err := getIntParam(r, "n", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}

	recs, err := router.service.SimilarShows(r.Context(), id, n)
	if err != nil {
		status, code, message := mapServiceError(err)
		respondError(w, status, code, message, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"show_id": id,
		"similar": recs,
	}, started)
}
