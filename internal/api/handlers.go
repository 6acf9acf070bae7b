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

	"github.com/couchcritic/couchcritic/internal/logging"
	"github.com/couchcritic/couchcritic/internal/recommend"
)

// submitRatingsRequest is the body of POST /api/v1/users/{userID}/ratings.
// Keys are show IDs as JSON object keys (strings on the wire).
type submitRatingsRequest struct {
	Ratings map[string]float64 `json:"ratings" validate:"required,min=1"`
}

// statelessRecommendRequest is the body of POST /api/v1/recommendations:
// a one-shot rating vector scored without being stored.
type statelessRecommendRequest struct {
	Ratings map[string]float64 `json:"ratings" validate:"required,min=1"`
	N       int                `json:"n" validate:"omitempty,gte=1"`
	Mode    string             `json:"mode" validate:"omitempty,oneof=user item"`
}

// parseRatingKeys converts wire-format string show IDs to ints.
func parseRatingKeys(in map[string]float64) (map[int]float64, bool) {
	out := make(map[int]float64, len(in))
	for key, value := range in {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		out[id] = value
	}
	return out, true
}

// handleSubmitRatings stores a batch of ratings for a user.
func (router *Router) handleSubmitRatings(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	var req submitRatingsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ratings, ok := parseRatingKeys(req.Ratings)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "rating keys must be integer show IDs", nil)
		return
	}

	if err := router.service.SubmitRatings(r.Context(), userID, ratings); err != nil {
		status, code, message := mapServiceError(err)
		respondError(w, status, code, message, err)
		return
	}

	logging.Info().
		Str("user", sanitizeLogValue(userID)).
		Int("count", len(ratings)).
		Msg("Ratings submitted")
	respondData(w, http.StatusCreated, map[string]interface{}{
		"user_id": userID,
		"stored":  len(ratings),
	}, started)
}

// handleGetRecommendations returns personalized recommendations.
func (router *Router) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	userID := chi.URLParam(r, "userID")

	n, err := getIntParam(r, "n", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}
	mode := recommend.Mode(r.URL.Query().Get("mode"))

	recs, err := router.service.GetRecommendations(r.Context(), userID, n, mode)
	if err != nil {
		status, code, message := mapServiceError(err)
		respondError(w, status, code, message, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"user_id":         userID,
		"recommendations": recs,
	}, started)
}

// handleStatelessRecommend scores a submitted rating vector in one call
// without storing it.
func (router *Router) handleStatelessRecommend(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req statelessRecommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ratings, ok := parseRatingKeys(req.Ratings)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "rating keys must be integer show IDs", nil)
		return
	}

	recs, err := router.service.RecommendForRatings(r.Context(), ratings, req.N, recommend.Mode(req.Mode))
	if err != nil {
		status, code, message := mapServiceError(err)
		respondError(w, status, code, message, err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
	}, started)
}
