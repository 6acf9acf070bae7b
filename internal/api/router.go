// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

// Package api provides the HTTP surface: chi routing, request handlers,
// the standard response envelope, and service error mapping.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcritic/couchcritic/internal/catalog"
	"github.com/couchcritic/couchcritic/internal/config"
	"github.com/couchcritic/couchcritic/internal/middleware"
	"github.com/couchcritic/couchcritic/internal/recommend"
)

// Router wires the recommendation service and catalog store to HTTP.
type Router struct {
	service *recommend.Service
	store   catalog.Store
	cfg     config.APIConfig
}

// NewRouter creates a Router.
func NewRouter(service *recommend.Service, store catalog.Store, cfg config.APIConfig) *Router {
	return &Router{service: service, store: store, cfg: cfg}
}

// Routes builds the full chi handler tree.
func (router *Router) Routes() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "ETag"},
		MaxAge:         300,
	}))

	// Health endpoints: permissive rate limit for monitoring probes.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", router.handleHealth)
		r.Get("/live", router.handleHealthLive)
		r.Get("/ready", router.handleHealthReady)
	})

	// Data endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(
			router.cfg.RateLimitReqs,
			router.cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
		r.Use(middleware.PrometheusMetrics)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/ratings", router.handleSubmitRatings)
			r.Get("/recommendations", router.handleGetRecommendations)
		})

		r.Post("/recommendations", router.handleStatelessRecommend)

		r.Route("/shows", func(r chi.Router) {
			r.Get("/", router.handleListShows)
			r.Get("/search", router.handleSearchShows)
			r.Get("/{showID}", router.handleGetShow)
			r.Get("/{showID}/similar", router.handleSimilarShows)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleHealth reports service status with matrix and catalog sizes.
func (router *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	stats := router.service.Stats()

	catalogCount := 0
	if count, err := router.store.Count(r.Context()); err == nil {
		catalogCount = count
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"matrix":        stats,
		"catalog_shows": catalogCount,
	}, started)
}

// handleHealthLive is the liveness probe.
func (router *Router) handleHealthLive(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]interface{}{"status": "ok"}, time.Now())
}

// handleHealthReady reports readiness: the matrix must hold data before
// recommendations can be served.
func (router *Router) handleHealthReady(w http.ResponseWriter, _ *http.Request) {
	stats := router.service.Stats()
	if stats.Ratings == 0 {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "rating matrix is empty", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"status": "ready", "matrix": stats}, time.Now())
}
