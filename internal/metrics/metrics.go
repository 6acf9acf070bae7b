// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

// Package metrics exposes Prometheus instrumentation for the API layer,
// the recommendation engine, the rating matrix, and TVMaze catalog ingest.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "couchcritic_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchcritic_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "couchcritic_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Recommendation Engine Metrics
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "couchcritic_recommendation_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"mode"}, // "user" or "item"
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchcritic_recommendations_served_total",
			Help: "Total number of recommendation lists served",
		},
		[]string{"mode"},
	)

	RecommendationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchcritic_recommendation_failures_total",
			Help: "Total number of failed recommendation requests",
		},
		[]string{"reason"}, // "insufficient_data", "validation", "internal"
	)

	// Rating Matrix Metrics
	RatingSubmissions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "couchcritic_rating_submissions_total",
			Help: "Total number of ratings stored (including overwrites)",
		},
	)

	MatrixUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "couchcritic_matrix_users",
			Help: "Current number of users in the rating matrix",
		},
	)

	MatrixShows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "couchcritic_matrix_shows",
			Help: "Current number of shows with at least one rating",
		},
	)

	MatrixRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "couchcritic_matrix_ratings",
			Help: "Current number of stored ratings",
		},
	)

	// Catalog Metrics
	CatalogShows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "couchcritic_catalog_shows",
			Help: "Current number of shows in the catalog store",
		},
	)

	CatalogSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "couchcritic_catalog_sync_duration_seconds",
			Help:    "Duration of TVMaze catalog sync runs in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	CatalogSyncShows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "couchcritic_catalog_sync_shows_total",
			Help: "Shows processed during TVMaze sync",
		},
		[]string{"result"}, // "stored", "skipped"
	)

	CatalogSyncErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "couchcritic_catalog_sync_errors_total",
			Help: "Total number of failed TVMaze sync runs",
		},
	)

	// TVMaze client circuit breaker state: 0=closed, 1=half-open, 2=open
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "couchcritic_tvmaze_circuit_breaker_state",
			Help: "TVMaze circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordAPIRequest records latency and count for one API request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// RecordRecommendation records one recommendation computation.
func RecordRecommendation(mode string, duration time.Duration) {
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	RecommendationsServed.WithLabelValues(mode).Inc()
}

// UpdateMatrixGauges refreshes the rating matrix size gauges.
func UpdateMatrixGauges(users, shows, ratings int) {
	MatrixUsers.Set(float64(users))
	MatrixShows.Set(float64(shows))
	MatrixRatings.Set(float64(ratings))
}
