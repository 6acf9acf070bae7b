// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/couchcritic/couchcritic/internal/catalog"
	"github.com/couchcritic/couchcritic/internal/metrics"
	"github.com/couchcritic/couchcritic/internal/models"
)

// Config holds recommendation service settings.
type Config struct {
	// K is the neighborhood size for k-NN scoring.
	K int

	// MaxN bounds the result count a caller may request.
	MaxN int

	// DefaultN is the result count used when the caller does not specify one.
	DefaultN int

	// Mode is the default scoring mode.
	Mode Mode
}

// DefaultServiceConfig returns the default service configuration.
func DefaultServiceConfig() Config {
	return Config{K: 10, MaxN: 50, DefaultN: 10, Mode: ModeUserBased}
}

// Validate checks the service configuration.
func (c Config) Validate() error {
	if c.K < 1 {
		return &ConfigError{Param: "k", Value: c.K, Message: "must be at least 1"}
	}
	if c.MaxN < 1 {
		return &ConfigError{Param: "max_n", Value: c.MaxN, Message: "must be at least 1"}
	}
	if c.DefaultN < 1 || c.DefaultN > c.MaxN {
		return &ConfigError{Param: "default_n", Value: c.DefaultN, Message: "must be between 1 and max_n"}
	}
	if c.Mode != ModeUserBased && c.Mode != ModeItemBased {
		return &ConfigError{Param: "mode", Value: string(c.Mode), Message: "must be user or item"}
	}
	return nil
}

// MatrixStats is a point-in-time snapshot of matrix dimensions.
type MatrixStats struct {
	Users   int `json:"users"`
	Shows   int `json:"shows"`
	Ratings int `json:"ratings"`
}

// Service orchestrates the rating matrix, the k-NN recommender, and the
// show catalog. It is the only component that mutates the matrix.
type Service struct {
	cfg    Config
	matrix *Matrix
	rec    *Recommender
	store  catalog.Store
	logger zerolog.Logger
}

// NewService creates a recommendation service with an empty matrix.
func NewService(cfg Config, store catalog.Store, logger zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rec, err := NewRecommender(cfg.K)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:    cfg,
		matrix: NewMatrix(),
		rec:    rec,
		store:  store,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// SeedMatrix installs a pre-built matrix. Bootstrap only: must be called
// before the service starts taking concurrent traffic.
func (s *Service) SeedMatrix(m *Matrix) {
	s.matrix = m
	s.publishMatrixGauges()
	s.logger.Info().
		Int("users", m.Users()).
		Int("shows", m.Shows()).
		Int("ratings", m.Ratings()).
		Msg("Rating matrix seeded")
}

// SubmitRatings validates and stores a batch of ratings for one user.
// The batch is atomic: on any validation failure nothing is applied.
func (s *Service) SubmitRatings(_ context.Context, userID string, ratings map[int]float64) error {
	if userID == "" {
		return &ValidationError{Field: "user_id", Value: userID, Message: "must not be empty"}
	}
	if len(ratings) == 0 {
		return &ValidationError{Field: "ratings", Value: ratings, Message: "must not be empty"}
	}

	if err := s.matrix.SetRatings(userID, ratings); err != nil {
		return err
	}

	metrics.RatingSubmissions.Add(float64(len(ratings)))
	s.publishMatrixGauges()
	s.logger.Debug().
		Str("user", userID).
		Int("count", len(ratings)).
		Msg("Ratings stored")
	return nil
}

// GetRecommendations returns up to n personalized recommendations for the
// user, enriched from the catalog. n == 0 means the configured default;
// mode == "" means the configured default mode.
func (s *Service) GetRecommendations(ctx context.Context, userID string, n int, mode Mode) ([]models.Recommendation, error) {
	n, mode, err := s.normalize(n, mode)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	recs, err := s.rec.Recommend(userID, s.matrix, n, mode)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}
	metrics.RecordRecommendation(string(mode), time.Since(start))

	return s.enrich(ctx, recs), nil
}

// RecommendForRatings scores a one-shot rating vector without storing it.
func (s *Service) RecommendForRatings(ctx context.Context, ratings map[int]float64, n int, mode Mode) ([]models.Recommendation, error) {
	n, mode, err := s.normalize(n, mode)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	recs, err := s.rec.RecommendForRatings(ratings, s.matrix, n, mode)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}
	metrics.RecordRecommendation(string(mode), time.Since(start))

	return s.enrich(ctx, recs), nil
}

// SimilarShows ranks shows similar to the given one. The show must exist
// in the catalog; a show without ratings yields *InsufficientDataError.
func (s *Service) SimilarShows(ctx context.Context, showID, n int) ([]models.Recommendation, error) {
	if n == 0 {
		n = s.cfg.DefaultN
	}
	if n < 0 || n > s.cfg.MaxN {
		return nil, &ValidationError{Field: "n", Value: n, Message: "out of range"}
	}

	// ErrShowNotFound propagates as-is; the API maps it to 404.
	if _, err := s.store.GetShow(ctx, showID); err != nil {
		return nil, err
	}

	recs, err := s.rec.SimilarShows(showID, n, s.matrix)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}
	return s.enrich(ctx, recs), nil
}

// Stats returns a snapshot of the matrix dimensions.
func (s *Service) Stats() MatrixStats {
	return MatrixStats{
		Users:   s.matrix.Users(),
		Shows:   s.matrix.Shows(),
		Ratings: s.matrix.Ratings(),
	}
}

// normalize applies defaults and bounds to request parameters.
func (s *Service) normalize(n int, mode Mode) (int, Mode, error) {
	if n == 0 {
		n = s.cfg.DefaultN
	}
	if n < 0 || n > s.cfg.MaxN {
		return 0, "", &ValidationError{Field: "n", Value: n, Message: "out of range"}
	}
	if mode == "" {
		mode = s.cfg.Mode
	}
	if mode != ModeUserBased && mode != ModeItemBased {
		return 0, "", &ValidationError{Field: "mode", Value: string(mode), Message: "must be user or item"}
	}
	return n, mode, nil
}

// enrich fills Title, Genres, and ExternalRating from the catalog. A show
// unknown to the catalog keeps its bare ID; rating data alone is a valid
// reason to recommend.
func (s *Service) enrich(ctx context.Context, recs []models.Recommendation) []models.Recommendation {
	for i := range recs {
		show, err := s.store.GetShow(ctx, recs[i].ShowID)
		if err != nil {
			continue
		}
		recs[i].Title = show.Title
		recs[i].Genres = show.Genres
		recs[i].ExternalRating = show.ExternalRating
	}
	return recs
}

// recordFailure classifies an error for the failure counter.
func (s *Service) recordFailure(err error) {
	var insufficient *InsufficientDataError
	var invalid *ValidationError
	switch {
	case errors.As(err, &insufficient):
		metrics.RecommendationFailures.WithLabelValues("insufficient_data").Inc()
	case errors.As(err, &invalid):
		metrics.RecommendationFailures.WithLabelValues("validation").Inc()
	default:
		metrics.RecommendationFailures.WithLabelValues("internal").Inc()
	}
}

// publishMatrixGauges refreshes the matrix size metrics.
func (s *Service) publishMatrixGauges() {
	metrics.UpdateMatrixGauges(s.matrix.Users(), s.matrix.Shows(), s.matrix.Ratings())
}
