// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/couchcritic/couchcritic/internal/logging"
	"github.com/couchcritic/couchcritic/internal/metrics"
	"github.com/couchcritic/couchcritic/internal/models"
)

// errPageBeyondEnd signals a 404 from the paginated show index, which is
// how TVMaze reports the end of the index.
var errPageBeyondEnd = errors.New("page beyond end of show index")

// TVMazeConfig configures the TVMaze ingest client.
type TVMazeConfig struct {
	// BaseURL is the API root, normally https://api.tvmaze.com.
	BaseURL string

	// MaxPages bounds how many index pages one Ingest run fetches.
	// TVMaze pages hold 250 shows each.
	MaxPages int

	// RatePerSecond limits outbound requests. TVMaze asks clients to
	// stay under 20 calls every 10 seconds.
	RatePerSecond float64

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
}

// TVMazeClient fetches the TVMaze show index with client-side rate
// limiting and a circuit breaker around the upstream API.
type TVMazeClient struct {
	cfg     TVMazeConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]models.Show]
}

// NewTVMazeClient creates a TVMaze client.
func NewTVMazeClient(cfg TVMazeConfig) *TVMazeClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 2
	}

	settings := gobreaker.Settings{
		Name:        "tvmaze",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.CircuitBreakerState.Set(breakerStateValue(to))
		},
		IsSuccessful: func(err error) bool {
			// End-of-index is a normal pagination outcome.
			return err == nil || errors.Is(err, errPageBeyondEnd)
		},
	}

	return &TVMazeClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		breaker: gobreaker.NewCircuitBreaker[[]models.Show](settings),
	}
}

// breakerStateValue maps gobreaker states to the metric encoding.
func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// tvmazeShow is the subset of the TVMaze show schema we ingest.
type tvmazeShow struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Genres  []string `json:"genres"`
	Runtime int      `json:"runtime"`
	Rating  struct {
		Average float64 `json:"average"`
	} `json:"rating"`
	Premiered string `json:"premiered"`
	Status    string `json:"status"`
	Summary   string `json:"summary"`
}

// FetchPage fetches one page of the show index, cleaned and mapped to
// models.Show. Returns errPageBeyondEnd past the last page.
func (c *TVMazeClient) FetchPage(ctx context.Context, page int) ([]models.Show, error) {
	return c.breaker.Execute(func() ([]models.Show, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return c.fetchPage(ctx, page)
	})
}

func (c *TVMazeClient) fetchPage(ctx context.Context, page int) ([]models.Show, error) {
	url := fmt.Sprintf("%s/shows?page=%d", strings.TrimRight(c.cfg.BaseURL, "/"), page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errPageBeyondEnd
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page %d: unexpected status %d", page, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}

	var raw []tvmazeShow
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}

	shows := make([]models.Show, 0, len(raw))
	for _, r := range raw {
		show, ok := cleanShow(r)
		if !ok {
			metrics.CatalogSyncShows.WithLabelValues("skipped").Inc()
			continue
		}
		shows = append(shows, show)
	}
	return shows, nil
}

// htmlTagRe matches HTML tags in TVMaze summaries.
var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// cleanShow maps a raw TVMaze record to models.Show, dropping records
// without a title or rating and stripping HTML from the summary.
func cleanShow(r tvmazeShow) (models.Show, bool) {
	if strings.TrimSpace(r.Name) == "" || r.Rating.Average == 0 {
		return models.Show{}, false
	}
	return models.Show{
		ID:             r.ID,
		Title:          strings.TrimSpace(r.Name),
		Genres:         r.Genres,
		ExternalRating: r.Rating.Average,
		Runtime:        r.Runtime,
		Premiered:      r.Premiered,
		Status:         r.Status,
		Summary:        strings.TrimSpace(htmlTagRe.ReplaceAllString(r.Summary, "")),
	}, true
}

// Ingest fetches up to cfg.MaxPages of the show index and upserts every
// cleaned show into the store. Returns the number of shows stored.
func (c *TVMazeClient) Ingest(ctx context.Context, store Store) (int, error) {
	start := time.Now()
	stored := 0

	for page := 0; page < c.cfg.MaxPages; page++ {
		shows, err := c.FetchPage(ctx, page)
		if errors.Is(err, errPageBeyondEnd) {
			break
		}
		if err != nil {
			metrics.CatalogSyncErrors.Inc()
			return stored, fmt.Errorf("ingest page %d: %w", page, err)
		}

		if err := store.PutShows(ctx, shows); err != nil {
			metrics.CatalogSyncErrors.Inc()
			return stored, fmt.Errorf("store page %d: %w", page, err)
		}
		stored += len(shows)
		metrics.CatalogSyncShows.WithLabelValues("stored").Add(float64(len(shows)))

		logging.Debug().
			Int("page", page).
			Int("shows", len(shows)).
			Msg("Ingested TVMaze page")
	}

	metrics.CatalogSyncDuration.Observe(time.Since(start).Seconds())
	if count, err := store.Count(ctx); err == nil {
		metrics.CatalogShows.Set(float64(count))
	}

	logging.Info().
		Int("shows", stored).
		Dur("elapsed", time.Since(start)).
		Msg("TVMaze catalog sync complete")
	return stored, nil
}
