// couchcritic - TV show recommendations from collaborative filtering
// Copyright 2026 couchcritic contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/couchcritic/couchcritic

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/couchcritic/couchcritic/internal/models"
)

// showKeyPrefix namespaces show records inside BadgerDB.
const showKeyPrefix = "show:"

// BadgerStore implements Store on BadgerDB for persistence across
// restarts. Shows are stored as JSON under "show:<id>" keys with the ID
// zero-padded so lexicographic key order matches numeric ID order.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a BadgerDB-backed catalog at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // suppress BadgerDB internal logs
	// Show records are small; shrink the value log from the 1GB default.
	opts.ValueLogFileSize = 16 << 20
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger catalog: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB wraps an existing BadgerDB connection.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// showKey builds the storage key for a show ID.
func showKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", showKeyPrefix, id))
}

// GetShow returns one show by ID, or ErrShowNotFound.
func (s *BadgerStore) GetShow(_ context.Context, id int) (models.Show, error) {
	var show models.Show
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(showKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrShowNotFound
		}
		if err != nil {
			return fmt.Errorf("get show %d: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &show)
		})
	})
	if err != nil {
		return models.Show{}, err
	}
	return show, nil
}

// ListShows returns all shows sorted by ID.
func (s *BadgerStore) ListShows(ctx context.Context) ([]models.Show, error) {
	return s.scan(ctx, func(models.Show) bool { return true }, 0)
}

// PutShows upserts a batch of shows in one transaction.
func (s *BadgerStore) PutShows(_ context.Context, shows []models.Show) error {
	batch := s.db.NewWriteBatch()
	defer batch.Cancel()

	for _, show := range shows {
		data, err := json.Marshal(show)
		if err != nil {
			return fmt.Errorf("marshal show %d: %w", show.ID, err)
		}
		if err := batch.Set(showKey(show.ID), data); err != nil {
			return fmt.Errorf("batch show %d: %w", show.ID, err)
		}
	}
	if err := batch.Flush(); err != nil {
		return fmt.Errorf("flush shows: %w", err)
	}
	return nil
}

// SearchShows returns up to limit shows whose title contains the query,
// case-insensitively, sorted by ID.
func (s *BadgerStore) SearchShows(ctx context.Context, query string, limit int) ([]models.Show, error) {
	q := strings.ToLower(query)
	return s.scan(ctx, func(show models.Show) bool {
		return strings.Contains(strings.ToLower(show.Title), q)
	}, limit)
}

// Count returns the number of stored shows.
func (s *BadgerStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(showKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// scan iterates all show records, keeping those that match, up to limit
// (0 means unlimited). Keys iterate in ID order.
func (s *BadgerStore) scan(_ context.Context, match func(models.Show) bool, limit int) ([]models.Show, error) {
	var out []models.Show
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(showKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if limit > 0 && len(out) >= limit {
				return nil
			}
			var show models.Show
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &show)
			})
			if err != nil {
				return fmt.Errorf("decode show record: %w", err)
			}
			if match(show) {
				out = append(out, show)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying BadgerDB.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
