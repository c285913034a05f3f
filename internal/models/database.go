package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// WatchlistRecord is a watchlist entry kept in a local store
type WatchlistRecord struct {
	Key        string `boltholdKey:"Key"`
	ExternalID string
	SourceID   string
	Title      string
	Year       int
	MediaType  MediaType `boltholdIndex:"MediaType"`
	AddedAt    time.Time
}

// Entry converts the record to a WatchlistEntry
func (r *WatchlistRecord) Entry() WatchlistEntry {
	return WatchlistEntry{
		ExternalID: r.ExternalID,
		SourceID:   r.SourceID,
		Title:      r.Title,
		Year:       r.Year,
		MediaType:  r.MediaType,
	}
}

// recordKey is unique per media type and store id
func recordKey(mediaType MediaType, externalID string) string {
	return string(mediaType) + ":" + externalID
}

// Database wraps the bolthold store backing the local watchlist
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// ListEntries returns the stored entries of a media type
func (db *Database) ListEntries(_ context.Context, mediaType MediaType) ([]WatchlistEntry, error) {
	var records []*WatchlistRecord
	query := bolthold.Where("MediaType").Eq(mediaType)
	if err := db.store.Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	entries := make([]WatchlistEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.Entry())
	}
	return entries, nil
}

// Append stores a candidate. Appending an id that is already stored is a no-op.
func (db *Database) Append(_ context.Context, candidate CandidateMatch) error {
	record := &WatchlistRecord{
		Key:        recordKey(candidate.MediaType, candidate.ExternalID),
		ExternalID: candidate.ExternalID,
		SourceID:   candidate.SourceID,
		Title:      candidate.Title,
		Year:       candidate.Year,
		MediaType:  candidate.MediaType,
		AddedAt:    time.Now(),
	}

	err := db.store.Insert(record.Key, record)
	if err != nil && !errors.Is(err, bolthold.ErrKeyExists) {
		return fmt.Errorf("failed to append to watchlist: %w", err)
	}
	return nil
}
