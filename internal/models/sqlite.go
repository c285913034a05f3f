package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// WatchlistRow is the SQL form of a local watchlist entry
type WatchlistRow struct {
	ID         uint      `gorm:"primaryKey"`
	MediaType  MediaType `gorm:"uniqueIndex:idx_watchlist_item;not null"`
	ExternalID string    `gorm:"uniqueIndex:idx_watchlist_item;not null"`
	SourceID   string    `gorm:"index"`
	Title      string
	Year       int
	CreatedAt  time.Time
}

// TableName overrides the gorm default
func (WatchlistRow) TableName() string {
	return "watchlist"
}

// SQLiteDatabase is a local watchlist kept in a SQLite file
type SQLiteDatabase struct {
	db *gorm.DB
}

// NewSQLiteDatabase opens (and migrates) a SQLite watchlist
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&WatchlistRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteDatabase{db: db}, nil
}

// Close closes the underlying connection pool
func (s *SQLiteDatabase) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListEntries returns the stored entries of a media type in insertion order
func (s *SQLiteDatabase) ListEntries(ctx context.Context, mediaType MediaType) ([]WatchlistEntry, error) {
	var rows []WatchlistRow
	err := s.db.WithContext(ctx).
		Where("media_type = ?", mediaType).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	entries := make([]WatchlistEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, WatchlistEntry{
			ExternalID: r.ExternalID,
			SourceID:   r.SourceID,
			Title:      r.Title,
			Year:       r.Year,
			MediaType:  r.MediaType,
		})
	}
	return entries, nil
}

// Append inserts a candidate; an existing (media type, id) pair is left untouched
func (s *SQLiteDatabase) Append(ctx context.Context, candidate CandidateMatch) error {
	row := WatchlistRow{
		MediaType:  candidate.MediaType,
		ExternalID: candidate.ExternalID,
		SourceID:   candidate.SourceID,
		Title:      candidate.Title,
		Year:       candidate.Year,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to append to watchlist: %w", err)
	}
	return nil
}
