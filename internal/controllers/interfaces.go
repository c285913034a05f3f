package controllers

//go:generate mockgen -source=interfaces.go -destination=mock_collaborators_test.go -package=controllers

import (
	"context"

	"github.com/amaumene/trendarr/internal/models"
)

// TrendingFeed supplies trending items in rank order
type TrendingFeed interface {
	ListTrending(ctx context.Context, mediaType models.MediaType, window models.TimeWindow) ([]models.TrendingItem, error)
}

// DiscoveryClient searches the catalog the watchlist store accepts ids from.
// An empty result is not an error.
type DiscoveryClient interface {
	Search(ctx context.Context, query string, mediaType models.MediaType) ([]models.CandidateMatch, error)
}

// WatchlistStore is the user's watchlist. Append must tolerate ids that are
// already present.
type WatchlistStore interface {
	ListEntries(ctx context.Context, mediaType models.MediaType) ([]models.WatchlistEntry, error)
	Append(ctx context.Context, candidate models.CandidateMatch) error
}

// Locker guards against overlapping runs across processes
type Locker interface {
	TryLock() (bool, error)
	Unlock() error
}
