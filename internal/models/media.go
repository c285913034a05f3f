package models

import "time"

// TrendingItem is a single entry of the trending feed
type TrendingItem struct {
	ExternalID    string // TMDB id
	Title         string
	OriginalTitle string
	MediaType     MediaType

	// ReleaseDate is zero when the feed gave no date or it could not be parsed.
	// RawReleaseDate keeps the feed value for logging.
	ReleaseDate    time.Time
	RawReleaseDate string

	PopularityRank   int // 1-based position in the feed, 0 if unknown
	OriginalLanguage string
	OriginCountries  []string
}

// Year returns the release year, or 0 when the release date is unknown
func (t TrendingItem) Year() int {
	if t.ReleaseDate.IsZero() {
		return 0
	}
	return t.ReleaseDate.Year()
}

// Titles returns the primary title followed by the original title when it differs
func (t TrendingItem) Titles() []string {
	titles := []string{t.Title}
	if t.OriginalTitle != "" && t.OriginalTitle != t.Title {
		titles = append(titles, t.OriginalTitle)
	}
	return titles
}

// CandidateMatch is a discovery search result
type CandidateMatch struct {
	ExternalID string // id in the watchlist store's namespace
	SourceID   string // TMDB id when the discovery client surfaces it
	Title      string
	Year       int // 0 when unknown
	MediaType  MediaType
}

// WatchlistEntry is an item already present in the user's watchlist
type WatchlistEntry struct {
	ExternalID string
	SourceID   string
	Title      string
	Year       int
	MediaType  MediaType
}

// MatchResult is the Matcher's decision for one trending item
type MatchResult struct {
	Tier      MatchTier
	Candidate *CandidateMatch
	Score     float64
}

// Matched reports whether a candidate was selected
func (r MatchResult) Matched() bool {
	return r.Tier != TierNone && r.Candidate != nil
}
