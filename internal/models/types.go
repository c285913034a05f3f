package models

import (
	"fmt"
	"strings"
)

// MediaType represents the type of media (movie or show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeShow  MediaType = "show"
)

// ParseMediaType accepts the spellings used by TMDB, Trakt and Plex
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "show", "shows", "tv", "series":
		return MediaTypeShow, nil
	default:
		return "", fmt.Errorf("unknown media type %q", s)
	}
}

// TimeWindow is the trending window requested from the feed
type TimeWindow string

const (
	WindowDay  TimeWindow = "day"
	WindowWeek TimeWindow = "week"
)

// MatchTier identifies which resolution rule selected a candidate
type MatchTier string

const (
	TierExactID   MatchTier = "exact_id"
	TierTitleYear MatchTier = "title_year"
	TierFuzzy     MatchTier = "fuzzy"
	TierFallback  MatchTier = "fallback"
	TierNone      MatchTier = "none"
)

// Outcome is the per-item result of a reconciliation pass
type Outcome string

const (
	OutcomeAdded          Outcome = "added"
	OutcomeWouldAdd       Outcome = "would_add" // dry run
	OutcomeAlreadyPresent Outcome = "already_present"
	OutcomeUnresolved     Outcome = "unresolved"
	OutcomeAddFailed      Outcome = "add_failed"
	OutcomeLookupFailed   Outcome = "lookup_failed"
	OutcomeInvalid        Outcome = "invalid"    // unparseable date or empty normalized title
	OutcomeExcluded       Outcome = "excluded"   // language, country or blacklist
	OutcomeIneligible     Outcome = "ineligible" // outside the recency window
)

// AllOutcomes lists outcomes in summary order
var AllOutcomes = []Outcome{
	OutcomeAdded,
	OutcomeWouldAdd,
	OutcomeAlreadyPresent,
	OutcomeUnresolved,
	OutcomeAddFailed,
	OutcomeLookupFailed,
	OutcomeInvalid,
	OutcomeExcluded,
	OutcomeIneligible,
}

// IsFailure reports whether the outcome counts as a per-item failure
func (o Outcome) IsFailure() bool {
	switch o {
	case OutcomeAddFailed, OutcomeLookupFailed, OutcomeInvalid:
		return true
	}
	return false
}

// IsSkip reports whether the outcome is a normal, non-error skip
func (o Outcome) IsSkip() bool {
	switch o {
	case OutcomeAlreadyPresent, OutcomeExcluded, OutcomeIneligible:
		return true
	}
	return false
}
