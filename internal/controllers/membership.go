package controllers

import (
	"github.com/amaumene/trendarr/internal/matching"
	"github.com/amaumene/trendarr/internal/models"
)

type titleYear struct {
	title string
	year  int
}

// membershipIndex answers "is this already on the watchlist" for one media
// type. It is built from the store listing and extended as a run adds items.
type membershipIndex struct {
	storeIDs   map[string]bool
	sourceIDs  map[string]bool
	titleYears map[titleYear]bool
}

func newMembershipIndex(entries []models.WatchlistEntry) *membershipIndex {
	idx := &membershipIndex{
		storeIDs:   make(map[string]bool, len(entries)),
		sourceIDs:  make(map[string]bool, len(entries)),
		titleYears: make(map[titleYear]bool, len(entries)),
	}
	for _, e := range entries {
		idx.insert(e.ExternalID, e.SourceID, e.Title, e.Year)
	}
	return idx
}

func (idx *membershipIndex) insert(storeID, sourceID, title string, year int) {
	if storeID != "" {
		idx.storeIDs[storeID] = true
	}
	if sourceID != "" {
		idx.sourceIDs[sourceID] = true
	}
	if n := matching.Normalize(title); n != "" && year != 0 {
		idx.titleYears[titleYear{n, year}] = true
	}
}

// containsItem checks a trending item before any discovery call: by its
// catalog id, or by normalized title and release year
func (idx *membershipIndex) containsItem(item models.TrendingItem) bool {
	if item.ExternalID != "" && idx.sourceIDs[item.ExternalID] {
		return true
	}
	year := item.Year()
	if year == 0 {
		return false
	}
	for _, title := range item.Titles() {
		if idx.titleYears[titleYear{matching.Normalize(title), year}] {
			return true
		}
	}
	return false
}

// containsCandidate checks a resolved candidate in the store's own namespace
func (idx *membershipIndex) containsCandidate(c models.CandidateMatch) bool {
	if c.ExternalID != "" && idx.storeIDs[c.ExternalID] {
		return true
	}
	if c.SourceID != "" && idx.sourceIDs[c.SourceID] {
		return true
	}
	return c.Year != 0 && idx.titleYears[titleYear{matching.Normalize(c.Title), c.Year}]
}

// add records an item the run appended (or would append in a dry run)
func (idx *membershipIndex) add(item models.TrendingItem, c models.CandidateMatch) {
	idx.insert(c.ExternalID, c.SourceID, c.Title, c.Year)
	if item.ExternalID != "" {
		idx.sourceIDs[item.ExternalID] = true
	}
}
