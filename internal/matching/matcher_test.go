package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/trendarr/internal/models"
)

func trendingItem(id, title string, year int) models.TrendingItem {
	return models.TrendingItem{
		ExternalID:  id,
		Title:       title,
		MediaType:   models.MediaTypeMovie,
		ReleaseDate: time.Date(year, 7, 22, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolveExactIDWinsOverBetterTitles(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	item := trendingItem("603", "The Matrix", 1999)

	candidates := []models.CandidateMatch{
		{ExternalID: "a", Title: "The Matrix", Year: 1999},
		{ExternalID: "b", SourceID: "603", Title: "Matrix (Remastered)", Year: 2021},
	}

	result := m.Resolve(item, candidates)
	require.True(t, result.Matched())
	assert.Equal(t, models.TierExactID, result.Tier)
	assert.Equal(t, "b", result.Candidate.ExternalID)
	assert.Equal(t, 1.0, result.Score)
}

func TestResolveTitleYear(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	item := trendingItem("1", "Nope", 2022)

	candidates := []models.CandidateMatch{
		{ExternalID: "old", Title: "Nope", Year: 1998},
		{ExternalID: "new", Title: "NOPE!", Year: 2022},
	}

	result := m.Resolve(item, candidates)
	require.True(t, result.Matched())
	assert.Equal(t, models.TierTitleYear, result.Tier)
	assert.Equal(t, "new", result.Candidate.ExternalID)
	assert.Equal(t, 1.0, result.Score)
}

func TestResolveTitleYearUsesOriginalTitle(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	item := trendingItem("1", "Parasite", 2019)
	item.OriginalTitle = "Gisaengchung"

	result := m.Resolve(item, []models.CandidateMatch{{ExternalID: "k", Title: "Gisaengchung", Year: 2019}})
	assert.Equal(t, models.TierTitleYear, result.Tier)
}

func TestResolveFuzzyPicksHighestScore(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	item := trendingItem("1", "abcdefghij", 2024)

	candidates := []models.CandidateMatch{
		{ExternalID: "low", Title: "abcdefghXX", Year: 2024},  // 0.80
		{ExternalID: "high", Title: "abcdefghiX", Year: 2024}, // 0.90
	}

	result := m.Resolve(item, candidates)
	require.True(t, result.Matched())
	assert.Equal(t, models.TierFuzzy, result.Tier)
	assert.Equal(t, "high", result.Candidate.ExternalID)
	assert.InDelta(t, 0.9, result.Score, 1e-9)
}

func TestResolveFuzzyTieKeepsEarliest(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	item := trendingItem("1", "abcdefghij", 2024)

	candidates := []models.CandidateMatch{
		{ExternalID: "first", Title: "abcdefghiX", Year: 2024},
		{ExternalID: "second", Title: "abcdefghiY", Year: 2024},
	}

	result := m.Resolve(item, candidates)
	assert.Equal(t, models.TierFuzzy, result.Tier)
	assert.Equal(t, "first", result.Candidate.ExternalID)
}

func TestResolveFuzzyTreatsMissingYearAsWildcard(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	item := trendingItem("1", "abcdefghij", 2024)

	candidates := []models.CandidateMatch{
		{ExternalID: "wrong-year", Title: "abcdefghij", Year: 2010},
		{ExternalID: "no-year", Title: "abcdefghiX"},
	}

	result := m.Resolve(item, candidates)
	assert.Equal(t, models.TierFuzzy, result.Tier)
	assert.Equal(t, "no-year", result.Candidate.ExternalID)
}

func TestResolveFuzzyYearTolerance(t *testing.T) {
	opts := DefaultOptions()
	opts.YearTolerance = 1
	m := NewMatcher(opts)
	item := trendingItem("1", "abcdefghij", 2024)

	result := m.Resolve(item, []models.CandidateMatch{{ExternalID: "x", Title: "abcdefghiX", Year: 2023}})
	assert.Equal(t, models.TierFuzzy, result.Tier)
}

func TestResolveFallbackSelectsFirst(t *testing.T) {
	m := NewMatcher(DefaultOptions())
	item := trendingItem("1", "abcdefghij", 2024)

	candidates := []models.CandidateMatch{
		{ExternalID: "first", Title: "zzzzzzzzzz", Year: 2024},
		{ExternalID: "second", Title: "abcdefgXXX", Year: 2024}, // 0.70
	}

	result := m.Resolve(item, candidates)
	require.True(t, result.Matched())
	assert.Equal(t, models.TierFallback, result.Tier)
	assert.Equal(t, "first", result.Candidate.ExternalID)
	assert.Equal(t, 0.0, result.Score)
}

func TestResolveFallbackDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowFallback = false
	m := NewMatcher(opts)

	result := m.Resolve(trendingItem("1", "abcdefghij", 2024), []models.CandidateMatch{{ExternalID: "x", Title: "zzz"}})
	assert.Equal(t, models.TierNone, result.Tier)
	assert.Nil(t, result.Candidate)
}

func TestResolveEmptyCandidates(t *testing.T) {
	m := NewMatcher(DefaultOptions())

	result := m.Resolve(trendingItem("1", "Nope", 2022), nil)
	assert.Equal(t, models.TierNone, result.Tier)
	assert.Nil(t, result.Candidate)
	assert.False(t, result.Matched())
}

func TestStrategiesAreIndependent(t *testing.T) {
	tgt := target{externalID: "9", titles: []string{"dune"}, year: 2021}
	cands := []scoredCandidate{
		{candidate: models.CandidateMatch{ExternalID: "a", Year: 2021}, normalized: "dune", score: 1},
	}

	_, ok := matchExactID(tgt, cands)
	assert.False(t, ok)

	picked, ok := matchTitleYear(tgt, cands)
	assert.True(t, ok)
	assert.Equal(t, "a", picked.candidate.ExternalID)

	_, ok = matchFallback(tgt, nil)
	assert.False(t, ok)
}
