package matching

import "github.com/amaumene/trendarr/internal/models"

const (
	// DefaultThreshold is the minimum similarity accepted by the fuzzy tier
	DefaultThreshold = 0.85

	scoreEpsilon = 1e-9
)

// Options configures a Matcher
type Options struct {
	Threshold     float64 // fuzzy acceptance threshold
	YearTolerance int     // allowed |candidate year - release year| in the fuzzy tier
	AllowFallback bool    // select the first candidate when nothing clears the threshold
}

// DefaultOptions returns the matcher defaults
func DefaultOptions() Options {
	return Options{
		Threshold:     DefaultThreshold,
		YearTolerance: 0,
		AllowFallback: true,
	}
}

// target is the normalized view of the trending item being resolved
type target struct {
	externalID string
	titles     []string
	year       int
}

// scoredCandidate is a candidate with its normalized title and best similarity
// against any of the target titles
type scoredCandidate struct {
	candidate  models.CandidateMatch
	normalized string
	score      float64
}

// strategy selects at most one candidate; strategies are evaluated in order
type strategy struct {
	tier models.MatchTier
	pick func(t target, candidates []scoredCandidate) (scoredCandidate, bool)
}

// Matcher resolves a trending item against discovery candidates
type Matcher struct {
	opts       Options
	strategies []strategy
}

// NewMatcher creates a matcher with the tiers exact id, title+year, fuzzy and,
// when enabled, fallback
func NewMatcher(opts Options) *Matcher {
	m := &Matcher{opts: opts}
	m.strategies = []strategy{
		{tier: models.TierExactID, pick: matchExactID},
		{tier: models.TierTitleYear, pick: matchTitleYear},
		{tier: models.TierFuzzy, pick: m.matchFuzzy},
	}
	if opts.AllowFallback {
		m.strategies = append(m.strategies, strategy{tier: models.TierFallback, pick: matchFallback})
	}
	return m
}

// Resolve picks the best candidate for item. Candidates are expected in the
// discovery client's relevance order.
func (m *Matcher) Resolve(item models.TrendingItem, candidates []models.CandidateMatch) models.MatchResult {
	if len(candidates) == 0 {
		return models.MatchResult{Tier: models.TierNone}
	}

	t := newTarget(item)
	scored := scoreCandidates(t, candidates)

	for _, s := range m.strategies {
		picked, ok := s.pick(t, scored)
		if !ok {
			continue
		}
		candidate := picked.candidate
		score := picked.score
		if s.tier == models.TierExactID || s.tier == models.TierTitleYear {
			score = 1
		}
		return models.MatchResult{Tier: s.tier, Candidate: &candidate, Score: score}
	}

	return models.MatchResult{Tier: models.TierNone}
}

func newTarget(item models.TrendingItem) target {
	t := target{externalID: item.ExternalID, year: item.Year()}
	seen := make(map[string]bool)
	for _, title := range item.Titles() {
		n := Normalize(title)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		t.titles = append(t.titles, n)
	}
	return t
}

func scoreCandidates(t target, candidates []models.CandidateMatch) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		sc := scoredCandidate{candidate: c, normalized: Normalize(c.Title)}
		if sc.normalized != "" {
			for _, title := range t.titles {
				if s := Similarity(title, sc.normalized); s > sc.score {
					sc.score = s
				}
			}
		}
		scored = append(scored, sc)
	}
	return scored
}

// matchExactID selects the first candidate carrying the item's catalog id
func matchExactID(t target, candidates []scoredCandidate) (scoredCandidate, bool) {
	if t.externalID == "" {
		return scoredCandidate{}, false
	}
	for _, c := range candidates {
		if c.candidate.SourceID == t.externalID {
			return c, true
		}
	}
	return scoredCandidate{}, false
}

// matchTitleYear selects the first candidate whose normalized title and year
// both equal the item's
func matchTitleYear(t target, candidates []scoredCandidate) (scoredCandidate, bool) {
	if t.year == 0 {
		return scoredCandidate{}, false
	}
	for _, c := range candidates {
		if c.normalized == "" || c.candidate.Year != t.year {
			continue
		}
		for _, title := range t.titles {
			if c.normalized == title {
				return c, true
			}
		}
	}
	return scoredCandidate{}, false
}

// matchFuzzy selects the most similar candidate with a compatible year.
// Ties keep the earliest candidate.
func (m *Matcher) matchFuzzy(t target, candidates []scoredCandidate) (scoredCandidate, bool) {
	var (
		best  scoredCandidate
		found bool
	)
	for _, c := range candidates {
		if !yearCompatible(c.candidate.Year, t.year, m.opts.YearTolerance) {
			continue
		}
		if !found || c.score > best.score {
			best = c
			found = true
		}
	}
	if !found || best.score+scoreEpsilon < m.opts.Threshold {
		return scoredCandidate{}, false
	}
	return best, true
}

// matchFallback selects the first candidate
func matchFallback(_ target, candidates []scoredCandidate) (scoredCandidate, bool) {
	if len(candidates) == 0 {
		return scoredCandidate{}, false
	}
	return candidates[0], true
}

// yearCompatible treats an unknown year on either side as a wildcard
func yearCompatible(candidateYear, year, tolerance int) bool {
	if candidateYear == 0 || year == 0 {
		return true
	}
	diff := candidateYear - year
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
