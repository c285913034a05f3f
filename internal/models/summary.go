package models

import "time"

// ItemReport records what happened to one trending item during a run
type ItemReport struct {
	MediaType  MediaType `json:"media_type"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	Outcome    Outcome   `json:"outcome"`
	Tier       MatchTier `json:"tier,omitempty"`
	Score      float64   `json:"score,omitempty"`
	Query      string    `json:"query,omitempty"`
	Candidate  string    `json:"candidate,omitempty"`
	Reason     string    `json:"reason,omitempty"` // why the item was skipped
	Step       string    `json:"step,omitempty"`   // failing step, empty on success
	Error      string    `json:"error,omitempty"`
}

// RunSummary aggregates the outcomes of one synchronization pass
type RunSummary struct {
	RunID      string                        `json:"run_id"`
	StartedAt  time.Time                     `json:"started_at"`
	FinishedAt time.Time                     `json:"finished_at"`
	DryRun     bool                          `json:"dry_run"`
	Counts     map[MediaType]map[Outcome]int `json:"counts"`
	Items      []ItemReport                  `json:"items"`
	Error      string                        `json:"error,omitempty"`
}

// NewRunSummary creates an empty summary
func NewRunSummary(runID string, startedAt time.Time, dryRun bool) *RunSummary {
	return &RunSummary{
		RunID:     runID,
		StartedAt: startedAt,
		DryRun:    dryRun,
		Counts:    make(map[MediaType]map[Outcome]int),
	}
}

// Record adds an item report and bumps its outcome counter
func (s *RunSummary) Record(report ItemReport) {
	counts, ok := s.Counts[report.MediaType]
	if !ok {
		counts = make(map[Outcome]int)
		s.Counts[report.MediaType] = counts
	}
	counts[report.Outcome]++
	s.Items = append(s.Items, report)
}

// Count returns the number of items with the given outcome across media types
func (s *RunSummary) Count(outcome Outcome) int {
	total := 0
	for _, counts := range s.Counts {
		total += counts[outcome]
	}
	return total
}

// Added returns the number of items written (or that would be written in a dry run)
func (s *RunSummary) Added() int {
	return s.Count(OutcomeAdded) + s.Count(OutcomeWouldAdd)
}

// Skipped returns the number of items skipped without error
func (s *RunSummary) Skipped() int {
	total := 0
	for _, o := range AllOutcomes {
		if o.IsSkip() {
			total += s.Count(o)
		}
	}
	return total
}

// Unresolved returns the number of items with no discovery match
func (s *RunSummary) Unresolved() int {
	return s.Count(OutcomeUnresolved)
}

// Failed returns the number of per-item failures
func (s *RunSummary) Failed() int {
	total := 0
	for _, o := range AllOutcomes {
		if o.IsFailure() {
			total += s.Count(o)
		}
	}
	return total
}
