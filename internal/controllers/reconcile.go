package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/trendarr/internal/matching"
	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/services"
)

// Steps reported on per-item failures
const (
	stepNormalize   = "normalize"
	stepReleaseDate = "release_date"
	stepSearch      = "search"
	stepAppend      = "append"
)

// Reconciler decides, item by item, whether a trending item is added to the
// watchlist. A Reconciler holds per-run state and must not be reused across runs.
type Reconciler struct {
	discovery DiscoveryClient
	store     WatchlistStore
	matcher   *matching.Matcher
	dryRun    bool
	indexes   map[models.MediaType]*membershipIndex
	tracer    trace.Tracer
	logger    *logrus.Logger
}

// NewReconciler creates a reconciler for one run
func NewReconciler(discovery DiscoveryClient, store WatchlistStore, matcher *matching.Matcher, dryRun bool, tracer trace.Tracer, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		discovery: discovery,
		store:     store,
		matcher:   matcher,
		dryRun:    dryRun,
		indexes:   make(map[models.MediaType]*membershipIndex),
		tracer:    tracer,
		logger:    logger,
	}
}

// LoadWatchlist lists the store's entries for a media type and builds the
// membership index. Failure is fatal for the run.
func (r *Reconciler) LoadWatchlist(ctx context.Context, mediaType models.MediaType) error {
	_, err := r.indexFor(ctx, mediaType)
	return err
}

func (r *Reconciler) indexFor(ctx context.Context, mediaType models.MediaType) (*membershipIndex, error) {
	if idx, ok := r.indexes[mediaType]; ok {
		return idx, nil
	}

	entries, err := r.store.ListEntries(ctx, mediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s watchlist: %w", mediaType, err)
	}

	r.logger.WithFields(logrus.Fields{
		"media_type": mediaType,
		"count":      len(entries),
	}).Debug("Loaded watchlist entries")

	idx := newMembershipIndex(entries)
	r.indexes[mediaType] = idx
	return idx, nil
}

// Reconcile processes one eligible item. Per-item problems are reported in
// the returned ItemReport; a non-nil error is fatal and aborts the run.
func (r *Reconciler) Reconcile(ctx context.Context, item models.TrendingItem) (models.ItemReport, error) {
	ctx, span := r.tracer.Start(ctx, "reconcile.item", trace.WithAttributes(
		attribute.String("media_type", string(item.MediaType)),
		attribute.String("external_id", item.ExternalID),
		attribute.String("title", item.Title),
	))
	defer span.End()

	report, err := r.reconcile(ctx, item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	span.SetAttributes(
		attribute.String("outcome", string(report.Outcome)),
		attribute.String("tier", string(report.Tier)),
		attribute.Float64("score", report.Score),
	)
	if report.Outcome.IsFailure() {
		span.SetStatus(codes.Error, report.Error)
	}

	r.logReport(report)
	return report, nil
}

func (r *Reconciler) reconcile(ctx context.Context, item models.TrendingItem) (models.ItemReport, error) {
	report := models.ItemReport{
		MediaType:  item.MediaType,
		ExternalID: item.ExternalID,
		Title:      item.Title,
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	idx, err := r.indexFor(ctx, item.MediaType)
	if err != nil {
		return report, err
	}

	if !hasComparableTitle(item) {
		report.Outcome = models.OutcomeInvalid
		report.Step = stepNormalize
		report.Error = "title normalizes to an empty string"
		return report, nil
	}

	if idx.containsItem(item) {
		report.Outcome = models.OutcomeAlreadyPresent
		report.Reason = "already on watchlist"
		return report, nil
	}

	result, query, err := r.resolve(ctx, item)
	if err != nil {
		if isFatal(ctx, err) {
			return report, err
		}
		report.Outcome = models.OutcomeLookupFailed
		report.Step = stepSearch
		report.Error = err.Error()
		return report, nil
	}

	report.Tier = result.Tier
	report.Score = result.Score
	report.Query = query

	if !result.Matched() {
		report.Outcome = models.OutcomeUnresolved
		report.Reason = "no discovery candidates"
		return report, nil
	}

	candidate := *result.Candidate
	report.Candidate = candidate.ExternalID

	// The feed and the store may use different ids; check again in the
	// store's namespace now that the candidate is known
	if idx.containsCandidate(candidate) {
		report.Outcome = models.OutcomeAlreadyPresent
		report.Reason = "candidate already on watchlist"
		return report, nil
	}

	if r.dryRun {
		idx.add(item, candidate)
		report.Outcome = models.OutcomeWouldAdd
		return report, nil
	}

	if err := r.store.Append(ctx, candidate); err != nil {
		if isFatal(ctx, err) {
			return report, err
		}
		report.Outcome = models.OutcomeAddFailed
		report.Step = stepAppend
		report.Error = err.Error()
		return report, nil
	}

	idx.add(item, candidate)
	report.Outcome = models.OutcomeAdded
	return report, nil
}

// resolve tries each query in turn. The first query giving an exact, title+year
// or fuzzy match wins. Without one, any failed query fails the lookup; otherwise
// the first fallback seen is used.
func (r *Reconciler) resolve(ctx context.Context, item models.TrendingItem) (models.MatchResult, string, error) {
	queries := queriesFor(item)

	var (
		fallback      *models.MatchResult
		fallbackQuery string
		lastErr       error
	)

	for _, query := range queries {
		candidates, err := r.discovery.Search(ctx, query, item.MediaType)
		if err != nil {
			if isFatal(ctx, err) {
				return models.MatchResult{}, query, err
			}
			r.logger.WithError(err).WithFields(logrus.Fields{
				"media_type":  item.MediaType,
				"external_id": item.ExternalID,
				"title":       item.Title,
				"query":       query,
			}).Warn("Discovery search failed")
			lastErr = err
			continue
		}

		result := r.matcher.Resolve(item, candidates)
		switch result.Tier {
		case models.TierNone:
			continue
		case models.TierFallback:
			if fallback == nil {
				fallback = &result
				fallbackQuery = query
			}
			continue
		default:
			return result, query, nil
		}
	}

	if lastErr != nil {
		return models.MatchResult{}, "", fmt.Errorf("failed to search discovery: %w", lastErr)
	}
	if fallback != nil {
		return *fallback, fallbackQuery, nil
	}
	return models.MatchResult{Tier: models.TierNone}, "", nil
}

func (r *Reconciler) logReport(report models.ItemReport) {
	fields := logrus.Fields{
		"media_type":  report.MediaType,
		"external_id": report.ExternalID,
		"title":       report.Title,
		"outcome":     report.Outcome,
	}
	if report.Tier != "" {
		fields["tier"] = report.Tier
		fields["score"] = fmt.Sprintf("%.2f", report.Score)
	}
	if report.Query != "" {
		fields["query"] = report.Query
	}
	if report.Candidate != "" {
		fields["candidate"] = report.Candidate
	}

	entry := r.logger.WithFields(fields)
	switch {
	case report.Outcome.IsFailure():
		entry.WithField("step", report.Step).WithError(errors.New(report.Error)).Warn("Item failed")
	case report.Outcome == models.OutcomeAdded:
		entry.Info("Added to watchlist")
	case report.Outcome == models.OutcomeWouldAdd:
		entry.Info("Would add to watchlist (dry run)")
	case report.Outcome == models.OutcomeUnresolved:
		entry.Info("No discovery match")
	default:
		entry.WithField("reason", report.Reason).Info("Skipping item")
	}
}

// queriesFor builds the discovery queries for an item: "<title> <year>", then
// each distinct title on its own
func queriesFor(item models.TrendingItem) []string {
	var queries []string
	seen := make(map[string]bool)
	push := func(q string) {
		n := matching.Normalize(q)
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		queries = append(queries, q)
	}

	titles := item.Titles()
	if year := item.Year(); year != 0 {
		for _, title := range titles {
			if matching.Normalize(title) != "" {
				push(title + " " + strconv.Itoa(year))
				break
			}
		}
	}
	for _, title := range titles {
		push(title)
	}
	return queries
}

func hasComparableTitle(item models.TrendingItem) bool {
	for _, title := range item.Titles() {
		if matching.Normalize(title) != "" {
			return true
		}
	}
	return false
}

// isFatal reports whether err must abort the run: rejected credentials or a
// cancelled run
func isFatal(ctx context.Context, err error) bool {
	return errors.Is(err, services.ErrUnauthorized) || ctx.Err() != nil
}
