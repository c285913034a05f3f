package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/trendarr/internal/matching"
	"github.com/amaumene/trendarr/internal/metrics"
	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/utils"
)

// ErrRunInProgress is returned when a run is requested while another one holds
// the run lock
var ErrRunInProgress = errors.New("a sync run is already in progress")

// SyncOptions configures a sync run
type SyncOptions struct {
	MediaTypes       []models.MediaType
	Window           models.TimeWindow
	RecencyDays      int
	MaxItemsPerType  int // 0 disables the cap
	DryRun           bool
	DiscoveryWorkers int // above 1 enables the concurrent prefetch
}

// SyncController runs synchronization passes from the trending feed to the watchlist
type SyncController struct {
	feed       TrendingFeed
	discovery  DiscoveryClient
	store      WatchlistStore
	matcher    *matching.Matcher
	exclusions *utils.Exclusions
	locker     Locker
	metrics    *metrics.Manager
	tracer     trace.Tracer
	opts       SyncOptions
	logger     *logrus.Logger
	now        func() time.Time

	running atomic.Bool
	mu      sync.RWMutex
	last    *models.RunSummary
}

// NewSyncController creates a new sync controller. locker may be nil.
func NewSyncController(
	feed TrendingFeed,
	discovery DiscoveryClient,
	store WatchlistStore,
	matcher *matching.Matcher,
	exclusions *utils.Exclusions,
	locker Locker,
	metricsManager *metrics.Manager,
	tracer trace.Tracer,
	opts SyncOptions,
	logger *logrus.Logger,
) *SyncController {
	if len(opts.MediaTypes) == 0 {
		opts.MediaTypes = []models.MediaType{models.MediaTypeMovie, models.MediaTypeShow}
	}
	if opts.Window == "" {
		opts.Window = models.WindowWeek
	}
	if opts.DiscoveryWorkers < 1 {
		opts.DiscoveryWorkers = 1
	}
	if exclusions == nil {
		exclusions = utils.NewExclusions(nil, nil, nil)
	}

	return &SyncController{
		feed:       feed,
		discovery:  discovery,
		store:      store,
		matcher:    matcher,
		exclusions: exclusions,
		locker:     locker,
		metrics:    metricsManager,
		tracer:     tracer,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Run performs one synchronization pass over the configured media types.
// The returned summary is non-nil whenever the run started, including when it
// was aborted by a fatal error.
func (c *SyncController) Run(ctx context.Context) (*models.RunSummary, error) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer c.running.Store(false)

	if c.locker != nil {
		locked, err := c.locker.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire run lock: %w", err)
		}
		if !locked {
			return nil, ErrRunInProgress
		}
		defer func() {
			if err := c.locker.Unlock(); err != nil {
				c.logger.WithError(err).Warn("Failed to release run lock")
			}
		}()
	}

	runID := uuid.NewString()
	summary := models.NewRunSummary(runID, c.now(), c.opts.DryRun)

	ctx, span := c.tracer.Start(ctx, "sync.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Bool("dry_run", c.opts.DryRun),
	))
	defer span.End()

	logger := c.logger.WithFields(logrus.Fields{
		"run_id":  runID,
		"dry_run": c.opts.DryRun,
	})
	logger.Info("Starting sync run")

	discovery := newCachedDiscovery(c.discovery, c.metrics)
	reconciler := NewReconciler(discovery, c.store, c.matcher, c.opts.DryRun, c.tracer, c.logger)

	var runErr error
	for _, mediaType := range c.opts.MediaTypes {
		if err := c.syncMediaType(ctx, reconciler, mediaType, summary); err != nil {
			runErr = err
			break
		}
	}

	summary.FinishedAt = c.now()
	status := metrics.RunSuccess
	if runErr != nil {
		status = metrics.RunFailed
		summary.Error = runErr.Error()
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		logger.WithError(runErr).Error("Sync run aborted")
	} else {
		logger.WithFields(logrus.Fields{
			"added":      summary.Added(),
			"skipped":    summary.Skipped(),
			"unresolved": summary.Unresolved(),
			"failed":     summary.Failed(),
			"duration":   summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String(),
		}).Info("Sync run completed")
	}

	if c.metrics != nil {
		c.metrics.RecordRun(status, summary.FinishedAt.Sub(summary.StartedAt), summary.Added())
	}

	c.mu.Lock()
	c.last = summary
	c.mu.Unlock()

	return summary, runErr
}

// syncMediaType processes the trending feed of one media type. The returned
// error is fatal.
func (c *SyncController) syncMediaType(ctx context.Context, r *Reconciler, mediaType models.MediaType, summary *models.RunSummary) error {
	c.logger.WithField("media_type", mediaType).Info("Syncing trending items")

	items, err := c.feed.ListTrending(ctx, mediaType, c.opts.Window)
	if err != nil {
		return fmt.Errorf("failed to list trending %ss: %w", mediaType, err)
	}

	eligible := c.filter(items, summary)

	if err := r.LoadWatchlist(ctx, mediaType); err != nil {
		return err
	}

	if c.opts.DiscoveryWorkers > 1 && len(eligible) > 1 {
		c.prefetch(ctx, r, r.indexes[mediaType], eligible)
	}

	for _, item := range eligible {
		report, err := r.Reconcile(ctx, item)
		if err != nil {
			return err
		}
		c.record(summary, report)
	}

	return nil
}

// filter applies exclusions, the recency window, the title check and the
// per-type cap, in that order, keeping feed order. Dropped items are recorded in the summary; items
// beyond the cap are not.
func (c *SyncController) filter(items []models.TrendingItem, summary *models.RunSummary) []models.TrendingItem {
	now := c.now()
	var eligible []models.TrendingItem
	capped := 0

	for _, item := range items {
		report := models.ItemReport{
			MediaType:  item.MediaType,
			ExternalID: item.ExternalID,
			Title:      item.Title,
		}

		if excluded, reason := c.exclusions.Excludes(item); excluded {
			report.Outcome = models.OutcomeExcluded
			report.Reason = reason
			c.skip(summary, report)
			continue
		}

		if item.ReleaseDate.IsZero() {
			report.Outcome = models.OutcomeInvalid
			report.Step = stepReleaseDate
			report.Error = fmt.Sprintf("missing or unparseable release date %q", item.RawReleaseDate)
			c.skip(summary, report)
			continue
		}

		if !matching.IsEligible(item, now, c.opts.RecencyDays) {
			report.Outcome = models.OutcomeIneligible
			report.Reason = "released " + item.ReleaseDate.Format("2006-01-02")
			c.skip(summary, report)
			continue
		}

		if !hasComparableTitle(item) {
			report.Outcome = models.OutcomeInvalid
			report.Step = stepNormalize
			report.Error = "title normalizes to an empty string"
			c.skip(summary, report)
			continue
		}

		if c.opts.MaxItemsPerType > 0 && len(eligible) >= c.opts.MaxItemsPerType {
			capped++
			continue
		}
		eligible = append(eligible, item)
	}

	c.logger.WithFields(logrus.Fields{
		"trending": len(items),
		"eligible": len(eligible),
		"capped":   capped,
	}).Info("Filtered trending items")

	return eligible
}

func (c *SyncController) skip(summary *models.RunSummary, report models.ItemReport) {
	entry := c.logger.WithFields(logrus.Fields{
		"media_type":  report.MediaType,
		"external_id": report.ExternalID,
		"title":       report.Title,
		"outcome":     report.Outcome,
	})
	if report.Outcome.IsFailure() {
		entry.WithField("step", report.Step).Warn(report.Error)
	} else {
		entry.WithField("reason", report.Reason).Debug("Skipping item")
	}
	c.record(summary, report)
}

func (c *SyncController) record(summary *models.RunSummary, report models.ItemReport) {
	summary.Record(report)
	if c.metrics != nil {
		c.metrics.RecordItem(report)
	}
}

// LastSummary returns the summary of the last finished run, or nil
func (c *SyncController) LastSummary() *models.RunSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// IsRunning reports whether a run is in progress in this process
func (c *SyncController) IsRunning() bool {
	return c.running.Load()
}
