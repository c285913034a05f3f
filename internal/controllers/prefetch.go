package controllers

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/amaumene/trendarr/internal/models"
)

// prefetch runs the discovery lookups of items concurrently so the sequential
// pass finds them in the run's discovery cache. Nothing is written here and
// errors are left for the sequential pass to report.
func (c *SyncController) prefetch(ctx context.Context, r *Reconciler, idx *membershipIndex, items []models.TrendingItem) {
	p := pool.New().WithMaxGoroutines(c.opts.DiscoveryWorkers)

	queued := 0
	for _, item := range items {
		if !hasComparableTitle(item) || idx.containsItem(item) {
			continue
		}
		item := item
		queued++
		p.Go(func() {
			_, _, _ = r.resolve(ctx, item)
		})
	}
	p.Wait()

	c.logger.WithFields(logrus.Fields{
		"items":   queued,
		"workers": c.opts.DiscoveryWorkers,
	}).Debug("Prefetched discovery results")
}
