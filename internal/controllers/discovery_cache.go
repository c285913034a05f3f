package controllers

import (
	"context"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/amaumene/trendarr/internal/metrics"
	"github.com/amaumene/trendarr/internal/models"
)

// cachedDiscovery memoizes successful searches for the lifetime of one run,
// so the prefetch phase and the sequential pass share results. Failures are
// not cached.
type cachedDiscovery struct {
	client  DiscoveryClient
	cache   *cache.Cache
	metrics *metrics.Manager
}

func newCachedDiscovery(client DiscoveryClient, m *metrics.Manager) *cachedDiscovery {
	return &cachedDiscovery{
		client:  client,
		cache:   cache.New(cache.NoExpiration, 0),
		metrics: m,
	}
}

func (d *cachedDiscovery) Search(ctx context.Context, query string, mediaType models.MediaType) ([]models.CandidateMatch, error) {
	key := string(mediaType) + "|" + strings.ToLower(strings.TrimSpace(query))

	if cached, ok := d.cache.Get(key); ok {
		d.record(metrics.LookupHit)
		return cached.([]models.CandidateMatch), nil
	}

	candidates, err := d.client.Search(ctx, query, mediaType)
	if err != nil {
		d.record(metrics.LookupError)
		return nil, err
	}

	d.cache.Set(key, candidates, cache.NoExpiration)
	d.record(metrics.LookupMiss)
	return candidates, nil
}

func (d *cachedDiscovery) record(result string) {
	if d.metrics != nil {
		d.metrics.RecordDiscoveryLookup(result)
	}
}
