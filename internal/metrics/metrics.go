// Package metrics exposes Prometheus metrics for sync runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amaumene/trendarr/internal/models"
)

const namespace = "trendarr"

// Run statuses
const (
	RunSuccess = "success"
	RunFailed  = "failed"
)

// Discovery lookup results
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// Manager holds the metrics recorded by a sync run
type Manager struct {
	registry *prometheus.Registry

	items            *prometheus.CounterVec
	matchScore       *prometheus.HistogramVec
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	lastRunTimestamp prometheus.Gauge
	lastRunAdded     prometheus.Gauge
	discoveryLookups *prometheus.CounterVec
}

// NewManager creates a manager with its own registry, which also carries the
// Go runtime and process collectors
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Manager{registry: registry}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.items = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Trending items processed, by media type, outcome and match tier",
		},
		[]string{"media_type", "outcome", "tier"},
	)

	m.matchScore = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_score",
			Help:      "Similarity score of selected candidates",
			Buckets:   []float64{0.5, 0.7, 0.8, 0.85, 0.9, 0.95, 1},
		},
		[]string{"tier"},
	)

	m.runs = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Sync runs, by status",
		},
		[]string{"status"},
	)

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of sync runs",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last sync run finished",
	})

	m.lastRunAdded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_added",
		Help:      "Items added (or that would be added in a dry run) by the last sync run",
	})

	m.discoveryLookups = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_lookups_total",
			Help:      "Discovery searches, by cache result",
		},
		[]string{"result"},
	)
}

// RecordItem counts one reconciled item and observes its score when a
// candidate was selected
func (m *Manager) RecordItem(report models.ItemReport) {
	tier := string(report.Tier)
	if tier == "" {
		tier = string(models.TierNone)
	}
	m.items.WithLabelValues(string(report.MediaType), string(report.Outcome), tier).Inc()

	if report.Candidate != "" && report.Tier != models.TierNone && report.Tier != "" {
		m.matchScore.WithLabelValues(tier).Observe(report.Score)
	}
}

// RecordRun records a finished run
func (m *Manager) RecordRun(status string, duration time.Duration, added int) {
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
	m.lastRunTimestamp.SetToCurrentTime()
	m.lastRunAdded.Set(float64(added))
}

// RecordDiscoveryLookup counts a discovery search by cache result
func (m *Manager) RecordDiscoveryLookup(result string) {
	m.discoveryLookups.WithLabelValues(result).Inc()
}

// Registry returns the registry the metrics are registered on
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
