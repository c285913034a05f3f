package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/wire"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/trendarr/internal/api"
	"github.com/amaumene/trendarr/internal/api/handlers"
	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/controllers"
	"github.com/amaumene/trendarr/internal/matching"
	"github.com/amaumene/trendarr/internal/metrics"
	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/scheduler"
	"github.com/amaumene/trendarr/internal/services/plex"
	"github.com/amaumene/trendarr/internal/services/tmdb"
	"github.com/amaumene/trendarr/internal/services/trakt"
	"github.com/amaumene/trendarr/internal/tracing"
	"github.com/amaumene/trendarr/internal/utils"
)

// ProviderSet wires the sync engine and the serve-mode surfaces
var ProviderSet = wire.NewSet(
	ProvideTMDB,
	ProvideTrendingFeed,
	ProvideBackend,
	ProvideDiscovery,
	ProvideStore,
	ProvideMatcher,
	ProvideExclusions,
	ProvideLocker,
	ProvideTracerProvider,
	ProvideTracer,
	ProvideSyncOptions,
	ProvideScheduler,
	metrics.NewManager,
	controllers.NewSyncController,
	api.NewServer,
	wire.Bind(new(handlers.SyncRunner), new(*controllers.SyncController)),
)

// Backend is the watchlist store of the configured provider with the
// discovery client that resolves ids for it
type Backend struct {
	Store     controllers.WatchlistStore
	Discovery controllers.DiscoveryClient
}

// ProvideTMDB creates the TMDB client
func ProvideTMDB(cfg *config.Config, logger *logrus.Logger) (*tmdb.Client, error) {
	client, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	return client, nil
}

// ProvideTrendingFeed uses TMDB as the trending feed
func ProvideTrendingFeed(client *tmdb.Client) controllers.TrendingFeed {
	return client
}

// ProvideBackend selects the watchlist provider. Plex and Trakt search their
// own catalog; the local stores take TMDB ids, so TMDB search serves as
// their discovery.
func ProvideBackend(cfg *config.Config, tmdbClient *tmdb.Client, logger *logrus.Logger) (Backend, func(), error) {
	noop := func() {}

	switch cfg.WatchlistProvider {
	case config.ProviderPlex:
		client, err := plex.NewClient(cfg, logger)
		if err != nil {
			return Backend{}, nil, fmt.Errorf("failed to initialize Plex client: %w", err)
		}
		return Backend{Store: client, Discovery: client}, noop, nil

	case config.ProviderTrakt:
		client, err := trakt.NewClient(cfg, logger)
		if err != nil {
			return Backend{}, nil, fmt.Errorf("failed to initialize Trakt client: %w", err)
		}
		return Backend{Store: client, Discovery: client}, noop, nil

	case config.ProviderBolt:
		db, err := models.NewDatabase(cfg.DatabaseFile)
		if err != nil {
			return Backend{}, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.WithField("path", cfg.DatabaseFile).Info("Database initialized")
		return Backend{Store: db, Discovery: tmdbClient}, closer(db.Close, logger), nil

	case config.ProviderSQLite:
		db, err := models.NewSQLiteDatabase(cfg.SQLiteFile)
		if err != nil {
			return Backend{}, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.WithField("path", cfg.SQLiteFile).Info("Database initialized")
		return Backend{Store: db, Discovery: tmdbClient}, closer(db.Close, logger), nil

	default:
		return Backend{}, nil, fmt.Errorf("unknown watchlist provider %q", cfg.WatchlistProvider)
	}
}

func closer(closeFn func() error, logger *logrus.Logger) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}
}

// ProvideDiscovery returns the backend's discovery client
func ProvideDiscovery(b Backend) controllers.DiscoveryClient {
	return b.Discovery
}

// ProvideStore returns the backend's watchlist store
func ProvideStore(b Backend) controllers.WatchlistStore {
	return b.Store
}

// ProvideMatcher creates the matcher from the matching settings
func ProvideMatcher(cfg *config.Config) *matching.Matcher {
	return matching.NewMatcher(matching.Options{
		Threshold:     cfg.SimilarityThreshold,
		YearTolerance: cfg.YearTolerance,
		AllowFallback: cfg.AllowFallback,
	})
}

// ProvideExclusions builds the exclusion rules. A blacklist that cannot be
// read is logged and ignored.
func ProvideExclusions(cfg *config.Config, logger *logrus.Logger) *utils.Exclusions {
	terms, err := utils.LoadBlacklist(cfg.BlacklistFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load blacklist, continuing without it")
		terms = nil
	} else if len(terms) > 0 {
		logger.WithField("terms", len(terms)).Info("Blacklist loaded")
	}
	return utils.NewExclusions(cfg.ExcludedLanguages, cfg.ExcludedCountries, terms)
}

// ProvideLocker returns the file lock guarding against overlapping runs
func ProvideLocker(cfg *config.Config) controllers.Locker {
	return flock.New(cfg.LockFile)
}

// ProvideTracerProvider creates the tracer provider; cleanup flushes it
func ProvideTracerProvider(logger *logrus.Logger, version Version) (*sdktrace.TracerProvider, func()) {
	tp := tracing.NewProvider(logger, string(version))
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer provider")
		}
	}
	return tp, cleanup
}

// ProvideTracer returns the sync tracer
func ProvideTracer(tp *sdktrace.TracerProvider) trace.Tracer {
	return tracing.Tracer(tp)
}

// ProvideSyncOptions maps the run settings
func ProvideSyncOptions(cfg *config.Config) controllers.SyncOptions {
	return controllers.SyncOptions{
		MediaTypes:       cfg.MediaTypes,
		Window:           cfg.TrendingWindow,
		RecencyDays:      cfg.RecencyDays,
		MaxItemsPerType:  cfg.MaxItemsPerType,
		DryRun:           cfg.DryRun,
		DiscoveryWorkers: cfg.DiscoveryWorkers,
	}
}

// ProvideScheduler creates the serve-mode scheduler
func ProvideScheduler(cfg *config.Config, syncCtrl *controllers.SyncController, logger *logrus.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(syncCtrl, cfg.Schedule, logger)
}
