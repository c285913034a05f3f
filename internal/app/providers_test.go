package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/services/tmdb"
)

func testConfig(t *testing.T, provider string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		TMDBAPIKey:          "key",
		TMDBBaseURL:         "http://tmdb.invalid",
		TrendingWindow:      models.WindowWeek,
		TrendingPages:       1,
		RecencyDays:         365,
		SimilarityThreshold: 0.85,
		AllowFallback:       true,
		MaxItemsPerType:     10,
		MediaTypes:          []models.MediaType{models.MediaTypeMovie},
		DiscoveryWorkers:    1,
		WatchlistProvider:   provider,
		PlexToken:           "plex-token",
		PlexDiscoverURL:     "http://plex.invalid",
		PlexMetadataURL:     "http://plex.invalid",
		TraktClientID:       "id",
		TraktClientSecret:   "secret",
		TraktBaseURL:        "http://trakt.invalid",
		ServerPort:          "0",
		Schedule:            "@every 1h",
		ConfigDir:           dir,
		TokenFile:           filepath.Join(dir, "token.json"),
		BlacklistFile:       filepath.Join(dir, "blacklist.txt"),
		DatabaseFile:        filepath.Join(dir, "trendarr.db"),
		SQLiteFile:          filepath.Join(dir, "trendarr.sqlite"),
		LockFile:            filepath.Join(dir, "trendarr.lock"),
	}
}

func TestProvideBackend_LocalStoresUseTMDBDiscovery(t *testing.T) {
	for _, provider := range []string{config.ProviderBolt, config.ProviderSQLite} {
		t.Run(provider, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			cfg := testConfig(t, provider)
			tmdbClient, err := tmdb.NewClient(cfg, logger)
			require.NoError(t, err)

			backend, cleanup, err := ProvideBackend(cfg, tmdbClient, logger)
			require.NoError(t, err)
			defer cleanup()

			assert.Same(t, tmdbClient, backend.Discovery)

			candidate := models.CandidateMatch{ExternalID: "42", SourceID: "42", Title: "Nope", Year: 2022, MediaType: models.MediaTypeMovie}
			require.NoError(t, backend.Store.Append(context.Background(), candidate))
			entries, err := backend.Store.ListEntries(context.Background(), models.MediaTypeMovie)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestProvideBackend_RemoteProviders(t *testing.T) {
	for _, provider := range []string{config.ProviderPlex, config.ProviderTrakt} {
		t.Run(provider, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			cfg := testConfig(t, provider)

			backend, cleanup, err := ProvideBackend(cfg, nil, logger)
			require.NoError(t, err)
			defer cleanup()

			assert.NotNil(t, backend.Store)
			assert.Equal(t, backend.Store, backend.Discovery)
		})
	}
}

func TestProvideBackend_UnknownProvider(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, _, err := ProvideBackend(testConfig(t, "radarr"), nil, logger)

	assert.Error(t, err)
}

func TestProvideExclusions_LoadsBlacklist(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig(t, config.ProviderBolt)
	require.NoError(t, os.WriteFile(cfg.BlacklistFile, []byte("# comment\ncollection\n"), 0644))

	exclusions := ProvideExclusions(cfg, logger)

	excluded, reason := exclusions.Excludes(models.TrendingItem{Title: "The Big Collection"})
	assert.True(t, excluded)
	assert.Contains(t, reason, "collection")
}

func TestProvideSyncOptions(t *testing.T) {
	cfg := testConfig(t, config.ProviderBolt)
	cfg.DryRun = true
	cfg.DiscoveryWorkers = 3

	opts := ProvideSyncOptions(cfg)

	assert.True(t, opts.DryRun)
	assert.Equal(t, 3, opts.DiscoveryWorkers)
	assert.Equal(t, 10, opts.MaxItemsPerType)
	assert.Equal(t, models.WindowWeek, opts.Window)
}

func TestInitializeApp(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := testConfig(t, config.ProviderBolt)

	application, cleanup, err := InitializeApp(cfg, logger, Version("test"))
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, application.Sync)
	assert.NotNil(t, application.Scheduler)
	assert.NotNil(t, application.Server)
	assert.Nil(t, application.Sync.LastSummary())
}
