package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/amaumene/trendarr/internal/models"
	"github.com/amaumene/trendarr/internal/services/httpclient"
)

// Watchlist providers
const (
	ProviderPlex   = "plex"
	ProviderTrakt  = "trakt"
	ProviderBolt   = "bolt"
	ProviderSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey   string
	TMDBBaseURL  string
	TMDBLanguage string

	// Trending feed
	TrendingWindow models.TimeWindow
	TrendingPages  int

	// Matching
	RecencyDays         int     // Days a release stays eligible (default: 365)
	SimilarityThreshold float64 // Fuzzy acceptance threshold (default: 0.85)
	YearTolerance       int
	AllowFallback       bool

	// Run
	MaxItemsPerType   int // 0 disables the cap
	MediaTypes        []models.MediaType
	ExcludedLanguages []string
	ExcludedCountries []string
	DryRun            bool
	DiscoveryWorkers  int

	// Watchlist
	WatchlistProvider string

	// Plex
	PlexToken       string
	PlexDiscoverURL string
	PlexMetadataURL string

	// Trakt
	TraktClientID     string
	TraktClientSecret string
	TraktBaseURL      string

	// Server
	ServerPort string
	Schedule   string

	// HTTP
	HTTPTimeout           time.Duration
	HTTPMaxRetries        int
	HTTPRequestsPerSecond float64

	// Paths
	ConfigDir     string
	TokenFile     string // $CONFIG_DIR/token.json
	BlacklistFile string // $CONFIG_DIR/blacklist.txt
	DatabaseFile  string // $CONFIG_DIR/trendarr.db
	SQLiteFile    string // $CONFIG_DIR/trendarr.sqlite
	LockFile      string // $CONFIG_DIR/trendarr.lock

	// Logging
	LogLevel      string
	LogFile       string
	LogMaxAgeDays int
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	v.SetDefault("TMDB_LANGUAGE", "en-US")
	v.SetDefault("TRENDING_WINDOW", string(models.WindowWeek))
	v.SetDefault("TRENDING_PAGES", 1)
	v.SetDefault("RECENCY_DAYS", 365)
	v.SetDefault("SIMILARITY_THRESHOLD", 0.85)
	v.SetDefault("YEAR_TOLERANCE", 0)
	v.SetDefault("ALLOW_FALLBACK", true)
	v.SetDefault("MAX_ITEMS_PER_TYPE", 10)
	v.SetDefault("MEDIA_TYPES", "movie,show")
	v.SetDefault("EXCLUDED_LANGUAGES", "ko,zh")
	v.SetDefault("EXCLUDED_COUNTRIES", "KR,CN,TW,HK")
	v.SetDefault("DRY_RUN", false)
	v.SetDefault("DISCOVERY_WORKERS", 1)
	v.SetDefault("WATCHLIST_PROVIDER", ProviderPlex)
	v.SetDefault("PLEX_DISCOVER_URL", "https://discover.provider.plex.tv")
	v.SetDefault("PLEX_METADATA_URL", "https://metadata.provider.plex.tv")
	v.SetDefault("TRAKT_BASE_URL", "https://api.trakt.tv")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SCHEDULE", "0 */6 * * *")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("HTTP_MAX_RETRIES", 3)
	v.SetDefault("HTTP_REQUESTS_PER_SECOND", 4)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_AGE_DAYS", 7)
}

// Load loads configuration from the environment and .env files into a Config.
// It does not validate; call Validate before starting a run.
func Load(v *viper.Viper) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	SetDefaults(v)

	configDir, err := resolveConfigDir(v.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	// A .env in the config directory fills keys nothing else has set
	if err := mergeConfigDirEnv(v, configDir); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	mediaTypes, err := parseMediaTypes(v.GetString("MEDIA_TYPES"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		// TMDB
		TMDBAPIKey:   v.GetString("TMDB_API_KEY"),
		TMDBBaseURL:  strings.TrimRight(v.GetString("TMDB_BASE_URL"), "/"),
		TMDBLanguage: v.GetString("TMDB_LANGUAGE"),

		// Trending feed
		TrendingWindow: models.TimeWindow(strings.ToLower(v.GetString("TRENDING_WINDOW"))),
		TrendingPages:  v.GetInt("TRENDING_PAGES"),

		// Matching
		RecencyDays:         v.GetInt("RECENCY_DAYS"),
		SimilarityThreshold: v.GetFloat64("SIMILARITY_THRESHOLD"),
		YearTolerance:       v.GetInt("YEAR_TOLERANCE"),
		AllowFallback:       v.GetBool("ALLOW_FALLBACK"),

		// Run
		MaxItemsPerType:   v.GetInt("MAX_ITEMS_PER_TYPE"),
		MediaTypes:        mediaTypes,
		ExcludedLanguages: splitList(v.GetString("EXCLUDED_LANGUAGES"), strings.ToLower),
		ExcludedCountries: splitList(v.GetString("EXCLUDED_COUNTRIES"), strings.ToUpper),
		DryRun:            v.GetBool("DRY_RUN"),
		DiscoveryWorkers:  v.GetInt("DISCOVERY_WORKERS"),

		// Watchlist
		WatchlistProvider: strings.ToLower(v.GetString("WATCHLIST_PROVIDER")),

		// Plex
		PlexToken:       v.GetString("PLEX_TOKEN"),
		PlexDiscoverURL: strings.TrimRight(v.GetString("PLEX_DISCOVER_URL"), "/"),
		PlexMetadataURL: strings.TrimRight(v.GetString("PLEX_METADATA_URL"), "/"),

		// Trakt
		TraktClientID:     v.GetString("TRAKT_CLIENT_ID"),
		TraktClientSecret: v.GetString("TRAKT_CLIENT_SECRET"),
		TraktBaseURL:      strings.TrimRight(v.GetString("TRAKT_BASE_URL"), "/"),

		// Server
		ServerPort: v.GetString("SERVER_PORT"),
		Schedule:   v.GetString("SCHEDULE"),

		// HTTP
		HTTPTimeout:           time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		HTTPMaxRetries:        v.GetInt("HTTP_MAX_RETRIES"),
		HTTPRequestsPerSecond: v.GetFloat64("HTTP_REQUESTS_PER_SECOND"),

		// Paths
		ConfigDir:     configDir,
		TokenFile:     filepath.Join(configDir, "token.json"),
		BlacklistFile: filepath.Join(configDir, "blacklist.txt"),
		DatabaseFile:  filepath.Join(configDir, "trendarr.db"),
		SQLiteFile:    filepath.Join(configDir, "trendarr.sqlite"),
		LockFile:      filepath.Join(configDir, "trendarr.lock"),

		// Logging
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFile:       v.GetString("LOG_FILE"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
	}

	return config, nil
}

// Validate checks the settings a sync run depends on
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.TrendingWindow != models.WindowDay && c.TrendingWindow != models.WindowWeek {
		return fmt.Errorf("TRENDING_WINDOW must be day or week, got %q", c.TrendingWindow)
	}
	if c.TrendingPages < 1 {
		return fmt.Errorf("TRENDING_PAGES must be at least 1")
	}
	if c.RecencyDays < 0 {
		return fmt.Errorf("RECENCY_DAYS must not be negative")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in (0, 1], got %v", c.SimilarityThreshold)
	}
	if c.YearTolerance < 0 {
		return fmt.Errorf("YEAR_TOLERANCE must not be negative")
	}
	if c.MaxItemsPerType < 0 {
		return fmt.Errorf("MAX_ITEMS_PER_TYPE must not be negative")
	}
	if len(c.MediaTypes) == 0 {
		return fmt.Errorf("MEDIA_TYPES must name at least one media type")
	}
	if c.DiscoveryWorkers < 1 {
		return fmt.Errorf("DISCOVERY_WORKERS must be at least 1")
	}

	switch c.WatchlistProvider {
	case ProviderPlex:
		if c.PlexToken == "" {
			return fmt.Errorf("PLEX_TOKEN is required for the plex provider")
		}
	case ProviderTrakt:
		if err := c.ValidateTrakt(); err != nil {
			return err
		}
	case ProviderBolt, ProviderSQLite:
	default:
		return fmt.Errorf("unknown WATCHLIST_PROVIDER %q", c.WatchlistProvider)
	}

	return nil
}

// ValidateTrakt checks the Trakt credentials
func (c *Config) ValidateTrakt() error {
	if c.TraktClientID == "" {
		return fmt.Errorf("TRAKT_CLIENT_ID is required")
	}
	if c.TraktClientSecret == "" {
		return fmt.Errorf("TRAKT_CLIENT_SECRET is required")
	}
	return nil
}

// HTTPOptions returns the transport settings shared by the service clients
func (c *Config) HTTPOptions() httpclient.Options {
	return httpclient.Options{
		Timeout:           c.HTTPTimeout,
		MaxRetries:        c.HTTPMaxRetries,
		RequestsPerSecond: c.HTTPRequestsPerSecond,
	}
}

func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "trendarr"), nil
	}

	// Convert relative path to absolute path
	absPath, err := filepath.Abs(configDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	return absPath, nil
}

func mergeConfigDirEnv(v *viper.Viper, configDir string) error {
	path := filepath.Join(configDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	dirEnv := viper.New()
	dirEnv.SetConfigFile(path)
	dirEnv.SetConfigType("env")
	if err := dirEnv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Registered as defaults so the environment, the working directory .env
	// and command line flags keep precedence
	for _, key := range dirEnv.AllKeys() {
		v.SetDefault(key, dirEnv.Get(key))
	}
	return nil
}

func parseMediaTypes(raw string) ([]models.MediaType, error) {
	var types []models.MediaType
	seen := make(map[models.MediaType]bool)
	for _, s := range splitList(raw, strings.ToLower) {
		mt, err := models.ParseMediaType(s)
		if err != nil {
			return nil, fmt.Errorf("invalid MEDIA_TYPES: %w", err)
		}
		if seen[mt] {
			continue
		}
		seen[mt] = true
		types = append(types, mt)
	}
	return types, nil
}

func splitList(raw string, transform func(string) string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, transform(part))
	}
	return out
}
