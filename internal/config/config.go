// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Store backends
// --------------------------------------------------------------------------

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// StagesTable is the Postgres and SQLite table holding stage blobs.
const StagesTable = "stages"

// --------------------------------------------------------------------------
// Config struct: populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Dataset store
	StoreBackend   string
	DataDir        string
	DatabaseURL    string
	SQLitePath     string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Upstream sources
	WikipediaURL      string
	WikidataSPARQLURL string
	WikidataURL       string
	UserAgent         string
	RequestDelay      time.Duration
	PlayerDelay       time.Duration
	HTTPTimeout       time.Duration
	ImageSearchURL    string // empty disables the image search fallback

	// Qualification
	SeasonHorizon int
	SinceYear     int
	RecentYear    int
	MinSeasons    int

	// Crests
	LogoTablesFile string
	DefaultLogo    string
	LogoDir        string

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StoreBackend:   strings.ToLower(envOr("STORE_BACKEND", BackendFile)),
		DataDir:        envOr("DATA_DIR", "data"),
		DatabaseURL:    envOr("DATABASE_URL", ""),
		SQLitePath:     envOr("SQLITE_PATH", "data/quiz.db"),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		WikipediaURL:      envOr("WIKIPEDIA_URL", "https://en.wikipedia.org"),
		WikidataSPARQLURL: envOr("WIKIDATA_SPARQL_URL", "https://query.wikidata.org/sparql"),
		WikidataURL:       envOr("WIKIDATA_URL", "https://www.wikidata.org/wiki/Special:EntityData"),
		UserAgent:         envOr("USER_AGENT", "scoracle-quiz/1.0 (football quiz dataset builder)"),
		RequestDelay:      envDuration("REQUEST_DELAY_MS", 500*time.Millisecond, time.Millisecond),
		PlayerDelay:       envDuration("PLAYER_DELAY_MS", 500*time.Millisecond, time.Millisecond),
		HTTPTimeout:       envDuration("HTTP_TIMEOUT_SECONDS", 30*time.Second, time.Second),
		ImageSearchURL:    envOr("IMAGE_SEARCH_URL", ""),

		SeasonHorizon: envInt("SEASON_HORIZON", 2025),
		SinceYear:     envInt("SINCE_YEAR", 2010),
		RecentYear:    envInt("RECENT_YEAR", 2022),
		MinSeasons:    envInt("MIN_SEASONS", 5),

		LogoTablesFile: envOr("LOGO_TABLES_FILE", "configs/logo_tables.json5"),
		DefaultLogo:    envOr("DEFAULT_LOGO", "default_logo.png"),
		LogoDir:        envOr("LOGO_DIR", "logos"),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     envDuration("CACHE_TTL_SECONDS", 5*time.Minute, time.Second),
	}

	switch cfg.StoreBackend {
	case BackendFile, BackendSQLite:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when STORE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (want file, postgres or sqlite)", cfg.StoreBackend)
	}
	return cfg, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envDuration reads an integer count of unit.
func envDuration(key string, fallback, unit time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * unit
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
