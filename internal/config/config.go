package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort string
	DataDir string

	// CorpusPaths lists JSON corpus files or directories. Ignored when
	// CorpusDB is set.
	CorpusPaths []string
	// CorpusDB is an optional SQLite corpus populated by `tourli import`.
	CorpusDB string
	// CorpusWatch reloads the corpus when its files change.
	CorpusWatch bool

	RegionalCitiesPath  string
	GlobalCitiesPath    string
	IntentCatalogPath   string
	RegionName          string
	MinGlobalPopulation int64

	ConfidenceThreshold float64
	CityMatchThreshold  float64

	WeatherAPIKey   string
	WeatherBaseURL  string
	WeatherTimeout  time.Duration
	WeatherCacheTTL time.Duration
	RedisURL        string

	QdrantURL        string
	QdrantCollection string

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent directory, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	dataDir := getEnv("DATA_DIR", "./data")
	cfg := &Config{
		APIPort:            getEnv("API_PORT", "5000"),
		DataDir:            dataDir,
		CorpusPaths:        splitList(getEnv("CORPUS_FILES", filepath.Join(dataDir, "corpus"))),
		CorpusDB:           getEnv("CORPUS_DB", ""),
		RegionalCitiesPath: getEnv("REGIONAL_CITIES_PATH", filepath.Join(dataDir, "regional_cities.csv")),
		GlobalCitiesPath:   getEnv("GLOBAL_CITIES_PATH", filepath.Join(dataDir, "worldcities.csv")),
		IntentCatalogPath:  getEnv("INTENT_CATALOG", ""),
		RegionName:         getEnv("REGION_NAME", "Morocco"),
		// TOURLI_API_KEY is accepted for older deployments.
		WeatherAPIKey:    getEnv("WEATHER_API_KEY", os.Getenv("TOURLI_API_KEY")),
		WeatherBaseURL:   getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org"),
		RedisURL:         getEnv("REDIS_URL", ""),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "tourli_qa"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	var err error
	if cfg.CorpusWatch, err = parseBool("CORPUS_WATCH", "false"); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold, err = parseUnitFloat("CONFIDENCE_THRESHOLD", "0.2"); err != nil {
		return nil, err
	}
	if cfg.CityMatchThreshold, err = parseUnitFloat("CITY_MATCH_THRESHOLD", "0.80"); err != nil {
		return nil, err
	}
	if cfg.WeatherTimeout, err = parseDuration("WEATHER_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheTTL, err = parseDuration("WEATHER_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}

	minPop, err := strconv.ParseInt(getEnv("MIN_GLOBAL_POPULATION", "50000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("MIN_GLOBAL_POPULATION must be a valid integer: %w", err)
	}
	if minPop < 0 {
		return nil, fmt.Errorf("MIN_GLOBAL_POPULATION must not be negative")
	}
	cfg.MinGlobalPopulation = minPop

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.CorpusDB == "" && len(cfg.CorpusPaths) == 0 {
		return nil, fmt.Errorf("CORPUS_FILES or CORPUS_DB is required")
	}
	if cfg.RegionName == "" {
		return nil, fmt.Errorf("REGION_NAME must not be empty")
	}

	return cfg, nil
}

// loadDotEnv loads the nearest .env file, looking in the current directory
// and up to four parents.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key, def string) (bool, error) {
	v, err := strconv.ParseBool(getEnv(key, def))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

// parseUnitFloat parses a float that must lie in [0,1].
func parseUnitFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(getEnv(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("%s must be between 0 and 1, got %v", key, v)
	}
	return v, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	v, err := time.ParseDuration(getEnv(key, def))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
