package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"tourli-ai/internal/cache"
	"tourli-ai/internal/citydetect"
	"tourli-ai/internal/config"
	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/intent"
	"tourli-ai/internal/rag"
	"tourli-ai/internal/storage"
	"tourli-ai/internal/weather"
)

// App is the wired retrieval stack shared by the API server and the CLI.
type App struct {
	Config   *config.Config
	Engine   rag.Engine
	Loader   *rag.Loader
	Reloader *rag.Reloader
	// Pinger is set only when the weather cache is Redis.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	cache cache.Client
	db    *sqlx.DB
}

// NewLogger builds the process logger from cfg, writing to w.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Build loads the gazetteer and corpus and constructs the engine. The
// returned App must be closed.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := contextutil.LoggerFromContext(ctx)
	a := &App{Config: cfg}

	gaz, err := gazetteer.Load(cfg.RegionalCitiesPath, cfg.GlobalCitiesPath, gazetteer.Options{
		Region:              cfg.RegionName,
		MinGlobalPopulation: cfg.MinGlobalPopulation,
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "gazetteer loaded",
		"regional", gaz.Len(gazetteer.Regional),
		"global", gaz.Len(gazetteer.Global),
		"region", gaz.Region(),
	)

	opts := rag.SnapshotOptions{
		Detector: citydetect.Options{Threshold: cfg.CityMatchThreshold},
	}
	if cfg.IntentCatalogPath != "" {
		if opts.Catalog, err = intent.LoadCatalog(cfg.IntentCatalogPath); err != nil {
			return nil, err
		}
	}

	source, err := a.corpusSource(ctx)
	if err != nil {
		return nil, err
	}
	a.Loader = &rag.Loader{Source: source, Gazetteer: gaz, Options: opts}

	snap, err := a.Loader.Load(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Engine = rag.NewEngine(snap, a.weatherGateway(ctx), rag.Config{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		WeatherTimeout:      cfg.WeatherTimeout,
	})
	a.Reloader = &rag.Reloader{Loader: a.Loader, Engine: a.Engine}
	return a, nil
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	var firstErr error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) corpusSource(ctx context.Context) (rag.CorpusSource, error) {
	cfg := a.Config
	if cfg.CorpusDB == "" {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "using file corpus", "paths", cfg.CorpusPaths)
		return rag.FileSource{Paths: cfg.CorpusPaths}, nil
	}

	db, err := storage.New(cfg.CorpusDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	a.db = db
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "using database corpus", "path", cfg.CorpusDB)
	return storage.NewCorpusRepo(db), nil
}

// weatherGateway returns nil when no API key is configured, which makes the
// engine drop weather placeholders.
func (a *App) weatherGateway(ctx context.Context) weather.Gateway {
	cfg := a.Config
	logger := contextutil.LoggerFromContext(ctx)
	if cfg.WeatherAPIKey == "" {
		logger.WarnContext(ctx, "no weather API key configured, weather answers will omit conditions")
		return nil
	}

	client := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.WeatherTimeout)
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisClient(cfg.RedisURL, "tourli:")
		if err == nil {
			a.cache = rc
			a.Pinger = rc
			logger.InfoContext(ctx, "weather cache using redis")
		} else {
			logger.WarnContext(ctx, "redis unavailable, using in-memory weather cache", "error", err)
		}
	}
	if a.cache == nil {
		a.cache = cache.NewMemoryClient(1024)
	}
	return weather.NewCachedGateway(client, a.cache, cfg.WeatherCacheTTL)
}
