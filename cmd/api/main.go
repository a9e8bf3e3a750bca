package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tourli-ai/internal/app"
	"tourli-ai/internal/config"
	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/http"
	"tourli-ai/internal/metrics"
	"tourli-ai/internal/render"
	"tourli-ai/internal/service"
	"tourli-ai/internal/watch"
)

// General API information
//
// Tourli answers Morocco travel questions from a curated question/answer
// corpus, personalized with the detected city and its current weather.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Tourli API
//   version: 1.0.0
// schemes:
//   - http
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize chatbot: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()
	slog.Info("Chatbot initialized", "entries", len(a.Engine.Snapshot().Entries))

	if cfg.CorpusWatch && cfg.CorpusDB == "" {
		w, err := watch.New(cfg.CorpusPaths, a.Reloader, watch.DefaultDebounce)
		if err != nil {
			log.Fatalf("Failed to watch corpus: %v", err)
		}
		defer func() {
			_ = w.Close()
		}()
		go func() {
			_ = w.Run(ctx)
		}()
		slog.Info("Watching corpus for changes", "paths", cfg.CorpusPaths)
	}

	deps := &http.Deps{
		ChatService: service.NewChatService(a.Engine, render.NewRenderer()),
		Engine:      a.Engine,
		Reloader:    a.Reloader,
		IndexHTML:   indexHTML,
	}
	if a.Pinger != nil {
		deps.Cache = a.Pinger
	}

	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting API server", "addr", srv.Addr, "region", cfg.RegionName)
	if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
