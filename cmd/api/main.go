// Command api serves the football quiz dataset.
//
// Usage:
//
//	quiz-api
//	API_PORT=8080 STORE_BACKEND=sqlite quiz-api

// @title Scoracle Quiz API
// @version 1.0.0
// @description Serves the football career quiz dataset: qualified players, their club and international careers, and team crests.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-quiz/internal/api"
	"github.com/albapepper/scoracle-quiz/internal/api/handler"
	"github.com/albapepper/scoracle-quiz/internal/cache"
	"github.com/albapepper/scoracle-quiz/internal/config"
	"github.com/albapepper/scoracle-quiz/internal/dataset"
	"github.com/albapepper/scoracle-quiz/internal/logo"
	"github.com/albapepper/scoracle-quiz/internal/store"
	"github.com/albapepper/scoracle-quiz/internal/wiki"
	"github.com/albapepper/scoracle-quiz/internal/wikidata"

	_ "github.com/albapepper/scoracle-quiz/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	data, err := dataset.Load(ctx, st)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("Dataset loaded", "stage", data.Stage(), "players", data.Len())

	crests, err := newCrestResolver(cfg, logger)
	if err != nil {
		logger.Error("Failed to build crest resolver", "error", err)
		os.Exit(1)
	}

	appCache := cache.New(ctx, cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	deps := handler.Deps{Data: data, Cache: appCache, Crests: crests}
	if hc, ok := st.(handler.HealthChecker); ok {
		deps.Store = hc
	}
	router := api.NewRouter(deps, cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Scoracle Quiz API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// newCrestResolver wires on-demand crest lookups against the live wiki.
func newCrestResolver(cfg *config.Config, logger *slog.Logger) (*logo.Resolver, error) {
	tables, err := config.LoadLogoTables(cfg.LogoTablesFile)
	if err != nil {
		return nil, err
	}
	w := wiki.NewClient(wiki.Options{
		BaseURL:   cfg.WikipediaURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
		Delay:     cfg.RequestDelay,
		Logger:    logger,
	})
	opts := logo.Options{
		Tables:  tables,
		Default: cfg.DefaultLogo,
		Entities: wikidata.NewClient(wikidata.Options{
			SPARQLURL: cfg.WikidataSPARQLURL,
			EntityURL: cfg.WikidataURL,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.HTTPTimeout,
			Delay:     cfg.RequestDelay,
			Logger:    logger,
		}),
		Logger: logger,
	}
	if cfg.ImageSearchURL != "" {
		opts.Search = logo.NewSearchClient(cfg.ImageSearchURL, logger)
	}
	return logo.NewResolver(w, opts)
}
