// Package main is the entry point for the meeplekeep-api server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/meeplekeep/meeplekeep-api/internal/auth"
	"github.com/meeplekeep/meeplekeep-api/internal/bgg"
	"github.com/meeplekeep/meeplekeep-api/internal/config"
	"github.com/meeplekeep/meeplekeep-api/internal/database"
	"github.com/meeplekeep/meeplekeep-api/internal/extract"
	"github.com/meeplekeep/meeplekeep-api/internal/http/handlers"
	"github.com/meeplekeep/meeplekeep-api/internal/http/mw"
	"github.com/meeplekeep/meeplekeep-api/internal/http/routes"
	"github.com/meeplekeep/meeplekeep-api/internal/importer"
	"github.com/meeplekeep/meeplekeep-api/internal/llm"
	"github.com/meeplekeep/meeplekeep-api/internal/logging"
	"github.com/meeplekeep/meeplekeep-api/internal/repository"
	"github.com/meeplekeep/meeplekeep-api/internal/scrape"
	"github.com/meeplekeep/meeplekeep-api/internal/service"
	"github.com/meeplekeep/meeplekeep-api/internal/shutdown"
	"github.com/meeplekeep/meeplekeep-api/internal/version"
)

func main() {
	// Initialize logger with TTY detection and format control
	logger := logging.SetDefault()

	v := version.Get()
	logger.Info("starting meeplekeep-api",
		"version", v.Version,
		"commit", v.Commit,
		"built", v.Date,
		"go_version", v.GoVersion,
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if schemaVersion, applied, err := database.SchemaVersion(db); err != nil {
		logger.Warn("failed to get schema version", "error", err)
	} else if schemaVersion != "" {
		logger.Info("database schema ready", "schema_version", schemaVersion, "migrations_applied", applied)
	}

	repos := repository.NewRepositories(db)

	// AI extraction is optional: without a provider key, imports still
	// work but skip enhancement.
	var extractor extract.Extractor
	if cfg.LLMEnabled() {
		llmClient := llm.NewClient(cfg.LLMProvider, cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMTimeout, logger)
		extractor = extract.NewLLMExtractor(llmClient, logger)
		logger.Info("AI enhancement enabled", "provider", cfg.LLMProvider, "model", cfg.LLMModel)
	} else {
		logger.Info("AI enhancement disabled (no LLM_API_KEY)")
	}

	scraper := scrape.NewFetcher(cfg.ScrapeUserAgent, cfg.ScrapeTimeout, logger)
	bggClient := bgg.NewClient(cfg.BGGAPIBaseURL, cfg.BGGCollectionAttempts, cfg.BGGCollectionDelay, logger)
	bggFetcher := bgg.NewFetcher(bggClient, scraper, extractor, cfg.BGGSiteBaseURL, logger)

	importSvc := importer.NewService(repos, bggFetcher, bggClient, cfg.EnhanceDelay, logger)

	storageSvc, err := service.NewStorageService(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if storageSvc.IsEnabled() {
		importSvc.SetImageMirror(storageSvc)
		logger.Info("cover image mirroring enabled", "bucket", cfg.StorageBucket)
	}

	apiKeySvc := service.NewAPIKeyService(repos, cfg.APIKeyPepper, logger)
	verifier := auth.NewVerifier([]byte(cfg.JWTSecret), cfg.APIKeyPepper, repos.APIKey)

	// Router and global middleware
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	// Imports can scrape and call an LLM per row; the timeout covers a
	// full batch.
	router.Use(middleware.Timeout(10 * time.Minute))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// CSV uploads dominate request size; 10MB covers large collections.
	router.Use(middleware.RequestSize(10 * 1024 * 1024))
	router.Use(httprate.LimitByIP(100, time.Minute))
	router.Use(middleware.Throttle(100))

	idle := shutdown.NewIdleMonitor(cfg.IdleTimeout, []string{"/healthz", "/readyz"}, logger)
	router.Use(idle.Middleware)
	idle.Start()
	defer idle.Stop()

	humaConfig := huma.DefaultConfig("MeepleKeep API", v.Version)
	humaConfig.Info.Description = "Board game collection API: public catalogue plus an admin import pipeline with BGG lookup and AI-assisted enhancement."
	humaConfig.Servers = []*huma.Server{
		{URL: cfg.BaseURL, Description: "API Server"},
	}
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		mw.SecurityScheme: {
			Type:        "http",
			Scheme:      "bearer",
			Description: "JWT or API key authentication. Include the credential in the Authorization header as `Bearer mk_your_key`.",
		},
	}

	api := humachi.New(router, humaConfig)
	api.UseMiddleware(mw.HumaAuth(api, verifier))

	h := handlers.New(repos, importSvc, apiKeySvc)
	routes.Register(api, h)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Imports respond only when the whole batch is done; the write
		// deadline must outlast the request timeout middleware.
		WriteTimeout: 11 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on signal or idle timeout
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-sigChan:
			logger.Info("shutting down server")
		case <-idle.ShutdownChan():
			logger.Info("shutting down server (idle)")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
