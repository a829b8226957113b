package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dalbom/arithmetic/internal/config"
	"github.com/dalbom/arithmetic/internal/database"
	"github.com/dalbom/arithmetic/internal/handler"
	"github.com/dalbom/arithmetic/internal/logger"
	"github.com/dalbom/arithmetic/internal/repository"
	"github.com/dalbom/arithmetic/internal/router"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/dalbom/arithmetic/internal/texlive"
	"github.com/dalbom/arithmetic/internal/worker"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting arithmetic worksheet server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	presetRepo := repository.NewPresetRepository(pool)
	recordRepo := repository.NewWorksheetRecordRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	var compiler service.Compiler
	if cfg.TeXLiveURL != "" {
		compiler = texlive.NewClient(cfg.TeXLiveURL, cfg.TeXLiveTimeout)
	} else {
		log.Warn().Msg("TEXLIVE_URL is empty, LaTeX PDFs use the native renderer")
	}

	authService := service.NewAuthService(cfg, rdb, userRepo)
	worksheetService := service.NewWorksheetService(cfg, rdb, recordRepo, compiler, log)
	presetService := service.NewPresetService(presetRepo)
	historyService := service.NewHistoryService(recordRepo, rdb)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, log),
		Worksheet: handler.NewWorksheetHandler(worksheetService, historyService, log),
		Preset:    handler.NewPresetHandler(presetService, worksheetService, log),
		WS:        handler.NewWSHandler(worksheetService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	recordWorker := worker.NewRecordWorker(recordRepo, rdb, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		recordWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests. LaTeX compiles can be slow, so
	// allow in-flight generations the compile timeout to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.TeXLiveTimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the record worker and wait for its final flush.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
