package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stockdb/internal/retention"
	"stockdb/pkg/api"
	"stockdb/pkg/config"
	"stockdb/pkg/logger"
	"stockdb/pkg/snapshot"
	"stockdb/pkg/store"
)

func main() {
	// build metadata - set via ldflags during build/release
	var (
		version = "dev"
	)
	_ = godotenv.Load(".env")
	fl := config.ParseCommandFlags()

	cfgPath := fl.Config
	if v := os.Getenv("STOCKDB_CONFIG"); v != "" && !fl.Set["config"] {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		// a missing config file is fine unless the user pointed at one
		if fl.Set["config"] || os.Getenv("STOCKDB_CONFIG") != "" {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = &config.Config{}
	}
	config.LoadEnvOverrides(cfg)

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	addr, dbPath := config.Effective(cfg, fl)

	if err := store.Open(dbPath); err != nil {
		log.Fatalf("failed to open pebble at %s: %v", dbPath, err)
	}
	defer func() { _ = store.Close() }()

	// Chunk payloads are stored base64-encoded inside a JSON document, so
	// the value bound must cover the 4/3 inflation plus envelope.
	maxChunk := cfg.MaxChunkSize()
	maxValue := cfg.Storage.MaxValueSize
	if maxValue == 0 {
		maxValue = (maxChunk/3+1)*4 + 4096
	}
	store.SetMaxValueSize(maxValue)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cancelRetention, err := retention.Start(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to start retention: %v", err)
	}
	defer cancelRetention()

	a := api.New(snapshot.New(maxChunk), cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Log.Info("server_listening",
			zap.String("addr", addr),
			zap.String("db", dbPath),
			zap.Int("max_chunk_size", maxChunk),
			zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("server_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutdown_started")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown_failed", zap.Error(err))
	}
	logger.Log.Info("shutdown_complete")
}
