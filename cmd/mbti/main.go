package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/mbti-climate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/mbti-climate-service/internal/adapter/geodata"
	httpadapter "github.com/couchcryptid/mbti-climate-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/mbti-climate-service/internal/adapter/kafka"
	"github.com/couchcryptid/mbti-climate-service/internal/config"
	"github.com/couchcryptid/mbti-climate-service/internal/observability"
	"github.com/couchcryptid/mbti-climate-service/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := geodata.NewClient(cfg.FetchTimeout, metrics, logger)
	reference := geodata.NewCachedSource(client, cfg.FetchCacheSize, metrics)

	// Kafka sink feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(reference, cfg.CapitalsURL, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, reference, httpadapter.Options{
		WorldSrc:       cfg.WorldTopoJSONURL,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Process the bundled dataset once so the API is ready without an upload.
	go loadInitialDataset(ctx, p, cfg.DataPath, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

func loadInitialDataset(ctx context.Context, p *pipeline.Pipeline, path string, logger *slog.Logger) {
	if _, err := os.Stat(path); err != nil {
		logger.Info("no initial dataset, waiting for upload", "path", path)
		return
	}
	tbl, enc, err := csvfile.ReadFile(path)
	if err != nil {
		logger.Error("initial dataset unreadable", "path", path, "error", err)
		return
	}
	if _, err := p.Run(ctx, pipeline.RunInput{Source: path, Encoding: enc, Data: tbl}); err != nil {
		logger.Error("initial dataset rejected", "path", path, "error", err)
	}
}
