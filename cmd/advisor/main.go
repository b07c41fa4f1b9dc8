package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/crop-advisor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/crop-advisor/internal/adapter/kafka"
	"github.com/couchcryptid/crop-advisor/internal/adapter/openmeteo"
	"github.com/couchcryptid/crop-advisor/internal/adapter/soil"
	"github.com/couchcryptid/crop-advisor/internal/advisor"
	"github.com/couchcryptid/crop-advisor/internal/config"
	"github.com/couchcryptid/crop-advisor/internal/domain"
	"github.com/couchcryptid/crop-advisor/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalog := domain.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = domain.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			logger.Error("failed to load crop catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("crop catalog loaded", "crops", catalog.Len(), "path", cfg.CatalogPath)

	soilTable, err := soil.LoadFile(cfg.SoilDataPath)
	if err != nil {
		logger.Error("failed to load soil data", "path", cfg.SoilDataPath, "error", err)
		os.Exit(1)
	}
	logger.Info("soil data loaded", "cities", soilTable.Len(), "path", cfg.SoilDataPath)

	client := openmeteo.NewClient(openmeteo.Options{
		GeocodingURL: cfg.GeocodingURL,
		ForecastURL:  cfg.ForecastURL,
		Timeout:      cfg.OpenMeteoTimeout,
		RatePerSec:   cfg.OpenMeteoRate,
	}, metrics, logger)
	geocoder := openmeteo.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)

	opts := []advisor.Option{}
	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, advisor.WithPublisher(writer))
		logger.Info("report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("report publishing disabled")
	}

	scorer := domain.NewScorer(catalog, domain.WithTopN(cfg.TopN))
	svc := advisor.New(geocoder, client, soilTable, scorer, logger, metrics, opts...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, cfg.CORSAllowedOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

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
