// Command collector polls the acquisition layer at a fixed interval and
// publishes every observation set to Kafka for downstream consumers.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/aero-ops/internal/acquisition"
	"github.com/couchcryptid/aero-ops/internal/adapter/adsb"
	kafkaadapter "github.com/couchcryptid/aero-ops/internal/adapter/kafka"
	"github.com/couchcryptid/aero-ops/internal/config"
	"github.com/couchcryptid/aero-ops/internal/domain"
	"github.com/couchcryptid/aero-ops/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if !cfg.KafkaEnabled {
		logger.Error("collector requires KAFKA_ENABLED=true")
		os.Exit(1)
	}

	var source domain.FlightSource
	switch cfg.ADSBProvider {
	case config.ProviderOpenSky:
		source = adsb.NewOpenSkyClient(cfg.ADSBBaseURL, cfg.ADSBTimeout, cfg.ADSBRateLimit, logger)
	default:
		source = adsb.NewADSBLolClient(cfg.ADSBBaseURL, cfg.ADSBTimeout, cfg.ADSBRateLimit, logger)
	}

	var snapshot []domain.Observation
	if cfg.SnapshotPath != "" {
		snapshot, err = acquisition.LoadSnapshot(cfg.SnapshotPath)
		if err != nil {
			logger.Error("failed to load snapshot", "path", cfg.SnapshotPath, "error", err)
			os.Exit(1)
		}
	}

	flights := acquisition.NewService(source, acquisition.Options{
		Snapshot: snapshot,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
		Metrics:  metrics,
	})

	publisher := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	region := cfg.Region()
	filters := domain.Filters{MinAltitudeM: cfg.MinAltitudeM, MinSpeedMps: cfg.MinSpeedMps}

	logger.Info("collector starting",
		"provider", source.Name(),
		"topic", cfg.KafkaTopic,
		"poll_interval", cfg.PollInterval,
	)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	collect := func() {
		set, err := flights.Fetch(ctx, region, filters)
		if err != nil {
			if !errors.Is(err, acquisition.ErrNoObservations) {
				logger.Error("acquisition failed", "error", err)
			}
			return
		}
		if err := publisher.PublishSet(ctx, set); err != nil {
			logger.Error("publish failed", "error", err)
			return
		}
		logger.Info("observation set published",
			"count", len(set.Observations),
			"provenance", set.Provenance,
		)
	}

	collect()
	for {
		select {
		case <-ctx.Done():
			logger.Info("collector shutting down")
			return
		case <-ticker.C:
			collect()
		}
	}
}
