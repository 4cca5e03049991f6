// Command aeroops serves the flight tracking and risk assessment API for a
// configured region: live ADS-B acquisition with snapshot and synthetic
// fallbacks, destination weather, and per-flight delay-risk scores.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/aero-ops/internal/acquisition"
	"github.com/couchcryptid/aero-ops/internal/adapter/adsb"
	httpadapter "github.com/couchcryptid/aero-ops/internal/adapter/http"
	"github.com/couchcryptid/aero-ops/internal/adapter/openmeteo"
	"github.com/couchcryptid/aero-ops/internal/config"
	"github.com/couchcryptid/aero-ops/internal/domain"
	"github.com/couchcryptid/aero-ops/internal/observability"
	"github.com/couchcryptid/aero-ops/internal/risk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var source domain.FlightSource
	switch cfg.ADSBProvider {
	case config.ProviderOpenSky:
		source = adsb.NewOpenSkyClient(cfg.ADSBBaseURL, cfg.ADSBTimeout, cfg.ADSBRateLimit, logger)
	default:
		source = adsb.NewADSBLolClient(cfg.ADSBBaseURL, cfg.ADSBTimeout, cfg.ADSBRateLimit, logger)
	}
	logger.Info("aircraft feed configured", "provider", source.Name())

	var snapshot []domain.Observation
	if cfg.SnapshotPath != "" {
		snapshot, err = acquisition.LoadSnapshot(cfg.SnapshotPath)
		if err != nil {
			logger.Error("failed to load snapshot", "path", cfg.SnapshotPath, "error", err)
			os.Exit(1)
		}
		logger.Info("fallback snapshot loaded", "path", cfg.SnapshotPath, "observations", len(snapshot))
	}

	flights := acquisition.NewService(source, acquisition.Options{
		Snapshot: snapshot,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
		Metrics:  metrics,
	})

	weather := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, logger)
	engine := risk.NewEngine(weather, cfg.WeatherTimeout, logger, metrics)

	filters := domain.Filters{MinAltitudeM: cfg.MinAltitudeM, MinSpeedMps: cfg.MinSpeedMps}
	srv := httpadapter.NewServer(cfg.HTTPAddr, flights, engine, cfg.Region(), filters, cfg.Destination(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
