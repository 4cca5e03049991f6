package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skypies/geo"
)

// Feed providers selectable via ADSB_PROVIDER.
const (
	ProviderADSBLol = "adsblol"
	ProviderOpenSky = "opensky"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Tracked region and the destination the risk engine evaluates against.
	// Defaults cover Guarulhos (SBGR) and its approach corridor.
	RegionCenterLat float64
	RegionCenterLon float64
	RegionRadiusKm  float64
	DestLat         float64
	DestLon         float64

	// Aircraft feed configuration.
	ADSBProvider  string
	ADSBBaseURL   string
	ADSBTimeout   time.Duration
	ADSBRateLimit float64 // requests per second

	// Weather feed configuration.
	WeatherBaseURL string
	WeatherTimeout time.Duration

	// Acquisition behavior.
	CacheTTL     time.Duration
	MinAltitudeM float64
	MinSpeedMps  float64
	SnapshotPath string

	// Collector / Kafka export (feature-flagged via KAFKA_ENABLED).
	PollInterval time.Duration
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	adsbTimeout, err := envDuration("ADSB_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := envDuration("WEATHER_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := envDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	pollInterval, err := envDuration("POLL_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RegionCenterLat: envFloat("REGION_CENTER_LAT", -23.4356),
		RegionCenterLon: envFloat("REGION_CENTER_LON", -46.4731),
		RegionRadiusKm:  envFloat("REGION_RADIUS_KM", 100),
		DestLat:         envFloat("DEST_LAT", -23.4356),
		DestLon:         envFloat("DEST_LON", -46.4731),

		ADSBProvider:  envOrDefault("ADSB_PROVIDER", ProviderADSBLol),
		ADSBBaseURL:   os.Getenv("ADSB_BASE_URL"),
		ADSBTimeout:   adsbTimeout,
		ADSBRateLimit: envFloat("ADSB_RATE_LIMIT", 1),

		WeatherBaseURL: os.Getenv("WEATHER_BASE_URL"),
		WeatherTimeout: weatherTimeout,

		CacheTTL:     cacheTTL,
		MinAltitudeM: envFloat("MIN_ALTITUDE_M", 0),
		MinSpeedMps:  envFloat("MIN_SPEED_MPS", 0),
		SnapshotPath: os.Getenv("SNAPSHOT_PATH"),

		PollInterval: pollInterval,
		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "aircraft-observations"),
	}

	if cfg.ADSBProvider != ProviderADSBLol && cfg.ADSBProvider != ProviderOpenSky {
		return nil, fmt.Errorf("invalid ADSB_PROVIDER %q (want %s or %s)", cfg.ADSBProvider, ProviderADSBLol, ProviderOpenSky)
	}
	if cfg.RegionRadiusKm <= 0 {
		return nil, errors.New("REGION_RADIUS_KM must be positive")
	}
	if cfg.ADSBRateLimit <= 0 {
		return nil, errors.New("ADSB_RATE_LIMIT must be positive")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return cfg, nil
}

// Region returns the tracked bounding box derived from the configured center
// and radius.
func (c *Config) Region() geo.LatlongBox {
	return boxAround(geo.Latlong{Lat: c.RegionCenterLat, Long: c.RegionCenterLon}, c.RegionRadiusKm)
}

// Destination returns the configured destination coordinate.
func (c *Config) Destination() geo.Latlong {
	return geo.Latlong{Lat: c.DestLat, Long: c.DestLon}
}

// LoggingLevel implements observability.LoggingConfig.
func (c *Config) LoggingLevel() string { return c.LogLevel }

// LoggingFormat implements observability.LoggingConfig.
func (c *Config) LoggingFormat() string { return c.LogFormat }

// boxAround builds a bounding box of the given radius around a center point.
// One degree of latitude is ~111.19 km; longitude degrees shrink with the
// cosine of the latitude.
func boxAround(center geo.Latlong, radiusKm float64) geo.LatlongBox {
	dLat := radiusKm / 111.19
	dLon := radiusKm / (111.19 * math.Cos(center.Lat*math.Pi/180))
	return geo.LatlongBox{
		SW: geo.Latlong{Lat: center.Lat - dLat, Long: center.Long - dLon},
		NE: geo.Latlong{Lat: center.Lat + dLat, Long: center.Long + dLon},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func envFloat(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
