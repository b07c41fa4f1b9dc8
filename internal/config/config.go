package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Crop scoring.
	CatalogPath  string
	SoilDataPath string
	TopN         int

	// Open-Meteo configuration.
	GeocodingURL     string
	ForecastURL      string
	OpenMeteoTimeout time.Duration
	OpenMeteoRate    float64
	GeocodeCacheSize int

	CORSAllowedOrigins []string

	// Report publishing; disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// PublishEnabled reports whether search reports go to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OPENMETEO_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid OPENMETEO_TIMEOUT")
	}

	rate, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("OPENMETEO_RATE", "5"), 64)
	if err != nil || rate <= 0 {
		return nil, errors.New("invalid OPENMETEO_RATE")
	}

	topN, err := strconv.Atoi(sharedcfg.EnvOrDefault("TOP_N", "3"))
	if err != nil || topN < 1 || topN > 50 {
		return nil, errors.New("invalid TOP_N: must be between 1 and 50")
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CatalogPath:  os.Getenv("CATALOG_PATH"),
		SoilDataPath: sharedcfg.EnvOrDefault("SOIL_DATA_PATH", "data/india_soil_ph_data.json"),
		TopN:         topN,

		GeocodingURL:     os.Getenv("GEOCODING_URL"),
		ForecastURL:      os.Getenv("FORECAST_URL"),
		OpenMeteoTimeout: timeout,
		OpenMeteoRate:    rate,
		GeocodeCacheSize: parseGeocodeCacheSize(),

		CORSAllowedOrigins: parseList(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "crop-recommendations"),
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", cfg.LogFormat)
	}

	return cfg, nil
}

func parseGeocodeCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
