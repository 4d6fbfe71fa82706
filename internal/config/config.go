package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Default reference sources.
const (
	DefaultDataPath    = "countriesMBTI_16types.csv"
	DefaultCapitalsURL = "https://raw.githubusercontent.com/icyrockcom/country-capitals/master/data/country-list.csv"
	DefaultWorldURL    = "https://cdn.jsdelivr.net/npm/world-atlas@2/countries-110m.json"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath         string
	CapitalsURL      string
	WorldTopoJSONURL string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64

	// Reference fetch configuration.
	FetchTimeout   time.Duration
	FetchCacheSize int

	// Optional Kafka sink for geo records.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "10s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	maxUpload, err := strconv.ParseInt(sharedcfg.EnvOrDefault("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, errors.New("invalid MAX_UPLOAD_BYTES")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DataPath:         sharedcfg.EnvOrDefault("DATA_PATH", DefaultDataPath),
		CapitalsURL:      sharedcfg.EnvOrDefault("CAPITALS_URL", DefaultCapitalsURL),
		WorldTopoJSONURL: sharedcfg.EnvOrDefault("WORLD_TOPOJSON_URL", DefaultWorldURL),
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		MaxUploadBytes:   maxUpload,

		FetchTimeout:   fetchTimeout,
		FetchCacheSize: parseFetchCacheSize(),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "mbti-geo-records"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parseFetchCacheSize() int {
	if s := os.Getenv("FETCH_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 16
}
