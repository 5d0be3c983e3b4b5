package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/i474232898/temperature-heatmap/internal/temperature/sources"
)

var validate = validator.New()

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type AppConfig struct {
	AppEnv   string     `validate:"required"`
	LogLevel slog.Level `validate:"-"`

	// DatasetURL is the primary source; DatasetFile is an optional local fallback.
	DatasetURL  string `validate:"omitempty,url"`
	DatasetFile string `validate:"required_without=DatasetURL"`

	// FetchInterval controls how often the dataset is reloaded.
	FetchInterval time.Duration `validate:"gte=1s"`
	HTTPTimeout   time.Duration `validate:"gt=0"`

	StoreDriver     string        `validate:"oneof=memory sqlite"`
	StorePath       string        `validate:"required_if=StoreDriver sqlite"`
	StoreMaxHistory int           `validate:"gte=0"` // max number of snapshots (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"gte=0"` // max age of snapshots (0 = unlimited)

	ChartWidth  int          `validate:"gte=300,lte=4000"`
	ChartHeight int          `validate:"gte=200,lte=3000"`
	ChartLocale language.Tag `validate:"-"`

	Port string `validate:"required,numeric"`
}

// Load reads configuration from .env and the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "development")

	level, err := parseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.DatasetURL = getenvDefault("DATASET_URL", sources.DefaultDatasetURL)
	cfg.DatasetFile = os.Getenv("DATASET_FILE")

	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "24h"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", StoreMemory))
	cfg.StorePath = getenvDefault("STORE_PATH", "heatmap.db")
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 30)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "720h"); err != nil {
		return nil, err
	}

	cfg.ChartWidth = getenvInt("CHART_WIDTH", 1200)
	cfg.ChartHeight = getenvInt("CHART_HEIGHT", 600)

	locale, err := language.Parse(getenvDefault("CHART_LOCALE", "en"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHART_LOCALE: %w", err)
	}
	cfg.ChartLocale = locale

	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
