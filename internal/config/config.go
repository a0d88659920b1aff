package config

import (
	"fmt"
	"log/slog"
	"time"

	pkgconfig "github.com/Zinedinarnaut/torqueindex/pkg/config"
)

// Config holds all configuration for the torqueindex service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"3001"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"torqueindex"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"torqueindex_secret"`
	PostgresDB   string `env:"POSTGRES_DB_NAME" envDefault:"torqueindex_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Store registry override (JSON array; the embedded defaults apply when unset)
	StoresJSON string `env:"STORES_JSON"`

	// Scrape knobs. Each is clamped to a sane range after parsing; see Load.
	PageLimit           int `env:"SHOPIFY_PAGE_LIMIT" envDefault:"250"`
	MaxPages            int `env:"SHOPIFY_MAX_PAGES" envDefault:"40"`
	PageDelayMs         int `env:"SCRAPE_PAGE_DELAY_MS" envDefault:"500"`
	StoreConcurrency    int `env:"SCRAPE_STORE_CONCURRENCY" envDefault:"3"`
	Max429Retries       int `env:"SCRAPE_MAX_429_RETRIES" envDefault:"6"`
	RetryBaseDelayMs    int `env:"SCRAPE_RETRY_BASE_DELAY_MS" envDefault:"1000"`
	RefreshIntervalSecs int `env:"SCRAPE_REFRESH_INTERVAL_SECS" envDefault:"900"`
}

// scrapeBound describes the valid range and default of one scrape knob.
type scrapeBound struct {
	name         string
	value        *int
	defaultValue int
	min          int
	max          int
}

// Load reads configuration from environment variables. Scrape knobs that
// fall outside their documented range are reset to their default with a
// warning rather than failing startup.
func Load(logger *slog.Logger) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load torqueindex config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}

	bounds := []scrapeBound{
		{"SHOPIFY_PAGE_LIMIT", &cfg.PageLimit, 250, 1, 250},
		{"SHOPIFY_MAX_PAGES", &cfg.MaxPages, 40, 1, 250},
		{"SCRAPE_PAGE_DELAY_MS", &cfg.PageDelayMs, 500, 0, 30000},
		{"SCRAPE_STORE_CONCURRENCY", &cfg.StoreConcurrency, 3, 1, 32},
		{"SCRAPE_MAX_429_RETRIES", &cfg.Max429Retries, 6, 0, 20},
		{"SCRAPE_RETRY_BASE_DELAY_MS", &cfg.RetryBaseDelayMs, 1000, 100, 60000},
		{"SCRAPE_REFRESH_INTERVAL_SECS", &cfg.RefreshIntervalSecs, 900, 30, 86400},
	}
	for _, b := range bounds {
		if *b.value < b.min || *b.value > b.max {
			if logger != nil {
				logger.Warn("scrape setting out of range, using default",
					slog.String("setting", b.name),
					slog.Int("value", *b.value),
					slog.Int("default", b.defaultValue),
				)
			}
			*b.value = b.defaultValue
		}
	}

	return cfg, nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// PageDelay returns the inter-page politeness delay as a duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMs) * time.Millisecond
}

// RetryBaseDelay returns the 429 backoff base delay as a duration.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

// RefreshInterval returns the periodic scrape interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSecs) * time.Second
}
