// Package config defines the top-level configuration for the screener and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by TRADER_* environment variables.
type Config struct {
	OddsAPI   OddsAPIConfig   `toml:"odds_api"`
	Collector CollectorConfig `toml:"collector"`
	Analyzer  AnalyzerConfig  `toml:"analyzer"`
	Cycle     CycleConfig     `toml:"cycle"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Server    ServerConfig    `toml:"server"`
	Telegram  TelegramConfig  `toml:"telegram"`
	Notify    NotifyConfig    `toml:"notify"`
	Mode      string          `toml:"mode"`
	LogLevel  string          `toml:"log_level"`
}

// OddsAPIConfig holds The Odds API connection parameters.
type OddsAPIConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Regions string `toml:"regions"`
	Markets string `toml:"markets"`
}

// CollectorConfig holds market data collection parameters.
type CollectorConfig struct {
	Sports           []string `toml:"sports"`
	BackMarket       string   `toml:"back_market"`
	LayMarket        string   `toml:"lay_market"`
	MaxDailyRequests int      `toml:"max_daily_requests"`
	CacheTTL         duration `toml:"cache_ttl"`
}

// AnalyzerConfig holds the detection thresholds.
type AnalyzerConfig struct {
	MinOddsDifference float64 `toml:"min_odds_difference"`
	MinProbability    float64 `toml:"min_probability"`
	MaxBackOdds       float64 `toml:"max_back_odds"`
	MinLayOdds        float64 `toml:"min_lay_odds"`
	ArbTolerance      float64 `toml:"arb_tolerance"`
	Bankroll          float64 `toml:"bankroll"`
}

// CycleConfig selects the cycle profile active at startup. Custom overrides
// the built-in custom profile when green_target is set.
type CycleConfig struct {
	Profile           string  `toml:"profile"`
	CustomGreenTarget float64 `toml:"custom_green_target"`
	CustomMaxRed      float64 `toml:"custom_max_red"`
	CustomRatio       int     `toml:"custom_ratio"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// PipelineConfig holds the detection loop parameters.
type PipelineConfig struct {
	DetectInterval duration `toml:"detect_interval"`
	ArchiveCron    string   `toml:"archive_cron"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
	RateLimit   int      `toml:"rate_limit"`
	RateWindow  duration `toml:"rate_window"`
}

// TelegramConfig holds the command bot credentials.
type TelegramConfig struct {
	Enabled bool   `toml:"enabled"`
	Token   string `toml:"token"`
	ChatID  string `toml:"chat_id"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		OddsAPI: OddsAPIConfig{
			BaseURL: "https://api.the-odds-api.com/v4/sports",
			Regions: "eu,uk",
			Markets: "h2h,h2h_lay",
		},
		Collector: CollectorConfig{
			Sports:           []string{"soccer_brazil_campeonato", "soccer_epl"},
			BackMarket:       "h2h",
			LayMarket:        "h2h_lay",
			MaxDailyRequests: 450,
			CacheTTL:         duration{10 * time.Minute},
		},
		Analyzer: AnalyzerConfig{
			MinOddsDifference: 0.05,
			MinProbability:    0.60,
			MaxBackOdds:       1.06,
			MinLayOdds:        30.0,
			ArbTolerance:      0.98,
			Bankroll:          1000,
		},
		Cycle: CycleConfig{
			Profile: "default",
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "trader",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "trader-archive",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Pipeline: PipelineConfig{
			DetectInterval: duration{5 * time.Minute},
			ArchiveCron:    "0 3 * * *",
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:   0,
			RateWindow:  duration{time.Second},
		},
		Telegram: TelegramConfig{
			Enabled: false,
		},
		Notify: NotifyConfig{
			Events: []string{"opportunity", "arbitrage", "cycle"},
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"screen": true,
	"serve":  true,
	"once":   true,
	"full":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: screen, serve, once, full)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Feed credentials are required for any mode that collects data.
	needsFeed := c.Mode != "serve"
	if needsFeed && c.OddsAPI.APIKey == "" {
		errs = append(errs, "odds_api: api_key is required for mode "+c.Mode)
	}

	if len(c.Collector.Sports) == 0 {
		errs = append(errs, "collector: at least one sport must be configured")
	}
	if c.Collector.BackMarket == "" || c.Collector.LayMarket == "" {
		errs = append(errs, "collector: back_market and lay_market must be set")
	}
	if c.Collector.MaxDailyRequests <= 0 {
		errs = append(errs, "collector: max_daily_requests must be positive")
	}

	if c.Analyzer.MinOddsDifference < 0 {
		errs = append(errs, "analyzer: min_odds_difference must not be negative")
	}
	if c.Analyzer.ArbTolerance <= 0 || c.Analyzer.ArbTolerance > 1 {
		errs = append(errs, "analyzer: arb_tolerance must be in (0, 1]")
	}
	if c.Analyzer.Bankroll <= 0 {
		errs = append(errs, "analyzer: bankroll must be positive")
	}

	if c.Pipeline.DetectInterval.Duration <= 0 {
		errs = append(errs, "pipeline: detect_interval must be positive")
	}

	if c.Server.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server: invalid port %d", c.Server.Port))
	}

	if c.Telegram.Enabled && (c.Telegram.Token == "" || c.Telegram.ChatID == "") {
		errs = append(errs, "telegram: token and chat_id are required when the bot is enabled")
	}

	if c.Postgres.Enabled && c.Postgres.DSN == "" && c.Postgres.Host == "" {
		errs = append(errs, "postgres: dsn or host must be set when enabled")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket is required when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region is required when enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
