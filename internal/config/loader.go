package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from the given TOML file path, then applies
// environment variable overrides. A missing file is not an error: defaults
// plus environment variables may be enough to run.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	// Load .env if present so local development picks up secrets without
	// exporting them manually. Errors are ignored: the file is optional.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return cfg, nil
}

// applyEnvOverrides mutates cfg with values from TRADER_* environment
// variables. Only variables that are set and non-empty take effect.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Mode, "TRADER_MODE")
	setStr(&cfg.LogLevel, "TRADER_LOG_LEVEL")

	setStr(&cfg.OddsAPI.BaseURL, "TRADER_ODDS_API_BASE_URL")
	setStr(&cfg.OddsAPI.APIKey, "TRADER_ODDS_API_KEY")
	setStr(&cfg.OddsAPI.Regions, "TRADER_ODDS_API_REGIONS")
	setStr(&cfg.OddsAPI.Markets, "TRADER_ODDS_API_MARKETS")

	setStringSlice(&cfg.Collector.Sports, "TRADER_SPORTS")
	setStr(&cfg.Collector.BackMarket, "TRADER_BACK_MARKET")
	setStr(&cfg.Collector.LayMarket, "TRADER_LAY_MARKET")
	setInt(&cfg.Collector.MaxDailyRequests, "TRADER_MAX_DAILY_REQUESTS")
	setDuration(&cfg.Collector.CacheTTL, "TRADER_CACHE_TTL")

	setFloat64(&cfg.Analyzer.MinOddsDifference, "TRADER_MIN_ODDS_DIFFERENCE")
	setFloat64(&cfg.Analyzer.MinProbability, "TRADER_MIN_PROBABILITY")
	setFloat64(&cfg.Analyzer.MaxBackOdds, "TRADER_MAX_BACK_ODDS")
	setFloat64(&cfg.Analyzer.MinLayOdds, "TRADER_MIN_LAY_ODDS")
	setFloat64(&cfg.Analyzer.ArbTolerance, "TRADER_ARB_TOLERANCE")
	setFloat64(&cfg.Analyzer.Bankroll, "TRADER_BANKROLL")

	setStr(&cfg.Cycle.Profile, "TRADER_CYCLE_PROFILE")
	setFloat64(&cfg.Cycle.CustomGreenTarget, "TRADER_CYCLE_GREEN_TARGET")
	setFloat64(&cfg.Cycle.CustomMaxRed, "TRADER_CYCLE_MAX_RED")
	setInt(&cfg.Cycle.CustomRatio, "TRADER_CYCLE_RATIO")

	setBool(&cfg.Postgres.Enabled, "TRADER_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "TRADER_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "TRADER_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "TRADER_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "TRADER_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "TRADER_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "TRADER_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "TRADER_POSTGRES_SSL_MODE")
	setBool(&cfg.Postgres.RunMigrations, "TRADER_POSTGRES_RUN_MIGRATIONS")

	setStr(&cfg.Redis.Addr, "TRADER_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "TRADER_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "TRADER_REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "TRADER_REDIS_TLS_ENABLED")

	setBool(&cfg.S3.Enabled, "TRADER_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "TRADER_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "TRADER_S3_REGION")
	setStr(&cfg.S3.Bucket, "TRADER_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "TRADER_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "TRADER_S3_SECRET_KEY")

	setDuration(&cfg.Pipeline.DetectInterval, "TRADER_DETECT_INTERVAL")
	setStr(&cfg.Pipeline.ArchiveCron, "TRADER_ARCHIVE_CRON")

	setBool(&cfg.Server.Enabled, "TRADER_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "TRADER_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "TRADER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "TRADER_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "TRADER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "TRADER_RATE_WINDOW")

	setBool(&cfg.Telegram.Enabled, "TRADER_TELEGRAM_ENABLED")
	setStr(&cfg.Telegram.Token, "TRADER_TELEGRAM_TOKEN")
	setStr(&cfg.Telegram.ChatID, "TRADER_TELEGRAM_CHAT_ID")

	setStr(&cfg.Notify.TelegramToken, "TRADER_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "TRADER_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "TRADER_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "TRADER_NOTIFY_EVENTS")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}
