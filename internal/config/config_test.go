package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	cfg.OddsAPI.APIKey = "test-key"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "full", cfg.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Pipeline.DetectInterval.Duration)
	assert.Equal(t, 0.98, cfg.Analyzer.ArbTolerance)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "turbo"
	cfg.LogLevel = "loud"
	cfg.Collector.Sports = nil
	cfg.Analyzer.Bankroll = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "at least one sport")
	assert.Contains(t, err.Error(), "bankroll must be positive")
}

func TestValidateServeModeSkipsAPIKey(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "serve"

	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADER_ODDS_API_KEY", "env-key")
	t.Setenv("TRADER_SPORTS", "soccer_epl, tennis_atp")
	t.Setenv("TRADER_DETECT_INTERVAL", "90s")
	t.Setenv("TRADER_SERVER_ENABLED", "false")
	t.Setenv("TRADER_BANKROLL", "2500")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "env-key", cfg.OddsAPI.APIKey)
	assert.Equal(t, []string{"soccer_epl", "tennis_atp"}, cfg.Collector.Sports)
	assert.Equal(t, 90*time.Second, cfg.Pipeline.DetectInterval.Duration)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, 2500.0, cfg.Analyzer.Bankroll)
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.OddsAPI.APIKey = "secret"
	cfg.Telegram.Token = "123:abc"
	cfg.Postgres.Password = "hunter2"

	red := RedactedConfig(cfg)

	assert.Equal(t, redacted, red.OddsAPI.APIKey)
	assert.Equal(t, redacted, red.Telegram.Token)
	assert.Equal(t, redacted, red.Postgres.Password)
	assert.Equal(t, "secret", cfg.OddsAPI.APIKey)
	assert.Empty(t, red.Redis.Password)
}
