package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BAZAAR_URL", "BAZAAR_MODE", "BAZAAR_FIXED_PRODUCT", "BAZAAR_FRONTEND", "BAZAAR_LOCALE",
		"BAZAAR_ZERO_AS_MISSING", "BAZAAR_RELOAD_CRON", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"HTTPS_PROXY", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ModeSearch, cfg.Mode)
	assert.Equal(t, FrontendConsole, cfg.Frontend)
	assert.Equal(t, DefaultURL, cfg.DataSource.URL)
	assert.Equal(t, DefaultTimeout, cfg.DataSource.Timeout)
	assert.Equal(t, DefaultFixedProduct, cfg.FixedProduct)
	assert.Equal(t, DefaultLocale, cfg.Display.Locale)
	require.NotNil(t, cfg.Display.ZeroAsMissing)
	assert.True(t, *cfg.Display.ZeroAsMissing)
	assert.Equal(t, 10, cfg.Display.MaxSuggestions)
	assert.Equal(t, 3, cfg.Display.OrderDepth)
	assert.Equal(t, 2*time.Second, cfg.Display.ReadyClearAfter)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
mode: fixed
fixed_product: "enchanted potato"
frontend: telegram
reload_cron: "0 * * * *"
data_source:
  url: http://localhost:9999/bazaar
  timeout: 5s
telegram:
  bot_token: file-token
  chat_id: "42"
display:
  locale: de-DE
  zero_as_missing: false
  max_suggestions: 5
  order_depth: 2
  ready_clear_after: 500ms
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("BAZAAR_ZERO_AS_MISSING", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeFixed, cfg.Mode)
	assert.Equal(t, "ENCHANTED_POTATO", cfg.FixedProduct)
	assert.Equal(t, FrontendTelegram, cfg.Frontend)
	assert.Equal(t, "http://localhost:9999/bazaar", cfg.DataSource.URL)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, "de-DE", cfg.Display.Locale)
	assert.True(t, *cfg.Display.ZeroAsMissing)
	assert.Equal(t, 5, cfg.Display.MaxSuggestions)
	assert.Equal(t, 2, cfg.Display.OrderDepth)
	assert.Equal(t, 500*time.Millisecond, cfg.Display.ReadyClearAfter)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "mode: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Mode = "browse" }},
		{"bad frontend", func(c *Config) { c.Frontend = "web" }},
		{"telegram without token", func(c *Config) { c.Frontend = FrontendTelegram; c.Telegram.ChatID = "1" }},
		{"telegram without chat", func(c *Config) { c.Frontend = FrontendTelegram; c.Telegram.BotToken = "t" }},
		{"too many suggestions", func(c *Config) { c.Display.MaxSuggestions = 11 }},
		{"zero depth", func(c *Config) { c.Display.OrderDepth = -1 }},
		{"bad cron", func(c *Config) { c.ReloadCron = "every day" }},
		{"fixed without product", func(c *Config) { c.Mode = ModeFixed; c.FixedProduct = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
