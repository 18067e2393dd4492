package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"BazaarWatch/internal/catalog"
)

// Modes select which variant of the viewer runs.
const (
	ModeSearch = "search"
	ModeFixed  = "fixed"
)

// Front ends.
const (
	FrontendConsole  = "console"
	FrontendTelegram = "telegram"
)

// Defaults for optional fields.
const (
	DefaultURL             = "https://api.hypixel.net/skyblock/bazaar"
	DefaultTimeout         = 30 * time.Second
	DefaultFixedProduct    = "ENCHANTED_CARROT"
	DefaultLocale          = "en-US"
	DefaultOrderDepth      = 3
	DefaultReadyClearAfter = 2 * time.Second
	DefaultLogLevel        = "info"
)

// Config holds all application configuration.
type Config struct {
	Mode         string `yaml:"mode"`
	FixedProduct string `yaml:"fixed_product"`
	Frontend     string `yaml:"frontend"`
	LogLevel     string `yaml:"log_level"`
	ReloadCron   string `yaml:"reload_cron"`
	Proxy        string `yaml:"proxy"`
	DataSource   struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Display struct {
		Locale          string        `yaml:"locale"`
		ZeroAsMissing   *bool         `yaml:"zero_as_missing"`
		MaxSuggestions  int           `yaml:"max_suggestions"`
		OrderDepth      int           `yaml:"order_depth"`
		ReadyClearAfter time.Duration `yaml:"ready_clear_after"`
	} `yaml:"display"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BAZAAR_URL"); v != "" {
		cfg.DataSource.URL = v
	}
	if v := os.Getenv("BAZAAR_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("BAZAAR_FIXED_PRODUCT"); v != "" {
		cfg.FixedProduct = v
	}
	if v := os.Getenv("BAZAAR_FRONTEND"); v != "" {
		cfg.Frontend = v
	}
	if v := os.Getenv("BAZAAR_LOCALE"); v != "" {
		cfg.Display.Locale = v
	}
	if v := os.Getenv("BAZAAR_ZERO_AS_MISSING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Display.ZeroAsMissing = &b
		}
	}
	if v := os.Getenv("BAZAAR_RELOAD_CRON"); v != "" {
		cfg.ReloadCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeSearch
	}
	if c.Frontend == "" {
		c.Frontend = FrontendConsole
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.DataSource.URL == "" {
		c.DataSource.URL = DefaultURL
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = DefaultTimeout
	}
	if c.FixedProduct == "" {
		c.FixedProduct = DefaultFixedProduct
	}
	c.FixedProduct = catalog.Normalize(c.FixedProduct)
	if c.Display.Locale == "" {
		c.Display.Locale = DefaultLocale
	}
	if c.Display.ZeroAsMissing == nil {
		zero := true
		c.Display.ZeroAsMissing = &zero
	}
	if c.Display.MaxSuggestions == 0 {
		c.Display.MaxSuggestions = catalog.MaxSuggestions
	}
	if c.Display.OrderDepth == 0 {
		c.Display.OrderDepth = DefaultOrderDepth
	}
	if c.Display.ReadyClearAfter == 0 {
		c.Display.ReadyClearAfter = DefaultReadyClearAfter
	}
}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeSearch, ModeFixed:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeSearch, ModeFixed, c.Mode)
	}
	switch c.Frontend {
	case FrontendConsole:
	case FrontendTelegram:
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required for the telegram frontend")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required for the telegram frontend")
		}
	default:
		return fmt.Errorf("frontend must be %q or %q, got %q", FrontendConsole, FrontendTelegram, c.Frontend)
	}
	if c.Mode == ModeFixed && c.FixedProduct == "" {
		return fmt.Errorf("fixed_product is required in fixed mode")
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	if c.Display.MaxSuggestions < 1 || c.Display.MaxSuggestions > catalog.MaxSuggestions {
		return fmt.Errorf("display.max_suggestions must be between 1 and %d, got %d", catalog.MaxSuggestions, c.Display.MaxSuggestions)
	}
	if c.Display.OrderDepth < 1 {
		return fmt.Errorf("display.order_depth must be >= 1")
	}
	if c.Display.ReadyClearAfter < 0 {
		return fmt.Errorf("display.ready_clear_after must not be negative")
	}
	if c.ReloadCron != "" {
		if _, err := cron.ParseStandard(c.ReloadCron); err != nil {
			return fmt.Errorf("reload_cron: %w", err)
		}
	}
	return nil
}
