// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token          string        `yaml:"token"`
	Mode           string        `yaml:"mode"` // polling only
	Workers        int           `yaml:"workers"`
	PollTimeout    int           `yaml:"poll_timeout"` // seconds
	RemoveWebhook  bool          `yaml:"remove_webhook"`
	RateLimit      int           `yaml:"rate_limit"` // messages per user per window, 0 disables
	RateLimitEvery time.Duration `yaml:"rate_limit_window"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // 0 disables the admin HTTP server
}

type MongoConfig struct {
	URI                    string        `yaml:"uri"`
	Database               string        `yaml:"database"`
	ConnectRetries         int           `yaml:"connect_retries"`
	RetryBackoff           time.Duration `yaml:"retry_backoff"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout"`
	HealthInterval         time.Duration `yaml:"health_interval"` // 0 disables the background probe
}

type RedisConfig struct {
	URL      string `yaml:"url"` // empty disables rate limiting
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type I18nConfig struct {
	Lang string `yaml:"lang"` // km | en
}

type LookupConfig struct {
	QueryTimeout time.Duration `yaml:"query_timeout"`
	Diagnostics  bool          `yaml:"diagnostics"`
	SampleSize   int           `yaml:"sample_size"`
}

type Config struct {
	Bot    BotConfig    `yaml:"bot"`
	Log    LogConfig    `yaml:"log"`
	Admin  AdminConfig  `yaml:"admin"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Redis  RedisConfig  `yaml:"redis"`
	I18n   I18nConfig   `yaml:"i18n"`
	Lookup LookupConfig `yaml:"lookup"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the optional YAML file at path, loads .env if present and applies
// environment overrides. A missing file is fine as long as the environment
// provides the required settings.
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Mode:           "polling",
			Workers:        1,
			PollTimeout:    60,
			RemoveWebhook:  true,
			RateLimit:      20,
			RateLimitEvery: time.Minute,
		},
		Log:   LogConfig{Level: "info", Format: "json"},
		Admin: AdminConfig{Port: 8080},
		Mongo: MongoConfig{
			Database:               "stock-management",
			ConnectRetries:         5,
			RetryBackoff:           2 * time.Second,
			ServerSelectionTimeout: 5 * time.Second,
			HealthInterval:         30 * time.Second,
		},
		I18n: I18nConfig{Lang: "km"},
		Lookup: LookupConfig{
			QueryTimeout: 10 * time.Second,
			Diagnostics:  true,
			SampleSize:   5,
		},
	}
}

// applyEnv lets the process environment override file values.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("TELEGRAM_BOT_TOKEN", &cfg.Bot.Token)
	str("MONGO_URI", &cfg.Mongo.URI)
	str("MONGO_DB", &cfg.Mongo.Database)
	str("REDIS_URL", &cfg.Redis.URL)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("BOT_LANG", &cfg.I18n.Lang)

	if v, ok := lookup("ADMIN_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ADMIN_PORT: %w", err)
		}
		cfg.Admin.Port = port
	}
	if v, ok := lookup("BOT_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BOT_WORKERS: %w", err)
		}
		cfg.Bot.Workers = n
	}
	return nil
}

func normalize(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 1
	}
	if cfg.Bot.PollTimeout <= 0 {
		cfg.Bot.PollTimeout = 60
	}
	if cfg.Bot.RateLimitEvery <= 0 {
		cfg.Bot.RateLimitEvery = time.Minute
	}
	if cfg.Mongo.ConnectRetries <= 0 {
		cfg.Mongo.ConnectRetries = 1
	}
	if cfg.Mongo.RetryBackoff < 0 {
		cfg.Mongo.RetryBackoff = 0
	}
	if cfg.Mongo.HealthInterval < 0 {
		cfg.Mongo.HealthInterval = 0
	}
	if cfg.Mongo.ServerSelectionTimeout <= 0 {
		cfg.Mongo.ServerSelectionTimeout = 5 * time.Second
	}
	if cfg.Lookup.QueryTimeout <= 0 {
		cfg.Lookup.QueryTimeout = 10 * time.Second
	}
	if cfg.Lookup.SampleSize <= 0 {
		cfg.Lookup.SampleSize = 5
	}
	cfg.I18n.Lang = strings.ToLower(cfg.I18n.Lang)
	if cfg.I18n.Lang == "" {
		cfg.I18n.Lang = "km"
	}
}

// Validate checks the settings without which the bot cannot serve.
func (c *Config) Validate() error {
	if c.Bot.Token == "" && !c.Runtime.Dev {
		return errors.New("bot.token (TELEGRAM_BOT_TOKEN) is required")
	}
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri (MONGO_URI) is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("mongo.database is required")
	}
	if m := strings.ToLower(c.Bot.Mode); m != "" && m != "polling" {
		return fmt.Errorf("bot.mode %q not supported", c.Bot.Mode)
	}
	return nil
}
