package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	RapidAPIHost    string        `mapstructure:"RAPIDAPI_HOST"`
	RapidAPIKey     string        `mapstructure:"RAPIDAPI_KEY"`
	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	DemoMode bool   `mapstructure:"DEMO_MODE"`

	// Telegram bot, optional. The bot only starts when a token is set.
	TelegramBotToken string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	BadgerDBPath     string        `mapstructure:"BADGERDB_PATH"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
}

// ErrMissingAPIKey is returned by RequireUpstream when no RapidAPI key is set.
var ErrMissingAPIKey = errors.New("RAPIDAPI_KEY is not set")

var defaults = map[string]any{
	"RAPIDAPI_HOST":      "fresh-linkedin-profile-data.p.rapidapi.com",
	"RAPIDAPI_KEY":       "",
	"UPSTREAM_TIMEOUT":   "30s",
	"PORT":               "5001",
	"LOG_LEVEL":          "info",
	"DEMO_MODE":          false,
	"TELEGRAM_BOT_TOKEN": "",
	"BADGERDB_PATH":      "./badger_data",
	"SESSION_TTL":        "24h",
}

// LoadConfig reads configuration from file or environment variables.
// path is the directory searched for config.yaml; a missing file is fine.
func LoadConfig(path string) (Config, error) {
	return load(path, "")
}

// LoadConfigFile reads configuration from an explicit file plus the environment.
func LoadConfigFile(file string) (Config, error) {
	return load("", file)
}

func load(dir, file string) (config Config, err error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal only sees keys viper knows about, so every key needs a default.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || file != "" {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

// RequireUpstream reports whether the upstream API can be called. Demo mode
// works without a key since every extraction falls back to sample data.
func (c Config) RequireUpstream() error {
	if c.RapidAPIKey == "" && !c.DemoMode {
		return ErrMissingAPIKey
	}
	return nil
}

// BotEnabled reports whether the Telegram bot should run.
func (c Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
