// Package config loads cyclecast settings from an optional YAML file and
// CYCLECAST_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "CYCLECAST"

var ErrInsecureSecretKey = errors.New("auth.secret_key uses an insecure placeholder")

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":          {},
	"changeme":                         {},
	"replace_with_a_long_random_value": {},
	"secret":                           {},
}

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Timezone     string `mapstructure:"timezone" validate:"required"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type AuthConfig struct {
	SecretKey string        `mapstructure:"secret_key" validate:"required,min=32"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

type NotificationsConfig struct {
	TelegramBotToken   string        `mapstructure:"telegram_bot_token"`
	TelegramChatID     string        `mapstructure:"telegram_chat_id" validate:"required_with=TelegramBotToken"`
	PeriodReminderDays int           `mapstructure:"period_reminder_days" validate:"gte=0,lte=14"`
	FertilityReminder  bool          `mapstructure:"fertility_reminder"`
	Interval           time.Duration `mapstructure:"interval" validate:"gte=1m"`
}

var envKeys = []string{
	"server.port",
	"server.timezone",
	"server.cookie_secure",
	"database.path",
	"auth.secret_key",
	"auth.token_ttl",
	"notifications.telegram_bot_token",
	"notifications.telegram_chat_id",
	"notifications.period_reminder_days",
	"notifications.fertility_reminder",
	"notifications.interval",
}

// Load reads and validates configuration. An empty path looks for
// cyclecast.yaml in the working directory and tolerates its absence; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Auth.SecretKey = strings.TrimSpace(cfg.Auth.SecretKey)
	if _, insecure := insecureSecretKeys[strings.ToLower(cfg.Auth.SecretKey)]; insecure {
		return nil, ErrInsecureSecretKey
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Printf("config: invalid timezone %q, falling back to UTC", cfg.Server.Timezone)
		return time.UTC
	}
	return location
}

// DatabasePath resolves only database.path, for tools that never serve HTTP
// and so have no use for an auth secret.
func DatabasePath(path string) (string, error) {
	v, err := newViper(path)
	if err != nil {
		return "", err
	}
	dbPath := strings.TrimSpace(v.GetString("database.path"))
	if dbPath == "" {
		return "", errors.New("database.path is empty")
	}
	return dbPath, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timezone", "UTC")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("database.path", "data/cyclecast.db")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("notifications.period_reminder_days", 2)
	v.SetDefault("notifications.fertility_reminder", true)
	v.SetDefault("notifications.interval", 6*time.Hour)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cyclecast")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return v, nil
}
