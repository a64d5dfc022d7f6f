// Package config loads runtime settings for the complaint desk.
// Values come from defaults, an optional YAML file, a .env file and the process environment,
// in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	DatabaseDSN string `yaml:"database_dsn"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_model"`
	GeminiBaseURL    string        `yaml:"gemini_base_url"`
	ClassifyTimeout  time.Duration `yaml:"classify_timeout"`
	RateLimitBackoff time.Duration `yaml:"rate_limit_backoff"`

	TelegramBotToken    string `yaml:"telegram_bot_token"`
	TelegramAdminChatID int64  `yaml:"telegram_admin_chat_id"`
	NotifyMinUrgency    string `yaml:"notify_min_urgency"`

	LocalesDir    string `yaml:"locales_dir"`
	DefaultLocale string `yaml:"default_locale"`
}

// Default returns the settings used for local development.
func Default() *Config {
	return &Config{
		HTTPAddr:         ":8080",
		DatabaseDSN:      "host=localhost user=user password=password dbname=campusdesk port=5432 sslmode=disable",
		RedisAddr:        "localhost:6380",
		TokenTTL:         72 * time.Hour,
		GeminiModel:      "gemini-2.5-flash",
		GeminiBaseURL:    "https://generativelanguage.googleapis.com/v1beta",
		ClassifyTimeout:  ClassifyTimeout,
		RateLimitBackoff: RateLimitBackoff,
		NotifyMinUrgency: "High",
		LocalesDir:       "internal/localization/locales",
		DefaultLocale:    "en",
	}
}

// Load builds the configuration. A missing YAML file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("INFO: config file %s not found, using defaults and environment", path)
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.RedisPassword, "REDIS_PASSWORD")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.GeminiBaseURL, "GEMINI_BASE_URL")
	setString(&c.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.NotifyMinUrgency, "NOTIFY_MIN_URGENCY")
	setString(&c.LocalesDir, "LOCALES_DIR")
	setString(&c.DefaultLocale, "DEFAULT_LOCALE")

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.RedisDB = n
	}
	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
		c.TelegramAdminChatID = n
	}
	for key, dst := range map[string]*time.Duration{
		"TOKEN_TTL":          &c.TokenTTL,
		"CLASSIFY_TIMEOUT":   &c.ClassifyTimeout,
		"RATE_LIMIT_BACKOFF": &c.RateLimitBackoff,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
