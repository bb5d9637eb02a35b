package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the Sakhi dialog bot.
type Config struct {
	TelegramBotToken string
	PollTimeout      time.Duration

	BackendURL     string
	BackendAPIKey  string
	BackendTimeout time.Duration

	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	DatabaseURL     string
	TurnLogCapacity int

	DefaultLanguage string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramBotToken: trimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		BackendURL:       envOrDefault("BACKEND_URL", "http://localhost:3001"),
		BackendAPIKey:    envOrDefault("BACKEND_API_KEY", "sakhi_secret_key_change_this"),
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "sakhi"),
		DatabaseURL:      trimSpace(os.Getenv("DATABASE_URL")),
		DefaultLanguage:  envOrDefault("DEFAULT_LANGUAGE", "ENGLISH"),
		PollTimeout:      30 * time.Second,
		BackendTimeout:   15 * time.Second,
		ShutdownTimeout:  15 * time.Second,
		TurnLogCapacity:  1000,
	}

	var err error
	cfg.PollTimeout, err = durationFromEnv("POLL_TIMEOUT", cfg.PollTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BackendTimeout, err = durationFromEnv("BACKEND_TIMEOUT", cfg.BackendTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.TurnLogCapacity, err = intFromEnv("TURNLOG_CAPACITY", cfg.TurnLogCapacity)
	if err != nil {
		return Config{}, err
	}

	if cfg.TelegramBotToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if strings.TrimSpace(cfg.BackendURL) == "" {
		return Config{}, fmt.Errorf("BACKEND_URL must not be empty")
	}
	if cfg.PollTimeout < time.Second {
		return Config{}, fmt.Errorf("POLL_TIMEOUT must be at least 1s")
	}
	if cfg.BackendTimeout < time.Second {
		return Config{}, fmt.Errorf("BACKEND_TIMEOUT must be at least 1s")
	}
	if cfg.TurnLogCapacity <= 0 {
		return Config{}, fmt.Errorf("TURNLOG_CAPACITY must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := trimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func trimSpace(v string) string {
	return strings.TrimSpace(v)
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
