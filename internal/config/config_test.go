package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BackendURL != "http://localhost:3001" {
		t.Fatalf("BackendURL = %q, want default", cfg.BackendURL)
	}
	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.DefaultLanguage != "ENGLISH" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "ENGLISH")
	}
	if cfg.MetricsNamespace != "sakhi" {
		t.Fatalf("MetricsNamespace = %q, want %q", cfg.MetricsNamespace, "sakhi")
	}
}

func TestLoadRequiresBotToken(t *testing.T) {
	setCoreEnvEmpty(t)

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should fail without TELEGRAM_BOT_TOKEN")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("BACKEND_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject malformed BACKEND_TIMEOUT")
	}
}

func TestLoadRejectsTinyPollTimeout(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("POLL_TIMEOUT", "100ms")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject POLL_TIMEOUT below 1s")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"TELEGRAM_BOT_TOKEN",
		"POLL_TIMEOUT",
		"BACKEND_URL",
		"BACKEND_API_KEY",
		"BACKEND_TIMEOUT",
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"DATABASE_URL",
		"TURNLOG_CAPACITY",
		"DEFAULT_LANGUAGE",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
