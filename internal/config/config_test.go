package config

import (
	"reflect"
	"strings"
	"testing"
)

var allKeys = []string{
	"DESK_BACKEND_URL", "DESK_REQUEST_TIMEOUT_SECS", "DESK_LOCALE", "DESK_FEATURES",
	"DESK_PATTERN_SLOTS", "DESK_EXPORT_DIR", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	"TELEGRAM_BOT_TOKEN", "DESK_ALERT_CHAT_IDS", "REDIS_URL", "ALERT_DEDUPE_SECS",
	"DATABASE_URL", "SSH_BIND", "SSH_PORT", "SSH_HOST_KEY_PATH", "HEALTH_PORT",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.BackendURL != "http://localhost:5000" {
		t.Fatalf("expected default backend url, got %s", cfg.BackendURL)
	}
	if cfg.RequestTimeoutSecs != 0 {
		t.Fatalf("expected no timeout by default, got %d", cfg.RequestTimeoutSecs)
	}
	if cfg.Locale != "en" || cfg.PatternSlots != 15 || cfg.ExportDir != "." {
		t.Fatalf("unexpected desk defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Features, []string{"probability", "volatility", "importer"}) {
		t.Fatalf("unexpected feature defaults: %v", cfg.Features)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected log defaults: %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.AlertDedupeSecs != 300 || len(cfg.AlertChatIDs) != 0 {
		t.Fatalf("unexpected alert defaults: %+v", cfg)
	}
	if cfg.SSHBind != "0.0.0.0" || cfg.SSHPort != 23234 || cfg.HealthPort != 8081 {
		t.Fatalf("unexpected ssh defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DESK_BACKEND_URL", "https://predict.example.com")
	t.Setenv("DESK_REQUEST_TIMEOUT_SECS", "30")
	t.Setenv("DESK_LOCALE", "bn-BD")
	t.Setenv("DESK_FEATURES", "Volatility, importer,volatility")
	t.Setenv("DESK_PATTERN_SLOTS", "20")
	t.Setenv("DESK_EXPORT_DIR", "/tmp/exports")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("DESK_ALERT_CHAT_IDS", "10, -100200, nope")
	t.Setenv("ALERT_DEDUPE_SECS", "60")
	t.Setenv("SSH_PORT", "2222")
	t.Setenv("HEALTH_PORT", "0")

	cfg := Load()
	if cfg.BackendURL != "https://predict.example.com" || cfg.RequestTimeoutSecs != 30 {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}
	if cfg.Locale != "bn-BD" || cfg.PatternSlots != 20 || cfg.ExportDir != "/tmp/exports" {
		t.Fatalf("unexpected desk config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Features, []string{"volatility", "importer"}) {
		t.Fatalf("unexpected features: %v", cfg.Features)
	}
	if cfg.HasFeature("probability") || !cfg.HasFeature("importer") {
		t.Fatal("unexpected feature lookup")
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "console" {
		t.Fatalf("unexpected log config: %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if !reflect.DeepEqual(cfg.AlertChatIDs, []int64{10, -100200}) {
		t.Fatalf("unexpected chat ids: %v", cfg.AlertChatIDs)
	}
	if cfg.AlertDedupeSecs != 60 || cfg.SSHPort != 2222 || cfg.HealthPort != 0 {
		t.Fatalf("unexpected numeric config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DESK_REQUEST_TIMEOUT_SECS", "-3")
	t.Setenv("DESK_PATTERN_SLOTS", "2")
	t.Setenv("LOG_FORMAT", "xml")

	cfg := Load()
	if cfg.RequestTimeoutSecs != 0 || cfg.PatternSlots != 15 || cfg.LogFormat != "json" {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}

func TestAlertDedupeSecs(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALERT_DEDUPE_SECS", "0")
	cfg := Load()
	if cfg.AlertDedupeSecs != 0 {
		t.Fatalf("expected 0 to disable the window, got %d", cfg.AlertDedupeSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected 0 to validate: %v", err)
	}

	t.Setenv("ALERT_DEDUPE_SECS", "-5")
	if cfg := Load(); cfg.AlertDedupeSecs != 300 {
		t.Fatalf("expected fallback to 300, got %d", cfg.AlertDedupeSecs)
	}
}

func TestFeaturesNone(t *testing.T) {
	clearEnv(t)
	t.Setenv("DESK_FEATURES", "none")
	if cfg := Load(); len(cfg.Features) != 0 {
		t.Fatalf("expected no features, got %v", cfg.Features)
	}
}

func TestValidateCatchesInvalidConfig(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	cfg.BackendURL = "not a url"
	cfg.Features = append(cfg.Features, "telemetry")

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "BackendURL") || !strings.Contains(err.Error(), "Features") {
		t.Fatalf("expected both fields reported, got %v", err)
	}
}
