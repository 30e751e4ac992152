package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	BackendURL         string `validate:"required,url"`
	RequestTimeoutSecs int    `validate:"gte=0"`
	Locale             string
	Features           []string `validate:"dive,oneof=probability volatility importer"`
	PatternSlots       int      `validate:"gte=5,lte=50"`
	ExportDir          string   `validate:"required"`

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=json console"`
	LogOutput string

	TelegramBotToken string
	AlertChatIDs     []int64
	RedisURL         string
	AlertDedupeSecs  int `validate:"gte=0"`
	DatabaseURL      string

	SSHBind        string
	SSHPort        int    `validate:"gt=0,lte=65535"`
	SSHHostKeyPath string `validate:"required"`
	HealthPort     int    `validate:"gte=0,lte=65535"`

	OTLPEndpoint string
}

var validate = validator.New()

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		OTLPEndpoint:     strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	cfg.BackendURL = strings.TrimSpace(os.Getenv("DESK_BACKEND_URL"))
	if cfg.BackendURL == "" {
		log.Println("Warning: DESK_BACKEND_URL not set, defaulting to http://localhost:5000")
		cfg.BackendURL = "http://localhost:5000"
	}

	cfg.RequestTimeoutSecs = 0
	if v := strings.TrimSpace(os.Getenv("DESK_REQUEST_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RequestTimeoutSecs = n
		} else {
			log.Printf("Warning: invalid DESK_REQUEST_TIMEOUT_SECS=%q, requests will not time out", v)
		}
	}

	cfg.Locale = strings.TrimSpace(os.Getenv("DESK_LOCALE"))
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}

	cfg.Features = parseFeatures(os.Getenv("DESK_FEATURES"))

	cfg.PatternSlots = 15
	if v := strings.TrimSpace(os.Getenv("DESK_PATTERN_SLOTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 5 && n <= 50 {
			cfg.PatternSlots = n
		} else {
			log.Printf("Warning: DESK_PATTERN_SLOTS=%q out of range 5-50, defaulting to 15", v)
		}
	}

	cfg.ExportDir = strings.TrimSpace(os.Getenv("DESK_EXPORT_DIR"))
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		log.Printf("Warning: unsupported LOG_FORMAT=%q, defaulting to json", cfg.LogFormat)
		cfg.LogFormat = "json"
	}
	cfg.LogOutput = strings.TrimSpace(os.Getenv("LOG_OUTPUT"))

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, alert forwarding disabled")
	}
	cfg.AlertChatIDs = parseChatIDs(os.Getenv("DESK_ALERT_CHAT_IDS"))

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, alerts are de-duplicated per process only")
	}
	cfg.AlertDedupeSecs = 300
	if v := strings.TrimSpace(os.Getenv("ALERT_DEDUPE_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.AlertDedupeSecs = n
		} else {
			log.Printf("Warning: invalid ALERT_DEDUPE_SECS=%q, defaulting to 300", v)
		}
	}
	if cfg.AlertDedupeSecs == 0 {
		log.Println("Warning: ALERT_DEDUPE_SECS=0, every alert is forwarded")
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}

	cfg.SSHBind = strings.TrimSpace(os.Getenv("SSH_BIND"))
	if cfg.SSHBind == "" {
		cfg.SSHBind = "0.0.0.0"
	}
	cfg.SSHPort = 23234
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSHPort = n
		}
	}
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/signal_desk_ed25519"
	}

	cfg.HealthPort = 8081
	if v := strings.TrimSpace(os.Getenv("HEALTH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HealthPort = n
		}
	}

	return cfg
}

// Validate checks the loaded values against their struct constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HasFeature reports whether an optional dashboard region is enabled.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if f == name {
			return true
		}
	}
	return false
}

func parseFeatures(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"probability", "volatility", "importer"}
	}
	if strings.EqualFold(raw, "none") {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		f := strings.ToLower(strings.TrimSpace(part))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func parseChatIDs(raw string) []int64 {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("Warning: ignoring invalid chat id %q in DESK_ALERT_CHAT_IDS", part)
			continue
		}
		out = append(out, id)
	}
	return out
}
