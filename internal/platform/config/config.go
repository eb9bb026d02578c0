package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full gateway configuration, loaded from environment
// variables. Priority: ENV > env-default tags.
type Config struct {
	Server   Server   `env-prefix:"SERVER_"`
	Upstream Upstream `env-prefix:"UPSTREAM_"`
	Redis    Redis    `env-prefix:"REDIS_"`
	Session  Session  `env-prefix:"SESSION_"`
	Catalog  Catalog  `env-prefix:"CATALOG_"`
	OTP      OTP      `env-prefix:"OTP_"`
	Audit    Audit    `env-prefix:"AUDIT_"`
	Log      Log      `env-prefix:"LOG_"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"ADDR" env-default:":8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Upstream configures the LegalBooks API client.
type Upstream struct {
	BaseURL     string        `env:"BASE_URL" env-default:"https://api.legalbooks.in/api/v1"`
	Timeout     time.Duration `env:"TIMEOUT" env-default:"15s"`
	RefreshSkew time.Duration `env:"REFRESH_SKEW" env-default:"30s"`
}

// Redis configures the optional Redis backing store. An empty URL means
// in-memory stores are used instead.
type Redis struct {
	URL          string        `env:"URL" env-default:""`
	PoolSize     int           `env:"POOL_SIZE" env-default:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" env-default:"3s"`
}

// Session configures auth session and draft retention plus credential sealing.
type Session struct {
	TTL      time.Duration `env:"TTL" env-default:"24h"`
	DraftTTL time.Duration `env:"DRAFT_TTL" env-default:"2h"`
	// SealKey protects draft credentials at rest. Any non-empty string; the
	// actual cipher key is derived from it with HKDF.
	SealKey string `env:"SEAL_KEY" env-default:"dev-seal-key-change-in-production"`
}

// Catalog configures reference data caching.
type Catalog struct {
	TTL time.Duration `env:"TTL" env-default:"5m"`
}

// OTP configures the verification sub-flow.
type OTP struct {
	Digits int `env:"DIGITS" env-default:"4"`
	// TrustMobile reproduces the legacy client behavior of treating a sent
	// mobile OTP as verified without a server round-trip. Off by default.
	TrustMobile bool `env:"TRUST_MOBILE" env-default:"false"`
	// ResendLimit caps generate requests per entity per window.
	ResendLimit  int           `env:"RESEND_LIMIT" env-default:"3"`
	ResendWindow time.Duration `env:"RESEND_WINDOW" env-default:"10m"`
}

// Audit configures the workflow event trail. Empty brokers disable the Kafka
// sink; events still land in the in-memory store.
type Audit struct {
	Brokers []string `env:"BROKERS" env-default:""`
	Topic   string   `env:"TOPIC" env-default:"legalbooks.onboarding.audit"`
}

// Log configures slog output.
type Log struct {
	Level  string `env:"LEVEL" env-default:"info"`
	Format string `env:"FORMAT" env-default:"text"`
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the gateway cannot run with.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base URL is required")
	}
	if c.OTP.Digits < 4 || c.OTP.Digits > 8 {
		return fmt.Errorf("otp digits must be between 4 and 8, got %d", c.OTP.Digits)
	}
	if c.Session.TTL <= 0 || c.Session.DraftTTL <= 0 {
		return fmt.Errorf("session and draft TTLs must be positive")
	}
	return nil
}
