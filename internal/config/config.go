package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	SES      SESConfig      `yaml:"ses"`
	Quota    QuotaConfig    `yaml:"quota"`
	Sending  SendingConfig  `yaml:"sending"`
	Tracking TrackingConfig `yaml:"tracking"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// SESConfig holds AWS SES credentials and sender identity
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-call SES timeout as a duration
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// QuotaConfig holds the local daily send cap. The local cap is
// authoritative: it is enforced even when the provider probe reports
// more headroom or cannot be reached at all.
type QuotaConfig struct {
	DailyLimit    int `yaml:"daily_limit"`
	WarnThreshold int `yaml:"warn_threshold"`
}

// SendingConfig holds dispatch-loop pacing settings
type SendingConfig struct {
	DelayMillis int `yaml:"delay_millis"`
}

// Delay returns the inter-message pause as a duration
func (c SendingConfig) Delay() time.Duration {
	return time.Duration(c.DelayMillis) * time.Millisecond
}

// TrackingConfig holds open-tracking settings. Both windows are
// heuristics, not correctness invariants, so they are tunable here.
type TrackingConfig struct {
	BaseURL              string `yaml:"base_url"`
	RedisAddr            string `yaml:"redis_addr"`
	DedupWindowMinutes   int    `yaml:"dedup_window_minutes"`
	PrescanWindowMinutes int    `yaml:"prescan_window_minutes"`
}

// DedupWindow returns the duplicate-open suppression window.
func (c TrackingConfig) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowMinutes) * time.Minute
}

// PrescanWindow returns the window after send within which opens are
// attributed to automated pre-scanning.
func (c TrackingConfig) PrescanWindow() time.Duration {
	return time.Duration(c.PrescanWindowMinutes) * time.Minute
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = 250
	}
	if cfg.Quota.WarnThreshold == 0 {
		cfg.Quota.WarnThreshold = 25
	}
	if cfg.Sending.DelayMillis == 0 {
		cfg.Sending.DelayMillis = 100
	}
	if cfg.Tracking.DedupWindowMinutes == 0 {
		cfg.Tracking.DedupWindowMinutes = 5
	}
	if cfg.Tracking.PrescanWindowMinutes == 0 {
		cfg.Tracking.PrescanWindowMinutes = 3
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if accessKey := os.Getenv("AWS_SES_ACCESS_KEY"); accessKey != "" {
		cfg.SES.AccessKey = accessKey
	}
	if secretKey := os.Getenv("AWS_SES_SECRET_KEY"); secretKey != "" {
		cfg.SES.SecretKey = secretKey
	}
	if region := os.Getenv("AWS_SES_REGION"); region != "" {
		cfg.SES.Region = region
	}
	if from := os.Getenv("SES_FROM_EMAIL"); from != "" {
		cfg.SES.FromEmail = from
	}
	if v := os.Getenv("TRACKING_BASE_URL"); v != "" {
		cfg.Tracking.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Tracking.RedisAddr = v
	}

	return cfg, nil
}
