package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// AIModeGenerative serves model completions with canned fallbacks.
	AIModeGenerative = "generative"
	// AIModePlaceholder serves fixed placeholder text.
	AIModePlaceholder = "placeholder"
	// AIModeDisabled answers every AI endpoint with 410 Gone.
	AIModeDisabled = "disabled"
)

const maxConfigFileSize = 1024 * 1024

// Config holds application level configuration for both the backend and the client.
type Config struct {
	ServerPort  string `koanf:"server_port"`
	CORSOrigins string `koanf:"cors_origins"`
	SwaggerHost string `koanf:"swagger_host"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	AIMode          string  `koanf:"ai_mode"`
	GoogleAPIKey    string  `koanf:"google_api_key"`
	GeminiModel     string  `koanf:"gemini_model"`
	GeminiRateLimit float64 `koanf:"gemini_rate_limit"`
	GeminiBurst     int     `koanf:"gemini_burst"`

	SMTPHost      string        `koanf:"smtp_host"`
	SMTPPort      int           `koanf:"smtp_port"`
	SMTPUser      string        `koanf:"smtp_user"`
	SMTPPassword  string        `koanf:"smtp_password"`
	SMTPFromEmail string        `koanf:"smtp_from_email"`
	SMTPFromName  string        `koanf:"smtp_from_name"`
	SMTPTimeout   time.Duration `koanf:"smtp_timeout"`
	AdminEmail    string        `koanf:"admin_email"`

	StoreDriver string `koanf:"store_driver"`
	StorePath   string `koanf:"store_path"`
	RedisAddr   string `koanf:"redis_addr"`
	RedisPass   string `koanf:"redis_password"`
	RedisDB     int    `koanf:"redis_db"`
	RedisPrefix string `koanf:"redis_prefix"`
	MySQLDSN    string `koanf:"mysql_dsn"`

	APIBase          string        `koanf:"api_base"`
	NotifyTimeout    time.Duration `koanf:"notify_timeout"`
	SimulatedLatency time.Duration `koanf:"simulated_latency"`
	PasswordPolicy   string        `koanf:"password_policy"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ServerPort:       "4000",
		CORSOrigins:      "*",
		LogLevel:         "info",
		LogFormat:        "json",
		AIMode:           AIModeGenerative,
		GeminiModel:      "gemini-2.0-flash",
		GeminiRateLimit:  1,
		GeminiBurst:      5,
		SMTPHost:         "smtp.gmail.com",
		SMTPPort:         587,
		SMTPFromName:     "TrackMyProgress",
		SMTPTimeout:      15 * time.Second,
		StoreDriver:      "bolt",
		StorePath:        defaultStorePath(),
		RedisAddr:        "localhost:6379",
		RedisPrefix:      "trackmyprogress:",
		MySQLDSN:         "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local",
		NotifyTimeout:    5 * time.Second,
		SimulatedLatency: time.Second,
		PasswordPolicy:   "plain",
	}
}

// Load builds Config from defaults, then an optional YAML file, then environment
// variables. Environment keys are lower-cased: SERVER_PORT -> server_port.
func Load(path string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.AIMode {
	case AIModeGenerative, AIModePlaceholder, AIModeDisabled:
	default:
		return fmt.Errorf("ai_mode must be one of generative, placeholder, disabled; got %q", c.AIMode)
	}
	switch c.StoreDriver {
	case "memory", "file", "bolt", "redis", "mysql":
	default:
		return fmt.Errorf("unknown store_driver %q", c.StoreDriver)
	}
	switch c.PasswordPolicy {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("password_policy must be plain or bcrypt; got %q", c.PasswordPolicy)
	}
	if c.SimulatedLatency < 0 {
		return fmt.Errorf("simulated_latency must not be negative")
	}
	return nil
}

// MailConfigured reports whether enough SMTP settings are present to send mail.
func (c *Config) MailConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPassword != "" && c.SMTPFromEmail != ""
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "trackmyprogress.db"
	}
	return filepath.Join(dir, "trackmyprogress", "store.db")
}
