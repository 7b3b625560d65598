package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Time source modes
const (
	ModeReal   = "real"
	ModeManual = "manual"
)

// Configuration validation constants
const (
	MinPort            = 1     // Minimum valid port number
	MaxPort            = 65535 // Maximum valid port number
	MaxShutdownTimeout = 300   // seconds

	// Default values
	DefaultMode            = ModeReal
	DefaultHTTPPort        = 8080
	DefaultLogLevel        = "info"
	DefaultSetRateLimit    = 10 // PUT /now requests per second
	DefaultShutdownTimeout = 30 // seconds
)

// Config represents the timesourced configuration
type Config struct {
	Mode            string `yaml:"mode"`
	InitialTimeRaw  string `yaml:"initial_time"` // RFC 3339, manual mode only
	HTTPPort        int    `yaml:"http_port"`
	LogLevel        string `yaml:"log_level"`
	SetRateLimit    *int   `yaml:"set_rate_limit"` // Pointer to distinguish between 0 (disabled) and unset
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

// Load loads configuration from a YAML file and applies environment variable overrides.
// An empty path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// #nosec G304 -- Config file path is provided by administrator via CLI flag, not user input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// InitialTime returns the parsed initial_time and whether a valid one was configured
func (c *Config) InitialTime() (time.Time, bool) {
	if c.InitialTimeRaw == "" {
		return time.Time{}, false
	}
	t, err := parseInitialTime(c.InitialTimeRaw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseInitialTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

// SetRateLimitRPS returns the PUT /now limit; 0 means unlimited
func (c *Config) SetRateLimitRPS() int {
	if c.SetRateLimit == nil {
		return DefaultSetRateLimit
	}
	return *c.SetRateLimit
}

// applyDefaults sets default values for configuration
func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = DefaultHTTPPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.SetRateLimit == nil {
		limit := DefaultSetRateLimit
		cfg.SetRateLimit = &limit
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("TIMESOURCE_MODE"); val != "" {
		cfg.Mode = val
	}

	if val := os.Getenv("TIMESOURCE_INITIAL_TIME"); val != "" {
		cfg.InitialTimeRaw = val
	}

	if val := os.Getenv("TIMESOURCE_HTTP_PORT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid TIMESOURCE_HTTP_PORT: must be an integer, got %q", val)
		}
		cfg.HTTPPort = i
	}

	if val := os.Getenv("TIMESOURCE_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}

	if val := os.Getenv("TIMESOURCE_SET_RATE_LIMIT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid TIMESOURCE_SET_RATE_LIMIT: must be an integer, got %q", val)
		}
		cfg.SetRateLimit = &i
	}

	if val := os.Getenv("TIMESOURCE_SHUTDOWN_TIMEOUT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid TIMESOURCE_SHUTDOWN_TIMEOUT: must be an integer, got %q", val)
		}
		cfg.ShutdownTimeout = i
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if cfg.Mode != ModeReal && cfg.Mode != ModeManual {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeReal, ModeManual, cfg.Mode)
	}

	if cfg.InitialTimeRaw != "" {
		if cfg.Mode != ModeManual {
			return fmt.Errorf("initial_time is only allowed in %q mode", ModeManual)
		}
		if _, err := parseInitialTime(cfg.InitialTimeRaw); err != nil {
			return fmt.Errorf("initial_time must be RFC 3339, got %q: %w", cfg.InitialTimeRaw, err)
		}
	}

	if cfg.HTTPPort < MinPort || cfg.HTTPPort > MaxPort {
		return fmt.Errorf("http_port must be between %d and %d", MinPort, MaxPort)
	}

	if cfg.SetRateLimit != nil && *cfg.SetRateLimit < 0 {
		return fmt.Errorf("set_rate_limit cannot be negative, got %d", *cfg.SetRateLimit)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %d", cfg.ShutdownTimeout)
	}

	if cfg.ShutdownTimeout > MaxShutdownTimeout {
		return fmt.Errorf("shutdown_timeout should not exceed %d seconds, got %d", MaxShutdownTimeout, cfg.ShutdownTimeout)
	}

	return nil
}
