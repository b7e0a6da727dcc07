package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Channel configuration
	PageURL     string // URL of the page the display belongs to; the channel uses its host and port
	SocketPath  string // Engine.IO path on that host
	DialTimeout int    // seconds

	// Display configuration
	InitialMode   string // text shown before the server sends a mode
	NormalizeCase bool   // compare mode text case-insensitively when toggling

	// Internal metrics/health server, disabled when empty
	MetricsAddr string

	// Mock server configuration
	Port          int
	Host          string
	AllowedOrigin string
}

// LoadDotEnv merges a .env file from the working directory into the process
// environment. Variables already set win. A missing file is not an error.
// Commands call it before logging is initialised so LOG_* settings in .env
// take effect.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads configuration from the environment, after merging a .env file
// from the working directory if there is one.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		PageURL:       getEnv("MODE_PAGE_URL", "http://localhost:5000/"),
		SocketPath:    getEnv("MODE_SOCKET_PATH", "/socket.io/"),
		DialTimeout:   getEnvAsInt("MODE_DIAL_TIMEOUT", 10),
		InitialMode:   getEnv("MODE_INITIAL", "Instruction"),
		NormalizeCase: getEnvAsBool("MODE_NORMALIZE_CASE", false),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
		Port:          getEnvAsInt("PORT", 5000),
		Host:          getEnv("HOST", "0.0.0.0"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("config.loaded",
		"page_url", cfg.PageURL,
		"socket_path", cfg.SocketPath,
		"normalize_case", cfg.NormalizeCase,
	)
	return cfg, nil
}

// Validate checks values that may also have been changed by command-line flags.
func (c *Config) Validate() error {
	u, err := url.Parse(c.PageURL)
	if err != nil {
		return fmt.Errorf("MODE_PAGE_URL is invalid: %w", err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("MODE_PAGE_URL must be an absolute http(s) URL, got %q", c.PageURL)
	}
	if c.SocketPath == "" {
		return fmt.Errorf("MODE_SOCKET_PATH is required")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("MODE_DIAL_TIMEOUT must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	return nil
}

// DialTimeoutDuration returns DialTimeout as a time.Duration.
func (c *Config) DialTimeoutDuration() time.Duration {
	return time.Duration(c.DialTimeout) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
