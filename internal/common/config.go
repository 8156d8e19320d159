// Package common provides shared utilities for Divicast
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Divicast
type Config struct {
	Environment string           `toml:"environment"`
	Server      ServerConfig     `toml:"server"`
	Portfolio   []SecurityConfig `toml:"portfolio"`
	Clients     ClientsConfig    `toml:"clients"`
	Session     SessionConfig    `toml:"session"`
	Logging     LoggingConfig    `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SecurityConfig describes one held security in the static portfolio.
type SecurityConfig struct {
	Name   string `toml:"name"`
	Ticker string `toml:"ticker"` // exchange-qualified, e.g. "NYSE:KO"
	Shares int    `toml:"shares"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// SessionConfig holds analysis session settings.
type SessionConfig struct {
	TTL string `toml:"ttl"` // duration string, default "30m"
}

// GetTTL parses and returns the session time-to-live duration.
func (c *SessionConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults, including the
// default held portfolio (mixed US/UK/ES/DE payers).
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Portfolio: []SecurityConfig{
			{Name: "Coca-Cola", Ticker: "NYSE:KO", Shares: 120},
			{Name: "Johnson & Johnson", Ticker: "NYSE:JNJ", Shares: 45},
			{Name: "Unilever", Ticker: "LON:ULVR", Shares: 150},
			{Name: "Legal & General", Ticker: "LON:LGEN", Shares: 800},
			{Name: "Iberdrola", Ticker: "BME:IBE", Shares: 300},
			{Name: "Enagás", Ticker: "BME:ENG", Shares: 100},
			{Name: "Redeia", Ticker: "BME:RED", Shares: 200},
			{Name: "Allianz", Ticker: "ETR:ALV", Shares: 20},
			{Name: "BASF", Ticker: "ETR:BAS", Shares: 60},
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-3-pro-preview",
				Timeout:   "60s",
				RateLimit: 2,
			},
		},
		Session: SessionConfig{
			TTL: "30m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DIVICAST_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("DIVICAST_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("DIVICAST_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("DIVICAST_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if model := os.Getenv("DIVICAST_GEMINI_MODEL"); model != "" {
		config.Clients.Gemini.Model = model
	}

	if ttl := os.Getenv("DIVICAST_SESSION_TTL"); ttl != "" {
		config.Session.TTL = ttl
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment variables or fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"GEMINI_API_KEY", "DIVICAST_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
