package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxTweets bounds how many tweets a single run will process.
	DefaultMaxTweets = 200

	// DefaultPageSize is the per-request tweet count, capped at 100 by the API.
	DefaultPageSize = 100
)

// Config holds all configuration options for the exporter
type Config struct {
	// Twitter API credentials
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Timeline fetch settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds Twitter API v2 credentials
type TwitterConfig struct {
	BearerToken string `yaml:"bearer_token" json:"bearer_token"`
}

// FetchConfig holds timeline pagination settings
type FetchConfig struct {
	MaxTweets       int           `yaml:"max_tweets" json:"max_tweets"`
	PageSize        int           `yaml:"page_size" json:"page_size"`
	RequestTimeout  time.Duration `yaml:"request_timeout" json:"request_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout" json:"download_timeout"`
	// RequestsPerMinute paces API calls; the client additionally waits out
	// rate-limit windows signalled by the API.
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			MaxTweets:         DefaultMaxTweets,
			PageSize:          DefaultPageSize,
			RequestTimeout:    30 * time.Second,
			DownloadTimeout:   60 * time.Second,
			RequestsPerMinute: 60,
		},
		Output: OutputConfig{
			BaseDirectory: "downloads",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("TWITTER_BEARER_TOKEN"); token != "" {
		c.Twitter.BearerToken = token
	}

	if outputDir := os.Getenv("XID_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}

	if maxTweets := os.Getenv("XID_MAX_TWEETS"); maxTweets != "" {
		var val int
		fmt.Sscanf(maxTweets, "%d", &val)
		if val > 0 {
			c.Fetch.MaxTweets = val
		}
	}

	if rpm := os.Getenv("XID_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.Fetch.RequestsPerMinute = val
		}
	}

	if logLevel := os.Getenv("XID_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".xid.yaml",
		".xid.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "xid", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "xid", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".xid.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The bearer token is checked
// separately via HasCredentials so a missing token can be reported with
// guidance instead of failing config loading.
func (c *Config) Validate() error {
	var errs []error

	if c.Fetch.MaxTweets <= 0 {
		errs = append(errs, errors.New("max tweets must be positive"))
	}
	if c.Fetch.PageSize <= 0 || c.Fetch.PageSize > 100 {
		errs = append(errs, errors.New("page size must be between 1 and 100"))
	}
	if c.Fetch.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.Fetch.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Fetch.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// HasCredentials reports whether a bearer token is configured
func (c *Config) HasCredentials() bool {
	return c.Twitter.BearerToken != ""
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["bearer-token"].(string); ok && token != "" {
		c.Twitter.BearerToken = token
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if maxTweets, ok := flags["max-tweets"].(int); ok && maxTweets > 0 {
		c.Fetch.MaxTweets = maxTweets
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.Fetch.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xid.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
