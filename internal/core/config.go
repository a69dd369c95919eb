package core

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the main configuration for the OmniNews client
type Config struct {
	Server  ServerConfig  `json:"server"`
	API     APIConfig     `json:"api"`
	Storage StorageConfig `json:"storage"`
	Feeds   FeedConfig    `json:"feeds"`
	Auth    AuthConfig    `json:"auth"`
	Log     LogConfig     `json:"log"`
}

// ServerConfig contains configuration for the local application shell
type ServerConfig struct {
	Port     int    `json:"port"`
	Host     string `json:"host"`
	BasePath string `json:"base_path"`
}

// APIConfig contains configuration for the remote OmniNews API
type APIConfig struct {
	BaseURL   string        `json:"base_url"`
	Timeout   time.Duration `json:"timeout"`
	UserAgent string        `json:"user_agent"`
}

// StorageConfig contains configuration for durable local storage
type StorageConfig struct {
	Path   string `json:"path"`
	Secret string `json:"-"`
}

// FeedConfig contains pagination and feed-probing settings
type FeedConfig struct {
	PageSize   int  `json:"page_size"`
	ProbeFeeds bool `json:"probe_feeds"`
}

// AuthConfig contains social sign-in settings
type AuthConfig struct {
	GoogleUserInfoURL string `json:"google_userinfo_url"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `json:"level"`
}

// Defaults
const (
	DefaultAPIBaseURL        = "http://127.0.0.1:1027/v1/api"
	DefaultBasePath          = "/omninews"
	DefaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("OMNINEWS_PORT", 5173),
			Host:     getEnvOrDefault("OMNINEWS_HOST", "127.0.0.1"),
			BasePath: getEnvOrDefault("OMNINEWS_BASE_PATH", DefaultBasePath),
		},
		API: APIConfig{
			BaseURL:   getEnvOrDefault("OMNINEWS_API_BASE_URL", DefaultAPIBaseURL),
			Timeout:   getEnvAsDuration("OMNINEWS_API_TIMEOUT", 30*time.Second),
			UserAgent: getEnvOrDefault("OMNINEWS_USER_AGENT", "OmniNews Web Client/1.0"),
		},
		Storage: StorageConfig{
			Path:   getEnvOrDefault("OMNINEWS_DB_PATH", "./omninews.db"),
			Secret: getEnvOrDefault("OMNINEWS_STORAGE_SECRET", ""),
		},
		Feeds: FeedConfig{
			PageSize:   getEnvAsInt("OMNINEWS_PAGE_SIZE", 20),
			ProbeFeeds: getEnvAsBool("OMNINEWS_PROBE_FEEDS", true),
		},
		Auth: AuthConfig{
			GoogleUserInfoURL: getEnvOrDefault("OMNINEWS_GOOGLE_USERINFO_URL", DefaultGoogleUserInfoURL),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("OMNINEWS_LOG_LEVEL", "info"),
		},
	}

	config.Server.BasePath = normalizeBasePath(config.Server.BasePath)

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return NewConfigurationError(fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return NewConfigurationError(fmt.Sprintf("invalid API base URL: %q", c.API.BaseURL), err)
	}

	if c.API.Timeout <= 0 {
		return NewConfigurationError("API timeout must be positive", nil)
	}

	if c.Storage.Path == "" {
		return NewConfigurationError("storage path is required", nil)
	}

	if c.Storage.Secret == "" {
		return NewConfigurationError("storage secret is required", nil)
	}

	if c.Feeds.PageSize < 1 || c.Feeds.PageSize > 100 {
		return NewConfigurationError("page size must be between 1 and 100", nil)
	}

	return nil
}

// Addr returns the listen address for the application shell
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// normalizeBasePath makes the base path start with a slash and drop any trailing one.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
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
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
