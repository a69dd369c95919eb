package rss

import (
	"fmt"

	"omninews/internal/core"
)

// Config represents RSS view configuration
type Config struct {
	Enabled    bool
	PageSize   int
	ProbeFeeds bool
}

// NewConfig creates the RSS view config from core config
func NewConfig(coreConfig *core.Config) *Config {
	return &Config{
		Enabled:    true,
		PageSize:   coreConfig.Feeds.PageSize,
		ProbeFeeds: coreConfig.Feeds.ProbeFeeds,
	}
}

// Validate validates the RSS configuration
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100")
	}
	return nil
}
