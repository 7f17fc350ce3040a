package config

import (
	"os"
	"strings"
	"time"

	"github.com/logscrape/logscrape/pkg/scraper"
)

// Default values for configuration.
const (
	DefaultOutputFormat   = "text"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvLogSources      = "LOGSCRAPE_LOG_SOURCES"
	EnvTimestampLayout = "LOGSCRAPE_TIMESTAMP_LAYOUT"
)

// DefaultConfig returns a configuration matching the log format the
// standard writer emits.
func DefaultConfig() *Config {
	return &Config{
		LogSources: []string{},
		TimestampFormat: TimestampConfig{
			Pattern: scraper.DefaultTimestampPattern,
			Layout:  scraper.DefaultTimestampLayout,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if layout := os.Getenv(EnvTimestampLayout); layout != "" {
		c.TimestampFormat.Layout = layout
	}

	if sources := os.Getenv(EnvLogSources); sources != "" {
		c.LogSources = nil
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.LogSources = append(c.LogSources, s)
			}
		}
	}
}
