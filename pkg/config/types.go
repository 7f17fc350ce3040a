// Package config provides configuration loading and validation for logscrape.
package config

import (
	"regexp"
	"time"

	"github.com/logscrape/logscrape/pkg/tag"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	LogSources      []string        `yaml:"log_sources"`
	TimestampFormat TimestampConfig `yaml:"timestamp_format"`
	Filters         FilterConfig    `yaml:"filters,omitempty"`
	Output          OutputConfig    `yaml:"output,omitempty"`
	Tags            tag.Mapping     `yaml:"tags,omitempty"`
	Webhooks        []WebhookConfig `yaml:"webhooks,omitempty"`
}

// TimestampConfig defines how timestamps are recognized in log lines. The
// pattern decides whether a line starts a new entry; the layout parses what
// the pattern matched.
type TimestampConfig struct {
	// Pattern is a regex matching the timestamp portion of a log line.
	Pattern string `yaml:"pattern"`

	// Layout is the Go time layout string for parsing the matched timestamp.
	// See https://pkg.go.dev/time#pkg-constants for format.
	Layout string `yaml:"layout"`

	// compiledPattern is the pre-compiled regex (populated during validation).
	compiledPattern *regexp.Regexp
}

// CompiledPattern returns the pre-compiled regex pattern.
func (t *TimestampConfig) CompiledPattern() *regexp.Regexp {
	return t.compiledPattern
}

// FilterConfig narrows which reconstructed entries are reported.
type FilterConfig struct {
	// Levels keeps only entries whose level is in the list. Empty keeps all.
	Levels []string `yaml:"levels,omitempty"`

	// WithTraceback keeps only entries that have continuation lines attached.
	WithTraceback bool `yaml:"with_traceback,omitempty"`

	// Contains keeps only entries whose content contains the substring.
	Contains string `yaml:"contains,omitempty"`
}

// OutputConfig selects how reconstructed entries are rendered.
type OutputConfig struct {
	// Format is text, json, or template.
	Format string `yaml:"format,omitempty"`

	// Template is the tag template used when Format is "template".
	// Entry fields are available as [[timestamp]], [[level]], [[source_file]],
	// [[source_line]], [[content]], and [[traceback]]; the tags mapping from
	// the config is layered underneath.
	Template string `yaml:"template,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnTracebacks fires only when at least one reconstructed
	// entry carries a traceback (default).
	WebhookTriggerOnTracebacks WebhookTrigger = "on_tracebacks"
	// WebhookTriggerAlways fires after every scrape.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending scrape reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_tracebacks" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
