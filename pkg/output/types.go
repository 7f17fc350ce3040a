// Package output provides formatting of reconstructed log entries.
package output

import (
	"time"

	"github.com/logscrape/logscrape/pkg/scraper"
)

// Report is the complete result of one scrape invocation.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Entries are the reconstructed log records, in timeline order.
	Entries []scraper.Entry `json:"entries"`

	// Metadata provides context about the scrape run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics over the reconstructed entries.
type Summary struct {
	// Entries is the number of reconstructed records.
	Entries int `json:"entries"`

	// WithTraceback is the number of records carrying continuation lines.
	WithTraceback int `json:"with_traceback"`

	// TracebackLines is the total number of continuation lines attached.
	TracebackLines int `json:"traceback_lines"`

	// ByLevel counts records per severity level. Records without a level
	// are counted under the empty key.
	ByLevel map[string]int `json:"by_level,omitempty"`
}

// Metadata provides context about the scrape run.
type Metadata struct {
	// Sources lists the log files that were scraped.
	Sources []string `json:"sources,omitempty"`

	// ScrapedAt is when the scrape was performed.
	ScrapedAt time.Time `json:"scraped_at"`

	// Duration is how long the scrape took.
	Duration time.Duration `json:"duration"`
}

// NewReport builds a report over reconstructed entries.
func NewReport(entries []scraper.Entry, sources []string, duration time.Duration) *Report {
	summary := Summary{
		Entries: len(entries),
		ByLevel: make(map[string]int),
	}

	for i := range entries {
		if n := len(entries[i].Traceback); n > 0 {
			summary.WithTraceback++
			summary.TracebackLines += n
		}
		summary.ByLevel[entries[i].Level]++
	}

	if len(summary.ByLevel) == 0 {
		summary.ByLevel = nil
	}

	return &Report{
		Summary: summary,
		Entries: entries,
		Metadata: Metadata{
			Sources:   sources,
			ScrapedAt: time.Now(),
			Duration:  duration,
		},
	}
}

// HasTracebacks reports whether any entry carries continuation lines.
func (r *Report) HasTracebacks() bool {
	return r.Summary.WithTraceback > 0
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose includes per-entry source details and full tracebacks.
	Verbose bool

	// Quiet limits output to the summary.
	Quiet bool

	// Template is the tag template for the template formatter.
	Template string
}
