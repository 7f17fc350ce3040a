package output

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/logscrape/logscrape/pkg/scraper"
)

// entryTimeFormat renders entry timestamps in text output.
const entryTimeFormat = "2006-01-02 15:04:05.000"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "logscrape: %d entries, %d with tracebacks, %d traceback lines\n",
		report.Summary.Entries,
		report.Summary.WithTraceback,
		report.Summary.TracebackLines)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	for i := range report.Entries {
		f.formatEntry(&report.Entries[i], w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d entries, %d with tracebacks, %d traceback lines\n",
		report.Summary.Entries,
		report.Summary.WithTraceback,
		report.Summary.TracebackLines)

	if f.opts.Verbose {
		f.formatLevelCounts(report, w)
		fmt.Fprintf(w, "Sources: %d\n", len(report.Metadata.Sources))
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatEntry(e *scraper.Entry, w io.Writer) {
	fmt.Fprintf(w, "%s", e.Timestamp.Format(entryTimeFormat))
	if e.Level != "" {
		fmt.Fprintf(w, " %s", e.Level)
	}
	if e.SourceFile != "" {
		fmt.Fprintf(w, " [%s:%d]", e.SourceFile, e.SourceLine)
	}
	fmt.Fprintf(w, " %s\n", e.Content)

	if !e.HasTraceback() {
		return
	}

	if f.opts.Verbose {
		for _, line := range e.Traceback {
			fmt.Fprintf(w, "    | %s\n", line)
		}
	} else {
		fmt.Fprintf(w, "    (+%d traceback line(s))\n", len(e.Traceback))
	}
}

func (f *TextFormatter) formatLevelCounts(report *Report, w io.Writer) {
	if len(report.Summary.ByLevel) == 0 {
		return
	}

	levels := make([]string, 0, len(report.Summary.ByLevel))
	for level := range report.Summary.ByLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	fmt.Fprintln(w, "By level:")
	for _, level := range levels {
		name := level
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(w, "  %s: %d\n", name, report.Summary.ByLevel[level])
	}
}
