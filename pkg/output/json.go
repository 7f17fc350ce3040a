package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter renders the scrape report as indented JSON for downstream
// tooling. Unlike the text formatter, entries always carry their full
// tracebacks, so Verbose has no effect here.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the report as JSON. Quiet emits only the summary object
// (entry, traceback, and per-level counts), dropping the reconstructed
// entries and the run metadata.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if f.opts.Quiet {
		return enc.Encode(report.Summary)
	}

	return enc.Encode(report)
}
