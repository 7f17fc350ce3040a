package output

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/logscrape/logscrape/pkg/scraper"
	"github.com/logscrape/logscrape/pkg/tag"
)

// TemplateFormatter renders each entry through a tag template. Markers in
// the template name entry fields ([[timestamp]], [[level]], [[source_file]],
// [[source_line]], [[content]], [[traceback]]) or tags from the user's
// mapping; entry fields shadow user tags of the same name.
type TemplateFormatter struct {
	opts FormatOptions
	tags tag.Mapping
}

// NewTemplateFormatter creates a template formatter. The tags mapping is
// layered under the per-entry field mapping and may be nil.
func NewTemplateFormatter(opts FormatOptions, tags tag.Mapping) *TemplateFormatter {
	return &TemplateFormatter{opts: opts, tags: tags}
}

// Name returns the format name.
func (f *TemplateFormatter) Name() string {
	return "template"
}

// Format renders each entry on its own line using the template.
func (f *TemplateFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	for i := range report.Entries {
		line, err := f.renderEntry(&report.Entries[i])
		if err != nil {
			return fmt.Errorf("rendering entry %d: %w", i, err)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func (f *TemplateFormatter) renderEntry(e *scraper.Entry) (string, error) {
	data := make(tag.Mapping, len(f.tags)+6)
	for k, v := range f.tags {
		data[k] = v
	}

	data["timestamp"] = e.Timestamp.Format(entryTimeFormat)
	data["level"] = e.Level
	data["source_file"] = e.SourceFile
	data["source_line"] = strconv.Itoa(e.SourceLine)
	data["content"] = e.Content
	data["traceback"] = strings.Join(e.Traceback, "\n")

	return tag.Substitute(f.opts.Template, data)
}
