package output

import (
	"context"
	"io"
)

// Formatter renders a scrape report to a writer.
type Formatter interface {
	// Name returns the format name.
	Name() string

	// Format renders the report.
	Format(ctx context.Context, report *Report, w io.Writer) error
}
