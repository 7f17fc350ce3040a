package scraper

import (
	"context"
	"io"
	"regexp"
	"strings"
)

// Scraper reconstructs structured entries from raw log lines.
//
// A line containing a timestamp-shaped substring starts a new entry; the
// timestamp, level, and [file:line] marker are stripped in that order and
// whatever remains is the content. A line without a timestamp is a
// continuation line and is attached verbatim to the traceback of the entry
// most recently started. There is no secondary heuristic: a continuation
// line that happens to contain a timestamp will start a new entry.
//
// A Scraper holds only compiled patterns and may be reused across
// invocations, including concurrently. Each invocation owns its output.
type Scraper struct {
	timestamp timestampRule
	level     levelRule
	fileLine  fileLineRule
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithTimestampFormat overrides the timestamp pattern and parse layout.
// The pattern match itself (not the layout) decides whether a line starts
// a new entry.
func WithTimestampFormat(pattern *regexp.Regexp, layout string) Option {
	return func(s *Scraper) {
		s.timestamp = newTimestampRule(pattern, layout)
	}
}

// New creates a Scraper for the default log format.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		timestamp: defaultTimestampRule(),
		level:     defaultLevelRule(),
		fileLine:  defaultFileLineRule(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape folds a line source into an ordered slice of entries.
//
// The scraper keeps a single open entry distinct from the finalized output:
// continuation lines append to the open entry, and the open entry joins the
// output once the next new-record line begins or the input ends. A
// continuation line before any entry returns a MalformedSequenceError.
func (s *Scraper) Scrape(ctx context.Context, src LineSource) ([]Entry, error) {
	var entries []Entry
	var open *Entry

	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		entry, cont, err := s.scanLine(line.Text)
		if err != nil {
			return nil, err
		}

		if cont {
			if open == nil {
				return nil, &MalformedSequenceError{Path: line.Path, Num: line.Num, Line: line.Text}
			}
			open.Traceback = append(open.Traceback, line.Text)
			continue
		}

		if open != nil {
			entries = append(entries, *open)
		}
		open = entry
	}

	if open != nil {
		entries = append(entries, *open)
	}

	return entries, nil
}

// ScrapeLines reconstructs entries from an in-memory slice of raw lines.
func (s *Scraper) ScrapeLines(lines []string) ([]Entry, error) {
	src := NewSliceSource(lines)
	defer src.Close()
	return s.Scrape(context.Background(), src)
}

// ScrapeFile reconstructs entries from a log file.
func (s *Scraper) ScrapeFile(ctx context.Context, path string) ([]Entry, error) {
	src := NewFileSource(path)
	defer src.Close()
	return s.Scrape(ctx, src)
}

// scanLine classifies one raw line. cont is true for continuation lines,
// which produce no entry. For new-record lines the recognized fields are
// stripped in fixed order and the residue becomes the content.
func (s *Scraper) scanLine(text string) (entry *Entry, cont bool, err error) {
	ts, rest, found, err := s.timestamp.extract(text)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, true, nil
	}

	entry = &Entry{Timestamp: ts}

	if level, r, ok := s.level.extract(rest); ok {
		entry.Level = level
		rest = r
	}

	if file, num, r, ok := s.fileLine.extract(rest); ok {
		entry.SourceFile = file
		entry.SourceLine = num
		rest = r
	}

	entry.Content = strings.TrimSpace(rest)
	return entry, false, nil
}
