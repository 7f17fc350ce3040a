// Package detector identifies the timestamp format of a log file so the
// scraper can be pointed at logs written by other tools.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"time"
)

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	// Matches are formats that matched at least one line, sorted by
	// confidence descending.
	Matches []FormatMatch

	// SampledLines is the number of lines sampled.
	SampledLines int

	// NewRecordLines is the number of sampled lines matching the best
	// format, i.e. lines that would start a new entry.
	NewRecordLines int

	// ContinuationLines is the number of sampled lines without a timestamp
	// under the best format. These would be folded into tracebacks.
	ContinuationLines int
}

// BestMatch returns the highest-confidence format, or nil if nothing matched.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64   // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from the sample line
}

// Detector analyzes log files to identify their timestamp format.
type Detector struct {
	formats    []*TimestampFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a Detector with the built-in formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log file and returns the detected formats.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	for _, format := range d.formats {
		match := d.testFormat(format, lines)
		if match != nil {
			result.Matches = append(result.Matches, *match)
		}
	}

	// Highest confidence first; ties keep the more specific (earlier) format.
	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	if best := result.BestMatch(); best != nil {
		result.NewRecordLines = best.MatchCount
		result.ContinuationLines = len(lines) - best.MatchCount
	} else {
		result.ContinuationLines = len(lines)
	}

	return result
}

// testFormat counts how many lines both match the pattern and parse with
// the layout. A match that doesn't parse is not a match.
func (d *Detector) testFormat(format *TimestampFormat, lines []string) *FormatMatch {
	match := &FormatMatch{Format: format}

	for _, line := range lines {
		loc := format.Pattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		// Use the capture group when the pattern has one (bracketed
		// formats), otherwise the whole match.
		start, end := loc[0], loc[1]
		if len(loc) > 2 && loc[2] >= 0 {
			start, end = loc[2], loc[3]
		}

		ts, err := time.Parse(format.Layout, line[start:end])
		if err != nil {
			continue
		}

		match.MatchCount++
		if match.SampleLine == "" {
			match.SampleLine = line
			match.ParsedTime = ts
		}
	}

	if match.MatchCount == 0 {
		return nil
	}

	match.Confidence = float64(match.MatchCount) / float64(len(lines))
	return match
}

// sampleFile reads up to sampleSize non-empty lines from the file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for len(lines) < d.sampleSize && scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := scanner.Text()
		if line != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}

	return lines, nil
}
