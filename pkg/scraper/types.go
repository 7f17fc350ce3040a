// Package scraper reconstructs structured log entries from raw log file text.
package scraper

import "time"

// Entry is one reconstructed log record.
type Entry struct {
	// Timestamp is the parsed timestamp of the originating line.
	Timestamp time.Time `json:"timestamp"`

	// Level is the severity token (e.g. INFO, ERROR). Empty if the line
	// carried no recognizable level.
	Level string `json:"level,omitempty"`

	// SourceFile is the filename from the [file:line] marker, if present.
	SourceFile string `json:"source_file,omitempty"`

	// SourceLine is the line number from the [file:line] marker.
	// 0 means unspecified, not line zero.
	SourceLine int `json:"source_line"`

	// Content is the message text left after all recognized prefixes
	// are stripped and trimmed.
	Content string `json:"content"`

	// Traceback holds continuation lines attached to this entry, verbatim
	// and in original order.
	Traceback []string `json:"traceback,omitempty"`
}

// HasTraceback reports whether any continuation lines were attached.
func (e *Entry) HasTraceback() bool {
	return len(e.Traceback) > 0
}

// Line is a raw log line with its origin, before reconstruction.
type Line struct {
	// Text is the raw line content, without the trailing newline.
	Text string

	// Path is the file this line came from. Empty for in-memory sources.
	Path string

	// Num is the 1-based line number in the source file.
	Num int
}
