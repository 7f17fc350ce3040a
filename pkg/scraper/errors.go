package scraper

import "fmt"

// SourceUnavailableError indicates the line source could not be opened or read.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("log source %s unavailable: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// MalformedSequenceError indicates a continuation line was seen before any
// entry had been started, so there is nothing to attach it to.
type MalformedSequenceError struct {
	Path string
	Num  int
	Line string
}

func (e *MalformedSequenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: continuation line before any log entry: %q", e.Path, e.Num, e.Line)
	}
	return fmt.Sprintf("line %d: continuation line before any log entry: %q", e.Num, e.Line)
}

// TimestampParseError indicates a substring matched the timestamp pattern
// but did not parse as a valid date-time.
type TimestampParseError struct {
	Input string
	Err   error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %v", e.Input, e.Err)
}

func (e *TimestampParseError) Unwrap() error {
	return e.Err
}
