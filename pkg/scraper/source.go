package scraper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// LineSource provides an iterator over raw log lines in original emission
// order. Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next raw line. Returns io.EOF when the source is
	// exhausted.
	Next(ctx context.Context) (*Line, error)

	// Close releases any resources held by the source.
	Close() error
}

// FileSource reads raw lines from a single log file.
type FileSource struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	lineNum int
	opened  bool
}

// NewFileSource creates a LineSource over the given file. The file is opened
// lazily on the first Next call; an open failure surfaces as a
// SourceUnavailableError.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Next returns the next raw line from the file.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !s.opened {
		if err := s.open(); err != nil {
			return nil, err
		}
	}

	if s.scanner == nil {
		return nil, io.EOF
	}

	if s.scanner.Scan() {
		s.lineNum++
		return &Line{
			Text: s.scanner.Text(),
			Path: s.path,
			Num:  s.lineNum,
		}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, &SourceUnavailableError{Path: s.path, Err: fmt.Errorf("reading: %w", err)}
	}

	return nil, io.EOF
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.scanner = nil
		return err
	}
	return nil
}

func (s *FileSource) open() error {
	s.opened = true

	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return &SourceUnavailableError{Path: s.path, Err: err}
	}

	s.file = f
	s.scanner = bufio.NewScanner(f)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	return nil
}

// SliceSource serves raw lines from an in-memory slice.
type SliceSource struct {
	lines []string
	pos   int
}

// NewSliceSource creates a LineSource over in-memory lines.
func NewSliceSource(lines []string) *SliceSource {
	return &SliceSource{lines: lines}
}

// Next returns the next line from the slice.
func (s *SliceSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.pos >= len(s.lines) {
		return nil, io.EOF
	}

	s.pos++
	return &Line{Text: s.lines[s.pos-1], Num: s.pos}, nil
}

// Close is a no-op for in-memory sources.
func (s *SliceSource) Close() error {
	return nil
}
