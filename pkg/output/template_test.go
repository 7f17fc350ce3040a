package output

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/logscrape/logscrape/pkg/tag"
)

func TestTemplateFormatter_EntryFields(t *testing.T) {
	report := NewReport(sampleEntries(), nil, 0)
	f := NewTemplateFormatter(FormatOptions{
		Template: "[[level]] [[source_file]]:[[source_line]] -- [[content]]",
	}, nil)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "INFO app.py:42 -- Started service" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "ERROR app.py:99 -- Request failed" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestTemplateFormatter_UserTags(t *testing.T) {
	report := NewReport(sampleEntries()[:1], nil, 0)
	f := NewTemplateFormatter(FormatOptions{
		Template: "[[app]] [[content]]",
	}, tag.Mapping{"app": "reporting"})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if got := strings.TrimRight(buf.String(), "\n"); got != "reporting Started service" {
		t.Errorf("output = %q", got)
	}
}

func TestTemplateFormatter_EntryFieldsShadowUserTags(t *testing.T) {
	report := NewReport(sampleEntries()[:1], nil, 0)
	f := NewTemplateFormatter(FormatOptions{
		Template: "[[level]]",
	}, tag.Mapping{"level": "overridden"})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if got := strings.TrimRight(buf.String(), "\n"); got != "INFO" {
		t.Errorf("output = %q, want entry field to win", got)
	}
}

func TestTemplateFormatter_UnknownTag(t *testing.T) {
	report := NewReport(sampleEntries()[:1], nil, 0)
	f := NewTemplateFormatter(FormatOptions{
		Template: "[[missing]]",
	}, nil)

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err == nil {
		t.Fatal("expected error for unknown tag")
	}

	var nfe *tag.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("error type = %T, want *tag.NotFoundError", err)
	}
}

func TestTemplateFormatter_TracebackField(t *testing.T) {
	report := NewReport(sampleEntries(), nil, 0)
	f := NewTemplateFormatter(FormatOptions{
		Template: "[[timestamp]]|[[traceback]]",
	}, nil)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2024-01-15 10:30:05.456|Traceback (most recent call last):\nValueError: boom") {
		t.Errorf("traceback not joined into template output:\n%s", out)
	}
}
