package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logscrape/logscrape/pkg/config"
	"github.com/logscrape/logscrape/pkg/scraper"
)

// captureStdout runs fn while collecting everything written to os.Stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data), runErr
}

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScrape_Text(t *testing.T) {
	logPath := writeLog(t, "app.log", `2024-01-15 10:30:00.123 INFO [app.py:42] Started service
2024-01-15 10:30:05.456 ERROR [app.py:99] Request failed
Traceback (most recent call last):
ValueError: boom
`)

	cmd := NewScrapeCommand()
	cmd.SetArgs([]string{logPath})

	out, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	for _, want := range []string{
		"Started service",
		"Request failed",
		"(+2 traceback line(s))",
		"Summary: 2 entries, 1 with tracebacks, 2 traceback lines",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunScrape_TemplateOutput(t *testing.T) {
	logPath := writeLog(t, "app.log", "2024-01-15 10:30:00.123 INFO [app.py:42] Started service\n")

	cmd := NewScrapeCommand()
	cmd.SetArgs([]string{"--template", "[[level]]|[[content]]", logPath})

	out, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	if strings.TrimSpace(out) != "INFO|Started service" {
		t.Errorf("output = %q", out)
	}
}

func TestRunScrape_LevelFilter(t *testing.T) {
	logPath := writeLog(t, "app.log", `2024-01-15 10:30:00.123 INFO keep out
2024-01-15 10:30:01.000 ERROR keep in
`)

	cmd := NewScrapeCommand()
	cmd.SetArgs([]string{"--level", "error", logPath})

	out, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	if strings.Contains(out, "keep out") {
		t.Errorf("INFO entry not filtered:\n%s", out)
	}
	if !strings.Contains(out, "keep in") {
		t.Errorf("ERROR entry missing:\n%s", out)
	}
}

func TestRunScrape_MalformedLog(t *testing.T) {
	logPath := writeLog(t, "bad.log", "no timestamp on the first line\n")

	cmd := NewScrapeCommand()
	cmd.SetArgs([]string{logPath})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	_, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err == nil {
		t.Fatal("expected error for continuation-first log")
	}
	if !strings.Contains(err.Error(), "continuation line before any log entry") {
		t.Errorf("error = %v, want malformed-sequence message", err)
	}
}

func TestRunScrape_NoSources(t *testing.T) {
	cmd := NewScrapeCommand()
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	_, err := captureStdout(t, func() error {
		return cmd.ExecuteContext(context.Background())
	})
	if err == nil {
		t.Fatal("expected error when no files are given")
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []scraper.Entry{
		{Level: "INFO", Content: "plain"},
		{Level: "ERROR", Content: "request timeout", Traceback: []string{"tb"}},
		{Level: "ERROR", Content: "other failure"},
	}

	tests := []struct {
		name    string
		filters config.FilterConfig
		want    []string
	}{
		{
			name: "no filters keeps all",
			want: []string{"plain", "request timeout", "other failure"},
		},
		{
			name:    "level filter",
			filters: config.FilterConfig{Levels: []string{"ERROR"}},
			want:    []string{"request timeout", "other failure"},
		},
		{
			name:    "traceback filter",
			filters: config.FilterConfig{WithTraceback: true},
			want:    []string{"request timeout"},
		},
		{
			name:    "contains filter",
			filters: config.FilterConfig{Contains: "timeout"},
			want:    []string{"request timeout"},
		},
		{
			name:    "combined filters",
			filters: config.FilterConfig{Levels: []string{"ERROR"}, Contains: "failure"},
			want:    []string{"other failure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterEntries(entries, tt.filters)
			if len(got) != len(tt.want) {
				t.Fatalf("kept %d entries, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].Content != want {
					t.Errorf("kept[%d].Content = %q, want %q", i, got[i].Content, want)
				}
			}
		})
	}
}

func TestShouldFireWebhook(t *testing.T) {
	tests := []struct {
		trigger       config.WebhookTrigger
		hasTracebacks bool
		want          bool
	}{
		{config.WebhookTriggerAlways, false, true},
		{config.WebhookTriggerNever, true, false},
		{config.WebhookTriggerOnTracebacks, true, true},
		{config.WebhookTriggerOnTracebacks, false, false},
		{"", true, true}, // unknown trigger defaults to on_tracebacks
	}

	for _, tt := range tests {
		if got := shouldFireWebhook(tt.trigger, tt.hasTracebacks); got != tt.want {
			t.Errorf("shouldFireWebhook(%q, %v) = %v, want %v", tt.trigger, tt.hasTracebacks, got, tt.want)
		}
	}
}

func TestCollectWebhooks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Webhooks = []config.WebhookConfig{
		{Name: "from-config", URL: "https://example.com/a"},
	}

	opts := &ScrapeOptions{
		WebhookURL:     "https://example.com/b",
		WebhookTrigger: "always",
	}

	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) != 2 {
		t.Fatalf("got %d webhooks, want 2", len(webhooks))
	}
	if webhooks[1].Name != "cli" || webhooks[1].Trigger != config.WebhookTriggerAlways {
		t.Errorf("cli webhook = %+v", webhooks[1])
	}
	if webhooks[1].Timeout != config.DefaultWebhookTimeout {
		t.Errorf("cli webhook timeout = %v, want default", webhooks[1].Timeout)
	}
}

func TestLoadScrapeConfig_FlagOverrides(t *testing.T) {
	opts := &ScrapeOptions{
		Template: "[[content]]",
		Levels:   []string{"error"},
	}

	cfg, err := loadScrapeConfig(context.Background(), opts)
	if err != nil {
		t.Fatalf("loadScrapeConfig() error = %v", err)
	}

	if cfg.Output.Format != "template" {
		t.Errorf("Format = %q, want template inferred from --template", cfg.Output.Format)
	}
	if cfg.Filters.Levels[0] != "ERROR" {
		t.Errorf("Levels = %v, want normalized uppercase", cfg.Filters.Levels)
	}
}
