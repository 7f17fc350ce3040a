package commands

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/logscrape/logscrape/pkg/detector"
)

func TestNewDetectCommand(t *testing.T) {
	cmd := NewDetectCommand()

	if cmd.Use != "detect <log-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	for _, flag := range []string{"output", "sample", "all", "write-config"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing %s flag", flag)
		}
	}
}

func TestWriteStarterConfig_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	format := &detector.TimestampFormat{
		Name:       "ISO 8601 with milliseconds",
		Pattern:    regexp.MustCompile(`[12]\d{3}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d:[0-5]\d\.\d{3}`),
		PatternStr: `[12]\d{3}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d:[0-5]\d\.\d{3}`,
		Layout:     "2006-01-02T15:04:05.000",
	}
	result := &detector.DetectionResult{
		Matches: []detector.FormatMatch{
			{
				Format:     format,
				Confidence: 1.0,
				MatchCount: 100,
			},
		},
		SampledLines: 100,
	}

	err := writeStarterConfig(configPath, "/var/log/app.log", result)
	if err != nil {
		t.Fatalf("writeStarterConfig failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}

	if !strings.Contains(string(content), "/var/log/app.log") {
		t.Error("Config missing log source path")
	}
	if !strings.Contains(string(content), "2006-01-02T15:04:05.000") {
		t.Error("Config missing layout")
	}
}

func TestWriteStarterConfig_NoOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "existing.yaml")

	if err := os.WriteFile(configPath, []byte("existing content"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	format := &detector.TimestampFormat{
		Name:       "ISO 8601",
		PatternStr: `[12]\d{3}-[01]\d-[0-3]\dT[0-2]\d:[0-5]\d:[0-5]\d`,
		Layout:     "2006-01-02T15:04:05",
	}
	result := &detector.DetectionResult{
		Matches: []detector.FormatMatch{
			{Format: format, Confidence: 1.0},
		},
	}

	err := writeStarterConfig(configPath, "/var/log/app.log", result)
	if err == nil {
		t.Fatal("Expected error when file exists, got nil")
	}
	if !strings.Contains(err.Error(), "will not overwrite") {
		t.Errorf("Expected 'will not overwrite' error, got: %v", err)
	}

	// Existing content untouched
	content, _ := os.ReadFile(configPath)
	if string(content) != "existing content" {
		t.Error("Existing file was modified")
	}
}

func TestRunDetect_TextOutput(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "app.log")

	logContent := "2024-03-01 10:00:00.000 INFO [main.py:1] start\n" +
		"2024-03-01 10:00:01.000 ERROR [db.py:9] query failed\n" +
		"Traceback (most recent call last):\n" +
		"  File \"db.py\", line 9, in query\n"
	if err := os.WriteFile(logPath, []byte(logContent), 0644); err != nil {
		t.Fatalf("Failed to create log: %v", err)
	}

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{logPath})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(out, "timestamp_format:") {
		t.Errorf("Expected config snippet in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Continuation lines:  2") {
		t.Errorf("Expected 2 continuation lines reported, got:\n%s", out)
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "app.log")
	configPath := filepath.Join(tmpDir, "starter.yaml")

	logContent := "2024-03-01 10:00:00.000 INFO [main.py:1] start\n"
	if err := os.WriteFile(logPath, []byte(logContent), 0644); err != nil {
		t.Fatalf("Failed to create log: %v", err)
	}

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"--write-config", configPath, logPath})

	if _, err := captureStdout(t, cmd.Execute); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Starter config was not written: %v", err)
	}
	if !strings.Contains(string(content), "log_sources:") {
		t.Error("Starter config missing log_sources")
	}
}

func TestRunDetect_NoMatch(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "plain.log")

	if err := os.WriteFile(logPath, []byte("no timestamps here\njust text\n"), 0644); err != nil {
		t.Fatalf("Failed to create log: %v", err)
	}

	ExitCode = 0
	defer func() { ExitCode = 0 }()

	cmd := NewDetectCommand()
	cmd.SetArgs([]string{logPath})

	out, err := captureStdout(t, cmd.Execute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(out, "No known timestamp format matched") {
		t.Errorf("Expected no-match message, got:\n%s", out)
	}
	if ExitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", ExitCode)
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	cmd := NewDetectCommand()
	cmd.SetArgs([]string{"/nonexistent/app.log"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for missing file")
	}
}
