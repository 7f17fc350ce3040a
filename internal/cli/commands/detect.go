package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/logscrape/logscrape/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect the timestamp format of a log file",
		Long: `Analyze a log file to detect its timestamp format.

Samples lines from the file and tests them against the known writer
formats. Reports the detected format with a confidence score, how many
sampled lines would start new entries versus fold into tracebacks, and a
ready-to-use YAML configuration snippet.

Example:
  logscrape detect /var/log/myapp/reporting.log
  logscrape detect --sample 500 /var/log/large.log
  logscrape detect -w logscrape.yaml /var/log/app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVar(&opts.SampleSize, "sample", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching formats, not just the best")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write a starter config file")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, logPath)
	if err != nil {
		return fmt.Errorf("detecting format: %w", err)
	}

	switch opts.Output {
	case "json":
		if err := printDetectJSON(result); err != nil {
			return err
		}
	case "text":
		printDetectText(logPath, result, opts.ShowAll)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	if result.BestMatch() == nil {
		ExitCode = 1
		return nil
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(opts.WriteConfig, logPath, result); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Printf("\nWrote starter config to %s\n", opts.WriteConfig)
	}

	return nil
}

func printDetectText(logPath string, result *detector.DetectionResult, showAll bool) {
	fmt.Printf("Analyzed %s (%d lines sampled)\n\n", logPath, result.SampledLines)

	best := result.BestMatch()
	if best == nil {
		fmt.Println("No known timestamp format matched.")
		fmt.Println("Every sampled line would be treated as a continuation line,")
		fmt.Println("which fails unless a preceding file provides entries.")
		return
	}

	matches := result.Matches
	if !showAll {
		matches = matches[:1]
	}

	for i, m := range matches {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Printf("%s %s (%.0f%% of lines, %d matched)\n", marker, m.Format.Name, m.Confidence*100, m.MatchCount)
		fmt.Printf("    Example: %s\n", m.SampleLine)
	}

	fmt.Printf("\nLine classification under %q:\n", best.Format.Name)
	fmt.Printf("  New-record lines:    %d\n", result.NewRecordLines)
	fmt.Printf("  Continuation lines:  %d\n", result.ContinuationLines)

	fmt.Println("\nConfig snippet:")
	fmt.Println("  timestamp_format:")
	fmt.Printf("    pattern: '%s'\n", best.Format.PatternStr)
	fmt.Printf("    layout: %q\n", best.Format.Layout)
}

func printDetectJSON(result *detector.DetectionResult) error {
	type jsonMatch struct {
		Name       string  `json:"name"`
		Pattern    string  `json:"pattern"`
		Layout     string  `json:"layout"`
		Confidence float64 `json:"confidence"`
		MatchCount int     `json:"match_count"`
		SampleLine string  `json:"sample_line"`
	}
	type jsonResult struct {
		SampledLines      int         `json:"sampled_lines"`
		NewRecordLines    int         `json:"new_record_lines"`
		ContinuationLines int         `json:"continuation_lines"`
		Matches           []jsonMatch `json:"matches"`
	}

	out := jsonResult{
		SampledLines:      result.SampledLines,
		NewRecordLines:    result.NewRecordLines,
		ContinuationLines: result.ContinuationLines,
	}
	for _, m := range result.Matches {
		out.Matches = append(out.Matches, jsonMatch{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Layout:     m.Format.Layout,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func writeStarterConfig(path, logPath string, result *detector.DetectionResult) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, will not overwrite", path)
	}

	best := result.BestMatch()

	cfg := map[string]any{
		"log_sources": []string{logPath},
		"timestamp_format": map[string]string{
			"pattern": best.Format.PatternStr,
			"layout":  best.Format.Layout,
		},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
