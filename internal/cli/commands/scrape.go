package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logscrape/logscrape/internal/logging"
	"github.com/logscrape/logscrape/pkg/config"
	"github.com/logscrape/logscrape/pkg/output"
	"github.com/logscrape/logscrape/pkg/scraper"
	"github.com/logscrape/logscrape/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ScrapeOptions holds command-line options for the scrape command.
type ScrapeOptions struct {
	Config        string
	Output        string
	Template      string
	Levels        []string
	WithTraceback bool
	Contains      string
	Verbose       bool
	Quiet         bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewScrapeCommand creates the scrape command.
func NewScrapeCommand() *cobra.Command {
	opts := &ScrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape [flags] <log-file|glob>...",
		Short: "Reconstruct structured entries from log files",
		Long: `Read raw log files and reconstruct them into structured entries.

Each line starting with a timestamp becomes a new entry with its level,
source file, line number, and message extracted. Lines without a timestamp
are folded into the traceback of the preceding entry. Multiple files are
merged into a single timeline by entry timestamp.

Log files may be given as paths or glob patterns (** recurses). With no
file arguments, log_sources from the config file are used.

Exit codes:
  0 - Scrape completed
  2 - Configuration or runtime error`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|template)")
	cmd.Flags().StringVar(&opts.Template, "template", "", "Tag template for -o template")
	cmd.Flags().StringSliceVar(&opts.Levels, "level", nil, "Keep only entries with these levels (can be repeated)")
	cmd.Flags().BoolVar(&opts.WithTraceback, "with-traceback", false, "Keep only entries that have a traceback")
	cmd.Flags().StringVar(&opts.Contains, "contains", "", "Keep only entries whose content contains the substring")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show tracebacks in full and scrape diagnostics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no entries")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_tracebacks", "When to fire webhook (on_tracebacks|always|never)")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string, opts *ScrapeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := logging.New(opts.Verbose)
	defer log.Sync() //nolint:errcheck // stderr sync failure is unactionable

	cfg, err := loadScrapeConfig(ctx, opts)
	if err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.LogSources
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no log files: pass paths as arguments or set log_sources in the config")
	}

	files, err := scraper.ExpandGlobs(patterns)
	if err != nil {
		return fmt.Errorf("expanding log sources: %w", err)
	}
	log.Debug("expanded log sources", zap.Strings("files", files))

	s := scraper.New(scraper.WithTimestampFormat(
		cfg.TimestampFormat.CompiledPattern(),
		cfg.TimestampFormat.Layout,
	))

	start := time.Now()

	perFile := make([][]scraper.Entry, 0, len(files))
	for _, file := range files {
		entries, err := s.ScrapeFile(ctx, file)
		if err != nil {
			return fmt.Errorf("scraping %s: %w", file, err)
		}
		log.Debug("scraped file", zap.String("path", file), zap.Int("entries", len(entries)))
		perFile = append(perFile, entries)
	}

	entries := scraper.MergeEntries(perFile...)
	entries = filterEntries(entries, cfg.Filters)

	report := output.NewReport(entries, files, time.Since(start))

	formatter, err := createFormatter(opts, cfg)
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the scrape)
	sendWebhooks(ctx, cfg, opts, report)

	return nil
}

// loadScrapeConfig loads the config file if given, otherwise defaults, and
// layers command-line flags over it.
func loadScrapeConfig(ctx context.Context, opts *ScrapeOptions) (*config.Config, error) {
	var cfg *config.Config

	if opts.Config != "" {
		loaded, err := config.Load(ctx, opts.Config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("validating default config: %w", err)
		}
	}

	if len(opts.Levels) > 0 {
		cfg.Filters.Levels = opts.Levels
	}
	if opts.WithTraceback {
		cfg.Filters.WithTraceback = true
	}
	if opts.Contains != "" {
		cfg.Filters.Contains = opts.Contains
	}
	if opts.Output != "" {
		cfg.Output.Format = opts.Output
	}
	if opts.Template != "" {
		cfg.Output.Template = opts.Template
		if opts.Output == "" {
			cfg.Output.Format = "template"
		}
	}

	// Re-validate after flag overrides so flag errors read like config errors
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// filterEntries applies the configured entry filters, preserving order.
func filterEntries(entries []scraper.Entry, filters config.FilterConfig) []scraper.Entry {
	if len(filters.Levels) == 0 && !filters.WithTraceback && filters.Contains == "" {
		return entries
	}

	kept := make([]scraper.Entry, 0, len(entries))
	for _, e := range entries {
		if len(filters.Levels) > 0 && !slices.Contains(filters.Levels, strings.ToUpper(e.Level)) {
			continue
		}
		if filters.WithTraceback && !e.HasTraceback() {
			continue
		}
		if filters.Contains != "" && !strings.Contains(e.Content, filters.Contains) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func createFormatter(opts *ScrapeOptions, cfg *config.Config) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose:  opts.Verbose,
		Quiet:    opts.Quiet,
		Template: cfg.Output.Template,
	}

	switch cfg.Output.Format {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	case "template":
		return output.NewTemplateFormatter(formatOpts, cfg.Tags), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json, or template)", cfg.Output.Format)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the scrape.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *ScrapeOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasTracebacks()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ScrapeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnTracebacks
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire for this report.
func shouldFireWebhook(trigger config.WebhookTrigger, hasTracebacks bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasTracebacks
	}
}
