package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logscrape/logscrape/pkg/config"
	"github.com/logscrape/logscrape/pkg/scraper"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logscrape configuration file without scraping.

Checks:
  - YAML syntax
  - Timestamp pattern and layout
  - Output format and template requirements
  - Webhook definitions
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Log sources: %d pattern(s)\n", len(cfg.LogSources))
	fmt.Printf("  Output:      %s\n", cfg.Output.Format)
	if len(cfg.Tags) > 0 {
		fmt.Printf("  Tags:        %d\n", len(cfg.Tags))
	}
	if len(cfg.Webhooks) > 0 {
		fmt.Printf("  Webhooks:    %d\n", len(cfg.Webhooks))
	}

	// Check if log sources exist (warnings only)
	if len(cfg.LogSources) > 0 {
		files, err := scraper.ExpandGlobs(cfg.LogSources)
		if err == nil {
			var missing []string
			for _, f := range files {
				if _, statErr := os.Stat(f); statErr != nil {
					missing = append(missing, f)
				}
			}
			if len(missing) > 0 {
				fmt.Printf("\nWarning: %d log source(s) not found:\n", len(missing))
				for _, f := range missing {
					fmt.Printf("  - %s\n", f)
				}
			}
		}
	}

	return nil
}
