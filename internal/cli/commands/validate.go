package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a texdiag configuration file (YAML or TOML) without reading any log.

Checks:
  - YAML/TOML syntax
  - Exclude pattern validity
  - Linter extensions
  - Webhook URLs and triggers
  - Root file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Root file:        %s\n", orUnset(cfg.RootFile))
	fmt.Fprintf(w, "  Project root:     %s\n", orUnset(cfg.ProjectRoot))
	fmt.Fprintf(w, "  Bad boxes:        %v\n", cfg.Message.ShowBadBoxes)
	fmt.Fprintf(w, "  Exclude patterns: %d\n", len(cfg.Message.Exclude))
	fmt.Fprintf(w, "  Lint extensions:  %v\n", cfg.Linter.Extensions)
	fmt.Fprintf(w, "  Webhooks:         %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(w, "    %d. %s [%s]\n", i+1, name, wh.Trigger)
	}

	if cfg.RootFile != "" {
		if _, err := os.Stat(cfg.RootFile); err != nil {
			fmt.Fprintf(w, "\nWarning: root file %s is not accessible: %v\n", cfg.RootFile, err)
		}
	}

	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
