// Package cli provides the command-line interface for texdiag.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/internal/cli/commands"
	"github.com/ccollicutt/texdiag/internal/logging"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error("command failed", "error", err)
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// GlobalOptions holds the persistent flags of the root command.
type GlobalOptions struct {
	ConfigFile string
	Debug      bool
	LogJSON    bool
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	opts := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "texdiag",
		Short: "Turn TeX build and ChkTeX logs into file:line diagnostics",
		Long: `texdiag reads the logs a LaTeX build leaves behind and reports what went wrong,
attributed to the source file and line responsible.

It understands:
  - TeX engine logs (errors, LaTeX and package warnings, bad boxes)
  - latexmk and texify transcripts, trimmed to the last engine run
  - Biber "no database entry" warnings
  - ChkTeX output in the -f "%f:%l:%c:%d:%k:%n:%m\n" format

Configuration is read from --config, or texdiag.yaml / texdiag.toml in the
working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(cmd.ErrOrStderr(), logging.Options{
				Debug: opts.Debug,
				JSON:  opts.LogJSON,
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (YAML or TOML)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Log debug messages to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.LogJSON, "log-json", false, "Log in JSON instead of text")

	// Add subcommands
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewLintCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
