package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/internal/logging"
	"github.com/ccollicutt/texdiag/pkg/analyzer"
	"github.com/ccollicutt/texdiag/pkg/config"
	"github.com/ccollicutt/texdiag/pkg/output"
	"github.com/ccollicutt/texdiag/pkg/parser"
)

// LintOptions holds command-line options for the lint command.
type LintOptions struct {
	ReportOptions

	File        string
	ProjectRoot string
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}

	cmd := &cobra.Command{
		Use:   "lint <chktex-log>...",
		Short: "Report ChkTeX findings",
		Long: `Read ChkTeX output produced with the format

  -f "%f:%l:%c:%d:%k:%n:%m\n"

and report each finding with its file, position and warning number.
Findings for files whose extension is not in linter.extensions are dropped.

Globs are expanded, so 'texdiag lint "build/*.chktex"' reads every match.

Example:
  chktex -q -f '%f:%l:%c:%d:%k:%n:%m\n' main.tex > main.chktex
  texdiag lint main.chktex`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Attribute every finding to this file (for chktex run on a single file)")
	cmd.Flags().StringVar(&opts.ProjectRoot, "project-root", "", "Resolve relative file names against this directory (overrides project_root)")
	opts.ReportOptions.addFlags(cmd)

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if opts.ProjectRoot != "" {
		cfg.ProjectRoot = absPath(opts.ProjectRoot)
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding log files: %w", err)
	}

	ctx := commandContext(cmd)
	entries, err := parseLintFiles(ctx, cfg, opts.File, files)
	if err != nil {
		return err
	}

	result, err := analyzer.NewAnalyzer(opts.analyzerOptions(cfg)...).Analyze(ctx, nil, entries)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(result, cfgPath, files)
	return emit(cmd, cfg, &opts.ReportOptions, report)
}

// parseLintFiles reads every ChkTeX log in order and concatenates the entries.
func parseLintFiles(ctx context.Context, cfg *config.Config, singleFile string, files []string) ([]parser.LintEntry, error) {
	lintOpts := cfg.LintOptions(absPath(singleFile), logging.Logger())

	entries := []parser.LintEntry{}
	for _, f := range files {
		text, err := parser.ReadLog(ctx, f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, parser.ParseLinterLog(text, lintOpts)...)
	}
	return entries, nil
}
