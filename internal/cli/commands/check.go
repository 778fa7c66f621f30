package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/texdiag/pkg/analyzer"
	"github.com/ccollicutt/texdiag/pkg/output"
	"github.com/ccollicutt/texdiag/pkg/parser"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	BuildOptions

	BuildLog    string
	LintLogs    []string
	LintFile    string
	ProjectRoot string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check --build <log-file> [--lint <chktex-log>]...",
		Short: "Combine build and ChkTeX findings into one report",
		Long: `Parse a build log and any number of ChkTeX logs concurrently and print a
single report with the findings of both, grouped by file.

Example:
  texdiag check --build main.log --lint main.chktex --root main.tex`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.BuildLog, "build", "", "TeX build log (required)")
	cmd.Flags().StringArrayVar(&opts.LintLogs, "lint", nil, "ChkTeX log or glob (can be repeated)")
	cmd.Flags().StringVar(&opts.LintFile, "lint-file", "", "Attribute every ChkTeX finding to this file")
	cmd.Flags().StringVar(&opts.ProjectRoot, "project-root", "", "Resolve relative ChkTeX file names against this directory")
	cmd.Flags().StringVarP(&opts.Root, "root", "r", "", "Root .tex file of the project (overrides root_file)")
	cmd.Flags().BoolVar(&opts.BadBox, "badbox", true, "Report overfull/underfull boxes (overrides message.badbox)")
	cmd.Flags().StringArrayVar(&opts.Exclude, "exclude", nil, "Ignore build log lines matching this regex (can be repeated)")
	opts.ReportOptions.addFlags(cmd)
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyBuildFlags(cmd, cfg, &opts.BuildOptions); err != nil {
		return err
	}
	if opts.ProjectRoot != "" {
		cfg.ProjectRoot = absPath(opts.ProjectRoot)
	}

	lintFiles, err := parser.ExpandGlobs(opts.LintLogs)
	if err != nil {
		return fmt.Errorf("expanding lint logs: %w", err)
	}

	var (
		build *parser.BuildResult
		lint  []parser.LintEntry
	)

	g, gctx := errgroup.WithContext(commandContext(cmd))
	g.Go(func() error {
		res, err := parseBuildFile(gctx, cfg, opts.Root, opts.BuildLog)
		build = res
		return err
	})
	g.Go(func() error {
		entries, err := parseLintFiles(gctx, cfg, opts.LintFile, lintFiles)
		lint = entries
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	result, err := analyzer.NewAnalyzer(opts.analyzerOptions(cfg)...).Analyze(commandContext(cmd), build, lint)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	sources := append([]string{opts.BuildLog}, lintFiles...)
	report := output.NewReport(result, cfgPath, sources)
	return emit(cmd, cfg, &opts.ReportOptions, report)
}
