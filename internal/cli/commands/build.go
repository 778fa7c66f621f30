package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/internal/logging"
	"github.com/ccollicutt/texdiag/pkg/analyzer"
	"github.com/ccollicutt/texdiag/pkg/config"
	"github.com/ccollicutt/texdiag/pkg/output"
	"github.com/ccollicutt/texdiag/pkg/parser"
)

// BuildOptions holds command-line options for the build command.
type BuildOptions struct {
	ReportOptions

	Root    string
	BadBox  bool
	Exclude []string
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build <log-file>",
		Short: "Report errors and warnings from a TeX build log",
		Long: `Interpret the log of a TeX run and report its errors, warnings and
bad boxes with the source file and line they belong to.

Logs written by latexmk and texify are trimmed to the last engine run first.
Relative file names in the log resolve against the directory of the root file.

Exit codes:
  0 - Nothing at or above --fail-on was found
  1 - Findings at or above --fail-on
  2 - Configuration or runtime error

Example:
  texdiag build --root thesis.tex thesis.log
  texdiag build --exclude '^LaTeX Font Warning' -o json main.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Root, "root", "r", "", "Root .tex file of the project (overrides root_file)")
	cmd.Flags().BoolVar(&opts.BadBox, "badbox", config.DefaultShowBadBoxes, "Report overfull/underfull boxes (overrides message.badbox)")
	cmd.Flags().StringArrayVar(&opts.Exclude, "exclude", nil, "Ignore log lines matching this regex (can be repeated)")
	opts.ReportOptions.addFlags(cmd)

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, opts *BuildOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyBuildFlags(cmd, cfg, opts); err != nil {
		return err
	}

	logFile := args[0]
	ctx := commandContext(cmd)

	res, err := parseBuildFile(ctx, cfg, opts.Root, logFile)
	if err != nil {
		return err
	}

	result, err := analyzer.NewAnalyzer(opts.analyzerOptions(cfg)...).Analyze(ctx, res, nil)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(result, cfgPath, []string{logFile})
	return emit(cmd, cfg, &opts.ReportOptions, report)
}

// applyBuildFlags layers the build flags over the loaded config.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config, opts *BuildOptions) error {
	if cmd.Flags().Changed("badbox") {
		cfg.Message.ShowBadBoxes = opts.BadBox
	}
	if len(opts.Exclude) > 0 {
		cfg.Message.Exclude = append(cfg.Message.Exclude, opts.Exclude...)
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("--exclude: %w", err)
		}
	}
	return nil
}

// parseBuildFile reads and parses one build log. root overrides the
// configured root file.
func parseBuildFile(ctx context.Context, cfg *config.Config, root, logFile string) (*parser.BuildResult, error) {
	text, err := parser.ReadLog(ctx, logFile)
	if err != nil {
		return nil, err
	}

	res, err := parser.ParseBuildLog(text, absPath(root), cfg.ParserOptions(logging.Logger()))
	if errors.Is(err, parser.ErrNoRootFile) {
		return nil, fmt.Errorf("%s: %w (pass --root or set root_file in the config)", logFile, err)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", logFile, err)
	}
	return res, nil
}
