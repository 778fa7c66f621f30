package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/internal/logging"
	"github.com/ccollicutt/texdiag/pkg/analyzer"
	"github.com/ccollicutt/texdiag/pkg/config"
	"github.com/ccollicutt/texdiag/pkg/output"
)

// DefaultDebounce is how long the log must be quiet before it is re-read.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions holds command-line options for the watch command.
type WatchOptions struct {
	BuildOptions

	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <log-file>",
		Short: "Re-report a build log every time it changes",
		Long: `Print the build report for a log, then print it again whenever the
log is rewritten, until interrupted.

TeX rewrites the log throughout a run, so a report is only produced once the
file has been quiet for --debounce.

Example:
  texdiag watch --root main.tex main.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Root, "root", "r", "", "Root .tex file of the project (overrides root_file)")
	cmd.Flags().BoolVar(&opts.BadBox, "badbox", config.DefaultShowBadBoxes, "Report overfull/underfull boxes (overrides message.badbox)")
	cmd.Flags().StringArrayVar(&opts.Exclude, "exclude", nil, "Ignore log lines matching this regex (can be repeated)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", DefaultDebounce, "Quiet period before re-reading the log")
	opts.ReportOptions.addFlags(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		return fmt.Errorf("--debounce must be positive, got %s", opts.Debounce)
	}

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyBuildFlags(cmd, cfg, &opts.BuildOptions); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logFile := absPath(args[0])

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: TeX and latexmk replace the log rather than append.
	if err := watcher.Add(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(logFile), err)
	}

	runOnce := func() {
		if err := reportBuild(ctx, cmd, cfg, cfgPath, opts, logFile); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	runOnce()
	logging.Info("watching build log", "file", logFile, "debounce", opts.Debounce)

	return watchLoop(ctx, watcher.Events, watcher.Errors, logFile, opts.Debounce, runOnce)
}

func reportBuild(ctx context.Context, cmd *cobra.Command, cfg *config.Config, cfgPath string, opts *WatchOptions, logFile string) error {
	res, err := parseBuildFile(ctx, cfg, opts.Root, logFile)
	if err != nil {
		return err
	}
	result, err := analyzer.NewAnalyzer(opts.analyzerOptions(cfg)...).Analyze(ctx, res, nil)
	if err != nil {
		return err
	}
	return emit(cmd, cfg, &opts.ReportOptions, output.NewReport(result, cfgPath, []string{logFile}))
}

// watchLoop calls run once target has seen no write or create event for
// debounce. It returns when ctx is done or the event channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string, debounce time.Duration, run func()) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				logging.Debug("build log changed", "op", ev.Op.String())
				timer.Reset(debounce)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logging.Warn("watcher error", "error", err)

		case <-timer.C:
			run()
		}
	}
}
