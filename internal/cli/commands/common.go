package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/internal/logging"
	"github.com/ccollicutt/texdiag/pkg/analyzer"
	"github.com/ccollicutt/texdiag/pkg/config"
	"github.com/ccollicutt/texdiag/pkg/output"
	"github.com/ccollicutt/texdiag/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ReportOptions holds the flags shared by commands that print a report.
type ReportOptions struct {
	Output      string
	Verbose     bool
	Quiet       bool
	NoColor     bool
	FailOn      string
	MinSeverity string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

func (o *ReportOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false, "Show run metadata and per-file counts")
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&o.NoColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&o.FailOn, "fail-on", "error", "Exit with status 1 when a finding reaches this severity (info|warning|error|never)")
	cmd.Flags().StringVar(&o.MinSeverity, "min-severity", "info", "Hide findings below this severity (info|warning|error)")

	cmd.Flags().StringVar(&o.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&o.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&o.WebhookTrigger, "webhook-trigger", "on_issues", "When to fire webhook (on_errors|on_issues|always|never)")
}

// validate checks flag values before any work is done.
func (o *ReportOptions) validate() error {
	if _, err := output.NewFormatter(o.Output, output.FormatOptions{}); err != nil {
		return err
	}
	if o.FailOn != "never" {
		if _, err := analyzer.ParseSeverity(o.FailOn); err != nil {
			return fmt.Errorf("--fail-on: %w", err)
		}
	}
	if _, err := analyzer.ParseSeverity(o.MinSeverity); err != nil {
		return fmt.Errorf("--min-severity: %w", err)
	}
	return nil
}

// analyzerOptions builds the analyzer settings from config and flags.
func (o *ReportOptions) analyzerOptions(cfg *config.Config) []analyzer.AnalyzerOption {
	minSev, _ := analyzer.ParseSeverity(o.MinSeverity)
	return []analyzer.AnalyzerOption{
		analyzer.WithLintExtensions(cfg.Linter.Extensions),
		analyzer.WithMinSeverity(minSev),
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig loads --config, or a texdiag config in the working directory,
// or falls back to defaults plus environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path := ""
	if f := cmd.Flag("config"); f != nil {
		path = f.Value.String()
	}
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Discover(wd)
		}
	}

	if path == "" {
		cfg, err := config.FromEnvironment()
		if err != nil {
			return nil, "", fmt.Errorf("loading config: %w", err)
		}
		return cfg, "", nil
	}

	cfg, err := config.Load(commandContext(cmd), path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	logging.Debug("loaded config", "path", path)
	return cfg, path, nil
}

// absPath makes a user-supplied path absolute so diagnostics carry full paths.
func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// emit prints the report, fires webhooks and sets ExitCode.
func emit(cmd *cobra.Command, cfg *config.Config, opts *ReportOptions, report *output.Report) error {
	ctx := commandContext(cmd)

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		Color:   !opts.NoColor && !color.NoColor,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, cmd.ErrOrStderr(), cfg, opts, report)

	ExitCode = exitCodeFor(report, opts.FailOn)
	return nil
}

func exitCodeFor(report *output.Report, failOn string) int {
	if failOn == "never" {
		return 0
	}
	sev, err := analyzer.ParseSeverity(failOn)
	if err != nil {
		sev = analyzer.SeverityError
	}
	if report.AtLeast(sev) {
		return 1
	}
	return 0
}

// sendWebhooks sends the report to every webhook whose trigger matches.
func sendWebhooks(ctx context.Context, w io.Writer, cfg *config.Config, opts *ReportOptions, report *output.Report) {
	var targets []webhook.Target
	for _, wh := range collectWebhooks(cfg, opts) {
		if !shouldFireWebhook(wh.Trigger, report) {
			continue
		}
		targets = append(targets, webhook.Target{
			Name:    wh.Name,
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
	}
	if len(targets) == 0 {
		return
	}

	for _, resp := range webhook.NewClient().SendAll(ctx, report, targets) {
		name := resp.Target.Label()
		if resp.Success() {
			logging.Info("webhook sent", "name", name, "status", resp.StatusCode, "duration", resp.Duration)
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration.Round(1e6))
		} else {
			logging.Warn("webhook failed", "name", name, "error", resp.Error)
			fmt.Fprintf(w, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ReportOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnIssues
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
func shouldFireWebhook(trigger config.WebhookTrigger, report *output.Report) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnErrors:
		return report.HasErrors()
	default:
		return report.HasIssues()
	}
}
