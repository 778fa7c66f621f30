package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/internal/logging"
	"github.com/ccollicutt/texdiag/pkg/config"
	"github.com/ccollicutt/texdiag/pkg/detector"
	"github.com/ccollicutt/texdiag/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose  bool
	BuildLog string
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [config-file]",
		Short: "Diagnose common setup issues",
		Long: `Diagnose common setup issues.

Checks:
- Config file syntax and structure
- Root file and project root existence
- A build log, when given with --log: driver, engine and whether it parses
- Webhook configuration (and reachability with -v)

Without a config file, texdiag.yaml, texdiag.yml, texdiag.toml or
.texdiag.yaml in the working directory is used.

Example:
  texdiag diagnose texdiag.yaml
  texdiag diagnose --log main.log -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else if wd, err := os.Getwd(); err == nil {
				path = config.Discover(wd)
			}
			return runDiagnose(commandContext(cmd), cmd.OutOrStdout(), path, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().StringVar(&opts.BuildLog, "log", "", "Build log to test the configuration against")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	var cfg *config.Config
	if configPath == "" {
		results = append(results, DiagnosticResult{
			Check:   "Config File",
			Status:  "warning",
			Message: "No config file given or found, using defaults",
			Suggests: []string{
				"Create texdiag.yaml with at least root_file: main.tex",
			},
		})
		var err error
		cfg, err = config.FromEnvironment()
		if err != nil {
			results = append(results, DiagnosticResult{Check: "Environment", Status: "error", Message: err.Error()})
			printDiagnostics(w, results, opts)
			return nil
		}
	} else {
		// 1. Check config file existence
		result := checkConfigExists(configPath)
		results = append(results, result)
		if result.Status == "error" {
			printDiagnostics(w, results, opts)
			return nil
		}

		// 2. Parse config file
		cfg, result = checkConfigParseable(ctx, configPath)
		results = append(results, result)
		if result.Status == "error" {
			printDiagnostics(w, results, opts)
			return nil
		}
	}

	// 3. Check root file and project root
	results = append(results, checkRootFile(cfg))
	if cfg.ProjectRoot != "" {
		results = append(results, checkProjectRoot(cfg))
	}

	// 4. Check a build log against the configuration
	if opts.BuildLog != "" {
		results = append(results, checkBuildLog(ctx, cfg, opts.BuildLog)...)
	}

	// 5. Check webhooks configuration
	results = append(results, checkWebhooks(ctx, cfg, opts)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		switch {
		case strings.Contains(err.Error(), "yaml"):
			result.Suggests = []string{"Check YAML syntax - ensure proper indentation (use spaces, not tabs)"}
		case strings.Contains(err.Error(), "toml"):
			result.Suggests = []string{"Check TOML syntax - strings must be quoted"}
		case strings.Contains(err.Error(), "exclude"):
			result.Suggests = []string{"Exclude patterns are Go regular expressions; escape backslashes in YAML double quotes"}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Exclude patterns: %d", len(cfg.Message.Exclude)),
		fmt.Sprintf("Bad boxes: %v", cfg.Message.ShowBadBoxes),
		fmt.Sprintf("Lint extensions: %s", strings.Join(cfg.Linter.Extensions, " ")),
	}
	return cfg, result
}

func checkRootFile(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Root File",
	}

	if cfg.RootFile == "" {
		result.Status = "warning"
		result.Message = "No root_file configured"
		result.Suggests = []string{
			"Set root_file in the config or " + config.EnvRootFile,
			"Or pass --root to build, check and watch",
		}
		return result
	}

	info, err := os.Stat(cfg.RootFile)
	switch {
	case os.IsNotExist(err):
		result.Status = "error"
		result.Message = fmt.Sprintf("Root file does not exist: %s", cfg.RootFile)
		result.Suggests = []string{"Relative root_file values resolve against the config file's directory"}
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access root file: %v", err)
	case info.IsDir():
		result.Status = "error"
		result.Message = "root_file is a directory, not a file"
	case filepath.Ext(cfg.RootFile) != ".tex":
		result.Status = "warning"
		result.Message = fmt.Sprintf("Root file %s does not end in .tex", cfg.RootFile)
	default:
		result.Status = "ok"
		result.Message = cfg.RootFile
	}
	return result
}

func checkProjectRoot(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Project Root",
	}

	info, err := os.Stat(cfg.ProjectRoot)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access project root: %v", err)
		return result
	}
	if !info.IsDir() {
		result.Status = "error"
		result.Message = "project_root is not a directory"
		return result
	}

	result.Status = "ok"
	result.Message = cfg.ProjectRoot
	return result
}

func checkBuildLog(ctx context.Context, cfg *config.Config, logFile string) []DiagnosticResult {
	detect := DiagnosticResult{
		Check: fmt.Sprintf("Build Log: %s", filepath.Base(logFile)),
	}

	det, err := detector.New().DetectFromFile(ctx, logFile)
	if err != nil {
		detect.Status = "error"
		detect.Message = fmt.Sprintf("Cannot read log: %v", err)
		return []DiagnosticResult{detect}
	}

	switch {
	case det.UpToDate:
		detect.Status = "ok"
		detect.Message = "latexmk reported nothing to do; the log holds no engine output"
	case !det.HasEngine():
		detect.Status = "error"
		detect.Message = "No TeX engine banner found"
		detect.Suggests = []string{"Pass the .log file written by the engine, not the terminal transcript of another tool"}
	case det.Fatal:
		detect.Status = "warning"
		detect.Message = fmt.Sprintf("%s run ended with a fatal error", det.Engine)
	default:
		detect.Status = "ok"
		detect.Message = fmt.Sprintf("%s %s, %d run(s)", det.Engine, det.EngineVersion, det.EngineRuns)
	}
	if det.Driver != "" {
		detect.Details = append(detect.Details, "Driver: "+det.Driver)
	}
	if det.OutputFile != "" {
		detect.Details = append(detect.Details, fmt.Sprintf("Output: %s (%d pages)", det.OutputFile, det.Pages))
	}

	parse := DiagnosticResult{
		Check: "Build Log Parse",
	}

	text, err := parser.ReadLog(ctx, logFile)
	if err != nil {
		parse.Status = "error"
		parse.Message = err.Error()
		return []DiagnosticResult{detect, parse}
	}

	res, err := parser.ParseBuildLog(text, "", cfg.ParserOptions(logging.Logger()))
	switch {
	case err != nil:
		parse.Status = "error"
		parse.Message = fmt.Sprintf("Cannot parse: %v", err)
		parse.Suggests = []string{"Set root_file so relative paths in the log can be resolved"}
	case res.Skipped:
		parse.Status = "ok"
		parse.Message = "Skipped (up-to-date)"
	default:
		counts := map[parser.Kind]int{}
		for _, d := range res.Diagnostics {
			counts[d.Kind]++
		}
		parse.Status = "ok"
		parse.Message = fmt.Sprintf("%d message(s)", len(res.Diagnostics))
		parse.Details = []string{
			fmt.Sprintf("Errors: %d", counts[parser.KindError]),
			fmt.Sprintf("Warnings: %d", counts[parser.KindWarning]),
			fmt.Sprintf("Bad boxes: %d", counts[parser.KindTypesetting]),
		}
	}

	return []DiagnosticResult{detect, parse}
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== texdiag Setup Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running texdiag.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nSetup is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nSetup looks good!")
	}
}

func checkWebhooks(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	// URLs and triggers were validated by config.Load.
	for _, wh := range cfg.Webhooks {
		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook: %s", webhookName(wh)),
			Status:  "ok",
			Message: fmt.Sprintf("Trigger: %s", wh.Trigger),
		}

		if wh.Trigger == config.WebhookTriggerNever {
			result.Status = "warning"
			result.Message = "Trigger is never; this webhook is disabled"
		}
		if strings.HasPrefix(wh.Token, "$") {
			result.Status = "warning"
			result.Message = fmt.Sprintf("Token appears to be an unresolved env var: %s", wh.Token)
		}

		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}

		results = append(results, result)
	}

	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			result := checkWebhookConnectivity(ctx, wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", webhookName(wh))
			results = append(results, result)
		}
	}

	return results
}

func webhookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}

func checkWebhookConnectivity(ctx context.Context, wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// A HEAD request is enough to tell whether the endpoint is reachable
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (reports are sent with POST)",
			"Check authentication if using a token",
		}
	}

	return result
}
