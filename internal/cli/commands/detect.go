package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Identify the driver and engine that wrote a build log",
		Long: `Inspect a build log and report how it was produced.

Reports:
  - The build wrapper (latexmk, texify) if any
  - The TeX engine and version from its banner, and how many times it ran
  - The output file and page count of the last run
  - Whether the run was fatal, or latexmk found nothing to do

Example:
  texdiag detect main.log
  texdiag detect -o json build/main.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	result, err := detector.New().DetectFromFile(commandContext(cmd), logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(cmd.OutOrStdout(), result, logFile)
	case "text":
		return outputDetectText(cmd.OutOrStdout(), result, logFile)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string) error {
	fmt.Fprintln(w, "=== Build Log Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines: %d\n", result.Lines)
	fmt.Fprintln(w)

	driver := result.Driver
	if driver == "" {
		driver = "none (engine run directly)"
	}
	fmt.Fprintf(w, "Driver: %s\n", driver)

	if result.UpToDate {
		fmt.Fprintln(w, "Status: up-to-date, nothing was built")
		return nil
	}

	if !result.HasEngine() {
		fmt.Fprintln(w, "Engine: not detected")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: The file may not be a TeX log, or the banner was trimmed.")
		return nil
	}
	fmt.Fprintf(w, "Engine: %s %s\n", result.Engine, result.EngineVersion)
	fmt.Fprintf(w, "Engine runs: %d\n", result.EngineRuns)

	switch {
	case result.OutputFile != "":
		fmt.Fprintf(w, "Output: %s (%d page(s))\n", result.OutputFile, result.Pages)
	case result.NoOutput:
		fmt.Fprintln(w, "Output: no pages of output")
	default:
		fmt.Fprintln(w, "Output: none")
	}

	status := "ok"
	if result.Fatal {
		status = "fatal error"
	} else if !result.Succeeded() {
		status = "incomplete"
	}
	fmt.Fprintf(w, "Status: %s\n", status)
	return nil
}

// JSONDetection is the JSON shape of a detection result.
type JSONDetection struct {
	File          string `json:"file"`
	Driver        string `json:"driver,omitempty"`
	Engine        string `json:"engine,omitempty"`
	EngineVersion string `json:"engine_version,omitempty"`
	EngineRuns    int    `json:"engine_runs"`
	OutputFile    string `json:"output_file,omitempty"`
	Pages         int    `json:"pages"`
	Fatal         bool   `json:"fatal"`
	UpToDate      bool   `json:"up_to_date"`
	Lines         int    `json:"lines"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(JSONDetection{
		File:          logFile,
		Driver:        result.Driver,
		Engine:        result.Engine,
		EngineVersion: result.EngineVersion,
		EngineRuns:    result.EngineRuns,
		OutputFile:    result.OutputFile,
		Pages:         result.Pages,
		Fatal:         result.Fatal,
		UpToDate:      result.UpToDate,
		Lines:         result.Lines,
	})
}
