// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/texdiag/pkg/analyzer"
)

// Report is the complete analysis output.
type Report struct {
	// ID identifies the run, so webhook receivers can deduplicate deliveries.
	ID string `json:"id"`

	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Files contains the findings grouped per file.
	Files []*analyzer.FileResult `json:"files"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Total    int `json:"total"`

	// LintFiltered is the number of lint messages for files outside the
	// configured extensions.
	LintFiltered int `json:"lint_filtered"`

	// Skipped is set when latexmk reported that nothing needed rebuilding.
	Skipped bool `json:"skipped"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the log files that were analyzed.
	Sources []string `json:"sources"`

	RootFile string `json:"root_file,omitempty"`
	Driver   string `json:"driver,omitempty"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.AnalysisResult, configFile string, sources []string) *Report {
	return &Report{
		ID:    uuid.New().String(),
		Files: result.Files,
		Metadata: Metadata{
			ConfigFile: configFile,
			Sources:    sources,
			RootFile:   result.Metadata.RootFile,
			Driver:     result.Metadata.Driver,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			Files:        len(result.Files),
			Errors:       result.Count(analyzer.SeverityError),
			Warnings:     result.Count(analyzer.SeverityWarning),
			Info:         result.Count(analyzer.SeverityInfo),
			Total:        result.TotalFindings(),
			LintFiltered: result.Metadata.LintFiltered,
			Skipped:      result.Skipped,
		},
	}
}

// HasIssues returns true if anything was reported.
func (r *Report) HasIssues() bool {
	return r.Summary.Total > 0
}

// HasErrors returns true if any finding is an error.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// AtLeast reports whether any finding has severity sev or higher.
func (r *Report) AtLeast(sev analyzer.Severity) bool {
	switch sev {
	case analyzer.SeverityError:
		return r.Summary.Errors > 0
	case analyzer.SeverityWarning:
		return r.Summary.Errors+r.Summary.Warnings > 0
	default:
		return r.Summary.Total > 0
	}
}
