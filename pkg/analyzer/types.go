// Package analyzer turns parsed build and lint records into per-file findings
// with presentation severities.
package analyzer

import (
	"fmt"
	"strings"
	"time"
)

// Severity is the presentation level of a finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity parses "info", "warning" or "error".
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(name) {
	case "info", "information", "typesetting":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q (use info, warning or error)", name)
}

// Source names the tool a finding came from.
type Source string

const (
	SourceLaTeX  Source = "LaTeX"
	SourceChkTeX Source = "ChkTeX"
)

// Finding is a single message placed in a file.
type Finding struct {
	Source   Source   `json:"source"`
	Severity Severity `json:"severity"`

	// Line is 1-based.
	Line int `json:"line"`

	// Column and EndColumn are 1-based and half-open. Zero means the whole line.
	Column    int `json:"column,omitempty"`
	EndColumn int `json:"end_column,omitempty"`

	// Code is the ChkTeX warning number, zero for build messages.
	Code int `json:"code,omitempty"`

	Message string `json:"message"`
}

// FileResult holds the findings for one file.
type FileResult struct {
	// File is empty for findings with no file, such as missing bib entries.
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
}

// MaxSeverity returns the highest severity in the file.
func (f *FileResult) MaxSeverity() Severity {
	max := SeverityInfo
	for _, finding := range f.Findings {
		if finding.Severity > max {
			max = finding.Severity
		}
	}
	return max
}

// AnalysisResult contains the complete analysis output.
type AnalysisResult struct {
	// Files in the order their first finding appeared.
	Files []*FileResult

	// Skipped is set when the build driver reported nothing to do.
	Skipped bool

	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	RootFile string
	Driver   string

	// BuildMessages and LintMessages count the records handed in.
	BuildMessages int
	LintMessages  int

	// LintFiltered counts lint records dropped by the extension filter.
	LintFiltered int

	// Dropped counts records below the minimum severity.
	Dropped int

	StartTime time.Time
	EndTime   time.Time
}

// Count returns the number of findings with the given severity.
func (r *AnalysisResult) Count(sev Severity) int {
	n := 0
	for _, f := range r.Files {
		for _, finding := range f.Findings {
			if finding.Severity == sev {
				n++
			}
		}
	}
	return n
}

// TotalFindings returns the number of findings across all files.
func (r *AnalysisResult) TotalFindings() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Findings)
	}
	return n
}

// MaxSeverity returns the highest severity found, and false if there are no
// findings.
func (r *AnalysisResult) MaxSeverity() (Severity, bool) {
	if r.TotalFindings() == 0 {
		return SeverityInfo, false
	}
	max := SeverityInfo
	for _, f := range r.Files {
		if s := f.MaxSeverity(); s > max && len(f.Findings) > 0 {
			max = s
		}
	}
	return max, true
}

// HasErrors reports whether any finding is an error.
func (r *AnalysisResult) HasErrors() bool {
	return r.Count(SeverityError) > 0
}
