package output

import (
	"testing"
	"time"

	"github.com/ccollicutt/texdiag/pkg/analyzer"
)

func TestNewReport(t *testing.T) {
	report := createTestReport()

	if report.ID == "" {
		t.Error("ID is empty")
	}
	if other := createTestReport(); other.ID == report.ID {
		t.Error("report IDs should be unique")
	}

	want := Summary{Files: 2, Errors: 1, Warnings: 2, Info: 1, Total: 4, LintFiltered: 2}
	if report.Summary != want {
		t.Errorf("Summary = %+v, want %+v", report.Summary, want)
	}
	if report.Metadata.Duration != 15*time.Millisecond {
		t.Errorf("Duration = %v", report.Metadata.Duration)
	}
	if report.Metadata.Driver != "latexmk" || report.Metadata.ConfigFile != "texdiag.yaml" {
		t.Errorf("Metadata = %+v", report.Metadata)
	}
}

func TestReport_AtLeast(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		sev     analyzer.Severity
		want    bool
	}{
		{"empty info", Summary{}, analyzer.SeverityInfo, false},
		{"info only, fail on info", Summary{Info: 1, Total: 1}, analyzer.SeverityInfo, true},
		{"info only, fail on warning", Summary{Info: 1, Total: 1}, analyzer.SeverityWarning, false},
		{"warning, fail on warning", Summary{Warnings: 1, Total: 1}, analyzer.SeverityWarning, true},
		{"warning, fail on error", Summary{Warnings: 1, Total: 1}, analyzer.SeverityError, false},
		{"error, fail on warning", Summary{Errors: 1, Total: 1}, analyzer.SeverityWarning, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{Summary: tt.summary}
			if got := r.AtLeast(tt.sev); got != tt.want {
				t.Errorf("AtLeast(%v) = %v, want %v", tt.sev, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", "text", "json"} {
		if _, err := NewFormatter(name, FormatOptions{}); err != nil {
			t.Errorf("NewFormatter(%q) error = %v", name, err)
		}
	}
	if _, err := NewFormatter("xml", FormatOptions{}); err == nil {
		t.Error("NewFormatter(xml) expected error")
	}
}
