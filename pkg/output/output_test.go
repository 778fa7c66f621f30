package output

import (
	"time"

	"github.com/ccollicutt/texdiag/pkg/analyzer"
)

// createTestReport builds a report with one file holding one finding of each
// severity plus a file-less warning.
func createTestReport() *Report {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	result := &analyzer.AnalysisResult{
		Files: []*analyzer.FileResult{
			{
				File: "/p/main.tex",
				Findings: []analyzer.Finding{
					{Source: analyzer.SourceLaTeX, Severity: analyzer.SeverityError, Line: 12, Column: 1, EndColumn: 65535, Message: "Undefined control sequence.\n\\foo"},
					{Source: analyzer.SourceChkTeX, Severity: analyzer.SeverityWarning, Line: 5, Column: 10, EndColumn: 11, Code: 24, Message: "24: Delete this space"},
					{Source: analyzer.SourceLaTeX, Severity: analyzer.SeverityInfo, Line: 3, Column: 1, EndColumn: 65535, Message: `Overfull \hbox (1.0pt too wide)`},
				},
			},
			{
				File: "",
				Findings: []analyzer.Finding{
					{Source: analyzer.SourceLaTeX, Severity: analyzer.SeverityWarning, Line: 1, Column: 1, EndColumn: 65535, Message: "No bib entry found for 'knuth'"},
				},
			},
		},
		Metadata: analyzer.AnalysisMetadata{
			RootFile:     "/p/main.tex",
			Driver:       "latexmk",
			LintFiltered: 2,
			StartTime:    start,
			EndTime:      start.Add(15 * time.Millisecond),
		},
	}
	return NewReport(result, "texdiag.yaml", []string{"main.log", "main.chktex"})
}
