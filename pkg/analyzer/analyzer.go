package analyzer

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccollicutt/texdiag/pkg/parser"
)

// wholeLine is the end column used for build messages, which carry no column.
const wholeLine = 65535

// Analyzer groups parsed records by file.
type Analyzer struct {
	lintExtensions map[string]bool // nil means no filter
	minSeverity    Severity
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithLintExtensions keeps lint findings only for files with one of the given
// extensions. An empty list disables the filter.
func WithLintExtensions(exts []string) AnalyzerOption {
	return func(a *Analyzer) {
		if len(exts) == 0 {
			a.lintExtensions = nil
			return
		}
		a.lintExtensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			a.lintExtensions[ext] = true
		}
	}
}

// WithMinSeverity drops findings below sev.
func WithMinSeverity(sev Severity) AnalyzerOption {
	return func(a *Analyzer) {
		a.minSeverity = sev
	}
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// KindSeverity maps a build-log kind to its presentation severity.
func KindSeverity(k parser.Kind) Severity {
	switch k {
	case parser.KindError:
		return SeverityError
	case parser.KindWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// LintSeverity maps a lower-cased ChkTeX kind to a severity. ChkTeX
// "message" entries and unknown kinds are informational.
func LintSeverity(kind string) Severity {
	switch kind {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Analyze groups build and lint records by file. Either input may be nil.
func (a *Analyzer) Analyze(ctx context.Context, build *parser.BuildResult, lint []parser.LintEntry) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Files: []*FileResult{},
		Metadata: AnalysisMetadata{
			StartTime:    time.Now(),
			LintMessages: len(lint),
		},
	}
	g := newGrouper(result)

	if build != nil {
		result.Skipped = build.Skipped
		result.Metadata.RootFile = build.RootFile
		result.Metadata.Driver = build.Driver
		result.Metadata.BuildMessages = len(build.Diagnostics)

		for _, d := range build.Diagnostics {
			f := Finding{
				Source:    SourceLaTeX,
				Severity:  KindSeverity(d.Kind),
				Line:      d.Line,
				Column:    1,
				EndColumn: wholeLine,
				Message:   strings.TrimRight(d.Text, "\n"),
			}
			if !a.keep(f) {
				result.Metadata.Dropped++
				continue
			}
			g.add(d.File, f)
		}
	}

	for _, e := range lint {
		if a.lintExtensions != nil && !a.lintExtensions[filepath.Ext(e.File)] {
			result.Metadata.LintFiltered++
			continue
		}
		f := Finding{
			Source:    SourceChkTeX,
			Severity:  LintSeverity(e.Kind),
			Line:      e.Line,
			Column:    e.Column,
			EndColumn: e.Column + e.Length,
			Code:      e.Code,
			Message:   e.Text,
		}
		if !a.keep(f) {
			result.Metadata.Dropped++
			continue
		}
		g.add(e.File, f)
	}

	result.Metadata.EndTime = time.Now()
	return result, nil
}

func (a *Analyzer) keep(f Finding) bool {
	return f.Severity >= a.minSeverity
}

// grouper appends findings to per-file results in first-seen order.
type grouper struct {
	result *AnalysisResult
	byFile map[string]*FileResult
}

func newGrouper(result *AnalysisResult) *grouper {
	return &grouper{result: result, byFile: make(map[string]*FileResult)}
}

func (g *grouper) add(file string, f Finding) {
	fr, ok := g.byFile[file]
	if !ok {
		fr = &FileResult{File: file}
		g.byFile[file] = fr
		g.result.Files = append(g.result.Files, fr)
	}
	fr.Findings = append(fr.Findings, f)
}
