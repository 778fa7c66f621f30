package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ccollicutt/texdiag/pkg/analyzer"
)

// noFile labels findings that carry no file.
const noFile = "<no file>"

// TextFormatter formats reports as compiler-style text lines.
type TextFormatter struct {
	opts   FormatOptions
	colors map[analyzer.Severity]*color.Color
	file   *color.Color
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	f := &TextFormatter{
		opts: opts,
		colors: map[analyzer.Severity]*color.Color{
			analyzer.SeverityError:   color.New(color.FgRed, color.Bold),
			analyzer.SeverityWarning: color.New(color.FgYellow, color.Bold),
			analyzer.SeverityInfo:    color.New(color.FgCyan),
		},
		file: color.New(color.Bold),
	}
	for _, c := range f.colors {
		f.setColor(c)
	}
	f.setColor(f.file)
	return f
}

func (f *TextFormatter) setColor(c *color.Color) {
	if f.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintln(w, f.summaryLine(report))
	return err
}

func (f *TextFormatter) summaryLine(report *Report) string {
	if report.Summary.Skipped {
		return "texdiag: build skipped, all targets up-to-date"
	}
	return fmt.Sprintf("texdiag: %d error(s), %d warning(s), %d info in %d file(s)",
		report.Summary.Errors,
		report.Summary.Warnings,
		report.Summary.Info,
		report.Summary.Files)
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	for _, file := range report.Files {
		if err := f.formatFile(file, w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, f.summaryLine(report)); err != nil {
		return err
	}

	if f.opts.Verbose {
		m := report.Metadata
		fmt.Fprintf(w, "Report: %s\n", report.ID)
		if m.RootFile != "" {
			fmt.Fprintf(w, "Root file: %s\n", m.RootFile)
		}
		if m.Driver != "" {
			fmt.Fprintf(w, "Driver: %s\n", m.Driver)
		}
		if len(m.Sources) > 0 {
			fmt.Fprintf(w, "Sources: %s\n", strings.Join(m.Sources, ", "))
		}
		if report.Summary.LintFiltered > 0 {
			fmt.Fprintf(w, "Lint messages filtered by extension: %d\n", report.Summary.LintFiltered)
		}
		fmt.Fprintf(w, "Duration: %s\n", m.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatFile(file *analyzer.FileResult, w io.Writer) error {
	name := file.File
	if name == "" {
		name = noFile
	}

	if f.opts.Verbose {
		if _, err := fmt.Fprintf(w, "%s (%d)\n", f.file.Sprint(name), len(file.Findings)); err != nil {
			return err
		}
	}

	for _, finding := range file.Findings {
		if _, err := fmt.Fprintln(w, f.findingLine(name, finding)); err != nil {
			return err
		}
	}
	return nil
}

// findingLine renders file:line:col: severity: message [source code].
// Continuation lines of a multi-line message are indented.
func (f *TextFormatter) findingLine(name string, finding analyzer.Finding) string {
	var b strings.Builder

	b.WriteString(f.file.Sprint(name))
	fmt.Fprintf(&b, ":%d", finding.Line)
	if finding.Column > 0 {
		fmt.Fprintf(&b, ":%d", finding.Column)
	}
	b.WriteString(": ")
	b.WriteString(f.colors[finding.Severity].Sprint(finding.Severity.String()))
	b.WriteString(": ")
	b.WriteString(strings.ReplaceAll(finding.Message, "\n", "\n    "))

	b.WriteString(" [")
	b.WriteString(string(finding.Source))
	if finding.Code > 0 {
		fmt.Fprintf(&b, " %d", finding.Code)
	}
	b.WriteString("]")

	return b.String()
}
