package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/texdiag/pkg/analyzer"
)

// JSONFormatter writes the report as indented JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietReport is the JSON shape of --quiet: the run ID and the counts.
type quietReport struct {
	ID      string  `json:"id"`
	Summary Summary `json:"summary"`
}

// Format renders the report. Files is always an array, never null, so
// consumers can iterate without a nil check.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(quietReport{ID: report.ID, Summary: report.Summary})
	}

	out := *report
	if out.Files == nil {
		out.Files = []*analyzer.FileResult{}
	}
	return encoder.Encode(&out)
}
