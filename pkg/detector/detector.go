// Package detector identifies the tool chain that produced a TeX build log.
package detector

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ccollicutt/texdiag/pkg/parser"
)

var (
	outputPattern  = regexp.MustCompile(`^Output written on (.*) \((\d+) pages?`)
	noPagesPattern = regexp.MustCompile(`^No pages of output\.`)
	fatalPattern   = regexp.MustCompile(`Fatal error occurred, no output PDF file produced!|^! Emergency stop\.`)
)

// DetectionResult holds what was learned from a build log.
type DetectionResult struct {
	Driver        string // Wrapper name, empty when the engine ran directly
	Engine        string // Engine of the last run, empty if no banner was seen
	EngineVersion string
	EngineRuns    int    // Number of engine banners in the log
	OutputFile    string // From the last "Output written on" line
	Pages         int
	NoOutput      bool // TeX reported "No pages of output."
	Fatal         bool
	UpToDate      bool // latexmk had nothing to do
	Lines         int
}

// Detector recognises drivers and engines in build logs.
type Detector struct {
	engines []*EngineFormat
	drivers []*parser.Driver
}

// Option configures the Detector.
type Option func(*Detector)

// WithEngines replaces the engine banner table.
func WithEngines(engines []*EngineFormat) Option {
	return func(d *Detector) {
		if len(engines) > 0 {
			d.engines = engines
		}
	}
}

// New creates a new Detector with the default engine table.
func New(opts ...Option) *Detector {
	d := &Detector{
		engines: DefaultEngines(),
		drivers: parser.Drivers(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads a build log and inspects it.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	log, err := parser.ReadLog(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(strings.Split(log, "\n")), nil
}

// DetectFromLines inspects the lines of a build log.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{Lines: len(lines)}
	if len(lines) == 0 {
		return result
	}

	result.UpToDate = parser.IsUpToDate(lines[0])

	for _, line := range lines {
		if result.Driver == "" {
			for _, drv := range d.drivers {
				if drv.Signature.MatchString(line) {
					result.Driver = drv.Name
					break
				}
			}
		}

		if engine, version, ok := d.matchEngine(line); ok {
			result.Engine = engine
			result.EngineVersion = version
			result.EngineRuns++
			continue
		}

		if m := outputPattern.FindStringSubmatch(line); m != nil {
			result.OutputFile = m[1]
			result.Pages, _ = strconv.Atoi(m[2])
			result.NoOutput = false
			continue
		}

		if noPagesPattern.MatchString(line) {
			result.NoOutput = true
			result.OutputFile = ""
			result.Pages = 0
			continue
		}

		if fatalPattern.MatchString(line) {
			result.Fatal = true
		}
	}

	return result
}

func (d *Detector) matchEngine(line string) (name, version string, ok bool) {
	if !strings.HasPrefix(line, "This is ") {
		return "", "", false
	}
	for _, e := range d.engines {
		if m := e.Pattern.FindStringSubmatch(line); m != nil {
			return e.Name, strings.TrimSuffix(m[1], ","), true
		}
	}
	return "", "", false
}

// HasEngine returns true if at least one engine banner was found.
func (r *DetectionResult) HasEngine() bool {
	return r.EngineRuns > 0
}

// Succeeded reports whether the last run wrote output and nothing was fatal.
func (r *DetectionResult) Succeeded() bool {
	return r.OutputFile != "" && !r.Fatal
}
