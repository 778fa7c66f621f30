package parser

import (
	"regexp"
	"strings"
)

// Driver is a build wrapper that runs the TeX engine and interleaves its own
// step announcements with the engine output.
type Driver struct {
	Name string

	// Signature marks a log as produced by this driver (multiline).
	Signature *regexp.Regexp

	// EngineStart matches a step that starts the TeX engine itself.
	EngineStart *regexp.Regexp

	// Step matches any step the driver announces, engine runs included.
	Step *regexp.Regexp
}

var (
	latexmkDriver = &Driver{
		Name:        "latexmk",
		Signature:   regexp.MustCompile(`(?m)^Latexmk:\sapplying\srule`),
		EngineStart: regexp.MustCompile(`^Latexmk:\sapplying\srule\s'(pdf|lua|xe)?latex'`),
		Step:        regexp.MustCompile(`^Latexmk:\sapplying\srule`),
	}
	texifyDriver = &Driver{
		Name:        "texify",
		Signature:   regexp.MustCompile(`(?m)^running\s(pdf|lua|xe)?latex`),
		EngineStart: regexp.MustCompile(`^running\s(pdf|lua|xe)?latex`),
		Step:        regexp.MustCompile(`^running\s((pdf|lua|xe)?latex|miktex-bibtex)`),
	}
)

// Drivers returns the known build wrappers in detection order.
func Drivers() []*Driver {
	return []*Driver{latexmkDriver, texifyDriver}
}

// DetectDriver returns the first driver whose signature appears in log, or nil.
func DetectDriver(log string) *Driver {
	for _, d := range Drivers() {
		if d.Signature.MatchString(log) {
			return d
		}
	}
	return nil
}

// Trim keeps only the output of the last engine start. Lines from the last
// engine start up to (excluding) a later driver step are kept; when no step
// follows the engine start, everything from it to the end is kept. A log with
// no engine start trims to nothing.
func (d *Driver) Trim(log string) string {
	lines := strings.Split(log, "\n")
	start, final := -1, -1
	for i, line := range lines {
		if d.EngineStart.MatchString(line) {
			start = i
		}
		if d.Step.MatchString(line) {
			final = i
		}
	}
	if start < 0 {
		return ""
	}
	if final <= start {
		return strings.Join(lines[start:], "\n")
	}
	return strings.Join(lines[start:final], "\n")
}

// TrimWrapper detects the driver and trims its chatter. The log is returned
// unchanged when no driver signature is present.
func TrimWrapper(log string) (string, *Driver) {
	d := DetectDriver(log)
	if d == nil {
		return log, nil
	}
	return d.Trim(log), d
}
