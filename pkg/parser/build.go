package parser

import (
	"regexp"
	"strings"
)

var (
	outputWrittenPattern = regexp.MustCompile(`(?m)^Output\swritten\son\s(.*)\s\(.*\)\.$`)
	fatalPattern         = regexp.MustCompile(`Fatal error occurred, no output PDF file produced!`)
	upToDatePattern      = regexp.MustCompile(`^Latexmk: All targets \(.*\) are up-to-date`)
)

// NormalizeNewlines converts CRLF and CR line endings to LF.
func NormalizeNewlines(log string) string {
	log = strings.ReplaceAll(log, "\r\n", "\n")
	return strings.ReplaceAll(log, "\r", "\n")
}

// ParseBuildLog interprets the output of a TeX build.
//
// rootFile anchors relative paths; when empty, opts.DefaultRootFile is used,
// and ErrNoRootFile is returned if that is empty too. A log whose first line
// reports that latexmk had nothing to do yields a skipped result without
// needing a root file.
func ParseBuildLog(log, rootFile string, opts Options) (*BuildResult, error) {
	logger := loggerOrDiscard(opts.Logger)

	log = NormalizeNewlines(log)
	log, driver := TrimWrapper(log)

	result := &BuildResult{Diagnostics: []Diagnostic{}}
	if driver != nil {
		result.Driver = driver.Name
	}

	if !outputWrittenPattern.MatchString(log) && !fatalPattern.MatchString(log) && IsUpToDate(log) {
		result.Skipped = true
		logger.Debug("build skipped, all targets up-to-date")
		return result, nil
	}

	if rootFile == "" {
		rootFile = opts.DefaultRootFile
	}
	if rootFile == "" {
		return nil, ErrNoRootFile
	}
	result.RootFile = rootFile

	state := newParseState(rootFile, opts)
	for _, line := range strings.Split(log, "\n") {
		state.feed(line)
	}
	result.Diagnostics = append(result.Diagnostics, state.finish()...)

	logger.Info("parsed build log",
		"root", rootFile,
		"driver", result.Driver,
		"messages", len(result.Diagnostics))
	return result, nil
}

// IsUpToDate reports whether the first line of log is latexmk's
// "All targets (...) are up-to-date" message.
func IsUpToDate(log string) bool {
	first, _, _ := strings.Cut(log, "\n")
	return upToDatePattern.MatchString(first)
}
