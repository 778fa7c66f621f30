package parser

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ChkTeX output configured as "%f:%l:%c:%d:%k:%n:%m%!n".
var linterPattern = regexp.MustCompile(`(?m)^(.*?):(\d+):(\d+):(\d+):(.*?):(\d+):(.*?)$`)

// ParseLinterLog parses ChkTeX output. Lines that do not match are ignored.
func ParseLinterLog(log string, opts LintOptions) []LintEntry {
	logger := loggerOrDiscard(opts.Logger)
	log = NormalizeNewlines(log)

	entries := []LintEntry{}
	for _, m := range linterPattern.FindAllStringSubmatch(log, -1) {
		file := m[1]
		if opts.SingleFile != "" {
			file = opts.SingleFile
		}
		if opts.ProjectRoot != "" && !filepath.IsAbs(file) {
			file = filepath.Join(opts.ProjectRoot, file)
		}

		entries = append(entries, LintEntry{
			File:   file,
			Line:   atoiOr(m[2], 1),
			Column: atoiOr(m[3], 1),
			Length: atoiOr(m[4], 0),
			Kind:   strings.ToLower(m[5]),
			Code:   atoiOr(m[6], 0),
			Text:   m[6] + ": " + m[7],
		})
	}

	logger.Info("parsed linter log", "messages", len(entries))
	return entries
}
