package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
)

var (
	badBoxPattern       = regexp.MustCompile(`^((?:Over|Under)full \\[vh]box \([^)]*\)) in paragraph at lines (\d+)--(\d+)$`)
	badBoxDetectedAt    = regexp.MustCompile(`^((?:Over|Under)full \\[vh]box \([^)]*\)) detected at line (\d+)$`)
	badBoxOutputPattern = regexp.MustCompile(`^((?:Over|Under)full \\[vh]box \([^)]*\)) has occurred while \\output is active`)
	warningPattern      = regexp.MustCompile(`^((?:(?:Class|Package) \S*)|LaTeX) (Warning|Info|Font Warning):\s+(.*?)(?: on input line (\d+))?(\.|\?|)$`)
	biberWarnPattern    = regexp.MustCompile(`^Biber warning:.*?WARN - I didn't find a database entry for '([^']+)'`)
	errorPattern        = regexp.MustCompile(`^(?:(.*):(\d+):|!)(?: (.+) Error:)? (.+?)$`)

	// Continuation shapes while a record is open.
	packageExtraLinePattern = regexp.MustCompile(`^\((.*)\)\s+(.*?)(?: +on input line (\d+))?(\.)?$`)
	errorContextPattern     = regexp.MustCompile(`^l\.\d+\s(.*)$`)

	bibEmptyPattern = regexp.MustCompile("^Empty `thebibliography' environment")
)

// lineAction tells the state machine what to do after a line opened a record.
type lineAction int

const (
	actionNone lineAction = iota
	// actionSkipNext discards the next physical line (bad box padding).
	actionSkipNext
	// actionRescan classifies the unmatched remainder of the same line.
	actionRescan
	// actionAwaitBlank accumulates continuation lines until a blank line.
	actionAwaitBlank
	// actionAwaitError is actionAwaitBlank with error continuation rules.
	actionAwaitError
)

// classification is the result of matching one line against the patterns.
type classification struct {
	diag   Diagnostic
	action lineAction
	rest   string
}

// classify matches line against the diagnostic shapes in priority order.
// current is the resolved file on top of the file stack and rootDir the
// directory explicit paths resolve against. ok is false when no shape matched.
func classify(line string, showBadBoxes bool, current, rootDir string) (c classification, ok bool) {
	if showBadBoxes {
		m := badBoxPattern.FindStringSubmatch(line)
		if m == nil {
			m = badBoxDetectedAt.FindStringSubmatch(line)
		}
		if m != nil {
			return classification{
				diag:   Diagnostic{Kind: KindTypesetting, File: current, Line: atoiOr(m[2], 1), Text: m[1]},
				action: actionSkipNext,
				rest:   line[len(m[0]):],
			}, true
		}

		if m := badBoxOutputPattern.FindStringSubmatch(line); m != nil {
			return classification{
				diag:   Diagnostic{Kind: KindTypesetting, File: current, Line: 1, Text: m[1]},
				action: actionRescan,
				rest:   line[len(m[0]):],
			}, true
		}
	}

	if m := warningPattern.FindStringSubmatch(line); m != nil {
		return classification{
			diag:   Diagnostic{Kind: KindWarning, File: current, Line: atoiOr(m[4], 1), Text: m[3] + m[5]},
			action: actionAwaitBlank,
		}, true
	}

	if m := biberWarnPattern.FindStringSubmatch(line); m != nil {
		return classification{
			diag:   Diagnostic{Kind: KindWarning, Line: 1, Text: "No bib entry found for '" + m[1] + "'"},
			action: actionRescan,
			rest:   line[len(m[0]):],
		}, true
	}

	if m := errorPattern.FindStringSubmatch(line); m != nil {
		text := m[4]
		if m[3] != "" && m[3] != "LaTeX" {
			text = m[3] + ": " + m[4]
		}
		file := current
		if m[1] != "" {
			file = resolvePath(rootDir, m[1])
		}
		return classification{
			diag:   Diagnostic{Kind: KindError, File: file, Line: atoiOr(m[2], 1), Text: text},
			action: actionAwaitError,
		}, true
	}

	return classification{}, false
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
