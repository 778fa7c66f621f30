package parser

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lineMode is the accumulator state between physical lines.
type lineMode int

const (
	modeIdle lineMode = iota
	modeAwaitBlank
	modeSkipOne
)

// parseState is the per-call state of one build-log parse.
type parseState struct {
	exclude      []*regexp.Regexp
	showBadBoxes bool

	rootFile string
	rootDir  string
	stack    *fileStack

	mode    lineMode
	inError bool

	// current is the record being accumulated, nil when none is open.
	current *Diagnostic
	out     []Diagnostic
}

func newParseState(rootFile string, opts Options) *parseState {
	return &parseState{
		exclude:      opts.Exclude,
		showBadBoxes: opts.ShowBadBoxes,
		rootFile:     rootFile,
		rootDir:      filepath.Dir(rootFile),
		stack:        newFileStack(rootFile),
	}
}

// currentFile resolves the top of the file stack against the root directory.
func (s *parseState) currentFile() string {
	top := s.stack.top()
	if top == "" {
		top = s.rootFile
	}
	return resolvePath(s.rootDir, top)
}

// open finalizes the current record, if any, and starts d.
func (s *parseState) open(d Diagnostic) {
	if s.current != nil {
		s.out = append(s.out, *s.current)
	}
	s.current = &d
}

// feed processes one physical line.
func (s *parseState) feed(line string) {
	switch s.mode {
	case modeSkipOne:
		s.mode = modeIdle
		return
	case modeAwaitBlank:
		s.continueRecord(line)
		return
	}

	for {
		if s.excluded(line) {
			return
		}

		c, ok := classify(line, s.showBadBoxes, s.currentFile(), s.rootDir)
		if !ok {
			s.stack.scan(line)
			s.stack.restore(s.rootFile)
			return
		}

		s.open(c.diag)
		switch c.action {
		case actionSkipNext:
			s.mode = modeSkipOne
			return
		case actionAwaitBlank:
			s.mode = modeAwaitBlank
			return
		case actionAwaitError:
			s.mode = modeAwaitBlank
			s.inError = true
			return
		case actionRescan:
			s.mode = modeIdle
			line = c.rest
		default:
			return
		}
	}
}

func (s *parseState) excluded(line string) bool {
	for _, re := range s.exclude {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// continueRecord folds a line into the open record or closes it.
func (s *parseState) continueRecord(line string) {
	if strings.TrimSpace(line) == "" || (s.inError && startsWithSpace(line)) {
		s.current.Text += "\n"
		s.mode = modeIdle
		s.inError = false
		return
	}

	if m := packageExtraLinePattern.FindStringSubmatch(line); m != nil {
		s.current.Text += "\n(" + m[1] + ")\t" + m[2]
		if m[4] != "" {
			s.current.Text += "."
		}
		if m[3] != "" {
			s.current.Line = atoiOr(m[3], s.current.Line)
		}
		return
	}

	if s.inError {
		if m := errorContextPattern.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
	}
	s.current.Text += "\n" + line
}

// finish flushes the open record. An empty bibliography notice is dropped
// only here, not when a later record finalizes it.
func (s *parseState) finish() []Diagnostic {
	if s.current != nil && !bibEmptyPattern.MatchString(s.current.Text) {
		s.out = append(s.out, *s.current)
	}
	s.current = nil
	return s.out
}

func startsWithSpace(line string) bool {
	if line == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsSpace(r)
}
