package parser

import (
	"regexp"
	"strings"
)

var (
	// A path right after "(": drive letter, "." or "/" rooted.
	stackPathPattern = regexp.MustCompile(`^"?((?:(?:[a-zA-Z]:|\.|/)?(?:/|\\\\?))[^"()\[\]]*)`)

	// MiKTeX prints bare "name.ext" without a directory.
	stackBareFilePattern = regexp.MustCompile(`^"?([^"()\[\]]*\.[a-z]{3,})`)
)

// fileStack mirrors the engine's "(file ... )" notation. Parentheses that do
// not open a file are counted in nested so their closers are absorbed.
type fileStack struct {
	files  []string
	nested int
}

func newFileStack(root string) *fileStack {
	return &fileStack{files: []string{root}}
}

func (s *fileStack) push(file string) {
	s.files = append(s.files, file)
}

func (s *fileStack) pop() {
	if len(s.files) > 0 {
		s.files = s.files[:len(s.files)-1]
	}
}

// top returns the innermost open file, or "" when the stack is empty.
func (s *fileStack) top() string {
	if len(s.files) == 0 {
		return ""
	}
	return s.files[len(s.files)-1]
}

func (s *fileStack) depth() int {
	return len(s.files)
}

// scan applies every paren marker in line, leftmost first.
func (s *fileStack) scan(line string) {
	for {
		i := strings.IndexAny(line, "()")
		if i < 0 {
			return
		}
		marker := line[i]
		line = line[i+1:]

		if marker == ')' {
			if s.nested > 0 {
				s.nested--
			} else {
				s.pop()
			}
			continue
		}

		if m := stackPathPattern.FindStringSubmatch(line); m != nil {
			s.push(strings.TrimSpace(m[1]))
		} else if m := stackBareFilePattern.FindStringSubmatch(line); m != nil {
			s.push("./" + strings.TrimSpace(m[1]))
		} else {
			s.nested++
		}
	}
}

// restore puts root back if the stack ran empty. Unbalanced closers are common
// in real logs.
func (s *fileStack) restore(root string) {
	if len(s.files) == 0 {
		s.files = append(s.files, root)
	}
}
