package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/texdiag/pkg/config"
)

const testBuildLog = `This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023) (preloaded format=pdflatex)
(./main.tex
LaTeX Warning: Reference ` + "`fig:x'" + ` on page 1 undefined on input line 7.

./main.tex:12: Undefined control sequence.
l.12 \foo

)
Output written on main.pdf (1 page, 1234 bytes).
`

const testWarningOnlyLog = `(./main.tex
LaTeX Warning: Label(s) may have changed. Rerun to get cross-references right.

)
Output written on main.pdf (1 page, 1234 bytes).
`

const testLintLog = `main.tex:5:10:1:Warning:24:Delete this space to maintain correct pagereferences.
refs.bib:1:1:1:Warning:1:Command terminated with space.
chapters/intro.tex:3:2:3:Message:36:You should put a space in front of parenthesis.
`

// writeFile writes content to name inside dir and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// runCommand executes cmd with args and returns what it printed.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvRootFile, "")
	t.Setenv(config.EnvProjectRoot, "")
	ExitCode = 0

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
