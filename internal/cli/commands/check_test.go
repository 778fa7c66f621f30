package commands

import (
	"encoding/json"
	"testing"

	"github.com/ccollicutt/texdiag/pkg/analyzer"
	"github.com/ccollicutt/texdiag/pkg/output"
)

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "main.tex", "")
	buildLog := writeFile(t, dir, "main.log", testBuildLog)
	lintLog := writeFile(t, dir, "main.chktex", testLintLog)

	out, err := runCommand(t, NewCheckCommand(),
		"--build", buildLog, "--lint", lintLog, "--root", root, "--project-root", dir, "-o", "json")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if len(report.Files) != 2 {
		t.Fatalf("got %d files, want main.tex and intro.tex", len(report.Files))
	}
	main := report.Files[0]
	if main.File != root || len(main.Findings) != 3 {
		t.Fatalf("main.tex = %+v", main)
	}
	if main.Findings[0].Source != analyzer.SourceLaTeX || main.Findings[2].Source != analyzer.SourceChkTeX {
		t.Error("build findings must come before lint findings")
	}
	if len(report.Metadata.Sources) != 2 {
		t.Errorf("Sources = %v", report.Metadata.Sources)
	}
	if report.Summary.LintFiltered != 1 {
		t.Errorf("LintFiltered = %d, want 1", report.Summary.LintFiltered)
	}
}

func TestRunCheck_BuildOnly(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "main.tex", "")
	buildLog := writeFile(t, dir, "main.log", testWarningOnlyLog)

	if _, err := runCommand(t, NewCheckCommand(), "--build", buildLog, "--root", root); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
}

func TestRunCheck_Errors(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "main.tex", "")
	buildLog := writeFile(t, dir, "main.log", testBuildLog)

	if _, err := runCommand(t, NewCheckCommand(), "--root", root); err == nil {
		t.Error("Expected error without --build")
	}
	if _, err := runCommand(t, NewCheckCommand(), "--build", buildLog, "--root", root, "--lint", "/nonexistent.chktex"); err == nil {
		t.Error("Expected error for a missing lint log")
	}
	if _, err := runCommand(t, NewCheckCommand(), "--build", "/nonexistent.log", "--root", root); err == nil {
		t.Error("Expected error for a missing build log")
	}
}
