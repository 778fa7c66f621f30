package detector

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestDetector_DetectFromLines_Latexmk(t *testing.T) {
	lines := []string{
		"Latexmk: applying rule 'pdflatex'...",
		"This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023) (preloaded format=pdflatex)",
		"(./main.tex",
		"Output written on main.pdf (3 pages, 51234 bytes).",
		"Latexmk: applying rule 'biber'...",
		"Latexmk: applying rule 'pdflatex'...",
		"This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023) (preloaded format=pdflatex)",
		"Output written on main.pdf (4 pages, 61234 bytes).",
	}

	result := New().DetectFromLines(lines)

	if result.Driver != "latexmk" {
		t.Errorf("Driver = %q, want latexmk", result.Driver)
	}
	if result.Engine != "pdfTeX" {
		t.Errorf("Engine = %q, want pdfTeX", result.Engine)
	}
	if result.EngineVersion != "3.141592653-2.6-1.40.25" {
		t.Errorf("EngineVersion = %q", result.EngineVersion)
	}
	if result.EngineRuns != 2 {
		t.Errorf("EngineRuns = %d, want 2", result.EngineRuns)
	}
	if result.OutputFile != "main.pdf" || result.Pages != 4 {
		t.Errorf("output = %q (%d pages), want main.pdf (4 pages)", result.OutputFile, result.Pages)
	}
	if !result.Succeeded() {
		t.Error("Succeeded() = false")
	}
}

func TestDetector_DetectFromLines_Engines(t *testing.T) {
	d := New()
	for _, e := range DefaultEngines() {
		for _, example := range e.Examples {
			result := d.DetectFromLines([]string{example})
			if result.Engine != e.Name {
				t.Errorf("%q detected as %q, want %q", example, result.Engine, e.Name)
			}
		}
	}
}

func TestDetector_DetectFromLines_SinglePage(t *testing.T) {
	result := New().DetectFromLines([]string{"Output written on paper.pdf (1 page, 1234 bytes)."})
	if result.OutputFile != "paper.pdf" || result.Pages != 1 {
		t.Errorf("output = %q (%d pages)", result.OutputFile, result.Pages)
	}
	if result.Driver != "" {
		t.Errorf("Driver = %q, want none", result.Driver)
	}
	if result.HasEngine() {
		t.Error("HasEngine() = true without a banner")
	}
}

func TestDetector_DetectFromLines_Fatal(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"pdf", "!  ==> Fatal error occurred, no output PDF file produced!"},
		{"emergency", "! Emergency stop."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().DetectFromLines([]string{"This is XeTeX, Version 3.14", tt.line})
			if !result.Fatal {
				t.Error("Fatal = false")
			}
			if result.Succeeded() {
				t.Error("Succeeded() = true for a fatal run")
			}
		})
	}
}

func TestDetector_DetectFromLines_NoPages(t *testing.T) {
	result := New().DetectFromLines([]string{
		"Output written on old.pdf (2 pages, 10 bytes).",
		"No pages of output.",
	})
	if !result.NoOutput || result.OutputFile != "" {
		t.Errorf("NoOutput = %v, OutputFile = %q", result.NoOutput, result.OutputFile)
	}
}

func TestDetector_DetectFromLines_UpToDate(t *testing.T) {
	result := New().DetectFromLines([]string{"Latexmk: All targets (main.pdf) are up-to-date"})
	if !result.UpToDate {
		t.Error("UpToDate = false")
	}

	result = New().DetectFromLines([]string{"", "Latexmk: All targets (main.pdf) are up-to-date"})
	if result.UpToDate {
		t.Error("only the first line counts")
	}
}

func TestDetector_DetectFromLines_Empty(t *testing.T) {
	result := New().DetectFromLines(nil)
	if result.Lines != 0 || result.HasEngine() {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestDetector_WithEngines(t *testing.T) {
	custom := &EngineFormat{Name: "custom", PatternStr: `^This is Custom, Version (\S+)`}
	custom.Pattern = regexpMust(t, custom.PatternStr)

	d := New(WithEngines([]*EngineFormat{custom}))
	result := d.DetectFromLines([]string{"This is Custom, Version 9"})
	if result.Engine != "custom" || result.EngineVersion != "9" {
		t.Errorf("Engine = %q %q", result.Engine, result.EngineVersion)
	}
	if New(WithEngines(nil)).DetectFromLines([]string{"This is TeX, Version 3"}).Engine != "TeX" {
		t.Error("WithEngines(nil) should keep the defaults")
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	content := "This is LuaHBTeX, Version 1.17.0 (TeX Live 2023)\r\n" +
		"Output written on main.pdf (2 pages, 999 bytes).\r\n"
	path := filepath.Join(t.TempDir(), "main.log")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New().DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}
	if result.Engine != "LuaHBTeX" || result.Pages != 2 {
		t.Errorf("result = %+v", result)
	}
}

func TestDetector_DetectFromFile_NotFound(t *testing.T) {
	if _, err := New().DetectFromFile(context.Background(), "/nonexistent/main.log"); err == nil {
		t.Error("DetectFromFile() expected error for missing file")
	}
}

func regexpMust(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}
	return re
}
