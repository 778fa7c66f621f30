// Package parser interprets TeX toolchain and ChkTeX output and turns it into
// typed, file-anchored diagnostic records.
//
// The parse functions perform no I/O and keep all mutable state per call, so
// they are safe to run concurrently.
package parser

import (
	"errors"
	"io"
	"log/slog"
	"regexp"
)

// ErrNoRootFile is returned by ParseBuildLog when no root file is known.
// File attribution needs the root file's directory, so the parse cannot run.
var ErrNoRootFile = errors.New("no root file known for build log")

// Kind is the category of a build-log diagnostic.
type Kind string

const (
	// KindTypesetting is an over/underfull box notice.
	KindTypesetting Kind = "typesetting"

	// KindWarning is a package, class, engine or bibliography warning.
	KindWarning Kind = "warning"

	// KindError is an engine or package error.
	KindError Kind = "error"
)

// Diagnostic is a single build-log message.
type Diagnostic struct {
	// Kind categorizes the message.
	Kind Kind `json:"kind"`

	// File is the absolute source path the message belongs to.
	// Empty for messages that have no file, such as missing bibliography entries.
	File string `json:"file"`

	// Line is the 1-based line in File.
	Line int `json:"line"`

	// Text is the message, continuation lines joined with "\n".
	Text string `json:"text"`
}

// BuildResult is the outcome of parsing a build log.
type BuildResult struct {
	// Diagnostics in log order.
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Skipped is set when the build driver reported nothing to do.
	// Diagnostics is empty in that case.
	Skipped bool `json:"skipped"`

	// Driver names the wrapper detected in the log, if any.
	Driver string `json:"driver,omitempty"`

	// RootFile is the root file used for attribution.
	RootFile string `json:"root_file,omitempty"`
}

// Options is the configuration snapshot for one ParseBuildLog call.
type Options struct {
	// DefaultRootFile is used when ParseBuildLog gets no root file.
	DefaultRootFile string

	// Exclude drops any line matching one of the patterns.
	Exclude []*regexp.Regexp

	// ShowBadBoxes enables over/underfull box notices.
	ShowBadBoxes bool

	// Logger receives a summary line per parse. Nil discards.
	Logger *slog.Logger
}

// LintEntry is a single ChkTeX finding.
type LintEntry struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Length int    `json:"length"`
	Kind   string `json:"kind"`
	Code   int    `json:"code"`
	Text   string `json:"text"`
}

// LintOptions configures ParseLinterLog.
type LintOptions struct {
	// SingleFile replaces the file of every entry. Set it when the log was
	// produced for an unsaved buffer rather than a file on disk.
	SingleFile string

	// ProjectRoot resolves relative file paths. Empty leaves them relative.
	ProjectRoot string

	// Logger receives a summary line per parse. Nil discards.
	Logger *slog.Logger
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}
