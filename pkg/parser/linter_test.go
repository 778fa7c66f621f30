package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinterLog(t *testing.T) {
	entries := ParseLinterLog("a.tex:3:5:4:Warning:10:some message", LintOptions{ProjectRoot: "/p"})

	require.Len(t, entries, 1)
	assert.Equal(t, LintEntry{
		File:   "/p/a.tex",
		Line:   3,
		Column: 5,
		Length: 4,
		Kind:   "warning",
		Code:   10,
		Text:   "10: some message",
	}, entries[0])
}

func TestParseLinterLog_MultipleLines(t *testing.T) {
	log := "ChkTeX v1.7.8 - Copyright 1995-96 Jens T. Berger Thielemann.\r\n" +
		"main.tex:1:1:2:Warning:24:Delete this space to maintain correct pagereferences.\r\n" +
		"/abs/ch1.tex:10:20:1:Error:17:Number of `(' doesn't match the number of `)'!\r\n" +
		"garbage line\r\n"

	entries := ParseLinterLog(log, LintOptions{ProjectRoot: "/p"})

	require.Len(t, entries, 2)
	assert.Equal(t, "/p/main.tex", entries[0].File)
	assert.Equal(t, "24: Delete this space to maintain correct pagereferences.", entries[0].Text)
	assert.Equal(t, "/abs/ch1.tex", entries[1].File, "absolute paths are not re-rooted")
	assert.Equal(t, "error", entries[1].Kind)
	assert.Equal(t, 17, entries[1].Code)
}

func TestParseLinterLog_SingleFileOverride(t *testing.T) {
	log := "/tmp/texdiag-123.tex:2:1:3:Message:1:Command terminated with space.\n" +
		"/tmp/texdiag-123.tex:4:7:1:Warning:8:Wrong length of dash may have been used."

	entries := ParseLinterLog(log, LintOptions{SingleFile: "/p/chapter.tex", ProjectRoot: "/elsewhere"})

	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "/p/chapter.tex", e.File)
	}
	assert.Equal(t, "message", entries[0].Kind)
}

func TestParseLinterLog_RelativeWithoutProjectRoot(t *testing.T) {
	entries := ParseLinterLog("a.tex:1:1:1:Warning:2:x", LintOptions{})
	require.Len(t, entries, 1)
	assert.Equal(t, "a.tex", entries[0].File)
}

func TestParseLinterLog_Empty(t *testing.T) {
	entries := ParseLinterLog("", LintOptions{})
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
