package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ccollicutt/texdiag/pkg/config"
)

func TestWatchLoop_Debounces(t *testing.T) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, "/p/main.log", 100*time.Millisecond, func() { runs.Add(1) })
	}()

	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: "/p/main.log", Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: "/p/other.log", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "/p/main.log", Op: fsnotify.Chmod}
	errs <- errors.New("transient")

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Errorf("run called %d times, want 1 for a burst of writes", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchLoop() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watchLoop did not stop on cancel")
	}
}

func TestWatchLoop_ClosedEvents(t *testing.T) {
	events := make(chan fsnotify.Event)
	close(events)

	err := watchLoop(context.Background(), events, make(chan error), "/p/main.log", time.Millisecond, func() {})
	if err != nil {
		t.Errorf("watchLoop() error = %v", err)
	}
}

func TestRunWatch_InvalidDebounce(t *testing.T) {
	if _, err := runCommand(t, NewWatchCommand(), "--debounce", "0s", "--root", "/p/main.tex", "main.log"); err == nil {
		t.Error("Expected error for zero debounce")
	}
}

func TestRunWatch_ReportsAndStops(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "main.tex", "")
	logFile := writeFile(t, dir, "main.log", testBuildLog)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	t.Setenv(config.EnvRootFile, "")
	t.Setenv(config.EnvProjectRoot, "")

	cmd := NewWatchCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--root", root, logFile})

	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Undefined control sequence.") {
		t.Errorf("initial report missing:\n%s", got)
	}
}
