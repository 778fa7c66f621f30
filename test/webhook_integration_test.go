package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ccollicutt/texdiag/pkg/output"
	"github.com/ccollicutt/texdiag/pkg/webhook"
)

// receiver records every webhook delivery it gets.
type receiver struct {
	mu       sync.Mutex
	requests []receivedRequest
	status   int
}

type receivedRequest struct {
	Path   string
	Header http.Header
	Report output.Report
}

func newReceiver(t *testing.T, status int) (*receiver, *httptest.Server) {
	t.Helper()
	r := &receiver{status: status}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		var report output.Report
		if err := json.Unmarshal(body, &report); err != nil {
			t.Errorf("webhook body is not a report: %v", err)
		}
		r.mu.Lock()
		r.requests = append(r.requests, receivedRequest{Path: req.URL.Path, Header: req.Header.Clone(), Report: report})
		r.mu.Unlock()
		w.WriteHeader(r.status)
	}))
	t.Cleanup(server.Close)
	return r, server
}

func (r *receiver) received() []receivedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]receivedRequest(nil), r.requests...)
}

// writeWebhookConfig writes a config next to the project fixture so root_file
// resolves, with the given webhooks section appended.
func writeWebhookConfig(t *testing.T, webhooks string) string {
	t.Helper()
	project := filepath.Dir(fixture(t, "project", "main.tex"))
	content := fmt.Sprintf("root_file: %s\nwebhooks:\n%s", filepath.Join(project, "main.tex"), webhooks)
	path := filepath.Join(t.TempDir(), "texdiag.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestIntegration_Webhook_ConfigTriggers(t *testing.T) {
	rcv, server := newReceiver(t, http.StatusOK)

	configFile := writeWebhookConfig(t, fmt.Sprintf(`  - name: issues
    url: %[1]s/issues
  - name: errors
    url: %[1]s/errors
    trigger: on_errors
    token: secret
  - name: disabled
    url: %[1]s/disabled
    trigger: never
`, server.URL))

	_, stderr, code := runCLI(t, "lint", "--config", configFile, fixture(t, "logs", "main.chktex"))
	if code != 0 {
		t.Fatalf("exit code = %d\n%s", code, stderr)
	}

	got := rcv.received()
	if len(got) != 1 || got[0].Path != "/issues" {
		t.Fatalf("lint with warnings only: deliveries = %+v, want /issues", got)
	}
	if !strings.Contains(stderr, "Webhook issues: sent") {
		t.Errorf("stderr = %s", stderr)
	}

	_, _, code = runCLI(t, "build", "--config", configFile, fixture(t, "logs", "latexmk.log"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	got = rcv.received()
	if len(got) != 3 {
		t.Fatalf("got %d deliveries in total, want 3", len(got))
	}

	var errorsHook *receivedRequest
	for i := range got[1:] {
		if got[1+i].Path == "/errors" {
			errorsHook = &got[1+i]
		}
		if got[1+i].Path == "/disabled" {
			t.Error("a never webhook fired")
		}
	}
	if errorsHook == nil {
		t.Fatal("on_errors webhook did not fire for a log with errors")
	}
	if auth := errorsHook.Header.Get("Authorization"); auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if id := errorsHook.Header.Get(webhook.ReportIDHeader); id == "" || id != errorsHook.Report.ID {
		t.Errorf("%s = %q, report ID = %q", webhook.ReportIDHeader, id, errorsHook.Report.ID)
	}
	if errorsHook.Report.Summary.Errors != 1 {
		t.Errorf("delivered Summary = %+v", errorsHook.Report.Summary)
	}
}

func TestIntegration_Webhook_CLIFlag(t *testing.T) {
	rcv, server := newReceiver(t, http.StatusOK)

	_, _, code := runCLI(t, "build",
		"--webhook-url", server.URL,
		"--webhook-token", "cli-token",
		"--webhook-trigger", "always",
		fixture(t, "logs", "uptodate.log"))
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}

	got := rcv.received()
	if len(got) != 1 {
		t.Fatalf("got %d deliveries, want 1 with trigger always", len(got))
	}
	if !got[0].Report.Summary.Skipped {
		t.Error("delivered report should be marked skipped")
	}
	if auth := got[0].Header.Get("Authorization"); auth != "Bearer cli-token" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestIntegration_Webhook_ServerErrorDoesNotFailRun(t *testing.T) {
	_, server := newReceiver(t, http.StatusInternalServerError)

	_, stderr, code := runCLI(t, "lint",
		"--webhook-url", server.URL,
		"--project-root", filepath.Dir(fixture(t, "project", "main.tex")),
		fixture(t, "logs", "main.chktex"))

	if code != 0 {
		t.Errorf("exit code = %d, want 0: a failed delivery must not fail the run", code)
	}
	if !strings.Contains(stderr, "Webhook cli: failed") {
		t.Errorf("stderr = %s", stderr)
	}
}
