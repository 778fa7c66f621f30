// Package webhook delivers diagnostic reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/texdiag/pkg/output"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// ReportIDHeader carries the report ID so receivers can drop duplicates.
	ReportIDHeader = "X-Texdiag-Report-Id"

	userAgent    = "texdiag-webhook"
	maxBodyBytes = 1024 * 1024
	maxParallel  = 4
)

// Client sends reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// Target is one webhook endpoint.
type Target struct {
	Name    string
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Label returns the name used when reporting on the target.
func (t Target) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.URL
}

// Response contains the result of a webhook request.
type Response struct {
	Target     Target
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was delivered (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts report to a single target. Failures are returned in the
// Response rather than as an error so a broken endpoint never fails a run.
func (c *Client) Send(ctx context.Context, report *output.Report, target Target) *Response {
	payload, err := json.Marshal(report)
	if err != nil {
		return &Response{Target: target, Error: fmt.Errorf("failed to marshal report: %w", err)}
	}
	return c.post(ctx, payload, report.ID, target)
}

// SendAll posts report to every target, a few at a time. Responses are
// returned in target order.
func (c *Client) SendAll(ctx context.Context, report *output.Report, targets []Target) []*Response {
	responses := make([]*Response, len(targets))
	if len(targets) == 0 {
		return responses
	}

	payload, err := json.Marshal(report)
	if err != nil {
		for i, t := range targets {
			responses[i] = &Response{Target: t, Error: fmt.Errorf("failed to marshal report: %w", err)}
		}
		return responses
	}

	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			responses[i] = c.post(ctx, payload, report.ID, t)
			return nil
		})
	}
	_ = g.Wait()

	return responses
}

func (c *Client) post(ctx context.Context, payload []byte, reportID string, target Target) *Response {
	start := time.Now()
	resp := &Response{Target: target}
	defer func() { resp.Duration = time.Since(start) }()

	timeout := target.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(payload))
	if err != nil {
		resp.Error = fmt.Errorf("failed to create request: %w", err)
		return resp
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if reportID != "" {
		req.Header.Set(ReportIDHeader, reportID)
	}
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		resp.Error = fmt.Errorf("request failed: %w", err)
		return resp
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		resp.Error = fmt.Errorf("failed to read response: %w", err)
		return resp
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}
