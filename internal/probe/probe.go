// Package probe talks to OpenAI-compatible provider APIs: it enumerates the
// models an endpoint offers and runs a minimal live round-trip against one
// model. Remote providers return wildly inconsistent response shapes, so the
// whole package is built around tolerant parsing; upstream failures are
// captured into result values, never surfaced as errors to the HTTP layer.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"provmgr/internal/logging"
	"provmgr/internal/utils"
)

// DefaultTimeout bounds every outbound call. The upstream APIs are untrusted
// third parties; an unresponsive one must not hold a request open forever.
const DefaultTimeout = 30 * time.Second

const (
	chatEndpoint  = "/v1/chat/completions"
	testPrompt    = "Hi"
	testMaxTokens = 16
	previewMaxLen = 500
)

// Client probes provider endpoints.
type Client struct {
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New creates a probe client.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TestResult is the structured outcome of a connection test. A failed test
// is a successful function call: Success false, Error set, and the model id
// echoed back so the UI can attribute the result.
type TestResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Model      string `json:"model,omitempty"`
	LatencyMS  int64  `json:"latency,omitempty"`
	RawPreview string `json:"rawPreview,omitempty"`
}

// TestConnection verifies that a specific model behind baseURL answers a
// minimal prompt. It measures wall-clock latency from send to full response.
func (c *Client) TestConnection(ctx context.Context, baseURL, apiKey, modelID string) *TestResult {
	if missing := missingFields(baseURL, apiKey, modelID); len(missing) > 0 {
		return &TestResult{
			Model: modelID,
			Error: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		}
	}

	endpoint := utils.JoinEndpoint(baseURL, chatEndpoint)
	payload, err := json.Marshal(map[string]any{
		"model":      modelID,
		"messages":   []map[string]string{{"role": "user", "content": testPrompt}},
		"max_tokens": testMaxTokens,
		"stream":     false,
	})
	if err != nil {
		return &TestResult{Model: modelID, Error: fmt.Sprintf("failed to build request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &TestResult{Model: modelID, Error: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &TestResult{
			Model:     modelID,
			LatencyMS: time.Since(start).Milliseconds(),
			Error:     fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return &TestResult{
			Model:     modelID,
			LatencyMS: latency,
			Error:     fmt.Sprintf("failed to read response: %v", err),
		}
	}

	result := &TestResult{
		Model:      modelID,
		LatencyMS:  latency,
		RawPreview: truncate(string(body), previewMaxLen),
	}

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		return result
	}

	root, ok := parseResponseBody(body)
	if !ok {
		result.Error = "failed to parse response as JSON or SSE"
		return result
	}

	message, ok := extractReply(root)
	if !ok {
		result.Error = "response did not contain a recognizable message"
		return result
	}

	result.Success = true
	result.Message = message
	return result
}

func missingFields(baseURL, apiKey, modelID string) []string {
	var missing []string
	if baseURL == "" {
		missing = append(missing, "baseURL")
	}
	if apiKey == "" {
		missing = append(missing, "apiKey")
	}
	if modelID == "" {
		missing = append(missing, "modelId")
	}
	return missing
}

// parseResponseBody parses body as JSON, falling back to SSE framing for
// providers that stream even when asked not to.
func parseResponseBody(body []byte) (gjson.Result, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return gjson.Result{}, false
	}
	if gjson.ValidBytes(trimmed) {
		return gjson.ParseBytes(trimmed), true
	}
	if payload, ok := firstSSEPayload(trimmed); ok {
		return payload, true
	}
	logging.Debug("Probe", "response body is neither JSON nor SSE: %s", truncate(string(trimmed), 120))
	return gjson.Result{}, false
}

// extractReply pulls a human-readable reply out of a parsed response body.
// The attempt order encodes de facto compatibility with several real-world
// providers and must not be reordered.
func extractReply(root gjson.Result) (string, bool) {
	if v := root.Get("choices.0.message.content"); v.Exists() && v.String() != "" {
		return v.String(), true
	}
	if v := root.Get("choices.0.text"); v.Exists() && v.String() != "" {
		return v.String(), true
	}
	if v := root.Get("choices.0.delta.content"); v.Exists() && v.String() != "" {
		return v.String(), true
	}
	// A message object with no usable content still proves the model
	// answered; surface its raw JSON.
	if v := root.Get("choices.0.message"); v.Exists() {
		return v.Raw, true
	}
	for _, field := range []string{"response", "output", "result"} {
		if v := root.Get(field); v.Exists() && v.String() != "" {
			return v.String(), true
		}
	}
	if choices := root.Get("choices"); choices.IsArray() && len(choices.Array()) > 0 {
		return "connected, model responded with no text content", true
	}
	return "", false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
