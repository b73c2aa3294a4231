package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smartShop/pkg/config"
	"smartShop/pkg/logger"
	"smartShop/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 2 * time.Second
	responsesPath  = "/v1/responses"
)

// Client talks to the OpenAI Responses API. Every call is a single attempt bounded by
// the configured timeout; failures come back as Failed outcomes, never as errors.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg config.OpenAIConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Available reports whether the client has credentials. A nil client is never available.
func (c *Client) Available() bool {
	return c != nil && c.apiKey != ""
}

// StructuredComplete asks for a JSON object conforming to schema.
func (c *Client) StructuredComplete(ctx context.Context, system, user, schemaName string, schema map[string]any) Result {
	if !c.Available() {
		return Failed[map[string]any]("model not configured")
	}
	if schemaName == "" || schema == nil {
		return Failed[map[string]any]("schema required")
	}

	req := newResponsesRequest(c.model, system, user)
	req.Text = &textOptions{Format: map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	text, err := c.generate(callCtx, req)
	if err != nil {
		return c.fail(schemaName, err)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return c.fail(schemaName, fmt.Errorf("failed to parse model JSON: %w", err))
	}

	metrics.ModelCalls.WithLabelValues(schemaName, "ok").Inc()
	return Ok(obj)
}

// FreeTextComplete asks for plain text.
func (c *Client) FreeTextComplete(ctx context.Context, system, user string) TextResult {
	if !c.Available() {
		return Failed[string]("model not configured")
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	text, err := c.generate(callCtx, newResponsesRequest(c.model, system, user))
	if err != nil {
		metrics.ModelCalls.WithLabelValues("free_text", "failed").Inc()
		logger.Warn("model text call failed", "error", err)
		return Failed[string](err.Error())
	}

	metrics.ModelCalls.WithLabelValues("free_text", "ok").Inc()
	return Ok(strings.TrimSpace(text))
}

// callContext bounds one model call by the configured timeout and by half of whatever
// the caller has left, so a stalled model never consumes the caller's whole deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline) / 2; remaining < timeout {
			timeout = remaining
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (c *Client) fail(operation string, err error) Result {
	metrics.ModelCalls.WithLabelValues(operation, "failed").Inc()
	logger.Warn("model structured call failed", "schema", operation, "error", err)
	return Failed[map[string]any](err.Error())
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textOptions struct {
	Format map[string]any `json:"format,omitempty"`
}

type responsesRequest struct {
	Model       string       `json:"model"`
	Input       []message    `json:"input"`
	Text        *textOptions `json:"text,omitempty"`
	Temperature float64      `json:"temperature"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func newResponsesRequest(model, system, user string) *responsesRequest {
	return &responsesRequest{
		Model: model,
		Input: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	}
}

func (c *Client) generate(ctx context.Context, body *responsesRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+responsesPath, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out responsesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("openai decode error: %w", err)
	}
	if out.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", out.Refusal)
	}

	text := extractOutputText(out)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no output_text found in response")
	}
	return text, nil
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && c.Text != "" {
				out.WriteString(c.Text)
			}
		}
	}
	return out.String()
}
