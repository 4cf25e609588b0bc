// Package httpnarrate provides a Narrator backed by a chat-completions
// style HTTP endpoint (OpenAI-compatible). One request per narration, with
// its own timeout; any failure maps to narrate.ErrUnavailable so callers
// drop the narrative instead of the analysis.
package httpnarrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/discochess/coach/internal/narrate"
)

// Compile-time check that Client implements narrate.Narrator.
var _ narrate.Narrator = (*Client)(nil)

const (
	systemPrompt = "You are a chess analysis expert providing specific, actionable feedback to help players improve their game."

	// DefaultTimeout bounds one narration call.
	DefaultTimeout = 10 * time.Second

	defaultMaxTokens   = 200
	defaultTemperature = 0.7
)

// Config holds the endpoint settings.
type Config struct {
	// Endpoint is the chat-completions URL.
	Endpoint string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Model is the model name to request.
	Model string

	// Timeout bounds one narration call. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests. Nil means a
	// client with the configured timeout.
	HTTPClient *http.Client

	// Logger receives request failures. Nil means no logging.
	Logger *zap.Logger
}

// Client calls a chat-completions endpoint.
type Client struct {
	cfg    Config
	httpc  *http.Client
	logger *zap.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("httpnarrate: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, httpc: httpc, logger: cfg.Logger}, nil
}

// Wire types for the chat-completions schema.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Narrate sends the structured analysis data and returns the model's
// suggestion text.
func (c *Client) Narrate(ctx context.Context, req narrate.Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", narrate.ErrUnavailable, err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Provide actionable feedback for this chess analysis: " + string(payload)},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", narrate.ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", narrate.ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		c.logger.Warn("narration request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", narrate.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("narration request rejected", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: status %d", narrate.ErrUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", narrate.ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", narrate.ErrUnavailable)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty suggestion", narrate.ErrUnavailable)
	}
	return text, nil
}
