// Package xai implements tdassist.Completer over an OpenAI-compatible
// chat-completions endpoint, xAI's Grok API by default.
package xai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/tdassist"
)

// Client defaults.
const (
	DefaultBaseURL     = "https://api.x.ai/v1"
	DefaultModel       = "grok-2-latest"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1200
	DefaultTimeout     = 60 * time.Second

	// maxErrorBody bounds the response body quoted in errors.
	maxErrorBody = 200
)

// Ensure Client implements tdassist.Completer at compile time.
var _ tdassist.Completer = (*Client)(nil)

// Client sends prompts to a chat-completions endpoint.
type Client struct {
	client       *http.Client
	apiKey       string
	baseURL      string
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
	timeout      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API base URL; "/chat/completions" is appended.
// A URL that already ends in "/chat/completions" is used as is.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithModel sets the model name.
func WithModel(m string) Option {
	return func(c *Client) {
		c.model = m
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = t
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// WithSystemPrompt sets the system message.
func WithSystemPrompt(s string) Option {
	return func(c *Client) {
		c.systemPrompt = s
	}
}

// WithTimeout sets the timeout of each HTTP request.
// Defaults to DefaultTimeout (60s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a Client authenticating with apiKey.
// Returns EINVALID if apiKey is empty.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, tdassist.Errorf(tdassist.EINVALID, "API key required")
	}
	c := &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = &http.Client{Timeout: c.timeout}
	return c, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as the user message and returns the content of the
// first choice. A non-200 response is an EINTERNAL error quoting the start
// of the response body.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var messages []message
	if c.systemPrompt != "" {
		messages = append(messages, message{Role: "system", Content: c.systemPrompt})
	}
	messages = append(messages, message{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", tdassist.Errorf(tdassist.EINTERNAL, "chat completion failed with HTTP %d: %s",
			resp.StatusCode, tdassist.Truncate(string(data), maxErrorBody))
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", tdassist.Errorf(tdassist.EINTERNAL, "decoding chat completion: %v", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) endpoint() string {
	base := strings.TrimRight(c.baseURL, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}
