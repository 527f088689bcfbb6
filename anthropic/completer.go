// Package anthropic implements tdassist.Completer using the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/tdassist"
)

// Completer defaults.
const (
	DefaultModel       = "claude-3-5-haiku-20241022"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1200
)

// Ensure Completer implements tdassist.Completer at compile time.
var _ tdassist.Completer = (*Completer)(nil)

// Completer sends prompts to Claude models.
type Completer struct {
	client       anthropic.Client
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int64
	requestOpts  []option.RequestOption
}

// Option configures a Completer.
type Option func(*Completer)

// WithModel sets the model name.
func WithModel(m string) Option {
	return func(c *Completer) {
		if m != "" {
			c.model = m
		}
	}
}

// WithSystemPrompt sets the system prompt.
func WithSystemPrompt(s string) Option {
	return func(c *Completer) {
		c.systemPrompt = s
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *Completer) {
		c.requestOpts = append(c.requestOpts, option.WithBaseURL(u))
	}
}

// WithMaxRetries sets how often failed requests are retried.
func WithMaxRetries(n int) Option {
	return func(c *Completer) {
		c.requestOpts = append(c.requestOpts, option.WithMaxRetries(n))
	}
}

// NewCompleter creates a Completer authenticating with apiKey.
// Returns EINVALID if apiKey is empty.
func NewCompleter(apiKey string, opts ...Option) (*Completer, error) {
	if apiKey == "" {
		return nil, tdassist.Errorf(tdassist.EINVALID, "API key required")
	}
	c := &Completer{
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, c.requestOpts...)...)
	return c, nil
}

// Complete sends prompt as a single user message and returns the text
// blocks of the reply.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.systemPrompt}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
