// Package gemini implements tdassist.Completer using Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/tdassist"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Completer defaults.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1200
)

// Ensure Completer implements tdassist.Completer at compile time.
var _ tdassist.Completer = (*Completer)(nil)

// Completer implements tdassist.Completer using Google Gemini.
type Completer struct {
	client       *genai.Client
	model        string
	systemPrompt string
	temperature  float32
	maxTokens    int32
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

// WithSystemPrompt sets the system instruction.
func WithSystemPrompt(s string) Option {
	return func(c *Completer) {
		c.systemPrompt = s
	}
}

// NewCompleter creates a new Completer.
func NewCompleter(client *genai.Client, opts ...Option) *Completer {
	c := &Completer{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends prompt as a single user turn and returns the response text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", tdassist.Errorf(tdassist.EINVALID, "prompt required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		c.BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", tdassist.Errorf(tdassist.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func (c *Completer) BuildConfig() *genai.GenerateContentConfig {
	temp := c.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: c.maxTokens,
	}
	if c.systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: c.systemPrompt}},
		}
	}
	return config
}
