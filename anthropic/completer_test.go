package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Completer implements tdassist.Completer at compile time.
var _ tdassist.Completer = (*anthropic.Completer)(nil)

const messageResponse = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-haiku-20241022",
  "content": [
    {"type": "text", "text": "Here you go: "},
    {"type": "text", "text": "{\"domain_questions\":[]}"}
  ],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 12, "output_tokens": 8}
}`

func TestNewCompleter(t *testing.T) {
	t.Parallel()

	_, err := anthropic.NewCompleter("")

	assert.Equal(t, tdassist.EINVALID, tdassist.ErrorCode(err))
}

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends one user message and joins text blocks", func(t *testing.T) {
		t.Parallel()

		var path, apiKey string
		var body map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			apiKey = r.Header.Get("X-Api-Key")
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(messageResponse))
		}))
		defer server.Close()

		c, err := anthropic.NewCompleter("test-key",
			anthropic.WithBaseURL(server.URL),
			anthropic.WithSystemPrompt("You are a precise analyst."),
		)
		require.NoError(t, err)

		out, err := c.Complete(context.Background(), "make questions")

		require.NoError(t, err)
		assert.Equal(t, `Here you go: {"domain_questions":[]}`, out)
		assert.True(t, strings.HasSuffix(path, "/v1/messages"), path)
		assert.Equal(t, "test-key", apiKey)
		assert.Equal(t, anthropic.DefaultModel, body["model"])
		assert.EqualValues(t, 1200, body["max_tokens"])
		assert.InDelta(t, 0.3, body["temperature"], 1e-9)
		assert.NotEmpty(t, body["system"])
		require.Len(t, body["messages"], 1)
	})

	t.Run("returns API errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad model"}}`))
		}))
		defer server.Close()

		c, err := anthropic.NewCompleter("k", anthropic.WithBaseURL(server.URL), anthropic.WithMaxRetries(0))
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), "p")

		require.Error(t, err)
	})
}
