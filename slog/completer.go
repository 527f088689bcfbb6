package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tdassist"
)

// Ensure LoggingCompleter implements tdassist.Completer.
var _ tdassist.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with logging of request and response
// sizes. Prompt and reply text are not logged.
type LoggingCompleter struct {
	next   tdassist.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next tdassist.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the call.
func (c *LoggingCompleter) Complete(ctx context.Context, prompt string) (reply string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("completion",
			"prompt_chars", len(prompt),
			"reply_chars", len(reply),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, prompt)
}
