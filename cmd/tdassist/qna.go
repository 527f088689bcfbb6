package main

import (
	"fmt"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/qna"
	tdslog "github.com/fwojciec/tdassist/slog"
)

// Run executes the qna command.
func (c *QnACmd) Run(deps *Dependencies) error {
	mode, err := tdassist.ParseMode(c.Mode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}

	cfg, err := c.completerConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}

	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		if tdassist.ErrorCode(err) == tdassist.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'tdassist runs' to see stored runs.\n", c.RunID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}

	completer, err := deps.NewCompleter(deps.Ctx, cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}

	batch := &qna.Batch{
		Generator: qna.NewGenerator(
			tdslog.NewLoggingCompleter(completer, deps.Logger),
			qna.WithLogger(deps.Logger),
		),
		Mode:        mode,
		MinChars:    c.MinChars,
		Concurrency: c.Concurrency,
		Now:         deps.Now,
		Progress: func(done, total int) {
			fmt.Fprintf(deps.Stdout, "  [%d/%d] pages\n", done, total)
		},
	}

	bundle, err := batch.Run(deps.Ctx, run.Results)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error generating questions: %v\n", err)
		return err
	}

	if err := deps.Runs.SaveQnA(deps.Ctx, run.ID, bundle); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}
	if err := deps.NewBundleWriter(c.Out).WriteQnA(deps.Ctx, bundle); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing bundle: %v\n", err)
		return err
	}

	var questions, skipped, failed int
	for _, item := range bundle.Items {
		questions += len(item.DomainQuestions) + len(item.TechnicalQuestions)
		if item.Skipped {
			skipped++
		}
		if item.Error != "" {
			failed++
		}
	}
	fmt.Fprintf(deps.Stdout, "Generated %d questions for %d pages (%d skipped, %d failed)\n",
		questions, len(bundle.Items), skipped, failed)

	return nil
}

// completerConfig picks the API key of the selected provider.
func (c *QnACmd) completerConfig() (CompleterConfig, error) {
	cfg := CompleterConfig{Provider: c.Provider, Model: c.Model}

	var env string
	switch c.Provider {
	case ProviderGemini:
		cfg.APIKey, env = c.GeminiKey, "GEMINI_API_KEY"
	case ProviderAnthropic:
		cfg.APIKey, env = c.AnthropicKey, "ANTHROPIC_API_KEY"
	default:
		cfg.Provider = ProviderXAI
		cfg.APIKey, env = c.XAIKey, "XAI_API_KEY"
		cfg.BaseURL = c.XAIBase
	}

	if cfg.APIKey == "" {
		return cfg, tdassist.Errorf(tdassist.EINVALID, "API key required: set %s", env)
	}
	return cfg, nil
}
