package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tdassist"
)

// BrowserFactory starts a browser session.
type BrowserFactory func(ctx context.Context, headless bool) (tdassist.Browser, error)

// CompleterFactory builds a language model client.
type CompleterFactory func(ctx context.Context, cfg CompleterConfig) (tdassist.Completer, error)

// Supported LLM providers.
const (
	ProviderXAI       = "xai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// CompleterConfig selects and configures a language model client.
type CompleterConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Runs     tdassist.RunService
	Sitemaps tdassist.SitemapService

	OpenBrowser     BrowserFactory
	NewCompleter    CompleterFactory
	NewBundleWriter func(dir string) tdassist.BundleWriter
	Now             func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFormat string `default:"text" enum:"text,json" help:"Log format (text, json)"`

	Discover DiscoverCmd `cmd:"" help:"Log in to a web application and crawl its pages"`
	QnA      QnACmd      `cmd:"" name:"qna" help:"Generate domain and technical questions for a stored run"`
	Runs     RunsCmd     `cmd:"" help:"List stored discovery runs"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL string `arg:"" optional:"" help:"Start URL (login page or app root); defaults to the profile's login_url"`

	Username string `help:"Login username" env:"TDASSIST_USERNAME"`
	Password string `help:"Login password" env:"TDASSIST_PASSWORD"`

	Profile            string `help:"Selector profile JSON file"`
	UsernameSel        string `name:"username-sel" help:"CSS selector of the username field"`
	PasswordSel        string `name:"password-sel" help:"CSS selector of the password field"`
	SubmitSel          string `name:"submit-sel" help:"CSS selector of the submit button"`
	PostLoginIndicator string `name:"post-login-indicator" help:"CSS selector that appears after a successful login"`

	MaxPages    int           `default:"40" help:"Maximum number of pages to record"`
	Wait        time.Duration `default:"500ms" help:"Pause after each page load"`
	NavTimeout  time.Duration `default:"12s" help:"Timeout of each navigation attempt"`
	Screenshots bool          `help:"Capture a full-page screenshot of every page"`
	SamePath    bool          `help:"Only follow links under the seed's directory"`
	Sitemap     bool          `help:"Also enqueue in-scope URLs listed in the site's sitemaps"`
	Rate        float64       `default:"0" help:"Navigations per second per host (0 = unlimited)"`
	Extractor   string        `default:"text" enum:"text,main" help:"Text extraction: all visible text (text) or main content only (main)"`
	Headful     bool          `help:"Show the browser window"`

	Out        string `default:"." help:"Directory receiving the discovery_results bundle"`
	Authorized bool   `help:"Confirm you are authorized to test the target application"`
}

// QnACmd is the "qna" subcommand.
type QnACmd struct {
	RunID string `arg:"" help:"Run ID (see 'tdassist runs')"`

	Provider    string `default:"xai" enum:"xai,gemini,anthropic" help:"LLM provider (xai, gemini, anthropic)"`
	Model       string `help:"Model name (provider default if empty)"`
	Mode        string `default:"both" enum:"both,domain,technical" help:"Question categories to generate"`
	MinChars    int    `default:"500" help:"Skip pages with less extracted text"`
	Concurrency int    `default:"1" help:"Pages processed in parallel"`
	Out         string `default:"." help:"Directory receiving the page_questions bundle"`

	XAIKey       string `name:"xai-api-key" env:"XAI_API_KEY" hidden:"" help:"xAI API key"`
	XAIBase      string `name:"xai-api-base" env:"XAI_API_BASE" hidden:"" help:"xAI-compatible API base URL"`
	GeminiKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" hidden:"" help:"Gemini API key"`
	AnthropicKey string `name:"anthropic-api-key" env:"ANTHROPIC_API_KEY" hidden:"" help:"Anthropic API key"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `default:"20" help:"Maximum number of runs to list"`
}
