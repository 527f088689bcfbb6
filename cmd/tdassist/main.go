package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/anthropic"
	"github.com/fwojciec/tdassist/fs"
	"github.com/fwojciec/tdassist/gemini"
	tdhttp "github.com/fwojciec/tdassist/http"
	"github.com/fwojciec/tdassist/qna"
	"github.com/fwojciec/tdassist/rod"
	tdslog "github.com/fwojciec/tdassist/slog"
	"github.com/fwojciec/tdassist/sqlite"
	"github.com/fwojciec/tdassist/xai"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Factories for the collaborators that reach outside the process.
	// Replaced in end-to-end tests.
	OpenBrowser     BrowserFactory
	NewCompleter    CompleterFactory
	Sitemaps        tdassist.SitemapService
	NewBundleWriter func(dir string) tdassist.BundleWriter
	Now             func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:       defaultDBPath(),
		OpenBrowser:  openBrowser,
		NewCompleter: newCompleter,
		Sitemaps:     tdhttp.NewSitemapService(nil),
		NewBundleWriter: func(dir string) tdassist.BundleWriter {
			return fs.NewBundleWriter(dir)
		},
		Now: time.Now,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	parser, err := kong.New(cli,
		kong.Name("tdassist"),
		kong.Description("Discover a web application's pages and generate modernization questions"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tdassist --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.LogLevel, cli.LogFormat)

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TDASSIST_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	runs := sqlite.NewRunService(m.DB)
	if m.Now != nil {
		runs.Now = m.Now
	}

	deps.Logger = logger
	deps.Runs = runs
	deps.Sitemaps = tdslog.NewLoggingSitemapService(m.Sitemaps, logger)
	deps.OpenBrowser = m.OpenBrowser
	deps.NewCompleter = m.NewCompleter
	deps.NewBundleWriter = m.NewBundleWriter
	deps.Now = m.Now

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("TDASSIST_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tdassist.db"
	}
	dir := filepath.Join(home, ".tdassist")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "tdassist.db")
}

// openBrowser launches a Chrome session through rod.
func openBrowser(_ context.Context, headless bool) (tdassist.Browser, error) {
	return rod.NewSession(rod.WithHeadless(headless))
}

// newCompleter builds the chat-completion client for cfg.Provider.
func newCompleter(ctx context.Context, cfg CompleterConfig) (tdassist.Completer, error) {
	switch cfg.Provider {
	case ProviderGemini:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewCompleter(client,
			gemini.WithModel(cfg.Model),
			gemini.WithSystemPrompt(qna.SystemPrompt),
		), nil

	case ProviderAnthropic:
		opts := []anthropic.Option{
			anthropic.WithModel(cfg.Model),
			anthropic.WithSystemPrompt(qna.SystemPrompt),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.NewCompleter(cfg.APIKey, opts...)

	default:
		opts := []xai.Option{xai.WithSystemPrompt(qna.SystemPrompt)}
		if cfg.Model != "" {
			opts = append(opts, xai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, xai.WithBaseURL(cfg.BaseURL))
		}
		return xai.NewClient(cfg.APIKey, opts...)
	}
}
