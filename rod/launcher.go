package rod

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultActionTimeout bounds element lookups and interactions.
const DefaultActionTimeout = 5 * time.Second

type config struct {
	headless      bool
	bin           string
	actionTimeout time.Duration
}

// Option configures a Session.
type Option func(*config)

// WithActionTimeout sets the timeout for filling, clicking and key presses.
// Defaults to DefaultActionTimeout (5s) if not specified.
func WithActionTimeout(d time.Duration) Option {
	return func(c *config) {
		c.actionTimeout = d
	}
}

// WithHeadless toggles headless mode. Sessions are headless by default.
func WithHeadless(headless bool) Option {
	return func(c *config) {
		c.headless = headless
	}
}

// WithBin sets the Chrome executable. By default the launcher finds or
// downloads one.
func WithBin(path string) Option {
	return func(c *config) {
		c.bin = path
	}
}

// launch starts a browser process with stability flags and connects to it.
func launch(cfg config) (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		NoSandbox(true).
		Leakless(true).
		Headless(cfg.headless)
	if cfg.bin != "" {
		lnchr = lnchr.Bin(cfg.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return browser, lnchr, nil
}
