package fetcherimpl

import (
	"context"
	"fmt"
	"sync"

	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/fx"
)

// Browser owns the playwright driver and a single chromium instance. It is
// launched on first use so the service runs fine without a browser as long
// as nobody asks it to fetch.
type Browser struct {
	headless bool
	logger   logger.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

type BrowserOpts struct {
	fx.In
	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
}

func NewBrowser(opts BrowserOpts) *Browser {
	b := &Browser{
		headless: opts.Config.Browser.Headless,
		logger:   opts.Logger.WithComponent("Browser"),
	}
	opts.LC.Append(fx.Hook{OnStop: b.Close})
	return b
}

func (b *Browser) get() (playwright.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil && b.browser.IsConnected() {
		return b.browser, nil
	}

	b.logger.Info("Launching headless browser...")
	if b.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		b.pw = pw
	}

	browser, err := b.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
			"--no-first-run",
			"--disable-gpu",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	b.browser = browser
	b.logger.Info("Browser launched", "version", browser.Version())
	return browser, nil
}

func (b *Browser) Close(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			b.logger.Error("Failed to close browser", "error", err)
		}
		b.browser = nil
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			b.logger.Error("Failed to stop playwright", "error", err)
			return err
		}
		b.pw = nil
		b.logger.Info("Playwright stopped")
	}
	return nil
}
