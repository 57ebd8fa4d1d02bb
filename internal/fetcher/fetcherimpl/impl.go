package fetcherimpl

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/orgball2608/squirrel-collector/internal/fetcher"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/orgball2608/squirrel-collector/pkg/retry"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/fx"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Resource types that never affect the DOM we read. Image URLs stay in
// the markup even when the request is aborted.
var blockedResources = map[string]bool{
	"image":      true,
	"stylesheet": true,
	"font":       true,
	"media":      true,
}

var errServerStatus = errors.New("server error status")

// Chromium network failures that usually clear up on their own.
var transientNetErrors = []string{
	"net::ERR_CONNECTION_RESET",
	"net::ERR_CONNECTION_CLOSED",
	"net::ERR_CONNECTION_REFUSED",
	"net::ERR_NETWORK_CHANGED",
	"net::ERR_TIMED_OUT",
	"net::ERR_EMPTY_RESPONSE",
}

// retryableNavigation keeps retries for timeouts, dropped connections and
// 5xx answers. DNS failures, bad URLs and closed pages fail at once.
func retryableNavigation(err error) bool {
	if errors.Is(err, playwright.ErrTimeout) || errors.Is(err, errServerStatus) {
		return true
	}
	msg := err.Error()
	for _, code := range transientNetErrors {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

type Opts struct {
	fx.In
	Config  *config.Config
	Logger  logger.Logger
	Browser *Browser
}

type Impl struct {
	browser *Browser
	timeout time.Duration
	logger  logger.Logger
}

var _ fetcher.Fetcher = (*Impl)(nil)

func New(opts Opts) *Impl {
	timeout := opts.Config.Browser.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Impl{
		browser: opts.Browser,
		timeout: timeout,
		logger:  opts.Logger.WithComponent("Fetcher"),
	}
}

func (f *Impl) Fetch(ctx context.Context, url string, opts fetcher.Options) (fetcher.Page, error) {
	browser, err := f.browser.get()
	if err != nil {
		return fetcher.Page{}, err
	}

	brContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Locale:    playwright.String("zh-CN"),
	})
	if err != nil {
		return fetcher.Page{}, fmt.Errorf("could not create browser context: %w", err)
	}
	defer func() {
		_ = brContext.Close()
		debug.FreeOSMemory()
	}()

	if err := blockResources(brContext); err != nil {
		return fetcher.Page{}, fmt.Errorf("failed to set up request interception: %w", err)
	}

	page, err := brContext.NewPage()
	if err != nil {
		return fetcher.Page{}, fmt.Errorf("could not create new page: %w", err)
	}

	timeoutMs := float64(f.timeout.Milliseconds())
	navigate := func(context.Context) (int, error) {
		resp, err := page.Goto(url, playwright.PageGotoOptions{
			Timeout:   playwright.Float(timeoutMs),
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		if err != nil {
			return 0, err
		}
		if resp == nil {
			return 0, nil
		}
		if resp.Status() >= 500 {
			return resp.Status(), fmt.Errorf("%w: %d", errServerStatus, resp.Status())
		}
		return resp.Status(), nil
	}
	status, err := retry.Do(ctx, f.logger, "PageGoto", retry.Navigation(retryableNavigation), navigate)
	if err != nil {
		return fetcher.Page{}, fmt.Errorf("%w: %s: %w", fetcher.ErrNavigation, url, err)
	}
	if status >= 400 {
		// login walls answer 4xx with a usable page
		f.logger.Warn("Page answered with an error status", "url", url, "status", status)
	}

	if opts.WaitSelector != "" {
		if _, err := page.WaitForSelector(opts.WaitSelector, playwright.PageWaitForSelectorOptions{
			Timeout: playwright.Float(timeoutMs / 2),
		}); err != nil {
			// snapshot anyway; extraction reports what is missing
			f.logger.Warn("Selector did not appear", "url", url, "selector", opts.WaitSelector, "error", err)
		}
	}

	for i := 0; i < opts.Scrolls; i++ {
		if ctx.Err() != nil {
			return fetcher.Page{}, ctx.Err()
		}
		if _, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			f.logger.Warn("Scroll failed", "url", url, "error", err)
			break
		}
		page.WaitForTimeout(1200)
	}

	html, err := page.Content()
	if err != nil {
		return fetcher.Page{}, fmt.Errorf("could not read page content: %w", err)
	}

	f.logger.Debug("Page fetched", "url", url, "final_url", page.URL(), "bytes", len(html))
	return fetcher.Page{URL: page.URL(), HTML: html}, nil
}

func blockResources(ctx playwright.BrowserContext) error {
	return ctx.Route("**/*", func(route playwright.Route) {
		if blockedResources[route.Request().ResourceType()] {
			_ = route.Abort()
			return
		}
		_ = route.Continue()
	})
}

var Module = fx.Module("fetcher",
	fx.Provide(
		NewBrowser,
		fx.Annotate(New, fx.As(new(fetcher.Fetcher))),
	),
)
