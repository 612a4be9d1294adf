package acquisition

import (
	"context"
	"math/rand/v2"
	"time"

	"fbref-scraper/internal/components/telemetry"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cockroachdb/errors"
)

const (
	report_browser_start  = "browser.start"
	report_browser_render = "browser.render"
	report_browser_close  = "browser.close"
)

// Browser is the heavyweight fetch path, it executes client-side scripts.
type Browser interface {
	// Render navigates to url presenting userAgent and returns the page HTML.
	// Errors marked with ErrTimeout mean the page or its body did not load in time.
	Render(ctx context.Context, url, userAgent string) (string, error)
	// Close releases the browser, it is safe to call more than once.
	Close() error
}

type BrowserOptions struct {
	Headless        bool
	ExecPath        string
	PageLoadTimeout time.Duration
	BodyWait        time.Duration
	SettleMin       time.Duration
	SettleMax       time.Duration
}

func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Headless:        true,
		PageLoadTimeout: 30 * time.Second,
		BodyWait:        10 * time.Second,
		SettleMin:       2 * time.Second,
		SettleMax:       4 * time.Second,
	}
}

const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// ChromeBrowser drives a local Chrome through the devtools protocol. Chrome is
// only launched on the first Render.
type ChromeBrowser struct {
	opts BrowserOptions
	rng  *rand.Rand
	tel  telemetry.API

	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

func NewChromeBrowser(opts BrowserOptions, rng *rand.Rand, tel telemetry.API) *ChromeBrowser {
	return &ChromeBrowser{opts: opts, rng: rng, tel: tel}
}

func (b *ChromeBrowser) start(userAgent string) error {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if b.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// the first Run launches chrome and binds its lifetime to tabCtx
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriver).Do(ctx)
		return err
	}))
	if err != nil {
		tabCancel()
		allocCancel()
		b.tel.ReportBroken(report_browser_start, err)
		return errors.Wrap(err, "start chrome")
	}

	b.allocCancel = allocCancel
	b.tabCtx = tabCtx
	b.tabCancel = tabCancel
	b.tel.ReportDebug(report_browser_start, b.opts.Headless)
	return nil
}

func (b *ChromeBrowser) settle() time.Duration {
	spread := b.opts.SettleMax - b.opts.SettleMin
	if spread <= 0 {
		return b.opts.SettleMin
	}
	return b.opts.SettleMin + time.Duration(b.rng.Int64N(int64(spread)))
}

func (b *ChromeBrowser) Render(ctx context.Context, url, userAgent string) (string, error) {
	if b.tabCtx == nil {
		if err := b.start(userAgent); err != nil {
			return "", err
		}
	}

	loadCtx, cancelLoad := context.WithTimeout(b.tabCtx, b.opts.PageLoadTimeout)
	defer cancelLoad()
	stop := context.AfterFunc(ctx, cancelLoad)
	defer stop()

	err := chromedp.Run(
		loadCtx,
		emulation.SetUserAgentOverride(userAgent),
		chromedp.Navigate(url),
	)
	if err != nil {
		return "", b.renderError(ctx, loadCtx, url, "navigate", err)
	}

	bodyCtx, cancelBody := context.WithTimeout(b.tabCtx, b.opts.BodyWait)
	defer cancelBody()
	stopBody := context.AfterFunc(ctx, cancelBody)
	defer stopBody()

	var html string
	err = chromedp.Run(
		bodyCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.settle()),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", b.renderError(ctx, bodyCtx, url, "wait body", err)
	}
	return html, nil
}

func (b *ChromeBrowser) renderError(parent, step context.Context, url, phase string, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(step.Err(), context.DeadlineExceeded) {
		b.tel.ReportWarning(report_browser_render, phase, url, "timeout")
		return errors.Mark(errors.Wrapf(err, "%s %s", phase, url), ErrTimeout)
	}
	b.tel.ReportBroken(report_browser_render, phase, url, err)
	return errors.Wrapf(err, "%s %s", phase, url)
}

func (b *ChromeBrowser) Close() error {
	if b.tabCtx == nil {
		return nil
	}
	err := chromedp.Cancel(b.tabCtx)
	b.tabCancel()
	b.allocCancel()
	b.tabCtx = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		b.tel.ReportWarning(report_browser_close, err)
		return err
	}
	return nil
}
