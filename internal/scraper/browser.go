package scraper

import (
	"context"
	"fmt"
	"time"

	"quotescraper/internal/utils"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// BrowserSource renders pages in headless Chrome and reads the body's
// visible text, the way a user would see it.
type BrowserSource struct {
	logger       *utils.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	allocCancel  context.CancelFunc
	waitSelector string
	userAgent    string
}

// NewBrowserSource launches Chrome with the flags from config.
func NewBrowserSource(logger *utils.Logger, config *utils.Config) (*BrowserSource, error) {
	browser := config.Scraper.Browser
	logger.Debug("Initializing Chrome (headless=%v)", browser.Headless)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("enable-logging", browser.Debug),
		chromedp.WindowSize(1920, 1080),
	)
	if browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(browser.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Debug))

	b := &BrowserSource{
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		allocCancel:  allocCancel,
		waitSelector: browser.WaitSelector,
		userAgent:    browser.UserAgent,
	}
	if b.waitSelector == "" {
		b.waitSelector = "body"
	}

	// Launch now so later timeouts only cover page loads.
	if err := chromedp.Run(ctx, chromedp.Navigate("about:blank")); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	// Alerts would block navigation forever.
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if ev, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			logger.Debug("Dialog detected: %s", ev.Message)
			go func() {
				if err := chromedp.Run(ctx, page.HandleJavaScriptDialog(true)); err != nil {
					logger.Debug("Failed to handle dialog: %v", err)
				}
			}()
		}
	})

	return b, nil
}

func (b *BrowserSource) Name() string { return utils.SourceBrowser }

func (b *BrowserSource) ReadPage(url string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	var text string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady(b.waitSelector, chromedp.ByQuery),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	b.logger.Debug("Rendered %s (%d bytes of text)", url, len(text))
	return text, nil
}

// Check verifies the browser responds and accepts network settings.
func (b *BrowserSource) Check() error {
	ctx, cancel := context.WithTimeout(b.ctx, 10*time.Second)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Navigate("about:blank")); err != nil {
		return fmt.Errorf("browser launch: %w", err)
	}

	actions := []chromedp.Action{
		network.Enable(),
		network.SetCacheDisabled(true),
	}
	if b.userAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(b.userAgent))
	}
	if err := chromedp.Run(ctx, actions...); err != nil {
		return fmt.Errorf("network settings: %w", err)
	}
	return nil
}

// Close shuts the browser down, waiting briefly for a graceful exit.
func (b *BrowserSource) Close() error {
	if b.cancel == nil {
		return nil
	}
	b.logger.Debug("Closing browser")

	done := make(chan error, 1)
	go func() { done <- chromedp.Cancel(b.ctx) }()

	var err error
	select {
	case err = <-done:
	case <-time.After(10 * time.Second):
		err = fmt.Errorf("timed out closing browser")
	}

	b.cancel()
	b.allocCancel()
	b.cancel = nil
	return err
}
