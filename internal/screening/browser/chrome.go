package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const listLinksScript = `Array.from(document.querySelectorAll('a')).map(a => a.href).filter(h => h)`

// Chrome renders pages in headless Chrome. Every call runs in its own
// browser process, which is shut down before the call returns.
type Chrome struct {
	execPath string
	settle   time.Duration
}

type ChromeOption func(*Chrome)

// WithExecPath points at a specific Chrome or chromedriver-compatible binary.
func WithExecPath(path string) ChromeOption {
	return func(c *Chrome) {
		c.execPath = path
	}
}

// WithSettle waits the given duration after load so late scripts can finish
// populating the DOM.
func WithSettle(d time.Duration) ChromeOption {
	return func(c *Chrome) {
		c.settle = d
	}
}

func NewChrome(opts ...ChromeOption) *Chrome {
	c := &Chrome{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chrome) RenderPage(ctx context.Context, url string) (string, error) {
	var markup string
	err := c.run(ctx, url, chromedp.OuterHTML("html", &markup, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return markup, nil
}

func (c *Chrome) ListLinks(ctx context.Context, url string) ([]string, error) {
	var links []string
	err := c.run(ctx, url, chromedp.Evaluate(listLinksScript, &links))
	if err != nil {
		return nil, fmt.Errorf("list links on %s: %w", url, err)
	}
	if links == nil {
		links = []string{}
	}
	return links, nil
}

// run opens a fresh headless session, navigates to url and performs action.
// Both the tab and the browser process are released on every return path.
func (c *Chrome) run(ctx context.Context, url string, action chromedp.Action) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tasks := chromedp.Tasks{chromedp.Navigate(url)}
	if c.settle > 0 {
		tasks = append(tasks, chromedp.Sleep(c.settle))
	}
	tasks = append(tasks, action)
	return chromedp.Run(tabCtx, tasks)
}
