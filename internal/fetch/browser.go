package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/seenimoa/marketpipe/internal/config"
)

// BrowserFetcher renders pages in headless Chrome before handing the
// document back. Sources whose tables are built client-side set
// "method: browser" in their rule set.
type BrowserFetcher struct {
	wait time.Duration
}

// NewBrowserFetcher creates a browser fetcher from fetch config.
func NewBrowserFetcher(cfg config.FetchConfig) *BrowserFetcher {
	wait := time.Duration(cfg.BrowserWaitSec) * time.Second
	if wait <= 0 {
		wait = 3 * time.Second
	}
	return &BrowserFetcher{wait: wait}
}

// Fetch implements Fetcher. Custom headers are not supported by the
// browser path; the rendered page's outer HTML is returned.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string, _ map[string]string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(f.wait), // let dynamic content settle
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser fetch %s: %w", url, err)
	}
	return html, nil
}
