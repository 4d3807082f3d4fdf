// Package fetch retrieves raw content for the pipeline. It is the sole
// boundary the core requires from the outside world: given a URL it
// returns a content string, via either a plain HTTP client or a
// headless browser for JS-rendered pages.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seenimoa/marketpipe/internal/config"
)

// Fetcher is the content-fetching capability injected into the
// pipeline, decoupled from extraction and validation.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// ForMethod returns the fetcher for a rule set's fetch method.
func ForMethod(method string, cfg config.FetchConfig) (Fetcher, error) {
	switch method {
	case config.MethodHTTP:
		return NewHTTPFetcher(cfg), nil
	case config.MethodBrowser:
		return NewBrowserFetcher(cfg), nil
	default:
		return nil, fmt.Errorf("no fetcher for method %q", method)
	}
}

// HTTPFetcher fetches pages with a plain HTTP client and a token-bucket
// rate limit shared across a source's URLs.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	limiter   *RateLimiter
}

// NewHTTPFetcher creates an HTTP fetcher from fetch config.
func NewHTTPFetcher(cfg config.FetchConfig) *HTTPFetcher {
	rate := cfg.RatePerSec
	if rate <= 0 {
		rate = 2
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		limiter:   NewRateLimiter(rate, time.Second),
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body %s: %w", url, err)
	}
	return string(body), nil
}
