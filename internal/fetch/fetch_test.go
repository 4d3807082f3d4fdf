package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seenimoa/marketpipe/internal/config"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "marketpipe-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Errorf("X-Api-Key = %q", r.Header.Get("X-Api-Key"))
		}
		w.Write([]byte("page content"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.FetchConfig{UserAgent: "marketpipe-test", RatePerSec: 10})
	content, err := f.Fetch(context.Background(), srv.URL, map[string]string{"X-Api-Key": "secret"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if content != "page content" {
		t.Errorf("content = %q", content)
	}
}

func TestHTTPFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.FetchConfig{RatePerSec: 10})
	_, err := f.Fetch(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}

	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("error type = %T, want *ErrHTTP", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", httpErr.StatusCode)
	}
}

func TestForMethod(t *testing.T) {
	if _, err := ForMethod(config.MethodHTTP, config.FetchConfig{}); err != nil {
		t.Errorf("ForMethod(http): %v", err)
	}
	if _, err := ForMethod(config.MethodBrowser, config.FetchConfig{}); err != nil {
		t.Errorf("ForMethod(browser): %v", err)
	}
	if _, err := ForMethod("carrier_pigeon", config.FetchConfig{}); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("first two waits took %v, should not block", elapsed)
	}
}

func TestRateLimiter_ContextCancel(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait after cancel = %v, want context.Canceled", err)
	}
}
