package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/seenimoa/marketpipe/internal/config"
	"github.com/seenimoa/marketpipe/internal/logger"
	"github.com/seenimoa/marketpipe/pkg/models"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// stubFetcher serves canned content keyed by URL.
type stubFetcher struct {
	pages map[string]string
}

func (s *stubFetcher) Fetch(_ context.Context, url string, _ map[string]string) (string, error) {
	content, ok := s.pages[url]
	if !ok {
		return "", fmt.Errorf("no canned page for %s", url)
	}
	return content, nil
}

const commodityPage = `<html><body><table>
<tr><td class="name">Gold</td><td class="price">$2,050.10</td><td class="pct">+0.4%</td></tr>
<tr><td class="name">Oil (WTI)</td><td class="price">$75.32</td><td class="pct">-1.2%</td></tr>
<tr><td class="name">Broken Row</td><td class="pct">n/a</td></tr>
</table></body></html>`

const ratesPayload = `{"rates": [
	{"pair": "EUR/USD", "bid": 1.0850, "ask": 1.0854},
	{"pair": "BAD", "bid": 1.10, "ask": 1.05}
]}`

func testConfig() *config.Config {
	return &config.Config{
		Collector:  config.CollectorConfig{MaxWorkers: 4},
		Validation: config.ValidationConfig{MaxAgeHours: 48},
	}
}

func testRules(t *testing.T) *config.RuleIndex {
	t.Helper()
	ri, err := config.ParseRules([]byte(`
generic_scrapers:
  commodities:
    enabled: true
    type: commodity
    parser: tree
    urls: https://stub/commodities
    extraction:
      container: "table tr"
      fields:
        name: "td.name"
        current_price:
          selector: "td.price"
          transform: to_number
        change_percent: "td.pct"
    required_fields: [name, current_price]
  rates:
    enabled: true
    type: forex
    parser: structured
    urls: https://stub/rates
    json_path: rates
    field_mapping:
      pair: pair
      bid_price: bid
      ask_price: ask
    required_fields: [pair]
`))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	return ri
}

func testCollector(t *testing.T, cfg *config.Config) *Collector {
	t.Helper()
	fetcher := &stubFetcher{pages: map[string]string{
		"https://stub/commodities": commodityPage,
		"https://stub/rates":       ratesPayload,
	}}
	return New(cfg, testRules(t), logger.Discard()).
		WithFetcher(config.MethodHTTP, fetcher).
		WithClock(func() time.Time { return testNow })
}

func TestCollector_Run(t *testing.T) {
	result, err := testCollector(t, testConfig()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Commodities) != 2 {
		t.Fatalf("got %d commodities, want 2 (broken row dropped): %+v", len(result.Commodities), result.Commodities)
	}
	if result.Commodities[0].Name != "Gold" || result.Commodities[0].CurrentPrice != 2050.10 {
		t.Errorf("commodities[0] = %+v", result.Commodities[0])
	}
	if result.Commodities[1].Name != "WTI Crude Oil" {
		t.Errorf("commodities[1].Name = %q, want the standardized WTI Crude Oil", result.Commodities[1].Name)
	}

	if len(result.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1 (inverted bid/ask rejected): %+v", len(result.Pairs), result.Pairs)
	}
	if result.Pairs[0].Pair != "EUR/USD" {
		t.Errorf("pairs[0] = %+v", result.Pairs[0])
	}
	if result.Pairs[0].MidPrice == nil {
		t.Error("mid price should be derived from bid/ask")
	}

	if len(result.Rejections) != 1 {
		t.Fatalf("got %d rejections, want 1: %+v", len(result.Rejections), result.Rejections)
	}
	if result.Rejections[0].Source != "rates" || result.Rejections[0].Name != "BAD" {
		t.Errorf("rejections[0] = %+v", result.Rejections[0])
	}

	if len(result.Sources) != 2 {
		t.Fatalf("got %d source results, want 2", len(result.Sources))
	}
	for _, sr := range result.Sources {
		switch sr.Source {
		case "commodities":
			if sr.Extracted != 2 || sr.Accepted != 2 || sr.Rejected != 0 {
				t.Errorf("commodities stats = %+v", sr)
			}
		case "rates":
			if sr.Extracted != 2 || sr.Accepted != 1 || sr.Rejected != 1 {
				t.Errorf("rates stats = %+v", sr)
			}
		default:
			t.Errorf("unexpected source %q", sr.Source)
		}
	}
}

func TestCollector_RunParallel(t *testing.T) {
	cfg := testConfig()
	cfg.Collector.Parallel = true

	result, err := testCollector(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Commodities) != 2 || len(result.Pairs) != 1 {
		t.Errorf("got %d commodities, %d pairs", len(result.Commodities), len(result.Pairs))
	}
}

func TestCollector_RunParallel_NoWorkerLimit(t *testing.T) {
	// Parallel mode with an unset worker count must still make
	// progress rather than admitting no workers.
	cfg := testConfig()
	cfg.Collector.Parallel = true
	cfg.Collector.MaxWorkers = 0

	c := testCollector(t, cfg)
	done := make(chan struct{})
	var result *models.CollectionResult
	var err error
	go func() {
		defer close(done)
		result, err = c.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish; collection stalled without workers")
	}
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Commodities) != 2 || len(result.Pairs) != 1 {
		t.Errorf("got %d commodities, %d pairs", len(result.Commodities), len(result.Pairs))
	}
}

func TestCollector_MergesAcrossSources(t *testing.T) {
	ri, err := config.ParseRules([]byte(`
simple_scrapers:
  site_a:
    enabled: true
    type: commodity
    parser: structured
    urls: https://stub/a
    required_fields: [name, current_price]
  site_b:
    enabled: true
    type: commodity
    parser: structured
    urls: https://stub/b
    required_fields: [name, current_price]
`))
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}

	fetcher := &stubFetcher{pages: map[string]string{
		"https://stub/a": `[{"name": "Gold", "current_price": 2049.00}]`,
		"https://stub/b": `[{"name": "Gold", "current_price": 2050.10}]`,
	}}
	c := New(testConfig(), ri, logger.Discard()).
		WithFetcher(config.MethodHTTP, fetcher).
		WithClock(func() time.Time { return testNow })

	result, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Commodities) != 1 {
		t.Fatalf("got %d commodities, want duplicates merged to 1", len(result.Commodities))
	}
	if result.Commodities[0].Source != "site_a,site_b" {
		t.Errorf("source = %q, want site_a,site_b", result.Commodities[0].Source)
	}
}

func TestCollector_SourceFailureIsolated(t *testing.T) {
	result, err := testCollector(t, testConfig()).RunSources(context.Background(), []string{"commodities", "missing_source"})
	if err == nil {
		t.Fatal("expected an aggregated configuration error")
	}

	// The healthy source still contributes.
	if len(result.Commodities) != 2 {
		t.Errorf("got %d commodities, want 2 despite the sibling failure", len(result.Commodities))
	}

	found := false
	for _, sr := range result.Sources {
		if sr.Source == "missing_source" {
			found = true
			if sr.Err == "" {
				t.Error("missing_source should carry its error in the source result")
			}
		}
	}
	if !found {
		t.Errorf("missing_source absent from source results: %+v", result.Sources)
	}
}

func TestCollector_FetchFailureDegrades(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		// Only the rates page exists; the commodities fetch fails.
		"https://stub/rates": ratesPayload,
	}}
	c := New(testConfig(), testRules(t), logger.Discard()).
		WithFetcher(config.MethodHTTP, fetcher).
		WithClock(func() time.Time { return testNow })

	result, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("fetch failures must not surface as run errors, got %v", err)
	}
	if len(result.Commodities) != 0 {
		t.Errorf("got %d commodities, want 0", len(result.Commodities))
	}
	if len(result.Pairs) != 1 {
		t.Errorf("got %d pairs, want 1", len(result.Pairs))
	}
}
