package extract

import (
	"testing"

	"github.com/seenimoa/marketpipe/internal/config"
)

const metalsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Metal Prices</title>
	<item>
		<title>Gold   Spot</title>
		<link>https://example-metals.com/gold</link>
		<description>&lt;b&gt;$2,050.10&lt;/b&gt; per ounce</description>
		<pubDate>Mon, 02 Mar 2026 09:30:00 GMT</pubDate>
	</item>
	<item>
		<title>Silver Spot</title>
		<link>https://example-metals.com/silver</link>
		<description>$23.45 per ounce</description>
	</item>
</channel>
</rss>`

func TestFeedExtractor(t *testing.T) {
	rules := &config.RuleSet{
		Parser: config.ParserFeed,
		FieldMapping: map[string]string{
			"name":          "title",
			"current_price": "description",
			"url":           "link",
		},
	}

	cands, err := (&FeedExtractor{}).Extract(metalsFeed, rules)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}

	if cands[0]["name"] != "Gold Spot" {
		t.Errorf("cands[0][name] = %v, want Gold Spot (whitespace collapsed)", cands[0]["name"])
	}
	if cands[0]["current_price"] != "$2,050.10 per ounce" {
		t.Errorf("cands[0][current_price] = %v, markup should be stripped", cands[0]["current_price"])
	}
	if cands[1]["name"] != "Silver Spot" {
		t.Errorf("cands[1][name] = %v, want Silver Spot", cands[1]["name"])
	}
}

func TestFeedExtractor_DefaultMapping(t *testing.T) {
	cands, err := (&FeedExtractor{}).Extract(metalsFeed, &config.RuleSet{Parser: config.ParserFeed})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 2 || cands[0]["name"] != "Gold Spot" {
		t.Errorf("cands = %v, want name mapped from title", cands)
	}
}

func TestFeedExtractor_Malformed(t *testing.T) {
	if _, err := (&FeedExtractor{}).Extract("not a feed", &config.RuleSet{Parser: config.ParserFeed}); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestForParser(t *testing.T) {
	for _, kind := range []string{config.ParserTree, config.ParserStructured, config.ParserPattern, config.ParserFeed} {
		if _, err := ForParser(kind); err != nil {
			t.Errorf("ForParser(%q): %v", kind, err)
		}
	}
	if _, err := ForParser("xpath"); err == nil {
		t.Error("expected error for unknown parser kind")
	}
}
