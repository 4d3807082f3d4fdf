package extract

import (
	"testing"

	"github.com/seenimoa/marketpipe/internal/config"
)

func TestStructuredExtractor_ArrayRoot(t *testing.T) {
	content := `{"data": {"quotes": [
		{"n": "Gold", "p": 2050.10},
		{"n": "Silver", "p": 23.45},
		"not an object",
		{"n": "Copper"}
	]}}`
	rules := &config.RuleSet{
		Parser:   config.ParserStructured,
		JSONPath: "data.quotes",
		FieldMapping: map[string]string{
			"name":          "n",
			"current_price": "p",
		},
	}

	cands, err := (&StructuredExtractor{}).Extract(content, rules)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("got %d candidates, want 3", len(cands))
	}
	if cands[0]["name"] != "Gold" || cands[0]["current_price"] != 2050.10 {
		t.Errorf("cands[0] = %v", cands[0])
	}
	if _, ok := cands[2]["current_price"]; ok {
		t.Error("missing source key should stay absent, not map to a zero value")
	}
}

func TestStructuredExtractor_KeyedCollection(t *testing.T) {
	// None of the root's keys appear as mapping sources, so each key
	// names one record.
	content := `{
		"ethereum": {"usd": 2301.12, "usd_24h_change": -1.2},
		"bitcoin":  {"usd": 43521.50, "usd_24h_change": 2.4}
	}`
	rules := &config.RuleSet{
		Parser: config.ParserStructured,
		FieldMapping: map[string]string{
			"current_price":  "usd",
			"change_percent": "usd_24h_change",
		},
	}

	cands, err := (&StructuredExtractor{}).Extract(content, rules)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}

	// Keys are visited in sorted order.
	if cands[0]["name"] != "bitcoin" || cands[1]["name"] != "ethereum" {
		t.Errorf("names = %v, %v, want bitcoin, ethereum", cands[0]["name"], cands[1]["name"])
	}
	if cands[0]["current_price"] != 43521.50 {
		t.Errorf("bitcoin price = %v, want 43521.5", cands[0]["current_price"])
	}
}

func TestStructuredExtractor_SingleRecord(t *testing.T) {
	// The root's own keys appear in the mapping, so it is one record.
	content := `{"pair": "EUR/USD", "bid": 1.0850, "ask": 1.0854}`
	rules := &config.RuleSet{
		Parser: config.ParserStructured,
		FieldMapping: map[string]string{
			"pair":      "pair",
			"bid_price": "bid",
			"ask_price": "ask",
		},
	}

	cands, err := (&StructuredExtractor{}).Extract(content, rules)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
	if cands[0]["pair"] != "EUR/USD" || cands[0]["bid_price"] != 1.0850 {
		t.Errorf("cands[0] = %v", cands[0])
	}
}

func TestStructuredExtractor_NoMappingPassesThrough(t *testing.T) {
	content := `[{"name": "Gold", "price": 2050.1}]`
	rules := &config.RuleSet{Parser: config.ParserStructured}

	cands, err := (&StructuredExtractor{}).Extract(content, rules)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(cands) != 1 || cands[0]["price"] != 2050.1 {
		t.Errorf("cands = %v", cands)
	}
}

func TestStructuredExtractor_Errors(t *testing.T) {
	rules := &config.RuleSet{Parser: config.ParserStructured, JSONPath: "data.rates"}

	if _, err := (&StructuredExtractor{}).Extract(`not json`, rules); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := (&StructuredExtractor{}).Extract(`{"data": {}}`, rules); err == nil {
		t.Error("expected error for missing path key")
	}
	if _, err := (&StructuredExtractor{}).Extract(`{"data": {"rates": 42}}`, rules); err == nil {
		t.Error("expected error for scalar data root")
	}
}
