package models

import (
	"math"
	"testing"
	"time"
)

func fp(v float64) *float64 { return &v }

func TestCommodityQuote_Derive(t *testing.T) {
	q := &CommodityQuote{
		Name:          "Gold",
		CurrentPrice:  2050,
		ChangeAmount:  fp(50),
		PreviousClose: fp(2000),
	}
	q.Derive()
	if q.ChangePercent == nil || *q.ChangePercent != 2.5 {
		t.Errorf("ChangePercent = %v, want 2.5", q.ChangePercent)
	}

	// A present value is never overwritten.
	q = &CommodityQuote{
		CurrentPrice:  2050,
		ChangeAmount:  fp(50),
		PreviousClose: fp(2000),
		ChangePercent: fp(9.9),
	}
	q.Derive()
	if *q.ChangePercent != 9.9 {
		t.Errorf("ChangePercent = %v, derivation should not overwrite", *q.ChangePercent)
	}

	// Zero previous close cannot be divided by.
	q = &CommodityQuote{CurrentPrice: 10, ChangeAmount: fp(1), PreviousClose: fp(0)}
	q.Derive()
	if q.ChangePercent != nil {
		t.Errorf("ChangePercent = %v, want nil for zero previous close", q.ChangePercent)
	}
}

func TestCurrencyPairQuote_Derive(t *testing.T) {
	q := &CurrencyPairQuote{
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		BidPrice:      fp(1.0850),
		AskPrice:      fp(1.0854),
	}
	q.Derive()

	if q.Pair != "EUR/USD" {
		t.Errorf("Pair = %q, want EUR/USD", q.Pair)
	}
	if q.MidPrice == nil || math.Abs(*q.MidPrice-1.0852) > 1e-9 {
		t.Errorf("MidPrice = %v, want 1.0852", q.MidPrice)
	}
	if q.Spread == nil || math.Abs(*q.Spread-0.0004) > 1e-9 {
		t.Errorf("Spread = %v, want 0.0004", q.Spread)
	}

	// Bid alone derives nothing.
	q = &CurrencyPairQuote{Pair: "EUR/USD", BidPrice: fp(1.0850)}
	q.Derive()
	if q.MidPrice != nil || q.Spread != nil {
		t.Errorf("mid/spread = %v/%v, want nil without both sides", q.MidPrice, q.Spread)
	}
}

func TestRawRecord(t *testing.T) {
	ts := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	rec := NewRawRecord("markets", "https://example.com", ts)

	rec.SetField("name", "Gold")
	rec.SetField("empty", nil)

	if v, ok := rec.Field("name"); !ok || v != "Gold" {
		t.Errorf("Field(name) = %v, %v", v, ok)
	}
	if _, ok := rec.Field("empty"); ok {
		t.Error("nil values should be dropped, absence stays a missing key")
	}
	if !rec.HasFields([]string{"name"}) {
		t.Error("HasFields(name) = false")
	}
	if rec.HasFields([]string{"name", "price"}) {
		t.Error("HasFields should require every named field")
	}
}

func TestVerdict(t *testing.T) {
	v := OK()
	if !v.Valid {
		t.Fatal("OK() should be valid")
	}

	v.AddWarning("looks odd")
	if !v.Valid {
		t.Error("warnings must not invalidate")
	}

	v.AddError("broken")
	if v.Valid {
		t.Error("errors must invalidate")
	}

	other := OK()
	other.AddError("also broken")
	v.Merge(other)
	if len(v.Errors) != 2 {
		t.Errorf("Errors = %v, want both retained", v.Errors)
	}
}
