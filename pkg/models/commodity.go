package models

import "time"

// CommodityQuote represents one commodity price observation.
// Optional numeric fields are pointers so that "absent" stays
// distinguishable from a legitimate zero.
type CommodityQuote struct {
	Name        string `json:"name"`
	ChineseName string `json:"chinese_name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	Category    string `json:"category,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Currency    string `json:"currency,omitempty"`

	CurrentPrice  float64  `json:"current_price"`
	OpenPrice     *float64 `json:"open_price,omitempty"`
	HighPrice     *float64 `json:"high_price,omitempty"`
	LowPrice      *float64 `json:"low_price,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`

	ChangeAmount  *float64 `json:"change_amount,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`

	Volume    *int64   `json:"volume,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`

	Source    string    `json:"source"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Derive fills in fields computable from the ones already present.
// If change_amount and previous_close are known but change_percent is
// not, the percentage is derived from them.
func (q *CommodityQuote) Derive() {
	if q.ChangePercent == nil && q.ChangeAmount != nil && q.PreviousClose != nil && *q.PreviousClose != 0 {
		pct := *q.ChangeAmount / *q.PreviousClose * 100
		q.ChangePercent = &pct
	}
}
