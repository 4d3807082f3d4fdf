package models

import "time"

// CurrencyPairQuote represents one foreign-exchange pair observation.
type CurrencyPairQuote struct {
	Pair          string `json:"pair"` // e.g. "EUR/USD"
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`

	BidPrice *float64 `json:"bid_price,omitempty"`
	AskPrice *float64 `json:"ask_price,omitempty"`
	MidPrice *float64 `json:"mid_price,omitempty"`
	Spread   *float64 `json:"spread,omitempty"`

	ChangeAmount  *float64 `json:"change_amount,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`

	Source    string    `json:"source"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Derive fills in fields computable from the ones already present:
// the pair label from base/quote, and mid price and spread from bid/ask.
func (q *CurrencyPairQuote) Derive() {
	if q.Pair == "" && q.BaseCurrency != "" && q.QuoteCurrency != "" {
		q.Pair = q.BaseCurrency + "/" + q.QuoteCurrency
	}
	if q.BidPrice != nil && q.AskPrice != nil {
		if q.MidPrice == nil {
			mid := (*q.BidPrice + *q.AskPrice) / 2
			q.MidPrice = &mid
		}
		if q.Spread == nil {
			spread := *q.AskPrice - *q.BidPrice
			q.Spread = &spread
		}
	}
}
