package models

import "time"

// Rejection pairs a dropped record with its itemized reasons.
// Rejections are retained for diagnostics, not for output.
type Rejection struct {
	Source  string   `json:"source"`
	Name    string   `json:"name,omitempty"`
	Reasons []string `json:"reasons"`
}

// SourceResult summarizes one source's contribution to a run.
type SourceResult struct {
	Source    string        `json:"source"`
	URLs      int           `json:"urls"`
	Extracted int           `json:"extracted"`
	Accepted  int           `json:"accepted"`
	Rejected  int           `json:"rejected"`
	Duration  time.Duration `json:"duration"`
	Err       string        `json:"error,omitempty"`
}

// CollectionResult is the outcome of a full collection cycle: the merged
// quote streams plus per-source statistics and rejection diagnostics.
type CollectionResult struct {
	Commodities []CommodityQuote    `json:"commodities"`
	Pairs       []CurrencyPairQuote `json:"pairs"`
	Rejections  []Rejection         `json:"rejections,omitempty"`
	Sources     []SourceResult      `json:"sources"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
}

// Accepted returns the total number of accepted records.
func (r *CollectionResult) Accepted() int {
	return len(r.Commodities) + len(r.Pairs)
}
