package validate

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/seenimoa/marketpipe/internal/config"
	"github.com/seenimoa/marketpipe/pkg/models"
)

// suspiciousMovePct is the daily percentage move beyond which a quote
// is flagged as suspicious. Whether suspicion rejects the record is a
// policy decision (ValidationConfig.Strict).
const suspiciousMovePct = 50.0

// midPriceEpsilon bounds the allowed disagreement between a supplied
// mid price and (bid+ask)/2.
const midPriceEpsilon = 1e-4

var pairFormatRe = regexp.MustCompile(`^[A-Z]{3}/[A-Z]{3}$`)

// Engine validates normalized quotes. Two layers run for every record:
// the declarative field rules, then the type-specific business checks.
type Engine struct {
	strict   bool
	maxAge   time.Duration
	now      func() time.Time

	commodityRules []FieldRule
	forexRules     []FieldRule
}

// New builds a validation engine with the default rule sets for both
// record kinds.
func New(cfg config.ValidationConfig) *Engine {
	maxAge := time.Duration(cfg.MaxAgeHours) * time.Hour
	if maxAge <= 0 {
		maxAge = 48 * time.Hour
	}

	min0 := 0.0
	maxPrice := 1_000_000.0
	minPct, maxPct := -100.0, 1000.0

	return &Engine{
		strict: cfg.Strict,
		maxAge: maxAge,
		now:    time.Now,
		commodityRules: []FieldRule{
			{Tag: TagNotNull, Field: "name"},
			{Tag: TagRange, Field: "current_price", Min: &min0, Max: &maxPrice},
			{Tag: TagRange, Field: "change_percent", Min: &minPct, Max: &maxPct},
			{Tag: TagFreshness, Field: "timestamp", MaxAge: maxAge},
		},
		forexRules: []FieldRule{
			{Tag: TagNotNull, Field: "pair"},
			{Tag: TagPattern, Field: "pair", Pattern: pairFormatRe},
			{Tag: TagRange, Field: "bid_price", Min: &min0},
			{Tag: TagRange, Field: "ask_price", Min: &min0},
			{Tag: TagFreshness, Field: "timestamp", MaxAge: maxAge},
		},
	}
}

// WithClock overrides the engine's clock. Used in tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Commodity validates a commodity quote against the default rules plus
// any per-source declarative checks.
func (e *Engine) Commodity(q *models.CommodityQuote, extra config.ValidationRules) (models.Verdict, error) {
	fields := map[string]any{
		"name":           q.Name,
		"chinese_name":   q.ChineseName,
		"symbol":         q.Symbol,
		"category":       q.Category,
		"unit":           q.Unit,
		"currency":       q.Currency,
		"current_price":  q.CurrentPrice,
		"open_price":     q.OpenPrice,
		"high_price":     q.HighPrice,
		"low_price":      q.LowPrice,
		"previous_close": q.PreviousClose,
		"change_amount":  q.ChangeAmount,
		"change_percent": q.ChangePercent,
		"volume":         q.Volume,
		"market_cap":     q.MarketCap,
		"source":         q.Source,
		"url":            q.URL,
		"timestamp":      q.Timestamp,
	}

	verdict, err := e.applyRules(fields, e.commodityRules, extra)
	if err != nil {
		return verdict, err
	}
	e.commodityBusiness(q, &verdict)
	verdict.Valid = len(verdict.Errors) == 0
	return verdict, nil
}

// Pair validates a currency-pair quote.
func (e *Engine) Pair(q *models.CurrencyPairQuote, extra config.ValidationRules) (models.Verdict, error) {
	fields := map[string]any{
		"pair":           q.Pair,
		"base_currency":  q.BaseCurrency,
		"quote_currency": q.QuoteCurrency,
		"bid_price":      q.BidPrice,
		"ask_price":      q.AskPrice,
		"mid_price":      q.MidPrice,
		"spread":         q.Spread,
		"change_amount":  q.ChangeAmount,
		"change_percent": q.ChangePercent,
		"source":         q.Source,
		"url":            q.URL,
		"timestamp":      q.Timestamp,
	}

	verdict, err := e.applyRules(fields, e.forexRules, extra)
	if err != nil {
		return verdict, err
	}
	e.forexBusiness(q, &verdict)
	verdict.Valid = len(verdict.Errors) == 0
	return verdict, nil
}

// applyRules runs the default and per-source field rules, collecting
// every failure rather than short-circuiting.
func (e *Engine) applyRules(fields map[string]any, defaults []FieldRule, extra config.ValidationRules) (models.Verdict, error) {
	verdict := models.OK()
	now := e.now()

	for _, rule := range defaults {
		if msg := rule.check(fields[rule.Field], now); msg != "" {
			verdict.AddError(msg)
		}
	}

	extraRules, err := rulesFromConfig(extra)
	if err != nil {
		return verdict, err
	}
	for _, rule := range extraRules {
		value, known := fields[rule.Field]
		if !known {
			// A rule naming a field this record kind does not carry
			// would otherwise never fire, silently.
			return verdict, fmt.Errorf("validation rule for unknown field %q", rule.Field)
		}
		if msg := rule.check(value, now); msg != "" {
			verdict.AddError(msg)
		}
	}
	return verdict, nil
}

// commodityBusiness applies commodity-specific consistency checks.
func (e *Engine) commodityBusiness(q *models.CommodityQuote, v *models.Verdict) {
	if q.HighPrice != nil && q.LowPrice != nil && *q.HighPrice < *q.LowPrice {
		v.AddError(fmt.Sprintf("high_price %g below low_price %g", *q.HighPrice, *q.LowPrice))
	}
	if q.HighPrice != nil && q.CurrentPrice > *q.HighPrice {
		v.AddError(fmt.Sprintf("current_price %g above high_price %g", q.CurrentPrice, *q.HighPrice))
	}
	if q.LowPrice != nil && q.CurrentPrice < *q.LowPrice {
		v.AddError(fmt.Sprintf("current_price %g below low_price %g", q.CurrentPrice, *q.LowPrice))
	}
	if q.ChangePercent != nil && math.Abs(*q.ChangePercent) > suspiciousMovePct {
		msg := fmt.Sprintf("change_percent %g%% exceeds ±%g%%", *q.ChangePercent, suspiciousMovePct)
		if e.strict {
			v.AddError(msg)
		} else {
			v.AddWarning(msg)
		}
	}
}

// forexBusiness applies currency-pair consistency checks.
func (e *Engine) forexBusiness(q *models.CurrencyPairQuote, v *models.Verdict) {
	if q.BidPrice != nil && q.AskPrice != nil {
		bid, ask := *q.BidPrice, *q.AskPrice
		if bid > ask {
			v.AddError(fmt.Sprintf("bid_price %g above ask_price %g", bid, ask))
		}
		if spread := ask - bid; bid > 0 && spread > bid*0.1 {
			v.AddError(fmt.Sprintf("spread %g exceeds 10%% of bid %g", spread, bid))
		}
		if q.MidPrice != nil {
			expected := (bid + ask) / 2
			if math.Abs(*q.MidPrice-expected) > midPriceEpsilon {
				v.AddError(fmt.Sprintf("mid_price %g inconsistent with (bid+ask)/2 = %g", *q.MidPrice, expected))
			}
		}
	}
}
