package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seenimoa/marketpipe/pkg/models"
	"github.com/seenimoa/marketpipe/pkg/utils"
)

// Normalizer converts raw records into typed quotes. Unparseable
// numeric fields degrade to absence and are logged, never propagated.
type Normalizer struct {
	log *logrus.Logger
}

// New creates a normalizer.
func New(log *logrus.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Commodity converts a raw record into a commodity quote. It reports
// false when the record lacks a usable name or price.
func (n *Normalizer) Commodity(raw models.RawRecord) (*models.CommodityQuote, bool) {
	name := StandardizeName(fieldString(raw, "name"))
	price, priceOK := n.price(raw, "price", "current_price")
	if name == "" || !priceOK {
		n.log.WithFields(logrus.Fields{
			"source": raw.Source,
			"name":   name,
		}).Debug("commodity record missing name or price")
		return nil, false
	}

	symbol := ExtractSymbol(fieldString(raw, "symbol"))
	q := &models.CommodityQuote{
		Name:         name,
		Symbol:       symbol,
		Category:     Categorize(name, symbol),
		Currency:     "USD",
		CurrentPrice: price,
		Source:       raw.Source,
		URL:          raw.URL,
		Timestamp:    raw.Timestamp,
	}

	if cn := fieldString(raw, "chinese_name"); cn != "" {
		q.ChineseName = cn
	} else {
		q.ChineseName = ChineseName(name)
	}
	if cur := fieldString(raw, "currency"); cur != "" {
		q.Currency = strings.ToUpper(cur)
	}
	if unit := fieldString(raw, "unit"); unit != "" {
		q.Unit = unit
	}

	q.OpenPrice = n.priceField(raw, "open_price", "open")
	q.HighPrice = n.priceField(raw, "high_price", "high")
	q.LowPrice = n.priceField(raw, "low_price", "low")
	q.PreviousClose = n.priceField(raw, "previous_close", "prev_close")
	q.MarketCap = n.priceField(raw, "market_cap")

	if v, ok := n.price(raw, "volume"); ok {
		vol := int64(v)
		q.Volume = &vol
	}

	n.changeFields(raw, &q.ChangeAmount, &q.ChangePercent)
	q.Derive()
	return q, true
}

// Pair converts a raw record into a currency-pair quote. It reports
// false when no pair identity can be established.
func (n *Normalizer) Pair(raw models.RawRecord) (*models.CurrencyPairQuote, bool) {
	pair := fieldString(raw, "pair", "currency_pair", "name")
	base, quote := utils.SplitPair(pair)
	if quote == "" {
		base = strings.ToUpper(fieldString(raw, "base_currency"))
		quote = strings.ToUpper(fieldString(raw, "quote_currency"))
		if base != "" && quote != "" {
			pair = base + "/" + quote
		}
	}
	if pair == "" {
		n.log.WithField("source", raw.Source).Debug("forex record missing pair identity")
		return nil, false
	}

	q := &models.CurrencyPairQuote{
		Pair:          strings.ToUpper(strings.TrimSpace(pair)),
		BaseCurrency:  strings.ToUpper(base),
		QuoteCurrency: strings.ToUpper(quote),
		Source:        raw.Source,
		URL:           raw.URL,
		Timestamp:     raw.Timestamp,
	}

	q.BidPrice = n.priceField(raw, "bid_price", "bid")
	q.AskPrice = n.priceField(raw, "ask_price", "ask")
	q.MidPrice = n.priceField(raw, "mid_price", "current_price", "price", "rate")

	n.changeFields(raw, &q.ChangeAmount, &q.ChangePercent)
	q.Derive()
	return q, true
}

// changeFields resolves the change amount and percentage. A dedicated
// change_percent field wins; otherwise a combined "change" field is
// interpreted as a percentage when it carries a % sign and as an
// absolute amount when it does not.
func (n *Normalizer) changeFields(raw models.RawRecord, amount, percent **float64) {
	if s := fieldString(raw, "change_percent"); s != "" {
		if v, ok := ParsePercent(s); ok {
			*percent = &v
		} else {
			n.logUnparseable(raw, "change_percent", s)
		}
	}
	if s := fieldString(raw, "change_amount"); s != "" {
		if v, ok := ParsePrice(s); ok {
			*amount = &v
		} else {
			n.logUnparseable(raw, "change_amount", s)
		}
	}

	change := fieldString(raw, "change")
	if change == "" {
		return
	}
	if strings.Contains(change, "%") {
		if *percent == nil {
			if v, ok := ParsePercent(change); ok {
				*percent = &v
			} else {
				n.logUnparseable(raw, "change", change)
			}
		}
	} else if *amount == nil {
		if v, ok := ParsePrice(change); ok {
			*amount = &v
		} else {
			n.logUnparseable(raw, "change", change)
		}
	}
}

// price parses the first present candidate field as a price.
func (n *Normalizer) price(raw models.RawRecord, fields ...string) (float64, bool) {
	for _, f := range fields {
		s := fieldString(raw, f)
		if s == "" {
			continue
		}
		if v, ok := ParsePrice(s); ok {
			return v, true
		}
		n.logUnparseable(raw, f, s)
	}
	return 0, false
}

// priceField is price with a pointer result for optional fields.
func (n *Normalizer) priceField(raw models.RawRecord, fields ...string) *float64 {
	if v, ok := n.price(raw, fields...); ok {
		return &v
	}
	return nil
}

func (n *Normalizer) logUnparseable(raw models.RawRecord, field, value string) {
	n.log.WithFields(logrus.Fields{
		"source": raw.Source,
		"field":  field,
		"value":  value,
	}).Warn("unparseable numeric field, treating as absent")
}

// fieldString returns the first present candidate field rendered as a
// string. Extractors may hand over strings or JSON numbers.
func fieldString(raw models.RawRecord, fields ...string) string {
	for _, f := range fields {
		v, ok := raw.Field(f)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case int64:
			return strconv.FormatInt(t, 10)
		case time.Time:
			return t.Format(time.RFC3339)
		}
	}
	return ""
}
