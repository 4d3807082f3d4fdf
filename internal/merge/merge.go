// Package merge deduplicates quote streams by identity key. Groups
// sharing a key collapse to the most recently timestamped record, with
// the source label rewritten to the sorted union of all contributors.
// The reduction is idempotent: merging an already-merged set is a no-op.
package merge

import (
	"sort"
	"strings"
	"time"

	"github.com/seenimoa/marketpipe/pkg/models"
)

// Commodities merges commodity quotes by (name, symbol).
func Commodities(quotes []models.CommodityQuote) []models.CommodityQuote {
	if len(quotes) <= 1 {
		return quotes
	}

	type key struct{ name, symbol string }
	order := make([]key, 0, len(quotes))
	groups := make(map[key][]models.CommodityQuote)
	for _, q := range quotes {
		k := key{q.Name, q.Symbol}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], q)
	}

	out := make([]models.CommodityQuote, 0, len(order))
	for _, k := range order {
		group := groups[k]
		rep := group[newestIndex(len(group), func(i int) time.Time { return group[i].Timestamp })]
		rep.Source = unionSources(sourcesOf(len(group), func(i int) string { return group[i].Source }))
		out = append(out, rep)
	}
	return out
}

// Pairs merges currency-pair quotes by (pair, base, quote).
func Pairs(quotes []models.CurrencyPairQuote) []models.CurrencyPairQuote {
	if len(quotes) <= 1 {
		return quotes
	}

	type key struct{ pair, base, quote string }
	order := make([]key, 0, len(quotes))
	groups := make(map[key][]models.CurrencyPairQuote)
	for _, q := range quotes {
		k := key{q.Pair, q.BaseCurrency, q.QuoteCurrency}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], q)
	}

	out := make([]models.CurrencyPairQuote, 0, len(order))
	for _, k := range order {
		group := groups[k]
		rep := group[newestIndex(len(group), func(i int) time.Time { return group[i].Timestamp })]
		rep.Source = unionSources(sourcesOf(len(group), func(i int) string { return group[i].Source }))
		out = append(out, rep)
	}
	return out
}

// newestIndex returns the index of the maximum timestamp. Ties resolve
// to the later element so the reduction is stable over input order.
func newestIndex(n int, ts func(int) time.Time) int {
	best := 0
	for i := 1; i < n; i++ {
		if !ts(i).Before(ts(best)) {
			best = i
		}
	}
	return best
}

func sourcesOf(n int, src func(int) string) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, src(i))
	}
	return out
}

// unionSources deduplicates and sorts source labels. Labels that are
// themselves unions from an earlier merge pass are split first, which
// is what makes re-merging idempotent.
func unionSources(labels []string) string {
	set := make(map[string]struct{})
	for _, label := range labels {
		for _, part := range strings.Split(label, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				set[part] = struct{}{}
			}
		}
	}
	sources := make([]string, 0, len(set))
	for s := range set {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return strings.Join(sources, ",")
}
