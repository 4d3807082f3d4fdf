// Package pipeline orchestrates a collection run: for each configured
// source, fetch → extract → build → normalize → validate; after every
// source has contributed, the combined streams are deduplicated. Merge
// must see the full candidate set before picking a representative, so
// it runs strictly after the per-source phase.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/marketpipe/internal/config"
	"github.com/seenimoa/marketpipe/internal/extract"
	"github.com/seenimoa/marketpipe/internal/fetch"
	"github.com/seenimoa/marketpipe/internal/merge"
	"github.com/seenimoa/marketpipe/internal/normalize"
	"github.com/seenimoa/marketpipe/internal/validate"
	"github.com/seenimoa/marketpipe/pkg/models"
)

// Collector runs the rule-driven pipeline over configured sources.
// One Collector instance serves any number of sources — a rule set plus
// this shared pipeline replaces per-source code entirely.
type Collector struct {
	cfg   *config.Config
	rules *config.RuleIndex
	log   *logrus.Logger

	fetchers map[string]fetch.Fetcher
	norm     *normalize.Normalizer
	engine   *validate.Engine
	now      func() time.Time
}

// New creates a collector with the default fetchers for every method.
func New(cfg *config.Config, rules *config.RuleIndex, log *logrus.Logger) *Collector {
	cacheTTL := time.Duration(cfg.Fetch.CacheTTLSec) * time.Second
	return &Collector{
		cfg:   cfg,
		rules: rules,
		log:   log,
		fetchers: map[string]fetch.Fetcher{
			config.MethodHTTP:    fetch.WithCache(fetch.NewHTTPFetcher(cfg.Fetch), cacheTTL),
			config.MethodBrowser: fetch.WithCache(fetch.NewBrowserFetcher(cfg.Fetch), cacheTTL),
		},
		norm:   normalize.New(log),
		engine: validate.New(cfg.Validation),
		now:    time.Now,
	}
}

// WithFetcher overrides the fetcher for a method. Used in tests and by
// callers that bring their own transport.
func (c *Collector) WithFetcher(method string, f fetch.Fetcher) *Collector {
	c.fetchers[method] = f
	return c
}

// WithClock overrides the capture-timestamp clock. Used in tests.
func (c *Collector) WithClock(now func() time.Time) *Collector {
	c.now = now
	c.engine.WithClock(now)
	return c
}

// Run executes a collection cycle over every enabled source.
func (c *Collector) Run(ctx context.Context) (*models.CollectionResult, error) {
	var names []string
	for _, rs := range c.rules.Enabled() {
		names = append(names, rs.Name)
	}
	return c.RunSources(ctx, names)
}

// RunSources executes a collection cycle over the named sources.
// Configuration errors (unknown source, defective rule set) are fatal
// for that source only: they are reported in the returned error and the
// per-source results, and never abort sibling sources.
func (c *Collector) RunSources(ctx context.Context, names []string) (*models.CollectionResult, error) {
	result := &models.CollectionResult{StartedAt: c.now()}

	var (
		mu      sync.Mutex
		cfgErrs []error
	)
	collect := func(sr sourceOutput) {
		mu.Lock()
		defer mu.Unlock()
		result.Commodities = append(result.Commodities, sr.commodities...)
		result.Pairs = append(result.Pairs, sr.pairs...)
		result.Rejections = append(result.Rejections, sr.rejections...)
		result.Sources = append(result.Sources, sr.stats)
		if sr.cfgErr != nil {
			cfgErrs = append(cfgErrs, sr.cfgErr)
		}
	}

	if c.cfg.Collector.Parallel {
		workers := c.cfg.Collector.MaxWorkers
		if workers < 1 {
			// SetLimit(0) would admit no goroutines at all.
			workers = 1
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, name := range names {
			name := name
			g.Go(func() error {
				collect(c.runSource(gctx, name))
				return nil
			})
		}
		// Workers never return errors; the group is only a limiter.
		_ = g.Wait()
	} else {
		for _, name := range names {
			collect(c.runSource(ctx, name))
		}
	}

	// Merge only after every source's contribution is in hand.
	result.Commodities = merge.Commodities(result.Commodities)
	result.Pairs = merge.Pairs(result.Pairs)
	result.FinishedAt = c.now()

	return result, errors.Join(cfgErrs...)
}

// sourceOutput is one source's contribution to a run.
type sourceOutput struct {
	commodities []models.CommodityQuote
	pairs       []models.CurrencyPairQuote
	rejections  []models.Rejection
	stats       models.SourceResult
	cfgErr      error
}

// runSource executes the fetch-extract-normalize-validate sequence for
// one source. Everything short of a configuration error degrades to
// fewer records.
func (c *Collector) runSource(ctx context.Context, name string) sourceOutput {
	started := time.Now()
	out := sourceOutput{stats: models.SourceResult{Source: name}}
	fail := func(err error) sourceOutput {
		out.cfgErr = err
		out.stats.Err = err.Error()
		out.stats.Duration = time.Since(started)
		return out
	}

	rs, err := c.rules.Get(name)
	if err != nil {
		return fail(err)
	}
	extractor, err := extract.ForParser(rs.Parser)
	if err != nil {
		return fail(fmt.Errorf("source %s: %w", name, err))
	}
	fetcher, ok := c.fetchers[rs.Method]
	if !ok {
		return fail(fmt.Errorf("source %s: no fetcher for method %q", name, rs.Method))
	}

	log := c.log.WithField("source", name)
	out.stats.URLs = len(rs.URLs)

	for _, url := range rs.URLs {
		content, err := fetcher.Fetch(ctx, url, rs.Headers)
		if err != nil {
			log.WithField("url", url).WithError(err).Warn("fetch failed, zero records from this URL")
			continue
		}

		cands, err := extractor.Extract(content, rs)
		if err != nil {
			log.WithField("url", url).WithError(err).Warn("extraction failed, zero records from this URL")
			continue
		}

		records := buildRecords(cands, rs, url, c.now())
		out.stats.Extracted += len(records)

		for _, rec := range records {
			if cfgErr := c.admit(rec, rs, &out); cfgErr != nil {
				return fail(fmt.Errorf("source %s: %w", name, cfgErr))
			}
		}
	}

	log.WithFields(logrus.Fields{
		"extracted": out.stats.Extracted,
		"accepted":  out.stats.Accepted,
		"rejected":  out.stats.Rejected,
	}).Info("source collected")

	out.stats.Duration = time.Since(started)
	return out
}

// admit normalizes and validates one raw record, routing it to the
// accepted stream or the rejection diagnostics. The only error it can
// return is a per-source validation configuration defect.
func (c *Collector) admit(rec models.RawRecord, rs *config.RuleSet, out *sourceOutput) error {
	switch models.Kind(rs.Kind) {
	case models.KindForex:
		quote, ok := c.norm.Pair(rec)
		if !ok {
			out.stats.Rejected++
			out.rejections = append(out.rejections, models.Rejection{
				Source:  rs.Name,
				Reasons: []string{"not normalizable as currency pair"},
			})
			return nil
		}
		verdict, err := c.engine.Pair(quote, rs.Validation)
		if err != nil {
			return err
		}
		c.logWarnings(rs.Name, quote.Pair, verdict)
		if !verdict.Valid {
			out.stats.Rejected++
			out.rejections = append(out.rejections, models.Rejection{
				Source: rs.Name, Name: quote.Pair, Reasons: verdict.Errors,
			})
			return nil
		}
		out.stats.Accepted++
		out.pairs = append(out.pairs, *quote)

	default: // commodity
		quote, ok := c.norm.Commodity(rec)
		if !ok {
			out.stats.Rejected++
			out.rejections = append(out.rejections, models.Rejection{
				Source:  rs.Name,
				Reasons: []string{"not normalizable as commodity quote"},
			})
			return nil
		}
		verdict, err := c.engine.Commodity(quote, rs.Validation)
		if err != nil {
			return err
		}
		c.logWarnings(rs.Name, quote.Name, verdict)
		if !verdict.Valid {
			out.stats.Rejected++
			out.rejections = append(out.rejections, models.Rejection{
				Source: rs.Name, Name: quote.Name, Reasons: verdict.Errors,
			})
			return nil
		}
		out.stats.Accepted++
		out.commodities = append(out.commodities, *quote)
	}
	return nil
}

func (c *Collector) logWarnings(source, name string, verdict models.Verdict) {
	for _, w := range verdict.Warnings {
		c.log.WithFields(logrus.Fields{"source": source, "record": name}).Warn(w)
	}
}
