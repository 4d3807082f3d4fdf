package extract

import (
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/marketpipe/internal/config"
	"github.com/seenimoa/marketpipe/pkg/utils"
)

// FeedExtractor extracts records from RSS/Atom documents. Each feed
// item becomes one candidate; field_mapping projects item attributes
// (title, link, description, published) onto record fields, defaulting
// to name ← title.
type FeedExtractor struct {
	parser *gofeed.Parser
}

// Extract implements Extractor.
func (e *FeedExtractor) Extract(content string, rs *config.RuleSet) ([]Candidate, error) {
	if e.parser == nil {
		e.parser = gofeed.NewParser()
	}
	feed, err := e.parser.ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	mapping := rs.FieldMapping
	if len(mapping) == 0 {
		mapping = map[string]string{"name": "title"}
	}

	var out []Candidate
	for _, item := range feed.Items {
		attrs := map[string]any{
			"title":       utils.NormalizeWhitespace(item.Title),
			"link":        item.Link,
			"description": utils.StripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			attrs["published"] = *item.PublishedParsed
		}

		fields := make(Candidate)
		for target, source := range mapping {
			if v, ok := attrs[source]; ok && v != "" {
				fields[target] = v
			}
		}
		if len(fields) > 0 {
			out = append(out, fields)
		}
	}
	return out, nil
}
