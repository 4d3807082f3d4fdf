// Package extract turns raw fetched content into untyped field maps,
// driven entirely by per-source rule sets. Three interchangeable
// strategies cover tree-structured markup, structured JSON payloads and
// pattern-matched free text; a fourth handles RSS/Atom feeds.
package extract

import (
	"fmt"

	"github.com/seenimoa/marketpipe/internal/config"
)

// Candidate is one extracted field map before provenance and
// required-field enforcement (which the record builder applies).
type Candidate map[string]any

// Extractor turns one document's content into candidate records.
// Extractor-level failures (malformed payload, regex compile error)
// surface as an error; the caller logs it and treats the source as
// having produced zero records. Per-container problems never abort the
// batch — the offending container is skipped.
type Extractor interface {
	Extract(content string, rs *config.RuleSet) ([]Candidate, error)
}

// ForParser returns the extractor for a parser kind. The dispatch is a
// closed set; config validation already rejects unknown kinds, so an
// error here indicates a rule set that bypassed validation.
func ForParser(kind string) (Extractor, error) {
	switch kind {
	case config.ParserTree:
		return &TreeExtractor{}, nil
	case config.ParserStructured:
		return &StructuredExtractor{}, nil
	case config.ParserPattern:
		return &PatternExtractor{}, nil
	case config.ParserFeed:
		return &FeedExtractor{}, nil
	default:
		return nil, fmt.Errorf("no extractor for parser %q", kind)
	}
}
