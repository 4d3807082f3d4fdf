package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/marketpipe/internal/config"
)

// defaultContainers is used when a rule set names no container
// selector: candidate units default to table rows, divs and list items.
const defaultContainers = "tr, div, li"

// TreeExtractor extracts records from tree-structured markup. A
// configured container selector locates candidate units; every field
// rule is evaluated relative to its container. Containers with missing
// children simply resolve fewer fields and are filtered later by the
// required-field check — a malformed row never aborts the batch.
type TreeExtractor struct{}

// Extract implements Extractor.
func (e *TreeExtractor) Extract(content string, rs *config.RuleSet) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	containerSel := rs.Extraction.Container
	if containerSel == "" {
		containerSel = defaultContainers
	}

	var (
		out     []Candidate
		ruleErr error
	)
	doc.Find(containerSel).EachWithBreak(func(_ int, container *goquery.Selection) bool {
		fields := make(Candidate)
		for name, rule := range rs.Extraction.Fields {
			value, ok, err := ResolveField(container, rule)
			if err != nil {
				// A defective rule fails identically for every
				// container; stop and report it once.
				ruleErr = err
				return false
			}
			if ok {
				fields[name] = value
			}
		}
		if len(fields) > 0 {
			out = append(out, fields)
		}
		return true
	})
	if ruleErr != nil {
		return nil, ruleErr
	}

	return out, nil
}
