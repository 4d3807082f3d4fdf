package extract

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/seenimoa/marketpipe/internal/config"
)

// PatternExtractor extracts records by running named regex patterns
// across the full raw text in multi-line, dot-all mode. Each match
// becomes one candidate; capture groups fill the pattern's field list
// positionally. Matches populating fewer than min_fields domain fields
// are discarded as noise.
type PatternExtractor struct{}

// Extract implements Extractor.
func (e *PatternExtractor) Extract(content string, rs *config.RuleSet) ([]Candidate, error) {
	names := make([]string, 0, len(rs.Patterns))
	for name := range rs.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Candidate
	for _, name := range names {
		pat := rs.Patterns[name]
		re, err := regexp.Compile("(?ms)" + pat.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", name, err)
		}

		for _, match := range re.FindAllStringSubmatch(content, -1) {
			fields := make(Candidate)
			populated := 0
			for i, fieldName := range pat.Fields {
				if i+1 >= len(match) {
					break
				}
				if match[i+1] == "" {
					continue
				}
				fields[fieldName] = match[i+1]
				populated++
			}
			if populated >= rs.MinFields {
				out = append(out, fields)
			}
		}
	}
	return out, nil
}
