package pipeline

import (
	"strings"
	"time"

	"github.com/seenimoa/marketpipe/internal/config"
	"github.com/seenimoa/marketpipe/internal/extract"
	"github.com/seenimoa/marketpipe/pkg/models"
	"github.com/seenimoa/marketpipe/pkg/utils"
)

// buildRecords turns extractor candidates into raw records: cleaning
// rules run first, then provenance is attached and the required-field
// set enforced. Candidates missing a required field are dropped here,
// never surfaced as errors.
func buildRecords(cands []extract.Candidate, rs *config.RuleSet, url string, now time.Time) []models.RawRecord {
	var out []models.RawRecord
	for _, cand := range cands {
		cleaned := applyCleaning(cand, rs.Cleaning)

		rec := models.NewRawRecord(rs.Name, url, now)
		for name, value := range cleaned {
			rec.SetField(name, value)
		}
		if !rec.HasFields(rs.RequiredFields) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

var currencyJunk = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", "₹", "", "%", "", " ", "")

// applyCleaning runs per-field cleaning and transform rules on string
// values. Unknown rule names leave the value untouched.
func applyCleaning(cand extract.Candidate, rules config.CleaningRules) extract.Candidate {
	if len(rules.Fields) == 0 && len(rules.Transforms) == 0 {
		return cand
	}

	out := make(extract.Candidate, len(cand))
	for k, v := range cand {
		out[k] = v
	}

	for field, kinds := range rules.Fields {
		s, ok := out[field].(string)
		if !ok {
			continue
		}
		for _, kind := range kinds {
			switch kind {
			case "remove_currency":
				s = currencyJunk.Replace(s)
			case "normalize_whitespace":
				s = utils.NormalizeWhitespace(s)
			case "remove_html":
				s = utils.StripHTML(s)
			}
		}
		out[field] = s
	}

	for field, transform := range rules.Transforms {
		s, ok := out[field].(string)
		if !ok {
			continue
		}
		if v, err := extract.ApplyTransform(s, transform); err == nil {
			out[field] = v
		}
	}
	return out
}
