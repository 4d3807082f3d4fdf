package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/marketpipe/internal/config"
)

// Field transform vocabulary. Closed set; unknown names are a rule
// error surfaced at evaluation time.
const (
	TransformToNumber    = "to_number"
	TransformLowercase   = "lowercase"
	TransformUppercase   = "uppercase"
	TransformStripSymbol = "strip_currency_symbols"
)

var numberRe = regexp.MustCompile(`-?[0-9.]+`)
var nonPriceRe = regexp.MustCompile(`[^0-9.,]`)

// ResolveField evaluates one field rule against a container selection.
// A missing selector match or an unmatched regex yields absence, not an
// error. When a selector matches multiple nodes the first match is
// taken, so evaluating the same rule twice always yields the same
// result. Only rule defects (bad regex, unknown transform) return an
// error.
func ResolveField(container *goquery.Selection, rule config.FieldRule) (string, bool, error) {
	sel := container
	if rule.Selector != "" {
		sel = container.Find(rule.Selector).First()
		if sel.Length() == 0 {
			return "", false, nil
		}
	}

	var value string
	if rule.Attribute != "" {
		attr, ok := sel.Attr(rule.Attribute)
		if !ok {
			return "", false, nil
		}
		value = attr
	} else {
		value = strings.TrimSpace(sel.Text())
	}
	if value == "" {
		return "", false, nil
	}

	if rule.Regex != "" {
		re, err := regexp.Compile(rule.Regex)
		if err != nil {
			return "", false, fmt.Errorf("field regex %q: %w", rule.Regex, err)
		}
		m := re.FindStringSubmatch(value)
		if m == nil || len(m) < 2 {
			return "", false, nil
		}
		value = m[1]
	}

	if rule.Transform != "" {
		out, err := ApplyTransform(value, rule.Transform)
		if err != nil {
			return "", false, err
		}
		value = out
	}

	return value, true, nil
}

// ApplyTransform applies one named transform to an extracted string.
func ApplyTransform(value, transform string) (string, error) {
	switch transform {
	case TransformToNumber:
		// Pull the first numeric run out of the string, thousands
		// separators removed. "1,234.56 USD/oz" becomes "1234.56".
		stripped := strings.ReplaceAll(value, ",", "")
		if num := numberRe.FindString(stripped); num != "" {
			return num, nil
		}
		return value, nil
	case TransformLowercase:
		return strings.ToLower(value), nil
	case TransformUppercase:
		return strings.ToUpper(value), nil
	case TransformStripSymbol:
		return nonPriceRe.ReplaceAllString(value, ""), nil
	default:
		return "", fmt.Errorf("unknown transform %q", transform)
	}
}
