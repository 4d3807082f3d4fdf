// Package normalize converts untyped field maps into typed quote
// records: locale-ambiguous price parsing, percentage parsing, symbol
// extraction, name standardization and category inference.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var priceJunkRe = regexp.MustCompile(`[^0-9.,\-]`)

// ParsePrice parses a price string whose thousands/decimal separators
// may follow either locale convention. The rules are deterministic:
//
//  1. Both "," and "." present: whichever occurs later is the decimal
//     point, the other is stripped as a thousands separator.
//  2. Only "," present with at most two trailing digits: decimal comma.
//  3. Only "," present otherwise: thousands separator, stripped.
//
// Anything still unparseable afterwards reports false.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = priceJunkRe.ReplaceAllString(s, "")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	case hasComma:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePercent parses a percentage string such as "+1.25%" or "-0,8 %".
// Values with absolute magnitude above 100 are assumed to be scaled by
// 100 already and are divided back down. That assumption misreads a
// genuine move beyond ±100%; it is kept for parity with observed source
// behavior and pinned by tests.
func ParsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = priceJunkRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v > 100 || v < -100 {
		return v / 100, true
	}
	return v, true
}

var symbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z]+\d*:COM)`),  // e.g. GC1:COM
	regexp.MustCompile(`([A-Z]+USD:CUR)`),  // e.g. XAUUSD:CUR
	regexp.MustCompile(`([A-Z]+\d+)`),      // e.g. GC1
	regexp.MustCompile(`([A-Z]{2,4})`),     // bare symbol
}

// ExtractSymbol pulls a commodity ticker out of free text, trying the
// most specific exchange-suffixed forms first.
func ExtractSymbol(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range symbolPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
