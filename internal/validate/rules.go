// Package validate applies declarative per-field rules and type-specific
// business-logic checks to normalized quotes. All failures accumulate;
// a rejected record carries every reason, not just the first.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/seenimoa/marketpipe/internal/config"
)

// RuleTag discriminates the closed set of field rule kinds.
type RuleTag string

const (
	TagNotNull   RuleTag = "not_null"
	TagRange     RuleTag = "range"
	TagPattern   RuleTag = "pattern"
	TagFreshness RuleTag = "freshness"
)

// maxFutureSkew is how far ahead of the wall clock a capture timestamp
// may sit before it is treated as clock skew rather than valid data.
const maxFutureSkew = time.Hour

// FieldRule is one declarative check bound to a field.
type FieldRule struct {
	Tag     RuleTag
	Field   string
	Min     *float64
	Max     *float64
	Pattern *regexp.Regexp
	MaxAge  time.Duration
}

// check evaluates the rule against a field value. Apart from not_null,
// rules pass on absent values — optional fields only need to be valid
// when they exist. The string return is the failure reason, empty on
// success.
func (r FieldRule) check(value any, now time.Time) string {
	switch r.Tag {
	case TagNotNull:
		if isAbsent(value) {
			return fmt.Sprintf("%s: value must not be empty", r.Field)
		}
		return ""

	case TagRange:
		num, ok := asFloat(value)
		if !ok {
			return ""
		}
		if r.Min != nil && num < *r.Min {
			return fmt.Sprintf("%s: value %g below minimum %g", r.Field, num, *r.Min)
		}
		if r.Max != nil && num > *r.Max {
			return fmt.Sprintf("%s: value %g above maximum %g", r.Field, num, *r.Max)
		}
		return ""

	case TagPattern:
		s, ok := value.(string)
		if !ok || s == "" {
			return ""
		}
		if !r.Pattern.MatchString(s) {
			return fmt.Sprintf("%s: value %q does not match %s", r.Field, s, r.Pattern)
		}
		return ""

	case TagFreshness:
		ts, ok := value.(time.Time)
		if !ok || ts.IsZero() {
			return fmt.Sprintf("%s: missing capture timestamp", r.Field)
		}
		// A timestamp exactly at the age threshold is still valid.
		if age := now.Sub(ts); age > r.MaxAge {
			return fmt.Sprintf("%s: record is %s old, maximum age %s", r.Field, age.Round(time.Second), r.MaxAge)
		}
		if ts.After(now.Add(maxFutureSkew)) {
			return fmt.Sprintf("%s: timestamp %s is in the future", r.Field, ts.Format(time.RFC3339))
		}
		return ""
	}
	return ""
}

// isAbsent reports whether a field value counts as missing. Optional
// model fields arrive as typed nil pointers, which a bare interface
// nil test does not catch.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case *float64:
		return t == nil
	case *int64:
		return t == nil
	case time.Time:
		return t.IsZero()
	}
	return false
}

// asFloat coerces the numeric types that reach validation.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case *float64:
		if t == nil {
			return 0, false
		}
		return *t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case *int64:
		if t == nil {
			return 0, false
		}
		return float64(*t), true
	}
	return 0, false
}

// rulesFromConfig compiles per-source declarative checks into field
// rules. Invalid patterns are a configuration error for that source.
// Fields compile in sorted order so rejection reasons come out in a
// stable order across runs.
func rulesFromConfig(vr config.ValidationRules) ([]FieldRule, error) {
	var rules []FieldRule
	for _, field := range vr.RequiredFields {
		rules = append(rules, FieldRule{Tag: TagNotNull, Field: field})
	}
	fields := make([]string, 0, len(vr.Fields))
	for field := range vr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		check := vr.Fields[field]
		if check.NotNull {
			rules = append(rules, FieldRule{Tag: TagNotNull, Field: field})
		}
		if check.Min != nil || check.Max != nil {
			rules = append(rules, FieldRule{Tag: TagRange, Field: field, Min: check.Min, Max: check.Max})
		}
		if check.Pattern != "" {
			re, err := regexp.Compile(check.Pattern)
			if err != nil {
				return nil, fmt.Errorf("validation pattern for %s: %w", field, err)
			}
			rules = append(rules, FieldRule{Tag: TagPattern, Field: field, Pattern: re})
		}
		if check.MaxAgeHours > 0 {
			rules = append(rules, FieldRule{Tag: TagFreshness, Field: field, MaxAge: time.Duration(check.MaxAgeHours) * time.Hour})
		}
	}
	return rules, nil
}
