package models

import "time"

// Kind identifies which typed quote a rule set produces.
type Kind string

const (
	KindCommodity Kind = "commodity"
	KindForex     Kind = "forex"
)

// RawRecord is one untyped record extracted from a source document.
// It always carries provenance: the source name, the origin URL and the
// capture timestamp (time of extraction, not time of the data itself).
// Raw records are transient — they are discarded once normalized.
type RawRecord struct {
	Source    string         `json:"source"`
	URL       string         `json:"url"`
	Timestamp time.Time      `json:"timestamp"`
	Fields    map[string]any `json:"fields"`
}

// NewRawRecord creates an empty raw record with provenance attached.
func NewRawRecord(source, url string, ts time.Time) RawRecord {
	return RawRecord{
		Source:    source,
		URL:       url,
		Timestamp: ts,
		Fields:    make(map[string]any),
	}
}

// Field returns the named field value, reporting whether it is present.
func (r RawRecord) Field(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// SetField stores a field value. Nil values are dropped so that absence
// stays representable as a missing key.
func (r RawRecord) SetField(name string, value any) {
	if value == nil {
		return
	}
	r.Fields[name] = value
}

// HasFields reports whether every named field is present.
func (r RawRecord) HasFields(names []string) bool {
	for _, n := range names {
		if _, ok := r.Fields[n]; !ok {
			return false
		}
	}
	return true
}
