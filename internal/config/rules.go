package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Parser kinds supported by the extractors. The vocabulary is closed;
// anything else is a configuration error for that source.
const (
	ParserTree       = "tree"       // selector-driven markup extraction
	ParserStructured = "structured" // path traversal into JSON payloads
	ParserPattern    = "pattern"    // named regex patterns over raw text
	ParserFeed       = "feed"       // RSS/Atom feeds
)

// Fetch methods. "http" is the plain client; "browser" drives a
// headless Chrome for JS-rendered pages.
const (
	MethodHTTP    = "http"
	MethodBrowser = "browser"
)

// FieldRule resolves one field's value from a container. In YAML it is
// either a plain selector string or a mapping with selector, attribute,
// regex and transform keys.
type FieldRule struct {
	Selector  string `yaml:"selector"`
	Attribute string `yaml:"attribute"`
	Regex     string `yaml:"regex"`
	Transform string `yaml:"transform"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (f *FieldRule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Selector = node.Value
		return nil
	}
	type plain FieldRule
	return node.Decode((*plain)(f))
}

// PatternRule is one named regex applied across the whole raw text.
// Fields are assigned positionally from capture groups.
type PatternRule struct {
	Pattern string   `yaml:"pattern"`
	Fields  []string `yaml:"fields"`
}

// ExtractionRules configures the tree extractor for a source.
type ExtractionRules struct {
	Container string               `yaml:"container"`
	Fields    map[string]FieldRule `yaml:"fields"`
}

// CleaningRules configures per-field cleanup between extraction and
// normalization. Vocabulary: remove_currency, normalize_whitespace,
// remove_html. A field takes either one rule or a sequence of rules.
type CleaningRules struct {
	Fields     map[string]StringList `yaml:"fields"`
	Transforms map[string]string     `yaml:"transforms"`
}

// StringList accepts either a single string or a YAML sequence.
type StringList []string

// UnmarshalYAML accepts both the scalar and the sequence form.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = StringList{node.Value}
		return nil
	}
	var items []string
	if err := node.Decode(&items); err != nil {
		return err
	}
	*l = items
	return nil
}

// FieldCheck is one declarative validation constraint for a field.
type FieldCheck struct {
	NotNull     bool     `yaml:"not_null"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
	Pattern     string   `yaml:"pattern"`
	MaxAgeHours int      `yaml:"max_age_hours"`
}

// ValidationRules holds per-source validation configuration.
type ValidationRules struct {
	RequiredFields []string              `yaml:"required_fields"`
	Fields         map[string]FieldCheck `yaml:"fields"`
}

// RuleSet is the full declarative configuration for one logical source.
// It is immutable once loaded and identified by source name.
type RuleSet struct {
	Name    string   `yaml:"name"`
	Enabled bool     `yaml:"enabled"`
	Kind    string   `yaml:"type"`   // "commodity" or "forex"
	Method  string   `yaml:"method"` // "http" or "browser"
	URLs    URLList  `yaml:"urls"`
	Headers map[string]string `yaml:"headers"`

	Parser         string                 `yaml:"parser"`
	Extraction     ExtractionRules        `yaml:"extraction"`
	JSONPath       string                 `yaml:"json_path"`
	FieldMapping   map[string]string      `yaml:"field_mapping"`
	Patterns       map[string]PatternRule `yaml:"regex_patterns"`
	MinFields      int                    `yaml:"min_fields"`
	RequiredFields []string               `yaml:"required_fields"`
	Cleaning       CleaningRules          `yaml:"cleaning"`
	Validation     ValidationRules        `yaml:"validation"`
}

// URLList accepts either a single URL string or a YAML sequence.
type URLList []string

// UnmarshalYAML accepts both the scalar and the sequence form.
func (u *URLList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*u = URLList{node.Value}
		return nil
	}
	var urls []string
	if err := node.Decode(&urls); err != nil {
		return err
	}
	*u = urls
	return nil
}

// rulesDocument mirrors the on-disk rules file layout. The two
// namespaces are historical: generic_scrapers carry full extraction
// rules, simple_scrapers lean on defaults.
type rulesDocument struct {
	Generic map[string]*RuleSet `yaml:"generic_scrapers"`
	Simple  map[string]*RuleSet `yaml:"simple_scrapers"`
}

// RuleIndex holds every loaded rule set keyed by source name.
type RuleIndex struct {
	sets map[string]*RuleSet
}

// ErrUnknownSource is returned when a requested source has no rule set.
var ErrUnknownSource = fmt.Errorf("unknown source")

// LoadRules reads and validates a rules YAML document.
func LoadRules(path string) (*RuleIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules parses a rules YAML document from memory.
func ParseRules(data []byte) (*RuleIndex, error) {
	var doc rulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	idx := &RuleIndex{sets: make(map[string]*RuleSet)}
	for name, rs := range doc.Generic {
		if err := idx.add(name, rs); err != nil {
			return nil, err
		}
	}
	for name, rs := range doc.Simple {
		if err := idx.add(name, rs); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (ri *RuleIndex) add(name string, rs *RuleSet) error {
	if rs == nil {
		rs = &RuleSet{}
	}
	if rs.Name == "" {
		rs.Name = name
	}
	applyDefaults(rs)
	if err := validateRuleSet(rs); err != nil {
		return fmt.Errorf("rule set %q: %w", name, err)
	}
	if _, dup := ri.sets[rs.Name]; dup {
		return fmt.Errorf("rule set %q: duplicate source name", rs.Name)
	}
	ri.sets[rs.Name] = rs
	return nil
}

// Get returns the rule set for a source name.
func (ri *RuleIndex) Get(name string) (*RuleSet, error) {
	rs, ok := ri.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return rs, nil
}

// Enabled returns all enabled rule sets sorted by name.
func (ri *RuleIndex) Enabled() []*RuleSet {
	var out []*RuleSet
	for _, rs := range ri.sets {
		if rs.Enabled {
			out = append(out, rs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every configured source name sorted alphabetically.
func (ri *RuleIndex) Names() []string {
	names := make([]string, 0, len(ri.sets))
	for name := range ri.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyDefaults fills permissive defaults for omitted keys.
func applyDefaults(rs *RuleSet) {
	if rs.Kind == "" {
		rs.Kind = "commodity"
	}
	if rs.Method == "" {
		rs.Method = MethodHTTP
	}
	if rs.Parser == "" {
		rs.Parser = ParserTree
	}
	// Legacy parser names from the first rules format.
	switch rs.Parser {
	case "html":
		rs.Parser = ParserTree
	case "json":
		rs.Parser = ParserStructured
	case "regex":
		rs.Parser = ParserPattern
	}
	if len(rs.RequiredFields) == 0 {
		rs.RequiredFields = []string{"name"}
	}
	if rs.MinFields <= 0 {
		rs.MinFields = 1
	}
}

// validateRuleSet rejects rule sets the pipeline cannot execute.
func validateRuleSet(rs *RuleSet) error {
	switch rs.Parser {
	case ParserTree, ParserStructured, ParserPattern, ParserFeed:
	default:
		return fmt.Errorf("unsupported parser %q", rs.Parser)
	}
	switch rs.Method {
	case MethodHTTP, MethodBrowser:
	default:
		return fmt.Errorf("unsupported method %q", rs.Method)
	}
	switch rs.Kind {
	case "commodity", "forex":
	default:
		return fmt.Errorf("unsupported type %q", rs.Kind)
	}
	if rs.Enabled && len(rs.URLs) == 0 {
		return fmt.Errorf("enabled source has no urls")
	}
	if rs.Parser == ParserPattern && len(rs.Patterns) == 0 {
		return fmt.Errorf("pattern parser requires regex_patterns")
	}
	return nil
}
