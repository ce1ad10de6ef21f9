package model

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// MinLineLength is the shortest trimmed line (in runes) that produces a field.
const MinLineLength = 3

// Rule is one entry of the priority-ordered classification table. A rule
// matches when the lower-cased line contains any keyword or when the line is
// longer than MinLength runes (MinLength zero disables the length test). A
// rule with no keywords and no length threshold always matches.
type Rule struct {
	Type      FieldType `yaml:"type"`
	Keywords  []string  `yaml:"keywords,omitempty"`
	Options   []string  `yaml:"options,omitempty"`
	MinLength int       `yaml:"minLength,omitempty"`
}

// Matches reports whether the rule applies to the trimmed line. lower is the
// lower-cased line, precomputed by the caller.
func (r Rule) Matches(line, lower string) bool {
	if len(r.Keywords) == 0 && r.MinLength <= 0 {
		return true
	}
	if r.MinLength > 0 && utf8.RuneCountInString(line) > r.MinLength {
		return true
	}
	for _, keyword := range r.Keywords {
		if keyword != "" && strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Classification is the outcome of classifying one line.
type Classification struct {
	Type    FieldType `json:"type"`
	Options []string  `json:"options,omitempty"`
}

var skillOptions = []string{
	"Programming / Programmierung",
	"Design / Design",
	"Management / Management",
	"Languages / Sprachen",
}

var languageLevelOptions = []string{
	"Native / Muttersprache",
	"Fluent / Fließend",
	"Intermediate / Mittel",
	"Beginner / Anfänger",
}

// DefaultRules returns a copy of the built-in bilingual keyword table. The
// order is significant: specific lexical signals come before the length based
// textarea fallback, and the final text rule always matches.
func DefaultRules() []Rule {
	rules := []Rule{
		{Type: FieldTypeEmail, Keywords: []string{"email", "e-mail", "@"}},
		{Type: FieldTypeDate, Keywords: []string{"date", "datum", "birth", "geburt", "start date", "deadline"}},
		{Type: FieldTypeNumber, Keywords: []string{"number", "nummer", "phone", "telefon", "salary", "gehalt"}},
		{Type: FieldTypeCheckbox, Keywords: []string{"☐", "□", "check", "tick", "haken", "agree", "consent"}},
		{Type: FieldTypeRadio, Keywords: []string{"skills", "fähigkeiten", "proficiency", "kenntnisse"}, Options: skillOptions},
		{Type: FieldTypeSelect, Keywords: []string{"language", "sprache", "native", "fluent"}, Options: languageLevelOptions},
		{Type: FieldTypeTextarea, MinLength: 50, Keywords: []string{"comment", "note", "bemerkung", "beschreibung", "describe", "experience"}},
		{Type: FieldTypeText},
	}
	return cloneRules(rules)
}

func cloneRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, rule := range rules {
		out[i] = Rule{
			Type:      rule.Type,
			Keywords:  append([]string(nil), rule.Keywords...),
			Options:   append([]string(nil), rule.Options...),
			MinLength: rule.MinLength,
		}
		if len(rule.Options) == 0 {
			out[i].Options = nil
		}
	}
	return out
}

// Classify walks rules in order and returns the first match. Lines shorter
// than MinLineLength runes after trimming are rejected. When no rule matches
// (only possible with a custom table lacking a catch-all) the line maps to
// text so every sufficiently long line yields a field.
func Classify(line string, rules []Rule) (Classification, bool) {
	trimmed := strings.TrimSpace(line)
	if utf8.RuneCountInString(trimmed) < MinLineLength {
		return Classification{}, false
	}
	lower := strings.ToLower(trimmed)
	for _, rule := range rules {
		if !rule.Matches(trimmed, lower) {
			continue
		}
		out := Classification{Type: rule.Type}
		if rule.Type.HasOptions() && len(rule.Options) > 0 {
			out.Options = append([]string(nil), rule.Options...)
		}
		return out, true
	}
	return Classification{Type: FieldTypeText}, true
}

type rulesDocument struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules parses a YAML rule table of the form:
//
//	rules:
//	  - type: date
//	    keywords: [frist, termin]
//
// Keywords are lower-cased. Select and radio rules must declare options and
// other kinds must not, so the options invariant holds for custom tables.
func LoadRules(r io.Reader) ([]Rule, error) {
	if r == nil {
		return nil, errors.New("model: rules reader is required")
	}
	var doc rulesDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("model: decode rules: %w", err)
	}

	out := make([]Rule, 0, len(doc.Rules))
	for idx, rule := range doc.Rules {
		if !rule.Type.Valid() {
			return nil, fmt.Errorf("model: rule %d: unknown field type %q", idx, rule.Type)
		}
		if rule.Type.HasOptions() && len(rule.Options) == 0 {
			return nil, fmt.Errorf("model: rule %d: %s rules require options", idx, rule.Type)
		}
		if !rule.Type.HasOptions() && len(rule.Options) > 0 {
			return nil, fmt.Errorf("model: rule %d: %s rules cannot declare options", idx, rule.Type)
		}
		if rule.MinLength < 0 {
			return nil, fmt.Errorf("model: rule %d: minLength must not be negative", idx)
		}
		keywords := make([]string, 0, len(rule.Keywords))
		for _, keyword := range rule.Keywords {
			if trimmed := strings.ToLower(strings.TrimSpace(keyword)); trimmed != "" {
				keywords = append(keywords, trimmed)
			}
		}
		rule.Keywords = keywords
		out = append(out, rule)
	}
	return cloneRules(out), nil
}
