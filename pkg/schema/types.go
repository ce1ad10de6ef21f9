package schema

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind identifies the value type a Rule accepts.
type Kind string

const (
	KindString          Kind = "string"
	KindNumber          Kind = "number"
	KindInteger         Kind = "integer"
	KindBoolean         Kind = "boolean"
	KindArray           Kind = "array"
	KindObject          Kind = "object"
	KindUUID            Kind = "uuid"
	KindEmail           Kind = "email"
	KindURL             Kind = "url"
	KindSwissPostalCode Kind = "swiss_postal_code"
	KindSwissPhone      Kind = "swiss_phone"
	KindEnum            Kind = "enum"
	KindLiteral         Kind = "literal"
)

// Kinds lists every supported Kind.
func Kinds() []Kind {
	return []Kind{
		KindString, KindNumber, KindInteger, KindBoolean, KindArray, KindObject,
		KindUUID, KindEmail, KindURL, KindSwissPostalCode, KindSwissPhone,
		KindEnum, KindLiteral,
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// stringBased reports whether values of the kind are strings after coercion.
func (k Kind) stringBased() bool {
	switch k {
	case KindString, KindUUID, KindEmail, KindURL, KindSwissPostalCode, KindSwissPhone, KindEnum, KindLiteral:
		return true
	default:
		return false
	}
}

// Rule declares the constraints for one field value.
type Rule struct {
	Kind      Kind     `json:"kind" yaml:"kind"`
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Enum      []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Literal   string   `json:"literal,omitempty" yaml:"literal,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Default   any      `json:"default,omitempty" yaml:"default,omitempty"`
	Items     *Rule    `json:"items,omitempty" yaml:"items,omitempty"`
	// Sanitize strips HTML markup from string values before the remaining
	// checks run.
	Sanitize bool `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
	// Message replaces the default text of constraint failures (length,
	// range, format, pattern). Missing and type mismatch issues keep theirs.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Field pairs a payload key with its rule.
type Field struct {
	Name string
	Rule
}

// Fields keeps declaration order, which drives the order of reported issues.
// In YAML it is written as a mapping from key to rule.
type Fields []Field

// UnmarshalYAML decodes a mapping node while preserving key order.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("schema: fields must be a mapping (line %d)", node.Line)
	}
	out := make(Fields, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if _, dup := seen[key.Value]; dup {
			return fmt.Errorf("schema: duplicate field %q (line %d)", key.Value, key.Line)
		}
		seen[key.Value] = struct{}{}
		var rule Rule
		if err := value.Decode(&rule); err != nil {
			return fmt.Errorf("schema: field %q: %w", key.Value, err)
		}
		out = append(out, Field{Name: key.Value, Rule: rule})
	}
	*f = out
	return nil
}

// Schema is a named, ordered set of field rules.
type Schema struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description,omitempty"`
	// Open schemas pass undeclared keys through unchanged. Closed schemas drop
	// them.
	Open   bool   `yaml:"open,omitempty"`
	Fields Fields `yaml:"fields"`
}

// Field returns the declared field with the supplied name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Check verifies the schema declaration itself: known kinds, enum values for
// enum rules, a literal for literal rules and compilable patterns.
func (s Schema) Check() error {
	if len(s.Fields) == 0 && !s.Open {
		return fmt.Errorf("schema %s: no fields declared", s.Name)
	}
	var errs []error
	for _, field := range s.Fields {
		if field.Name == "" {
			errs = append(errs, fmt.Errorf("schema %s: field name is required", s.Name))
			continue
		}
		if err := checkRule(field.Rule); err != nil {
			errs = append(errs, fmt.Errorf("schema %s: field %s: %w", s.Name, field.Name, err))
		}
	}
	return errors.Join(errs...)
}

func checkRule(rule Rule) error {
	if !rule.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", rule.Kind)
	}
	switch rule.Kind {
	case KindEnum:
		if len(rule.Enum) == 0 {
			return errors.New("enum rules require values")
		}
	case KindLiteral:
		if rule.Literal == "" {
			return errors.New("literal rules require a value")
		}
	case KindArray:
		if rule.Items != nil {
			if err := checkRule(*rule.Items); err != nil {
				return fmt.Errorf("items: %w", err)
			}
		}
	}
	if rule.Pattern != "" {
		if _, err := compilePattern(rule.Pattern); err != nil {
			return fmt.Errorf("pattern: %w", err)
		}
	}
	return nil
}

// Float returns a pointer to v, for building rules in code.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building rules in code.
func Int(v int) *int { return &v }
