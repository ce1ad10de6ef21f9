package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validate checks payload against s. Every declared field is visited in
// declaration order and all violations are collected before returning. On
// success the returned map holds the coerced values (float64 for number,
// int64 for integer, bool, string, []any, map[string]any), defaults for
// absent keys and, for open schemas, undeclared keys unchanged. On failure
// the error is a *ValidationError.
//
// A key holding JSON null is treated as absent.
func Validate(s Schema, payload map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	var issues []Issue

	for _, field := range s.Fields {
		raw, present := payload[field.Name]
		if present && raw == nil {
			present = false
		}
		if !present {
			if field.Default != nil {
				value, defaultIssues := checkValue(field.Name, field.Rule, field.Default)
				if len(defaultIssues) > 0 {
					value = field.Default
				}
				out[field.Name] = value
				continue
			}
			if field.Required {
				issues = append(issues, Issue{Path: field.Name, Message: "Required"})
			}
			continue
		}

		value, fieldIssues := checkValue(field.Name, field.Rule, raw)
		if len(fieldIssues) > 0 {
			issues = append(issues, fieldIssues...)
			continue
		}
		out[field.Name] = value
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Schema: s.Name, Issues: issues}
	}

	if s.Open {
		for key, value := range payload {
			if _, declared := s.Field(key); declared {
				continue
			}
			out[key] = value
		}
	}
	return out, nil
}

// ValidateValue checks a single value against rule, reporting issues under
// path. Absent values (nil) honour Required and Default like Validate.
func ValidateValue(path string, rule Rule, value any) (any, []Issue) {
	if value == nil {
		if rule.Default != nil {
			return checkValue(path, rule, rule.Default)
		}
		if rule.Required {
			return nil, []Issue{{Path: path, Message: "Required"}}
		}
		return nil, nil
	}
	return checkValue(path, rule, value)
}

// ValidateQuery validates URL query parameters. The last value of a repeated
// key wins, except for array fields which receive every value.
func ValidateQuery(s Schema, values url.Values) (map[string]any, error) {
	payload := make(map[string]any, len(values))
	for key, list := range values {
		if len(list) == 0 {
			continue
		}
		if field, ok := s.Field(key); ok && field.Kind == KindArray {
			items := make([]any, len(list))
			for i, item := range list {
				items[i] = item
			}
			payload[key] = items
			continue
		}
		payload[key] = list[len(list)-1]
	}
	return Validate(s, payload)
}

// DecodeJSON decodes a JSON object from r and validates it. Malformed or
// non-object bodies fail with a single form level issue. An empty body is an
// empty object.
func DecodeJSON(s Schema, r io.Reader) (map[string]any, error) {
	payload, err := decodeObject(r)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Schema = s.Name
		}
		return nil, err
	}
	return Validate(s, payload)
}

func decodeObject(r io.Reader) (map[string]any, error) {
	if r == nil {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, &ValidationError{Issues: []Issue{{Message: "Invalid JSON body"}}}
	}
	payload, ok := body.(map[string]any)
	if !ok {
		return nil, &ValidationError{Issues: []Issue{{Message: "Expected object, received " + typeName(body)}}}
	}
	return payload, nil
}

func checkValue(path string, rule Rule, raw any) (any, []Issue) {
	switch {
	case rule.Kind.stringBased():
		return checkString(path, rule, raw)
	case rule.Kind == KindNumber:
		return checkNumber(path, rule, raw)
	case rule.Kind == KindInteger:
		return checkInteger(path, rule, raw)
	case rule.Kind == KindBoolean:
		return checkBoolean(path, raw)
	case rule.Kind == KindArray:
		return checkArray(path, rule, raw)
	case rule.Kind == KindObject:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, []Issue{typeIssue(path, "object", raw)}
		}
		return obj, nil
	default:
		return nil, []Issue{{Path: path, Message: fmt.Sprintf("Unsupported kind %q", rule.Kind)}}
	}
}

func checkString(path string, rule Rule, raw any) (any, []Issue) {
	value, ok := raw.(string)
	if !ok {
		return nil, []Issue{typeIssue(path, "string", raw)}
	}
	if rule.Sanitize {
		value = SanitizeText(value)
	}

	var issues []Issue
	fail := func(message string) {
		if rule.Message != "" {
			message = rule.Message
		}
		issues = append(issues, Issue{Path: path, Message: message})
	}

	length := utf8.RuneCountInString(value)
	if rule.MinLength != nil && length < *rule.MinLength {
		fail(fmt.Sprintf("String must contain at least %d character(s)", *rule.MinLength))
	}
	if rule.MaxLength != nil && length > *rule.MaxLength {
		fail(fmt.Sprintf("String must contain at most %d character(s)", *rule.MaxLength))
	}

	switch rule.Kind {
	case KindUUID:
		if !IsUUID(value) {
			fail("Invalid UUID format")
		}
	case KindEmail:
		if !IsEmail(value) {
			fail("Invalid email format")
		}
	case KindURL:
		if !IsURL(value) {
			fail("Invalid URL format")
		}
	case KindSwissPostalCode:
		if !IsSwissPostalCode(value) {
			fail("Invalid Swiss postal code")
		}
	case KindSwissPhone:
		if !IsSwissPhone(value) {
			fail("Invalid Swiss phone number")
		}
	case KindEnum:
		if !containsString(rule.Enum, value) {
			fail(fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", quoteEnum(rule.Enum), value))
		}
	case KindLiteral:
		if value != rule.Literal {
			fail(fmt.Sprintf("Invalid literal value, expected %q", rule.Literal))
		}
	}

	if rule.Pattern != "" {
		re, err := compilePattern(rule.Pattern)
		if err != nil {
			fail("Invalid pattern")
		} else if !re.MatchString(value) {
			fail("Invalid")
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return value, nil
}

func checkNumber(path string, rule Rule, raw any) (any, []Issue) {
	value, ok := toFloat(raw)
	if !ok {
		return nil, []Issue{typeIssue(path, "number", raw)}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, []Issue{{Path: path, Message: "Expected number, received nan"}}
	}
	if issues := checkRange(path, rule, value); len(issues) > 0 {
		return nil, issues
	}
	return value, nil
}

func checkInteger(path string, rule Rule, raw any) (any, []Issue) {
	value, ok := toFloat(raw)
	if !ok {
		return nil, []Issue{typeIssue(path, "integer", raw)}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, []Issue{{Path: path, Message: "Expected integer, received nan"}}
	}
	if value != math.Trunc(value) {
		return nil, []Issue{{Path: path, Message: "Expected integer, received float"}}
	}
	if issues := checkRange(path, rule, value); len(issues) > 0 {
		return nil, issues
	}
	return int64(value), nil
}

func checkRange(path string, rule Rule, value float64) []Issue {
	var issues []Issue
	fail := func(message string) {
		if rule.Message != "" {
			message = rule.Message
		}
		issues = append(issues, Issue{Path: path, Message: message})
	}
	if rule.Min != nil && value < *rule.Min {
		fail("Number must be greater than or equal to " + formatFloat(*rule.Min))
	}
	if rule.Max != nil && value > *rule.Max {
		fail("Number must be less than or equal to " + formatFloat(*rule.Max))
	}
	return issues
}

func checkBoolean(path string, raw any) (any, []Issue) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, []Issue{typeIssue(path, "boolean", raw)}
}

func checkArray(path string, rule Rule, raw any) (any, []Issue) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, []Issue{typeIssue(path, "array", raw)}
	}

	var issues []Issue
	fail := func(message string) {
		if rule.Message != "" {
			message = rule.Message
		}
		issues = append(issues, Issue{Path: path, Message: message})
	}
	if rule.MinLength != nil && rv.Len() < *rule.MinLength {
		fail(fmt.Sprintf("Array must contain at least %d element(s)", *rule.MinLength))
	}
	if rule.MaxLength != nil && rv.Len() > *rule.MaxLength {
		fail(fmt.Sprintf("Array must contain at most %d element(s)", *rule.MaxLength))
	}

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if rule.Items == nil {
			out[i] = item
			continue
		}
		itemPath := path + "." + strconv.Itoa(i)
		if item == nil {
			issues = append(issues, Issue{Path: itemPath, Message: "Required"})
			continue
		}
		value, itemIssues := checkValue(itemPath, *rule.Items, item)
		if len(itemIssues) > 0 {
			issues = append(issues, itemIssues...)
			continue
		}
		out[i] = value
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func typeIssue(path, expected string, raw any) Issue {
	return Issue{Path: path, Message: fmt.Sprintf("Expected %s, received %s", expected, typeName(raw))}
}

func typeName(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case map[string]any:
		return "object"
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "unknown"
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func quoteEnum(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, " | ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
