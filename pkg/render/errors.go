package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/schema"
)

// ErrorMapping splits validation issues into field-level messages keyed by
// field id and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Apply copies the mapping into opts, merging with messages already present.
func (m ErrorMapping) Apply(opts *RenderOptions) {
	if opts == nil {
		return
	}
	if len(m.Fields) > 0 {
		if opts.Errors == nil {
			opts.Errors = make(map[string][]string, len(m.Fields))
		}
		for id, messages := range m.Fields {
			opts.Errors[id] = normalizeMessages(append(opts.Errors[id], messages...))
		}
	}
	opts.FormErrors = MergeFormErrors(opts.FormErrors, m.Form...)
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapIssues attaches validation issues to the fields of doc. A path matches
// a field by id (field_3, userInputs.field_3) or by position in the field
// list (fields.3.label). Issues that match no field keep their full
// "path: message" text and become form-level errors.
func MapIssues(doc model.Document, issues []schema.Issue) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	ids := make(map[string]struct{}, len(doc.Fields))
	for _, field := range doc.Fields {
		ids[field.ID] = struct{}{}
	}

	for _, issue := range issues {
		message := strings.TrimSpace(issue.Message)
		if message == "" {
			continue
		}
		if id, ok := matchField(doc, ids, issue.Path); ok {
			mapping.Fields[id] = append(mapping.Fields[id], message)
			continue
		}
		mapping.Form = append(mapping.Form, issue.String())
	}

	for id, messages := range mapping.Fields {
		mapping.Fields[id] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchField(doc model.Document, ids map[string]struct{}, path string) (string, bool) {
	segments := dropWrapperSegments(pathSegments(path))
	if len(segments) == 0 {
		return "", false
	}
	if _, ok := ids[segments[0]]; ok {
		return segments[0], true
	}
	if segments[0] == "fields" && len(segments) > 1 {
		if idx, err := strconv.Atoi(segments[1]); err == nil && idx >= 0 && idx < len(doc.Fields) {
			return doc.Fields[idx].ID, true
		}
	}
	return "", false
}

func pathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.NewReplacer("[", ".", "]", "", "/", ".").Replace(clean)
	parts := strings.Split(clean, ".")

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "payload", "data", "userinputs", "formdata", "values", "inputs":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
