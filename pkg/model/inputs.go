package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-expatform/pkg/schema"
	"github.com/goliatone/go-expatform/pkg/translate"
)

// InputSchemaName names schemas derived from field lists.
const InputSchemaName = "form_inputs"

// InputSchema derives a validation schema for the answers of a generated
// form. Keys are field ids. Text answers are sanitised; the field's own
// validation (pattern, bounds, message) carries over.
func InputSchema(fields []Field) schema.Schema {
	out := schema.Schema{Name: InputSchemaName, Fields: make(schema.Fields, 0, len(fields))}
	for _, field := range fields {
		out.Fields = append(out.Fields, schema.Field{Name: field.ID, Rule: InputRule(field)})
	}
	return out
}

// InputRule returns the schema rule for answers to a single field.
func InputRule(field Field) schema.Rule {
	rule := schema.Rule{Required: field.Required}
	switch field.Type {
	case FieldTypeNumber:
		rule.Kind = schema.KindNumber
	case FieldTypeCheckbox:
		rule.Kind = schema.KindBoolean
	case FieldTypeSelect, FieldTypeRadio:
		rule.Kind = schema.KindEnum
		rule.Enum = append([]string(nil), field.Options...)
	default:
		rule.Kind = schema.KindString
		rule.Sanitize = true
	}

	if v := field.Validation; v != nil {
		rule.Pattern = v.Pattern
		rule.Message = v.Message
		if v.Min != nil {
			lo := *v.Min
			rule.Min = &lo
		}
		if v.Max != nil {
			hi := *v.Max
			rule.Max = &hi
		}
	}
	return rule
}

// ValidateInputs checks user answers keyed by field id. Blank strings count
// as unanswered so optional fields may be left empty.
func ValidateInputs(fields []Field, inputs map[string]any) (map[string]any, error) {
	cleaned := make(map[string]any, len(inputs))
	for key, value := range inputs {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		cleaned[key] = value
	}
	return schema.Validate(InputSchema(fields), cleaned)
}

// Translate returns a copy of fields with TranslatedText set from each
// field's OriginalText. The input slice is not modified.
func Translate(ctx context.Context, translator translate.Translator, fields []Field, lang string) ([]Field, error) {
	if translator == nil {
		return nil, fmt.Errorf("model: translator is required")
	}
	out := CloneFields(fields)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if out[i].OriginalText == "" {
			continue
		}
		result, err := translator.Translate(ctx, out[i].OriginalText, lang)
		if err != nil {
			return nil, fmt.Errorf("model: translate field %s: %w", out[i].ID, err)
		}
		out[i].TranslatedText = result.TranslatedText
	}
	return out, nil
}
