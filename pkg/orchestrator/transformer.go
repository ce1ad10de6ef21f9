package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-expatform/pkg/model"
)

// Transformer mutates a document after analysis and translation. Implementations
// can relabel fields, tighten requirements, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, doc *model.Document) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *model.Document) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *model.Document) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Field patches are keyed by the analyzer-assigned field id:
//
//	{
//	  "title": "Anmeldung Wohnsitz",
//	  "description": "Formular der Gemeinde",
//	  "fields": {
//	    "field_1": {"label": "Vorname", "required": true},
//	    "field_3": {"type": "select", "options": ["Ledig", "Verheiratet"], "rename": "civil_status"}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Fields      map[string]fieldPatch `json:"fields"`
}

type fieldPatch struct {
	Label          string          `json:"label"`
	Placeholder    string          `json:"placeholder"`
	TranslatedText string          `json:"translatedText"`
	Type           model.FieldType `json:"type"`
	Required       *bool           `json:"required"`
	Options        []string        `json:"options"`
	Rename         string          `json:"rename"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for id, patch := range document.Fields {
		if patch.Type != "" && !patch.Type.Valid() {
			return nil, fmt.Errorf("json preset transformer: field %q: unknown type %q", id, patch.Type)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied document.
// Patches are applied in field id order so rename collisions fail the same
// way on every run.
func (t *JSONPresetTransformer) Transform(ctx context.Context, doc *model.Document) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if title := strings.TrimSpace(t.document.Title); title != "" {
		doc.Title = title
	}
	if description := strings.TrimSpace(t.document.Description); description != "" {
		doc.Description = description
	}

	ids := make([]string, 0, len(t.document.Fields))
	for id := range t.document.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findField(doc.Fields, id)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", id)
		}
		patch := t.document.Fields[id]
		if rename := strings.TrimSpace(patch.Rename); rename != "" && rename != field.ID {
			if findField(doc.Fields, rename) != nil {
				return fmt.Errorf("json preset transformer: rename %q: field %q already exists", id, rename)
			}
		}
		applyFieldPatch(field, patch)
		if field.Type.HasOptions() && len(field.Options) == 0 {
			return fmt.Errorf("json preset transformer: field %q: type %s requires options", id, field.Type)
		}
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if field == nil {
		return
	}
	if patch.Label != "" {
		field.Label = patch.Label
		field.OriginalText = patch.Label
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.TranslatedText != "" {
		field.TranslatedText = patch.TranslatedText
	}
	if patch.Type != "" {
		field.Type = patch.Type
		if !patch.Type.HasOptions() && patch.Options == nil {
			field.Options = nil
		}
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Options != nil {
		field.Options = append([]string(nil), patch.Options...)
	}
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		field.ID = rename
	}
}

func findField(fields []model.Field, id string) *model.Field {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	for idx := range fields {
		if fields[idx].ID == id {
			return &fields[idx]
		}
	}
	return nil
}
