package model

import "time"

// FieldType is the closed set of input kinds the analyzer can infer.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
)

// FieldTypes lists every FieldType in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeRadio,
		FieldTypeDate,
		FieldTypeNumber,
		FieldTypeEmail,
	}
}

// Valid reports whether t is one of the known field kinds.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this kind carry a discrete choice list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio
}

// Validation describes the rule applied to answers for a field. Numeric
// bounds are pointers so an explicit zero survives JSON snapshots.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Position is a layout rectangle assigned by sequential vertical stacking.
// It is a rendering hint only.
type Position struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Field models one inferred input derived from a line of document text.
type Field struct {
	ID             string      `json:"id"`
	Type           FieldType   `json:"type"`
	Label          string      `json:"label"`
	Placeholder    string      `json:"placeholder,omitempty"`
	Required       bool        `json:"required"`
	Options        []string    `json:"options,omitempty"`
	Validation     *Validation `json:"validation,omitempty"`
	Position       Position    `json:"position"`
	OriginalText   string      `json:"originalText,omitempty"`
	TranslatedText string      `json:"translatedText,omitempty"`
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	if f.Validation != nil {
		v := *f.Validation
		if f.Validation.Min != nil {
			lo := *f.Validation.Min
			v.Min = &lo
		}
		if f.Validation.Max != nil {
			hi := *f.Validation.Max
			v.Max = &hi
		}
		out.Validation = &v
	}
	return out
}

// CloneFields deep copies a field list. A nil input stays nil.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// Analysis is the result of one document analysis pass.
type Analysis struct {
	Text       string  `json:"text"`
	Fields     []Field `json:"fields"`
	PageCount  int     `json:"pageCount"`
	Translated bool    `json:"translated"`
}

// Document is a persisted form built from an analysis.
type Document struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Fields        []Field   `json:"fields"`
	OriginalURL   string    `json:"originalPdfUrl,omitempty"`
	TranslatedURL string    `json:"translatedPdfUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Field returns the field with the supplied id.
func (d Document) Field(id string) (Field, bool) {
	for _, field := range d.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Submission captures validated answers for a stored form.
type Submission struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	Values    map[string]any `json:"values"`
	CreatedAt time.Time      `json:"createdAt"`
}
