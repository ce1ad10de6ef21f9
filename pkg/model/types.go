package model

import internalmodel "github.com/goliatone/go-expatform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypeTextarea = internalmodel.FieldTypeTextarea
	FieldTypeSelect   = internalmodel.FieldTypeSelect
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
	FieldTypeRadio    = internalmodel.FieldTypeRadio
	FieldTypeDate     = internalmodel.FieldTypeDate
	FieldTypeNumber   = internalmodel.FieldTypeNumber
	FieldTypeEmail    = internalmodel.FieldTypeEmail
)

// Layout defaults applied by the analyzer.
const (
	DefaultOriginX        = internalmodel.DefaultOriginX
	DefaultStartY         = internalmodel.DefaultStartY
	DefaultFieldWidth     = internalmodel.DefaultFieldWidth
	DefaultFieldHeight    = internalmodel.DefaultFieldHeight
	DefaultTextareaHeight = internalmodel.DefaultTextareaHeight
)

// Built-in answer patterns for email and date fields.
const (
	EmailPattern = internalmodel.EmailPattern
	DatePattern  = internalmodel.DatePattern
)

type Validation = internalmodel.Validation
type Position = internalmodel.Position
type Field = internalmodel.Field
type Analysis = internalmodel.Analysis
type Document = internalmodel.Document
type Submission = internalmodel.Submission
type Rule = internalmodel.Rule
type Classification = internalmodel.Classification

// FieldTypes lists every supported field kind.
func FieldTypes() []FieldType { return internalmodel.FieldTypes() }

// DefaultRules returns a copy of the built-in classification table.
func DefaultRules() []Rule { return internalmodel.DefaultRules() }

// CloneFields deep copies a field list.
func CloneFields(fields []Field) []Field { return internalmodel.CloneFields(fields) }
