package model

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Analyzer converts extracted document text into ordered field descriptors.
// An Analyzer holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	opts  Options
	rules []Rule
}

// New creates an Analyzer with the supplied options. Zero values fall back to
// the defaults.
func New(options Options) *Analyzer {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Rules != nil {
		opts.Rules = cloneRules(options.Rules)
	}
	if len(options.ExtraRules) > 0 {
		opts.ExtraRules = cloneRules(options.ExtraRules)
	}
	if options.StartY > 0 {
		opts.StartY = options.StartY
	}
	if options.StartIndex > 0 {
		opts.StartIndex = options.StartIndex
	}
	if options.OriginX > 0 {
		opts.OriginX = options.OriginX
	}

	rules := make([]Rule, 0, len(opts.ExtraRules)+len(opts.Rules))
	rules = append(rules, opts.ExtraRules...)
	rules = append(rules, opts.Rules...)
	return &Analyzer{opts: opts, rules: rules}
}

// Rules returns a copy of the effective classification table.
func (a *Analyzer) Rules() []Rule {
	return cloneRules(a.rules)
}

// Classify assigns a field kind to a single line. It reports false for lines
// shorter than MinLineLength runes after trimming.
func (a *Analyzer) Classify(line string) (Classification, bool) {
	return Classify(line, a.rules)
}

// BuildField produces the full descriptor for one line. index is the numeric
// suffix of the field id and y the running vertical offset. Lines the
// classifier rejects are built as text fields.
func (a *Analyzer) BuildField(line string, index, y int) Field {
	trimmed := strings.TrimSpace(line)
	class, ok := a.Classify(trimmed)
	if !ok {
		class = Classification{Type: FieldTypeText}
	}

	height := DefaultFieldHeight
	if class.Type == FieldTypeTextarea {
		height = DefaultTextareaHeight
	}

	return Field{
		ID:          fieldID(index),
		Type:        class.Type,
		Label:       a.opts.Labeler(trimmed),
		Placeholder: Placeholder(class.Type),
		Required:    IsRequired(trimmed),
		Options:     class.Options,
		Validation:  ValidationFor(class.Type),
		Position: Position{
			X:      a.opts.OriginX,
			Y:      y,
			Width:  DefaultFieldWidth,
			Height: height,
		},
		OriginalText: trimmed,
	}
}

// Analyze splits text into lines and builds one field per classifiable line,
// stacking them vertically in document order. It always returns a non-nil
// field slice.
func (a *Analyzer) Analyze(text string, pageCount int) Analysis {
	if pageCount < 0 {
		pageCount = 0
	}
	fields := make([]Field, 0)
	index := a.opts.StartIndex
	y := a.opts.StartY

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if utf8.RuneCountInString(line) < MinLineLength {
			continue
		}
		field := a.BuildField(line, index, y)
		fields = append(fields, field)
		index++
		y += field.Position.Height + DefaultFieldGap
	}

	return Analysis{
		Text:      text,
		Fields:    fields,
		PageCount: pageCount,
	}
}

func fieldID(index int) string {
	return "field_" + strconv.Itoa(index)
}
