package model

import (
	"io"

	"github.com/goliatone/go-expatform/internal/model"
)

// Analyzer converts document text into form fields.
type Analyzer interface {
	Classify(line string) (Classification, bool)
	BuildField(line string, index, y int) Field
	Analyze(text string, pageCount int) Analysis
	Rules() []Rule
}

// AnalyzerOption configures the analyzer behaviour.
type AnalyzerOption func(*analyzerOptions)

type analyzerOptions struct {
	labeler    func(string) string
	rules      []Rule
	extraRules []Rule
	startY     int
	startIndex int
}

// WithLabeler overrides the default label cleaning function.
func WithLabeler(labeler func(string) string) AnalyzerOption {
	return func(opts *analyzerOptions) {
		opts.labeler = labeler
	}
}

// WithRules replaces the built-in classification table.
func WithRules(rules []Rule) AnalyzerOption {
	return func(opts *analyzerOptions) {
		opts.rules = rules
	}
}

// WithExtraRules prepends rules evaluated before the classification table.
func WithExtraRules(rules ...Rule) AnalyzerOption {
	return func(opts *analyzerOptions) {
		opts.extraRules = append(opts.extraRules, rules...)
	}
}

// WithStartY sets the vertical offset of the first field.
func WithStartY(y int) AnalyzerOption {
	return func(opts *analyzerOptions) {
		opts.startY = y
	}
}

// WithStartIndex sets the numeric suffix of the first field id.
func WithStartIndex(index int) AnalyzerOption {
	return func(opts *analyzerOptions) {
		opts.startIndex = index
	}
}

// NewAnalyzer returns an Analyzer backed by the internal implementation.
func NewAnalyzer(options ...AnalyzerOption) Analyzer {
	cfg := analyzerOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	return model.New(model.Options{
		Labeler:    cfg.labeler,
		Rules:      cfg.rules,
		ExtraRules: cfg.extraRules,
		StartY:     cfg.startY,
		StartIndex: cfg.startIndex,
	})
}

// Analyze runs a default analyzer over text.
func Analyze(text string, pageCount int) Analysis {
	return NewAnalyzer().Analyze(text, pageCount)
}

// LoadRules parses a YAML classification table.
func LoadRules(r io.Reader) ([]Rule, error) {
	return model.LoadRules(r)
}

// CleanLabel applies the default label cleaning.
func CleanLabel(line string) string {
	return model.DefaultLabeler(line)
}
