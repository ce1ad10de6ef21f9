package model

// Layout constants for the sequential vertical stacking of fields.
const (
	DefaultOriginX        = 20
	DefaultStartY         = 50
	DefaultFieldWidth     = 300
	DefaultFieldHeight    = 40
	DefaultTextareaHeight = 80
	DefaultFieldGap       = 20
)

// Options configures the behaviour of the Analyzer. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler func(string) string
	// Rules replaces the classification table. Nil keeps DefaultRules.
	Rules []Rule
	// ExtraRules are evaluated before Rules.
	ExtraRules []Rule
	StartY     int
	StartIndex int
	OriginX    int
}

func defaultOptions() Options {
	return Options{
		Labeler:    DefaultLabeler,
		Rules:      DefaultRules(),
		StartY:     DefaultStartY,
		StartIndex: 1,
		OriginX:    DefaultOriginX,
	}
}
