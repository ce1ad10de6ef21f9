package render

// RenderOptions carry per-request data that renderers use to customise their
// output without mutating the stored document.
type RenderOptions struct {
	// Action is the submit target for renderers that produce a form element.
	Action string
	// Values pre-populates controls keyed by field id.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field id. See MapIssues.
	Errors map[string][]string
	// FormErrors are messages that could not be attached to a field.
	FormErrors []string
	// Hidden lists extra inputs emitted alongside the visible fields.
	Hidden []HiddenField
	// Translated prefers TranslatedText over the label when present.
	Translated bool
}

// Label returns the caption a renderer should show for a field.
func (o RenderOptions) Label(label, translated string) string {
	if o.Translated && translated != "" {
		return translated
	}
	return label
}
