// Package html renders form documents as server-side HTML using an embedded
// pongo2 template. Fields keep their analyzed positions; values and
// validation errors from RenderOptions are rendered inline.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
	rendertemplate "github.com/goliatone/go-expatform/pkg/render/template"
)

const (
	formTemplate        = "templates/form.html"
	defaultSubmitLabel  = "Absenden"
	pagePadding         = 40
	defaultControlWidth = model.DefaultFieldWidth
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSubmitLabel overrides the caption of the submit button.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(label) != "" {
			cfg.submitLabel = label
		}
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	submitLabel string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: defaultSubmitLabel}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := rendertemplate.New(rendertemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, submitLabel: cfg.submitLabel}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, doc model.Document, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(formTemplate, r.view(doc, opts))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) view(doc model.Document, opts render.RenderOptions) map[string]any {
	fields := make([]map[string]any, 0, len(doc.Fields))
	height := 0
	for _, field := range doc.Fields {
		fields = append(fields, fieldView(field, opts))
		if bottom := field.Position.Y + field.Position.Height; bottom > height {
			height = bottom
		}
	}

	hidden := make([]map[string]any, 0, len(opts.Hidden)+1)
	hiddenFields := opts.Hidden
	if doc.ID != "" {
		hiddenFields = append([]render.HiddenField{render.FormID(doc.ID)}, hiddenFields...)
	}
	for _, h := range render.SortedHiddenFields(hiddenFields) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	return map[string]any{
		"form": map[string]any{
			"id":          doc.ID,
			"title":       doc.Title,
			"description": doc.Description,
			"action":      opts.Action,
		},
		"fields":       fields,
		"form_errors":  opts.FormErrors,
		"hidden":       hidden,
		"height":       height + pagePadding,
		"submit_label": r.submitLabel,
	}
}

func fieldView(field model.Field, opts render.RenderOptions) map[string]any {
	value, hasValue := opts.Values[field.ID]
	current := ""
	if hasValue && value != nil {
		current = fmt.Sprint(value)
	}

	options := make([]map[string]any, 0, len(field.Options))
	for _, option := range field.Options {
		options = append(options, map[string]any{
			"value":    option,
			"selected": hasValue && current == option,
		})
	}

	width := field.Position.Width
	if width <= 0 {
		width = defaultControlWidth
	}

	view := map[string]any{
		"id":          field.ID,
		"control_id":  "ef-" + field.ID,
		"type":        string(field.Type),
		"input_type":  inputType(field.Type),
		"label":       opts.Label(field.Label, field.TranslatedText),
		"placeholder": field.Placeholder,
		"required":    field.Required,
		"options":     options,
		"value":       current,
		"checked":     hasValue && checked(value),
		"errors":      opts.Errors[field.ID],
		"x":           field.Position.X,
		"y":           field.Position.Y,
		"width":       width,
		"height":      field.Position.Height,
		"pattern":     "",
		"message":     "",
		"min":         "",
		"max":         "",
	}
	if v := field.Validation; v != nil {
		view["pattern"] = v.Pattern
		view["message"] = v.Message
		if v.Min != nil {
			view["min"] = strconv.FormatFloat(*v.Min, 'f', -1, 64)
		}
		if v.Max != nil {
			view["max"] = strconv.FormatFloat(*v.Max, 'f', -1, 64)
		}
	}
	return view
}

func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypeNumber:
		return "number"
	default:
		// Dates use DD.MM.YYYY which the native date input cannot hold.
		return "text"
	}
}

func checked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes", "ja":
			return true
		}
	}
	return false
}
