// Package tui fills a form document interactively in the terminal. Each
// answer is checked with the same rules the HTTP layer applies to submitted
// inputs and re-prompted until it passes.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/schema"
)

// ErrTooManyAttempts is returned when WithMaxAttempts is exceeded.
var ErrTooManyAttempts = errors.New("tui: too many invalid answers")

// Renderer implements render.Renderer for terminal-driven sessions. The
// rendered bytes are the collected answers keyed by field id.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	maxAttempts       int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       NewSurveyDriver(nil),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts every field of doc in order. opts.Values seed the prompt
// defaults and opts.Errors are shown before the affected prompt.
func (r *Renderer) Render(ctx context.Context, doc model.Document, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

// Collect runs the prompts and returns the validated answers. Optional
// fields left blank are omitted.
func (r *Renderer) Collect(ctx context.Context, doc model.Document, opts render.RenderOptions) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if doc.Title != "" {
		if err := r.driver.Info(ctx, doc.Title); err != nil {
			return nil, err
		}
	}
	for _, message := range opts.FormErrors {
		if err := r.driver.Info(ctx, "! "+message); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any, len(doc.Fields))
	for _, field := range doc.Fields {
		for _, message := range opts.Errors[field.ID] {
			if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", opts.Label(field.Label, field.TranslatedText), message)); err != nil {
				return nil, err
			}
		}
		value, answered, err := r.promptField(ctx, field, opts)
		if err != nil {
			return nil, err
		}
		if answered {
			values[field.ID] = value
		}
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, opts render.RenderOptions) (any, bool, error) {
	label := opts.Label(field.Label, field.TranslatedText)
	rule := model.InputRule(field)
	current, hasCurrent := opts.Values[field.ID]

	for attempt := 1; ; attempt++ {
		raw, blank, err := r.ask(ctx, field, label, current, hasCurrent)
		if err != nil {
			return nil, false, err
		}

		var issues []schema.Issue
		if blank {
			if !field.Required {
				return nil, false, nil
			}
			issues = []schema.Issue{{Path: field.ID, Message: "Required"}}
		} else {
			var value any
			value, issues = schema.ValidateValue(field.ID, rule, raw)
			if len(issues) == 0 {
				return value, true, nil
			}
		}

		for _, issue := range issues {
			if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", label, issue.Message)); err != nil {
				return nil, false, err
			}
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return nil, false, fmt.Errorf("%w: %s", ErrTooManyAttempts, field.ID)
		}
	}
}

// ask shows the prompt matching the field type and returns the raw answer.
// blank reports an empty text answer.
func (r *Renderer) ask(ctx context.Context, field model.Field, label string, current any, hasCurrent bool) (any, bool, error) {
	help := helpText(field)
	def := ""
	if hasCurrent && current != nil {
		def = fmt.Sprint(current)
	}

	switch field.Type {
	case model.FieldTypeCheckbox:
		yes, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def == "true", Help: help})
		return yes, false, err

	case model.FieldTypeSelect, model.FieldTypeRadio:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, def),
			Help:         help,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", false, nil
		}
		return field.Options[idx], false, nil

	case model.FieldTypeTextarea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: def, Help: help})
		if err != nil {
			return nil, false, err
		}
		return text, strings.TrimSpace(text) == "", nil

	case model.FieldTypeNumber:
		text, err := r.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: help})
		if err != nil {
			return nil, false, err
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, true, nil
		}
		// Swiss forms commonly use a decimal comma.
		if n, err := strconv.ParseFloat(strings.Replace(trimmed, ",", ".", 1), 64); err == nil {
			return n, false, nil
		}
		return trimmed, false, nil

	default:
		text, err := r.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: help})
		if err != nil {
			return nil, false, err
		}
		return text, strings.TrimSpace(text) == "", nil
	}
}

func helpText(field model.Field) string {
	if field.Validation != nil && field.Validation.Message != "" {
		return field.Validation.Message
	}
	if field.OriginalText != "" && field.OriginalText != field.Label {
		return field.OriginalText
	}
	return field.Placeholder
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, fmt.Sprint(value))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s=%v\n", key, values[key])
		}
		return []byte(b.String()), nil
	default:
		return json.Marshal(values)
	}
}
