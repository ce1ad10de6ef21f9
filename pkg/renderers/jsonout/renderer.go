// Package jsonout renders a form document, together with any values and
// errors passed in RenderOptions, as JSON.
package jsonout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
)

type Option func(*Renderer)

// WithIndent pretty prints the output using indent per level.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

type payload struct {
	model.Document
	Values     map[string]any      `json:"values,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
}

func (r *Renderer) Render(ctx context.Context, doc model.Document, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.Fields == nil {
		doc.Fields = []model.Field{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	err := enc.Encode(payload{
		Document:   doc,
		Values:     opts.Values,
		Errors:     opts.Errors,
		FormErrors: opts.FormErrors,
	})
	if err != nil {
		return nil, fmt.Errorf("json renderer: encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
