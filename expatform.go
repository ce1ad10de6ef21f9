// Package expatform turns official documents into fillable web forms. It
// re-exports the pipeline entry points so callers can get started without
// importing the individual stage packages.
package expatform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-expatform/pkg/extract"
	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/orchestrator"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/renderers/html"
)

// Document is a form built from an analysis.
type Document = model.Document

// Field is one inferred form input.
type Field = model.Field

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request captures the inputs for a single pipeline run.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateFromText analyzes plain document text and renders the inferred form
// with the named renderer ("json" or "html" unless a registry is supplied).
func GenerateFromText(ctx context.Context, text, title, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Text:     text,
		Title:    title,
		Renderer: rendererName,
	})
}

// GenerateFromFile extracts text from an uploaded document, picking the
// extractor by file extension, and renders the inferred form.
func GenerateFromFile(ctx context.Context, name string, data []byte, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Input:    &extract.Input{Name: name, Data: data},
		Renderer: rendererName,
	})
}

// EmbeddedTemplates exposes the built-in html renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
