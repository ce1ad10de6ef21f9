package render

import (
	"context"

	"github.com/goliatone/go-expatform/pkg/model"
)

// Renderer converts a form document into a byte representation (HTML, JSON,
// collected terminal answers).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc model.Document, options RenderOptions) ([]byte, error)
}
