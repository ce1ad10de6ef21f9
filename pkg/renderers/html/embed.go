package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle. The form template is
// templates/form.html; callers overriding it through WithTemplatesFS must
// keep that path.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
