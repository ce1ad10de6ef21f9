package expatform_test

import (
	"context"
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	expatform "github.com/goliatone/go-expatform"
	"github.com/goliatone/go-expatform/pkg/orchestrator"
)

func TestGenerateFromText_HTML(t *testing.T) {
	output, err := expatform.GenerateFromText(context.Background(), "Full Name *\nEmail Address\n", "Anmeldung", "html")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	if !strings.Contains(html, `<h1 class="ef-title">Anmeldung</h1>`) || !strings.Contains(html, `type="email"`) {
		t.Fatalf("unexpected html:\n%s", html)
	}
}

func TestGenerateFromFile_JSON(t *testing.T) {
	output, err := expatform.GenerateFromFile(context.Background(), "antrag.txt", []byte("Date of Birth\n"), "",
		orchestrator.WithDefaultRenderer("json"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var doc expatform.Document
	if err := json.Unmarshal(output, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Title != "antrag" || len(doc.Fields) != 1 || doc.Fields[0].Type != "date" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(expatform.EmbeddedTemplates(), "templates/form.html"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}
