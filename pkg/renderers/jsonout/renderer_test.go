package jsonout_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/renderers/jsonout"
)

func TestRenderer_Document(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	in := model.Document{
		ID:        "form-1",
		Title:     "Anmeldung <Zürich>",
		Fields:    []model.Field{{ID: "field_0", Type: model.FieldTypeEmail, Label: "Email", Required: true}},
		CreatedAt: created,
		UpdatedAt: created,
	}

	out, err := jsonout.New().Render(context.Background(), in, render.RenderOptions{
		Values:     map[string]any{"field_0": "kein-email"},
		Errors:     map[string][]string{"field_0": {"Invalid"}},
		FormErrors: []string{"title: Required"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `"title":"Anmeldung <Zürich>"`) {
		t.Fatalf("expected unescaped html characters: %s", out)
	}

	var decoded struct {
		model.Document
		Values     map[string]any      `json:"values"`
		Errors     map[string][]string `json:"errors"`
		FormErrors []string            `json:"formErrors"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, decoded.Document); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if decoded.Values["field_0"] != "kein-email" || decoded.Errors["field_0"][0] != "Invalid" || decoded.FormErrors[0] != "title: Required" {
		t.Fatalf("unexpected extras: %+v", decoded)
	}
}

func TestRenderer_EmptyFieldsAndIndent(t *testing.T) {
	out, err := jsonout.New(jsonout.WithIndent("  ")).Render(context.Background(), model.Document{ID: "x"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, "\n  \"fields\": []") {
		t.Fatalf("expected indented empty field list: %s", got)
	}
	if strings.Contains(got, "values") || strings.HasSuffix(got, "\n") {
		t.Fatalf("unexpected output: %q", got)
	}
}
