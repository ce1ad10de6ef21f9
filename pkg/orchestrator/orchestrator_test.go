package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-expatform/pkg/extract"
	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/orchestrator"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/translate"
)

type stubRenderer struct {
	last model.Document
	opts render.RenderOptions
}

func (r *stubRenderer) Name() string        { return "stub" }
func (r *stubRenderer) ContentType() string { return "text/plain" }

func (r *stubRenderer) Render(_ context.Context, doc model.Document, opts render.RenderOptions) ([]byte, error) {
	r.last = doc
	r.opts = opts
	return []byte("rendered:" + doc.Title), nil
}

func stubRegistry(t *testing.T) (*render.Registry, *stubRenderer) {
	t.Helper()
	renderer := &stubRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	return registry, renderer
}

func textInput() *extract.Input {
	return &extract.Input{Name: "antrag.txt", Data: []byte("Full Name *\nEmail Address\n")}
}

func TestOrchestrator_GenerateFromInput(t *testing.T) {
	registry, renderer := stubRegistry(t)
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	output, err := orch.Generate(context.Background(), orchestrator.Request{
		Input:     textInput(),
		Translate: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(output) != "rendered:antrag" {
		t.Fatalf("unexpected output %q", output)
	}
	if !renderer.opts.Translated {
		t.Fatalf("expected translated render options")
	}

	fields := renderer.last.Fields
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %+v", fields)
	}
	if fields[0].ID != "field_1" || !fields[0].Required {
		t.Fatalf("unexpected first field: %+v", fields[0])
	}
	if fields[1].Type != model.FieldTypeEmail || fields[1].TranslatedText != "E-Mail Adresse" {
		t.Fatalf("unexpected email field: %+v", fields[1])
	}
}

func TestOrchestrator_AnalyzeText(t *testing.T) {
	orch := orchestrator.New()
	analysis, err := orch.Analyze(context.Background(), orchestrator.Request{Text: "Phone Number", PageCount: 2})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.PageCount != 2 || analysis.Translated {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
	if len(analysis.Fields) != 1 || analysis.Fields[0].Type != model.FieldTypeNumber {
		t.Fatalf("unexpected fields: %+v", analysis.Fields)
	}
}

func TestOrchestrator_AppliesTransformers(t *testing.T) {
	registry, renderer := stubRegistry(t)

	var order []string
	first := orchestrator.TransformerFunc(func(_ context.Context, doc *model.Document) error {
		order = append(order, "first")
		doc.Description = "patched"
		return nil
	})
	second := orchestrator.TransformerFunc(func(_ context.Context, doc *model.Document) error {
		order = append(order, "second")
		doc.Fields[0].Required = false
		return nil
	})

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithTransformer(first),
		orchestrator.WithTransformer(second),
	)
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Input: textInput(), Title: "Anmeldung"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Join(order, ",") != "first,second" {
		t.Fatalf("unexpected transformer order %v", order)
	}
	if renderer.last.Title != "Anmeldung" || renderer.last.Description != "patched" || renderer.last.Fields[0].Required {
		t.Fatalf("transformer mutation missing: %+v", renderer.last)
	}
}

func TestOrchestrator_TransformerErrorAborts(t *testing.T) {
	registry, renderer := stubRegistry(t)
	transformer := orchestrator.TransformerFunc(func(context.Context, *model.Document) error {
		return errors.New("boom")
	})

	orch := orchestrator.New(orchestrator.WithRegistry(registry), orchestrator.WithTransformer(transformer))
	_, err := orch.Generate(context.Background(), orchestrator.Request{Text: "Name"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
	if renderer.last.Title != "" {
		t.Fatalf("renderer should not run after a transformer error")
	}
}

func TestOrchestrator_DefaultRenderers(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithDefaultRenderer("html"))

	names, err := orch.Renderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	if strings.Join(names, ",") != "html,json" {
		t.Fatalf("unexpected renderers %v", names)
	}

	output, err := orch.Generate(context.Background(), orchestrator.Request{Text: "Full Name *"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), "<form") || !strings.Contains(string(output), orchestrator.DefaultTitle) {
		t.Fatalf("expected html form, got:\n%s", output)
	}

	output, err = orch.Generate(context.Background(), orchestrator.Request{Text: "Full Name *", Renderer: "json"})
	if err != nil {
		t.Fatalf("generate json: %v", err)
	}
	if !strings.Contains(string(output), `"field_1"`) {
		t.Fatalf("expected json document, got %s", output)
	}
}

func TestOrchestrator_CustomTranslator(t *testing.T) {
	registry, renderer := stubRegistry(t)
	var langs []string
	translator := translate.Func(func(_ context.Context, text, lang string) (translate.Result, error) {
		langs = append(langs, lang)
		return translate.Result{TranslatedText: strings.ToUpper(text)}, nil
	})

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithTranslator(translator),
		orchestrator.WithDefaultLanguage("fr"),
	)
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Text: "Name", Translate: true}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Join(langs, ",") != "fr" || renderer.last.Fields[0].TranslatedText != "NAME" {
		t.Fatalf("unexpected translation: langs=%v field=%+v", langs, renderer.last.Fields[0])
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	registry, _ := stubRegistry(t)
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err == nil || !strings.Contains(err.Error(), "input or text is required") {
		t.Fatalf("expected missing input error, got %v", err)
	}

	_, err := orch.Generate(context.Background(), orchestrator.Request{Input: &extract.Input{Name: "scan.pdf", Data: []byte("%PDF")}})
	if !errors.Is(err, extract.ErrUnsupported) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}

	if _, err := orch.Generate(context.Background(), orchestrator.Request{Text: "Name", Renderer: "pdf"}); err == nil || !strings.Contains(err.Error(), `renderer "pdf" not found`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Generate(ctx, orchestrator.Request{Text: "Name"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
