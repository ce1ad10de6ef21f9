package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-expatform/pkg/extract"
	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/renderers/html"
	"github.com/goliatone/go-expatform/pkg/renderers/jsonout"
	"github.com/goliatone/go-expatform/pkg/translate"
)

// DefaultTitle names documents when neither the request nor the input file
// supplies one.
const DefaultTitle = "Untitled Form"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// Orchestrator runs text extraction, field analysis, optional translation,
// document transformation and rendering.
type Orchestrator struct {
	extractors      *extract.Registry
	analyzer        model.Analyzer
	translator      translate.Translator
	registry        *render.Registry
	defaultRenderer string
	language        string
	transformers    []Transformer

	once    sync.Once
	initErr error
}

// Request captures the inputs for a single pipeline run. Input takes
// precedence over Text.
type Request struct {
	Input *extract.Input
	Text  string
	// PageCount is reported for Text requests; extractors set it for Input.
	PageCount     int
	Title         string
	Translate     bool
	Language      string
	Renderer      string
	RenderOptions render.RenderOptions
}

// WithExtractors replaces the extractor registry used for Request.Input.
func WithExtractors(registry *extract.Registry) Option {
	return func(o *Orchestrator) {
		o.extractors = registry
	}
}

// WithAnalyzer supplies the analyzer that turns text into fields.
func WithAnalyzer(analyzer model.Analyzer) Option {
	return func(o *Orchestrator) {
		o.analyzer = analyzer
	}
}

// WithTranslator supplies the translator used when Request.Translate is set.
func WithTranslator(translator translate.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = translator
	}
}

// WithRegistry uses the provided renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer selects the renderer used when Request.Renderer is empty.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = strings.TrimSpace(name)
	}
}

// WithDefaultLanguage sets the translation target when Request.Language is
// empty.
func WithDefaultLanguage(lang string) Option {
	return func(o *Orchestrator) {
		o.language = strings.TrimSpace(lang)
	}
}

// WithTransformer appends a document transformer. Transformers run in the
// order they were registered, after translation and before rendering.
func WithTransformer(transformer Transformer) Option {
	return func(o *Orchestrator) {
		if transformer != nil {
			o.transformers = append(o.transformers, transformer)
		}
	}
}

// New constructs an Orchestrator. Stages left unconfigured fall back to the
// built-in extractors, analyzer, dictionary translator and the json and html
// renderers.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if o.extractors == nil {
		o.extractors = extract.DefaultRegistry()
	}
	if o.analyzer == nil {
		o.analyzer = model.NewAnalyzer()
	}
	if o.language == "" {
		o.language = translate.DefaultLanguage
	}
	return o
}

// Analyze extracts text from the request input and infers fields, translating
// them when requested.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (model.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return model.Analysis{}, err
	}

	text, pages := req.Text, req.PageCount
	if req.Input != nil {
		result, err := o.extractors.Extract(ctx, *req.Input)
		if err != nil {
			return model.Analysis{}, fmt.Errorf("orchestrator: extract: %w", err)
		}
		text, pages = result.Text, result.PageCount
	}
	if strings.TrimSpace(text) == "" {
		return model.Analysis{}, errors.New("orchestrator: input or text is required")
	}

	analysis := o.analyzer.Analyze(text, pages)
	if !req.Translate {
		return analysis, nil
	}

	if err := o.init(); err != nil {
		return model.Analysis{}, err
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = o.language
	}
	fields, err := model.Translate(ctx, o.translator, analysis.Fields, lang)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("orchestrator: translate: %w", err)
	}
	analysis.Fields = fields
	analysis.Translated = true
	return analysis, nil
}

// Document runs Analyze and applies the configured transformers to the
// resulting document.
func (o *Orchestrator) Document(ctx context.Context, req Request) (model.Document, error) {
	analysis, err := o.Analyze(ctx, req)
	if err != nil {
		return model.Document{}, err
	}

	doc := model.Document{Title: titleFor(req), Fields: analysis.Fields}
	for _, transformer := range o.transformers {
		if err := transformer.Transform(ctx, &doc); err != nil {
			return model.Document{}, fmt.Errorf("orchestrator: transform document: %w", err)
		}
	}
	return doc, nil
}

// Generate runs the full pipeline and returns the rendered output.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	doc, err := o.Document(ctx, req)
	if err != nil {
		return nil, err
	}
	opts := req.RenderOptions
	if req.Translate {
		opts.Translated = true
	}
	return o.Render(ctx, doc, req.Renderer, opts)
}

// Render renders an existing document with the named renderer, or the
// default renderer when name is empty.
func (o *Orchestrator) Render(ctx context.Context, doc model.Document, name string, opts render.RenderOptions) ([]byte, error) {
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render with %q: %w", renderer.Name(), err)
	}
	return output, nil
}

// Renderers lists the names of the registered renderers.
func (o *Orchestrator) Renderers() ([]string, error) {
	if err := o.init(); err != nil {
		return nil, err
	}
	return o.registry.List(), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if err := o.init(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

// init builds the stages whose constructors can fail. It runs once.
func (o *Orchestrator) init() error {
	o.once.Do(func() {
		if o.translator == nil {
			dictionary, err := translate.NewDictionary()
			if err != nil {
				o.initErr = fmt.Errorf("orchestrator: translator: %w", err)
				return
			}
			o.translator = dictionary
		}
		if o.registry == nil {
			registry, err := defaultRegistry()
			if err != nil {
				o.initErr = fmt.Errorf("orchestrator: renderers: %w", err)
				return
			}
			o.registry = registry
		}
	})
	return o.initErr
}

func defaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	if err := registry.Register(jsonout.New()); err != nil {
		return nil, err
	}
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}
	return registry, nil
}

func titleFor(req Request) string {
	if title := strings.TrimSpace(req.Title); title != "" {
		return title
	}
	if req.Input != nil && req.Input.Name != "" {
		name := filepath.Base(req.Input.Name)
		if stem := strings.TrimSuffix(name, filepath.Ext(name)); stem != "" {
			return stem
		}
	}
	return DefaultTitle
}
