package formbuilder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/pkg/extract"
	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/renderers/html"
	"github.com/goliatone/go-expatform/pkg/renderers/jsonout"
	"github.com/goliatone/go-expatform/pkg/schema"
	"github.com/goliatone/go-expatform/pkg/translate"
)

const (
	DefaultBasePath       = "/api/pdf-form"
	DefaultMaxUploadBytes = extract.DefaultMaxBytes
	DefaultFetchTimeout   = 30 * time.Second
)

// FormStore persists forms and submissions.
type FormStore interface {
	SaveForm(ctx context.Context, doc model.Document) (model.Document, error)
	LoadForm(ctx context.Context, id string) (model.Document, error)
	SaveSubmission(ctx context.Context, sub model.Submission) (model.Submission, error)
	LoadSubmission(ctx context.Context, id string) (model.Submission, error)
}

type Options struct {
	Logger     *zap.Logger
	Analyzer   model.Analyzer
	Translator translate.Translator
	Extractors *extract.Registry
	Fetcher    *extract.Fetcher
	Catalog    *schema.Catalog
	Renderers  *render.Registry
	Store      FormStore

	// DefaultLanguage is used when a request names no target language.
	DefaultLanguage string
	// MaxUploadBytes caps multipart request bodies.
	MaxUploadBytes int64
	// PublicURL prefixes links returned to clients, for example
	// "https://forms.example.ch". Empty keeps links relative.
	PublicURL string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		DefaultLanguage: translate.DefaultLanguage,
		MaxUploadBytes:  DefaultMaxUploadBytes,
	}
}

// NewOptions applies fns over DefaultOptions and fills every collaborator
// left nil with its default implementation. Store stays nil unless given;
// persistence routes then answer 503.
func NewOptions(fns ...OptionFn) (Options, error) {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Analyzer == nil {
		opts.Analyzer = model.NewAnalyzer()
	}
	if opts.Translator == nil {
		dictionary, err := translate.NewDictionary()
		if err != nil {
			return Options{}, err
		}
		opts.Translator = dictionary
	}
	if opts.Extractors == nil {
		opts.Extractors = extract.DefaultRegistry()
	}
	if opts.Fetcher == nil {
		opts.Fetcher = extract.NewFetcher(DefaultFetchTimeout)
	}
	if opts.Catalog == nil {
		catalog, err := schema.Default()
		if err != nil {
			return Options{}, err
		}
		opts.Catalog = catalog
	}
	if opts.Renderers == nil {
		renderers, err := DefaultRenderers()
		if err != nil {
			return Options{}, err
		}
		opts.Renderers = renderers
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = translate.DefaultLanguage
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return opts, nil
}

// DefaultRenderers registers the json (default) and html renderers.
func DefaultRenderers() (*render.Registry, error) {
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

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithAnalyzer(analyzer model.Analyzer) OptionFn {
	return func(o *Options) {
		o.Analyzer = analyzer
	}
}

func WithTranslator(translator translate.Translator) OptionFn {
	return func(o *Options) {
		o.Translator = translator
	}
}

func WithExtractors(registry *extract.Registry) OptionFn {
	return func(o *Options) {
		o.Extractors = registry
	}
}

func WithFetcher(fetcher *extract.Fetcher) OptionFn {
	return func(o *Options) {
		o.Fetcher = fetcher
	}
}

func WithCatalog(catalog *schema.Catalog) OptionFn {
	return func(o *Options) {
		o.Catalog = catalog
	}
}

func WithRenderers(registry *render.Registry) OptionFn {
	return func(o *Options) {
		o.Renderers = registry
	}
}

func WithStore(store FormStore) OptionFn {
	return func(o *Options) {
		o.Store = store
	}
}

func WithDefaultLanguage(lang string) OptionFn {
	return func(o *Options) {
		o.DefaultLanguage = lang
	}
}

func WithMaxUploadBytes(n int64) OptionFn {
	return func(o *Options) {
		o.MaxUploadBytes = n
	}
}

func WithPublicURL(url string) OptionFn {
	return func(o *Options) {
		o.PublicURL = url
	}
}
