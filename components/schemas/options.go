package schemas

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/pkg/schema"
)

const DefaultBasePath = "/api"

// GuardFunc rejects a request by returning an error. Errors implementing
// HTTPError choose the status code; others answer 403.
type GuardFunc func(r *http.Request) error

type Options struct {
	// Catalog defaults to schema.Default().
	Catalog *schema.Catalog
	Logger  *zap.Logger
	Guard   GuardFunc
	// Title and Version describe the exported OpenAPI document.
	Title   string
	Version string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		Title:   "expatform schemas",
		Version: "1.0.0",
	}
}

func NewOptions(fns ...OptionFn) Options {
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
	if opts.Title == "" {
		opts.Title = "expatform schemas"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	return opts
}

func WithCatalog(catalog *schema.Catalog) OptionFn {
	return func(o *Options) {
		o.Catalog = catalog
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		o.Logger = logger
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		o.Guard = guard
	}
}

func WithInfo(title, version string) OptionFn {
	return func(o *Options) {
		o.Title = title
		o.Version = version
	}
}
