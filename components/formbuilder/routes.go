package formbuilder

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux. Patterns carry a method prefix, so the
// mux must understand Go 1.22 routing patterns.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

type route struct {
	method string
	path   string
	fn     func(*handler) http.HandlerFunc
}

var routes = []route{
	{http.MethodPost, "/analyze", func(h *handler) http.HandlerFunc { return h.analyze }},
	{http.MethodPost, "/translate", func(h *handler) http.HandlerFunc { return h.translate }},
	{http.MethodPost, "/generate", func(h *handler) http.HandlerFunc { return h.generate }},
	{http.MethodPost, "/forms", func(h *handler) http.HandlerFunc { return h.saveForm }},
	{http.MethodGet, "/forms/{id}", func(h *handler) http.HandlerFunc { return h.getForm }},
	{http.MethodPost, "/forms/{id}/submissions", func(h *handler) http.HandlerFunc { return h.submitForm }},
	{http.MethodGet, "/submissions/{id}", func(h *handler) http.HandlerFunc { return h.getSubmission }},
}

// MountPath normalizes basePath. An empty base selects DefaultBasePath and
// "/" mounts the routes at the root.
func MountPath(basePath string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return DefaultBasePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/")
}

// RegisterRoutes registers every formbuilder route under basePath on mux and
// returns the registered patterns.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	opts, err := NewOptions(fns...)
	if err != nil {
		return nil, err
	}
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers the routes using a pre-built Options
// value, typically one produced by NewOptions.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("formbuilder: missing mux")
	}
	opts, err := NewOptions(func(o *Options) { *o = opts })
	if err != nil {
		return nil, err
	}

	base := MountPath(basePath)
	h := newHandler(opts, base)
	patterns := make([]string, 0, len(routes))
	for _, rt := range routes {
		pattern := rt.method + " " + base + rt.path
		mux.Handle(pattern, rt.fn(h))
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// Component bundles the handler configuration with routing helpers.
type Component struct {
	opts Options
}

// New constructs a component with default collaborators plus overrides.
func New(fns ...OptionFn) (*Component, error) {
	opts, err := NewOptions(fns...)
	if err != nil {
		return nil, err
	}
	return &Component{opts: opts}, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	return c.opts
}

// Handler returns a mux serving the routes under DefaultBasePath.
func (c *Component) Handler() http.Handler {
	mux := http.NewServeMux()
	_, _ = RegisterRoutesWithOptions(mux, DefaultBasePath, c.opts)
	return mux
}

// RegisterRoutes registers the component routes under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
