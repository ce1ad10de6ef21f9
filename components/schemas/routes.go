package schemas

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath normalizes basePath. An empty base selects DefaultBasePath.
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

// RegisterRoutes registers the catalog routes under basePath on mux and
// returns the registered patterns.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers the routes using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("schemas: missing mux")
	}
	h := &handler{opts: NewOptions(func(o *Options) { *o = opts })}
	base := MountPath(basePath)

	routes := []struct {
		pattern string
		fn      http.HandlerFunc
	}{
		{"GET " + base + "/schemas", h.document},
		{"GET " + base + "/schemas/{name}", h.schema},
		{"POST " + base + "/validate/{name}", h.validate},
		{"GET " + base + "/validate/{name}", h.validate},
	}
	patterns := make([]string, 0, len(routes))
	for _, rt := range routes {
		mux.Handle(rt.pattern, h.guard(rt.fn))
		patterns = append(patterns, rt.pattern)
	}
	return patterns, nil
}
