package schemas

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/pkg/schema"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorResponse struct {
	Error  string         `json:"error"`
	Issues []schema.Issue `json:"issues,omitempty"`
}

type validResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
}

type handler struct {
	opts Options
}

func (h *handler) catalog() (*schema.Catalog, error) {
	if h.opts.Catalog != nil {
		return h.opts.Catalog, nil
	}
	return schema.Default()
}

// guard wraps next with the configured GuardFunc.
func (h *handler) guard(next http.HandlerFunc) http.HandlerFunc {
	if h.opts.Guard == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.opts.Guard(r); err != nil {
			code := http.StatusForbidden
			var httpErr HTTPError
			if errors.As(err, &httpErr) && httpErr.StatusCode() > 0 {
				code = httpErr.StatusCode()
			}
			writeJSON(w, code, errorResponse{Error: http.StatusText(code)})
			return
		}
		next(w, r)
	}
}

func (h *handler) document(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: h.opts.Title, Version: h.opts.Version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: catalog.OpenAPI(),
		},
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *handler) schema(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := catalog.Get(r.PathValue("name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schema.OpenAPISchema(s))
}

// validate checks a JSON body (POST) or the query string (GET) against the
// named schema.
func (h *handler) validate(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalog()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := catalog.Get(r.PathValue("name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var values map[string]any
	if r.Method == http.MethodGet {
		values, err = schema.ValidateQuery(s, r.URL.Query())
	} else {
		values, err = schema.DecodeJSON(s, r.Body)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validResponse{Success: true, Data: values})
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schema.ErrValidation):
		h.opts.Logger.Debug("payload rejected", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Issues: schema.IssuesOf(err)})
	case errors.Is(err, schema.ErrUnknownSchema):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.opts.Logger.Error("schema request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
