package formbuilder

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/internal/store"
	"github.com/goliatone/go-expatform/pkg/extract"
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

func badRequest(message string) error {
	return StatusError{Code: http.StatusBadRequest, Err: errors.New(message)}
}

type errorResponse struct {
	Error   string         `json:"error"`
	Details string         `json:"details,omitempty"`
	Issues  []schema.Issue `json:"issues,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeSuccess(w http.ResponseWriter, code int, data any, message string) {
	writeJSON(w, code, successResponse{Success: true, Data: data, Message: message})
}

// statusOf maps err onto an HTTP status. Unknown errors are 500.
func statusOf(err error) int {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.StatusCode()
	case errors.Is(err, schema.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, extract.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extract.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers 4xx failures with the error text and 5xx failures with
// fallback plus the error as details.
func writeError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error, fallback string) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		logger.Error(fallback,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, code, errorResponse{Error: fallback, Details: err.Error()})
		return
	}

	logger.Debug("request rejected",
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	)
	writeJSON(w, code, errorResponse{Error: err.Error(), Issues: schema.IssuesOf(err)})
}
