package formbuilder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/pkg/extract"
	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/schema"
)

const multipartMemory = 8 << 20

type handler struct {
	opts Options
	base string
}

func newHandler(opts Options, base string) *handler {
	return &handler{opts: opts, base: base}
}

func (h *handler) path(p string) string {
	return h.base + p
}

func (h *handler) link(p string) string {
	return strings.TrimRight(h.opts.PublicURL, "/") + h.path(p)
}

// analyze accepts a multipart (or url encoded) body with one of file,
// fileUrl or text and answers the extracted fields.
func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.opts.Logger, r, StatusError{Code: http.StatusRequestEntityTooLarge, Err: extract.ErrTooLarge}, "")
			return
		}
		writeError(w, h.opts.Logger, r, badRequest("Invalid form body"), "")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	translateFields := r.FormValue("translate") == "true"
	lang := strings.TrimSpace(r.FormValue("targetLanguage"))
	if lang == "" {
		lang = h.opts.DefaultLanguage
	}

	result, err := h.extractRequest(r)
	if err != nil {
		writeError(w, h.opts.Logger, r, err, "Failed to analyze document and generate form fields")
		return
	}

	analysis := h.opts.Analyzer.Analyze(result.Text, result.PageCount)
	if translateFields {
		translated, err := model.Translate(r.Context(), h.opts.Translator, analysis.Fields, lang)
		if err != nil {
			writeError(w, h.opts.Logger, r, err, "Failed to analyze document and generate form fields")
			return
		}
		analysis.Fields = translated
	}
	analysis.Translated = translateFields

	h.opts.Logger.Info("document analyzed",
		zap.Int("fields", len(analysis.Fields)),
		zap.Int("pages", analysis.PageCount),
		zap.Bool("translated", translateFields),
	)
	writeSuccess(w, http.StatusOK, analysis, "Document successfully analyzed and form fields generated")
}

func (h *handler) extractRequest(r *http.Request) (extract.Result, error) {
	ctx := r.Context()

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return extract.Result{}, fmt.Errorf("formbuilder: read upload: %w", err)
		}
		return h.opts.Extractors.Extract(ctx, extract.Input{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return extract.Result{}, badRequest("Invalid file upload")
	}

	if fileURL := strings.TrimSpace(r.FormValue("fileUrl")); fileURL != "" {
		if !schema.IsURL(fileURL) {
			return extract.Result{}, badRequest("fileUrl: Invalid URL format")
		}
		in, err := h.opts.Fetcher.Fetch(ctx, fileURL)
		if err != nil {
			if errors.Is(err, extract.ErrTooLarge) {
				return extract.Result{}, err
			}
			return extract.Result{}, StatusError{Code: http.StatusBadGateway, Err: err}
		}
		return h.opts.Extractors.Extract(ctx, in)
	}

	if text := r.FormValue("text"); strings.TrimSpace(text) != "" {
		return extract.TextResult(text), nil
	}
	return extract.Result{}, badRequest("File or fileUrl is required")
}

// translate answers {text, targetLanguage} with the translation result.
func (h *handler) translate(w http.ResponseWriter, r *http.Request) {
	values, err := h.decode(r, "pdf_form_translate")
	if err != nil {
		writeError(w, h.opts.Logger, r, err, "Failed to translate text")
		return
	}

	text, _ := values["text"].(string)
	lang, _ := values["targetLanguage"].(string)
	result, err := h.opts.Translator.Translate(r.Context(), text, lang)
	if err != nil {
		writeError(w, h.opts.Logger, r, err, "Failed to translate text")
		return
	}
	writeSuccess(w, http.StatusOK, result, "Text successfully translated")
}

func (h *handler) decode(r *http.Request, name string) (map[string]any, error) {
	s, err := h.opts.Catalog.Get(name)
	if err != nil {
		return nil, err
	}
	values, err := schema.DecodeJSON(s, r.Body)
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (h *handler) requireStore() error {
	if h.opts.Store == nil {
		return StatusError{Code: http.StatusServiceUnavailable, Err: errors.New("form store is not configured")}
	}
	return nil
}

func (h *handler) loadForm(ctx context.Context, id string) (model.Document, error) {
	if err := h.requireStore(); err != nil {
		return model.Document{}, err
	}
	return h.opts.Store.LoadForm(ctx, id)
}
