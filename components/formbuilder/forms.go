package formbuilder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-expatform/pkg/model"
	"github.com/goliatone/go-expatform/pkg/render"
	"github.com/goliatone/go-expatform/pkg/schema"
)

// generate validates userInputs against a stored (formId) or inline
// (formData) form, records the submission and answers its link.
func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to generate form from user inputs"

	values, err := h.decode(r, "pdf_form_generate")
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}
	if err := h.requireStore(); err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}

	ctx := r.Context()
	var doc model.Document
	switch {
	case values["formId"] != nil:
		doc, err = h.opts.Store.LoadForm(ctx, values["formId"].(string))
	case values["formData"] != nil:
		doc, err = h.saveInline(ctx, values["formData"].(map[string]any))
	default:
		err = badRequest("formId or formData is required")
	}
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}

	sub, err := h.submit(ctx, doc, values["userInputs"].(map[string]any))
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"url":          h.link("/submissions/" + sub.ID),
		"formId":       doc.ID,
		"submissionId": sub.ID,
	}, "Form successfully generated from user inputs")
}

func (h *handler) saveInline(ctx context.Context, formData map[string]any) (model.Document, error) {
	s, err := h.opts.Catalog.Get("pdf_form_save")
	if err != nil {
		return model.Document{}, err
	}
	values, err := schema.Validate(s, formData)
	if err != nil {
		return model.Document{}, prefixIssues(err, "formData")
	}
	doc, err := documentFrom(values, "formData")
	if err != nil {
		return model.Document{}, err
	}
	return h.opts.Store.SaveForm(ctx, doc)
}

func prefixIssues(err error, prefix string) error {
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	out := &schema.ValidationError{Schema: verr.Schema, Issues: make([]schema.Issue, len(verr.Issues))}
	for i, issue := range verr.Issues {
		issue.Path = joinPath(prefix, issue.Path)
		out.Issues[i] = issue
	}
	return out
}

func (h *handler) submit(ctx context.Context, doc model.Document, inputs map[string]any) (model.Submission, error) {
	cleaned, err := model.ValidateInputs(doc.Fields, inputs)
	if err != nil {
		return model.Submission{}, err
	}
	sub, err := h.opts.Store.SaveSubmission(ctx, model.Submission{FormID: doc.ID, Values: cleaned})
	if err != nil {
		return model.Submission{}, err
	}
	h.opts.Logger.Info("submission stored",
		zap.String("form_id", doc.ID),
		zap.String("submission_id", sub.ID),
		zap.Int("answers", len(cleaned)),
	)
	return sub, nil
}

// saveForm stores a new document built from an analysis.
func (h *handler) saveForm(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to save form"

	values, err := h.decode(r, "pdf_form_save")
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}
	if err := h.requireStore(); err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}

	doc, err := documentFrom(values, "")
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}
	saved, err := h.opts.Store.SaveForm(r.Context(), doc)
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}

	w.Header().Set("Location", h.path("/forms/"+saved.ID))
	writeSuccess(w, http.StatusCreated, saved, "Form successfully saved")
}

// getForm renders a stored form, as JSON unless ?renderer names another
// renderer.
func (h *handler) getForm(w http.ResponseWriter, r *http.Request) {
	doc, err := h.loadForm(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.opts.Logger, r, err, "Failed to load form")
		return
	}
	h.render(w, r, http.StatusOK, doc, "json", render.RenderOptions{})
}

// submitForm validates answers posted to a stored form. JSON bodies are
// answered with JSON. Form encoded bodies (the html renderer's submit) get
// the form re-rendered with inline errors, or a redirect to the submission.
func (h *handler) submitForm(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to submit form"

	doc, err := h.loadForm(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}

	browser := !isJSON(r)
	var inputs map[string]any
	if browser {
		inputs, err = formInputs(r, doc)
	} else {
		inputs, err = schema.DecodeJSON(schema.Schema{Name: model.InputSchemaName, Open: true}, r.Body)
	}
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}

	sub, err := h.submit(r.Context(), doc, inputs)
	switch {
	case err == nil && browser:
		http.Redirect(w, r, h.path("/submissions/"+sub.ID), http.StatusSeeOther)
	case err == nil:
		w.Header().Set("Location", h.path("/submissions/"+sub.ID))
		writeSuccess(w, http.StatusCreated, sub, "Form successfully submitted")
	case browser && errors.Is(err, schema.ErrValidation):
		opts := render.RenderOptions{Values: inputs}
		render.MapIssues(doc, schema.IssuesOf(err)).Apply(&opts)
		h.render(w, r, http.StatusBadRequest, doc, "html", opts)
	default:
		writeError(w, h.opts.Logger, r, err, failure)
	}
}

// getSubmission renders the form filled with a stored submission.
func (h *handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to load submission"

	if err := h.requireStore(); err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}
	sub, err := h.opts.Store.LoadSubmission(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}
	doc, err := h.opts.Store.LoadForm(r.Context(), sub.FormID)
	if err != nil {
		writeError(w, h.opts.Logger, r, err, failure)
		return
	}
	h.render(w, r, http.StatusOK, doc, "html", render.RenderOptions{Values: sub.Values})
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, code int, doc model.Document, fallback string, opts render.RenderOptions) {
	name := strings.TrimSpace(r.URL.Query().Get("renderer"))
	if name == "" {
		name = fallback
	}
	renderer, err := h.opts.Renderers.Get(name)
	if err != nil {
		writeError(w, h.opts.Logger, r, badRequest(fmt.Sprintf("Unknown renderer %q", name)), "")
		return
	}

	if doc.ID != "" && opts.Action == "" {
		opts.Action = h.path("/forms/" + doc.ID + "/submissions")
	}
	opts.Translated = r.URL.Query().Get("translated") == "true"

	out, err := renderer.Render(r.Context(), doc, opts)
	if err != nil {
		writeError(w, h.opts.Logger, r, err, "Failed to render form")
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(code)
	_, _ = w.Write(out)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// formInputs reads answers keyed by field id from a form encoded body.
// Unchecked checkboxes are absent from the body and count as false.
func formInputs(r *http.Request, doc model.Document) (map[string]any, error) {
	if err := r.ParseForm(); err != nil {
		return nil, badRequest("Invalid form body")
	}
	inputs := make(map[string]any, len(doc.Fields))
	for _, field := range doc.Fields {
		raw, present := r.PostForm[field.ID]
		switch {
		case field.Type == model.FieldTypeCheckbox:
			inputs[field.ID] = present && len(raw) > 0 && raw[0] != "" && raw[0] != "false"
		case present && len(raw) > 0:
			inputs[field.ID] = raw[0]
		}
	}
	return inputs, nil
}

// documentFrom converts a validated JSON object into a Document and checks
// every field. Issue paths are prefixed with prefix when set.
func documentFrom(values map[string]any, prefix string) (model.Document, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return model.Document{}, fmt.Errorf("formbuilder: encode document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, &schema.ValidationError{
			Schema: "pdf_form_save",
			Issues: []schema.Issue{{Path: joinPath(prefix, "fields"), Message: "Invalid field list"}},
		}
	}

	var issues []schema.Issue
	seen := make(map[string]struct{}, len(doc.Fields))
	for idx, field := range doc.Fields {
		path := joinPath(prefix, "fields."+strconv.Itoa(idx))
		if strings.TrimSpace(field.ID) == "" {
			issues = append(issues, schema.Issue{Path: path + ".id", Message: "Required"})
		} else if _, dup := seen[field.ID]; dup {
			issues = append(issues, schema.Issue{Path: path + ".id", Message: fmt.Sprintf("Duplicate field id %q", field.ID)})
		}
		seen[field.ID] = struct{}{}
		if !field.Type.Valid() {
			issues = append(issues, schema.Issue{Path: path + ".type", Message: fmt.Sprintf("Invalid field type %q", field.Type)})
		}
		if field.Type.HasOptions() && len(field.Options) == 0 {
			issues = append(issues, schema.Issue{Path: path + ".options", Message: "Options are required"})
		}
	}
	if len(issues) > 0 {
		return model.Document{}, &schema.ValidationError{Schema: "pdf_form_save", Issues: issues}
	}
	return doc, nil
}

func joinPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}
