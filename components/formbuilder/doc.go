// Package formbuilder exposes document analysis, translation and form
// persistence over net/http.
//
// Routes (relative to the base path passed to RegisterRoutes, "/api/pdf-form"
// by default):
//
//	POST /analyze                 multipart: file | fileUrl | text, translate, targetLanguage
//	POST /translate               JSON: {text, targetLanguage}
//	POST /generate                JSON: {formId | formData, userInputs}
//	POST /forms                   JSON document, returns the stored form
//	GET  /forms/{id}              ?renderer=json|html
//	POST /forms/{id}/submissions  JSON or form encoded answers
//	GET  /submissions/{id}        ?renderer=html|json
//
// Failures answer {"error": "..."} with a 4xx status, or
// {"error": "...", "details": "..."} with a 5xx status.
package formbuilder
