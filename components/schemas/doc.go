// Package schemas serves the validation catalog over net/http.
//
// Routes (relative to the base path passed to RegisterRoutes, "/api" by
// default):
//
//	GET  /schemas          OpenAPI 3 document with every catalog schema
//	GET  /schemas/{name}   single schema as an OpenAPI schema object
//	POST /validate/{name}  validate a JSON body
//	GET  /validate/{name}  validate query parameters
//
// Valid payloads answer {"success": true, "data": <normalized payload>}.
// Invalid payloads answer 400 with {"error": "...", "issues": [...]}.
package schemas
