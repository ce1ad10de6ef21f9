package schema_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-expatform/pkg/schema"
)

func TestDefaultCatalog_Names(t *testing.T) {
	catalog, err := schema.Default()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"document_download",
		"document_upload",
		"email_test",
		"gdpr_delete",
		"gdpr_export",
		"municipality_email",
		"municipality_search",
		"pdf_form_generate",
		"pdf_form_save",
		"pdf_form_translate",
		"profile_update",
		"school_email",
		"school_website",
		"task_action",
	}, catalog.Names())
}

func TestCatalog_PreservesDeclarationOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"ordered.yaml": {Data: []byte(`
schemas:
  ordered:
    fields:
      zeta: {kind: string, required: true}
      alpha: {kind: number, required: true}
      mid: {kind: boolean, required: true}
`)},
	}
	catalog := schema.NewCatalog()
	require.NoError(t, catalog.LoadFS(fsys, "*.yaml"))

	_, err := catalog.Validate("ordered", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: zeta: Required, alpha: Required, mid: Required", err.Error())
}

func TestCatalog_RejectsDuplicatesAndBadDeclarations(t *testing.T) {
	catalog := schema.NewCatalog()
	s := schema.Schema{Name: "one", Fields: schema.Fields{{Name: "a", Rule: schema.Rule{Kind: schema.KindString}}}}
	require.NoError(t, catalog.Register(s))

	err := catalog.Register(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `schema "one" already registered`)

	err = catalog.Register(schema.Schema{Name: "bad", Fields: schema.Fields{{Name: "a", Rule: schema.Rule{Kind: "date"}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "date"`)

	err = catalog.Register(schema.Schema{Name: "enum", Fields: schema.Fields{{Name: "a", Rule: schema.Rule{Kind: schema.KindEnum}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enum rules require values")

	err = catalog.Load(strings.NewReader("schemas:\n  dup:\n    fields:\n      a: {kind: string}\n      a: {kind: number}\n"))
	require.Error(t, err)
}

func TestCatalog_UnknownSchema(t *testing.T) {
	catalog := schema.NewCatalog()
	_, err := catalog.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrUnknownSchema))
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	catalog, err := schema.Default()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := catalog.Validate("document_download", map[string]any{"documentId": "bad"})
			assert.True(t, errors.Is(err, schema.ErrValidation))
		}()
	}
	wg.Wait()
}

func TestCatalog_OpenAPIExport(t *testing.T) {
	catalog, err := schema.Default()
	require.NoError(t, err)

	exported := catalog.OpenAPI()
	require.Len(t, exported, len(catalog.Names()))

	search := exported["municipality_search"].Value
	require.NotNil(t, search)
	require.NoError(t, search.Validate(context.Background()))
	assert.Equal(t, []string{"query"}, search.Required)
	require.NotNil(t, search.Properties["limit"].Value.Max)
	assert.Equal(t, float64(50), *search.Properties["limit"].Value.Max)
	assert.Equal(t, float64(10), search.Properties["limit"].Value.Default)

	require.NoError(t, search.VisitJSON(map[string]any{"query": "Thun", "limit": float64(5)}))
	assert.Error(t, search.VisitJSON(map[string]any{"limit": float64(5)}))

	download := exported["document_download"].Value
	assert.Equal(t, "uuid", download.Properties["documentId"].Value.Format)

	profile := exported["profile_update"].Value
	require.NotNil(t, profile.AdditionalProperties.Has)
	assert.True(t, *profile.AdditionalProperties.Has)
}
