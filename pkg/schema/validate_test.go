package schema_test

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-expatform/pkg/schema"
)

func mustSchema(t *testing.T, name string) schema.Schema {
	t.Helper()
	catalog, err := schema.Default()
	require.NoError(t, err)
	s, err := catalog.Get(name)
	require.NoError(t, err)
	return s
}

func TestValidate_DocumentDownload(t *testing.T) {
	s := mustSchema(t, "document_download")

	out, err := schema.Validate(s, map[string]any{
		"documentId": "123e4567-e89b-12d3-a456-426614174000",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"documentId": "123e4567-e89b-12d3-a456-426614174000"}, out)

	_, err = schema.Validate(s, map[string]any{"documentId": "not-a-uuid"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrValidation))
	assert.Equal(t, "Validation failed: documentId: Invalid UUID format", err.Error())
}

func TestValidate_MissingRequiredAndTypeMismatch(t *testing.T) {
	s := mustSchema(t, "email_test")

	_, err := schema.Validate(s, map[string]any{
		"recipient": 42,
		"body":      "",
	})
	require.Error(t, err)

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email_test", verr.Schema)
	assert.Equal(t, []schema.Issue{
		{Path: "recipient", Message: "Expected string, received number"},
		{Path: "subject", Message: "Required"},
		{Path: "body", Message: "Body is required"},
	}, verr.Issues)
	assert.Equal(t,
		"Validation failed: recipient: Expected string, received number, subject: Required, body: Body is required",
		err.Error())
}

func TestValidate_DefaultsSubstituted(t *testing.T) {
	out, err := schema.Validate(mustSchema(t, "municipality_search"), map[string]any{"query": "Zürich"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "Zürich", "limit": float64(10)}, out)

	out, err = schema.Validate(mustSchema(t, "gdpr_export"), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"format": "readable"}, out)

	out, err = schema.Validate(mustSchema(t, "gdpr_delete"), map[string]any{
		"confirmation": "DELETE_MY_ACCOUNT",
		"deletion_type": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"confirmation":  "DELETE_MY_ACCOUNT",
		"deletion_type": "full_deletion",
	}, out)
}

func TestValidate_EnumAndLiteral(t *testing.T) {
	_, err := schema.Validate(mustSchema(t, "task_action"), map[string]any{
		"taskId": "123e4567-e89b-12d3-a456-426614174000",
		"action": "archive",
	})
	require.Error(t, err)
	assert.Equal(t,
		"Validation failed: action: Invalid enum value. Expected 'complete' | 'skip' | 'remind' | 'reopen', received 'archive'",
		err.Error())

	_, err = schema.Validate(mustSchema(t, "gdpr_delete"), map[string]any{"confirmation": "yes"})
	require.Error(t, err)
	assert.Equal(t, `Validation failed: confirmation: Invalid literal value, expected "DELETE_MY_ACCOUNT"`, err.Error())
}

func TestValidate_NumberRangeAndCoercion(t *testing.T) {
	s := mustSchema(t, "municipality_search")

	out, err := schema.Validate(s, map[string]any{"query": "Bern", "limit": "25"})
	require.NoError(t, err)
	assert.Equal(t, float64(25), out["limit"])

	out, err = schema.Validate(s, map[string]any{"query": "Bern", "limit": json.Number("5")})
	require.NoError(t, err)
	assert.Equal(t, float64(5), out["limit"])

	_, err = schema.Validate(s, map[string]any{"query": "Bern", "limit": 0})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: limit: Number must be greater than or equal to 1", err.Error())

	_, err = schema.Validate(s, map[string]any{"query": "Bern", "limit": 51.5})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: limit: Number must be less than or equal to 50", err.Error())

	_, err = schema.Validate(s, map[string]any{"query": strings.Repeat("a", 101)})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: query: String must contain at most 100 character(s)", err.Error())
}

func TestValidate_ArrayElementPaths(t *testing.T) {
	s := mustSchema(t, "school_email")

	out, err := schema.Validate(s, map[string]any{
		"municipality": "Basel",
		"canton":       "BS",
		"childrenAges": []any{json.Number("4"), 7},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(4), float64(7)}, out["childrenAges"])

	_, err = schema.Validate(s, map[string]any{
		"municipality": "Basel",
		"canton":       "BS",
		"childrenAges": []any{4, "seven", true},
	})
	require.Error(t, err)
	assert.Equal(t, []schema.Issue{
		{Path: "childrenAges.1", Message: "Expected number, received string"},
		{Path: "childrenAges.2", Message: "Expected number, received boolean"},
	}, schema.IssuesOf(err))
}

func TestValidate_OpenSchemaPassthrough(t *testing.T) {
	s := mustSchema(t, "profile_update")

	out, err := schema.Validate(s, map[string]any{
		"first_name":   "<b>Anna</b>",
		"has_children": "true",
		"custom_flag":  "kept",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"first_name":   "Anna",
		"has_children": true,
		"custom_flag":  "kept",
	}, out)

	closed := mustSchema(t, "school_website")
	out, err = schema.Validate(closed, map[string]any{
		"municipality": "Luzern",
		"canton":       "LU",
		"extra":        "dropped",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "extra")
}

func TestValidate_SanitizeBeforeLength(t *testing.T) {
	s := schema.Schema{
		Name: "note",
		Fields: schema.Fields{
			{Name: "text", Rule: schema.Rule{Kind: schema.KindString, Required: true, Sanitize: true, MinLength: schema.Int(1)}},
		},
	}

	out, err := schema.Validate(s, map[string]any{"text": "<script>alert(1)</script>Fish &amp; Chips"})
	require.NoError(t, err)
	assert.Equal(t, "Fish & Chips", out["text"])

	_, err = schema.Validate(s, map[string]any{"text": "<i></i>"})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: text: String must contain at least 1 character(s)", err.Error())
}

func TestValidate_Formats(t *testing.T) {
	tests := []struct {
		name  string
		kind  schema.Kind
		value string
		want  string
	}{
		{name: "email ok", kind: schema.KindEmail, value: "anna@example.ch"},
		{name: "email space", kind: schema.KindEmail, value: "anna @example.ch", want: "Invalid email format"},
		{name: "url ok", kind: schema.KindURL, value: "https://www.zh.ch/schulen"},
		{name: "url relative", kind: schema.KindURL, value: "/schulen", want: "Invalid URL format"},
		{name: "postal ok", kind: schema.KindSwissPostalCode, value: "8001"},
		{name: "postal short", kind: schema.KindSwissPostalCode, value: "801", want: "Invalid Swiss postal code"},
		{name: "phone international", kind: schema.KindSwissPhone, value: "+41 44 123 45 67"},
		{name: "phone national", kind: schema.KindSwissPhone, value: "044/123.45-67"},
		{name: "phone brackets", kind: schema.KindSwissPhone, value: "(044) 123 45 67"},
		{name: "phone foreign", kind: schema.KindSwissPhone, value: "+49 30 1234567", want: "Invalid Swiss phone number"},
		{name: "uuid upper", kind: schema.KindUUID, value: "123E4567-E89B-12D3-A456-426614174000"},
		{name: "uuid braces", kind: schema.KindUUID, value: "{123e4567-e89b-12d3-a456-426614174000}", want: "Invalid UUID format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schema.Schema{Name: "probe", Fields: schema.Fields{{Name: "v", Rule: schema.Rule{Kind: tt.kind, Required: true}}}}
			out, err := schema.Validate(s, map[string]any{"v": tt.value})
			if tt.want == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.value, out["v"])
				return
			}
			require.Error(t, err)
			assert.Equal(t, []schema.Issue{{Path: "v", Message: tt.want}}, schema.IssuesOf(err))
		})
	}
}

func TestValidate_Integer(t *testing.T) {
	s := schema.Schema{Name: "count", Fields: schema.Fields{{Name: "n", Rule: schema.Rule{Kind: schema.KindInteger, Min: schema.Float(0)}}}}

	out, err := schema.Validate(s, map[string]any{"n": "12"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), out["n"])

	_, err = schema.Validate(s, map[string]any{"n": 1.5})
	require.Error(t, err)
	assert.Equal(t, "Validation failed: n: Expected integer, received float", err.Error())
}

func TestValidateQuery_LastValueWins(t *testing.T) {
	s := mustSchema(t, "municipality_search")

	out, err := schema.ValidateQuery(s, url.Values{
		"query": {"Genf", "Genève"},
		"limit": {"3"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"query": "Genève", "limit": float64(3)}, out)

	ages := mustSchema(t, "school_email")
	out, err = schema.ValidateQuery(ages, url.Values{
		"municipality": {"Chur"},
		"canton":       {"GR"},
		"childrenAges": {"3", "9"},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(3), float64(9)}, out["childrenAges"])
}

func TestDecodeJSON(t *testing.T) {
	s := mustSchema(t, "pdf_form_translate")

	out, err := schema.DecodeJSON(s, strings.NewReader(`{"text":"Name"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "Name", "targetLanguage": "de"}, out)

	_, err = schema.DecodeJSON(s, strings.NewReader(`["Name"]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrValidation))
	assert.Equal(t, "Validation failed: Expected object, received array", err.Error())

	_, err = schema.DecodeJSON(s, strings.NewReader(`{"text":`))
	require.Error(t, err)
	assert.Equal(t, "Validation failed: Invalid JSON body", err.Error())

	_, err = schema.DecodeJSON(s, strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, "Validation failed: text: Required", err.Error())
}

func TestValidateValue(t *testing.T) {
	rule := schema.Rule{Kind: schema.KindEmail, Required: true}

	_, issues := schema.ValidateValue("recipient", rule, nil)
	assert.Equal(t, []schema.Issue{{Path: "recipient", Message: "Required"}}, issues)

	value, issues := schema.ValidateValue("recipient", rule, "a@b.ch")
	assert.Empty(t, issues)
	assert.Equal(t, "a@b.ch", value)
}
