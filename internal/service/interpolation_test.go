package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docutask/docutask/internal/domain/document"
	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
)

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		variables map[string]interface{}
		docText   string
		want      string
	}{
		{
			name:      "substitutes variables and document text",
			prompt:    "Hello {{NAME}}, doc: {{DOKUMENT}}",
			variables: map[string]interface{}{"name": "Anna"},
			docText:   "Contract v1",
			want:      "Hello Anna, doc: Contract v1",
		},
		{
			name:      "keys match case insensitively",
			prompt:    "{{Name}} {{NAME}} {{name}}",
			variables: map[string]interface{}{"nAmE": "Anna"},
			want:      "Anna Anna Anna",
		},
		{
			name:      "tolerates whitespace inside placeholders",
			prompt:    "{{ NAME }} and {{  CITY  }}",
			variables: map[string]interface{}{"name": "Anna", "city": "Berlin"},
			want:      "Anna and Berlin",
		},
		{
			name:      "spaces in variable keys fold to underscores",
			prompt:    "{{FIRST_NAME}}",
			variables: map[string]interface{}{"first name": "Anna"},
			want:      "Anna",
		},
		{
			name:   "unmatched placeholders become empty",
			prompt: "a {{MISSING}} b",
			want:   "a  b",
		},
		{
			name:    "every document alias resolves to the document text",
			prompt:  "{{DOKUMENT}}|{{DOCUMENT_CONTENT}}|{{DOCUMENT_CONTENT_FULL}}|{{CONTRACT_TEXT}}",
			docText: "text",
			want:    "text|text|text|text",
		},
		{
			name:      "caller value wins over document alias",
			prompt:    "{{DOKUMENT}}",
			variables: map[string]interface{}{"dokument": "explicit"},
			docText:   "from document",
			want:      "explicit",
		},
		{
			name:      "non-string values are stringified",
			prompt:    "{{COUNT}} items, active: {{ACTIVE}}",
			variables: map[string]interface{}{"count": 3, "active": true},
			want:      "3 items, active: true",
		},
		{
			name:      "nil value renders empty",
			prompt:    "[{{NOTE}}]",
			variables: map[string]interface{}{"note": nil},
			want:      "[]",
		},
		{
			name:   "text without placeholders passes through",
			prompt: "no placeholders here",
			want:   "no placeholders here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.prompt, tt.variables, tt.docText)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinDocumentText(t *testing.T) {
	docs := []*document.Document{
		{ID: "doc_1", ExtractedText: "first"},
		{ID: "doc_2", ExtractedText: "   "},
		nil,
		{ID: "doc_3", ExtractedText: "second"},
	}
	assert.Equal(t, "first"+documentSeparator+"second", JoinDocumentText(docs))
	assert.Equal(t, "", JoinDocumentText(nil))
}

func TestValidateRequiredFields(t *testing.T) {
	tmpl := &template.Template{
		ID:   "tmpl_1",
		Name: "Contract Review",
		Fields: []template.FieldDescriptor{
			{Key: "customer_name", Label: "Customer name", Type: template.FieldTypeText, Required: true},
			{Key: "notes", Type: template.FieldTypeTextarea},
		},
	}

	t.Run("passes with all required values", func(t *testing.T) {
		err := ValidateRequiredFields(tmpl, map[string]interface{}{"customer_name": "Anna"})
		assert.NoError(t, err)
	})

	t.Run("matches required keys case insensitively", func(t *testing.T) {
		err := ValidateRequiredFields(tmpl, map[string]interface{}{"CUSTOMER_NAME": "Anna"})
		assert.NoError(t, err)
	})

	t.Run("optional fields may be absent", func(t *testing.T) {
		err := ValidateRequiredFields(tmpl, map[string]interface{}{"customer_name": "Anna"})
		assert.NoError(t, err)
	})

	t.Run("missing required field fails", func(t *testing.T) {
		err := ValidateRequiredFields(tmpl, map[string]interface{}{})
		assert.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
		assert.Contains(t, ierr.Hint(err), "Customer name")
	})

	t.Run("falsy values fail", func(t *testing.T) {
		for _, v := range []interface{}{"", "   ", nil, false, 0, int64(0), float64(0)} {
			err := ValidateRequiredFields(tmpl, map[string]interface{}{"customer_name": v})
			assert.Error(t, err, "value %#v should be rejected", v)
			assert.True(t, ierr.IsValidation(err))
		}
	})

	t.Run("non-falsy values pass", func(t *testing.T) {
		for _, v := range []interface{}{"x", true, 1, int64(2), 0.5} {
			err := ValidateRequiredFields(tmpl, map[string]interface{}{"customer_name": v})
			assert.NoError(t, err, "value %#v should be accepted", v)
		}
	})
}
