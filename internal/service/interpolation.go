package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/docutask/docutask/internal/domain/document"
	"github.com/docutask/docutask/internal/domain/template"
	ierr "github.com/docutask/docutask/internal/errors"
)

// placeholderPattern matches {{KEY}} placeholders, tolerating inner whitespace
var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// documentSeparator visibly joins the extracted text of multiple documents
const documentSeparator = "\n\n----------\n\n"

// reservedDocumentKeys are the placeholder aliases always bound to the
// attached documents' extracted text unless the caller supplied an explicit
// value under the same key
var reservedDocumentKeys = []string{
	"DOKUMENT",
	"DOCUMENT_CONTENT",
	"DOCUMENT_CONTENT_FULL",
	"CONTRACT_TEXT",
}

// normalizeKey folds a placeholder or variable key for case-insensitive
// matching: trimmed, upper-cased, spaces collapsed to underscores
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.Join(strings.Fields(key), "_")
	return strings.ToUpper(key)
}

// JoinDocumentText concatenates the extracted text of all documents with a
// visible separator. Documents with missing or empty text contribute nothing.
func JoinDocumentText(docs []*document.Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d == nil {
			continue
		}
		text := strings.TrimSpace(d.ExtractedText)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, documentSeparator)
}

// Interpolate substitutes {{KEY}} placeholders in promptText. Keys match
// case-insensitively. Reserved document aliases resolve to documentText
// unless the caller supplied their own value. Unmatched placeholders become
// empty strings so a template update that adds a field never breaks older
// overrides that lack it.
func Interpolate(promptText string, variables map[string]interface{}, documentText string) string {
	values := make(map[string]string, len(variables)+len(reservedDocumentKeys))
	for k, v := range variables {
		values[normalizeKey(k)] = stringifyVariable(v)
	}
	for _, k := range reservedDocumentKeys {
		if _, ok := values[k]; !ok {
			values[k] = documentText
		}
	}

	return placeholderPattern.ReplaceAllStringFunc(promptText, func(match string) string {
		inner := placeholderPattern.FindStringSubmatch(match)[1]
		return values[normalizeKey(inner)]
	})
}

// ValidateRequiredFields checks every required descriptor of the base
// template's schema against the supplied variables. The base schema is
// authoritative even when an override's prompt text runs, since schemas are
// not overridden independently. A missing or falsy value fails the whole
// operation before interpolation.
func ValidateRequiredFields(t *template.Template, variables map[string]interface{}) error {
	values := make(map[string]interface{}, len(variables))
	for k, v := range variables {
		values[normalizeKey(k)] = v
	}

	for _, f := range t.RequiredFields() {
		v, ok := values[normalizeKey(f.Key)]
		if !ok || isFalsy(v) {
			label := f.Label
			if label == "" {
				label = f.Key
			}
			return ierr.NewErrorf("required field %q is missing", f.Key).
				WithHintf("Please fill in the field %q", label).
				WithReportableDetails(map[string]interface{}{
					"field": f.Key,
					"label": label,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func stringifyVariable(v interface{}) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isFalsy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	default:
		return false
	}
}
