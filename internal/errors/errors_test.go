package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		sentinel error
		status   int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrLimitExceeded, http.StatusPaymentRequired},
		{ErrNotConfigured, http.StatusUnprocessableEntity},
		{ErrGeneration, http.StatusBadGateway},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := NewError("boom").Mark(tt.sentinel)
		assert.Equal(t, tt.status, HTTPStatusFromErr(err), "sentinel %v", tt.sentinel)
		assert.Equal(t, tt.sentinel.Error(), ErrCodeFromErr(err))
	}
}

func TestBuilderCarriesHintAndDetails(t *testing.T) {
	err := NewError("internal message").
		WithHint("user facing hint").
		WithReportableDetails(map[string]interface{}{"field": "name"}).
		Mark(ErrValidation)

	assert.True(t, IsValidation(err))
	assert.True(t, IsExpected(err))
	assert.Equal(t, "user facing hint", Hint(err))
	assert.Equal(t, map[string]interface{}{"field": "name"}, Details(err))
	assert.Equal(t, "internal message", err.Error())
}

func TestWithErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("low level failure")
	err := WithError(cause).
		WithHint("Failed to do the thing").
		Mark(ErrDatabase)

	assert.True(t, IsDatabase(err))
	assert.False(t, IsExpected(err))
	assert.True(t, Is(err, cause))
}
