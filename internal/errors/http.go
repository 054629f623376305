package errors

import (
	"net/http"
)

// ErrCodeFromErr returns the stable machine-readable code for err's mark
func ErrCodeFromErr(err error) string {
	switch {
	case IsValidation(err):
		return ErrValidation.Error()
	case IsNotFound(err):
		return ErrNotFound.Error()
	case IsAlreadyExists(err):
		return ErrAlreadyExists.Error()
	case IsPermissionDenied(err):
		return ErrPermissionDenied.Error()
	case IsLimitExceeded(err):
		return ErrLimitExceeded.Error()
	case IsNotConfigured(err):
		return ErrNotConfigured.Error()
	case IsGeneration(err):
		return ErrGeneration.Error()
	case IsDatabase(err):
		return ErrDatabase.Error()
	default:
		return ErrInternal.Error()
	}
}

// HTTPStatusFromErr maps an error's mark to an HTTP status code
func HTTPStatusFromErr(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsPermissionDenied(err):
		return http.StatusForbidden
	case IsLimitExceeded(err):
		return http.StatusPaymentRequired
	case IsNotConfigured(err):
		return http.StatusUnprocessableEntity
	case IsGeneration(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
