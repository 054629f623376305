package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors used as marks for the error taxonomy. Every error raised
// by the engine is marked with exactly one of these so callers and the REST
// layer can classify it without string matching.
var (
	ErrValidation       = errors.New("validation_error")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyExists    = errors.New("already_exists")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrLimitExceeded    = errors.New("limit_exceeded")
	ErrNotConfigured    = errors.New("not_configured")
	ErrGeneration       = errors.New("generation_failed")
	ErrDatabase         = errors.New("database_error")
	ErrInternal         = errors.New("internal_error")
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}

func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

func IsGeneration(err error) bool {
	return errors.Is(err, ErrGeneration)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsExpected reports whether err is a user-facing outcome rather than an
// incident. Expected errors are returned directly without incident logging.
func IsExpected(err error) bool {
	return IsValidation(err) ||
		IsNotFound(err) ||
		IsAlreadyExists(err) ||
		IsPermissionDenied(err) ||
		IsLimitExceeded(err) ||
		IsNotConfigured(err)
}
