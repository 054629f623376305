package dto

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validator returns the shared struct validator used by request DTOs
func Validator() *validator.Validate {
	return validate
}
