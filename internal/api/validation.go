package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationRule maps "Field.tag" of a failed struct validation to the error
// returned to the client.
type ValidationRule struct {
	Key string
	Err *AppError
}

// ValidationRules is checked in order; the first rule matching any failure wins.
type ValidationRules []ValidationRule

// Translate converts a validator error into a client-facing AppError. Any
// missing required field wins over other failures and yields missing.
func (rules ValidationRules) Translate(err error, missing *AppError) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrBadRequest
	}
	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return missing
		}
		failed[fe.Field()+"."+fe.Tag()] = true
	}
	for _, rule := range rules {
		if failed[rule.Key] {
			return rule.Err
		}
	}
	return NewValidationError("Invalid request", verrs[0].Error())
}
