package api

import (
	"errors"
	"net/http"
)

// AppError is an error with an HTTP status, a short category rendered as "error",
// and a human-readable detail rendered as "message".
type AppError struct {
	Code     int    `json:"-"`
	Category string `json:"error"`
	Message  string `json:"message,omitempty"`
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Category
	}
	return e.Category + ": " + e.Message
}

var (
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Category: "Invalid request body", Message: "Request body must be valid JSON"}
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Category: "Route not found"}
	ErrMethodNotAllow = &AppError{Code: http.StatusMethodNotAllowed, Category: "Method not allowed"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Category: "Internal server error", Message: "Something went wrong"}
	ErrMissingFields  = &AppError{Code: http.StatusBadRequest, Category: "Missing required fields"}
)

func NewBadRequestError(category, msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Category: category, Message: msg}
}

func NewValidationError(category, msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Category: category, Message: msg}
}

func NewInternalError(category, msg string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Category: category, Message: msg}
}

// NewConfigurationError reports a collaborator that is missing its credential.
func NewConfigurationError(service string) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Category: "Configuration error",
		Message:  service + " is not properly configured",
	}
}

func HandleError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONErrorMessage(w, appErr.Code, appErr.Category, appErr.Message)
		return
	}
	JSONErrorMessage(w, http.StatusInternalServerError, ErrInternalServer.Category, ErrInternalServer.Message)
}

// Detail returns err's text in development mode and fallback otherwise, so
// production responses never leak internals.
func Detail(development bool, err error, fallback string) string {
	if development && err != nil {
		return err.Error()
	}
	return fallback
}
