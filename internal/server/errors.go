package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cvdoc/internal/engine"
	"github.com/jonathan/cvdoc/internal/schemas"
)

// ErrDocumentNotFound indicates no document exists for a job context
type ErrDocumentNotFound struct {
	JobContextID string
}

func (e *ErrDocumentNotFound) Error() string {
	return fmt.Sprintf("no document for job context: %s", e.JobContextID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrAssistDisabled indicates the server runs without an AI provider
type ErrAssistDisabled struct{}

func (e *ErrAssistDisabled) Error() string {
	return "AI assistance is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var schemaErr *schemas.ValidationError
	switch {
	case errors.As(err, &validation), errors.As(err, &schemaErr),
		errors.Is(err, engine.ErrMissingPayload):
		return http.StatusBadRequest
	case isNotFound(err):
		return http.StatusNotFound
	case isAssistDisabled(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isNotFound(err error) bool {
	var notFound *ErrDocumentNotFound
	return errors.As(err, &notFound) || errors.Is(err, engine.ErrNotFound)
}

func isAssistDisabled(err error) bool {
	var disabled *ErrAssistDisabled
	return errors.As(err, &disabled)
}
