package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"

	// Generation pipeline errors
	ErrConfig     ErrorCode = "CONFIG_ERROR"     // invalid generation parameters, caught before any network call
	ErrService    ErrorCode = "SERVICE_ERROR"    // transport or envelope failure after retries are exhausted
	ErrExtraction ErrorCode = "EXTRACTION_ERROR" // no parseable JSON array in the completion reply
	ErrValidation ErrorCode = "VALIDATION_ERROR" // a candidate record violates a type invariant
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewConfigError reports an invalid generation parameter. The offending field
// name is always part of the message so callers can point at it directly.
func NewConfigError(field, message string) *DomainError {
	return NewError(ErrConfig, fmt.Sprintf("%s: %s", field, message), nil)
}

// NewServiceError wraps the last transport failure after retries are exhausted.
func NewServiceError(message string, err error) *DomainError {
	return NewError(ErrService, message, err)
}

func NewExtractionError(message string, err error) *DomainError {
	return NewError(ErrExtraction, message, err)
}

// ValidationError pins a type-invariant violation to a specific candidate
// record and field. ItemIndex is the zero-based position in the parsed array.
type ValidationError struct {
	ItemIndex int
	Field     string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %d, field %q: %s", e.ItemIndex, e.Field, e.Message)
}

// NewValidationError creates a ValidationError for one candidate record.
func NewValidationError(itemIndex int, field, message string) *ValidationError {
	return &ValidationError{
		ItemIndex: itemIndex,
		Field:     field,
		Message:   message,
	}
}
