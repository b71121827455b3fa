package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string        `json:"error"`
	Message       string        `json:"message"`
	Detail        string        `json:"detail,omitempty"`
	Fields        []FieldError  `json:"fields,omitempty"`
	CorrelationID string        `json:"correlationId,omitempty"`
	State         *SessionState `json:"state,omitempty"`
}

// Standard error codes for API responses and domain errors
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidParameter    = "INVALID_PARAMETER"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeOperationFailed     = "OPERATION_FAILED"
	ErrCodeOperationInFlight   = "OPERATION_IN_FLIGHT"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeUnknownField        = "UNKNOWN_FIELD"
	ErrCodeInvalidMode         = "INVALID_MODE"
	ErrCodeUnsupported         = "UNSUPPORTED"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeSessionLimitReached = "SESSION_LIMIT_REACHED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// FieldError describes a single rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Key     string `json:"key"`
	Message string `json:"message,omitempty"`
}

// DomainError is a business error. Key is a localization message key; Message
// is a diagnostic or collaborator-supplied detail and is never translated.
type DomainError struct {
	Code    string       `json:"code"`
	Key     string       `json:"key"`
	Message string       `json:"message,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
	cause   error
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Key
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, key, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Key:     key,
		Message: message,
	}
}

// NewValidationError creates a ValidationFailed error listing the rejected fields.
func NewValidationError(fields []FieldError) *DomainError {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fmt.Sprintf("validation failed: %s (%s)", fields[0].Field, fields[0].Key)
	}
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Key:     "error.validation_failed",
		Message: msg,
		Fields:  fields,
	}
}

// NewOperationError wraps a data-access failure. message is the
// collaborator's user-displayable detail, if any.
func NewOperationError(cause error, message string) *DomainError {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &DomainError{
		Code:    ErrCodeOperationFailed,
		Key:     "error.operation_failed",
		Message: message,
		cause:   cause,
	}
}

// NotFound returns an ErrNotFound variant naming the missing id.
func NotFound(kind, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Key:     "error.not_found",
		Message: fmt.Sprintf("%s %q not found", kind, id),
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(ErrCodeNotFound, "error.not_found", "entity not found")
	ErrValidationFailed    = NewDomainError(ErrCodeValidationFailed, "error.validation_failed", "validation failed")
	ErrOperationFailed     = NewDomainError(ErrCodeOperationFailed, "error.operation_failed", "operation failed")
	ErrOperationInFlight   = NewDomainError(ErrCodeOperationInFlight, "error.operation_in_flight", "another operation is in progress")
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "error.invalid_transition", "operation not allowed in the current state")
	ErrUnknownField        = NewDomainError(ErrCodeUnknownField, "error.unknown_field", "field cannot be edited")
	ErrInvalidMode         = NewDomainError(ErrCodeInvalidMode, "error.invalid_mode", "unknown presentation mode")
	ErrUnsupported         = NewDomainError(ErrCodeUnsupported, "error.unsupported", "operation not supported")
	ErrSessionNotFound     = NewDomainError(ErrCodeSessionNotFound, "error.session_not_found", "session not found")
	ErrSessionLimitReached = NewDomainError(ErrCodeSessionLimitReached, "error.session_limit_reached", "too many open sessions")
)
