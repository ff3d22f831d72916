package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("authentication required")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Transport errors
	ErrNetwork = errors.New("network error")

	// Console errors
	ErrBusy = errors.New("a submission is already in progress")
)

// Relation errors
var (
	ErrSubjectHasCourses    = errors.New("subject is used by one or more courses and cannot be deleted")
	ErrInstructorHasCourses = errors.New("instructor teaches one or more courses and cannot be deleted")
)

// Kind classifies an error for the callers that have to react to it differently:
// inline field feedback, a transient message, a refresh, or re-authentication.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindNetwork       Kind = "network"
	KindAuthorization Kind = "authorization"
	KindInternal      Kind = "internal"
)

// sentinelFor maps a Kind to the sentinel it unwraps to.
func sentinelFor(kind Kind) error {
	switch kind {
	case KindValidation:
		return ErrValidationFailed
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrResourceNotFound
	case KindNetwork:
		return ErrNetwork
	case KindAuthorization:
		return ErrUnauthorized
	default:
		return nil
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Kind    Kind
	Err     error
	Message string
	// Field names the offending field for validation and conflict errors.
	Field string
	// Value carries the colliding natural-key value for conflicts.
	Value   string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinelFor(e.Kind)
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewValidationError reports a missing or malformed field.
func NewValidationError(field, message string) *CustomError {
	return &CustomError{
		Kind:    KindValidation,
		Err:     ErrValidationFailed,
		Field:   field,
		Message: message,
	}
}

// NewConflictError reports a natural-key collision on field with the colliding value.
func NewConflictError(field, value, message string) *CustomError {
	return &CustomError{
		Kind:    KindConflict,
		Err:     ErrConflict,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewRelationConflictError reports a delete blocked by live references.
func NewRelationConflictError(err error) *CustomError {
	return &CustomError{
		Kind:    KindConflict,
		Err:     errors.Join(ErrConflict, err),
		Message: err.Error(),
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return &CustomError{
		Kind:    KindNotFound,
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewNetworkError wraps a transport failure behind a generic message.
func NewNetworkError(cause error) *CustomError {
	return &CustomError{
		Kind:    KindNetwork,
		Err:     errors.Join(ErrNetwork, cause),
		Message: "Network error, please try again",
	}
}

// NewAuthorizationError reports a missing, expired or insufficient credential.
func NewAuthorizationError(message string) *CustomError {
	return &CustomError{
		Kind:    KindAuthorization,
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// KindOf classifies any error. Errors that carry no kind are matched against the
// sentinels and fall back to KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ce *CustomError
	if errors.As(err, &ce) && ce.Kind != "" {
		return ce.Kind
	}
	switch {
	case errors.Is(err, ErrValidationFailed):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case Is(err, ErrUnauthorized, ErrTokenExpired, ErrTokenInvalid, ErrInvalidCredentials, ErrPermissionDenied):
		return KindAuthorization
	default:
		return KindInternal
	}
}

// FieldOf returns the offending field of a validation or conflict error, if any.
func FieldOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
