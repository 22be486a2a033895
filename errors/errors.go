package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message safe to return to callers.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error. It is never sent to the caller.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, errors.NotFound("", "")) style checks work.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Taxonomy constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"resource": resource},
	}
}

// PreconditionFailed creates a new AppError for input that fails format or validation checks.
func PreconditionFailed(reason string) *AppError {
	return &AppError{
		Code: ErrCodePreconditionFailed, Message: reason,
		HTTPStatus: http.StatusPreconditionFailed,
	}
}

// Unauthenticated creates a new AppError for a credential mismatch.
func Unauthenticated() *AppError {
	return &AppError{
		Code: ErrCodeUnauthenticated, Message: "The provided credentials are not valid.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Expired creates a new AppError for a token past its expiry.
func Expired() *AppError {
	return &AppError{
		Code: ErrCodeExpired, Message: "The token has expired.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Malformed creates a new AppError for a token that cannot be parsed.
func Malformed() *AppError {
	return &AppError{
		Code: ErrCodeMalformed, Message: "The token is malformed.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// KeyMismatch creates a new AppError for a signature that does not validate under the key.
func KeyMismatch() *AppError {
	return &AppError{
		Code: ErrCodeKeyMismatch, Message: "The token signature does not match the verification key.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Collision creates a new AppError for a generated identifier that already exists.
func Collision(resource string) *AppError {
	return &AppError{
		Code: ErrCodeCollision, Message: fmt.Sprintf("Generated %s identifier is already in use.", resource),
		HTTPStatus: http.StatusConflict, Retryable: true,
		Details: map[string]any{"resource": resource},
	}
}

// Unknown creates a new AppError for an unclassified failure.
func Unknown(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnknown, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// --- Helpers ---

// From returns err as an *AppError. Errors outside the taxonomy are wrapped
// as Unknown with the original error kept as the cause.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Unknown(err)
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
