package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lookup errors
const (
	// ErrCodeNotFound indicates the requested session, identity or record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the record or assignment is already present.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Request errors
const (
	// ErrCodePreconditionFailed indicates a format or validation failure.
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	// ErrCodeUnauthenticated indicates a credential mismatch.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
)

// Token errors
const (
	// ErrCodeExpired indicates a token whose exp lies in the past.
	ErrCodeExpired ErrorCode = "EXPIRED"
	// ErrCodeMalformed indicates a token with invalid structure.
	ErrCodeMalformed ErrorCode = "MALFORMED"
	// ErrCodeKeyMismatch indicates a signature that does not validate under the supplied key.
	ErrCodeKeyMismatch ErrorCode = "KEY_MISMATCH"
)

// Internal errors
const (
	// ErrCodeCollision indicates a generated identifier clashed with an existing one.
	ErrCodeCollision ErrorCode = "COLLISION"
	// ErrCodeUnknown indicates an unclassified storage or transport failure.
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCollision: true,
	ErrCodeUnknown:   false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
