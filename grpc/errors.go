package grpc

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/kbukum/identity/errors"
)

// Code maps an error code to its gRPC status code.
func Code(code apperrors.ErrorCode) codes.Code {
	switch code {
	case apperrors.ErrCodeNotFound:
		return codes.NotFound
	case apperrors.ErrCodeAlreadyExists:
		return codes.AlreadyExists
	case apperrors.ErrCodePreconditionFailed:
		return codes.FailedPrecondition
	case apperrors.ErrCodeUnauthenticated, apperrors.ErrCodeExpired,
		apperrors.ErrCodeMalformed, apperrors.ErrCodeKeyMismatch:
		return codes.Unauthenticated
	case apperrors.ErrCodeCollision:
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// ToStatus converts err to a gRPC status error. Errors that already carry
// a status pass through; anything else is reported as Internal with the
// generic message, never the cause.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	appErr := apperrors.From(err)
	return status.Error(Code(appErr.Code), appErr.Message)
}

// FromStatus converts a status error received by a client back to an
// AppError.
func FromStatus(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return apperrors.Unknown(err)
	}

	var code apperrors.ErrorCode
	httpStatus := http.StatusInternalServerError
	switch st.Code() {
	case codes.NotFound:
		code, httpStatus = apperrors.ErrCodeNotFound, http.StatusNotFound
	case codes.AlreadyExists:
		code, httpStatus = apperrors.ErrCodeAlreadyExists, http.StatusConflict
	case codes.FailedPrecondition:
		code, httpStatus = apperrors.ErrCodePreconditionFailed, http.StatusPreconditionFailed
	case codes.Unauthenticated:
		code, httpStatus = apperrors.ErrCodeUnauthenticated, http.StatusUnauthorized
	case codes.Aborted:
		code, httpStatus = apperrors.ErrCodeCollision, http.StatusConflict
	default:
		return apperrors.Unknown(err)
	}
	return apperrors.New(code, st.Message(), httpStatus).WithCause(err)
}
