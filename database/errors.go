package database

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
)

// FromDatabase classifies a GORM error. Missing rows become NotFound,
// unique violations AlreadyExists; anything else is logged with its
// operation and key and returned as Unknown.
func FromDatabase(err error, log *logger.Logger, resource, op, key string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.AlreadyExists(resource).WithCause(err)
	}

	if log != nil {
		log.Error("Database operation failed", map[string]interface{}{
			logger.FieldOperation: op,
			logger.FieldKey:       key,
			"resource":            resource,
			logger.FieldError:     err.Error(),
		})
	}
	return apperrors.Unknown(err)
}
