package postgres

import (
	domainerrors "greenhood/internal/domain/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for constraint error checking. They rely on TranslateError
// so that both the Postgres and the SQLite dialect report gorm sentinel errors.
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// dbError wraps a driver error so callers classify it as a store failure.
func dbError(err error, details string) error {
	return domainerrors.NewDatabaseExecuteError(err, details)
}
