package repositories

import (
	"errors"
	"fmt"

	"storerate/internal/apperrors"

	"gorm.io/gorm"
)

// translate converts GORM sentinel errors into application error kinds and
// wraps everything else as a storage failure.
func translate(err error, notFound, conflict, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != "":
		return apperrors.Wrap(apperrors.ErrNotFound, notFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflict != "":
		return apperrors.Wrap(apperrors.ErrConflict, conflict, err)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
