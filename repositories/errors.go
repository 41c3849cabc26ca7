package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// wrap maps gorm sentinel errors onto the package's own and adds context.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
