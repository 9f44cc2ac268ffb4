package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"loan-origination/internal/domain/apperr"
)

// translate maps driver and gorm errors onto the apperr taxonomy. The
// connection must be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", apperr.ErrDuplicate, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
	}
}
