package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"nekobudget/internal/core"
)

// wrapErr classifies a database error into one of the core error kinds.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrConstraint),
		errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrStorage):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	case isConstraintErr(err):
		return fmt.Errorf("%s: %w: %w", op, core.ErrConstraint, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, core.ErrStorage, err)
	}
}

func isConstraintErr(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		// Extended codes keep the primary code in the low byte
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
}

// expectOne turns a zero-row write into ErrNotFound.
func expectOne(n int64, err error, entity string, id int64) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

func checkPositive(m core.Money) error {
	if m.Cents <= 0 {
		return core.Constraint(core.ErrInvalidAmount)
	}
	return nil
}
