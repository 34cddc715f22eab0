package database

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
)

// postgres error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// MapError translates driver errors: no rows into notFound, unique violations into
// conflicts, foreign key violations into not found errors on the referenced table.
func MapError(err error, msg string, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}

	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch pqErr.Code {
		case uniqueViolation:
			return core.NewConflictError(conflictMessage(pqErr))
		case foreignKeyViolation:
			return core.NewNotFoundError(referencedResource(pqErr))
		case checkViolation:
			return core.NewValidationError(errors.New("invalid data: " + pqErr.Constraint))
		}
	}
	return errors.Wrap(err, msg)
}

func conflictMessage(pqErr *pq.Error) string {
	if pqErr.Detail != "" {
		return strings.TrimPrefix(pqErr.Detail, "Key ")
	}
	return "record already exists"
}

// referencedResource guesses the missing resource from a "<table>_<column>_fkey" constraint.
func referencedResource(pqErr *pq.Error) string {
	parts := strings.Split(strings.TrimSuffix(pqErr.Constraint, "_fkey"), "_")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:len(parts)-1], "")
	}
	return "record"
}
