package db

import (
	"strings"

	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
)

// IsUniqueViolation reports whether err is a unique constraint failure.
// Postgres errors are matched on SQLSTATE and constraint name; sqlite, used
// in tests, only exposes the message text. An empty constraintName matches
// any unique constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if pg, ok := pkgerrors.AsPGError(err); ok {
		if pg.Code != pkgerrors.UniqueViolation {
			return false
		}
		return constraintName == "" || pg.Constraint == constraintName
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}
