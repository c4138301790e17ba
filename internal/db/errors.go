package db

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func sqlState(err error) (code string, constraint string, ok bool) {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Field('C'), pgErr.Field('n'), true
}

// IsUniqueViolation reports whether err is a unique-constraint rejection.
// With a non-empty constraint only that constraint matches.
func IsUniqueViolation(err error, constraint string) bool {
	code, name, ok := sqlState(err)
	if !ok || code != codeUniqueViolation {
		return false
	}
	return constraint == "" || constraint == name
}

// IsForeignKeyViolation reports whether err is a foreign-key rejection.
func IsForeignKeyViolation(err error) bool {
	code, _, ok := sqlState(err)
	return ok && code == codeForeignKeyViolation
}
