package repository

import (
	"database/sql"
	"strings"
)

// checkAffected turns an UPDATE or DELETE that matched no row into notFound.
func checkAffected(result sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}

// isUniqueViolation recognises unique constraint errors of SQLite, PostgreSQL and MySQL.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

// escapeLike drops LIKE wildcards from user input.
func escapeLike(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}
