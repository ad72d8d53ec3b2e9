package database

import (
	"strings"
)

// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
// constraint. Both mattn/go-sqlite3 and modernc.org/sqlite put the SQLite
// message in the error text, and bun/pkg/errors wrapping preserves it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed") ||
		strings.Contains(msg, "(1555)") || // SQLITE_CONSTRAINT_PRIMARYKEY
		strings.Contains(msg, "(2067)") // SQLITE_CONSTRAINT_UNIQUE
}

// IsForeignKeyViolation reports whether err came from a FOREIGN KEY
// constraint.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "(787)") // SQLITE_CONSTRAINT_FOREIGNKEY
}
