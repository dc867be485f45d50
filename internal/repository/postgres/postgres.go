// Package postgres implements the repository interfaces on PostgreSQL through database/sql.
package postgres

import (
	"database/sql"
	"errors"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// IsNoRowsError reports whether err means the queried row does not exist.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func likePattern(q string) string {
	return "%" + q + "%"
}
