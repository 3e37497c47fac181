package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// 42P01	undefined_table
// 42501	insufficient_privilege
// 08006	connection_failure

const (
	AUTH_CODE          = "42501"
	MISSING_TABLE_CODE = "42P01"
	CONNECTION_CODE    = "08006"
)

// FindCodeInPSQLException returns the postgres error code, if any
func FindCodeInPSQLException(sourceError error) string {
	var pgErr *pgconn.PgError
	var result string
	if errors.As(sourceError, &pgErr) {
		result = pgErr.Code
	}

	return result
}
