package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// storageMessage gives a more precise message for the postgres errors a caller
// can act on. The error stays an infrastructure error either way.
func storageMessage(err error, fallback string) string {
	if isForeignKeyError(err, "doctor") {
		return "doctor does not exist"
	}
	if isForeignKeyError(err, "patient") {
		return "patient does not exist"
	}
	return fallback
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
