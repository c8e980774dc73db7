package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation in the postgres error code table.
const pgUniqueViolation = "23505"

// MapError folds driver errors into the caller's domain sentinels:
// sql.ErrNoRows becomes notFoundErr, a postgres unique violation becomes
// duplicateErr, everything else passes through for the handler's 500
// path.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return duplicateErr
	}

	return err
}
