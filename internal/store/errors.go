package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/backoffice/internal/core"
)

// Postgres error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// mapError translates driver errors into core sentinels so callers can
// match them with errors.Is. The original text is kept for logging.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", core.ErrDuplicate, pgErr.ConstraintName, pgErr.Detail)
		case codeForeignKeyViolation:
			return fmt.Errorf("foreign key %s: %w", pgErr.ConstraintName, err)
		}
	}
	return err
}
