package dbx

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Repositories use it to map duplicate inserts onto the
// already-exists sentinel instead of a generic storage error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

var pgTypeMap = pgtype.NewMap()

// TextArray returns a sql.Scanner that reads a PostgreSQL text[] column into
// dst. The pgx stdlib driver hands text[] values to database/sql as their wire
// text form ("{a,b}"), which plain Scan cannot decode into a []string.
func TextArray(dst *[]string) sql.Scanner {
	return pgTypeMap.SQLScanner(dst)
}
