package dbx

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

const (
	retryBaseDelay  = 100 * time.Millisecond
	retryMaxRetries = 3
)

// IsTransient reports whether err looks like a connectivity failure that may
// succeed on a retry: network errors, dropped connections, or a Postgres
// connection-exception SQLSTATE (class 08). Definite outcomes such as
// constraint violations or missing rows are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08"
	}
	return pgconn.Timeout(err)
}

// WithRetry runs fn, retrying with exponential backoff while fn returns a
// transient error. Non-transient errors abort immediately. The attempt budget
// is fixed and small: storage outages longer than a request is worth waiting
// for surface to the caller as the last error observed.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryMaxRetries, retry.NewExponential(retryBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
