package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pit-custody/internal/custody"
)

// Store wraps DB access. All custody mutations run inside store-owned
// transactions that take the session row lock first, so concurrent
// writers on one session serialize and writers on different sessions
// never block each other.
type Store struct {
	Pool *pgxpool.Pool

	// LockWait bounds how long a transaction queues for a row lock
	// before failing with a retryable contention error.
	LockWait time.Duration
}

func New(dsn string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool, LockWait: 3 * time.Second}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Now reads the database clock. Checkpoint windows are bounded with
// it so window ends compare against event timestamps from the same
// clock; the app host's clock never enters the window math.
func (s *Store) Now(ctx context.Context) (time.Time, error) {
	var t time.Time
	if err := s.Pool.QueryRow(ctx, `SELECT now()`).Scan(&t); err != nil {
		return time.Time{}, mapPgError(err)
	}
	return t.UTC(), nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

// begin opens a transaction with lock_timeout applied, so FOR UPDATE
// waits are bounded.
func (s *Store) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	wait := s.LockWait
	if wait <= 0 {
		wait = 3 * time.Second
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", wait.Milliseconds())); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	return tx, nil
}

const (
	pgCodeUniqueViolation = "23505"
	pgCodeLockNotAvail    = "55P03"
)

// mapPgError translates storage-layer failures into the custody error
// taxonomy so no raw Postgres error text crosses the service boundary.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return custody.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return custody.ErrConflict
		case pgCodeLockNotAvail:
			return custody.ErrContention
		}
	}
	return err
}
