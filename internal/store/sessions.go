package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"pit-custody/internal/custody"
)

const sessionCols = `id, casino_id, table_id, status, fills_total_cents, credits_total_cents, opened_at, closed_at`

func scanSession(row pgx.Row) (*TableSession, error) {
	var s TableSession
	var status string
	if err := row.Scan(&s.ID, &s.CasinoID, &s.TableID, &status, &s.FillsTotalCents, &s.CreditsTotalCents, &s.OpenedAt, &s.ClosedAt); err != nil {
		return nil, mapPgError(err)
	}
	s.Status = custody.Status(status)
	return &s, nil
}

// CreateTableSession opens a new custody cycle. The partial unique
// index on live sessions turns a duplicate open into ErrConflict.
func (s *Store) CreateTableSession(ctx context.Context, casinoID, tableID string) (*TableSession, error) {
	id := NewID()
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO table_sessions (id, casino_id, table_id, status)
		VALUES ($1, $2, $3, 'open')
		RETURNING `+sessionCols, id, casinoID, tableID)
	return scanSession(row)
}

func (s *Store) GetTableSession(ctx context.Context, id string) (*TableSession, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+sessionCols+` FROM table_sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (s *Store) ListLiveSessions(ctx context.Context, casinoID string, limit, offset int) ([]TableSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT `+sessionCols+`
		FROM table_sessions
		WHERE casino_id = $1 AND status <> 'closed'
		ORDER BY opened_at ASC
		LIMIT $2 OFFSET $3`, casinoID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TableSession{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}

// lockSession takes the exclusive session row lock that serializes all
// mutators of one session aggregate.
func lockSession(ctx context.Context, tx pgx.Tx, sessionID string) (*TableSession, error) {
	row := tx.QueryRow(ctx, `SELECT `+sessionCols+` FROM table_sessions WHERE id = $1 FOR UPDATE`, sessionID)
	return scanSession(row)
}

// AdvanceSessionStatus applies a forward-only status move. Closed is
// unreachable here; CloseSessionWithReport owns that transition.
func (s *Store) AdvanceSessionStatus(ctx context.Context, sessionID string, target custody.Status) (*TableSession, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sess, err := lockSession(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if !custody.CanAdvance(sess.Status, target) {
		return nil, custody.ErrInvalidTransition
	}
	row := tx.QueryRow(ctx, `
		UPDATE table_sessions SET status = $1 WHERE id = $2
		RETURNING `+sessionCols, string(target), sessionID)
	updated, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return updated, nil
}

// CloseSessionInput carries everything the close-time rundown needs.
type CloseSessionInput struct {
	SessionID    string
	ClosingCents int64
	// DropCents overrides the drop figure; when nil the session's
	// posted drop events stand in, and when none exist the drop (and
	// therefore the win) stays unknown.
	DropCents *int64
	GamingDay time.Time
	ActorID   string
}

// CloseSessionWithReport moves the session to Closed and persists the
// final pre-finalization rundown in the same transaction. Either both
// commit or neither does; a session must never close without a report.
func (s *Store) CloseSessionWithReport(ctx context.Context, in CloseSessionInput) (*TableSession, *RundownReport, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	sess, err := lockSession(ctx, tx, in.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !custody.CanClose(sess.Status) {
		return nil, nil, custody.ErrInvalidTransition
	}

	drop := in.DropCents
	if drop == nil {
		drop, err = sumDropEvents(ctx, tx, in.SessionID)
		if err != nil {
			return nil, nil, err
		}
	}

	now := time.Now().UTC()
	row := tx.QueryRow(ctx, `
		UPDATE table_sessions SET status = 'closed', closed_at = $1 WHERE id = $2
		RETURNING `+sessionCols, now, in.SessionID)
	closed, err := scanSession(row)
	if err != nil {
		return nil, nil, err
	}

	closing := in.ClosingCents
	report, err := upsertReportLocked(ctx, tx, closed, reportValues{
		gamingDay:    in.GamingDay,
		closingCents: &closing,
		dropCents:    drop,
		computedBy:   in.ActorID,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, mapPgError(err)
	}
	return closed, report, nil
}

func sumDropEvents(ctx context.Context, tx pgx.Tx, sessionID string) (*int64, error) {
	var total *int64
	err := tx.QueryRow(ctx, `
		SELECT SUM(amount_cents) FROM monetary_events
		WHERE session_id = $1 AND kind = 'drop'`, sessionID).Scan(&total)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapPgError(err)
	}
	return total, nil
}

// SumSessionEvents recomputes a per-session total straight from the
// event history; the reconciliation invariant check in tests and
// audits compares it against the denormalized session field.
func (s *Store) SumSessionEvents(ctx context.Context, sessionID string, kind custody.EventKind) (int64, error) {
	var total int64
	err := s.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM monetary_events
		WHERE session_id = $1 AND kind = $2`, sessionID, string(kind)).Scan(&total)
	if err != nil {
		return 0, mapPgError(err)
	}
	return total, nil
}
