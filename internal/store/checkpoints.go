package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"pit-custody/internal/custody"
)

const checkpointCols = `id, casino_id, scope, gaming_day, window_start, window_end,
	sessions_opened, sessions_closed, fills_total_cents, credits_total_cents, drop_total_cents, reports_finalized,
	created_at, created_by`

func scanCheckpoint(row pgx.Row) (*ShiftCheckpoint, error) {
	var cp ShiftCheckpoint
	if err := row.Scan(&cp.ID, &cp.CasinoID, &cp.Scope, &cp.GamingDay, &cp.WindowStart, &cp.WindowEnd,
		&cp.Metrics.SessionsOpened, &cp.Metrics.SessionsClosed, &cp.Metrics.FillsTotalCents,
		&cp.Metrics.CreditsTotalCents, &cp.Metrics.DropTotalCents, &cp.Metrics.ReportsFinalized,
		&cp.CreatedAt, &cp.CreatedBy); err != nil {
		return nil, mapPgError(err)
	}
	return &cp, nil
}

// InsertShiftCheckpoint appends one immutable snapshot row. There is
// no update path anywhere in the code for this table.
func (s *Store) InsertShiftCheckpoint(ctx context.Context, cp ShiftCheckpoint) (*ShiftCheckpoint, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO shift_checkpoints (
			id, casino_id, scope, gaming_day, window_start, window_end,
			sessions_opened, sessions_closed, fills_total_cents, credits_total_cents, drop_total_cents, reports_finalized,
			created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+checkpointCols,
		NewID(), cp.CasinoID, cp.Scope, cp.GamingDay, cp.WindowStart, cp.WindowEnd,
		cp.Metrics.SessionsOpened, cp.Metrics.SessionsClosed, cp.Metrics.FillsTotalCents,
		cp.Metrics.CreditsTotalCents, cp.Metrics.DropTotalCents, cp.Metrics.ReportsFinalized,
		cp.CreatedBy)
	return scanCheckpoint(row)
}

func (s *Store) GetShiftCheckpoint(ctx context.Context, id string) (*ShiftCheckpoint, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+checkpointCols+` FROM shift_checkpoints WHERE id = $1`, id)
	return scanCheckpoint(row)
}

// LatestCheckpoints returns up to n checkpoints for a scope, newest
// first. Two rows are enough for a delta; the handler may ask for more
// for listing.
func (s *Store) LatestCheckpoints(ctx context.Context, casinoID, scope string, n int) ([]ShiftCheckpoint, error) {
	if n <= 0 {
		n = 2
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT `+checkpointCols+`
		FROM shift_checkpoints
		WHERE casino_id = $1 AND scope = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`, casinoID, scope, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ShiftCheckpoint{}
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cp)
	}
	return out, rows.Err()
}

// AggregateMetrics computes the fixed checkpoint counter set for a
// casino over [start, end]. It reads only committed history, so two
// runs over the same bounds with unchanged history produce identical
// results; that determinism is what makes stored checkpoints auditable
// by replay rather than trusted on faith.
func (s *Store) AggregateMetrics(ctx context.Context, casinoID string, start, end time.Time) (custody.Metrics, error) {
	var m custody.Metrics
	err := s.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM table_sessions
				WHERE casino_id = $1 AND opened_at >= $2 AND opened_at <= $3),
			(SELECT COUNT(*) FROM table_sessions
				WHERE casino_id = $1 AND closed_at IS NOT NULL AND closed_at >= $2 AND closed_at <= $3),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM monetary_events
				WHERE casino_id = $1 AND kind = 'fill' AND created_at >= $2 AND created_at <= $3),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM monetary_events
				WHERE casino_id = $1 AND kind = 'credit' AND created_at >= $2 AND created_at <= $3),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM monetary_events
				WHERE casino_id = $1 AND kind = 'drop' AND created_at >= $2 AND created_at <= $3),
			(SELECT COUNT(*) FROM rundown_reports
				WHERE casino_id = $1 AND finalized_at IS NOT NULL AND finalized_at >= $2 AND finalized_at <= $3)`,
		casinoID, start, end).Scan(
		&m.SessionsOpened, &m.SessionsClosed, &m.FillsTotalCents,
		&m.CreditsTotalCents, &m.DropTotalCents, &m.ReportsFinalized)
	if err != nil {
		return custody.Metrics{}, mapPgError(err)
	}
	return m, nil
}
