package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"pit-custody/internal/custody"
)

const reportCols = `id, session_id, casino_id, gaming_day, opening_balance_cents, closing_balance_cents,
	fills_total_cents, credits_total_cents, drop_total_cents, win_cents, opening_source, computation_grade,
	computed_at, computed_by, finalized_at, finalized_by, has_late_events`

func scanReport(row pgx.Row) (*RundownReport, error) {
	var r RundownReport
	var src, grade string
	if err := row.Scan(&r.ID, &r.SessionID, &r.CasinoID, &r.GamingDay, &r.OpeningBalanceCents, &r.ClosingBalanceCents,
		&r.FillsTotalCents, &r.CreditsTotalCents, &r.DropTotalCents, &r.WinCents, &src, &grade,
		&r.ComputedAt, &r.ComputedBy, &r.FinalizedAt, &r.FinalizedBy, &r.HasLateEvents); err != nil {
		return nil, mapPgError(err)
	}
	r.OpeningSource = custody.OpeningSource(src)
	r.ComputationGrade = custody.Grade(grade)
	return &r, nil
}

func (s *Store) GetRundownReport(ctx context.Context, reportID string) (*RundownReport, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+reportCols+` FROM rundown_reports WHERE id = $1`, reportID)
	return scanReport(row)
}

func (s *Store) GetRundownReportBySession(ctx context.Context, sessionID string) (*RundownReport, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+reportCols+` FROM rundown_reports WHERE session_id = $1`, sessionID)
	return scanReport(row)
}

type reportValues struct {
	gamingDay    time.Time
	openingCents *int64
	closingCents *int64
	dropCents    *int64
	computedBy   string
}

// upsertReportLocked writes the rundown for a session whose row lock
// the caller already holds. The first call inserts; later calls
// overwrite every financial field with the latest inputs. Opening
// provenance is recomputed on each call: an explicit figure wins, else
// the previously persisted opening carries forward, else zero.
func upsertReportLocked(ctx context.Context, tx pgx.Tx, sess *TableSession, vals reportValues) (*RundownReport, error) {
	existing, err := scanReport(tx.QueryRow(ctx, `SELECT `+reportCols+` FROM rundown_reports WHERE session_id = $1 FOR UPDATE`, sess.ID))
	if err != nil && !errors.Is(err, custody.ErrNotFound) {
		return nil, err
	}
	if existing.Finalized() {
		return nil, custody.ErrAlreadyFinalized
	}

	opening := int64(0)
	source := custody.OpeningAssumedZero
	switch {
	case vals.openingCents != nil:
		opening = *vals.openingCents
		source = custody.OpeningExplicit
	case existing != nil:
		opening = existing.OpeningBalanceCents
		source = custody.OpeningCarried
	}
	grade := custody.GradeFor(source)
	win := custody.Win(opening, vals.closingCents, sess.FillsTotalCents, sess.CreditsTotalCents, vals.dropCents)
	now := time.Now().UTC()

	if existing == nil {
		row := tx.QueryRow(ctx, `
			INSERT INTO rundown_reports (
				id, session_id, casino_id, gaming_day, opening_balance_cents, closing_balance_cents,
				fills_total_cents, credits_total_cents, drop_total_cents, win_cents,
				opening_source, computation_grade, computed_at, computed_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING `+reportCols,
			NewID(), sess.ID, sess.CasinoID, vals.gamingDay, opening, vals.closingCents,
			sess.FillsTotalCents, sess.CreditsTotalCents, vals.dropCents, win,
			string(source), string(grade), now, vals.computedBy)
		return scanReport(row)
	}

	row := tx.QueryRow(ctx, `
		UPDATE rundown_reports SET
			gaming_day = $1, opening_balance_cents = $2, closing_balance_cents = $3,
			fills_total_cents = $4, credits_total_cents = $5, drop_total_cents = $6, win_cents = $7,
			opening_source = $8, computation_grade = $9, computed_at = $10, computed_by = $11
		WHERE session_id = $12
		RETURNING `+reportCols,
		vals.gamingDay, opening, vals.closingCents,
		sess.FillsTotalCents, sess.CreditsTotalCents, vals.dropCents, win,
		string(source), string(grade), now, vals.computedBy, sess.ID)
	return scanReport(row)
}

// UpsertReportInput is the persistRundown payload.
type UpsertReportInput struct {
	SessionID    string
	OpeningCents *int64
	ClosingCents *int64
	DropCents    *int64
	GamingDay    time.Time
	ComputedBy   string
}

// UpsertRundownReport persists (or re-persists) the rundown for a
// still-unfinalized report. The session lock is taken first so a
// persist racing a finalize either lands before the seal or is
// rejected by it, never in between.
func (s *Store) UpsertRundownReport(ctx context.Context, in UpsertReportInput) (*RundownReport, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sess, err := lockSession(ctx, tx, in.SessionID)
	if err != nil {
		return nil, err
	}
	report, err := upsertReportLocked(ctx, tx, sess, reportValues{
		gamingDay:    in.GamingDay,
		openingCents: in.OpeningCents,
		closingCents: in.ClosingCents,
		dropCents:    in.DropCents,
		computedBy:   in.ComputedBy,
	})
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return report, nil
}

// FinalizeReport seals a report. Finalize is idempotent only for error
// detection: a second call fails with ErrAlreadyFinalized rather than
// silently succeeding, because the caller's view of state is stale.
func (s *Store) FinalizeReport(ctx context.Context, reportID, actorID string) (*RundownReport, error) {
	var sessionID string
	if err := s.Pool.QueryRow(ctx, `SELECT session_id FROM rundown_reports WHERE id = $1`, reportID).Scan(&sessionID); err != nil {
		return nil, mapPgError(err)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sess, err := lockSession(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	report, err := scanReport(tx.QueryRow(ctx, `SELECT `+reportCols+` FROM rundown_reports WHERE id = $1 FOR UPDATE`, reportID))
	if err != nil {
		return nil, err
	}
	if report.Finalized() {
		return nil, custody.ErrAlreadyFinalized
	}
	if sess.Status != custody.StatusClosed {
		return nil, custody.ErrSessionNotClosed
	}

	now := time.Now().UTC()
	row := tx.QueryRow(ctx, `
		UPDATE rundown_reports SET finalized_at = $1, finalized_by = $2 WHERE id = $3
		RETURNING `+reportCols, now, actorID, reportID)
	sealed, err := scanReport(row)
	if err != nil {
		return nil, err
	}
	if err := insertAuditTx(ctx, tx, AuditRecord{
		CasinoID: sealed.CasinoID,
		Kind:     AuditReportFinal,
		RefType:  RefTypeReport,
		RefID:    sealed.ID,
		ActorID:  actorID,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return sealed, nil
}
