package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pit-custody/internal/custody"
)

// ApplyEventInput describes one validated monetary event. A nil
// SessionID is legitimate: money can move while no session is open and
// the event is kept for the books without touching any totals.
type ApplyEventInput struct {
	CasinoID    string
	TableID     string
	SessionID   *string
	Kind        custody.EventKind
	AmountCents int64
	RecordedBy  string
}

// ApplyEventResult reports what the event did. Session is nil for
// unattached events; Late is set when the event landed on a session
// whose report was already sealed.
type ApplyEventResult struct {
	Event   *MonetaryEvent
	Session *TableSession
	Late    bool
}

const eventCols = `id, casino_id, table_id, session_id, kind, amount_cents, recorded_by, created_at`

// ApplyMonetaryEvent records the event and, for fills and credits,
// increments the session total under the session row lock so two
// concurrent fills can never both read the pre-increment value. When
// the session's report is already finalized the running total still
// moves (downstream audit needs it) but the frozen report is only
// flagged, never recomputed.
func (s *Store) ApplyMonetaryEvent(ctx context.Context, in ApplyEventInput) (*ApplyEventResult, error) {
	if in.SessionID == nil {
		ev, err := s.insertEvent(ctx, in)
		if err != nil {
			return nil, err
		}
		return &ApplyEventResult{Event: ev}, nil
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sess, err := lockSession(ctx, tx, *in.SessionID)
	if err != nil {
		return nil, err
	}

	var ev MonetaryEvent
	row := tx.QueryRow(ctx, `
		INSERT INTO monetary_events (id, casino_id, table_id, session_id, kind, amount_cents, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+eventCols,
		NewID(), sess.CasinoID, sess.TableID, sess.ID, string(in.Kind), in.AmountCents, in.RecordedBy)
	if err := scanEvent(row.Scan, &ev); err != nil {
		return nil, err
	}

	var column string
	switch in.Kind {
	case custody.EventFill:
		column = "fills_total_cents"
	case custody.EventCredit:
		column = "credits_total_cents"
	}
	if column != "" {
		srow := tx.QueryRow(ctx, `
			UPDATE table_sessions SET `+column+` = `+column+` + $1 WHERE id = $2
			RETURNING `+sessionCols, in.AmountCents, sess.ID)
		sess, err = scanSession(srow)
		if err != nil {
			return nil, err
		}
	}

	late, err := flagLateEventLocked(ctx, tx, &ev, in.RecordedBy)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapPgError(err)
	}
	return &ApplyEventResult{Event: &ev, Session: sess, Late: late}, nil
}

// flagLateEventLocked checks for a sealed report on the event's
// session and, if present, flips has_late_events (false to true only)
// and leaves an audit trail. The report's financial fields stay
// frozen.
func flagLateEventLocked(ctx context.Context, tx pgx.Tx, ev *MonetaryEvent, actorID string) (bool, error) {
	report, err := scanReport(tx.QueryRow(ctx, `SELECT `+reportCols+` FROM rundown_reports WHERE session_id = $1 FOR UPDATE`, *ev.SessionID))
	if err != nil {
		if errors.Is(err, custody.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !report.Finalized() {
		return false, nil
	}
	if _, err := tx.Exec(ctx, `UPDATE rundown_reports SET has_late_events = true WHERE id = $1`, report.ID); err != nil {
		return false, mapPgError(err)
	}
	if err := insertAuditTx(ctx, tx, AuditRecord{
		CasinoID: ev.CasinoID,
		Kind:     AuditLateEvent,
		RefType:  RefTypeReport,
		RefID:    report.ID,
		ActorID:  actorID,
		Detail:   string(ev.Kind) + " " + ev.ID,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) insertEvent(ctx context.Context, in ApplyEventInput) (*MonetaryEvent, error) {
	var ev MonetaryEvent
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO monetary_events (id, casino_id, table_id, session_id, kind, amount_cents, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+eventCols,
		NewID(), in.CasinoID, in.TableID, in.SessionID, string(in.Kind), in.AmountCents, in.RecordedBy)
	if err := scanEvent(row.Scan, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func scanEvent(scan func(...any) error, ev *MonetaryEvent) error {
	var kind string
	if err := scan(&ev.ID, &ev.CasinoID, &ev.TableID, &ev.SessionID, &kind, &ev.AmountCents, &ev.RecordedBy, &ev.CreatedAt); err != nil {
		return mapPgError(err)
	}
	ev.Kind = custody.EventKind(kind)
	return nil
}
