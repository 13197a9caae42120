package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// InsertAuditRecord appends to the audit sink in its own transaction.
// The close path relies on this running independently: a failed close
// records its failure here and the primary transaction's abort cannot
// take the record down with it.
func (s *Store) InsertAuditRecord(ctx context.Context, rec AuditRecord) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO audit_records (id, casino_id, kind, ref_type, ref_id, actor_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		NewID(), rec.CasinoID, rec.Kind, rec.RefType, rec.RefID, rec.ActorID, rec.Detail)
	return mapPgError(err)
}

func insertAuditTx(ctx context.Context, tx pgx.Tx, rec AuditRecord) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO audit_records (id, casino_id, kind, ref_type, ref_id, actor_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		NewID(), rec.CasinoID, rec.Kind, rec.RefType, rec.RefID, rec.ActorID, rec.Detail)
	return mapPgError(err)
}

func (s *Store) ListAuditRecords(ctx context.Context, casinoID, kind string, limit, offset int) ([]AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, casino_id, kind, ref_type, ref_id, actor_id, detail, created_at
		FROM audit_records
		WHERE casino_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, casinoID, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AuditRecord{}
	for rows.Next() {
		var rec AuditRecord
		if err := rows.Scan(&rec.ID, &rec.CasinoID, &rec.Kind, &rec.RefType, &rec.RefID, &rec.ActorID, &rec.Detail, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
