package store

import (
	"time"

	"pit-custody/internal/custody"
)

type TableSession struct {
	ID                string          `json:"id"`
	CasinoID          string          `json:"casino_id"`
	TableID           string          `json:"table_id"`
	Status            custody.Status  `json:"status"`
	FillsTotalCents   int64           `json:"fills_total_cents"`
	CreditsTotalCents int64           `json:"credits_total_cents"`
	OpenedAt          time.Time       `json:"opened_at"`
	ClosedAt          *time.Time      `json:"closed_at,omitempty"`
}

type MonetaryEvent struct {
	ID          string            `json:"id"`
	CasinoID    string            `json:"casino_id"`
	TableID     string            `json:"table_id"`
	SessionID   *string           `json:"session_id,omitempty"`
	Kind        custody.EventKind `json:"kind"`
	AmountCents int64             `json:"amount_cents"`
	RecordedBy  string            `json:"recorded_by"`
	CreatedAt   time.Time         `json:"created_at"`
}

type RundownReport struct {
	ID                  string                `json:"id"`
	SessionID           string                `json:"session_id"`
	CasinoID            string                `json:"casino_id"`
	GamingDay           time.Time             `json:"gaming_day"`
	OpeningBalanceCents int64                 `json:"opening_balance_cents"`
	ClosingBalanceCents *int64                `json:"closing_balance_cents,omitempty"`
	FillsTotalCents     int64                 `json:"fills_total_cents"`
	CreditsTotalCents   int64                 `json:"credits_total_cents"`
	DropTotalCents      *int64                `json:"drop_total_cents,omitempty"`
	WinCents            *int64                `json:"win_cents,omitempty"`
	OpeningSource       custody.OpeningSource `json:"opening_source"`
	ComputationGrade    custody.Grade         `json:"computation_grade"`
	ComputedAt          time.Time             `json:"computed_at"`
	ComputedBy          string                `json:"computed_by"`
	FinalizedAt         *time.Time            `json:"finalized_at,omitempty"`
	FinalizedBy         *string               `json:"finalized_by,omitempty"`
	HasLateEvents       bool                  `json:"has_late_events"`
}

func (r *RundownReport) Finalized() bool {
	return r != nil && r.FinalizedAt != nil
}

type ShiftCheckpoint struct {
	ID          string          `json:"id"`
	CasinoID    string          `json:"casino_id"`
	Scope       string          `json:"scope"`
	GamingDay   time.Time       `json:"gaming_day"`
	WindowStart time.Time       `json:"window_start"`
	WindowEnd   time.Time       `json:"window_end"`
	Metrics     custody.Metrics `json:"metrics"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}

type AuditRecord struct {
	ID        string    `json:"id"`
	CasinoID  string    `json:"casino_id"`
	Kind      string    `json:"kind"`
	RefType   string    `json:"ref_type"`
	RefID     string    `json:"ref_id"`
	ActorID   string    `json:"actor_id"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// ScopeCasino is the only checkpoint scope in play today.
const ScopeCasino = "casino"

// Audit kinds written by the custody core.
const (
	AuditLateEvent   = "late_event_after_finalization"
	AuditReportFinal = "report_finalized"
	AuditCloseFailed = "close_failed"

	RefTypeSession = "session"
	RefTypeReport  = "report"
)
