// Package totals records fills, credits, and drops against live (and,
// exceptionally, closed) sessions. Fills and credits move the
// session's running totals; drops are evidence for the rundown and
// touch nothing until close.
package totals

import (
	"context"

	"github.com/rs/zerolog/log"

	"pit-custody/internal/authz"
	"pit-custody/internal/custody"
	"pit-custody/internal/store"
)

type Service struct {
	store  *store.Store
	policy authz.Policy
}

func NewService(st *store.Store, policy authz.Policy) *Service {
	return &Service{store: st, policy: policy}
}

type EventInput struct {
	CasinoID    string  `json:"casino_id,omitempty"`
	TableID     string  `json:"table_id,omitempty"`
	SessionID   *string `json:"session_id,omitempty"`
	AmountCents int64   `json:"amount_cents"`
}

func (s *Service) ApplyFill(ctx context.Context, actor authz.Actor, in EventInput) (*store.ApplyEventResult, error) {
	return s.apply(ctx, actor, authz.OpApplyFill, custody.EventFill, in)
}

func (s *Service) ApplyCredit(ctx context.Context, actor authz.Actor, in EventInput) (*store.ApplyEventResult, error) {
	return s.apply(ctx, actor, authz.OpApplyCredit, custody.EventCredit, in)
}

func (s *Service) PostDrop(ctx context.Context, actor authz.Actor, in EventInput) (*store.ApplyEventResult, error) {
	return s.apply(ctx, actor, authz.OpPostDrop, custody.EventDrop, in)
}

func (s *Service) apply(ctx context.Context, actor authz.Actor, op authz.Operation, kind custody.EventKind, in EventInput) (*store.ApplyEventResult, error) {
	if err := s.policy.Require(op, actor); err != nil {
		return nil, err
	}
	if in.AmountCents <= 0 {
		return nil, custody.ErrInvalidRequest
	}
	if in.SessionID == nil && (in.CasinoID == "" || in.TableID == "") {
		return nil, custody.ErrInvalidRequest
	}

	res, err := s.store.ApplyMonetaryEvent(ctx, store.ApplyEventInput{
		CasinoID:    in.CasinoID,
		TableID:     in.TableID,
		SessionID:   in.SessionID,
		Kind:        kind,
		AmountCents: in.AmountCents,
		RecordedBy:  actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if res.Late {
		log.Warn().Str("event_id", res.Event.ID).Str("session_id", *in.SessionID).
			Str("kind", string(kind)).Int64("amount_cents", in.AmountCents).
			Msg("monetary event landed after report finalization")
	}
	return res, nil
}
