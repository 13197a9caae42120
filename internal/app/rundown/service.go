// Package rundown persists and seals the end-of-session accounting
// report. Persist may run any number of times before the seal; after
// Finalize the report is read-only forever.
package rundown

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"pit-custody/internal/authz"
	"pit-custody/internal/custody"
	"pit-custody/internal/gamingday"
	"pit-custody/internal/store"
)

type Service struct {
	store  *store.Store
	policy authz.Policy
	days   *gamingday.Resolver
}

func NewService(st *store.Store, policy authz.Policy, days *gamingday.Resolver) *Service {
	return &Service{store: st, policy: policy, days: days}
}

type PersistInput struct {
	SessionID    string `json:"session_id"`
	OpeningCents *int64 `json:"opening_cents,omitempty"`
	ClosingCents *int64 `json:"closing_cents,omitempty"`
	DropCents    *int64 `json:"drop_cents,omitempty"`
}

func (s *Service) Persist(ctx context.Context, actor authz.Actor, in PersistInput) (*store.RundownReport, error) {
	if err := s.policy.Require(authz.OpPersistRundown, actor); err != nil {
		return nil, err
	}
	if in.SessionID == "" {
		return nil, custody.ErrInvalidRequest
	}
	for _, v := range []*int64{in.OpeningCents, in.ClosingCents, in.DropCents} {
		if v != nil && *v < 0 {
			return nil, custody.ErrInvalidRequest
		}
	}
	sess, err := s.store.GetTableSession(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	return s.store.UpsertRundownReport(ctx, store.UpsertReportInput{
		SessionID:    in.SessionID,
		OpeningCents: in.OpeningCents,
		ClosingCents: in.ClosingCents,
		DropCents:    in.DropCents,
		GamingDay:    s.days.Day(sess.CasinoID, time.Now()),
		ComputedBy:   actor.ID,
	})
}

func (s *Service) Finalize(ctx context.Context, actor authz.Actor, reportID string) (*store.RundownReport, error) {
	if err := s.policy.Require(authz.OpFinalizeRundown, actor); err != nil {
		return nil, err
	}
	if reportID == "" {
		return nil, custody.ErrInvalidRequest
	}
	sealed, err := s.store.FinalizeReport(ctx, reportID, actor.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("report_id", sealed.ID).Str("session_id", sealed.SessionID).
		Str("actor_id", actor.ID).Msg("rundown report finalized")
	return sealed, nil
}

func (s *Service) Get(ctx context.Context, reportID string) (*store.RundownReport, error) {
	if reportID == "" {
		return nil, custody.ErrInvalidRequest
	}
	return s.store.GetRundownReport(ctx, reportID)
}

func (s *Service) GetBySession(ctx context.Context, sessionID string) (*store.RundownReport, error) {
	if sessionID == "" {
		return nil, custody.ErrInvalidRequest
	}
	return s.store.GetRundownReportBySession(ctx, sessionID)
}
