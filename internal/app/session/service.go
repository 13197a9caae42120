// Package session runs the table-session lifecycle: open, advance,
// and the close that atomically produces the rundown report.
package session

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

type OpenInput struct {
	CasinoID string `json:"casino_id"`
	TableID  string `json:"table_id"`
}

func (s *Service) Open(ctx context.Context, actor authz.Actor, in OpenInput) (*store.TableSession, error) {
	if err := s.policy.Require(authz.OpOpenSession, actor); err != nil {
		return nil, err
	}
	if in.CasinoID == "" || in.TableID == "" {
		return nil, custody.ErrInvalidRequest
	}
	sess, err := s.store.CreateTableSession(ctx, in.CasinoID, in.TableID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", sess.ID).Str("casino_id", sess.CasinoID).
		Str("table_id", sess.TableID).Str("actor_id", actor.ID).Msg("session opened")
	return sess, nil
}

func (s *Service) Advance(ctx context.Context, actor authz.Actor, sessionID string, target custody.Status) (*store.TableSession, error) {
	if err := s.policy.Require(authz.OpAdvanceSession, actor); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, custody.ErrInvalidRequest
	}
	return s.store.AdvanceSessionStatus(ctx, sessionID, target)
}

type CloseInput struct {
	SessionID    string `json:"session_id"`
	ClosingCents int64  `json:"closing_cents"`
	DropCents    *int64 `json:"drop_cents,omitempty"`
}

// Close moves the session to its terminal status and persists the
// close-time rundown in one transaction. A failure past validation
// still leaves a trace: the close_failed audit record is written on a
// detached context so the aborted close cannot roll it back.
func (s *Service) Close(ctx context.Context, actor authz.Actor, in CloseInput) (*store.TableSession, *store.RundownReport, error) {
	if err := s.policy.Require(authz.OpCloseSession, actor); err != nil {
		return nil, nil, err
	}
	if in.SessionID == "" || in.ClosingCents < 0 {
		return nil, nil, custody.ErrInvalidRequest
	}
	if in.DropCents != nil && *in.DropCents < 0 {
		return nil, nil, custody.ErrInvalidRequest
	}
	sess, err := s.store.GetTableSession(ctx, in.SessionID)
	if err != nil {
		return nil, nil, err
	}

	closed, report, err := s.store.CloseSessionWithReport(ctx, store.CloseSessionInput{
		SessionID:    in.SessionID,
		ClosingCents: in.ClosingCents,
		DropCents:    in.DropCents,
		GamingDay:    s.days.Day(sess.CasinoID, time.Now()),
		ActorID:      actor.ID,
	})
	if err != nil {
		s.recordCloseFailure(ctx, sess, actor, err)
		return nil, nil, err
	}
	log.Info().Str("session_id", closed.ID).Str("report_id", report.ID).
		Str("actor_id", actor.ID).Msg("session closed")
	return closed, report, nil
}

func (s *Service) recordCloseFailure(ctx context.Context, sess *store.TableSession, actor authz.Actor, cause error) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	rec := store.AuditRecord{
		CasinoID: sess.CasinoID,
		Kind:     store.AuditCloseFailed,
		RefType:  store.RefTypeSession,
		RefID:    sess.ID,
		ActorID:  actor.ID,
		Detail:   cause.Error(),
	}
	if err := s.store.InsertAuditRecord(bg, rec); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to record close failure")
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*store.TableSession, error) {
	if sessionID == "" {
		return nil, custody.ErrInvalidRequest
	}
	return s.store.GetTableSession(ctx, sessionID)
}

func (s *Service) ListLive(ctx context.Context, casinoID string, limit, offset int) ([]store.TableSession, error) {
	if casinoID == "" {
		return nil, custody.ErrInvalidRequest
	}
	return s.store.ListLiveSessions(ctx, casinoID, limit, offset)
}
