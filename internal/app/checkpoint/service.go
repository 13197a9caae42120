// Package checkpoint takes shift snapshots of the custody counters and
// answers the two questions asked of them later: what changed between
// the last two snapshots, and does a stored snapshot still match the
// history it claims to summarize.
package checkpoint

import (
	"context"
	"time"

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

type CaptureInput struct {
	CasinoID string `json:"casino_id"`
	// WindowStart defaults to the start of the current gaming day.
	WindowStart *time.Time `json:"window_start,omitempty"`
}

// Capture aggregates the counters over [windowStart, now] and stores
// them as an immutable checkpoint row. The window end comes from the
// database clock, the same clock that stamps event rows, so an event
// recorded after the capture can never fall inside the stored window.
func (s *Service) Capture(ctx context.Context, actor authz.Actor, in CaptureInput) (*store.ShiftCheckpoint, error) {
	if err := s.policy.Require(authz.OpCaptureCheckpoint, actor); err != nil {
		return nil, err
	}
	if in.CasinoID == "" {
		return nil, custody.ErrInvalidRequest
	}
	now, err := s.store.Now(ctx)
	if err != nil {
		return nil, err
	}
	start := s.days.WindowStart(in.CasinoID, now)
	if in.WindowStart != nil {
		start = in.WindowStart.UTC()
	}
	if start.After(now) {
		return nil, custody.ErrInvalidRequest
	}

	metrics, err := s.store.AggregateMetrics(ctx, in.CasinoID, start, now)
	if err != nil {
		return nil, err
	}
	return s.store.InsertShiftCheckpoint(ctx, store.ShiftCheckpoint{
		CasinoID:    in.CasinoID,
		Scope:       store.ScopeCasino,
		GamingDay:   s.days.Day(in.CasinoID, now),
		WindowStart: start,
		WindowEnd:   now,
		Metrics:     metrics,
		CreatedBy:   actor.ID,
	})
}

// DeltaResult pairs the two checkpoints a delta was taken between.
// Delta is nil when fewer than two checkpoints exist; there is no
// baseline, so the difference is undefined rather than zero.
type DeltaResult struct {
	Delta    *custody.Metrics       `json:"delta,omitempty"`
	Latest   *store.ShiftCheckpoint `json:"latest,omitempty"`
	Previous *store.ShiftCheckpoint `json:"previous,omitempty"`
}

func (s *Service) Delta(ctx context.Context, casinoID string) (*DeltaResult, error) {
	if casinoID == "" {
		return nil, custody.ErrInvalidRequest
	}
	cps, err := s.store.LatestCheckpoints(ctx, casinoID, store.ScopeCasino, 2)
	if err != nil {
		return nil, err
	}
	out := &DeltaResult{}
	if len(cps) >= 1 {
		out.Latest = &cps[0]
	}
	if len(cps) < 2 {
		return out, nil
	}
	out.Previous = &cps[1]
	d := cps[0].Metrics.Sub(cps[1].Metrics)
	out.Delta = &d
	return out, nil
}

// ReplayResult compares a stored checkpoint with a fresh aggregation
// over the same window. Aggregation only reads committed history, so a
// mismatch means the stored row is wrong, not that the answer moved.
type ReplayResult struct {
	Checkpoint *store.ShiftCheckpoint `json:"checkpoint"`
	Recomputed custody.Metrics        `json:"recomputed"`
	Match      bool                   `json:"match"`
}

func (s *Service) Replay(ctx context.Context, checkpointID string) (*ReplayResult, error) {
	if checkpointID == "" {
		return nil, custody.ErrInvalidRequest
	}
	cp, err := s.store.GetShiftCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, err
	}
	metrics, err := s.store.AggregateMetrics(ctx, cp.CasinoID, cp.WindowStart, cp.WindowEnd)
	if err != nil {
		return nil, err
	}
	return &ReplayResult{Checkpoint: cp, Recomputed: metrics, Match: metrics == cp.Metrics}, nil
}

// ReplayWindow recomputes the counter set over caller-supplied bounds.
// It answers for windows no stored checkpoint covers, and for auditing
// a checkpoint row whose own recorded bounds or figures are suspect.
func (s *Service) ReplayWindow(ctx context.Context, casinoID string, start, end time.Time) (custody.Metrics, error) {
	if casinoID == "" || start.After(end) {
		return custody.Metrics{}, custody.ErrInvalidRequest
	}
	return s.store.AggregateMetrics(ctx, casinoID, start, end)
}

func (s *Service) List(ctx context.Context, casinoID string, n int) ([]store.ShiftCheckpoint, error) {
	if casinoID == "" {
		return nil, custody.ErrInvalidRequest
	}
	return s.store.LatestCheckpoints(ctx, casinoID, store.ScopeCasino, n)
}
