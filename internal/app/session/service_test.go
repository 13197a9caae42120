package session

import (
	"context"
	"errors"
	"testing"

	"pit-custody/internal/authz"
	"pit-custody/internal/custody"
	"pit-custody/internal/gamingday"
	"pit-custody/internal/store"
	"pit-custody/internal/testutil"
)

func newTestService(st *store.Store) *Service {
	return NewService(st, authz.DefaultPolicy(), gamingday.NewResolver(gamingday.Config{}))
}

var (
	clerk      = authz.Actor{ID: "clerk-1", Role: authz.RolePitClerk}
	boss       = authz.Actor{ID: "boss-1", Role: authz.RolePitBoss}
	auditor    = authz.Actor{ID: "aud-1", Role: authz.RoleAuditor}
	supervisor = authz.Actor{ID: "super-1", Role: authz.RoleShiftSupervisor}
)

func TestOpenPolicyAndValidation(t *testing.T) {
	// Every rejection below happens before the store is touched.
	svc := newTestService(nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   authz.Actor
		in      OpenInput
		wantErr error
	}{
		{name: "auditor forbidden", actor: auditor, in: OpenInput{CasinoID: "c1", TableID: "t1"}, wantErr: custody.ErrForbidden},
		{name: "anonymous forbidden", actor: authz.Actor{}, in: OpenInput{CasinoID: "c1", TableID: "t1"}, wantErr: custody.ErrForbidden},
		{name: "missing casino", actor: clerk, in: OpenInput{TableID: "t1"}, wantErr: custody.ErrInvalidRequest},
		{name: "missing table", actor: clerk, in: OpenInput{CasinoID: "c1"}, wantErr: custody.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Open(ctx, tt.actor, tt.in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClosePolicyAndValidation(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if _, _, err := svc.Close(ctx, clerk, CloseInput{SessionID: "s1", ClosingCents: 100}); !errors.Is(err, custody.ErrForbidden) {
		t.Fatalf("clerk close err = %v, want ErrForbidden", err)
	}
	if _, _, err := svc.Close(ctx, boss, CloseInput{SessionID: "s1", ClosingCents: -1}); !errors.Is(err, custody.ErrInvalidRequest) {
		t.Fatalf("negative closing err = %v, want ErrInvalidRequest", err)
	}
	neg := int64(-5)
	if _, _, err := svc.Close(ctx, boss, CloseInput{SessionID: "s1", ClosingCents: 100, DropCents: &neg}); !errors.Is(err, custody.ErrInvalidRequest) {
		t.Fatalf("negative drop err = %v, want ErrInvalidRequest", err)
	}
}

func TestCloseFlow(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	svc := newTestService(st)
	ctx := context.Background()

	sess, err := svc.Open(ctx, clerk, OpenInput{CasinoID: "casino-1", TableID: "bj-07"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Advance(ctx, clerk, sess.ID, custody.StatusActive); err != nil {
		t.Fatalf("advance: %v", err)
	}

	closed, report, err := svc.Close(ctx, boss, CloseInput{SessionID: sess.ID, ClosingCents: 1200})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != custody.StatusClosed {
		t.Fatalf("status = %s, want closed", closed.Status)
	}
	if report.GamingDay.IsZero() {
		t.Fatal("report has no gaming day")
	}
	if report.ComputedBy != boss.ID {
		t.Fatalf("computed_by = %s, want %s", report.ComputedBy, boss.ID)
	}
}

func TestFailedCloseLeavesAuditRecord(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	svc := newTestService(st)
	ctx := context.Background()

	sess, err := svc.Open(ctx, clerk, OpenInput{CasinoID: "casino-1", TableID: "bj-07"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, _, err := svc.Close(ctx, boss, CloseInput{SessionID: sess.ID, ClosingCents: 1200}); err != nil {
		t.Fatalf("first close: %v", err)
	}

	if _, _, err := svc.Close(ctx, boss, CloseInput{SessionID: sess.ID, ClosingCents: 1200}); !errors.Is(err, custody.ErrInvalidTransition) {
		t.Fatalf("second close err = %v, want ErrInvalidTransition", err)
	}

	audits, err := st.ListAuditRecords(ctx, "casino-1", store.AuditCloseFailed, 10, 0)
	if err != nil {
		t.Fatalf("list audits: %v", err)
	}
	if len(audits) != 1 || audits[0].RefID != sess.ID {
		t.Fatalf("close_failed audit = %+v, want one record for %s", audits, sess.ID)
	}
}
