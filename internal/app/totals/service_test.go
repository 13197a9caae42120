package totals

import (
	"context"
	"errors"
	"testing"

	"pit-custody/internal/authz"
	"pit-custody/internal/custody"
	"pit-custody/internal/testutil"
)

var (
	clerk   = authz.Actor{ID: "clerk-1", Role: authz.RolePitClerk}
	auditor = authz.Actor{ID: "aud-1", Role: authz.RoleAuditor}
)

func TestApplyPolicyAndValidation(t *testing.T) {
	svc := NewService(nil, authz.DefaultPolicy())
	ctx := context.Background()
	sid := "01HTXJ00000000000000000001"

	tests := []struct {
		name    string
		actor   authz.Actor
		in      EventInput
		wantErr error
	}{
		{name: "auditor forbidden", actor: auditor, in: EventInput{SessionID: &sid, AmountCents: 100}, wantErr: custody.ErrForbidden},
		{name: "zero amount", actor: clerk, in: EventInput{SessionID: &sid, AmountCents: 0}, wantErr: custody.ErrInvalidRequest},
		{name: "negative amount", actor: clerk, in: EventInput{SessionID: &sid, AmountCents: -50}, wantErr: custody.ErrInvalidRequest},
		{name: "no session and no table", actor: clerk, in: EventInput{CasinoID: "c1", AmountCents: 100}, wantErr: custody.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ApplyFill(ctx, tt.actor, tt.in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFillCreditDropFlow(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	svc := NewService(st, authz.DefaultPolicy())
	ctx := context.Background()

	sess, err := st.CreateTableSession(ctx, "casino-1", "bj-07")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	res, err := svc.ApplyFill(ctx, clerk, EventInput{SessionID: &sess.ID, AmountCents: 500})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if res.Session.FillsTotalCents != 500 {
		t.Fatalf("fills total = %d, want 500", res.Session.FillsTotalCents)
	}
	if res.Event.RecordedBy != clerk.ID {
		t.Fatalf("recorded_by = %s, want %s", res.Event.RecordedBy, clerk.ID)
	}

	res, err = svc.ApplyCredit(ctx, clerk, EventInput{SessionID: &sess.ID, AmountCents: 200})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if res.Session.CreditsTotalCents != 200 {
		t.Fatalf("credits total = %d, want 200", res.Session.CreditsTotalCents)
	}

	res, err = svc.PostDrop(ctx, clerk, EventInput{SessionID: &sess.ID, AmountCents: 2000})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if res.Session.FillsTotalCents != 500 || res.Session.CreditsTotalCents != 200 {
		t.Fatalf("drop moved totals: %+v", res.Session)
	}
}
