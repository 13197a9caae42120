package store

import (
	"errors"
	"testing"
	"time"

	"pit-custody/internal/custody"
)

func TestSessionLifecycle(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	sess, err := st.CreateTableSession(ctx, "casino-1", "bj-07")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.Status != custody.StatusOpen || sess.FillsTotalCents != 0 {
		t.Fatalf("unexpected new session: %+v", sess)
	}

	sess, err = st.AdvanceSessionStatus(ctx, sess.ID, custody.StatusActive)
	if err != nil {
		t.Fatalf("advance to active: %v", err)
	}
	if sess.Status != custody.StatusActive {
		t.Fatalf("status = %s, want active", sess.Status)
	}

	if _, err := st.AdvanceSessionStatus(ctx, sess.ID, custody.StatusOpen); !errors.Is(err, custody.ErrInvalidTransition) {
		t.Fatalf("backward advance err = %v, want ErrInvalidTransition", err)
	}
	if _, err := st.AdvanceSessionStatus(ctx, sess.ID, custody.StatusClosed); !errors.Is(err, custody.ErrInvalidTransition) {
		t.Fatalf("advance to closed err = %v, want ErrInvalidTransition", err)
	}
}

func TestDuplicateLiveSessionConflicts(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	if _, err := st.CreateTableSession(ctx, "casino-1", "bj-07"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := st.CreateTableSession(ctx, "casino-1", "bj-07"); !errors.Is(err, custody.ErrConflict) {
		t.Fatalf("duplicate open err = %v, want ErrConflict", err)
	}
	// A different table on the same floor is unaffected.
	if _, err := st.CreateTableSession(ctx, "casino-1", "bj-08"); err != nil {
		t.Fatalf("open second table: %v", err)
	}
}

func TestCloseReopensTable(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	sess, err := st.CreateTableSession(ctx, "casino-1", "bj-07")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, _, err := st.CloseSessionWithReport(ctx, CloseSessionInput{
		SessionID:    sess.ID,
		ClosingCents: 5000,
		GamingDay:    day,
		ActorID:      "boss-1",
	}); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Live uniqueness is scoped to live sessions only.
	if _, err := st.CreateTableSession(ctx, "casino-1", "bj-07"); err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
}

func TestCloseIsTerminal(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	sess, err := st.CreateTableSession(ctx, "casino-1", "bj-07")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	closed, report, err := st.CloseSessionWithReport(ctx, CloseSessionInput{
		SessionID:    sess.ID,
		ClosingCents: 5000,
		GamingDay:    day,
		ActorID:      "boss-1",
	})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != custody.StatusClosed || closed.ClosedAt == nil {
		t.Fatalf("session not closed: %+v", closed)
	}
	if report == nil || report.SessionID != sess.ID {
		t.Fatalf("close produced no report: %+v", report)
	}

	if _, _, err := st.CloseSessionWithReport(ctx, CloseSessionInput{
		SessionID:    sess.ID,
		ClosingCents: 5000,
		GamingDay:    day,
		ActorID:      "boss-1",
	}); !errors.Is(err, custody.ErrInvalidTransition) {
		t.Fatalf("double close err = %v, want ErrInvalidTransition", err)
	}
	if _, err := st.AdvanceSessionStatus(ctx, sess.ID, custody.StatusActive); !errors.Is(err, custody.ErrInvalidTransition) {
		t.Fatalf("advance after close err = %v, want ErrInvalidTransition", err)
	}
}

func TestListLiveSessions(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	a, _ := st.CreateTableSession(ctx, "casino-1", "bj-01")
	if _, err := st.CreateTableSession(ctx, "casino-1", "bj-02"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.CreateTableSession(ctx, "casino-2", "bj-01"); err != nil {
		t.Fatalf("create other casino: %v", err)
	}
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, _, err := st.CloseSessionWithReport(ctx, CloseSessionInput{SessionID: a.ID, ClosingCents: 0, GamingDay: day, ActorID: "boss-1"}); err != nil {
		t.Fatalf("close: %v", err)
	}

	live, err := st.ListLiveSessions(ctx, "casino-1", 50, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(live) != 1 || live[0].TableID != "bj-02" {
		t.Fatalf("live sessions = %+v, want only bj-02", live)
	}
}
