package custody

import "testing"

func TestMetricsSub(t *testing.T) {
	cur := Metrics{
		SessionsOpened:    7,
		SessionsClosed:    3,
		FillsTotalCents:   120000,
		CreditsTotalCents: 45000,
		DropTotalCents:    300000,
		ReportsFinalized:  2,
	}
	prev := Metrics{
		SessionsOpened:    5,
		SessionsClosed:    1,
		FillsTotalCents:   80000,
		CreditsTotalCents: 45000,
		DropTotalCents:    100000,
		ReportsFinalized:  0,
	}
	got := cur.Sub(prev)
	want := Metrics{
		SessionsOpened:    2,
		SessionsClosed:    2,
		FillsTotalCents:   40000,
		CreditsTotalCents: 0,
		DropTotalCents:    200000,
		ReportsFinalized:  2,
	}
	if got != want {
		t.Fatalf("Sub = %+v, want %+v", got, want)
	}
}

func TestMetricsDeltaLaw(t *testing.T) {
	// delta(t2) - delta(t1) must equal metrics(t2) - metrics(t1) for
	// any shared baseline t0.
	t0 := Metrics{SessionsOpened: 1, FillsTotalCents: 1000}
	t1 := Metrics{SessionsOpened: 3, FillsTotalCents: 5000, DropTotalCents: 200}
	t2 := Metrics{SessionsOpened: 6, FillsTotalCents: 9000, DropTotalCents: 700}

	lhs := t2.Sub(t0).Sub(t1.Sub(t0))
	rhs := t2.Sub(t1)
	if lhs != rhs {
		t.Fatalf("delta law violated: %+v != %+v", lhs, rhs)
	}

	// Add inverts Sub: a baseline plus its delta reproduces the later
	// snapshot exactly.
	if got := t1.Add(t2.Sub(t1)); got != t2 {
		t.Fatalf("Add(Sub) round trip = %+v, want %+v", got, t2)
	}
}

func TestParseEventKind(t *testing.T) {
	for _, k := range []string{"fill", "credit", "drop"} {
		if _, ok := ParseEventKind(k); !ok {
			t.Fatalf("ParseEventKind(%s) rejected", k)
		}
	}
	if _, ok := ParseEventKind("marker"); ok {
		t.Fatal("ParseEventKind(marker) accepted")
	}
}
