package custody

// EventKind discriminates monetary events.
type EventKind string

const (
	EventFill   EventKind = "fill"
	EventCredit EventKind = "credit"
	EventDrop   EventKind = "drop"
)

func ParseEventKind(s string) (EventKind, bool) {
	switch EventKind(s) {
	case EventFill, EventCredit, EventDrop:
		return EventKind(s), true
	}
	return "", false
}

// Metrics is the fixed counter set captured by a shift checkpoint.
// Every field is a within-window aggregate, so checkpoint deltas are
// plain field-wise subtraction.
type Metrics struct {
	SessionsOpened    int64 `json:"sessions_opened"`
	SessionsClosed    int64 `json:"sessions_closed"`
	FillsTotalCents   int64 `json:"fills_total_cents"`
	CreditsTotalCents int64 `json:"credits_total_cents"`
	DropTotalCents    int64 `json:"drop_total_cents"`
	ReportsFinalized  int64 `json:"reports_finalized"`
}

func (m Metrics) Sub(prev Metrics) Metrics {
	return Metrics{
		SessionsOpened:    m.SessionsOpened - prev.SessionsOpened,
		SessionsClosed:    m.SessionsClosed - prev.SessionsClosed,
		FillsTotalCents:   m.FillsTotalCents - prev.FillsTotalCents,
		CreditsTotalCents: m.CreditsTotalCents - prev.CreditsTotalCents,
		DropTotalCents:    m.DropTotalCents - prev.DropTotalCents,
		ReportsFinalized:  m.ReportsFinalized - prev.ReportsFinalized,
	}
}

func (m Metrics) Add(other Metrics) Metrics {
	return Metrics{
		SessionsOpened:    m.SessionsOpened + other.SessionsOpened,
		SessionsClosed:    m.SessionsClosed + other.SessionsClosed,
		FillsTotalCents:   m.FillsTotalCents + other.FillsTotalCents,
		CreditsTotalCents: m.CreditsTotalCents + other.CreditsTotalCents,
		DropTotalCents:    m.DropTotalCents + other.DropTotalCents,
		ReportsFinalized:  m.ReportsFinalized + other.ReportsFinalized,
	}
}
