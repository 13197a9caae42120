package custody

type Status string

const (
	StatusOpen    Status = "open"
	StatusActive  Status = "active"
	StatusRundown Status = "rundown"
	StatusClosed  Status = "closed"
)

var statusRank = map[Status]int{
	StatusOpen:    0,
	StatusActive:  1,
	StatusRundown: 2,
	StatusClosed:  3,
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := statusRank[st]
	return st, ok
}

// Live reports whether the session still accepts totals mutation.
func (s Status) Live() bool {
	return s == StatusOpen || s == StatusActive || s == StatusRundown
}

// CanAdvance validates a forward-only move. Closed is never reachable
// through advance; closing a session is its own operation because it
// carries the rundown computation with it.
func CanAdvance(from, to Status) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	if to == StatusClosed {
		return false
	}
	return tr > fr
}

// CanClose reports whether close() may move the session to Closed.
func CanClose(from Status) bool {
	return from.Live()
}
