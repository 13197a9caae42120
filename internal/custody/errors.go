package custody

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrAlreadyFinalized  = errors.New("already_finalized")
	ErrSessionNotClosed  = errors.New("session_not_closed")
	ErrNotFound          = errors.New("not_found")
	ErrForbidden         = errors.New("forbidden")
	ErrContention        = errors.New("contention")
)

// Retryable reports whether a caller should retry the operation with
// backoff. Only lock contention qualifies; every other kind means the
// caller's view of state is wrong or stale.
func Retryable(err error) bool {
	return errors.Is(err, ErrContention)
}
