// Package errs defines the typed failure kinds the booking surface reports.
// Handlers match them with errors.As to produce specific user-facing messages.
package errs

import (
	"fmt"
	"strings"
)

// ValidationError reports a missing or malformed field. It is raised before
// any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QuotaExceededError is returned when a purchase would push a user past the
// daily ticket cap. Available carries how many tickets the user can still
// book today so callers can show an actionable message.
type QuotaExceededError struct {
	Available int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily ticket quota exceeded: %d ticket(s) still available today", e.Available)
}

// DuplicateAccountError is returned when registration targets an email that
// already has an account.
type DuplicateAccountError struct {
	Email string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("an account already exists for %s", e.Email)
}

// TransientIOError wraps a network or backend failure on a read or write.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientIOError) Unwrap() error { return e.Err }

// PartialFailureError reports that the booking row was persisted but one or
// more of its ticket rows were not. MissingTicketIDs lists exactly the tickets
// that need a compensating re-issue; the purchase must not be retried whole.
type PartialFailureError struct {
	BookingID        string
	MissingTicketIDs []string
	Err              error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("booking %s persisted but %d ticket(s) failed to persist (%s): %v",
		e.BookingID, len(e.MissingTicketIDs), strings.Join(e.MissingTicketIDs, ", "), e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
