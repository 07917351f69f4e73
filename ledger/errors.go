/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error values in one place. The mutation engine itself never returns
  errors for data inconsistency (missing references degrade to skips or
  no-ops); the errors here come from caller-side validation, report lookups,
  and persistence.

ERROR CATEGORIES:
  1. Validation errors - rejected before the engine runs, no state change
  2. Lookup errors     - report requested for an unknown entity
  3. Persistence errors - wrapped store failures surfaced by the session
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNonPositiveAmount is returned when a transfer, cash flow, or
	// expense carries a zero or negative amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrSameTransferAccount is returned when a transfer names the same
	// account on both ends.
	ErrSameTransferAccount = errors.New("transfer endpoints must differ")

	// ErrAccountNotFound is returned when a report is requested for an
	// account that does not exist in the snapshot.
	ErrAccountNotFound = errors.New("account not found")

	// ErrRecordNotFound is returned when an update or delete names a
	// transactional record that is not in the snapshot.
	ErrRecordNotFound = errors.New("record not found")

	// ErrSessionClosed is returned by a session after Close.
	ErrSessionClosed = errors.New("session closed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError carries the field that failed caller-side validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistError wraps a store failure. The in-memory snapshot has already
// advanced when this is returned; the caller decides whether to retry the
// save.
type PersistError struct {
	UserID UserID
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist snapshot for %s: %v", e.UserID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input
// rather than an internal failure. Missing entities are classified by
// IsNotFound, not here.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNonPositiveAmount) ||
		errors.Is(err, ErrSameTransferAccount)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrRecordNotFound)
}
