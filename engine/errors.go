/*
errors.go - Centralized error types for the engine

PURPOSE:
  All engine error kinds in one place. Validation failures are detected
  before any row is written; business rejections carry context; transient
  conflicts are marked retryable. Nothing is ever printed-and-continued:
  every rule violation is a returned error.
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDuration is returned for a non-positive duration or one
	// exceeding the configured cap. Detected before any row is written.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrPolicyNotFound is returned when a referenced policy is unknown.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrInsufficientBalance is returned when a claim would drive the
	// employee's available balance negative. A business rejection, not a
	// fault; retrying without new accrual will fail again.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNotFound is returned for an unknown interval, employee or category.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when concurrent claim serialization fails.
	// Transient: safe to retry after re-reading the balance.
	ErrConflict = errors.New("concurrent claim conflict")

	// ErrReferenced is returned when deleting reference data that existing
	// records still point at.
	ErrReferenced = errors.New("referenced by existing records")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError reports a claim rejection with the balance
// details at rejection time.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	CategoryID CategoryID
	Available  Seconds
	Requested  Seconds
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s/%s: available %ds, requested %ds",
		e.EmployeeID, e.CategoryID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the operation might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsClientError returns true if the error is due to invalid client input
// or a business rejection, as opposed to an engine fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrReferenced)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPolicyNotFound)
}
