/*
store.go - Persistence interface for intervals, derived rows and claims

PURPOSE:
  Defines the interface between the engine and storage. The engine owns
  no persisted-state layout; implementations (SQLite, in-memory) only
  honor the entity relationships and the atomicity contract.

ATOMIC DERIVATION:
  SaveDerivation persists an interval together with ALL of its ledger and
  cost-code rows, or nothing. Partial derivation must never be observable
  to readers.

DERIVED BALANCES:
  There is no stored balance anywhere in this interface. AccrualRows and
  ClaimedSeconds expose the source rows; the ledger recomputes on every
  read.

IMPLEMENTATIONS:
  - store/sqlite:       production store
  - engine/store:       in-memory store for tests and dev
*/
package engine

import (
	"context"
	"time"
)

// Store handles persistence for the engine. Implementations must keep
// derived rows immutable outside SaveDerivation.
type Store interface {
	// SaveDerivation persists an interval and its derived rows as one
	// atomic unit. Re-deriving an existing interval replaces the whole
	// set in the same unit.
	SaveDerivation(ctx context.Context, interval WorkInterval, rows []LedgerRow, costRows []CostCodeRow) error

	// GetInterval returns an interval, or an error wrapping ErrNotFound.
	GetInterval(ctx context.Context, id IntervalID) (WorkInterval, error)

	// LedgerRows returns an interval's per-day rows in chronological order.
	LedgerRows(ctx context.Context, id IntervalID) ([]LedgerRow, error)

	// CostCodeRows returns an interval's cost-code rows.
	CostCodeRows(ctx context.Context, id IntervalID) ([]CostCodeRow, error)

	// ListIntervals returns an employee's intervals with start in
	// [from, to), newest first. limit <= 0 means no limit.
	ListIntervals(ctx context.Context, employee EmployeeID, from, to time.Time, limit int) ([]WorkInterval, error)

	// AccrualRows returns every ledger row for the employee whose parent
	// interval's policy matches the category, joined with expiry context.
	AccrualRows(ctx context.Context, employee EmployeeID, category CategoryID) ([]AccrualRow, error)

	// ClaimedSeconds returns the total seconds already claimed by the
	// employee for the category.
	ClaimedSeconds(ctx context.Context, employee EmployeeID, category CategoryID) (Seconds, error)

	// SaveClaim persists a validated claim.
	SaveClaim(ctx context.Context, claim Claim) error

	// ListClaims returns an employee's claims for a category, newest first.
	// Empty category means all categories.
	ListClaims(ctx context.Context, employee EmployeeID, category CategoryID) ([]Claim, error)

	// EmployeeExists reports whether the employee is known.
	EmployeeExists(ctx context.Context, employee EmployeeID) (bool, error)

	// Reference data. Deletes are rejected with ErrReferenced while
	// existing records still point at the row.
	SavePolicy(ctx context.Context, p Policy) error
	GetPolicy(ctx context.Context, id PolicyID) (Policy, error)
	ListPolicies(ctx context.Context) ([]Policy, error)
	DeletePolicy(ctx context.Context, id PolicyID) error

	SaveCategory(ctx context.Context, c PenaltyType) error
	GetCategory(ctx context.Context, id CategoryID) (PenaltyType, error)
	ListCategories(ctx context.Context) ([]PenaltyType, error)
	DeleteCategory(ctx context.Context, id CategoryID) error

	SaveCostCode(ctx context.Context, c CostCodeInfo) error
	ListCostCodes(ctx context.Context) ([]CostCodeInfo, error)
}

// TxStore wraps Store with transaction support. Claim validation and
// persistence run inside WithTx so the balance read and the claim write
// commit or abort together.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error the transaction is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// BalanceReader is the slice of Store the entitlement ledger needs.
type BalanceReader interface {
	AccrualRows(ctx context.Context, employee EmployeeID, category CategoryID) ([]AccrualRow, error)
	ClaimedSeconds(ctx context.Context, employee EmployeeID, category CategoryID) (Seconds, error)
}
