/*
Package engine implements the interval-to-ledger accrual engine.

PURPOSE:
  Converts recorded worked time intervals into payable time. A single
  interval may span multiple calendar days; the engine partitions it into
  per-day segments, applies day-class rate multipliers, allocates worked
  seconds across cost codes using a cross-day overtime threshold, and
  maintains a derived entitlement balance per employee per penalty
  category that claims draw down from.

KEY CONCEPTS IN THIS FILE (types.go):
  - Seconds: The currency of the engine (worked and payout durations)
  - WorkInterval: A recorded span of worked time (start + duration)
  - Segment: The portion of an interval falling on one calendar day
  - LedgerRow: Per-day derived payout record (immutable once written)
  - CostCodeRow: Per-interval-per-code allocation record
  - Policy: Rate/threshold/expiry rules, referenced by intervals
  - Claim: A request to consume accrued entitlement

DESIGN PRINCIPLES:
  1. Derivation, not storage: balances are always recomputed from rows
  2. Immutability: derived rows are written once, atomically, per interval
  3. Type safety: strong typing for IDs prevents mixing references
  4. Injected capabilities: day classification and the clock are supplied
     by collaborators, never read ambiently

SEE ALSO:
  - segment.go:  interval splitting
  - payout.go:   day-class multipliers
  - allocate.go: threshold cost-code allocation
  - ledger.go:   entitlement balance
  - service.go:  boundary operations
*/
package engine

import (
	"time"
)

// =============================================================================
// SECONDS - Quantity of worked or payable time
// =============================================================================

// Seconds is the engine's unit of account. Worked seconds are what the
// employee clocked; payout seconds are worked seconds after the day-class
// multiplier.
type Seconds int64

// Duration converts to a time.Duration for display and arithmetic.
func (s Seconds) Duration() time.Duration { return time.Duration(s) * time.Second }

// Hours returns the value in fractional hours, for reporting.
func (s Seconds) Hours() float64 { return float64(s) / 3600 }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type PolicyID string
type CategoryID string
type IntervalID string
type ClaimID string

// =============================================================================
// DAY CLASSES AND COST CODES
// =============================================================================

// DayClass is the rate class of a calendar day.
type DayClass string

const (
	DayOrdinary DayClass = "ORDINARY"
	DayRestDay  DayClass = "REST_DAY"
	DayHoliday  DayClass = "HOLIDAY"
)

// CostCode is a bucket into which worked seconds are allocated for
// payroll reporting. Exactly three codes are used by the allocator.
type CostCode string

const (
	CodeBase     CostCode = "BASE"
	CodeOvertime CostCode = "OVERTIME"
	CodePremium  CostCode = "PREMIUM"
)

// CostCodeInfo is reference data describing a cost code.
type CostCodeInfo struct {
	Code      CostCode
	Name      string
	ShortCode string
}

// =============================================================================
// POLICY - Rules referenced, never owned, by intervals
// =============================================================================

// PenaltyType is a penalty category, e.g. "Paid" or "Toil". Entitlement
// balances are tracked per employee per category.
type PenaltyType struct {
	ID   CategoryID
	Name string
}

// Policy defines how intervals recorded under it accrue and expire.
type Policy struct {
	ID       PolicyID
	Name     string
	Category CategoryID

	// ValidForDays is the expiry window: accrual from an interval stops
	// counting once now >= interval.start + ValidForDays days.
	ValidForDays int

	// BaseThreshold is the seconds of base-rate work allowed per interval
	// before the OVERTIME code applies. The threshold carries across day
	// segments of the same interval.
	BaseThreshold Seconds

	// HolidayCode and RestDayCode are the premium codes for holiday and
	// rest-day segments. They may name the same code.
	HolidayCode CostCode
	RestDayCode CostCode
}

// =============================================================================
// WORK INTERVAL AND DERIVED ROWS
// =============================================================================

// WorkInterval is a single recorded span of worked time. Immutable once
// created; its derived rows are regenerated only by deleting and
// re-deriving the whole set in one transaction.
type WorkInterval struct {
	ID         IntervalID
	EmployeeID EmployeeID
	Start      time.Time
	Duration   Seconds
	PolicyID   PolicyID
	CreatedAt  time.Time
}

// End returns the exclusive end timestamp of the interval.
func (wi WorkInterval) End() time.Time { return wi.Start.Add(wi.Duration.Duration()) }

// Segment is the portion of an interval falling within one calendar day.
// Date is midnight of that day in the interval's location.
type Segment struct {
	Date   time.Time
	Worked Seconds
}

// LedgerRow is one per calendar-day segment of a WorkInterval: the worked
// seconds on that date and the post-multiplier payout seconds. Owned
// exclusively by its interval and never mutated after creation.
type LedgerRow struct {
	IntervalID    IntervalID
	Date          time.Time
	WorkedSeconds Seconds
	PayoutSeconds Seconds
}

// CostCodeRow records the seconds allocated to one cost code for one
// interval. Rows are keyed (interval, code): a segment allocating to a
// code that already has a row increments it instead of adding a row.
type CostCodeRow struct {
	IntervalID IntervalID
	Code       CostCode
	Seconds    Seconds
}

// =============================================================================
// CLAIM - Consumption of accrued entitlement
// =============================================================================

// Claim consumes part of an employee's available balance for a category.
// Creation is conditional: a claim that would drive the balance negative
// is rejected and nothing is persisted. ClaimDate is set at creation and
// immutable.
type Claim struct {
	ID             ClaimID
	EmployeeID     EmployeeID
	CategoryID     CategoryID
	ClaimedSeconds Seconds
	ClaimDate      time.Time
}

// =============================================================================
// ACCRUAL ROW - Ledger row joined with its expiry context
// =============================================================================

// AccrualRow is what the entitlement ledger sums: a payout amount together
// with the parent interval's start and the policy's expiry window. Stores
// produce these so the ledger never needs to re-join rows itself.
type AccrualRow struct {
	IntervalStart time.Time
	ValidForDays  int
	PayoutSeconds Seconds
}

// ExpiresAt returns the first instant at which the row no longer counts.
func (r AccrualRow) ExpiresAt() time.Time {
	return r.IntervalStart.AddDate(0, 0, r.ValidForDays)
}

// Expired reports whether the row contributes nothing at the given time.
// The boundary is inclusive: at exactly start + ValidForDays days, the
// row is expired.
func (r AccrualRow) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt())
}
