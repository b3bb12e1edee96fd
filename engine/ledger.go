/*
ledger.go - Entitlement balance

PURPOSE:
  Answers "how much accrued payable time does this employee have left for
  this category?". The balance is never stored: it is recomputed from
  source rows on every call, eliminating drift between stored and derived
  state.

CALCULATION:
  available = sum(payout of non-expired ledger rows for the category)
            - sum(claimed seconds for the category)

EXPIRY:
  A row stops counting once now >= interval.start + policy.ValidForDays
  days (inclusive boundary). "now" comes from the injected Clock so the
  boundary is deterministically testable.
*/
package engine

import "context"

// EntitlementLedger computes available balances from source rows.
type EntitlementLedger struct {
	Rows  BalanceReader
	Clock Clock
}

// Available returns accrued-minus-claimed seconds. The raw value can be
// negative when accrual expires after a claim consumed it; callers that
// promise a non-negative balance clamp at the boundary.
func (l EntitlementLedger) Available(ctx context.Context, employee EmployeeID, category CategoryID) (Seconds, error) {
	accrued, err := l.accrued(ctx, employee, category, false)
	if err != nil {
		return 0, err
	}
	claimed, err := l.Rows.ClaimedSeconds(ctx, employee, category)
	if err != nil {
		return 0, err
	}
	return accrued - claimed, nil
}

// AccruedTotal returns all payout seconds ever accrued for the category,
// ignoring expiry and claims. Used for team and employee reporting.
func (l EntitlementLedger) AccruedTotal(ctx context.Context, employee EmployeeID, category CategoryID) (Seconds, error) {
	return l.accrued(ctx, employee, category, true)
}

func (l EntitlementLedger) accrued(ctx context.Context, employee EmployeeID, category CategoryID, includeExpired bool) (Seconds, error) {
	rows, err := l.Rows.AccrualRows(ctx, employee, category)
	if err != nil {
		return 0, err
	}
	now := l.Clock.Now()
	var total Seconds
	for _, r := range rows {
		if includeExpired || !r.Expired(now) {
			total += r.PayoutSeconds
		}
	}
	return total, nil
}
