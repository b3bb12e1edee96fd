package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/org"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedReference(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveCategory(ctx, engine.PenaltyType{ID: "paid", Name: "Paid"}))
	require.NoError(t, store.SavePolicy(ctx, engine.Policy{
		ID:            "night",
		Name:          "Night shift",
		Category:      "paid",
		ValidForDays:  14,
		BaseThreshold: 7200,
		HolidayCode:   engine.CodePremium,
		RestDayCode:   engine.CodePremium,
	}))
	require.NoError(t, store.SaveEmployee(ctx, org.Employee{ID: "emp-1", Username: "ada"}))
}

func utc(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

// =============================================================================
// DERIVATION ROUNDTRIP
// =============================================================================

func TestSaveDerivation_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	interval := engine.WorkInterval{
		ID:         "iv-1",
		EmployeeID: "emp-1",
		Start:      utc(2025, time.March, 7, 23),
		Duration:   10800,
		PolicyID:   "night",
		CreatedAt:  utc(2025, time.March, 8, 2),
	}
	rows := []engine.LedgerRow{
		{IntervalID: "iv-1", Date: utc(2025, time.March, 7, 0), WorkedSeconds: 3600, PayoutSeconds: 5400},
		{IntervalID: "iv-1", Date: utc(2025, time.March, 8, 0), WorkedSeconds: 7200, PayoutSeconds: 10800},
	}
	costRows := []engine.CostCodeRow{
		{IntervalID: "iv-1", Code: engine.CodeBase, Seconds: 7200},
		{IntervalID: "iv-1", Code: engine.CodeOvertime, Seconds: 3600},
	}
	require.NoError(t, store.SaveDerivation(ctx, interval, rows, costRows))

	got, err := store.GetInterval(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, interval.EmployeeID, got.EmployeeID)
	assert.True(t, got.Start.Equal(interval.Start))
	assert.Equal(t, interval.Duration, got.Duration)

	gotRows, err := store.LedgerRows(ctx, "iv-1")
	require.NoError(t, err)
	require.Len(t, gotRows, 2)
	assert.True(t, gotRows[0].Date.Before(gotRows[1].Date), "rows are chronological")
	assert.Equal(t, engine.Seconds(5400), gotRows[0].PayoutSeconds)

	gotCost, err := store.CostCodeRows(ctx, "iv-1")
	require.NoError(t, err)
	assert.Len(t, gotCost, 2)
}

func TestSaveDerivation_ReplacesRowsOnRederive(t *testing.T) {
	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	interval := engine.WorkInterval{
		ID: "iv-1", EmployeeID: "emp-1", Start: utc(2025, time.March, 3, 9),
		Duration: 3600, PolicyID: "night", CreatedAt: utc(2025, time.March, 3, 10),
	}
	require.NoError(t, store.SaveDerivation(ctx, interval,
		[]engine.LedgerRow{{IntervalID: "iv-1", Date: utc(2025, time.March, 3, 0), WorkedSeconds: 3600, PayoutSeconds: 5400}},
		[]engine.CostCodeRow{{IntervalID: "iv-1", Code: engine.CodeBase, Seconds: 3600}},
	))

	interval.Duration = 7200
	require.NoError(t, store.SaveDerivation(ctx, interval,
		[]engine.LedgerRow{{IntervalID: "iv-1", Date: utc(2025, time.March, 3, 0), WorkedSeconds: 7200, PayoutSeconds: 10800}},
		[]engine.CostCodeRow{{IntervalID: "iv-1", Code: engine.CodeBase, Seconds: 7200}},
	))

	rows, err := store.LedgerRows(ctx, "iv-1")
	require.NoError(t, err)
	require.Len(t, rows, 1, "re-derivation replaces, never accumulates")
	assert.Equal(t, engine.Seconds(10800), rows[0].PayoutSeconds)
}

func TestGetInterval_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetInterval(context.Background(), "nope")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestListIntervals_RangeAndLimit(t *testing.T) {
	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	for i, start := range []time.Time{
		utc(2025, time.March, 3, 9),
		utc(2025, time.March, 4, 9),
		utc(2025, time.March, 5, 9),
	} {
		interval := engine.WorkInterval{
			ID:         engine.IntervalID([]string{"iv-1", "iv-2", "iv-3"}[i]),
			EmployeeID: "emp-1", Start: start, Duration: 3600,
			PolicyID: "night", CreatedAt: start,
		}
		require.NoError(t, store.SaveDerivation(ctx, interval, nil, nil))
	}

	// Range excludes the upper bound.
	result, err := store.ListIntervals(ctx, "emp-1",
		utc(2025, time.March, 3, 0), utc(2025, time.March, 5, 9), 0)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, engine.IntervalID("iv-2"), result[0].ID, "newest first")

	result, err = store.ListIntervals(ctx, "emp-1",
		utc(2025, time.March, 1, 0), utc(2025, time.April, 1, 0), 1)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, engine.IntervalID("iv-3"), result[0].ID)
}

// =============================================================================
// ACCRUALS AND CLAIMS
// =============================================================================

func TestAccrualRows_JoinsPolicyExpiry(t *testing.T) {
	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	interval := engine.WorkInterval{
		ID: "iv-1", EmployeeID: "emp-1", Start: utc(2025, time.March, 3, 9),
		Duration: 7200, PolicyID: "night", CreatedAt: utc(2025, time.March, 3, 11),
	}
	require.NoError(t, store.SaveDerivation(ctx, interval,
		[]engine.LedgerRow{{IntervalID: "iv-1", Date: utc(2025, time.March, 3, 0), WorkedSeconds: 7200, PayoutSeconds: 10800}},
		nil,
	))

	rows, err := store.AccrualRows(ctx, "emp-1", "paid")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IntervalStart.Equal(interval.Start))
	assert.Equal(t, 14, rows[0].ValidForDays)
	assert.Equal(t, engine.Seconds(10800), rows[0].PayoutSeconds)

	// Category filter follows the policy join.
	rows, err = store.AccrualRows(ctx, "emp-1", "toil")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClaimedSeconds_Sums(t *testing.T) {
	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	require.NoError(t, store.SaveClaim(ctx, engine.Claim{
		ID: "cl-1", EmployeeID: "emp-1", CategoryID: "paid",
		ClaimedSeconds: 1800, ClaimDate: utc(2025, time.March, 10, 9),
	}))
	require.NoError(t, store.SaveClaim(ctx, engine.Claim{
		ID: "cl-2", EmployeeID: "emp-1", CategoryID: "paid",
		ClaimedSeconds: 600, ClaimDate: utc(2025, time.March, 11, 9),
	}))

	total, err := store.ClaimedSeconds(ctx, "emp-1", "paid")
	require.NoError(t, err)
	assert.Equal(t, engine.Seconds(2400), total)

	claims, err := store.ListClaims(ctx, "emp-1", "paid")
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, engine.ClaimID("cl-2"), claims[0].ID, "newest first")
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := store.WithTx(ctx, func(st engine.Store) error {
		if err := st.SaveClaim(ctx, engine.Claim{
			ID: "cl-1", EmployeeID: "emp-1", CategoryID: "paid",
			ClaimedSeconds: 1800, ClaimDate: utc(2025, time.March, 10, 9),
		}); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	total, err := store.ClaimedSeconds(ctx, "emp-1", "paid")
	require.NoError(t, err)
	assert.Equal(t, engine.Seconds(0), total, "rolled-back claim must not count")
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func TestDeletePolicy_RejectedWhileReferenced(t *testing.T) {
	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	interval := engine.WorkInterval{
		ID: "iv-1", EmployeeID: "emp-1", Start: utc(2025, time.March, 3, 9),
		Duration: 3600, PolicyID: "night", CreatedAt: utc(2025, time.March, 3, 10),
	}
	require.NoError(t, store.SaveDerivation(ctx, interval, nil, nil))

	assert.ErrorIs(t, store.DeletePolicy(ctx, "night"), engine.ErrReferenced)
	assert.ErrorIs(t, store.DeleteCategory(ctx, "paid"), engine.ErrReferenced)
}

func TestCostCodes_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCostCode(ctx, engine.CostCodeInfo{
		Code: engine.CodeBase, Name: "Base rate", ShortCode: "B",
	}))
	require.NoError(t, store.SaveCostCode(ctx, engine.CostCodeInfo{
		Code: engine.CodeOvertime, Name: "Overtime", ShortCode: "OT",
	}))

	codes, err := store.ListCostCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, engine.CodeBase, codes[0].Code)
}

// =============================================================================
// ORG, HOLIDAYS AND SETTINGS
// =============================================================================

func TestEmployeesAndTeams_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTeam(ctx, org.Team{ID: "ops", Name: "Operations"}))
	require.NoError(t, store.SaveEmployee(ctx, org.Employee{
		ID: "emp-1", Username: "ada", FirstName: "Ada", LastName: "Lovelace", TeamID: "ops",
	}))
	require.NoError(t, store.SaveEmployee(ctx, org.Employee{ID: "emp-2", Username: "grace"}))

	ok, err := store.EmployeeExists(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, ok)

	members, err := store.ListTeamMembers(ctx, "ops")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, engine.EmployeeID("emp-1"), members[0].ID)

	// Team with members cannot be deleted.
	assert.ErrorIs(t, store.DeleteTeam(ctx, "ops"), engine.ErrReferenced)

	e, err := store.GetEmployee(ctx, "emp-2")
	require.NoError(t, err)
	assert.Empty(t, e.TeamID)
	require.NoError(t, store.DeleteEmployee(ctx, "emp-2"))
	_, err = store.GetEmployee(ctx, "emp-2")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestHolidayCalendar(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mayday := utc(2025, time.May, 1, 0)
	require.NoError(t, store.SaveHoliday(ctx, engine.Holiday{Date: mayday, Name: "May Day"}))

	assert.True(t, store.IsHoliday(mayday))
	assert.False(t, store.IsHoliday(utc(2025, time.May, 2, 0)))

	holidays, err := store.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "May Day", holidays[0].Name)

	require.NoError(t, store.DeleteHoliday(ctx, mayday))
	assert.ErrorIs(t, store.DeleteHoliday(ctx, mayday), engine.ErrNotFound)
}

func TestPayPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetPayPeriod(ctx)
	assert.ErrorIs(t, err, engine.ErrNotFound)

	start := utc(2025, time.March, 3, 0)
	require.NoError(t, store.SetPayPeriod(ctx, start))

	got, err := store.GetPayPeriod(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(start))

	next, err := store.AdvancePayPeriod(ctx, 14)
	require.NoError(t, err)
	assert.True(t, next.Equal(start.AddDate(0, 0, 14)))
}

// =============================================================================
// ENGINE OVER SQLITE
// =============================================================================

func TestEngineOverSQLite_RecordAndClaim(t *testing.T) {
	// Full stack over the production store: record, check balance, claim.

	store := newTestStore(t)
	seedReference(t, store)
	ctx := context.Background()

	svc := engine.NewService(store, engine.NewStandardClassifier(store),
		engine.WithClock(engine.FixedClock{At: utc(2025, time.March, 10, 12)}))

	_, err := svc.RecordInterval(ctx, "emp-1", utc(2025, time.March, 4, 9), 2400, "night")
	require.NoError(t, err)

	balance, err := svc.GetAvailableBalance(ctx, "emp-1", "paid")
	require.NoError(t, err)
	assert.Equal(t, engine.Seconds(3600), balance)

	_, err = svc.SubmitClaim(ctx, "emp-1", "paid", 3600)
	require.NoError(t, err)

	balance, err = svc.GetAvailableBalance(ctx, "emp-1", "paid")
	require.NoError(t, err)
	assert.Equal(t, engine.Seconds(0), balance)
}
