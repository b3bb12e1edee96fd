// Package store provides an in-memory engine.Store implementation for
// tests and development.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/timesheet-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

var (
	_ engine.TxStore      = (*Memory)(nil)
	_ engine.HolidayStore = (*Memory)(nil)
	_ engine.Store        = (*txView)(nil)
)

type Memory struct {
	mu         sync.RWMutex
	intervals  map[engine.IntervalID]engine.WorkInterval
	rows       map[engine.IntervalID][]engine.LedgerRow
	costRows   map[engine.IntervalID][]engine.CostCodeRow
	claims     []engine.Claim
	policies   map[engine.PolicyID]engine.Policy
	categories map[engine.CategoryID]engine.PenaltyType
	costCodes  map[engine.CostCode]engine.CostCodeInfo
	employees  map[engine.EmployeeID]bool
	holidays   map[string]engine.Holiday
	payPeriod  time.Time
}

func NewMemory() *Memory {
	return &Memory{
		intervals:  make(map[engine.IntervalID]engine.WorkInterval),
		rows:       make(map[engine.IntervalID][]engine.LedgerRow),
		costRows:   make(map[engine.IntervalID][]engine.CostCodeRow),
		policies:   make(map[engine.PolicyID]engine.Policy),
		categories: make(map[engine.CategoryID]engine.PenaltyType),
		costCodes:  make(map[engine.CostCode]engine.CostCodeInfo),
		employees:  make(map[engine.EmployeeID]bool),
		holidays:   make(map[string]engine.Holiday),
	}
}

// AddEmployee registers an employee ID. Test seeding helper; the full
// employee record lives in the org layer.
func (m *Memory) AddEmployee(id engine.EmployeeID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[id] = true
}

// =============================================================================
// ENGINE STORE (engine.Store interface)
// =============================================================================

func (m *Memory) SaveDerivation(ctx context.Context, interval engine.WorkInterval, rows []engine.LedgerRow, costRows []engine.CostCodeRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveDerivationLocked(interval, rows, costRows)
}

func (m *Memory) saveDerivationLocked(interval engine.WorkInterval, rows []engine.LedgerRow, costRows []engine.CostCodeRow) error {
	m.intervals[interval.ID] = interval
	m.rows[interval.ID] = append([]engine.LedgerRow(nil), rows...)
	m.costRows[interval.ID] = append([]engine.CostCodeRow(nil), costRows...)
	return nil
}

func (m *Memory) GetInterval(ctx context.Context, id engine.IntervalID) (engine.WorkInterval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getIntervalLocked(id)
}

func (m *Memory) getIntervalLocked(id engine.IntervalID) (engine.WorkInterval, error) {
	interval, ok := m.intervals[id]
	if !ok {
		return engine.WorkInterval{}, fmt.Errorf("interval %s: %w", id, engine.ErrNotFound)
	}
	return interval, nil
}

func (m *Memory) LedgerRows(ctx context.Context, id engine.IntervalID) ([]engine.LedgerRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.LedgerRow(nil), m.rows[id]...), nil
}

func (m *Memory) CostCodeRows(ctx context.Context, id engine.IntervalID) ([]engine.CostCodeRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]engine.CostCodeRow(nil), m.costRows[id]...), nil
}

func (m *Memory) ListIntervals(ctx context.Context, employee engine.EmployeeID, from, to time.Time, limit int) ([]engine.WorkInterval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listIntervalsLocked(employee, from, to, limit)
}

func (m *Memory) listIntervalsLocked(employee engine.EmployeeID, from, to time.Time, limit int) ([]engine.WorkInterval, error) {
	var result []engine.WorkInterval
	for _, interval := range m.intervals {
		if interval.EmployeeID != employee {
			continue
		}
		if interval.Start.Before(from) || !interval.Start.Before(to) {
			continue
		}
		result = append(result, interval)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.After(result[j].Start) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *Memory) AccrualRows(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) ([]engine.AccrualRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accrualRowsLocked(employee, category)
}

func (m *Memory) accrualRowsLocked(employee engine.EmployeeID, category engine.CategoryID) ([]engine.AccrualRow, error) {
	var result []engine.AccrualRow
	for id, interval := range m.intervals {
		if interval.EmployeeID != employee {
			continue
		}
		policy, ok := m.policies[interval.PolicyID]
		if !ok || policy.Category != category {
			continue
		}
		for _, row := range m.rows[id] {
			result = append(result, engine.AccrualRow{
				IntervalStart: interval.Start,
				ValidForDays:  policy.ValidForDays,
				PayoutSeconds: row.PayoutSeconds,
			})
		}
	}
	return result, nil
}

func (m *Memory) ClaimedSeconds(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) (engine.Seconds, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claimedSecondsLocked(employee, category)
}

func (m *Memory) claimedSecondsLocked(employee engine.EmployeeID, category engine.CategoryID) (engine.Seconds, error) {
	var total engine.Seconds
	for _, c := range m.claims {
		if c.EmployeeID == employee && c.CategoryID == category {
			total += c.ClaimedSeconds
		}
	}
	return total, nil
}

func (m *Memory) SaveClaim(ctx context.Context, claim engine.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveClaimLocked(claim)
}

func (m *Memory) saveClaimLocked(claim engine.Claim) error {
	m.claims = append(m.claims, claim)
	return nil
}

func (m *Memory) ListClaims(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) ([]engine.Claim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.Claim
	for _, c := range m.claims {
		if c.EmployeeID != employee {
			continue
		}
		if category != "" && c.CategoryID != category {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClaimDate.After(result[j].ClaimDate) })
	return result, nil
}

func (m *Memory) EmployeeExists(ctx context.Context, employee engine.EmployeeID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.employees[employee], nil
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func (m *Memory) SavePolicy(ctx context.Context, p engine.Policy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.ID] = p
	return nil
}

func (m *Memory) GetPolicy(ctx context.Context, id engine.PolicyID) (engine.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	policy, ok := m.policies[id]
	if !ok {
		return engine.Policy{}, fmt.Errorf("%s: %w", id, engine.ErrPolicyNotFound)
	}
	return policy, nil
}

func (m *Memory) ListPolicies(ctx context.Context) ([]engine.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]engine.Policy, 0, len(m.policies))
	for _, p := range m.policies {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) DeletePolicy(ctx context.Context, id engine.PolicyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, interval := range m.intervals {
		if interval.PolicyID == id {
			return fmt.Errorf("policy %s: %w", id, engine.ErrReferenced)
		}
	}
	delete(m.policies, id)
	return nil
}

func (m *Memory) SaveCategory(ctx context.Context, c engine.PenaltyType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m *Memory) GetCategory(ctx context.Context, id engine.CategoryID) (engine.PenaltyType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	category, ok := m.categories[id]
	if !ok {
		return engine.PenaltyType{}, fmt.Errorf("category %s: %w", id, engine.ErrNotFound)
	}
	return category, nil
}

func (m *Memory) ListCategories(ctx context.Context) ([]engine.PenaltyType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]engine.PenaltyType, 0, len(m.categories))
	for _, c := range m.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) DeleteCategory(ctx context.Context, id engine.CategoryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.policies {
		if p.Category == id {
			return fmt.Errorf("category %s: %w", id, engine.ErrReferenced)
		}
	}
	for _, c := range m.claims {
		if c.CategoryID == id {
			return fmt.Errorf("category %s: %w", id, engine.ErrReferenced)
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *Memory) SaveCostCode(ctx context.Context, c engine.CostCodeInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.costCodes[c.Code] = c
	return nil
}

func (m *Memory) ListCostCodes(ctx context.Context) ([]engine.CostCodeInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]engine.CostCodeInfo, 0, len(m.costCodes))
	for _, c := range m.costCodes {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

func (m *Memory) SaveHoliday(ctx context.Context, h engine.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.Date.Format("2006-01-02")] = h
	return nil
}

func (m *Memory) DeleteHoliday(ctx context.Context, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := date.Format("2006-01-02")
	if _, ok := m.holidays[key]; !ok {
		return fmt.Errorf("holiday %s: %w", key, engine.ErrNotFound)
	}
	delete(m.holidays, key)
	return nil
}

func (m *Memory) ListHolidays(ctx context.Context) ([]engine.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]engine.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) IsHoliday(date time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.holidays[date.Format("2006-01-02")]
	return ok
}

// =============================================================================
// PAY PERIOD SETTING
// =============================================================================

func (m *Memory) GetPayPeriod(ctx context.Context) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.payPeriod.IsZero() {
		return time.Time{}, fmt.Errorf("pay period setting: %w", engine.ErrNotFound)
	}
	return m.payPeriod, nil
}

func (m *Memory) SetPayPeriod(ctx context.Context, start time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payPeriod = start
	return nil
}

func (m *Memory) AdvancePayPeriod(ctx context.Context, days int) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payPeriod.IsZero() {
		return time.Time{}, fmt.Errorf("pay period setting: %w", engine.ErrNotFound)
	}
	m.payPeriod = m.payPeriod.AddDate(0, 0, days)
	return m.payPeriod, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn against a transactional view. Simulated with a
// snapshot + rollback on error; the outer lock is held for the whole
// transaction, so views bypass locking.
func (m *Memory) WithTx(ctx context.Context, fn func(engine.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(&txView{parent: m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	intervals map[engine.IntervalID]engine.WorkInterval
	rows      map[engine.IntervalID][]engine.LedgerRow
	costRows  map[engine.IntervalID][]engine.CostCodeRow
	claims    []engine.Claim
}

func (m *Memory) snapshot() memorySnapshot {
	s := memorySnapshot{
		intervals: make(map[engine.IntervalID]engine.WorkInterval, len(m.intervals)),
		rows:      make(map[engine.IntervalID][]engine.LedgerRow, len(m.rows)),
		costRows:  make(map[engine.IntervalID][]engine.CostCodeRow, len(m.costRows)),
		claims:    append([]engine.Claim(nil), m.claims...),
	}
	for k, v := range m.intervals {
		s.intervals[k] = v
	}
	for k, v := range m.rows {
		s.rows[k] = append([]engine.LedgerRow(nil), v...)
	}
	for k, v := range m.costRows {
		s.costRows[k] = append([]engine.CostCodeRow(nil), v...)
	}
	return s
}

func (m *Memory) restore(s memorySnapshot) {
	m.intervals = s.intervals
	m.rows = s.rows
	m.costRows = s.costRows
	m.claims = s.claims
}

// txView exposes the parent's state without re-locking. Only valid while
// WithTx holds the parent lock.
type txView struct {
	parent *Memory
}

func (tv *txView) SaveDerivation(ctx context.Context, interval engine.WorkInterval, rows []engine.LedgerRow, costRows []engine.CostCodeRow) error {
	return tv.parent.saveDerivationLocked(interval, rows, costRows)
}

func (tv *txView) GetInterval(ctx context.Context, id engine.IntervalID) (engine.WorkInterval, error) {
	return tv.parent.getIntervalLocked(id)
}

func (tv *txView) LedgerRows(ctx context.Context, id engine.IntervalID) ([]engine.LedgerRow, error) {
	return append([]engine.LedgerRow(nil), tv.parent.rows[id]...), nil
}

func (tv *txView) CostCodeRows(ctx context.Context, id engine.IntervalID) ([]engine.CostCodeRow, error) {
	return append([]engine.CostCodeRow(nil), tv.parent.costRows[id]...), nil
}

func (tv *txView) ListIntervals(ctx context.Context, employee engine.EmployeeID, from, to time.Time, limit int) ([]engine.WorkInterval, error) {
	return tv.parent.listIntervalsLocked(employee, from, to, limit)
}

func (tv *txView) AccrualRows(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) ([]engine.AccrualRow, error) {
	return tv.parent.accrualRowsLocked(employee, category)
}

func (tv *txView) ClaimedSeconds(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) (engine.Seconds, error) {
	return tv.parent.claimedSecondsLocked(employee, category)
}

func (tv *txView) SaveClaim(ctx context.Context, claim engine.Claim) error {
	return tv.parent.saveClaimLocked(claim)
}

func (tv *txView) ListClaims(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) ([]engine.Claim, error) {
	var result []engine.Claim
	for _, c := range tv.parent.claims {
		if c.EmployeeID == employee && (category == "" || c.CategoryID == category) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (tv *txView) EmployeeExists(ctx context.Context, employee engine.EmployeeID) (bool, error) {
	return tv.parent.employees[employee], nil
}

func (tv *txView) SavePolicy(ctx context.Context, p engine.Policy) error {
	tv.parent.policies[p.ID] = p
	return nil
}

func (tv *txView) GetPolicy(ctx context.Context, id engine.PolicyID) (engine.Policy, error) {
	policy, ok := tv.parent.policies[id]
	if !ok {
		return engine.Policy{}, fmt.Errorf("%s: %w", id, engine.ErrPolicyNotFound)
	}
	return policy, nil
}

func (tv *txView) ListPolicies(ctx context.Context) ([]engine.Policy, error) {
	result := make([]engine.Policy, 0, len(tv.parent.policies))
	for _, p := range tv.parent.policies {
		result = append(result, p)
	}
	return result, nil
}

func (tv *txView) DeletePolicy(ctx context.Context, id engine.PolicyID) error {
	delete(tv.parent.policies, id)
	return nil
}

func (tv *txView) SaveCategory(ctx context.Context, c engine.PenaltyType) error {
	tv.parent.categories[c.ID] = c
	return nil
}

func (tv *txView) GetCategory(ctx context.Context, id engine.CategoryID) (engine.PenaltyType, error) {
	category, ok := tv.parent.categories[id]
	if !ok {
		return engine.PenaltyType{}, fmt.Errorf("category %s: %w", id, engine.ErrNotFound)
	}
	return category, nil
}

func (tv *txView) ListCategories(ctx context.Context) ([]engine.PenaltyType, error) {
	result := make([]engine.PenaltyType, 0, len(tv.parent.categories))
	for _, c := range tv.parent.categories {
		result = append(result, c)
	}
	return result, nil
}

func (tv *txView) DeleteCategory(ctx context.Context, id engine.CategoryID) error {
	delete(tv.parent.categories, id)
	return nil
}

func (tv *txView) SaveCostCode(ctx context.Context, c engine.CostCodeInfo) error {
	tv.parent.costCodes[c.Code] = c
	return nil
}

func (tv *txView) ListCostCodes(ctx context.Context) ([]engine.CostCodeInfo, error) {
	result := make([]engine.CostCodeInfo, 0, len(tv.parent.costCodes))
	for _, c := range tv.parent.costCodes {
		result = append(result, c)
	}
	return result, nil
}
