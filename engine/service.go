/*
service.go - Boundary operations

PURPOSE:
  The operations the engine exposes to collaborators: recording an
  interval, querying balances, submitting claims, and listing derived
  rows. The HTTP layer is a thin shell over this type.

CONCURRENCY:
  The engine is invoked synchronously per request. Recording an interval
  derives all rows in one atomic store transaction. Claim validation and
  persistence are serialized per (employee, category) with a keyed lock
  scoped to the claim operation, so two concurrent claims can never both
  observe the same pre-claim balance. Different employees or categories
  proceed fully in parallel.
*/
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxIntervalSeconds caps a single recorded interval at 24 hours.
const DefaultMaxIntervalSeconds Seconds = 86400

// Service wires the segmenter, payout calculator, allocator and
// entitlement ledger over a transactional store.
type Service struct {
	store      TxStore
	classifier DayClassifier
	clock      Clock
	maxSeconds Seconds

	mu         sync.Mutex
	claimLocks map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithMaxIntervalSeconds overrides the interval duration cap.
func WithMaxIntervalSeconds(max Seconds) Option {
	return func(s *Service) { s.maxSeconds = max }
}

// WithClock overrides the time source. For tests.
func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func NewService(store TxStore, classifier DayClassifier, opts ...Option) *Service {
	s := &Service{
		store:      store,
		classifier: classifier,
		clock:      SystemClock{},
		maxSeconds: DefaultMaxIntervalSeconds,
		claimLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// RECORD INTERVAL
// =============================================================================

// RecordInterval validates, segments, prices and allocates a worked
// interval, persisting the interval and all derived rows atomically.
// All-or-nothing: any failure aborts the whole derivation.
func (s *Service) RecordInterval(ctx context.Context, employee EmployeeID, start time.Time, duration Seconds, policyID PolicyID) (IntervalID, error) {
	if duration <= 0 || duration > s.maxSeconds {
		return "", fmt.Errorf("%w: %d seconds (cap %d)", ErrInvalidDuration, duration, s.maxSeconds)
	}

	policy, err := s.store.GetPolicy(ctx, policyID)
	if err != nil {
		return "", err
	}
	if err := s.requireEmployee(ctx, employee); err != nil {
		return "", err
	}

	interval := WorkInterval{
		ID:         IntervalID(uuid.NewString()),
		EmployeeID: employee,
		Start:      start,
		Duration:   duration,
		PolicyID:   policyID,
		CreatedAt:  s.clock.Now(),
	}

	segments := SplitInterval(start, duration)
	calc := PayoutCalculator{Classifier: s.classifier}
	rows := calc.Rows(interval.ID, segments)
	costRows := NewAllocator(policy).Allocate(interval.ID, segments, calc.Classes(segments))

	if err := s.store.SaveDerivation(ctx, interval, rows, costRows); err != nil {
		return "", err
	}
	return interval.ID, nil
}

// =============================================================================
// BALANCES
// =============================================================================

// GetAvailableBalance returns the employee's unclaimed, non-expired
// accrued seconds for a category. Clamped at zero: expiry after a claim
// can push the raw value negative, which callers never see.
func (s *Service) GetAvailableBalance(ctx context.Context, employee EmployeeID, category CategoryID) (Seconds, error) {
	if err := s.requireCategory(ctx, category); err != nil {
		return 0, err
	}
	if err := s.requireEmployee(ctx, employee); err != nil {
		return 0, err
	}
	available, err := s.ledger(s.store).Available(ctx, employee, category)
	if err != nil {
		return 0, err
	}
	if available < 0 {
		available = 0
	}
	return available, nil
}

// AccruedTotal returns all payout seconds ever accrued for the category,
// ignoring expiry and claims. Reporting only.
func (s *Service) AccruedTotal(ctx context.Context, employee EmployeeID, category CategoryID) (Seconds, error) {
	return s.ledger(s.store).AccruedTotal(ctx, employee, category)
}

// =============================================================================
// CLAIMS
// =============================================================================

// SubmitClaim validates and persists a claim as one atomic unit. The
// balance is recomputed inside the claim's critical section; a claim
// exceeding it is rejected with an InsufficientBalanceError and nothing
// is created.
func (s *Service) SubmitClaim(ctx context.Context, employee EmployeeID, category CategoryID, claimed Seconds) (ClaimID, error) {
	if claimed <= 0 || claimed > s.maxSeconds {
		return "", fmt.Errorf("%w: %d seconds (cap %d)", ErrInvalidDuration, claimed, s.maxSeconds)
	}
	if err := s.requireCategory(ctx, category); err != nil {
		return "", err
	}
	if err := s.requireEmployee(ctx, employee); err != nil {
		return "", err
	}

	lock := s.claimLock(employee, category)
	lock.Lock()
	defer lock.Unlock()

	claim := Claim{
		ID:             ClaimID(uuid.NewString()),
		EmployeeID:     employee,
		CategoryID:     category,
		ClaimedSeconds: claimed,
		ClaimDate:      s.clock.Now(),
	}

	err := s.store.WithTx(ctx, func(st Store) error {
		available, err := s.ledger(st).Available(ctx, employee, category)
		if err != nil {
			return err
		}
		if claimed > available {
			if available < 0 {
				available = 0
			}
			return &InsufficientBalanceError{
				EmployeeID: employee,
				CategoryID: category,
				Available:  available,
				Requested:  claimed,
			}
		}
		return st.SaveClaim(ctx, claim)
	})
	if err != nil {
		return "", err
	}
	return claim.ID, nil
}

// =============================================================================
// LISTINGS
// =============================================================================

// ListLedgerRows returns an interval's per-day rows in chronological order.
func (s *Service) ListLedgerRows(ctx context.Context, id IntervalID) ([]LedgerRow, error) {
	if _, err := s.store.GetInterval(ctx, id); err != nil {
		return nil, err
	}
	return s.store.LedgerRows(ctx, id)
}

// ListCostCodeRows returns an interval's cost-code allocation.
func (s *Service) ListCostCodeRows(ctx context.Context, id IntervalID) ([]CostCodeRow, error) {
	if _, err := s.store.GetInterval(ctx, id); err != nil {
		return nil, err
	}
	return s.store.CostCodeRows(ctx, id)
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Service) ledger(st Store) EntitlementLedger {
	return EntitlementLedger{Rows: st, Clock: s.clock}
}

func (s *Service) requireEmployee(ctx context.Context, employee EmployeeID) error {
	ok, err := s.store.EmployeeExists(ctx, employee)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("employee %s: %w", employee, ErrNotFound)
	}
	return nil
}

func (s *Service) requireCategory(ctx context.Context, category CategoryID) error {
	_, err := s.store.GetCategory(ctx, category)
	return err
}

// claimLock returns the mutex serializing claims for one
// (employee, category) pair. Locks are never released from the map; the
// cardinality is bounded by active employee/category pairs.
func (s *Service) claimLock(employee EmployeeID, category CategoryID) *sync.Mutex {
	key := string(employee) + "\x00" + string(category)
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.claimLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.claimLocks[key] = lock
	}
	return lock
}
