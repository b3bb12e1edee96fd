package org

import (
	"context"
	"fmt"

	"github.com/warp/timesheet-engine/engine"
)

// EntitlementSource is the slice of the accrual engine the team report
// needs: per-employee per-category totals.
type EntitlementSource interface {
	GetAvailableBalance(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) (engine.Seconds, error)
	AccruedTotal(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) (engine.Seconds, error)
}

// CategorySource lists the penalty categories the report covers.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]engine.PenaltyType, error)
}

// Service applies membership rules and composes team reports.
type Service struct {
	store        Store
	entitlements EntitlementSource
	categories   CategorySource
}

func NewService(store Store, entitlements EntitlementSource, categories CategorySource) *Service {
	return &Service{store: store, entitlements: entitlements, categories: categories}
}

// =============================================================================
// MEMBERSHIP
// =============================================================================

// AddStaff assigns an employee to a team. An employee already on a team
// (this one or another) is rejected with ErrAlreadyMember.
func (s *Service) AddStaff(ctx context.Context, team TeamID, employee engine.EmployeeID) error {
	if _, err := s.store.GetTeam(ctx, team); err != nil {
		return err
	}
	e, err := s.store.GetEmployee(ctx, employee)
	if err != nil {
		return err
	}
	if e.TeamID != "" {
		return fmt.Errorf("employee %s is on team %s: %w", employee, e.TeamID, ErrAlreadyMember)
	}
	e.TeamID = team
	return s.store.SaveEmployee(ctx, e)
}

// RemoveStaff unassigns an employee from a team they belong to.
func (s *Service) RemoveStaff(ctx context.Context, team TeamID, employee engine.EmployeeID) error {
	if _, err := s.store.GetTeam(ctx, team); err != nil {
		return err
	}
	e, err := s.store.GetEmployee(ctx, employee)
	if err != nil {
		return err
	}
	if e.TeamID != team {
		return fmt.Errorf("employee %s, team %s: %w", employee, team, ErrNotMember)
	}
	e.TeamID = ""
	return s.store.SaveEmployee(ctx, e)
}

// AddManager assigns the team's manager slot. A team with a manager is
// rejected with ErrTeamHasManager.
func (s *Service) AddManager(ctx context.Context, team TeamID, employee engine.EmployeeID) error {
	t, err := s.store.GetTeam(ctx, team)
	if err != nil {
		return err
	}
	if _, err := s.store.GetEmployee(ctx, employee); err != nil {
		return err
	}
	if t.ManagerID != "" {
		return fmt.Errorf("team %s managed by %s: %w", team, t.ManagerID, ErrTeamHasManager)
	}
	t.ManagerID = employee
	return s.store.SaveTeam(ctx, t)
}

// RemoveManager clears the team's manager slot. Only the current manager
// can be removed.
func (s *Service) RemoveManager(ctx context.Context, team TeamID, employee engine.EmployeeID) error {
	t, err := s.store.GetTeam(ctx, team)
	if err != nil {
		return err
	}
	if t.ManagerID != employee {
		return fmt.Errorf("employee %s, team %s: %w", employee, team, ErrNotManager)
	}
	t.ManagerID = ""
	return s.store.SaveTeam(ctx, t)
}

// =============================================================================
// TEAM REPORT
// =============================================================================

// CategoryTotals is one report line: an employee's standing in one
// penalty category.
type CategoryTotals struct {
	Category  engine.CategoryID
	Accrued   engine.Seconds
	Available engine.Seconds
}

// MemberReport is the per-member section of a team report.
type MemberReport struct {
	Employee Employee
	Totals   []CategoryTotals
}

// TeamReport aggregates accrued and available seconds for every member
// of a team across every penalty category.
func (s *Service) TeamReport(ctx context.Context, team TeamID) ([]MemberReport, error) {
	if _, err := s.store.GetTeam(ctx, team); err != nil {
		return nil, err
	}
	members, err := s.store.ListTeamMembers(ctx, team)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]MemberReport, 0, len(members))
	for _, member := range members {
		mr := MemberReport{Employee: member}
		for _, category := range categories {
			accrued, err := s.entitlements.AccruedTotal(ctx, member.ID, category.ID)
			if err != nil {
				return nil, err
			}
			available, err := s.entitlements.GetAvailableBalance(ctx, member.ID, category.ID)
			if err != nil {
				return nil, err
			}
			mr.Totals = append(mr.Totals, CategoryTotals{
				Category:  category.ID,
				Accrued:   accrued,
				Available: available,
			})
		}
		report = append(report, mr)
	}
	return report, nil
}
