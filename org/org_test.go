package org_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/org"
)

// =============================================================================
// TEST FAKES
// =============================================================================

type fakeStore struct {
	employees map[engine.EmployeeID]org.Employee
	teams     map[org.TeamID]org.Team
}

var _ org.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: make(map[engine.EmployeeID]org.Employee),
		teams:     make(map[org.TeamID]org.Team),
	}
}

func (f *fakeStore) SaveEmployee(_ context.Context, e org.Employee) error {
	f.employees[e.ID] = e
	return nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id engine.EmployeeID) (org.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return org.Employee{}, fmt.Errorf("employee %s: %w", id, engine.ErrNotFound)
	}
	return e, nil
}

func (f *fakeStore) ListEmployees(_ context.Context) ([]org.Employee, error) {
	var result []org.Employee
	for _, e := range f.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeStore) DeleteEmployee(_ context.Context, id engine.EmployeeID) error {
	delete(f.employees, id)
	return nil
}

func (f *fakeStore) SaveTeam(_ context.Context, t org.Team) error {
	f.teams[t.ID] = t
	return nil
}

func (f *fakeStore) GetTeam(_ context.Context, id org.TeamID) (org.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return org.Team{}, fmt.Errorf("team %s: %w", id, engine.ErrNotFound)
	}
	return t, nil
}

func (f *fakeStore) ListTeams(_ context.Context) ([]org.Team, error) {
	var result []org.Team
	for _, t := range f.teams {
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeStore) DeleteTeam(_ context.Context, id org.TeamID) error {
	delete(f.teams, id)
	return nil
}

func (f *fakeStore) ListTeamMembers(_ context.Context, id org.TeamID) ([]org.Employee, error) {
	var result []org.Employee
	for _, e := range f.employees {
		if e.TeamID == id {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fixedEntitlements map[string]engine.Seconds

func (f fixedEntitlements) key(e engine.EmployeeID, c engine.CategoryID) string {
	return string(e) + "/" + string(c)
}

func (f fixedEntitlements) AccruedTotal(_ context.Context, e engine.EmployeeID, c engine.CategoryID) (engine.Seconds, error) {
	return f[f.key(e, c)], nil
}

func (f fixedEntitlements) GetAvailableBalance(_ context.Context, e engine.EmployeeID, c engine.CategoryID) (engine.Seconds, error) {
	return f[f.key(e, c)] / 2, nil
}

type fixedCategories []engine.PenaltyType

func (f fixedCategories) ListCategories(_ context.Context) ([]engine.PenaltyType, error) {
	return f, nil
}

func newOrgService(t *testing.T) (*org.Service, *fakeStore) {
	t.Helper()
	st := newFakeStore()
	ctx := context.Background()
	require.NoError(t, st.SaveTeam(ctx, org.Team{ID: "ops", Name: "Operations"}))
	require.NoError(t, st.SaveEmployee(ctx, org.Employee{ID: "emp-1", Username: "ada"}))
	require.NoError(t, st.SaveEmployee(ctx, org.Employee{ID: "emp-2", Username: "grace"}))

	entitlements := fixedEntitlements{
		"emp-1/paid": 7200,
		"emp-2/paid": 3600,
	}
	categories := fixedCategories{{ID: "paid", Name: "Paid"}}
	return org.NewService(st, entitlements, categories), st
}

// =============================================================================
// MEMBERSHIP RULES
// =============================================================================

func TestAddStaff(t *testing.T) {
	svc, st := newOrgService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddStaff(ctx, "ops", "emp-1"))

	e, err := st.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, org.TeamID("ops"), e.TeamID)

	// Already on a team, even the same one.
	err = svc.AddStaff(ctx, "ops", "emp-1")
	assert.ErrorIs(t, err, org.ErrAlreadyMember)
}

func TestAddStaff_UnknownTeamOrEmployee(t *testing.T) {
	svc, _ := newOrgService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddStaff(ctx, "nope", "emp-1"), engine.ErrNotFound)
	assert.ErrorIs(t, svc.AddStaff(ctx, "ops", "ghost"), engine.ErrNotFound)
}

func TestRemoveStaff(t *testing.T) {
	svc, st := newOrgService(t)
	ctx := context.Background()

	// Not a member yet.
	assert.ErrorIs(t, svc.RemoveStaff(ctx, "ops", "emp-1"), org.ErrNotMember)

	require.NoError(t, svc.AddStaff(ctx, "ops", "emp-1"))
	require.NoError(t, svc.RemoveStaff(ctx, "ops", "emp-1"))

	e, err := st.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, e.TeamID)
}

func TestManagerSlot(t *testing.T) {
	// GIVEN: A team with no manager
	// WHEN: Assigning twice and removing with the wrong employee
	// THEN: The second assignment and the wrong removal are typed rejections.

	svc, st := newOrgService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddManager(ctx, "ops", "emp-1"))

	team, err := st.GetTeam(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, engine.EmployeeID("emp-1"), team.ManagerID)

	assert.ErrorIs(t, svc.AddManager(ctx, "ops", "emp-2"), org.ErrTeamHasManager)
	assert.ErrorIs(t, svc.RemoveManager(ctx, "ops", "emp-2"), org.ErrNotManager)

	require.NoError(t, svc.RemoveManager(ctx, "ops", "emp-1"))
	team, err = st.GetTeam(ctx, "ops")
	require.NoError(t, err)
	assert.Empty(t, team.ManagerID)
}

// =============================================================================
// TEAM REPORT
// =============================================================================

func TestTeamReport(t *testing.T) {
	svc, _ := newOrgService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddStaff(ctx, "ops", "emp-1"))
	require.NoError(t, svc.AddStaff(ctx, "ops", "emp-2"))

	report, err := svc.TeamReport(ctx, "ops")
	require.NoError(t, err)
	require.Len(t, report, 2)

	assert.Equal(t, engine.EmployeeID("emp-1"), report[0].Employee.ID)
	require.Len(t, report[0].Totals, 1)
	assert.Equal(t, engine.CategoryID("paid"), report[0].Totals[0].Category)
	assert.Equal(t, engine.Seconds(7200), report[0].Totals[0].Accrued)
	assert.Equal(t, engine.Seconds(3600), report[0].Totals[0].Available)

	assert.Equal(t, engine.EmployeeID("emp-2"), report[1].Employee.ID)
	assert.Equal(t, engine.Seconds(3600), report[1].Totals[0].Accrued)
}

func TestTeamReport_UnknownTeam(t *testing.T) {
	svc, _ := newOrgService(t)
	_, err := svc.TeamReport(context.Background(), "nope")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}
