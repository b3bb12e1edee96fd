/*
Package org manages employees, teams and team membership.

PURPOSE:
  The organizational layer around the accrual engine. Employees belong to
  at most one team; each team has at most one manager. Membership changes
  are validated here and rejected with typed errors, never silently
  ignored.

SEE ALSO:
  - engine/service.go: balance operations the team report composes
  - store/sqlite:      production persistence for this package
*/
package org

import (
	"context"
	"errors"

	"github.com/warp/timesheet-engine/engine"
)

// =============================================================================
// TYPED ERRORS
// =============================================================================

var (
	// ErrAlreadyMember means the employee already belongs to a team.
	ErrAlreadyMember = errors.New("employee already belongs to a team")

	// ErrNotMember means the employee does not belong to the given team.
	ErrNotMember = errors.New("employee is not a member of the team")

	// ErrTeamHasManager means the team already has a manager assigned.
	ErrTeamHasManager = errors.New("team already has a manager")

	// ErrNotManager means the employee does not manage the given team.
	ErrNotManager = errors.New("employee is not the manager of the team")
)

// =============================================================================
// TYPES
// =============================================================================

type TeamID string

// Employee is an organizational employee record. TeamID is empty while
// the employee is unassigned.
type Employee struct {
	ID        engine.EmployeeID
	Username  string
	FirstName string
	LastName  string
	TeamID    TeamID
}

// Team groups employees under an optional manager. ManagerID is empty
// while no manager is assigned.
type Team struct {
	ID        TeamID
	Name      string
	ManagerID engine.EmployeeID
}

// =============================================================================
// STORE
// =============================================================================

// Store persists employees and teams.
type Store interface {
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id engine.EmployeeID) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id engine.EmployeeID) error

	SaveTeam(ctx context.Context, t Team) error
	GetTeam(ctx context.Context, id TeamID) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	DeleteTeam(ctx context.Context, id TeamID) error

	// ListTeamMembers returns the employees whose TeamID matches.
	ListTeamMembers(ctx context.Context, id TeamID) ([]Employee, error)
}
