/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the engine, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON type
*/
package api

import (
	"time"

	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/org"
)

// =============================================================================
// INTERVALS AND DERIVED ROWS
// =============================================================================

// RecordIntervalRequest is the request to record a worked interval.
type RecordIntervalRequest struct {
	EmployeeID      string `json:"employee_id"`
	Start           string `json:"start"` // RFC3339
	DurationSeconds int64  `json:"duration_seconds"`
	PolicyID        string `json:"policy_id"`
}

// IntervalDTO represents a recorded interval in API responses.
type IntervalDTO struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	Start           string `json:"start"`
	DurationSeconds int64  `json:"duration_seconds"`
	PolicyID        string `json:"policy_id"`
	CreatedAt       string `json:"created_at"`
}

func toIntervalDTO(iv engine.WorkInterval) IntervalDTO {
	return IntervalDTO{
		ID:              string(iv.ID),
		EmployeeID:      string(iv.EmployeeID),
		Start:           iv.Start.Format(time.RFC3339),
		DurationSeconds: int64(iv.Duration),
		PolicyID:        string(iv.PolicyID),
		CreatedAt:       iv.CreatedAt.Format(time.RFC3339),
	}
}

// LedgerRowDTO is one per-day payout row.
type LedgerRowDTO struct {
	IntervalID    string `json:"interval_id"`
	Date          string `json:"date"` // YYYY-MM-DD
	WorkedSeconds int64  `json:"worked_seconds"`
	PayoutSeconds int64  `json:"payout_seconds"`
}

// CostCodeRowDTO is one per-code allocation row.
type CostCodeRowDTO struct {
	IntervalID string `json:"interval_id"`
	Code       string `json:"code"`
	Seconds    int64  `json:"seconds"`
}

// =============================================================================
// BALANCES AND CLAIMS
// =============================================================================

// BalanceDTO reports an employee's standing in one category.
type BalanceDTO struct {
	EmployeeID       string  `json:"employee_id"`
	Category         string  `json:"category"`
	AvailableSeconds int64   `json:"available_seconds"`
	AvailableHours   float64 `json:"available_hours"`
	AccruedSeconds   int64   `json:"accrued_seconds"`
}

// SubmitClaimRequest is the request to consume accrued entitlement.
type SubmitClaimRequest struct {
	EmployeeID     string `json:"employee_id"`
	Category       string `json:"category"`
	ClaimedSeconds int64  `json:"claimed_seconds"`
}

// ClaimDTO represents a claim in API responses.
type ClaimDTO struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employee_id"`
	Category       string `json:"category"`
	ClaimedSeconds int64  `json:"claimed_seconds"`
	ClaimDate      string `json:"claim_date"`
}

func toClaimDTO(c engine.Claim) ClaimDTO {
	return ClaimDTO{
		ID:             string(c.ID),
		EmployeeID:     string(c.EmployeeID),
		Category:       string(c.CategoryID),
		ClaimedSeconds: int64(c.ClaimedSeconds),
		ClaimDate:      c.ClaimDate.Format(time.RFC3339),
	}
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// CategoryDTO represents a penalty category.
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CostCodeDTO represents a cost code.
type CostCodeDTO struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
}

// HolidayDTO represents one holiday calendar entry.
type HolidayDTO struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}

// PayPeriodDTO reports the current pay period setting.
type PayPeriodDTO struct {
	Start string `json:"start"`
	Days  int    `json:"days"`
}

// SetPayPeriodRequest sets the pay period start.
type SetPayPeriodRequest struct {
	Start string `json:"start"` // RFC3339 or YYYY-MM-DD
}

// =============================================================================
// ORGANIZATION
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	TeamID    string `json:"team_id,omitempty"`
}

func toEmployeeDTO(e org.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        string(e.ID),
		Username:  e.Username,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		TeamID:    string(e.TeamID),
	}
}

// TeamDTO represents a team in API responses.
type TeamDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ManagerID string `json:"manager_id,omitempty"`
}

// MembershipRequest names the employee for a staff/manager operation.
type MembershipRequest struct {
	EmployeeID string `json:"employee_id"`
}

// TeamReportRowDTO is one member-category line of a team report.
type TeamReportRowDTO struct {
	Category         string `json:"category"`
	AccruedSeconds   int64  `json:"accrued_seconds"`
	AvailableSeconds int64  `json:"available_seconds"`
}

// TeamReportMemberDTO is the per-member section of a team report.
type TeamReportMemberDTO struct {
	Employee EmployeeDTO        `json:"employee"`
	Totals   []TeamReportRowDTO `json:"totals"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorDTO is the uniform error body.
type ErrorDTO struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
