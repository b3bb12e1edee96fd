/*
handlers.go - HTTP handler implementations

PURPOSE:
  Implements the REST endpoints as a thin shell over the engine and org
  services. Handlers decode, delegate, and map errors to status codes;
  every business rule lives below this layer.

ERROR MAPPING:
  400  invalid body, invalid duration, unparseable dates
  404  unknown interval / employee / category / policy / team / holiday
  409  insufficient balance, referenced reference data, membership
       violations, transient claim conflicts
  500  everything else (logged)

SEE ALSO:
  - server.go: Router configuration
  - engine/service.go: The operations wrapped here
  - org/service.go: Membership and reporting operations
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/factory"
	"github.com/warp/timesheet-engine/org"
	"github.com/warp/timesheet-engine/store/sqlite"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	engine  *engine.Service
	org     *org.Service
	store   *sqlite.Store
	factory *factory.PolicyFactory
	log     *slog.Logger

	// PayPeriodDays is the configured period length used by the
	// pay-period advance endpoint.
	PayPeriodDays int
}

// NewHandler creates a handler over the given services and store.
func NewHandler(engineSvc *engine.Service, orgSvc *org.Service, store *sqlite.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		engine:        engineSvc,
		org:           orgSvc,
		store:         store,
		factory:       factory.NewPolicyFactory(),
		log:           log,
		PayPeriodDays: 14,
	}
}

// =============================================================================
// INTERVALS
// =============================================================================

func (h *Handler) RecordInterval(w http.ResponseWriter, r *http.Request) {
	var req RecordIntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := parseTime(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start (use RFC3339)", err)
		return
	}

	id, err := h.engine.RecordInterval(r.Context(),
		engine.EmployeeID(req.EmployeeID), start,
		engine.Seconds(req.DurationSeconds), engine.PolicyID(req.PolicyID))
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	interval, err := h.store.GetInterval(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIntervalDTO(interval))
}

func (h *Handler) GetInterval(w http.ResponseWriter, r *http.Request) {
	id := engine.IntervalID(chi.URLParam(r, "id"))
	interval, err := h.store.GetInterval(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIntervalDTO(interval))
}

func (h *Handler) GetLedgerRows(w http.ResponseWriter, r *http.Request) {
	id := engine.IntervalID(chi.URLParam(r, "id"))
	rows, err := h.engine.ListLedgerRows(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	dtos := make([]LedgerRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, LedgerRowDTO{
			IntervalID:    string(row.IntervalID),
			Date:          row.Date.Format("2006-01-02"),
			WorkedSeconds: int64(row.WorkedSeconds),
			PayoutSeconds: int64(row.PayoutSeconds),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetCostCodeRows(w http.ResponseWriter, r *http.Request) {
	id := engine.IntervalID(chi.URLParam(r, "id"))
	rows, err := h.engine.ListCostCodeRows(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	dtos := make([]CostCodeRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, CostCodeRowDTO{
			IntervalID: string(row.IntervalID),
			Code:       string(row.Code),
			Seconds:    int64(row.Seconds),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "id and username are required", nil)
		return
	}

	e := org.Employee{
		ID:        engine.EmployeeID(req.ID),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.store.SaveEmployee(r.Context(), e); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(e))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	e, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(e))
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.store.GetEmployee(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if err := h.store.DeleteEmployee(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	employee := engine.EmployeeID(chi.URLParam(r, "id"))
	category := engine.CategoryID(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, http.StatusBadRequest, "category query parameter is required", nil)
		return
	}

	available, err := h.engine.GetAvailableBalance(r.Context(), employee, category)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	accrued, err := h.engine.AccruedTotal(r.Context(), employee, category)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{
		EmployeeID:       string(employee),
		Category:         string(category),
		AvailableSeconds: int64(available),
		AvailableHours:   available.Hours(),
		AccruedSeconds:   int64(accrued),
	})
}

func (h *Handler) ListEmployeeIntervals(w http.ResponseWriter, r *http.Request) {
	employee := engine.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.store.GetEmployee(r.Context(), employee); err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	from := time.Time{}
	to := time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = parseTime(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = parseTime(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
	}

	intervals, err := h.store.ListIntervals(r.Context(), employee, from, to, limit)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]IntervalDTO, 0, len(intervals))
	for _, iv := range intervals {
		dtos = append(dtos, toIntervalDTO(iv))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListEmployeeClaims(w http.ResponseWriter, r *http.Request) {
	employee := engine.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.store.GetEmployee(r.Context(), employee); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	category := engine.CategoryID(r.URL.Query().Get("category"))

	claims, err := h.store.ListClaims(r.Context(), employee, category)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]ClaimDTO, 0, len(claims))
	for _, c := range claims {
		dtos = append(dtos, toClaimDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CLAIMS
// =============================================================================

func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	var req SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id, err := h.engine.SubmitClaim(r.Context(),
		engine.EmployeeID(req.EmployeeID),
		engine.CategoryID(req.Category),
		engine.Seconds(req.ClaimedSeconds))
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ClaimDTO{
		ID:             string(id),
		EmployeeID:     req.EmployeeID,
		Category:       req.Category,
		ClaimedSeconds: req.ClaimedSeconds,
	})
}

// =============================================================================
// POLICIES
// =============================================================================

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.store.ListPolicies(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]factory.PolicyJSON, 0, len(policies))
	for _, p := range policies {
		dtos = append(dtos, h.factory.ToJSON(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var pj factory.PolicyJSON
	if err := json.NewDecoder(r.Body).Decode(&pj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	policy, err := h.factory.FromJSON(pj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid policy configuration", err)
		return
	}
	// The category must exist before a policy can reference it.
	if _, err := h.store.GetCategory(r.Context(), policy.Category); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if err := h.store.SavePolicy(r.Context(), policy); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.factory.ToJSON(policy))
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := engine.PolicyID(chi.URLParam(r, "id"))
	policy, err := h.store.GetPolicy(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.factory.ToJSON(policy))
}

func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	id := engine.PolicyID(chi.URLParam(r, "id"))
	if _, err := h.store.GetPolicy(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if err := h.store.DeletePolicy(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PENALTY TYPES AND COST CODES
// =============================================================================

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, CategoryDTO{ID: string(c.ID), Name: c.Name})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if err := h.store.SaveCategory(r.Context(), engine.PenaltyType{
		ID: engine.CategoryID(dto.ID), Name: dto.Name,
	}); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := engine.CategoryID(chi.URLParam(r, "id"))
	if _, err := h.store.GetCategory(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCostCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.store.ListCostCodes(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]CostCodeDTO, 0, len(codes))
	for _, c := range codes {
		dtos = append(dtos, CostCodeDTO{
			Code: string(c.Code), Name: c.Name, ShortCode: c.ShortCode,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCostCode(w http.ResponseWriter, r *http.Request) {
	var dto CostCodeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required", nil)
		return
	}
	if err := h.store.SaveCostCode(r.Context(), engine.CostCodeInfo{
		Code: engine.CostCode(dto.Code), Name: dto.Name, ShortCode: dto.ShortCode,
	}); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// =============================================================================
// TEAMS
// =============================================================================

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.ListTeams(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]TeamDTO, 0, len(teams))
	for _, t := range teams {
		dtos = append(dtos, TeamDTO{ID: string(t.ID), Name: t.Name, ManagerID: string(t.ManagerID)})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var dto TeamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if err := h.store.SaveTeam(r.Context(), org.Team{
		ID: org.TeamID(dto.ID), Name: dto.Name,
	}); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id := org.TeamID(chi.URLParam(r, "id"))
	team, err := h.store.GetTeam(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TeamDTO{
		ID: string(team.ID), Name: team.Name, ManagerID: string(team.ManagerID),
	})
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := org.TeamID(chi.URLParam(r, "id"))
	if _, err := h.store.GetTeam(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if err := h.store.DeleteTeam(r.Context(), id); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddStaff(w http.ResponseWriter, r *http.Request) {
	h.membershipChange(w, r, h.org.AddStaff)
}

func (h *Handler) RemoveStaff(w http.ResponseWriter, r *http.Request) {
	team := org.TeamID(chi.URLParam(r, "id"))
	employee := engine.EmployeeID(chi.URLParam(r, "employeeID"))
	if err := h.org.RemoveStaff(r.Context(), team, employee); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddManager(w http.ResponseWriter, r *http.Request) {
	h.membershipChange(w, r, h.org.AddManager)
}

func (h *Handler) RemoveManager(w http.ResponseWriter, r *http.Request) {
	team := org.TeamID(chi.URLParam(r, "id"))
	employee := engine.EmployeeID(chi.URLParam(r, "employeeID"))
	if err := h.org.RemoveManager(r.Context(), team, employee); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) membershipChange(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, team org.TeamID, employee engine.EmployeeID) error) {
	var req MembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", nil)
		return
	}
	team := org.TeamID(chi.URLParam(r, "id"))
	if err := op(r.Context(), team, engine.EmployeeID(req.EmployeeID)); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TeamReport(w http.ResponseWriter, r *http.Request) {
	id := org.TeamID(chi.URLParam(r, "id"))
	report, err := h.org.TeamReport(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	dtos := make([]TeamReportMemberDTO, 0, len(report))
	for _, member := range report {
		dto := TeamReportMemberDTO{Employee: toEmployeeDTO(member.Employee)}
		for _, totals := range member.Totals {
			dto.Totals = append(dto.Totals, TeamReportRowDTO{
				Category:         string(totals.Category),
				AccruedSeconds:   int64(totals.Accrued),
				AvailableSeconds: int64(totals.Available),
			})
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.store.ListHolidays(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, HolidayDTO{
			Date: holiday.Date.Format("2006-01-02"), Name: holiday.Name,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var dto HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	if err := h.store.SaveHoliday(r.Context(), engine.Holiday{Date: date, Name: dto.Name}); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	if err := h.store.DeleteHoliday(r.Context(), date); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAY PERIOD
// =============================================================================

func (h *Handler) GetPayPeriod(w http.ResponseWriter, r *http.Request) {
	start, err := h.store.GetPayPeriod(r.Context())
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PayPeriodDTO{
		Start: start.Format(time.RFC3339), Days: h.PayPeriodDays,
	})
}

func (h *Handler) SetPayPeriod(w http.ResponseWriter, r *http.Request) {
	var req SetPayPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := parseTime(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	if err := h.store.SetPayPeriod(r.Context(), start); err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PayPeriodDTO{
		Start: start.Format(time.RFC3339), Days: h.PayPeriodDays,
	})
}

func (h *Handler) AdvancePayPeriod(w http.ResponseWriter, r *http.Request) {
	next, err := h.store.AdvancePayPeriod(r.Context(), h.PayPeriodDays)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PayPeriodDTO{
		Start: next.Format(time.RFC3339), Days: h.PayPeriodDays,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// parseTime accepts RFC3339 or bare dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	dto := ErrorDTO{Error: msg}
	if err != nil {
		dto.Details = err.Error()
	}
	writeJSON(w, status, dto)
}

// writeEngineError maps engine and org errors to HTTP status codes.
func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "Invalid duration", err)
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, engine.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "Insufficient balance", err)
	case errors.Is(err, engine.ErrReferenced):
		writeError(w, http.StatusConflict, "Referenced by existing records", err)
	case errors.Is(err, org.ErrAlreadyMember),
		errors.Is(err, org.ErrNotMember),
		errors.Is(err, org.ErrTeamHasManager),
		errors.Is(err, org.ErrNotManager):
		writeError(w, http.StatusConflict, "Membership rule violation", err)
	case engine.IsRetryable(err):
		writeError(w, http.StatusConflict, "Transient conflict, retry", err)
	default:
		h.log.Error("internal error", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}
