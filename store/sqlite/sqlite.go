/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements persistence for the accrual engine (engine.TxStore), the
  organizational layer (org.Store), the holiday calendar and the pay
  period setting, all over one database file.

DERIVED ROWS:
  interval_rows and interval_cost_rows are written only by SaveDerivation
  and only together with their parent interval, inside one transaction.
  No other statement touches them.

KEY TABLES:
  intervals:           Recorded worked intervals
  interval_rows:       Per-day payout rows (derived)
  interval_cost_rows:  Per-code allocation rows (derived)
  claims:              Entitlement consumption records
  policies:            Accrual policy definitions
  penalty_types:       Penalty categories
  cost_codes:          Cost code reference data
  employees, teams:    Organizational records
  holidays:            Holiday calendar
  settings:            Key/value settings (pay period start)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  behind the single writer and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/timesheet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go:        interface definitions
  - engine/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/org"
)

const dateLayout = "2006-01-02"

var (
	_ engine.TxStore      = (*Store)(nil)
	_ engine.HolidayStore = (*Store)(nil)
	_ org.Store           = (*Store)(nil)
)

// dbtx is the subset of *sql.DB and *sql.Tx the queries run against.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds every statement; it runs against the database directly
// or against an open transaction.
type queries struct {
	q dbtx
}

// Store implements the storage interfaces using SQLite.
type Store struct {
	queries
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection sidesteps table-lock errors between the pool's
	// connections under concurrent writes.
	db.SetMaxOpenConns(1)

	store := &Store{queries: queries{q: db}, db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS penalty_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category_id TEXT NOT NULL,
		valid_for_days INTEGER NOT NULL,
		base_threshold INTEGER NOT NULL,
		holiday_code TEXT NOT NULL,
		rest_day_code TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_policies_category
		ON policies(category_id);

	CREATE TABLE IF NOT EXISTS cost_codes (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		short_code TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		manager_id TEXT
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		team_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_employees_team
		ON employees(team_id);

	CREATE TABLE IF NOT EXISTS intervals (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_at TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		policy_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Hot path: employee interval listings and accrual joins
	CREATE INDEX IF NOT EXISTS idx_intervals_employee_start
		ON intervals(employee_id, start_at DESC);
	CREATE INDEX IF NOT EXISTS idx_intervals_policy
		ON intervals(policy_id);

	-- Derived rows. Written only by SaveDerivation.
	CREATE TABLE IF NOT EXISTS interval_rows (
		interval_id TEXT NOT NULL,
		date TEXT NOT NULL,
		worked_seconds INTEGER NOT NULL,
		payout_seconds INTEGER NOT NULL,
		PRIMARY KEY (interval_id, date)
	);

	CREATE TABLE IF NOT EXISTS interval_cost_rows (
		interval_id TEXT NOT NULL,
		code TEXT NOT NULL,
		seconds INTEGER NOT NULL,
		PRIMARY KEY (interval_id, code)
	);

	CREATE TABLE IF NOT EXISTS claims (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		claimed_seconds INTEGER NOT NULL,
		claim_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_claims_employee_category
		ON claims(employee_id, category_id);

	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn against a transactional view of the store.
func (s *Store) WithTx(ctx context.Context, fn func(engine.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", wrapSQLiteError(err))
	}
	defer tx.Rollback()

	if err := fn(&queries{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapSQLiteError(err)
	}
	return nil
}

// SaveDerivation at the Store level runs inside its own transaction; the
// queries-level version assumes the caller already holds one.
func (s *Store) SaveDerivation(ctx context.Context, interval engine.WorkInterval, rows []engine.LedgerRow, costRows []engine.CostCodeRow) error {
	return s.WithTx(ctx, func(st engine.Store) error {
		return st.SaveDerivation(ctx, interval, rows, costRows)
	})
}

// =============================================================================
// INTERVALS AND DERIVED ROWS (engine.Store)
// =============================================================================

func (q *queries) SaveDerivation(ctx context.Context, interval engine.WorkInterval, rows []engine.LedgerRow, costRows []engine.CostCodeRow) error {
	// Re-derivation replaces the whole row set.
	if _, err := q.q.ExecContext(ctx, "DELETE FROM interval_rows WHERE interval_id = ?", interval.ID); err != nil {
		return wrapSQLiteError(err)
	}
	if _, err := q.q.ExecContext(ctx, "DELETE FROM interval_cost_rows WHERE interval_id = ?", interval.ID); err != nil {
		return wrapSQLiteError(err)
	}

	_, err := q.q.ExecContext(ctx, `
		INSERT INTO intervals (id, employee_id, start_at, duration_seconds, policy_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			start_at = excluded.start_at,
			duration_seconds = excluded.duration_seconds,
			policy_id = excluded.policy_id`,
		interval.ID, interval.EmployeeID,
		interval.Start.Format(time.RFC3339), interval.Duration,
		interval.PolicyID, interval.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return wrapSQLiteError(err)
	}

	for _, row := range rows {
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO interval_rows (interval_id, date, worked_seconds, payout_seconds)
			VALUES (?, ?, ?, ?)`,
			row.IntervalID, row.Date.Format(dateLayout), row.WorkedSeconds, row.PayoutSeconds,
		)
		if err != nil {
			return wrapSQLiteError(err)
		}
	}
	for _, row := range costRows {
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO interval_cost_rows (interval_id, code, seconds)
			VALUES (?, ?, ?)`,
			row.IntervalID, row.Code, row.Seconds,
		)
		if err != nil {
			return wrapSQLiteError(err)
		}
	}
	return nil
}

func (q *queries) GetInterval(ctx context.Context, id engine.IntervalID) (engine.WorkInterval, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT id, employee_id, start_at, duration_seconds, policy_id, created_at
		FROM intervals WHERE id = ?`, id)

	interval, err := scanInterval(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.WorkInterval{}, fmt.Errorf("interval %s: %w", id, engine.ErrNotFound)
	}
	return interval, err
}

func (q *queries) LedgerRows(ctx context.Context, id engine.IntervalID) ([]engine.LedgerRow, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT interval_id, date, worked_seconds, payout_seconds
		FROM interval_rows WHERE interval_id = ?
		ORDER BY date ASC`, id)
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.LedgerRow
	for rows.Next() {
		var r engine.LedgerRow
		var date string
		if err := rows.Scan(&r.IntervalID, &date, &r.WorkedSeconds, &r.PayoutSeconds); err != nil {
			return nil, err
		}
		r.Date, _ = time.Parse(dateLayout, date)
		result = append(result, r)
	}
	return result, rows.Err()
}

func (q *queries) CostCodeRows(ctx context.Context, id engine.IntervalID) ([]engine.CostCodeRow, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT interval_id, code, seconds
		FROM interval_cost_rows WHERE interval_id = ?
		ORDER BY code ASC`, id)
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.CostCodeRow
	for rows.Next() {
		var r engine.CostCodeRow
		if err := rows.Scan(&r.IntervalID, &r.Code, &r.Seconds); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (q *queries) ListIntervals(ctx context.Context, employee engine.EmployeeID, from, to time.Time, limit int) ([]engine.WorkInterval, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, employee_id, start_at, duration_seconds, policy_id, created_at
		FROM intervals
		WHERE employee_id = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at DESC
		LIMIT ?`,
		employee, from.Format(time.RFC3339), to.Format(time.RFC3339), limit)
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.WorkInterval
	for rows.Next() {
		interval, err := scanInterval(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, interval)
	}
	return result, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInterval(row scanner) (engine.WorkInterval, error) {
	var interval engine.WorkInterval
	var startAt, createdAt string
	err := row.Scan(&interval.ID, &interval.EmployeeID, &startAt,
		&interval.Duration, &interval.PolicyID, &createdAt)
	if err != nil {
		return interval, err
	}
	interval.Start, _ = time.Parse(time.RFC3339, startAt)
	interval.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return interval, nil
}

// =============================================================================
// ACCRUALS AND CLAIMS (engine.Store)
// =============================================================================

func (q *queries) AccrualRows(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) ([]engine.AccrualRow, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT i.start_at, p.valid_for_days, r.payout_seconds
		FROM interval_rows r
		JOIN intervals i ON i.id = r.interval_id
		JOIN policies p ON p.id = i.policy_id
		WHERE i.employee_id = ? AND p.category_id = ?`,
		employee, category)
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.AccrualRow
	for rows.Next() {
		var r engine.AccrualRow
		var startAt string
		if err := rows.Scan(&startAt, &r.ValidForDays, &r.PayoutSeconds); err != nil {
			return nil, err
		}
		r.IntervalStart, _ = time.Parse(time.RFC3339, startAt)
		result = append(result, r)
	}
	return result, rows.Err()
}

func (q *queries) ClaimedSeconds(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) (engine.Seconds, error) {
	var total engine.Seconds
	err := q.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(claimed_seconds), 0)
		FROM claims WHERE employee_id = ? AND category_id = ?`,
		employee, category).Scan(&total)
	if err != nil {
		return 0, wrapSQLiteError(err)
	}
	return total, nil
}

func (q *queries) SaveClaim(ctx context.Context, claim engine.Claim) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO claims (id, employee_id, category_id, claimed_seconds, claim_date)
		VALUES (?, ?, ?, ?, ?)`,
		claim.ID, claim.EmployeeID, claim.CategoryID,
		claim.ClaimedSeconds, claim.ClaimDate.UTC().Format(time.RFC3339),
	)
	return wrapSQLiteError(err)
}

func (q *queries) ListClaims(ctx context.Context, employee engine.EmployeeID, category engine.CategoryID) ([]engine.Claim, error) {
	query := `
		SELECT id, employee_id, category_id, claimed_seconds, claim_date
		FROM claims WHERE employee_id = ?`
	args := []any{employee}
	if category != "" {
		query += " AND category_id = ?"
		args = append(args, category)
	}
	query += " ORDER BY claim_date DESC"

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.Claim
	for rows.Next() {
		var c engine.Claim
		var claimDate string
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.CategoryID, &c.ClaimedSeconds, &claimDate); err != nil {
			return nil, err
		}
		c.ClaimDate, _ = time.Parse(time.RFC3339, claimDate)
		result = append(result, c)
	}
	return result, rows.Err()
}

func (q *queries) EmployeeExists(ctx context.Context, employee engine.EmployeeID) (bool, error) {
	var count int
	err := q.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM employees WHERE id = ?", employee).Scan(&count)
	if err != nil {
		return false, wrapSQLiteError(err)
	}
	return count > 0, nil
}

// =============================================================================
// POLICIES (engine.Store)
// =============================================================================

func (q *queries) SavePolicy(ctx context.Context, p engine.Policy) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO policies (id, name, category_id, valid_for_days, base_threshold, holiday_code, rest_day_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category_id = excluded.category_id,
			valid_for_days = excluded.valid_for_days,
			base_threshold = excluded.base_threshold,
			holiday_code = excluded.holiday_code,
			rest_day_code = excluded.rest_day_code`,
		p.ID, p.Name, p.Category, p.ValidForDays, p.BaseThreshold, p.HolidayCode, p.RestDayCode,
	)
	return wrapSQLiteError(err)
}

func (q *queries) GetPolicy(ctx context.Context, id engine.PolicyID) (engine.Policy, error) {
	var p engine.Policy
	err := q.q.QueryRowContext(ctx, `
		SELECT id, name, category_id, valid_for_days, base_threshold, holiday_code, rest_day_code
		FROM policies WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.ValidForDays, &p.BaseThreshold, &p.HolidayCode, &p.RestDayCode)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Policy{}, fmt.Errorf("%s: %w", id, engine.ErrPolicyNotFound)
	}
	if err != nil {
		return engine.Policy{}, wrapSQLiteError(err)
	}
	return p, nil
}

func (q *queries) ListPolicies(ctx context.Context) ([]engine.Policy, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, name, category_id, valid_for_days, base_threshold, holiday_code, rest_day_code
		FROM policies ORDER BY id`)
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.Policy
	for rows.Next() {
		var p engine.Policy
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.ValidForDays,
			&p.BaseThreshold, &p.HolidayCode, &p.RestDayCode); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (q *queries) DeletePolicy(ctx context.Context, id engine.PolicyID) error {
	var count int
	err := q.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM intervals WHERE policy_id = ?", id).Scan(&count)
	if err != nil {
		return wrapSQLiteError(err)
	}
	if count > 0 {
		return fmt.Errorf("policy %s: %w", id, engine.ErrReferenced)
	}
	_, err = q.q.ExecContext(ctx, "DELETE FROM policies WHERE id = ?", id)
	return wrapSQLiteError(err)
}

// =============================================================================
// CATEGORIES AND COST CODES (engine.Store)
// =============================================================================

func (q *queries) SaveCategory(ctx context.Context, c engine.PenaltyType) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO penalty_types (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		c.ID, c.Name,
	)
	return wrapSQLiteError(err)
}

func (q *queries) GetCategory(ctx context.Context, id engine.CategoryID) (engine.PenaltyType, error) {
	var c engine.PenaltyType
	err := q.q.QueryRowContext(ctx,
		"SELECT id, name FROM penalty_types WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.PenaltyType{}, fmt.Errorf("category %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return engine.PenaltyType{}, wrapSQLiteError(err)
	}
	return c, nil
}

func (q *queries) ListCategories(ctx context.Context) ([]engine.PenaltyType, error) {
	rows, err := q.q.QueryContext(ctx, "SELECT id, name FROM penalty_types ORDER BY id")
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.PenaltyType
	for rows.Next() {
		var c engine.PenaltyType
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (q *queries) DeleteCategory(ctx context.Context, id engine.CategoryID) error {
	var count int
	err := q.q.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM policies WHERE category_id = ?) +
		       (SELECT COUNT(*) FROM claims WHERE category_id = ?)`,
		id, id).Scan(&count)
	if err != nil {
		return wrapSQLiteError(err)
	}
	if count > 0 {
		return fmt.Errorf("category %s: %w", id, engine.ErrReferenced)
	}
	_, err = q.q.ExecContext(ctx, "DELETE FROM penalty_types WHERE id = ?", id)
	return wrapSQLiteError(err)
}

func (q *queries) SaveCostCode(ctx context.Context, c engine.CostCodeInfo) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO cost_codes (code, name, short_code) VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			short_code = excluded.short_code`,
		c.Code, c.Name, c.ShortCode,
	)
	return wrapSQLiteError(err)
}

func (q *queries) ListCostCodes(ctx context.Context) ([]engine.CostCodeInfo, error) {
	rows, err := q.q.QueryContext(ctx, "SELECT code, name, short_code FROM cost_codes ORDER BY code")
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.CostCodeInfo
	for rows.Next() {
		var c engine.CostCodeInfo
		if err := rows.Scan(&c.Code, &c.Name, &c.ShortCode); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// =============================================================================
// EMPLOYEES AND TEAMS (org.Store)
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e org.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, username, first_name, last_name, team_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			team_id = excluded.team_id`,
		e.ID, e.Username, e.FirstName, e.LastName, nullString(string(e.TeamID)),
	)
	return wrapSQLiteError(err)
}

func (s *Store) GetEmployee(ctx context.Context, id engine.EmployeeID) (org.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, first_name, last_name, team_id
		FROM employees WHERE id = ?`, id)

	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return org.Employee{}, fmt.Errorf("employee %s: %w", id, engine.ErrNotFound)
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]org.Employee, error) {
	return s.queryEmployees(ctx, `
		SELECT id, username, first_name, last_name, team_id
		FROM employees ORDER BY username`)
}

func (s *Store) DeleteEmployee(ctx context.Context, id engine.EmployeeID) error {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM intervals WHERE employee_id = ?) +
		       (SELECT COUNT(*) FROM claims WHERE employee_id = ?)`,
		id, id).Scan(&count)
	if err != nil {
		return wrapSQLiteError(err)
	}
	if count > 0 {
		return fmt.Errorf("employee %s: %w", id, engine.ErrReferenced)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return wrapSQLiteError(err)
}

func (s *Store) SaveTeam(ctx context.Context, t org.Team) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, name, manager_id) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			manager_id = excluded.manager_id`,
		t.ID, t.Name, nullString(string(t.ManagerID)),
	)
	return wrapSQLiteError(err)
}

func (s *Store) GetTeam(ctx context.Context, id org.TeamID) (org.Team, error) {
	var t org.Team
	var manager sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, manager_id FROM teams WHERE id = ?", id,
	).Scan(&t.ID, &t.Name, &manager)
	if errors.Is(err, sql.ErrNoRows) {
		return org.Team{}, fmt.Errorf("team %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return org.Team{}, wrapSQLiteError(err)
	}
	t.ManagerID = engine.EmployeeID(manager.String)
	return t, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]org.Team, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, manager_id FROM teams ORDER BY name")
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []org.Team
	for rows.Next() {
		var t org.Team
		var manager sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &manager); err != nil {
			return nil, err
		}
		t.ManagerID = engine.EmployeeID(manager.String)
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *Store) DeleteTeam(ctx context.Context, id org.TeamID) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM employees WHERE team_id = ?", id).Scan(&count)
	if err != nil {
		return wrapSQLiteError(err)
	}
	if count > 0 {
		return fmt.Errorf("team %s: %w", id, engine.ErrReferenced)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	return wrapSQLiteError(err)
}

func (s *Store) ListTeamMembers(ctx context.Context, id org.TeamID) ([]org.Employee, error) {
	return s.queryEmployees(ctx, `
		SELECT id, username, first_name, last_name, team_id
		FROM employees WHERE team_id = ? ORDER BY username`, id)
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]org.Employee, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []org.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func scanEmployee(row scanner) (org.Employee, error) {
	var e org.Employee
	var team sql.NullString
	err := row.Scan(&e.ID, &e.Username, &e.FirstName, &e.LastName, &team)
	if err != nil {
		return e, err
	}
	e.TeamID = org.TeamID(team.String)
	return e, nil
}

// =============================================================================
// HOLIDAY CALENDAR (engine.HolidayStore)
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h engine.Holiday) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (date, name) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET name = excluded.name`,
		h.Date.Format(dateLayout), h.Name,
	)
	return wrapSQLiteError(err)
}

func (s *Store) DeleteHoliday(ctx context.Context, date time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM holidays WHERE date = ?", date.Format(dateLayout))
	if err != nil {
		return wrapSQLiteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("holiday %s: %w", date.Format(dateLayout), engine.ErrNotFound)
	}
	return nil
}

func (s *Store) ListHolidays(ctx context.Context) ([]engine.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date, name FROM holidays ORDER BY date")
	if err != nil {
		return nil, wrapSQLiteError(err)
	}
	defer rows.Close()

	var result []engine.Holiday
	for rows.Next() {
		var h engine.Holiday
		var date string
		if err := rows.Scan(&date, &h.Name); err != nil {
			return nil, err
		}
		h.Date, _ = time.Parse(dateLayout, date)
		result = append(result, h)
	}
	return result, rows.Err()
}

// IsHoliday implements engine.HolidayCalendar. Lookup failures read as
// non-holidays; the classifier has no error channel.
func (s *Store) IsHoliday(date time.Time) bool {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM holidays WHERE date = ?", date.Format(dateLayout)).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// =============================================================================
// PAY PERIOD SETTING
// =============================================================================

const payPeriodKey = "pay_period_start"

func (s *Store) GetPayPeriod(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", payPeriodKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("pay period setting: %w", engine.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, wrapSQLiteError(err)
	}
	start, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt pay period setting %q: %w", value, err)
	}
	return start, nil
}

func (s *Store) SetPayPeriod(ctx context.Context, start time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		payPeriodKey, start.UTC().Format(time.RFC3339),
	)
	return wrapSQLiteError(err)
}

func (s *Store) AdvancePayPeriod(ctx context.Context, days int) (time.Time, error) {
	start, err := s.GetPayPeriod(ctx)
	if err != nil {
		return time.Time{}, err
	}
	next := start.AddDate(0, 0, days)
	if err := s.SetPayPeriod(ctx, next); err != nil {
		return time.Time{}, err
	}
	return next, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// wrapSQLiteError maps driver-level contention errors onto the engine's
// retryable sentinel so callers can classify them.
func wrapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked") {
		return fmt.Errorf("%w: %v", engine.ErrConflict, err)
	}
	return err
}
