/*
Package factory provides JSON to Go policy conversion and default
reference data.

PURPOSE:
  Converts JSON policy definitions into engine.Policy values. This
  enables policy configuration without code changes - payroll admins can
  define policies in JSON, and the factory creates the proper Go structs.

WHY JSON?
  - Non-developers can modify policies
  - Easy integration with admin UI
  - Version control for policy definitions
  - Database storage of policy configs

JSON SCHEMA:
  {
    "id": "night-shift",
    "name": "Night shift penalty",
    "category": "paid",
    "valid_for_days": 14,
    "base_threshold_seconds": 7200,
    "holiday_code": "PREMIUM",
    "rest_day_code": "PREMIUM"
  }

DEFAULTS:
  - valid_for_days: 14 when omitted or non-positive
  - holiday_code / rest_day_code: "PREMIUM" when omitted

USAGE:
  factory := NewPolicyFactory()
  policy, err := factory.ParsePolicy(jsonString)

  // Seed default reference data into a fresh store
  if err := factory.Seed(ctx, store); err != nil { ... }

SEE ALSO:
  - engine/types.go: Policy type definition
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/warp/timesheet-engine/engine"
)

// DefaultValidForDays is the expiry window applied when a policy
// definition omits one.
const DefaultValidForDays = 14

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a policy.
type PolicyJSON struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Category             string `json:"category"`
	ValidForDays         int    `json:"valid_for_days,omitempty"`
	BaseThresholdSeconds int64  `json:"base_threshold_seconds"`
	HolidayCode          string `json:"holiday_code,omitempty"`
	RestDayCode          string `json:"rest_day_code,omitempty"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to engine.Policy values.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy parses a JSON string into an engine.Policy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (engine.Policy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return engine.Policy{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PolicyJSON to engine.Policy, applying defaults.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (engine.Policy, error) {
	if pj.ID == "" {
		return engine.Policy{}, fmt.Errorf("policy requires an id")
	}
	if pj.Category == "" {
		return engine.Policy{}, fmt.Errorf("policy %s requires a category", pj.ID)
	}
	if pj.BaseThresholdSeconds < 0 {
		return engine.Policy{}, fmt.Errorf("policy %s: negative base threshold", pj.ID)
	}

	policy := engine.Policy{
		ID:            engine.PolicyID(pj.ID),
		Name:          pj.Name,
		Category:      engine.CategoryID(pj.Category),
		ValidForDays:  pj.ValidForDays,
		BaseThreshold: engine.Seconds(pj.BaseThresholdSeconds),
		HolidayCode:   engine.CostCode(pj.HolidayCode),
		RestDayCode:   engine.CostCode(pj.RestDayCode),
	}
	if policy.ValidForDays <= 0 {
		policy.ValidForDays = DefaultValidForDays
	}
	if policy.HolidayCode == "" {
		policy.HolidayCode = engine.CodePremium
	}
	if policy.RestDayCode == "" {
		policy.RestDayCode = engine.CodePremium
	}
	return policy, nil
}

// ToJSON converts an engine.Policy back to its JSON representation.
func (f *PolicyFactory) ToJSON(policy engine.Policy) PolicyJSON {
	return PolicyJSON{
		ID:                   string(policy.ID),
		Name:                 policy.Name,
		Category:             string(policy.Category),
		ValidForDays:         policy.ValidForDays,
		BaseThresholdSeconds: int64(policy.BaseThreshold),
		HolidayCode:          string(policy.HolidayCode),
		RestDayCode:          string(policy.RestDayCode),
	}
}

// =============================================================================
// DEFAULT REFERENCE DATA
// =============================================================================

// DefaultCostCodes returns the three codes the allocator emits.
func DefaultCostCodes() []engine.CostCodeInfo {
	return []engine.CostCodeInfo{
		{Code: engine.CodeBase, Name: "Base rate", ShortCode: "B"},
		{Code: engine.CodeOvertime, Name: "Overtime", ShortCode: "OT"},
		{Code: engine.CodePremium, Name: "Premium day", ShortCode: "PR"},
	}
}

// DefaultCategories returns the stock penalty categories.
func DefaultCategories() []engine.PenaltyType {
	return []engine.PenaltyType{
		{ID: "paid", Name: "Paid"},
		{ID: "toil", Name: "Toil"},
	}
}

// StandardShiftJSON builds the JSON definition of a standard shift
// penalty policy.
func StandardShiftJSON(id, name, category string, thresholdSeconds int64) string {
	pj := PolicyJSON{
		ID:                   id,
		Name:                 name,
		Category:             category,
		ValidForDays:         DefaultValidForDays,
		BaseThresholdSeconds: thresholdSeconds,
		HolidayCode:          string(engine.CodePremium),
		RestDayCode:          string(engine.CodePremium),
	}
	b, _ := json.Marshal(pj)
	return string(b)
}

// Seed writes the default cost codes and categories into a store.
// Idempotent: saves are upserts.
func (f *PolicyFactory) Seed(ctx context.Context, store engine.Store) error {
	for _, code := range DefaultCostCodes() {
		if err := store.SaveCostCode(ctx, code); err != nil {
			return fmt.Errorf("seed cost code %s: %w", code.Code, err)
		}
	}
	for _, category := range DefaultCategories() {
		if err := store.SaveCategory(ctx, category); err != nil {
			return fmt.Errorf("seed category %s: %w", category.ID, err)
		}
	}
	return nil
}
