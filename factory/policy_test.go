package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/engine/store"
)

func TestParsePolicy(t *testing.T) {
	f := NewPolicyFactory()

	policy, err := f.ParsePolicy(`{
		"id": "night-shift",
		"name": "Night shift penalty",
		"category": "paid",
		"valid_for_days": 28,
		"base_threshold_seconds": 7200,
		"holiday_code": "HOL",
		"rest_day_code": "RST"
	}`)
	require.NoError(t, err)

	assert.Equal(t, engine.PolicyID("night-shift"), policy.ID)
	assert.Equal(t, engine.CategoryID("paid"), policy.Category)
	assert.Equal(t, 28, policy.ValidForDays)
	assert.Equal(t, engine.Seconds(7200), policy.BaseThreshold)
	assert.Equal(t, engine.CostCode("HOL"), policy.HolidayCode)
	assert.Equal(t, engine.CostCode("RST"), policy.RestDayCode)
}

func TestParsePolicy_Defaults(t *testing.T) {
	f := NewPolicyFactory()

	policy, err := f.ParsePolicy(`{"id": "p1", "category": "paid", "base_threshold_seconds": 0}`)
	require.NoError(t, err)

	assert.Equal(t, DefaultValidForDays, policy.ValidForDays)
	assert.Equal(t, engine.CodePremium, policy.HolidayCode)
	assert.Equal(t, engine.CodePremium, policy.RestDayCode)
}

func TestParsePolicy_Invalid(t *testing.T) {
	f := NewPolicyFactory()

	_, err := f.ParsePolicy(`{"category": "paid"}`)
	assert.Error(t, err, "missing id")

	_, err = f.ParsePolicy(`{"id": "p1"}`)
	assert.Error(t, err, "missing category")

	_, err = f.ParsePolicy(`{"id": "p1", "category": "paid", "base_threshold_seconds": -1}`)
	assert.Error(t, err, "negative threshold")

	_, err = f.ParsePolicy(`not json`)
	assert.Error(t, err)
}

func TestToJSON_Roundtrip(t *testing.T) {
	f := NewPolicyFactory()

	original, err := f.ParsePolicy(StandardShiftJSON("night", "Night shift", "paid", 7200))
	require.NoError(t, err)

	restored, err := f.FromJSON(f.ToJSON(original))
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestSeed(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, NewPolicyFactory().Seed(ctx, mem))

	codes, err := mem.ListCostCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, codes, 3)

	categories, err := mem.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	// Seeding twice must not error or duplicate.
	require.NoError(t, NewPolicyFactory().Seed(ctx, mem))
	codes, err = mem.ListCostCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, codes, 3)
}
