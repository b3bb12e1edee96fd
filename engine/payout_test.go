package engine_test

import (
	"testing"
	"time"

	"github.com/warp/timesheet-engine/engine"
)

// =============================================================================
// MULTIPLIER PAYOUT TESTS
// =============================================================================

func TestPayout_Multipliers(t *testing.T) {
	cases := []struct {
		class  engine.DayClass
		worked engine.Seconds
		want   engine.Seconds
	}{
		{engine.DayOrdinary, 3600, 5400},
		{engine.DayRestDay, 3600, 7200},
		{engine.DayHoliday, 3600, 9000},
	}

	for _, tc := range cases {
		if got := engine.Payout(tc.worked, tc.class); got != tc.want {
			t.Errorf("%s: Payout(%d) = %d, want %d", tc.class, tc.worked, got, tc.want)
		}
	}
}

func TestPayout_RoundsHalfUp(t *testing.T) {
	// 1s ordinary -> 1.5 -> 2; 3s ordinary -> 4.5 -> 5
	if got := engine.Payout(1, engine.DayOrdinary); got != 2 {
		t.Errorf("Payout(1) = %d, want 2", got)
	}
	if got := engine.Payout(3, engine.DayOrdinary); got != 5 {
		t.Errorf("Payout(3) = %d, want 5", got)
	}
}

func TestPayout_Monotonicity(t *testing.T) {
	// Payout monotonicity property: every multiplier is >= 1.0, so payout
	// seconds never fall below worked seconds.

	classes := []engine.DayClass{engine.DayOrdinary, engine.DayRestDay, engine.DayHoliday}
	for _, class := range classes {
		for _, worked := range []engine.Seconds{1, 59, 3600, 86399, 86400} {
			if got := engine.Payout(worked, class); got < worked {
				t.Errorf("%s: payout %d < worked %d", class, got, worked)
			}
		}
	}
}

func TestPayoutCalculator_RowsFollowClassifier(t *testing.T) {
	// GIVEN: Segments on a Saturday and a Sunday with the standard classifier
	// WHEN: Deriving rows
	// THEN: Saturday prices ordinary, Sunday prices as the rest day

	calc := engine.PayoutCalculator{Classifier: engine.NewStandardClassifier(nil)}
	segments := []engine.Segment{
		{Date: day(2025, time.March, 8), Worked: 3600}, // Saturday
		{Date: day(2025, time.March, 9), Worked: 3600}, // Sunday
	}

	rows := calc.Rows("iv-1", segments)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].PayoutSeconds != 5400 {
		t.Errorf("Saturday payout = %d, want 5400", rows[0].PayoutSeconds)
	}
	if rows[1].PayoutSeconds != 7200 {
		t.Errorf("Sunday payout = %d, want 7200", rows[1].PayoutSeconds)
	}
}

type holidayList []time.Time

func (h holidayList) IsHoliday(date time.Time) bool {
	for _, d := range h {
		if d.Equal(date) {
			return true
		}
	}
	return false
}

func TestStandardClassifier_HolidayWinsOverSunday(t *testing.T) {
	sunday := day(2025, time.March, 9)
	classifier := engine.NewStandardClassifier(holidayList{sunday})

	if got := classifier.ClassifyDay(sunday); got != engine.DayHoliday {
		t.Errorf("ClassifyDay = %s, want HOLIDAY", got)
	}
}
