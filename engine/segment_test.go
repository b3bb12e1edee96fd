package engine_test

import (
	"testing"
	"time"

	"github.com/warp/timesheet-engine/engine"
)

func ts(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// SEGMENTATION TESTS
// =============================================================================

func TestSplitInterval_SameDay_SingleSegment(t *testing.T) {
	// GIVEN: An 8h shift starting 09:00
	// WHEN: Splitting
	// THEN: One segment carrying the full duration

	segments := engine.SplitInterval(ts(2025, time.March, 3, 9, 0), 8*3600)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if !segments[0].Date.Equal(day(2025, time.March, 3)) {
		t.Errorf("wrong segment date: %v", segments[0].Date)
	}
	if segments[0].Worked != 8*3600 {
		t.Errorf("expected %d worked seconds, got %d", 8*3600, segments[0].Worked)
	}
}

func TestSplitInterval_CrossesMidnight(t *testing.T) {
	// GIVEN: A 3h night shift starting Friday 23:00
	// WHEN: Splitting
	// THEN: 1h on Friday, 2h on Saturday, chronological

	segments := engine.SplitInterval(ts(2025, time.March, 7, 23, 0), 3*3600)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if !segments[0].Date.Equal(day(2025, time.March, 7)) || segments[0].Worked != 3600 {
		t.Errorf("segment 0: got %v/%d", segments[0].Date, segments[0].Worked)
	}
	if !segments[1].Date.Equal(day(2025, time.March, 8)) || segments[1].Worked != 7200 {
		t.Errorf("segment 1: got %v/%d", segments[1].Date, segments[1].Worked)
	}
}

func TestSplitInterval_EndsExactlyAtMidnight_NoTrailingSegment(t *testing.T) {
	// GIVEN: A 2h shift ending exactly at midnight
	// WHEN: Splitting
	// THEN: A single full segment and no zero-length trailer

	segments := engine.SplitInterval(ts(2025, time.March, 3, 22, 0), 2*3600)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Worked != 2*3600 {
		t.Errorf("expected %d worked seconds, got %d", 2*3600, segments[0].Worked)
	}
}

func TestSplitInterval_SpansFullDay(t *testing.T) {
	// GIVEN: A 24h interval starting at noon
	// WHEN: Splitting
	// THEN: Two 12h segments

	segments := engine.SplitInterval(ts(2025, time.March, 3, 12, 0), 24*3600)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Worked != 12*3600 {
			t.Errorf("segment %d: expected 12h, got %v", i, seg.Worked.Duration())
		}
	}
}

func TestSplitInterval_Coverage(t *testing.T) {
	// Segment coverage property: worked seconds sum to the duration and
	// dates are contiguous, non-overlapping, chronologically ordered.

	cases := []struct {
		name     string
		start    time.Time
		duration engine.Seconds
	}{
		{"one minute", ts(2025, time.June, 1, 0, 0), 60},
		{"odd seconds across midnight", ts(2025, time.June, 1, 23, 59), 61},
		{"just under a day", ts(2025, time.June, 1, 0, 0), 86399},
		{"full day from midnight", ts(2025, time.June, 1, 0, 0), 86400},
		{"night shift", ts(2025, time.June, 1, 22, 30), 9*3600 + 17},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segments := engine.SplitInterval(tc.start, tc.duration)

			var total engine.Seconds
			for i, seg := range segments {
				total += seg.Worked
				if seg.Worked <= 0 {
					t.Errorf("segment %d has non-positive worked seconds", i)
				}
				if i > 0 {
					expected := segments[i-1].Date.AddDate(0, 0, 1)
					if !seg.Date.Equal(expected) {
						t.Errorf("segment %d not contiguous: %v after %v", i, seg.Date, segments[i-1].Date)
					}
				}
			}
			if total != tc.duration {
				t.Errorf("worked seconds not conserved: %d != %d", total, tc.duration)
			}
		})
	}
}
