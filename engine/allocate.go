/*
allocate.go - Threshold cost-code allocation

PURPOSE:
  Allocates an interval's worked seconds across cost codes. Holiday and
  rest-day segments go wholesale to the policy's premium codes and never
  interact with the threshold. Ordinary segments fill BASE up to the
  policy's base threshold, then spill to OVERTIME.

CARRY-OVER:
  The threshold is per interval, not per day: the seconds already
  allocated to BASE are threaded segment-to-segment as an explicit fold
  accumulator. A night shift crossing midnight does not reset its
  overtime eligibility at the date line.

MERGE RULE:
  Output rows are keyed (interval, code). A segment allocating to a code
  that already has a bucket increments it; the allocator never emits two
  rows for the same code.

INVARIANT:
  Seconds are conserved: the sum of allocated seconds always equals the
  sum of segment worked seconds.
*/
package engine

// Allocator holds the per-policy allocation parameters.
type Allocator struct {
	Threshold   Seconds
	HolidayCode CostCode
	RestDayCode CostCode
}

// NewAllocator builds an allocator from a policy.
func NewAllocator(p Policy) Allocator {
	a := Allocator{
		Threshold:   p.BaseThreshold,
		HolidayCode: p.HolidayCode,
		RestDayCode: p.RestDayCode,
	}
	if a.HolidayCode == "" {
		a.HolidayCode = CodePremium
	}
	if a.RestDayCode == "" {
		a.RestDayCode = CodePremium
	}
	return a
}

// Allocate folds over one interval's segments in chronological order and
// returns the merged cost-code rows. segments and classes are parallel
// slices; the fold is strictly sequential because the accumulator carries
// across day boundaries.
func (a Allocator) Allocate(intervalID IntervalID, segments []Segment, classes []DayClass) []CostCodeRow {
	buckets := make(map[CostCode]Seconds)
	var order []CostCode

	add := func(code CostCode, secs Seconds) {
		if secs <= 0 {
			return
		}
		if _, seen := buckets[code]; !seen {
			order = append(order, code)
		}
		buckets[code] += secs
	}

	var prior Seconds // seconds already allocated to BASE for this interval
	for i, seg := range segments {
		switch classes[i] {
		case DayHoliday:
			add(a.HolidayCode, seg.Worked)
		case DayRestDay:
			add(a.RestDayCode, seg.Worked)
		default:
			toBase := a.Threshold - prior
			if toBase > seg.Worked {
				toBase = seg.Worked
			}
			if toBase < 0 {
				toBase = 0
			}
			add(CodeBase, toBase)
			add(CodeOvertime, seg.Worked-toBase)
			prior += toBase
		}
	}

	rows := make([]CostCodeRow, 0, len(order))
	for _, code := range order {
		rows = append(rows, CostCodeRow{IntervalID: intervalID, Code: code, Seconds: buckets[code]})
	}
	return rows
}
