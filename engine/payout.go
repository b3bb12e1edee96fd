/*
payout.go - Day-class multiplier payout

PURPOSE:
  Converts a segment's worked seconds into payout seconds by applying the
  day-class multiplier:

    ORDINARY  1.5x
    REST_DAY  2.0x
    HOLIDAY   2.5x

  Rounding is half-up to the nearest whole second, done in decimal
  arithmetic to keep fractional multipliers exact. The calculation is
  stateless and order-independent across segments.
*/
package engine

import "github.com/shopspring/decimal"

var multipliers = map[DayClass]decimal.Decimal{
	DayOrdinary: decimal.NewFromFloat(1.5),
	DayRestDay:  decimal.NewFromFloat(2.0),
	DayHoliday:  decimal.NewFromFloat(2.5),
}

// Multiplier returns the rate multiplier for a day class. Unknown classes
// fall back to the ordinary rate.
func Multiplier(class DayClass) decimal.Decimal {
	if m, ok := multipliers[class]; ok {
		return m
	}
	return multipliers[DayOrdinary]
}

// Payout returns worked seconds after the day-class multiplier, rounded
// half-up to a whole second.
func Payout(worked Seconds, class DayClass) Seconds {
	p := decimal.NewFromInt(int64(worked)).Mul(Multiplier(class)).Round(0)
	return Seconds(p.IntPart())
}

// =============================================================================
// PAYOUT CALCULATOR - Segments to ledger rows
// =============================================================================

// PayoutCalculator derives ledger rows from an interval's segments using
// an injected day classifier.
type PayoutCalculator struct {
	Classifier DayClassifier
}

// Rows produces one ledger row per segment, in segment order.
func (pc PayoutCalculator) Rows(intervalID IntervalID, segments []Segment) []LedgerRow {
	rows := make([]LedgerRow, len(segments))
	for i, seg := range segments {
		class := pc.Classifier.ClassifyDay(seg.Date)
		rows[i] = LedgerRow{
			IntervalID:    intervalID,
			Date:          seg.Date,
			WorkedSeconds: seg.Worked,
			PayoutSeconds: Payout(seg.Worked, class),
		}
	}
	return rows
}

// Classes returns the day class of each segment, in segment order. The
// allocator consumes these alongside the segments themselves.
func (pc PayoutCalculator) Classes(segments []Segment) []DayClass {
	classes := make([]DayClass, len(segments))
	for i, seg := range segments {
		classes[i] = pc.Classifier.ClassifyDay(seg.Date)
	}
	return classes
}
