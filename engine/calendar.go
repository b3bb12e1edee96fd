package engine

import (
	"context"
	"time"
)

// =============================================================================
// DAY CLASSIFIER - Injected capability, not an ambient lookup
// =============================================================================

// DayClassifier returns the rate class of a calendar date. The engine
// never decides what counts as a holiday; a classifier supplies this.
type DayClassifier interface {
	ClassifyDay(date time.Time) DayClass
}

// HolidayCalendar answers whether a date is a designated holiday. The
// concrete source of holiday data is a collaborator concern; the engine
// only consumes the lookup.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// Holiday is a designated holiday date. Date is midnight of the day.
type Holiday struct {
	Date time.Time
	Name string
}

// HolidayStore persists the holiday calendar.
type HolidayStore interface {
	HolidayCalendar
	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, date time.Time) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

// NoHolidays is the default calendar: nothing is a holiday.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(time.Time) bool { return false }

// StandardClassifier classifies holidays from a calendar, Sundays as the
// designated rest day, and everything else as ordinary.
type StandardClassifier struct {
	Holidays HolidayCalendar
}

func NewStandardClassifier(holidays HolidayCalendar) *StandardClassifier {
	if holidays == nil {
		holidays = NoHolidays{}
	}
	return &StandardClassifier{Holidays: holidays}
}

func (c *StandardClassifier) ClassifyDay(date time.Time) DayClass {
	if c.Holidays.IsHoliday(date) {
		return DayHoliday
	}
	if date.Weekday() == time.Sunday {
		return DayRestDay
	}
	return DayOrdinary
}

// ClassifierFunc adapts a function to the DayClassifier interface.
type ClassifierFunc func(date time.Time) DayClass

func (f ClassifierFunc) ClassifyDay(date time.Time) DayClass { return f(date) }

// =============================================================================
// CLOCK - Injected time source for deterministic expiry evaluation
// =============================================================================

// Clock supplies the current time. Expiry logic depends on "now", so the
// clock is a parameter rather than a hidden ambient value.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. For tests.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
