package engine

import (
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// AgeResult is an elapsed age in whole calendar units.
// Months is within [0,11]; Days never exceeds the length of the month
// preceding "today".
type AgeResult struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// Calculate validates parts against today and returns the age of someone
// born on that date. On invalid input the error is a ValidationErrors holding
// every rejected field and the AgeResult is zero.
//
// Calculate is pure: the same inputs always give the same outputs.
func Calculate(parts DateParts, today Date) (AgeResult, error) {
	errs := validate(parts, today)
	if len(errs) > 0 {
		return AgeResult{}, errs
	}

	birth := NewDate(parts.Year.Value, time.Month(parts.Month.Value), parts.Day.Value)
	if birth.After(today) {
		return AgeResult{}, futureDate()
	}

	age := decompose(birth, today)
	if age.Years < 0 {
		// Unreachable while the future-date guard above holds.
		return AgeResult{}, futureDate()
	}
	return age, nil
}

// validate runs every field check and collects all failures.
func validate(parts DateParts, today Date) ValidationErrors {
	errs := ValidationErrors{}

	month := parts.Month
	if !month.Valid || month.Value < config.MinMonth || month.Value > config.MaxMonth {
		errs.set(FieldMonth, CodeInvalidMonth, config.MsgInvalidMonth)
	}

	year := parts.Year
	switch {
	case !year.Valid:
		errs.set(FieldYear, CodeYearNotANumber, config.MsgInvalidYear)
	case year.Value > today.Year:
		errs.set(FieldYear, CodeYearTooLarge, config.MsgInThePast)
	case year.Value < config.MinYear:
		errs.set(FieldYear, CodeYearTooSmall, config.MsgInvalidYear)
	}

	day := parts.Day
	switch {
	case !day.Valid:
		errs.set(FieldDay, CodeDayNotANumber, config.MsgInvalidDay)
	case day.Value < config.MinDay:
		errs.set(FieldDay, CodeDayOutOfRange, config.MsgInvalidDay)
	case month.Valid && year.Valid:
		// Runs even when month or year failed its own range check: an
		// out-of-range month normalises into the following year.
		if day.Value > DaysInMonth(year.Value, time.Month(month.Value)) {
			errs.set(FieldDay, CodeDayExceedsMonthLength, config.MsgInvalidDay)
		}
	}

	return errs
}

// decompose subtracts birth from today component by component, borrowing a
// month's worth of days and a year's worth of months when a unit goes negative.
func decompose(birth, today Date) AgeResult {
	years := today.Year - birth.Year
	months := int(today.Month) - int(birth.Month)
	days := today.Day - birth.Day

	if days < 0 {
		days += daysInPrecedingMonth(today)
		months--
		if days < 0 {
			// Born on the 31st and today is early March: the preceding
			// month is too short to borrow from, so the month counts as
			// just completed. Several birth days therefore map to the same
			// age (Jan 30, Jan 31 and Feb 1 are all {0,1,0} on 2023-03-01).
			days = 0
		}
	}
	if months < 0 {
		months += config.MonthsPerYear
		years--
	}

	return AgeResult{Years: years, Months: months, Days: days}
}

func futureDate() ValidationErrors {
	errs := ValidationErrors{}
	errs.set(FieldYear, CodeFutureDate, config.MsgInThePast)
	return errs
}
