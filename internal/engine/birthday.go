package engine

import "time"

// NextBirthday returns the next anniversary of birth on or after today and the
// age reached on it. Birthdays falling today count as the next occurrence.
// A February 29th birth date falls on March 1st in common years.
func NextBirthday(birth, today Date) (Date, int) {
	candidate := anniversary(birth, today.Year)
	if candidate.Before(today) {
		candidate = anniversary(birth, today.Year+1)
	}
	return candidate, candidate.Year - birth.Year
}

// DaysUntil counts whole days from today to target; negative when target is past.
func DaysUntil(today, target Date) int {
	return int(target.Time(time.UTC).Sub(today.Time(time.UTC)).Hours() / 24)
}

// IsBirthday reports whether today is an anniversary of birth.
func IsBirthday(birth, today Date) bool {
	return anniversary(birth, today.Year) == today
}

// anniversary places birth's month and day in year, normalised by time.Date.
func anniversary(birth Date, year int) Date {
	return DateOf(time.Date(year, birth.Month, birth.Day, 0, 0, 0, 0, time.UTC))
}
