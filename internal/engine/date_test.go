package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2024, true},
		{2023, false},
		{2000, true},
		{1900, false},
		{2100, false},
		{1600, true},
		{4, true},
		{1, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLeapYear(tt.year), "year %d", tt.year)
	}
}

// TestDaysInMonth_AgreesWithLeapRule pins February to the leap rule and the
// other months to their fixed lengths.
func TestDaysInMonth_AgreesWithLeapRule(t *testing.T) {
	fixed := map[time.Month]int{
		time.January: 31, time.March: 31, time.April: 30, time.May: 31,
		time.June: 30, time.July: 31, time.August: 31, time.September: 30,
		time.October: 31, time.November: 30, time.December: 31,
	}

	for year := 1890; year <= 2110; year++ {
		wantFeb := 28
		if IsLeapYear(year) {
			wantFeb = 29
		}
		assert.Equal(t, wantFeb, DaysInMonth(year, time.February), "February %d", year)
		for month, want := range fixed {
			assert.Equal(t, want, DaysInMonth(year, month), "%s %d", month, year)
		}
	}
}

func TestDaysInPrecedingMonth(t *testing.T) {
	assert.Equal(t, 31, daysInPrecedingMonth(NewDate(2024, time.January, 10)), "January borrows from December")
	assert.Equal(t, 29, daysInPrecedingMonth(NewDate(2024, time.March, 1)))
	assert.Equal(t, 28, daysInPrecedingMonth(NewDate(2023, time.March, 1)))
	assert.Equal(t, 30, daysInPrecedingMonth(NewDate(2024, time.July, 4)))
}

func TestDate_Compare(t *testing.T) {
	base := NewDate(2024, time.June, 15)

	assert.Equal(t, 0, base.Compare(NewDate(2024, time.June, 15)))
	assert.True(t, base.After(NewDate(2024, time.June, 14)))
	assert.True(t, base.After(NewDate(2024, time.May, 31)))
	assert.True(t, base.After(NewDate(2023, time.December, 31)))
	assert.True(t, base.Before(NewDate(2024, time.June, 16)))
	assert.True(t, base.Before(NewDate(2025, time.January, 1)))
	assert.False(t, base.Before(base))
	assert.False(t, base.After(base))
}

func TestDate_StringAndConversions(t *testing.T) {
	d := NewDate(7, time.March, 2)
	assert.Equal(t, "0007-03-02", d.String())

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		paris = time.FixedZone("CET", 3600)
	}
	late := time.Date(2024, 6, 15, 23, 30, 0, 0, paris)
	assert.Equal(t, NewDate(2024, time.June, 15), DateOf(late), "DateOf keeps the wall-clock date of the location")

	round := NewDate(2024, time.February, 29).Time(time.UTC)
	assert.Equal(t, NewDate(2024, time.February, 29), DateOf(round))
}
