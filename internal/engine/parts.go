package engine

import (
	"strconv"
	"strings"
	"unicode"
)

// Part is one raw component of a birth date as typed by the user.
// Valid is false when the input was empty or did not start with a number.
type Part struct {
	Value int
	Valid bool
}

// Num wraps an integer that is known to be numeric.
func Num(v int) Part {
	return Part{Value: v, Valid: true}
}

// NaN is the Part of an empty or non-numeric field.
var NaN = Part{}

// DateParts groups the three raw components. No invariant holds on construction.
type DateParts struct {
	Day   Part
	Month Part
	Year  Part
}

// NewDateParts builds DateParts from three numeric values.
func NewDateParts(day, month, year int) DateParts {
	return DateParts{Day: Num(day), Month: Num(month), Year: Num(year)}
}

// ParseDateParts reads the three text fields of a birth date form.
func ParseDateParts(day, month, year string) DateParts {
	return DateParts{
		Day:   ParsePart(day),
		Month: ParsePart(month),
		Year:  ParsePart(year),
	}
}

// ParsePart reads the leading integer of raw.
// Leading whitespace and a single sign are accepted, and everything after the
// first non-digit is ignored, so "12abc" reads as 12 and "1.5" as 1.
func ParsePart(raw string) Part {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return NaN
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only overflow can get here; such a value is no usable date part.
		return NaN
	}
	return Num(v)
}
