package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

func TestParsePart(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want engine.Part
	}{
		{"Plain", "12", engine.Num(12)},
		{"Zero", "0", engine.Num(0)},
		{"LeadingZeros", "007", engine.Num(7)},
		{"TrailingGarbage", "12abc", engine.Num(12)},
		{"Decimal", "1.5", engine.Num(1)},
		{"LeadingSpace", "  7", engine.Num(7)},
		{"Negative", "-3", engine.Num(-3)},
		{"ExplicitPlus", "+4", engine.Num(4)},
		{"Empty", "", engine.NaN},
		{"Blank", "   ", engine.NaN},
		{"Letters", "abc", engine.NaN},
		{"SignOnly", "-", engine.NaN},
		{"DoubleSign", "--5", engine.NaN},
		{"Overflow", "99999999999999999999999", engine.NaN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ParsePart(tt.raw))
		})
	}
}

func TestParseDateParts(t *testing.T) {
	parts := engine.ParseDateParts("29", "", "2024")

	assert.Equal(t, engine.Num(29), parts.Day)
	assert.False(t, parts.Month.Valid)
	assert.Equal(t, engine.Num(2024), parts.Year)
	assert.Equal(t, engine.NewDateParts(1, 2, 3), engine.ParseDateParts("1", "2", "3"))
}
