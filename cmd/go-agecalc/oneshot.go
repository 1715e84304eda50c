package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// runOneShot calculates the age for the given birth date and prints either
// the result or one line per rejected field, in display order.
func runOneShot(out io.Writer, clock engine.Clock, day, month, year string) int {
	parts := engine.ParseDateParts(day, month, year)
	age, err := engine.Calculate(parts, engine.Today(clock))
	if err == nil {
		fmt.Fprintf(out, config.FormatCLIAge, age.Years, age.Months, age.Days)
		return config.ExitCodeSuccess
	}

	var verrs engine.ValidationErrors
	if !errors.As(err, &verrs) {
		fmt.Fprintf(out, config.FormatCLIError, config.ErrAgeInvariant, err)
		return config.ExitCodeError
	}

	for _, field := range engine.Fields {
		if verrs.Has(field) {
			fmt.Fprintf(out, config.FormatCLIError, field, verrs.Message(field))
		}
	}
	return config.ExitCodeInvalidInput
}
