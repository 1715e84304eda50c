package engine

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// Field names one input of the birth date form.
type Field string

const (
	FieldDay   Field = config.FieldDay
	FieldMonth Field = config.FieldMonth
	FieldYear  Field = config.FieldYear
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldDay, FieldMonth, FieldYear}

// Code classifies why a field was rejected.
type Code string

const (
	CodeInvalidMonth          Code = "invalid_month"
	CodeYearNotANumber        Code = "invalid_year.not_a_number"
	CodeYearTooSmall          Code = "invalid_year.too_small"
	CodeYearTooLarge          Code = "invalid_year.too_large"
	CodeDayNotANumber         Code = "invalid_day.not_a_number"
	CodeDayOutOfRange         Code = "invalid_day.out_of_range"
	CodeDayExceedsMonthLength Code = "invalid_day.exceeds_month_length"
	CodeFutureDate            Code = "future_date"
)

// FieldError is the rejection of a single field.
type FieldError struct {
	Code    Code
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Is matches FieldErrors by code, so errors.Is(err, FieldError{Code: CodeFutureDate}) works.
func (e FieldError) Is(target error) bool {
	t, ok := target.(FieldError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ValidationErrors maps each rejected field to its error.
// A field without an entry is valid.
type ValidationErrors map[Field]FieldError

// Error lists the rejected fields in display order.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range Fields {
		if fe, ok := v[f]; ok {
			parts = append(parts, fmt.Sprintf(config.FormatErrorKey, f, fe.Message))
		}
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field was rejected.
func (v ValidationErrors) Has(field Field) bool {
	_, ok := v[field]
	return ok
}

// Message returns the message for field, or "" when the field is valid.
func (v ValidationErrors) Message(field Field) string {
	return v[field].Message
}

// Messages flattens the errors to field name -> message, the shape the
// form and the JSON API consume.
func (v ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for f, fe := range v {
		out[string(f)] = fe.Message
	}
	return out
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v))
	for _, f := range Fields {
		if fe, ok := v[f]; ok {
			out = append(out, fe)
		}
	}
	return out
}

func (v ValidationErrors) set(field Field, code Code, msg string) {
	v[field] = FieldError{Code: code, Message: msg}
}
