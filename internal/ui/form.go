package ui

import (
	"errors"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// fieldInput is one birth date input with the label that shows its error.
type fieldInput struct {
	entry *NumericalEntry
	err   *widget.Label
}

func newFieldInput(maxLen int, hint string) *fieldInput {
	entry := NewBoundedEntry(maxLen)
	entry.SetPlaceHolder(hint)

	errLabel := widget.NewLabel("")
	errLabel.Importance = widget.DangerImportance
	errLabel.Wrapping = fyne.TextWrapWord
	errLabel.Hide()

	return &fieldInput{entry: entry, err: errLabel}
}

func (f *fieldInput) setError(msg string) {
	f.entry.SetValidationError(errors.New(msg))
	f.err.SetText(msg)
	f.err.Show()
}

func (f *fieldInput) clearError() {
	f.entry.SetValidationError(nil)
	f.err.SetText("")
	f.err.Hide()
}

// AgeForm binds the three birth date inputs and the three age outputs to the
// calculator.
type AgeForm struct {
	Clock engine.Clock

	inputs map[engine.Field]*fieldInput

	Years  *widget.Label
	Months *widget.Label
	Days   *widget.Label
	Submit *widget.Button

	content fyne.CanvasObject
}

// NewAgeForm builds the form. msg translates the static labels; validation
// messages are shown as produced by the calculator.
func NewAgeForm(clock engine.Clock, msg func(string) string) *AgeForm {
	if clock == nil {
		clock = engine.RealClock{}
	}
	f := &AgeForm{
		Clock: clock,
		inputs: map[engine.Field]*fieldInput{
			engine.FieldDay:   newFieldInput(config.MaxLenDay, msg(config.TKeyHintDay)),
			engine.FieldMonth: newFieldInput(config.MaxLenMonth, msg(config.TKeyHintMonth)),
			engine.FieldYear:  newFieldInput(config.MaxLenYear, msg(config.TKeyHintYear)),
		},
		Years:  newResultLabel(),
		Months: newResultLabel(),
		Days:   newResultLabel(),
	}

	f.Submit = widget.NewButtonWithIcon(msg(config.TKeyBtnCalculate), theme.ConfirmIcon(), f.Calculate)
	f.Submit.Importance = widget.HighImportance

	for _, in := range f.inputs {
		in.entry.OnSubmitted = func(string) { f.Calculate() }
	}

	column := func(labelKey string, field engine.Field) fyne.CanvasObject {
		in := f.inputs[field]
		return container.NewVBox(widget.NewLabel(msg(labelKey)), in.entry, in.err)
	}
	output := func(value *widget.Label, labelKey string) fyne.CanvasObject {
		return container.NewVBox(value, widget.NewLabel(msg(labelKey)))
	}

	f.content = container.NewPadded(container.NewVBox(
		container.NewGridWithColumns(config.LayoutColumnsTriple,
			column(config.TKeyLblDay, engine.FieldDay),
			column(config.TKeyLblMonth, engine.FieldMonth),
			column(config.TKeyLblYear, engine.FieldYear),
		),
		f.Submit,
		widget.NewSeparator(),
		container.NewGridWithColumns(config.LayoutColumnsTriple,
			output(f.Years, config.TKeyLblYears),
			output(f.Months, config.TKeyLblMonths),
			output(f.Days, config.TKeyLblDays),
		),
	))
	return f
}

func newResultLabel() *widget.Label {
	l := widget.NewLabel(config.ResultEmpty)
	l.Alignment = fyne.TextAlignCenter
	l.TextStyle = fyne.TextStyle{Bold: true}
	return l
}

// Content returns the form's root object.
func (f *AgeForm) Content() fyne.CanvasObject {
	return f.content
}

// Entry returns the input of field, for callers that fill the form programmatically.
func (f *AgeForm) Entry(field engine.Field) *NumericalEntry {
	return f.inputs[field].entry
}

// ErrorText returns the message currently shown under field, or "".
func (f *AgeForm) ErrorText(field engine.Field) string {
	in := f.inputs[field]
	if !in.err.Visible() {
		return ""
	}
	return in.err.Text
}

// SetValues fills the three inputs.
func (f *AgeForm) SetValues(day, month, year string) {
	f.Entry(engine.FieldDay).SetText(day)
	f.Entry(engine.FieldMonth).SetText(month)
	f.Entry(engine.FieldYear).SetText(year)
}

// Calculate reads the inputs, runs the calculator against today and renders the outcome.
func (f *AgeForm) Calculate() {
	parts := engine.ParseDateParts(
		f.Entry(engine.FieldDay).Text,
		f.Entry(engine.FieldMonth).Text,
		f.Entry(engine.FieldYear).Text,
	)
	age, err := engine.Calculate(parts, engine.Today(f.Clock))
	f.Render(age, err)
}

// Render displays either the age or the validation errors.
// Fields without an error are cleared, and on failure the outputs reset to the placeholder.
func (f *AgeForm) Render(age engine.AgeResult, err error) {
	log := slog.With(config.LogKeyComponent, config.CompUIForm)

	if err == nil {
		for _, in := range f.inputs {
			in.clearError()
		}
		f.Years.SetText(strconv.Itoa(age.Years))
		f.Months.SetText(strconv.Itoa(age.Months))
		f.Days.SetText(strconv.Itoa(age.Days))
		log.Debug(config.MsgAgeCalculated,
			config.LogKeyYears, age.Years,
			config.LogKeyMonths, age.Months,
			config.LogKeyDays, age.Days,
		)
		return
	}

	var verrs engine.ValidationErrors
	if !errors.As(err, &verrs) {
		log.Error(config.ErrAgeInvariant, config.LogKeyError, err)
		verrs = engine.ValidationErrors{}
	}

	for field, in := range f.inputs {
		if fe, ok := verrs[field]; ok {
			in.setError(fe.Message)
		} else {
			in.clearError()
		}
	}
	f.Years.SetText(config.ResultEmpty)
	f.Months.SetText(config.ResultEmpty)
	f.Days.SetText(config.ResultEmpty)
	log.Debug(config.MsgAgeRejected, config.LogKeyFields, verrs.Messages())
}
