package ui

import (
	"unicode/utf8"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only accepts digits typed from the keyboard.
type NumericalEntry struct {
	widget.Entry

	// MaxLength caps the number of typed digits. Zero means no limit.
	MaxLength int
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// NewBoundedEntry creates a NumericalEntry holding at most maxLen digits.
func NewBoundedEntry(maxLen int) *NumericalEntry {
	entry := NewNumericalEntry()
	entry.MaxLength = maxLen
	return entry
}

// TypedRune drops anything that is not a digit or would exceed MaxLength.
// Pasted text bypasses this filter; the calculator reads the leading integer.
func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' {
		return
	}
	if e.MaxLength > 0 && utf8.RuneCountInString(e.Text) >= e.MaxLength && e.SelectedText() == "" {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
