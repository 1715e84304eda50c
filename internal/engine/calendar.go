package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// CalendarEntry is one person whose birthdays are exported.
type CalendarEntry struct {
	UID       string
	Name      string
	Birth     Date
	YearKnown bool
}

// SummaryFunc renders an event title. It lets the UI inject localized strings.
type SummaryFunc func(name string, age int, yearKnown bool) string

// DefaultSummary is the untranslated event title.
func DefaultSummary(name string, age int, yearKnown bool) string {
	if !yearKnown {
		return fmt.Sprintf(config.FallbackSummary, name)
	}
	if age == 0 {
		return fmt.Sprintf(config.FallbackSummaryBirth, name)
	}
	return fmt.Sprintf(config.FallbackSummaryAge, name, age)
}

// EntryUID derives a stable identifier from a name and birth date so that
// calendar clients keep the same events across refreshes.
func EntryUID(name string, birth Date) string {
	input := fmt.Sprintf(config.FormatHashInput, name, birth.String(), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// EncodeCalendar renders all-day birthday events for the year before, the
// year of and the year after now. No event is emitted before a known birth year.
func EncodeCalendar(entries []CalendarEntry, now time.Time, summary SummaryFunc) ([]byte, error) {
	if summary == nil {
		summary = DefaultSummary
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, entry := range entries {
		for _, e := range birthdayEvents(entry, now, summary) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

func birthdayEvents(entry CalendarEntry, now time.Time, summary SummaryFunc) []*ical.Event {
	currentYear := now.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}

	uid := entry.UID
	if uid == "" {
		uid = EntryUID(entry.Name, entry.Birth)
	}

	var events []*ical.Event
	for _, y := range targetYears {
		if entry.YearKnown && y < entry.Birth.Year {
			continue
		}

		age := 0
		if entry.YearKnown {
			age = y - entry.Birth.Year
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uid, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary(entry.Name, age, entry.YearKnown))

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(anniversary(entry.Birth, y).Time(now.Location()))
		event.Props.Set(dtStartProp)

		events = append(events, event)
	}
	return events
}
