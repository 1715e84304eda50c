package engine

import (
	"sort"
	"strings"
)

// Contact is a roster entry: a person with a birthday and the ages derived from it.
type Contact struct {
	UID  string
	Name string

	// Birth is the parsed birthday. When YearKnown is false the year is a
	// placeholder leap year and only month and day are meaningful.
	Birth     Date
	YearKnown bool

	// Age is the current age. Zero when YearKnown is false.
	Age AgeResult

	// NextBirthday is the next anniversary on or after today, AgeNext the age
	// reached on it (zero when YearKnown is false).
	NextBirthday Date
	AgeNext      int
}

// SortKey selects the column a roster is ordered by.
type SortKey int

const (
	SortByName SortKey = iota
	SortByBirth
	SortByAge
	SortByNext
)

// SortContacts orders contacts in place. Contacts without a known birth year
// go last when sorting by age ascending and first when descending.
func SortContacts(contacts []Contact, key SortKey, asc bool) {
	sort.SliceStable(contacts, func(i, j int) bool {
		if asc {
			return contactLess(contacts[i], contacts[j], key)
		}
		return contactLess(contacts[j], contacts[i], key)
	})
}

func contactLess(a, b Contact, key SortKey) bool {
	switch key {
	case SortByName:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case SortByBirth:
		return a.Birth.Before(b.Birth)
	case SortByAge:
		switch {
		case a.YearKnown != b.YearKnown:
			return a.YearKnown
		case a.Age != b.Age:
			return ageLess(a.Age, b.Age)
		default:
			return a.Name < b.Name
		}
	default:
		if a.NextBirthday == b.NextBirthday {
			return a.Name < b.Name
		}
		return a.NextBirthday.Before(b.NextBirthday)
	}
}

func ageLess(a, b AgeResult) bool {
	if a.Years != b.Years {
		return a.Years < b.Years
	}
	if a.Months != b.Months {
		return a.Months < b.Months
	}
	return a.Days < b.Days
}

// CalendarEntries converts a roster into calendar export entries.
func CalendarEntries(contacts []Contact) []CalendarEntry {
	entries := make([]CalendarEntry, 0, len(contacts))
	for _, c := range contacts {
		entries = append(entries, CalendarEntry{
			UID:       c.UID,
			Name:      c.Name,
			Birth:     c.Birth,
			YearKnown: c.YearKnown,
		})
	}
	return entries
}
