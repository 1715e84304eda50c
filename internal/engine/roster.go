package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// SourceConfig selects where the roster reads its vCards from.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to the .vcf file
	Web       WebSource
}

// Roster loads contacts and runs the age calculator over their birthdays.
type Roster struct {
	Clock   Clock
	Fetcher VCardFetcher
}

// Load reads every vCard from the configured source and returns the contacts
// with a usable birthday, plus how many of them have their birthday today.
func (r *Roster) Load(ctx context.Context, cfg SourceConfig) ([]Contact, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompRoster,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	reader, err := r.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	contacts, today, err := r.decode(ctx, reader)
	if err == nil {
		log.Debug(config.MsgRosterLoaded, config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return contacts, today, err
}

// acquireStream opens the data source selected by cfg.
func (r *Roster) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.Web.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if r.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return r.Fetcher.Fetch(ctx, cfg.Web)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// decode walks the vCard stream and builds one Contact per card with a BDAY.
// Malformed cards and dates are skipped so one bad entry cannot hide the rest.
func (r *Roster) decode(ctx context.Context, rd io.Reader) ([]Contact, int, error) {
	today := Today(r.Clock)
	decoder := vcard.NewDecoder(rd)
	stats := rosterStats{}
	var contacts []Contact

	for {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, yearKnown, err := ParseBirthday(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyValue, bday.Value)
			continue
		}

		name := cardName(card)
		contact, ok := buildContact(name, birth, yearKnown, today)
		if !ok {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyName, name,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		if contact.NextBirthday == today {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompRoster,
				config.LogKeyName, name,
				config.LogKeyDOB, birth.String())
		}
		contacts = append(contacts, contact)
	}

	stats.log()
	return contacts, stats.today, nil
}

// buildContact derives the ages of one person. It rejects birthdays that the
// calculator refuses, such as a BDAY later than today.
func buildContact(name string, birth Date, yearKnown bool, today Date) (Contact, bool) {
	c := Contact{
		UID:       EntryUID(name, birth),
		Name:      name,
		Birth:     birth,
		YearKnown: yearKnown,
	}

	next, ageNext := NextBirthday(birth, today)
	c.NextBirthday = next

	if yearKnown {
		age, err := Calculate(NewDateParts(birth.Day, int(birth.Month), birth.Year), today)
		if err != nil {
			return Contact{}, false
		}
		c.Age = age
		c.AgeNext = ageNext
	}
	return c, true
}

// cardName picks FN, then N, then a fallback.
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		return n.Value
	}
	return config.FallbackName
}

type rosterStats struct{ processed, withBday, today int }

func (s rosterStats) log() {
	slog.Info(config.MsgRosterLoaded,
		config.LogKeyComponent, config.CompRoster,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, s.processed),
			slog.Int(config.LogKeyFound, s.withBday),
			slog.Int(config.LogKeyToday, s.today),
		),
	)
}

// ParseBirthday reads the date forms found in vCard BDAY values.
// Truncated forms (--MMDD) carry no year; they are placed in a leap year so
// February 29th survives, and yearKnown is false.
func ParseBirthday(value string) (Date, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return DateOf(t), true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return NewDate(config.DefaultLeapYear, t.Month(), t.Day()), false, nil
		}
	}

	return Date{}, false, errors.New(config.ErrDateParse)
}
