package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hardfinhq/go-date"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

type ageResponse struct {
	engine.AgeResult
	NextBirthday string `json:"next_birthday"`
	DaysUntil    int    `json:"days_until_birthday"`
}

type errorsResponse struct {
	Errors map[string]string `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type contactView struct {
	Name         string            `json:"name"`
	Birth        string            `json:"birth"`
	YearKnown    bool              `json:"year_known"`
	Age          *engine.AgeResult `json:"age,omitempty"`
	NextBirthday string            `json:"next_birthday"`
	AgeNext      int               `json:"age_next,omitempty"`
	DaysUntil    int               `json:"days_until_birthday"`
}

func newContactView(c engine.Contact, today engine.Date) contactView {
	v := contactView{
		Name:         c.Name,
		Birth:        fmt.Sprintf(config.FormatMonthDay, int(c.Birth.Month), c.Birth.Day),
		YearKnown:    c.YearKnown,
		NextBirthday: c.NextBirthday.String(),
		DaysUntil:    engine.DaysUntil(today, c.NextBirthday),
	}
	if c.YearKnown {
		age := c.Age
		v.Birth = c.Birth.String()
		v.Age = &age
		v.AgeNext = c.AgeNext
	}
	return v
}

// handleAge answers GET /api/age?day=&month=&year=[&today=YYYY-MM-DD].
func (s *AgeServer) handleAge(w http.ResponseWriter, r *http.Request) {
	today, ok := s.today(w, r)
	if !ok {
		return
	}

	parts, age, ok := s.calculate(w, r, today)
	if !ok {
		return
	}

	next, _ := engine.NextBirthday(birthOf(parts), today)
	writeJSON(w, http.StatusOK, ageResponse{
		AgeResult:    age,
		NextBirthday: next.String(),
		DaysUntil:    engine.DaysUntil(today, next),
	})
}

// handleAgeCalendar renders the birthdays of one birth date as iCalendar.
func (s *AgeServer) handleAgeCalendar(w http.ResponseWriter, r *http.Request) {
	today, ok := s.today(w, r)
	if !ok {
		return
	}

	parts, _, ok := s.calculate(w, r, today)
	if !ok {
		return
	}

	name := r.URL.Query().Get(config.QueryName)
	if name == "" {
		name = config.DefaultPersonName
	}
	birth := birthOf(parts)
	entry := engine.CalendarEntry{
		UID:       engine.EntryUID(name, birth),
		Name:      name,
		Birth:     birth,
		YearKnown: true,
	}

	ics, err := engine.EncodeCalendar([]engine.CalendarEntry{entry}, today.Time(time.UTC), engine.DefaultSummary)
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRequestID, middleware.GetReqID(r.Context()),
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}
	serveCached(w, r, newCacheItem(ics, config.MimeTextCalendar))
}

// handleContacts serves the last loaded roster as JSON.
func (s *AgeServer) handleContacts(w http.ResponseWriter, r *http.Request) {
	item := s.roster.Load()
	if item == nil {
		serviceUnavailable(w)
		return
	}
	serveCached(w, r, item.json)
}

// handleContactsCalendar serves the last loaded roster as iCalendar.
func (s *AgeServer) handleContactsCalendar(w http.ResponseWriter, r *http.Request) {
	item := s.roster.Load()
	if item == nil {
		serviceUnavailable(w)
		return
	}
	serveCached(w, r, item.calendar)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	_, _ = io.WriteString(w, config.HealthOK)
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
}

// today returns the date to measure against: the today query parameter when
// present, the server clock otherwise. It answers 400 itself on a bad value.
func (s *AgeServer) today(w http.ResponseWriter, r *http.Request) (engine.Date, bool) {
	raw := r.URL.Query().Get(config.QueryToday)
	if raw == "" {
		return engine.Today(s.Clock), true
	}

	d, err := date.FromString(raw)
	if err != nil {
		slog.Debug(config.ErrTodayParse,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRequestID, middleware.GetReqID(r.Context()),
			config.LogKeyValue, raw,
		)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: config.ErrTodayParse})
		return engine.Date{}, false
	}
	return engine.NewDate(d.Year, d.Month, d.Day), true
}

// calculate reads the birth date from the query and runs the calculator.
// Validation failures are answered with 422 and the per-field messages.
func (s *AgeServer) calculate(w http.ResponseWriter, r *http.Request, today engine.Date) (engine.DateParts, engine.AgeResult, bool) {
	q := r.URL.Query()
	parts := engine.ParseDateParts(q.Get(config.FieldDay), q.Get(config.FieldMonth), q.Get(config.FieldYear))
	log := slog.With(
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRequestID, middleware.GetReqID(r.Context()),
	)

	age, err := engine.Calculate(parts, today)
	s.metrics.ObserveCalculation(err)
	if err == nil {
		log.Debug(config.MsgAgeCalculated,
			config.LogKeyYears, age.Years,
			config.LogKeyMonths, age.Months,
			config.LogKeyDays, age.Days,
		)
		return parts, age, true
	}

	var verrs engine.ValidationErrors
	if errors.As(err, &verrs) {
		log.Debug(config.MsgAgeRejected, config.LogKeyFields, verrs.Messages())
		writeJSON(w, http.StatusUnprocessableEntity, errorsResponse{Errors: verrs.Messages()})
		return parts, engine.AgeResult{}, false
	}

	log.Error(config.ErrAgeInvariant, config.LogKeyError, err)
	http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
	return parts, engine.AgeResult{}, false
}

// birthOf assembles the birth date of parts that passed validation.
func birthOf(parts engine.DateParts) engine.Date {
	return engine.NewDate(parts.Year.Value, time.Month(parts.Month.Value), parts.Day.Value)
}

func serviceUnavailable(w http.ResponseWriter) {
	w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
	http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// serveCached writes item with conditional request support.
func serveCached(w http.ResponseWriter, r *http.Request, item *cacheItem) {
	w.Header().Set(config.HeaderContentType, item.contentType)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
