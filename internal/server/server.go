package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// cacheItem stores a rendered payload and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// rosterItem is the last loaded roster, rendered once per Update.
type rosterItem struct {
	json     *cacheItem
	calendar *cacheItem
}

// AgeServer exposes the age calculator and the contacts roster over HTTP.
type AgeServer struct {
	Port  string
	Clock engine.Clock

	// Summary renders the event titles of the roster calendar; engine.DefaultSummary when nil.
	// It is only called from Update.
	Summary engine.SummaryFunc

	// roster is read on every request and replaced only after a sync, so an
	// atomic pointer keeps the read path lock-free.
	roster  atomic.Pointer[rosterItem]
	metrics *Metrics
}

// NewAgeServer creates a server bound to 127.0.0.1:port once started.
func NewAgeServer(port string, clock engine.Clock) *AgeServer {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &AgeServer{
		Port:    port,
		Clock:   clock,
		metrics: NewMetrics(),
	}
}

// Metrics returns the collectors fed by this server.
func (s *AgeServer) Metrics() *Metrics {
	return s.metrics
}

// Routes builds the HTTP handler. Only GET and HEAD are routed.
func (s *AgeServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get(config.RouteAge, s.handleAge)
	r.Get(config.RouteAgeCalendar, s.handleAgeCalendar)
	r.Get(config.RouteContacts, s.handleContacts)
	r.Get(config.RouteContactsCalendar, s.handleContactsCalendar)
	r.Get(config.RouteHealth, handleHealth)
	r.Method(http.MethodGet, config.RouteMetrics, s.metrics.Handler())

	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *AgeServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Routes(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served roster with contacts.
// Any reader sees either the previous or the new roster, never a mix.
func (s *AgeServer) Update(contacts []engine.Contact) error {
	now := s.Clock.Now()
	today := engine.DateOf(now)

	views := make([]contactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, newContactView(c, today))
	}
	body, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteResp, err)
	}

	ics, err := engine.EncodeCalendar(engine.CalendarEntries(contacts), now, s.Summary)
	if err != nil {
		return err
	}

	item := &rosterItem{
		json:     newCacheItem(body, config.MimeJSON),
		calendar: newCacheItem(ics, config.MimeTextCalendar),
	}
	s.roster.Store(item)
	s.metrics.SetContacts(len(contacts))

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCount, len(contacts),
		config.LogKeySizeBytes, len(ics),
		config.LogKeyETag, item.calendar.etag,
	)
	return nil
}

func newCacheItem(data []byte, contentType string) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		contentType:  contentType,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
}
