package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/tartampluch/go-agecalc/internal/server"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var june15 = fixedClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))

func TestRunOneShot(t *testing.T) {
	tests := []struct {
		name             string
		day, month, year string
		wantCode         int
		wantOut          string
	}{
		{
			name: "Valid date",
			day:  "20", month: "6", year: "2000",
			wantCode: config.ExitCodeSuccess,
			wantOut:  "23 years, 11 months, 26 days\n",
		},
		{
			name: "Every field rejected, in display order",
			day:  "", month: "13", year: "abc",
			wantCode: config.ExitCodeInvalidInput,
			wantOut: "day: " + config.MsgInvalidDay + "\n" +
				"month: " + config.MsgInvalidMonth + "\n" +
				"year: " + config.MsgInvalidYear + "\n",
		},
		{
			name: "Future date",
			day:  "16", month: "6", year: "2024",
			wantCode: config.ExitCodeInvalidInput,
			wantOut:  "year: " + config.MsgInThePast + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			code := runOneShot(&out, june15, tt.day, tt.month, tt.year)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestHeadlessSource(t *testing.T) {
	src := headlessSource(config.HeadlessConfig{
		CardDAVURL:  "https://dav.example.com/card",
		CardDAVUser: "bob",
		CardDAVPass: "secret",
	})

	assert.Equal(t, config.SourceModeWeb, src.Mode)
	assert.Equal(t, engine.WebSource{URL: "https://dav.example.com/card", User: "bob", Pass: "secret"}, src.Web)
}

func TestRosterWorker_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	vcf := "BEGIN:VCARD\nVERSION:3.0\nFN:Ada\nBDAY:2000-06-20\nEND:VCARD\n"
	require.NoError(t, os.WriteFile(path, []byte(vcf), config.FilePermUserRW))

	srv := server.NewAgeServer("0", june15)
	roster := &engine.Roster{Clock: june15}

	// Refresh disabled: the worker loads once and returns.
	rosterWorker(context.Background(), srv, roster, config.HeadlessConfig{VCardPath: path})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteContacts, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ada"`)
}

func TestRosterWorker_NoSourcePublishesEmptyRoster(t *testing.T) {
	srv := server.NewAgeServer("0", june15)

	rosterWorker(context.Background(), srv, &engine.Roster{Clock: june15}, config.HeadlessConfig{Refresh: time.Hour})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteContacts, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRosterWorker_StopsOnCancel(t *testing.T) {
	srv := server.NewAgeServer("0", june15)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rosterWorker(ctx, srv, &engine.Roster{Clock: june15}, config.HeadlessConfig{
			VCardPath: filepath.Join(t.TempDir(), "missing.vcf"),
			Refresh:   time.Hour,
		})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
