package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/tartampluch/go-agecalc/internal/server"
)

// runHeadless serves the HTTP API configured from AGECALC_* variables and
// reloads the contacts roster in the background until ctx is cancelled.
func runHeadless(ctx context.Context) error {
	cfg, err := config.LoadHeadless()
	if err != nil {
		return err
	}
	slog.Info(config.MsgHeadlessConfig,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyPort, cfg.Port,
		config.LogKeyMode, cfg.SourceMode(),
		config.LogKeyInterval, cfg.Refresh,
	)

	clock := engine.RealClock{}
	srv := server.NewAgeServer(cfg.Port, clock)
	roster := &engine.Roster{Clock: clock, Fetcher: engine.NewHTTPFetcher()}

	go rosterWorker(ctx, srv, roster, cfg)

	return srv.Start(ctx)
}

func headlessSource(cfg config.HeadlessConfig) engine.SourceConfig {
	return engine.SourceConfig{
		Mode:      cfg.SourceMode(),
		LocalPath: cfg.VCardPath,
		Web: engine.WebSource{
			URL:  cfg.CardDAVURL,
			User: cfg.CardDAVUser,
			Pass: cfg.CardDAVPass,
		},
	}
}

// rosterWorker loads the roster once, then on every refresh tick.
// Without a source, an empty roster is published once.
func rosterWorker(ctx context.Context, srv *server.AgeServer, roster *engine.Roster, cfg config.HeadlessConfig) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)
	src := headlessSource(cfg)

	reload := func() {
		var contacts []engine.Contact
		if src.Mode != config.SourceModeNone {
			loaded, _, err := roster.Load(ctx, src)
			if err != nil {
				log.Error(config.MsgSyncFailed, config.LogKeyError, err)
				return
			}
			contacts = loaded
		}
		if err := srv.Update(contacts); err != nil {
			log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		}
	}

	reload()
	if src.Mode == config.SourceModeNone || cfg.Refresh <= config.DisabledInterval {
		return
	}

	ticker := time.NewTicker(cfg.Refresh)
	defer ticker.Stop()
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, cfg.Refresh)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			reload()
		}
	}
}
