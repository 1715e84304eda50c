package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/tartampluch/go-agecalc/internal/server"
	"github.com/zalando/go-keyring"
)

// AgeCalcApp holds the UI state, preferences and the contacts background sync.
type AgeCalcApp struct {
	App            fyne.App
	MainWindow     fyne.Window
	SettingsWindow fyne.Window
	Preferences    fyne.Preferences
	I18nBundle     *i18n.Bundle
	Localizer      *i18n.Localizer
	Ctx            context.Context

	Server  *server.AgeServer
	Fetcher engine.VCardFetcher
	Clock   engine.Clock

	Form *AgeForm

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayOpenItem     *fyne.MenuItem
	TrayContactsItem *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	configChan         chan string

	ContactsMut    sync.RWMutex
	Contacts       []engine.Contact
	contactsWindow fyne.Window
}

// NewAgeCalcApp constructs the application and wires dependencies.
func NewAgeCalcApp(a fyne.App, ctx context.Context, srv *server.AgeServer, fetcher engine.VCardFetcher) *AgeCalcApp {
	a.SetIcon(theme.HistoryIcon())

	app := &AgeCalcApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Fetcher:            fetcher,
		Clock:              engine.RealClock{},
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
		Contacts:           make([]engine.Contact, 0),
	}
	if srv != nil {
		srv.Summary = app.buildSummaryFormatter()
	}
	return app
}

// Run launches the HTTP server, the tray, the sync worker and the main window.
func (app *AgeCalcApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.ShowMainWindow()

	go app.backgroundWorker()
	app.App.Run()
}

// ShowMainWindow opens the age calculator window, or focuses it when open.
// With a system tray, closing the window hides it instead of quitting.
func (app *AgeCalcApp) ShowMainWindow() {
	if app.MainWindow != nil {
		app.MainWindow.Show()
		app.MainWindow.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Form = NewAgeForm(app.Clock, app.GetMsg)
	w.SetContent(app.Form.Content())
	w.Resize(fyne.NewSize(config.MainWindowWidth, w.Content().MinSize().Height))

	if app.Tray != nil {
		w.SetCloseIntercept(w.Hide)
	}
	w.SetMaster()
	app.MainWindow = w
	w.Show()
}

// watchPreferences monitors changes to settings to trigger immediate updates.
func (app *AgeCalcApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *AgeCalcApp) setupTrayMenu() {
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowContactsWindow()
	})

	app.TrayOpenItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuOpen), func() {
		app.ShowMainWindow()
	})

	app.TrayContactsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuContacts), func() {
		app.ShowContactsWindow()
	})

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performSync(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayOpenItem,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayContactsItem,
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *AgeCalcApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayOpenItem.Label = app.GetMsg(config.TKeyMenuOpen)
	app.TrayContactsItem.Label = app.GetMsg(config.TKeyMenuContacts)
	app.TrayRefreshItem.Label = app.GetMsg(config.TKeyMenuRefresh)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// backgroundWorker reloads the contacts roster on the configured interval.
func (app *AgeCalcApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performSync(false)

	getInterval := func() time.Duration {
		val := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
		if val <= 0 {
			val = config.DefaultRefreshMin
		}
		return time.Duration(val) * time.Minute
	}

	currentDuration := getInterval()
	ticker := time.NewTicker(currentDuration)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, currentDuration)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			newDuration := getInterval()
			if newDuration != currentDuration {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, currentDuration, config.LogKeyNew, newDuration)
				currentDuration = newDuration
				ticker.Reset(currentDuration)
			}

		case <-ticker.C:
			if app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin) <= config.DisabledInterval {
				continue
			}
			app.performSync(false)
		}
	}
}

// performSync loads the roster, publishes it to the server and updates the tray.
func (app *AgeCalcApp) performSync(manual bool) {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	cfg := app.loadSourceConfig()
	if cfg.Mode == config.SourceModeNone {
		slog.Info(config.MsgSyncSkipped, config.LogKeyComponent, config.CompUI)
		app.publish(nil, 0)
		return
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	roster := &engine.Roster{Clock: app.Clock, Fetcher: app.Fetcher}
	contacts, countToday, err := roster.Load(app.Ctx, cfg)
	if err != nil {
		slog.Error(config.MsgSyncFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.TitleSyncError, app.GetMsg(config.TKeyNotifError)))
		}
		app.updateTrayStatus(-1)
		return
	}

	app.publish(contacts, countToday)

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

// publish stores the roster for the contacts window and the HTTP server.
func (app *AgeCalcApp) publish(contacts []engine.Contact, countToday int) {
	app.ContactsMut.Lock()
	app.Contacts = contacts
	app.ContactsMut.Unlock()

	if app.Server != nil {
		if err := app.Server.Update(contacts); err != nil {
			slog.Error(config.MsgSyncFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		}
	}
	app.updateTrayStatus(countToday)
}

// updateTrayStatus shows how many birthdays fall today; a negative count means the sync failed.
func (app *AgeCalcApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackTrayError
	case count == 0:
		label = app.GetMsg(config.TKeyTrayStatusZero)
		if label == config.TKeyTrayStatusZero {
			label = fmt.Sprintf(config.FallbackTrayDefault, 0)
		}
	default:
		if app.Localizer != nil {
			msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{
				MessageID:    config.TKeyTrayStatus,
				TemplateData: map[string]interface{}{"Count": count},
				PluralCount:  count,
			})
			if err == nil {
				label = msg
			}
		}
		if label == "" {
			label = fmt.Sprintf(config.FallbackTrayDefault, count)
		}
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// loadSourceConfig assembles the roster source from preferences and the keyring.
func (app *AgeCalcApp) loadSourceConfig() engine.SourceConfig {
	cfg := engine.SourceConfig{
		Mode:      app.Preferences.String(config.PrefSourceMode),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		Web: engine.WebSource{
			URL:  app.Preferences.String(config.PrefCardDAVURL),
			User: app.Preferences.String(config.PrefUsername),
		},
	}

	if cfg.Web.User != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.Web.User); err == nil {
			cfg.Web.Pass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.Web.User,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	return cfg
}

// buildSummaryFormatter returns an engine.SummaryFunc that localizes event titles.
func (app *AgeCalcApp) buildSummaryFormatter() engine.SummaryFunc {
	return func(name string, age int, yearKnown bool) string {
		if app.Localizer == nil {
			return engine.DefaultSummary(name, age, yearKnown)
		}

		lc := &i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtSummary,
			TemplateData: map[string]interface{}{"Name": name},
		}
		switch {
		case yearKnown && age == 0:
			lc.MessageID = config.TKeyEvtSummaryBrth
		case yearKnown:
			lc.MessageID = config.TKeyEvtSummaryAge
			lc.TemplateData = map[string]interface{}{"Name": name, "Age": age}
		}

		msg, err := app.Localizer.Localize(lc)
		if err != nil || msg == "" {
			return engine.DefaultSummary(name, age, yearKnown)
		}
		return msg
	}
}
