package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-agecalc/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// localeCode extracts "fr" from "active.fr.json".
func localeCode(fileName string) (string, bool) {
	if !strings.HasPrefix(fileName, config.LocalePrefix) || !strings.HasSuffix(fileName, config.LocaleExt) {
		return "", false
	}
	code := strings.TrimSuffix(strings.TrimPrefix(fileName, config.LocalePrefix), config.LocaleExt)
	return code, code != ""
}

// SetupI18n loads every embedded locale and selects the preferred language.
// Only UI labels are translated; validation messages stay as the calculator emits them.
func (app *AgeCalcApp) SetupI18n() {
	log := slog.With(config.LogKeyComponent, config.CompI18n)

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc(config.LocaleFormat, json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocaleDir)
	if err != nil {
		log.Error(config.ErrLocalesAccess, config.LogKeyError, err)
		return
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		code, ok := localeCode(name)
		if !ok {
			log.Debug(config.MsgLocaleSkip, config.LogKeyFile, name)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join(config.LocaleDir, name)); err != nil {
			log.Error(config.ErrLocaleLoad, config.LogKeyFile, name, config.LogKeyError, err)
			continue
		}
		langs = append(langs, code)
		log.Debug(config.MsgLocaleLoaded, config.LogKeyLang, code, config.LogKeyFile, name)
	}

	app.SupportedLanguages = langs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator from the language preference.
func (app *AgeCalcApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
}

// GetMsg translates key, falling back to the key itself when no message exists.
func (app *AgeCalcApp) GetMsg(key string) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
