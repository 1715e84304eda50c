package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// HeadlessConfig holds the settings used when the application runs without
// a desktop session. Values are read from AGECALC_* environment variables,
// e.g. AGECALC_PORT=18081, AGECALC_VCF=/srv/contacts.vcf.
type HeadlessConfig struct {
	// Port is the HTTP API port on the loopback interface.
	Port string `envconfig:"PORT" default:"18081"`

	// VCardPath is a local .vcf file used as the contacts source.
	VCardPath string `envconfig:"VCF"`

	// CardDAV source, used when VCardPath is empty.
	CardDAVURL  string `envconfig:"CARDDAV_URL"`
	CardDAVUser string `envconfig:"CARDDAV_USER"`
	CardDAVPass string `envconfig:"CARDDAV_PASS"`

	// Refresh is the roster reload interval. Zero disables periodic reloads.
	Refresh time.Duration `envconfig:"REFRESH" default:"1h"`
}

// SourceMode reports which contacts source the headless settings select.
func (c HeadlessConfig) SourceMode() string {
	switch {
	case c.VCardPath != "":
		return SourceModeLocal
	case c.CardDAVURL != "":
		return SourceModeWeb
	default:
		return SourceModeNone
	}
}

// LoadHeadless reads the headless configuration from the environment.
func LoadHeadless() (HeadlessConfig, error) {
	var cfg HeadlessConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return HeadlessConfig{}, fmt.Errorf("%s: %w", ErrEnvConfig, err)
	}
	if cfg.Port == "" {
		return HeadlessConfig{}, fmt.Errorf("%s: %s", ErrEnvConfig, ErrPortRequired)
	}
	return cfg, nil
}
