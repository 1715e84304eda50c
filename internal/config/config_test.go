package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalProdid", config.ICalProdid},
		{"ResultEmpty", config.ResultEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestValidationMessages pins the user-facing strings; the web form and the
// API clients match on them verbatim.
func TestValidationMessages(t *testing.T) {
	assert.Equal(t, "Must be a valid day", config.MsgInvalidDay)
	assert.Equal(t, "Must be a valid month", config.MsgInvalidMonth)
	assert.Equal(t, "Must be a valid year", config.MsgInvalidYear)
	assert.Equal(t, "Must be in the past", config.MsgInThePast)
}

func TestDefaults_Sanity(t *testing.T) {
	assert.Greater(t, config.DefaultRefreshMin, 0, "Default refresh interval must be positive")
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Equal(t, 12, config.MaxMonth)
	assert.Equal(t, config.MaxMonth, config.MonthsPerYear)
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-AgeCalc/"), "UserAgent must start with AppName/")
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")

	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "MaxHTTPResponseSize should stay under 1GB to protect RAM")
}

func TestLoadHeadless_Defaults(t *testing.T) {
	t.Setenv("AGECALC_PORT", "")
	t.Setenv("AGECALC_VCF", "")
	t.Setenv("AGECALC_CARDDAV_URL", "")

	cfg, err := config.LoadHeadless()

	// An explicitly empty port is rejected rather than silently defaulted.
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
	assert.Empty(t, cfg.Port)
}

func TestLoadHeadless_FromEnv(t *testing.T) {
	t.Setenv("AGECALC_PORT", "19000")
	t.Setenv("AGECALC_VCF", "/tmp/contacts.vcf")
	t.Setenv("AGECALC_REFRESH", "15m")

	cfg, err := config.LoadHeadless()

	require.NoError(t, err)
	assert.Equal(t, "19000", cfg.Port)
	assert.Equal(t, "/tmp/contacts.vcf", cfg.VCardPath)
	assert.Equal(t, 15*time.Minute, cfg.Refresh)
	assert.Equal(t, config.SourceModeLocal, cfg.SourceMode())
}

func TestLoadHeadless_InvalidDuration(t *testing.T) {
	t.Setenv("AGECALC_PORT", "19000")
	t.Setenv("AGECALC_REFRESH", "soon")

	_, err := config.LoadHeadless()

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrEnvConfig)
}

func TestHeadlessConfig_SourceMode(t *testing.T) {
	assert.Equal(t, config.SourceModeNone, config.HeadlessConfig{}.SourceMode())
	assert.Equal(t, config.SourceModeWeb, config.HeadlessConfig{CardDAVURL: "https://dav.example.com"}.SourceMode())
	assert.Equal(t, config.SourceModeLocal, config.HeadlessConfig{
		VCardPath:  "/a.vcf",
		CardDAVURL: "https://dav.example.com",
	}.SourceMode(), "A local file wins over a remote source")
}
