package engine_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the network layer for unit tests using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, src engine.WebSource) (io.ReadCloser, error) {
	args := m.Called(ctx, src)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func webRoster(t *testing.T, now time.Time, vcards string) (*engine.Roster, *MockFetcher) {
	t.Helper()
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(vcards)), nil)
	return &engine.Roster{Clock: MockClock{CurrentTime: now}, Fetcher: fetcher}, fetcher
}

var webCfg = engine.SourceConfig{
	Mode: config.SourceModeWeb,
	Web:  engine.WebSource{URL: "http://test.local"},
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestRosterLoad_Local_Success(t *testing.T) {
	vcardContent := `BEGIN:VCARD
VERSION:4.0
FN:John Doe
BDAY:2000-01-01
END:VCARD`

	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(vcardContent), 0o600))

	// John Doe's birthday.
	roster := &engine.Roster{Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}}

	contacts, count, err := roster.Load(context.Background(), engine.SourceConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: path,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count, "Should identify one birthday today")
	require.Len(t, contacts, 1)

	c := contacts[0]
	assert.Equal(t, "John Doe", c.Name)
	assert.True(t, c.YearKnown)
	assert.Equal(t, engine.AgeResult{Years: 25}, c.Age)
	assert.Equal(t, engine.NewDate(2025, time.January, 1), c.NextBirthday)
	assert.Equal(t, 25, c.AgeNext)
	assert.NotEmpty(t, c.UID)
}

func TestRosterLoad_AgeDecomposition(t *testing.T) {
	vcards := "BEGIN:VCARD\nVERSION:3.0\nFN:Ada\nBDAY:2000-06-20\nEND:VCARD"
	roster, fetcher := webRoster(t, time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), vcards)

	contacts, _, err := roster.Load(context.Background(), webCfg)

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, engine.AgeResult{Years: 23, Months: 11, Days: 26}, contacts[0].Age)
	assert.Equal(t, engine.NewDate(2024, time.June, 20), contacts[0].NextBirthday)
	assert.Equal(t, 24, contacts[0].AgeNext)
	fetcher.AssertExpectations(t)
}

func TestRosterLoad_Web_LeapYear_EdgeCase(t *testing.T) {
	vcards := `BEGIN:VCARD
VERSION:3.0
FN:Leap Baby
BDAY:2000-02-29
END:VCARD`

	// 2025 is not a leap year: the anniversary normalises to March 1st.
	roster, fetcher := webRoster(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), vcards)

	contacts, count, err := roster.Load(context.Background(), webCfg)

	require.NoError(t, err)
	assert.Equal(t, 1, count, "Leapling should have birthday on March 1st in non-leap year")
	require.Len(t, contacts, 1)
	assert.Equal(t, engine.NewDate(2025, time.March, 1), contacts[0].NextBirthday)
	fetcher.AssertExpectations(t)
}

func TestRosterLoad_NextBirthday(t *testing.T) {
	vcards := `BEGIN:VCARD
VERSION:3.0
FN:Past Birthday
BDAY:1990-01-01
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Future Birthday
BDAY:1990-12-31
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:Today Birthday
BDAY:1990-06-01
END:VCARD`

	roster, _ := webRoster(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), vcards)

	contacts, count, err := roster.Load(context.Background(), webCfg)
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	assert.Equal(t, 1, count)

	byName := make(map[string]engine.Contact)
	for _, c := range contacts {
		byName[c.Name] = c
	}

	assert.Equal(t, engine.NewDate(2026, time.January, 1), byName["Past Birthday"].NextBirthday)
	assert.Equal(t, engine.NewDate(2025, time.December, 31), byName["Future Birthday"].NextBirthday)
	assert.Equal(t, engine.NewDate(2025, time.June, 1), byName["Today Birthday"].NextBirthday)
	assert.Equal(t, engine.AgeResult{Years: 35}, byName["Today Birthday"].Age)
}

func TestRosterLoad_Web_NetworkError(t *testing.T) {
	fetcher := new(MockFetcher)
	expectedErr := errors.New("network unreachable")
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, expectedErr)

	roster := &engine.Roster{Clock: MockClock{CurrentTime: time.Now()}, Fetcher: fetcher}

	contacts, count, err := roster.Load(context.Background(), webCfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), config.ErrVCardParse)
	assert.Nil(t, contacts)
	assert.Equal(t, 0, count)
}

func TestRosterLoad_ConfigErrors(t *testing.T) {
	roster := &engine.Roster{Clock: MockClock{CurrentTime: time.Now()}}

	tests := []struct {
		name    string
		cfg     engine.SourceConfig
		wantErr string
	}{
		{"EmptyPath", engine.SourceConfig{Mode: config.SourceModeLocal}, config.ErrLocalPathEmpty},
		{"EmptyURL", engine.SourceConfig{Mode: config.SourceModeWeb}, config.ErrWebURLEmpty},
		{"NoFetcher", webCfg, config.ErrFetcherMissing},
		{"UnknownMode", engine.SourceConfig{Mode: "ftp"}, config.ErrModeUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := roster.Load(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRosterLoad_SkipsFutureAndUnknownYear(t *testing.T) {
	vcards := `BEGIN:VCARD
VERSION:3.0
FN:Future Baby
BDAY:2027-01-01
END:VCARD
BEGIN:VCARD
VERSION:3.0
FN:No Year
BDAY:--10-25
END:VCARD`

	roster, _ := webRoster(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), vcards)

	contacts, _, err := roster.Load(context.Background(), webCfg)

	require.NoError(t, err)
	require.Len(t, contacts, 1, "A birthday after today is rejected by the calculator")
	c := contacts[0]
	assert.Equal(t, "No Year", c.Name)
	assert.False(t, c.YearKnown)
	assert.Equal(t, engine.AgeResult{}, c.Age)
	assert.Equal(t, 0, c.AgeNext)
	assert.Equal(t, engine.NewDate(2025, time.October, 25), c.NextBirthday)
}

func TestRosterLoad_NameFallbacks(t *testing.T) {
	vcards := `BEGIN:VCARD
VERSION:3.0
N:Lovelace;Ada;;;
BDAY:1815-12-10
END:VCARD
BEGIN:VCARD
VERSION:3.0
BDAY:1900-01-01
END:VCARD`

	roster, _ := webRoster(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), vcards)

	contacts, _, err := roster.Load(context.Background(), webCfg)

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Contains(t, contacts[0].Name, "Lovelace")
	assert.Equal(t, config.FallbackName, contacts[1].Name)
}

func TestRosterLoad_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	path := filepath.Join(t.TempDir(), "cancel.vcf")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cancel()

	roster := &engine.Roster{Clock: MockClock{CurrentTime: time.Now()}}
	_, _, err := roster.Load(ctx, engine.SourceConfig{Mode: config.SourceModeLocal, LocalPath: path})

	require.Error(t, err)
	assert.Equal(t, context.Canceled, err, "Should return context canceled error")
}

func TestParseBirthday_Formats(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		want      engine.Date
		yearKnown bool
		wantErr   bool
	}{
		{"ISO8601 Standard", "1990-10-25", engine.NewDate(1990, time.October, 25), true, false},
		{"Basic Format", "19901025", engine.NewDate(1990, time.October, 25), true, false},
		{"RFC3339", "1990-10-25T00:00:00Z", engine.NewDate(1990, time.October, 25), true, false},
		{"Truncated (Month-Day)", "--10-25", engine.NewDate(config.DefaultLeapYear, time.October, 25), false, false},
		{"Truncated Basic", "--1025", engine.NewDate(config.DefaultLeapYear, time.October, 25), false, false},
		{"Truncated Leap Day", "--02-29", engine.NewDate(config.DefaultLeapYear, time.February, 29), false, false},
		{"Garbage Data", "not-a-date", engine.Date{}, false, true},
		{"Impossible Date", "2023-02-29", engine.Date{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, yearKnown, err := engine.ParseBirthday(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), config.ErrDateParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.yearKnown, yearKnown)
		})
	}
}
