package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-AgeCalc/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go AgeCalc"
	AppID             = "com.github.tartampluch.go-agecalc"
	KeyringService    = "com.github.tartampluch.go-agecalc"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvPrefix         = "AGECALC"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeInvalidInput = 2
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagHeadless     = "headless"
	FlagDay          = "day"
	FlagMonth        = "month"
	FlagYear         = "year"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescHeadless = "Serve the HTTP API only, without the desktop window"
	FlagDescDay      = "Day of birth (one-shot calculation)"
	FlagDescMonth    = "Month of birth (one-shot calculation)"
	FlagDescYear     = "Year of birth (one-shot calculation)"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
	FormatCLIAge     = "%d years, %d months, %d days\n"
	FormatCLIError   = "%s: %s\n"
)

// -----------------------------------------------------------------------------
// Age Validation
// -----------------------------------------------------------------------------

// Field names used as keys of validation errors, query parameters and JSON.
const (
	FieldDay   = "day"
	FieldMonth = "month"
	FieldYear  = "year"
)

// User-facing validation messages. These are intentionally not translated.
const (
	MsgInvalidDay   = "Must be a valid day"
	MsgInvalidMonth = "Must be a valid month"
	MsgInvalidYear  = "Must be a valid year"
	MsgInThePast    = "Must be in the past"
)

const (
	MinMonth       = 1
	MaxMonth       = 12
	MinYear        = 1
	MinDay         = 1
	MonthsPerYear  = 12
	ResultEmpty    = "--"
	FormatErrorKey = "%s: %s"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 420
	SettingsWindowWidth = 600

	// Input widths (characters) for the birth date fields.
	MaxLenDay   = 2
	MaxLenMonth = 2
	MaxLenYear  = 4

	// Preference Keys
	PrefCardDAVURL = "carddav_url"
	PrefUsername   = "username"
	PrefLanguage   = "language"
	PrefInterval   = "refresh_interval_min"
	PrefServerPort = "server_port"
	PrefSourceMode = "source_mode"
	PrefLocalPath  = "local_path"
	PrefLastRun    = "last_run_version"
)

// Embedded locale files are named active.<lang>.json.
const (
	LocaleDir    = "locales"
	LocalePrefix = "active."
	LocaleExt    = ".json"
	LocaleFormat = "json"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// UI Contacts Window Constants
// -----------------------------------------------------------------------------

const (
	ContactsWinWidth  = 640
	ContactsWinHeight = 400

	// Table Column IDs
	ColIDName  = 0
	ColIDBirth = 1
	ColIDAge   = 2
	ColIDNext  = 3
	ColCount   = 4

	// Table Layout
	ColWidthName  = 220
	ColWidthBirth = 110
	ColWidthAge   = 170
	ColWidthNext  = 110

	DateFormatDisplay = "2006-01-02"
	FormatMonthDay    = "--%02d-%02d"
	TablePlaceholder  = "Cell Content"
	AgeUnknown        = "-"
	FormatAgeShort    = "%dy %dm %dd"
	LogMsgOpenWin     = "Opening Contacts Window"
	LogMsgSorted      = "Contacts sorted"

	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinSettings    = "win_settings_title"
	TKeyWinContacts    = "win_contacts_title"
	TKeyMenuOpen       = "menu_open"
	TKeyMenuRefresh    = "menu_refresh"
	TKeyMenuSettings   = "menu_settings"
	TKeyMenuContacts   = "menu_contacts"
	TKeyTrayStatus     = "tray_status"      // Requires Count > 0
	TKeyTrayStatusZero = "tray_status_zero" // Explicit key for 0
	TKeyNotifStart     = "notif_sync_start"
	TKeyNotifSuccess   = "notif_sync_success"
	TKeyNotifError     = "notif_err_sync"
	TKeyLblDay         = "lbl_day"
	TKeyLblMonth       = "lbl_month"
	TKeyLblYear        = "lbl_year"
	TKeyHintDay        = "hint_day"
	TKeyHintMonth      = "hint_month"
	TKeyHintYear       = "hint_year"
	TKeyLblYears       = "lbl_years"
	TKeyLblMonths      = "lbl_months"
	TKeyLblDays        = "lbl_days"
	TKeyBtnCalculate   = "btn_calculate"
	TKeyModeNone       = "mode_none"
	TKeyModeCardDAV    = "mode_carddav"
	TKeyModeLocal      = "mode_local"
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblMinutes     = "lbl_minutes_suffix"
	TKeyLblRefresh     = "lbl_refresh_interval"
	TKeyHelpInterval   = "help_interval"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblGeneral     = "lbl_general"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyLblFooter      = "lbl_footer"
	TKeyBtnBrowse      = "btn_browse"
	TKeyLblURL         = "lbl_url"
	TKeyHelpURL        = "help_carddav_url"
	TKeyLblUser        = "lbl_user"
	TKeyLblPass        = "lbl_pass"
	TKeyLblSource      = "lbl_source"
	TKeyEvtSummary     = "event_summary"       // Requires Name
	TKeyEvtSummaryAge  = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBrth = "event_summary_birth" // Requires Name (For age 0)

	// Column Headers & Formats
	TKeyColName    = "col_name"
	TKeyColBirth   = "col_birth"
	TKeyColAge     = "col_age"
	TKeyColNext    = "col_next"
	TKeyFormatDate = "format_date_short"

	// Validation Errors (Settings)
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone    = ""
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18081"
	DefaultRefreshMin = 60
	DefaultLanguage   = "en"
	DefaultLeapYear   = 2000 // Leap year fallback for dates like --02-29
	UIDSalt           = "go-agecalc-v1-"
	DisabledInterval  = 0
	DefaultPersonName = "Birthday"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go AgeCalc//Engine//EN"
	ICalCalName = "Birthdays"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goagecalc"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	MinPort = 1
	MaxPort = 65535

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteAge              = "/api/age"
	RouteAgeCalendar      = "/api/age/calendar.ics"
	RouteContacts         = "/api/contacts"
	RouteContactsCalendar = "/api/contacts/calendar.ics"
	RouteHealth           = "/healthz"
	RouteMetrics          = "/metrics"

	QueryToday = "today"
	QueryName  = "name"
	HealthOK   = "ok"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricCalculations     = "agecalc_calculations_total"
	MetricCalculationsHelp = "Age calculations by outcome"
	MetricFieldErrors      = "agecalc_field_errors_total"
	MetricFieldErrorsHelp  = "Validation failures by field and code"
	MetricContacts         = "agecalc_contacts_loaded"
	MetricContactsHelp     = "Contacts with a birthday in the last roster load"
	LabelOutcome           = "outcome"
	LabelField             = "field"
	LabelCode              = "code"
	OutcomeOK              = "ok"
	OutcomeInvalid         = "invalid"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrTodayParse       = "invalid today parameter, expected YYYY-MM-DD"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrEnvConfig        = "failed to load environment configuration"
	ErrAgeInvariant     = "age decomposition produced negative years"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Contacts loading, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary      = "Birthday: %s"
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackTrayError    = "Go AgeCalc: Sync Error"
	FallbackTrayDefault  = "Go AgeCalc (%d today)"
	FallbackTrayLabel    = "Go AgeCalc"
	FallbackName         = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleSyncError    = "Sync Error"

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgAgeCalculated  = "Age calculated"
	MsgAgeRejected    = "Birth date rejected"
	MsgSyncReq        = "Contacts sync requested"
	MsgSyncSkipped    = "Contacts source not configured, skipping sync"
	MsgSyncFailed     = "Contacts sync failed. Check logs."
	MsgSyncStarted    = "Contacts sync started"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgUpdateSync     = "Updating sync interval"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgRosterLoaded   = "Contacts roster loaded"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Contacts cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgBdayToday      = "Birthday found today"
	MsgHeadlessConfig = "Headless configuration loaded"
	MsgSettingsOpen   = "Opening settings window"
	MsgSettingsFocus  = "Settings window already open, requesting focus"
	MsgSettingsSave   = "Saving preferences"
	MsgKeyringSave    = "Failed to save credentials to keyring"
	MsgRefreshOff     = "Auto-refresh disabled via settings"

	PlaceholderURL = "https://..."
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyFields    = "fields"
	LogKeyYears     = "years"
	LogKeyMonths    = "months"
	LogKeyDays      = "days"
	LogKeyRequestID = "request_id"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompUIForm  = "ui_form"
	CompRoster  = "roster"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
	LayoutColumnsTriple = 3
)
