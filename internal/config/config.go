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
var UserAgent = "Go-RelTime/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go RelTime"
	AppID             = "com.github.tartampluch.go-reltime"
	KeyringService    = "com.github.tartampluch.go-reltime"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
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
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagSource   = "source"
	FlagLanguage = "lang"
	FlagPort     = "port"
	FlagUser     = "user"

	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescSource   = "Path or URL of an .ics calendar or .vcf contact file to watch"
	FlagDescLanguage = "UI language code (e.g. en, fr)"
	FlagDescPort     = "Port for the local status endpoint; empty disables it"
	FlagDescUser     = "Basic-auth username for remote feeds; password comes from the system keyring"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// UI Constants
// -----------------------------------------------------------------------------

const (
	MainWinWidth  = 520
	MainWinHeight = 420
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle    = "win_title"
	TKeyLblEmpty    = "lbl_no_entries"
	TKeyLblWatching = "lbl_watching" // Requires Count > 0
	TKeyNotifTitle  = "notif_reached_title"
	TKeyNotifBody   = "notif_reached_body" // Requires Name
	TKeyPlaceholder = "lbl_unknown_time"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultLanguage = "en"
	DefaultPort     = "" // status endpoint disabled unless requested

	// DefaultLeapYear anchors year-less birthday dates (--02-29) safely.
	DefaultLeapYear = 2000

	// UIDSalt keeps generated entry identifiers stable across reloads.
	UIDSalt = "go-reltime-v1-"

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
)

// -----------------------------------------------------------------------------
// Source Files: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ExtICS   = ".ics"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	// Date layouts accepted for vCard BDAY fields.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	FallbackName = "Unknown"
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
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB: calendars and contact files, not photos
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	AddrSeparator       = ":"
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

	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrSourceEmpty     = "configuration error: source location is empty"
	ErrSourceUnsupport = "configuration error: unsupported source file type"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrICalParse       = "failed to parse iCalendar stream"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSourceLoad      = "failed to load watch source"
	ErrKeyringLookup   = "keyring lookup failed (password might be absent)"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Status not ready yet, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting  = "Starting application"
	MsgAppStop      = "Application stopped gracefully"
	MsgCtxCancel    = "Context cancelled, shutting down UI"
	MsgServerListen = "HTTP status server listening"
	MsgServerStop   = "Shutting down HTTP status server..."
	MsgCacheUpdated = "Status snapshot updated"
	MsgSourceLoaded = "Watch source loaded"
	MsgSkippedCard  = "Skipping malformed vCard"
	MsgSkippedDate  = "Skipping invalid date format"
	MsgSkippedEvent = "Skipping event without usable start date"
	MsgLocaleSkip   = "Skipping non-locale file"
	MsgLocaleLoaded = "Locale loaded successfully"
	MsgTransMissing = "Missing translation key"
	MsgReached      = "Watched moment reached the present"
	MsgLogWarning   = "Warning: %s at %s: %v\n"
	MsgDemoEntries  = "No source given, showing demo entries"
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
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeySource    = "source"
	LogKeyEntries   = "entries"
	LogKeyDuration  = "duration_ms"

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
	CompSource  = "source"
	CompFetcher = "fetcher"
	CompServer  = "server"
	CompMain    = "main"
	CompI18n    = "i18n"
)
