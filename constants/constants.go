package constants

import "time"

// Fest identity
const (
	FestName    = "SHRESHTA 2026"
	FestCollege = "Seshadripuram Degree College, Mysuru"
	FestDate    = "17th February 2026"
)

// Firestore collection layout. Registrations live one subcollection
// per event: registrations/{eventId}/teams/{docId}.
const (
	RegistrationsCollection = "registrations"
	TeamsSubcollection      = "teams"
)

// Payment status values carried on every registration document.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// UPI payment defaults. Overridable through the environment.
const (
	DefaultUPIID   = "7760554350@axl"
	DefaultUPIName = "SHRESHTA 2026"
	UPICurrency    = "INR"
)

// Scheduler defaults for the daily summary push.
const (
	DailySummaryHour   = 21
	DailySummaryMinute = 0
	SchedulerInterval  = 24 * time.Hour
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	TimeFormat     = "15:04:05"
	DateTimeFormat = "2006-01-02 15:04:05"
	ExportDateOnly = "02 Jan 2006"
)

// Log level names
const (
	LogLevelDebug = "DEBUG"
	LogLevelInfo  = "INFO"
	LogLevelWarn  = "WARN"
	LogLevelError = "ERROR"
)

// Environment variable keys
const (
	EnvFirebaseCredentials = "FIREBASE_CREDENTIALS_JSON"
	EnvFirebaseProjectID   = "FIREBASE_PROJECT_ID"
	EnvStorageBucket       = "FIREBASE_STORAGE_BUCKET"
	EnvSpreadsheetID       = "SHEETS_SPREADSHEET_ID"
	EnvSheetRange          = "SHEETS_APPEND_RANGE"
	EnvAdminPIN            = "ADMIN_PIN"
	EnvUPIID               = "UPI_ID"
	EnvUPIName             = "UPI_NAME"
	EnvPort                = "PORT"
	EnvLogLevel            = "LOG_LEVEL"
	EnvDebugMode           = "DEBUG_MODE"
)

// Google Sheets mirror defaults
const (
	DefaultSheetAppendRange = "Registrations!A:Z"
	SummarySheetAppendRange = "DailySummary!A:F"
)

// Telemetry
const (
	TelemetryNamespace       = "shreshta-server"
	TelemetryJobName         = "registration-server"
	TelemetryTaskID          = "main"
	TelemetryCredentialsFile = "shreshta-gcloud-credentials.json"
	TelemetryFilePermissions = 0600
)

// String truncation
const (
	TruncateIndicator = "..."
)
