package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig
	Firebase  FirebaseConfig
	Sheets    SheetsConfig
	UPI       UPIConfig
	Admin     AdminConfig
	Schedule  ScheduleConfig
	Logging   LoggingConfig
	Features  FeatureFlags
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port string
}

type FirebaseConfig struct {
	CredentialsJSON string
	ProjectID       string
	StorageBucket   string
}

type SheetsConfig struct {
	SpreadsheetID string
	AppendRange   string
	SummaryRange  string
}

type UPIConfig struct {
	ID   string
	Name string
}

type AdminConfig struct {
	PIN string
}

type ScheduleConfig struct {
	SummaryHour   int
	SummaryMinute int
	Enabled       bool
}

type LoggingConfig struct {
	Level     string
	DebugMode bool
}

type FeatureFlags struct {
	EnableSheetMirror   bool
	EnableDetailedError bool
}

type TelemetryConfig struct {
	Enabled   bool
	ProjectID string
}

// Load reads configuration from the environment.
func Load() *Config {
	spreadsheetID := getEnv(constants.EnvSpreadsheetID, "")

	return &Config{
		Server: ServerConfig{
			Port: getEnv(constants.EnvPort, constants.DefaultHTTPPort),
		},
		Firebase: FirebaseConfig{
			CredentialsJSON: getEnv(constants.EnvFirebaseCredentials, ""),
			ProjectID:       getEnv(constants.EnvFirebaseProjectID, ""),
			StorageBucket:   getEnv(constants.EnvStorageBucket, ""),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: spreadsheetID,
			AppendRange:   getEnv(constants.EnvSheetRange, constants.DefaultSheetAppendRange),
			SummaryRange:  getEnv("SUMMARY_SHEET_RANGE", constants.SummarySheetAppendRange),
		},
		UPI: UPIConfig{
			ID:   getEnv(constants.EnvUPIID, constants.DefaultUPIID),
			Name: getEnv(constants.EnvUPIName, constants.DefaultUPIName),
		},
		Admin: AdminConfig{
			PIN: getEnv(constants.EnvAdminPIN, ""),
		},
		Schedule: ScheduleConfig{
			SummaryHour:   getEnvInt("SUMMARY_HOUR", constants.DailySummaryHour),
			SummaryMinute: getEnvInt("SUMMARY_MINUTE", constants.DailySummaryMinute),
			Enabled:       getEnvBool("ENABLE_DAILY_SUMMARY", spreadsheetID != ""),
		},
		Logging: LoggingConfig{
			Level:     getEnv(constants.EnvLogLevel, constants.LogLevelInfo),
			DebugMode: getEnvBool(constants.EnvDebugMode, false),
		},
		Features: FeatureFlags{
			EnableSheetMirror:   getEnvBool("ENABLE_SHEET_MIRROR", spreadsheetID != ""),
			EnableDetailedError: getEnvBool("ENABLE_DETAILED_ERRORS", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:   getEnvBool("TELEMETRY_ENABLED", false),
			ProjectID: getEnv("GOOGLE_CLOUD_PROJECT", ""),
		},
	}
}

// Validate checks that the loaded configuration can run the server.
func (c *Config) Validate() error {
	if c.Firebase.CredentialsJSON == "" {
		return &ConfigError{
			Field:   "Firebase.CredentialsJSON",
			Message: "FIREBASE_CREDENTIALS_JSON is required",
		}
	}

	// A fixed shared PIN is a weak mechanism; requiring it non-empty
	// and at least 4 digits is the floor, not an endorsement.
	if c.Admin.PIN == "" {
		return &ConfigError{
			Field:   "Admin.PIN",
			Message: "ADMIN_PIN is required",
		}
	}
	if len(c.Admin.PIN) < 4 {
		return &ConfigError{
			Field:   "Admin.PIN",
			Message: "ADMIN_PIN must be at least 4 characters",
		}
	}

	validLogLevels := map[string]bool{
		constants.LogLevelDebug: true,
		constants.LogLevelInfo:  true,
		constants.LogLevelWarn:  true,
		constants.LogLevelError: true,
	}
	if !validLogLevels[strings.ToUpper(c.Logging.Level)] {
		return &ConfigError{
			Field:   "Logging.Level",
			Message: "LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR (got: " + c.Logging.Level + ")",
		}
	}

	if c.Schedule.Enabled {
		if c.Schedule.SummaryHour < 0 || c.Schedule.SummaryHour > 23 {
			return &ConfigError{
				Field:   "Schedule.SummaryHour",
				Message: "SUMMARY_HOUR must be between 0 and 23 (got: " + strconv.Itoa(c.Schedule.SummaryHour) + ")",
			}
		}
		if c.Schedule.SummaryMinute < 0 || c.Schedule.SummaryMinute > 59 {
			return &ConfigError{
				Field:   "Schedule.SummaryMinute",
				Message: "SUMMARY_MINUTE must be between 0 and 59 (got: " + strconv.Itoa(c.Schedule.SummaryMinute) + ")",
			}
		}
	}

	if c.Features.EnableSheetMirror && c.Sheets.SpreadsheetID == "" {
		return &ConfigError{
			Field:   "Sheets.SpreadsheetID",
			Message: "SHEETS_SPREADSHEET_ID is required when the sheet mirror is enabled",
		}
	}

	return nil
}

// IsDebugMode reports whether debug logging is active.
func (c *Config) IsDebugMode() bool {
	return c.Logging.DebugMode || strings.ToUpper(c.Logging.Level) == constants.LogLevelDebug
}

// ConfigError describes an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in " + e.Field + ": " + e.Message
}

// Env helpers
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
