package types

// RunMode is the mode in which the application is running
type RunMode string

const (
	// ModeLocal runs the API server with in memory repositories
	ModeLocal RunMode = "local"
	// ModeAPI runs the API server backed by postgres
	ModeAPI RunMode = "api"
)

// LogLevel is the level of the log
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
