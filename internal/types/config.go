package types

type RunMode string

const (
	// ModeLocal is the mode for running the engine embedded in a locally run application
	ModeLocal RunMode = "local"
	// ModeProduction is the mode for running the engine inside the deployed ERP application
	ModeProduction RunMode = "production"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
