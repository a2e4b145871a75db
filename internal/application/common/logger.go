package common

import "context"

// Log levels understood by Logger implementations
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARNING"
	LevelError = "ERROR"
)

// Logger provides structured logging for simulation components
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return NoOpLogger()
}

// NoOpLogger returns a logger that discards everything
func NoOpLogger() Logger {
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger is configured)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}
