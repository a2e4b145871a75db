package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/config"
)

// SlogLogger adapts a slog.Logger to common.Logger
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing slog logger
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// New builds a logger from configuration. The returned closer releases the
// log file when Output is "file" and is a no-op otherwise.
func New(cfg config.LoggingConfig) (*SlogLogger, io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		out, closer = f, f
	}

	return NewSlogLogger(slogFor(out, cfg)), closer, nil
}

func newHandler(out io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.Level),
		AddSource: cfg.IncludeCaller,
	}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// Log implements common.Logger. Metadata keys are emitted in sorted order.
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, metadata[k])
	}

	switch level {
	case common.LevelDebug:
		l.logger.Debug(message, args...)
	case common.LevelWarn:
		l.logger.Warn(message, args...)
	case common.LevelError:
		l.logger.Error(message, args...)
	default:
		l.logger.Info(message, args...)
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func slogFor(out io.Writer, cfg config.LoggingConfig) *slog.Logger {
	return slog.New(newHandler(out, cfg))
}
