package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	slogmulti "github.com/samber/slog-multi"
)

// Logger is a thin wrapper over slog. Console output is human readable;
// an optional log file receives the same records as JSON.
type Logger struct {
	logger *slog.Logger
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// NewLogger builds a logger writing text to console and, when logFile
// is not nil, JSON to logFile.
func NewLogger(level slog.Level, console io.Writer, logFile io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}

	textHandler := slog.NewTextHandler(console, opts)
	if logFile == nil {
		return &Logger{logger: slog.New(textHandler)}
	}

	logfileHandler := slog.NewJSONHandler(logFile, opts)
	return &Logger{
		logger: slog.New(slogmulti.Fanout(textHandler, logfileHandler)),
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// Error logs err. At debug level the record also carries a stack trace
// captured at the call site.
func (l *Logger) Error(err error, args ...any) {
	if l == nil || l.logger == nil {
		// Error occurred before the logger was
		// initialized
		slog.Error(err.Error(), args...)
		return
	}
	attrs := []any{slog.Any("error", err)}
	if l.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs = append(attrs, slog.String("trace", xerrors.Sprint(xerrors.New(err))))
	}
	l.logger.Error(err.Error(), append(attrs, args...)...)
}
