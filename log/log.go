package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is an immutable logging handle wrapping [slog.Logger].
type Logger struct {
	*slog.Logger
	config
}

// Make creates a new [Logger] that writes to the specified writer.
// The default configuration is [DefaultFormat], [DefaultLevel], and
// [DefaultTimeLayout] with caller info disabled; override it with
// options like [WithLevel], [WithFormat], and [WithTimeLayout].
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Discard returns a Logger that drops all messages.
func Discard() Logger {
	return Make(io.Discard)
}

// Wrap returns a new [Logger] using the receiver's configuration as the
// base, with any provided options overriding specific values.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := apply(l.config, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// With returns a new [Logger] that includes the given attributes in
// each log message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return Logger{
		config: l.config,
		Logger: slog.New(l.Logger.Handler().WithAttrs(attrs)),
	}
}

// Level returns the minimum log level.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.level
}

// Format returns the log output format.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.format
}

// Debug logs a message at Debug level.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.logAttrs(LevelDebug, msg, attrs...)
}

// Info logs a message at Info level.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.logAttrs(LevelInfo, msg, attrs...)
}

// Warn logs a message at Warn level.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.logAttrs(LevelWarn, msg, attrs...)
}

// Error logs a message at Error level.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.logAttrs(LevelError, msg, attrs...)
}

func (l Logger) logAttrs(level Level, msg string, attrs ...slog.Attr) {
	if l.Logger == nil {
		return
	}

	l.Logger.LogAttrs(context.Background(), slog.Level(level), msg, attrs...)
}

// defaultLogger holds the process-wide default Logger.
var defaultLogger atomic.Pointer[Logger]

// Default returns the process-wide default Logger, creating one that
// writes to stderr on first use.
func Default() Logger {
	if l := defaultLogger.Load(); l != nil {
		return *l
	}

	l := Make(os.Stderr)
	defaultLogger.CompareAndSwap(nil, &l)

	return *defaultLogger.Load()
}

// SetDefault replaces the process-wide default Logger.
func SetDefault(l Logger) {
	defaultLogger.Store(&l)
}

// Debug logs a message at Debug level using the default Logger.
func Debug(msg string, attrs ...slog.Attr) { Default().Debug(msg, attrs...) }

// Info logs a message at Info level using the default Logger.
func Info(msg string, attrs ...slog.Attr) { Default().Info(msg, attrs...) }

// Warn logs a message at Warn level using the default Logger.
func Warn(msg string, attrs ...slog.Attr) { Default().Warn(msg, attrs...) }

// Error logs a message at Error level using the default Logger.
func Error(msg string, attrs ...slog.Attr) { Default().Error(msg, attrs...) }
