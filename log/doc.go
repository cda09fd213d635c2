// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are immutable values configured at creation time using
// functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Info("template loaded", slog.String("path", path))
//
// Attributes can be attached to every subsequent message with
// [Logger.With], which is how per-instance scoping (one sandbox, one
// template) is implemented throughout the module.
//
// Two machine formats are supported, [FormatText] and [FormatJSON],
// plus a colorized [FormatPretty] intended for terminals.
package log
