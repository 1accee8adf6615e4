// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
//	logger.Info("expanded", slog.Int("tokens", n))
//
// # Levels
//
// In addition to the [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] and is used for per-token evaluation traces.
//
// # Formats
//
// [FormatJSON] and [FormatText] select the record encoding. With
// [WithPretty] enabled (the default), JSON is written as indented objects
// with nested groups and text values are left unquoted; both are colorized
// when the output is a terminal.
//
// # Package-level logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// shared logger that writes to standard error; [Config] reconfigures it.
// Context-unaware functions use [DefaultContextProvider].
package log
