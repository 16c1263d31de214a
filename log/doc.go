// Package log wraps [log/slog] with a small set of functional options and a
// process-wide default logger.
//
// A [Logger] is created with [Make] and derived with [Logger.Wrap], which
// copies the configuration, or [Logger.With], which adds attributes:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger = logger.With(slog.String("session", "repl"))
//	logger.Debug("declaration bound", slog.String("name", "base"))
//
// The package-level functions ([Info], [Error], ...) write through the
// default logger, which writes to stderr until [Config] reconfigures it.
// Functions without a context argument use [DefaultContextProvider].
//
// Levels run from [LevelTrace], used for lexer and parser events, to
// [LevelError]. [WithTimeLayout] accepts the names of the layouts in the
// [time] package or a literal layout, and "none" drops timestamps.
// [WithPretty] colorizes either [FormatText] or [FormatJSON] output and
// flattens groups into dotted keys.
package log
