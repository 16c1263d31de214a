package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/constl/log"
)

func Example() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))
	logger.Info("evaluated", slog.String("source", "app.constl"), slog.Int("constants", 3))
	// Output: level=INFO msg=evaluated source=app.constl constants=3
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn), log.WithTimeLayout("none"))

	logger.Debug("tokenized")
	logger.Warn("shadowed", slog.String("name", "a"))
	// Output: level=WARN msg=shadowed name=a
}

func Example_trace() {
	logger := log.Make(os.Stdout, log.WithLevel(log.ParseLevel("trace")), log.WithTimeLayout("none"))

	logger.TraceContext(context.Background(), "declare", slog.String("name", "base"))
	// Output: level=TRACE msg=declare name=base
}

func Example_json() {
	logger := log.Make(os.Stdout, log.WithFormat(log.FormatJSON), log.WithTimeLayout("none")).
		With(slog.String("session", "repl"))

	logger.Error("parse failed", slog.String("error", "undeclared constant b"))
	// Output: {"level":"ERROR","msg":"parse failed","session":"repl","error":"undeclared constant b"}
}
