package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/constl/log"
)

// Eval parses the source program and writes its constants as JSON.
type Eval struct{}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := parse(ctx, nil)
	if err != nil {
		return err
	}

	opts := optionsFrom(ctx)

	log.DebugContext(ctx, "evaluated program",
		slog.Int("constant_count", prog.Env.Len()),
		slog.Int("indent", opts.Indent),
	)

	return prog.FormatJSON(ctx, opts.Output, opts.Indent)
}
