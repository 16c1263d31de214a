package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
)

// Query evaluates an expression over the constants of the source program.
type Query struct {
	Expr string `arg:"" help:"Expression in expr-lang syntax, e.g. 'obj.inner.x' or 'sum(arr)'." name:"expr"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := parse(ctx, nil)
	if err != nil {
		return err
	}

	result, err := lang.Query(ctx, prog.Env, q.Expr)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "query evaluated",
		slog.String("query", q.Expr),
		slog.String("result_type", fmt.Sprintf("%T", result)),
	)

	_, err = fmt.Fprintln(optionsFrom(ctx).Output, lang.FormatResult(result))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
