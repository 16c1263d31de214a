package cmd

import (
	"context"
	"io"

	"github.com/ardnew/constl/cli/cmd/repl"
	"github.com/ardnew/constl/log"
)

// Repl starts an interactive session seeded with the --source program.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var reader io.Reader

	// The session reads only explicit sources, leaving stdin to the terminal.
	if srcs := sourceFilesFrom(ctx); srcs != nil {
		defer srcs.Close()

		reader = srcs
	}

	cacheDir := ""
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, reader, cacheDir, log.Default(), optionsFrom(ctx).Parse...)
}
