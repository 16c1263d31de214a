package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/constl/lang"
)

type contextKey struct{}

// WithContext returns ctx carrying the parsed command line, which init reads
// to render the current flag values.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type optionsKey struct{}

// Options holds the settings shared by every subcommand.
type Options struct {
	// Output receives command results. Nil selects os.Stdout.
	Output io.Writer
	// Parse is passed to every parse of a source program.
	Parse []lang.Option
	// Indent is the indent width of formatted output.
	Indent int
}

// WithOptions returns a new context.Context containing opts.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) Options {
	opts, ok := ctx.Value(optionsKey{}).(Options)
	if !ok {
		opts.Indent = lang.DefaultIndent
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return opts
}

// input returns the reader for a command's program text: the files named in
// args if any, else the sources stored in ctx, else stdin. The returned
// function releases any opened files.
func input(ctx context.Context, args []string) (io.Reader, func(), error) {
	srcs, err := openSources(args)
	if err != nil {
		return nil, nil, err
	}

	if srcs == nil {
		srcs = sourceFilesFrom(ctx)
	}

	if srcs == nil {
		return os.Stdin, func() {}, nil
	}

	return srcs, func() { _ = srcs.Close() }, nil
}

// parse reads and parses the program selected by args and ctx.
func parse(ctx context.Context, args []string) (*lang.Program, error) {
	r, done, err := input(ctx, args)
	if err != nil {
		return nil, err
	}
	defer done()

	return lang.ParseReader(ctx, r, optionsFrom(ctx).Parse...)
}
