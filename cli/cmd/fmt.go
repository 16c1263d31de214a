package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
)

// Fmt parses the source program and formats it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as constl source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// sourceArgs is embedded by every fmt subcommand.
type sourceArgs struct {
	Source []string `arg:"" help:"Source input file(s) or '-' for stdin. Defaults to --source." name:"source" optional:"" type:"path"`
}

// format parses the selected program and writes it to the command output with
// write. Syntax errors are returned unchanged so that callers can report them.
func format(
	ctx context.Context,
	name string,
	args sourceArgs,
	write func(*lang.Program, context.Context, io.Writer, int) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	prog, err := parse(ctx, args.Source)
	if err != nil {
		return err
	}

	opts := optionsFrom(ctx)

	log.DebugContext(ctx, "formatting program",
		slog.String("format", name),
		slog.Int("declaration_count", len(prog.Decls)),
		slog.Int("indent", opts.Indent),
	)

	return write(prog, ctx, opts.Output, opts.Indent)
}

// Native formats input as constl source text.
type Native struct{ sourceArgs }

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, "native", f.sourceArgs, (*lang.Program).Format)
}

// JSON formats input as JSON.
type JSON struct{ sourceArgs }

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.sourceArgs, (*lang.Program).FormatJSON)
}

// YAML formats input as YAML.
type YAML struct{ sourceArgs }

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.sourceArgs, (*lang.Program).FormatYAML)
}

// AST formats input as an abstract syntax tree representation.
type AST struct{ sourceArgs }

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, "ast", a.sourceArgs,
		func(prog *lang.Program, _ context.Context, w io.Writer, _ int) error {
			return prog.Print(w)
		})
}
