package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/constl/cli/cmd"
	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
	"github.com/ardnew/constl/pkg"
)

// baseConfig is the base name of the configuration file and the name of the
// constant it declares.
const baseConfig = cmd.ConfigIdentifier

// CLI is the top-level command-line interface for constl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source   []string `help:"Input source file(s) or '-' for stdin." name:"source" short:"s" type:"path"`
	Indent   int      `default:"${indent}"    help:"Indent width of formatted output (0 for compact)." short:"i"`
	MaxDepth int      `default:"${max_depth}" help:"Maximum nesting depth of list and dict constructors."`

	Init    cmd.Init    `cmd:"" help:"Initialize configuration file"`
	Fmt     cmd.Fmt     `cmd:"" help:"Format a program"`
	Query   cmd.Query   `cmd:"" help:"Evaluate an expression over the declared constants"`
	Repl    cmd.Repl    `cmd:"" help:"Start an interactive session"`
	Version cmd.Version `cmd:"" help:"Print version"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a program and print its constants as JSON"`
}

// Run executes the constl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	// Commands receive ctx as it stands when they run, after withValues.
	parser, err := newParser(ctx, &cli, exit, pkg.ConfigPath(baseConfig),
		func() context.Context { return ctx })
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// Missing directories are created on first write; commands that only
	// read still run when they cannot be.
	if err := pkg.MkdirAll(); err != nil {
		log.WarnContext(ctx, "cannot create user directories", slog.Any("error", err))
	}

	ctx, err = cli.withValues(ctx, ktx)
	if err != nil {
		return err
	}

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// newParser returns the kong parser for cli, reading flag defaults from the
// configuration file at configFilePath. Commands are given the context
// returned by provide.
func newParser(
	ctx context.Context,
	cli *CLI,
	exit func(code int),
	configFilePath string,
	provide func() context.Context,
) (*kong.Kong, error) {
	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"indent":             strconv.Itoa(lang.DefaultIndent),
		"max_depth":          strconv.Itoa(lang.DefaultMaxDepth),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	return kong.New(cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(provide),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
}

// withValues stores the values commands read from their context: the kong
// context, the opened source files and the shared options.
func (c *CLI) withValues(
	ctx context.Context,
	ktx *kong.Context,
) (context.Context, error) {
	ctx = cmd.WithContext(ctx, ktx)

	ctx, err := cmd.WithSourceFiles(ctx, c.Source)
	if err != nil {
		return ctx, err
	}

	return cmd.WithOptions(ctx, cmd.Options{
		Parse: []lang.Option{
			lang.WithMaxDepth(c.MaxDepth),
			lang.WithLogger(log.Default()),
		},
		Indent: c.Indent,
	}), nil
}
