package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files written
// in the constl language. Flag values are read from the dict bound to the
// constant name:
//
//	config = begin
//	  max_depth := 0o144;
//	  indent := 0o4;
//	  log_caller := 0o1;
//	end
//
// Flag names with hyphens are spelled with underscores. Integers become
// decimal strings so kong can convert them to the flag type; boolean flags
// take 0 or 1. Lists and dicts have no flag equivalent and are ignored.
//
// A file that fails to parse is reported and otherwise ignored, so that a
// broken configuration never prevents the CLI from running. Command-line
// flags override config file values.
func resolve(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		val, ok := prog.Env.Lookup(name)
		if !ok {
			return config{}, nil
		}

		dict, ok := val.(lang.Dict)
		if !ok {
			log.WarnContext(ctx, "ignoring configuration constant",
				slog.String("name", name),
				slog.String("kind", val.Kind().String()))

			return config{}, nil
		}

		return configFrom(ctx, dict), nil
	}
}

// config implements [kong.Resolver] for constl configuration files.
type config map[string]string

func configFrom(ctx context.Context, dict lang.Dict) config {
	cfg := make(config, dict.Len())

	for key, val := range dict.All() {
		num, ok := val.(lang.Integer)
		if !ok {
			log.DebugContext(ctx, "skipping configuration key",
				slog.String("key", key),
				slog.String("kind", val.Kind().String()))

			continue
		}

		cfg[key] = num.String()
	}

	return cfg
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. It returns nil for flags that have no
// entry so kong falls back to their defaults.
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, key := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := c[key]; ok {
			return value, nil
		}
	}

	return nil, nil
}
