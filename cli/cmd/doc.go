// Package cmd implements the constl subcommands: eval, fmt, query, repl,
// init and version.
//
// Every command reads its program from the files given with --source, or
// from stdin, and writes its result to the [Options.Output] stored in the
// command context.
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. It is also the name of the constant whose dict
	// holds the configured flag values.
	ConfigIdentifier = "config"
)
