// Package cli contains the command line interface for constl.
//
// # Usage
//
// With no command, constl evaluates the program read from --source or
// stdin and prints its constants as JSON:
//
//	constl < program.cst
//	constl -s base.cst -s overrides.cst
//	constl fmt yaml program.cst
//	constl query 'sum(obj.list_value)' -s program.cst
//	constl repl -s program.cst
//
// Several --source files are read in order as one program, each followed by
// a newline. "-" selects stdin, which is always read last.
//
// # Configuration
//
// Flag defaults are read from a file written in the language itself, at
// $XDG_CONFIG_HOME/constl/config. The file declares a single dict constant
// named config whose keys are flag names with hyphens spelled as
// underscores:
//
//	config = begin
//	  indent := 0o4;
//	  max_depth := 0o40;
//	  log_caller := 0o1;
//	end
//
// "constl init" writes this file from the current flag values. A JSON file of
// the same name with a ".json" suffix is also read. Command-line flags
// override both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Log output is written to stderr.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o constl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default
//     ~/.cache/constl/pprof)
package cli
