package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
	"github.com/ardnew/constl/pkg"
	"github.com/ardnew/constl/profile"
)

const defaultConfigIndent = 2

// Init writes the current flag values as a configuration file. Only integer
// and boolean flags are written since the language has no strings; booleans
// become 0 and 0o1.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run writes the configuration file named by the config variable. An
// existing file is only replaced with --force.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	path := ktx.Model.Vars()[ConfigIdentifier]
	fail := func(err error) error {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if path == "" {
		return fail(errors.New("no configuration path"))
	}

	prog, err := lang.ParseString(ctx, configSource(ktx))
	if err != nil {
		return fail(err)
	}

	var buf bytes.Buffer
	if err := prog.Format(ctx, &buf, defaultConfigIndent); err != nil {
		return fail(err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if i.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	if err := os.MkdirAll(filepath.Dir(path), pkg.DirMode); err != nil {
		return fail(err)
	}

	file, err := os.OpenFile(path, flags, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fail(ErrFileExists)
	}

	if err != nil {
		return fail(err)
	}

	if _, err := buf.WriteTo(file); err != nil {
		return fail(errors.Join(err, file.Close()))
	}

	if err := file.Close(); err != nil {
		return fail(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.Bool("force", i.Force),
	)

	return nil
}

// skipFlags are flag name prefixes never written to the configuration.
var skipFlags = []string{"help", profile.Tag}

// configSource renders the config dict from the current flag values. Flags
// without a number literal, such as strings, are left out.
func configSource(ktx *kong.Context) string {
	var b strings.Builder

	b.WriteString(ConfigIdentifier + " = begin\n")

	for _, flag := range ktx.Model.Flags {
		skip := func(prefix string) bool { return strings.HasPrefix(flag.Name, prefix) }
		if flag.Hidden || slices.ContainsFunc(skipFlags, skip) {
			continue
		}

		if lit, ok := flagLiteral(ktx.FlagValue(flag)); ok {
			fmt.Fprintf(&b, "%s := %s;\n", strings.ReplaceAll(flag.Name, "-", "_"), lit)
		}
	}

	b.WriteString("end\n")

	return b.String()
}

// flagLiteral returns the number literal for a flag value, or false if the
// value has no representation in the language.
func flagLiteral(val any) (string, bool) {
	switch v := val.(type) {
	case bool:
		if v {
			return octal(1), true
		}

		return octal(0), true

	case int:
		return octalSigned(int64(v))

	case int64:
		return octalSigned(v)

	case uint:
		return octal(uint64(v)), true

	case uint64:
		return octal(v), true

	default:
		return "", false
	}
}

func octalSigned(n int64) (string, bool) {
	if n < 0 {
		return "", false
	}

	return octal(uint64(n)), true
}

// octal spells n as a number literal: "0" for zero, else "0o" and base-8
// digits.
func octal(n uint64) string {
	if n == 0 {
		return "0"
	}

	return "0o" + strconv.FormatUint(n, 8)
}
