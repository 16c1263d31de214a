package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/ardnew/constl/lang"
	"github.com/ardnew/constl/log"
)

// declPattern matches input that begins a constant declaration. Anything
// else submitted in eval mode is treated as a query expression.
var declPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*\s*=($|[^=])`)

// isDeclaration reports whether line should be parsed as one or more
// constant declarations rather than evaluated as a query.
func isDeclaration(line string) bool {
	return declPattern.MatchString(strings.TrimSpace(line))
}

// Session holds the constants accumulated during an interactive session.
// Declarations extend the session all-or-nothing: a line that fails to parse
// leaves the session unchanged.
type Session struct {
	prog   *lang.Program
	opts   []lang.Option
	logger log.Logger
}

// NewSession returns a session seeded with the program read from r. A nil
// reader starts an empty session.
func NewSession(
	ctx context.Context,
	r io.Reader,
	logger log.Logger,
	opts ...lang.Option,
) (*Session, error) {
	s := &Session{
		prog:   &lang.Program{Env: lang.NewEnvironment()},
		opts:   append(slices.Clip(opts), lang.WithLogger(logger)),
		logger: logger,
	}

	if r == nil {
		return s, nil
	}

	prog, err := lang.ParseReader(ctx, r, s.opts...)
	if err != nil {
		return nil, err
	}

	s.prog = prog

	return s, nil
}

// Env returns the session's current environment.
func (s *Session) Env() *lang.Environment { return s.prog.Env }

// Program returns the declarations entered so far and their environment.
func (s *Session) Program() *lang.Program { return s.prog }

// Declare parses src as declarations that may reference any constant already
// in the session. It returns the newly bound names in declaration order.
func (s *Session) Declare(ctx context.Context, src string) ([]string, error) {
	opts := append(slices.Clip(s.opts), lang.WithEnvironment(s.prog.Env))

	next, err := lang.ParseString(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(next.Decls))
	for i, d := range next.Decls {
		names[i] = d.Name
	}

	s.prog = &lang.Program{
		Env:   next.Env,
		Decls: append(slices.Clip(s.prog.Decls), next.Decls...),
	}

	s.logger.TraceContext(ctx, "session extended",
		slog.Any("names", names),
		slog.Int("constant_count", s.prog.Env.Len()))

	return names, nil
}

// Replace swaps in a program parsed from src, discarding every constant
// currently in the session.
func (s *Session) Replace(ctx context.Context, src string) error {
	prog, err := s.parse(ctx, src)
	if err != nil {
		return err
	}

	s.set(prog)

	return nil
}

// parse parses src as a complete program with the session's options.
func (s *Session) parse(ctx context.Context, src string) (*lang.Program, error) {
	return lang.ParseString(ctx, src, s.opts...)
}

func (s *Session) set(prog *lang.Program) { s.prog = prog }

// Source renders the session's declarations as formatted source text.
func (s *Session) Source(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := s.prog.Format(ctx, &buf, lang.DefaultIndent); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Eval handles one line of eval-mode input. Declarations extend the session
// and report each new binding as `name = json`. Any other input is evaluated
// as a query against the session's constants.
func (s *Session) Eval(ctx context.Context, line string) (string, error) {
	if !isDeclaration(line) {
		result, err := lang.Query(ctx, s.prog.Env, line)
		if err != nil {
			return "", err
		}

		return lang.FormatResult(result), nil
	}

	names, err := s.Declare(ctx, line)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}

		v, _ := s.prog.Env.Lookup(name)

		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}

		b.WriteString(name + " = " + string(data))
	}

	return b.String(), nil
}

// lookupPath resolves a dotted member path such as "obj.inner" to a value.
func (s *Session) lookupPath(path string) (lang.Value, bool) {
	segments := strings.Split(path, ".")

	v, ok := s.prog.Env.Lookup(segments[0])
	if !ok {
		return nil, false
	}

	for _, seg := range segments[1:] {
		d, isDict := v.(lang.Dict)
		if !isDict {
			return nil, false
		}

		if v, ok = d.Get(seg); !ok {
			return nil, false
		}
	}

	return v, true
}
