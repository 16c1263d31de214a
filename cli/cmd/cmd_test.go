package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/constl/lang"
)

// writeSource writes content to a new file in a temp directory and returns
// its path.
func writeSource(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// withStdin replaces os.Stdin with a pipe carrying content for the duration
// of the test.
func withStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		r.Close()
	})

	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()
}

// testContext returns a context that writes command output to out and reads
// from the given source files.
func testContext(t *testing.T, out io.Writer, sources ...string) context.Context {
	t.Helper()

	ctx, err := WithSourceFiles(t.Context(), sources)
	if err != nil {
		t.Fatalf("WithSourceFiles: %v", err)
	}

	return WithOptions(ctx, Options{Output: out, Indent: lang.DefaultIndent})
}

func TestWithSourceFilesEmpty(t *testing.T) {
	ctx, err := WithSourceFiles(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if sourceFilesFrom(ctx) != nil {
		t.Error("WithSourceFiles(nil) should store nil reader")
	}
}

func TestWithSourceFilesMultipleFiles(t *testing.T) {
	file1 := writeSource(t, "one.cst", "a = 0")
	file2 := writeSource(t, "two.cst", "b = a")

	ctx, err := WithSourceFiles(context.Background(), []string{file1, file2})
	if err != nil {
		t.Fatal(err)
	}

	reader := sourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("WithSourceFiles should return non-nil reader")
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "a = 0\nb = a\n" {
		t.Errorf("got %q, want %q", data, "a = 0\nb = a\n")
	}
}

func TestWithSourceFilesDuplicatePaths(t *testing.T) {
	file := writeSource(t, "dup.cst", "x = 0")

	rel, err := filepath.Rel(mustGetwd(t), file)
	if err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(t.TempDir(), "link.cst")
	if err := os.Symlink(file, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	ctx, err := WithSourceFiles(context.Background(), []string{file, rel, link, file})
	if err != nil {
		t.Fatal(err)
	}

	reader := sourceFilesFrom(ctx)
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := reader.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	if buf.String() != "x = 0\n" {
		t.Errorf("got %q, file should only be read once", buf.String())
	}
}

func TestWithSourceFilesStdinLast(t *testing.T) {
	file := writeSource(t, "file.cst", "a = 0")

	withStdin(t, "b = a")

	ctx, err := WithSourceFiles(context.Background(), []string{"-", file, "-"})
	if err != nil {
		t.Fatal(err)
	}

	reader := sourceFilesFrom(ctx)
	if reader.Stdin() == nil {
		t.Error("expected stdin to be included")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "a = 0\nb = a" {
		t.Errorf("got %q, stdin should be read once and last", data)
	}
}

func TestWithSourceFilesNonexistentFile(t *testing.T) {
	file := writeSource(t, "exists.cst", "a = 0")

	_, err := WithSourceFiles(context.Background(), []string{file, "/nonexistent/file.cst"})
	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("expected ErrOpenSource, got %v", err)
	}

	_, err = WithSourceFiles(context.Background(), []string{t.TempDir()})
	if !errors.Is(err, ErrIsDirectory) {
		t.Errorf("expected ErrIsDirectory, got %v", err)
	}
}

func mustGetwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	return wd
}

func TestEvalRun(t *testing.T) {
	file := writeSource(t, "prog.cst", "a = 0\nb = 0o10\nc = 0007\n")

	var out bytes.Buffer
	if err := new(Eval).Run(testContext(t, &out, file)); err != nil {
		t.Fatalf("eval: %v", err)
	}

	want := "{\n  \"a\": 0,\n  \"b\": 8,\n  \"c\": 7\n}\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestEvalRunStdin(t *testing.T) {
	withStdin(t, "base = 0o2\nvalues = list(0, base, list(base))\n")

	var out bytes.Buffer
	if err := new(Eval).Run(testContext(t, &out)); err != nil {
		t.Fatalf("eval: %v", err)
	}

	want := "{\n  \"base\": 2,\n  \"values\": [\n    0,\n    2,\n    [\n      2\n    ]\n  ]\n}\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestEvalRunSyntaxError(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"a = 09\n", lang.ErrUnexpectedChar},
		{"a = 0\na = 0\n", lang.ErrDuplicateConstant},
		{"a = b\n", lang.ErrUndeclaredConstant},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			file := writeSource(t, "bad.cst", tt.src)

			var out bytes.Buffer

			err := new(Eval).Run(testContext(t, &out, file))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if !lang.IsSyntaxError(err) {
				t.Errorf("expected a syntax error, got %T", err)
			}

			if out.Len() != 0 {
				t.Errorf("expected no output on error, got %q", out.String())
			}
		})
	}
}

func TestFmtRun(t *testing.T) {
	src := "{{! comment }} base = 0o2 seq = list(0, base) d = begin k := seq; end"
	file := writeSource(t, "fmt.cst", src)

	tests := []struct {
		name string
		run  func(ctx context.Context, args sourceArgs) error
		want []string
	}{
		{
			name: "native",
			run:  func(ctx context.Context, a sourceArgs) error { return (&Native{a}).Run(ctx) },
			want: []string{"base = 0o2\nseq = list(0, base)\nd = begin\n  k := seq;\nend\n"},
		},
		{
			name: "json",
			run:  func(ctx context.Context, a sourceArgs) error { return (&JSON{a}).Run(ctx) },
			want: []string{"\"base\": 2", "\"k\": [\n"},
		},
		{
			name: "yaml",
			run:  func(ctx context.Context, a sourceArgs) error { return (&YAML{a}).Run(ctx) },
			want: []string{"base: 2", "d:", "k:"},
		},
		{
			name: "ast",
			run:  func(ctx context.Context, a sourceArgs) error { return (&AST{a}).Run(ctx) },
			want: []string{"Program (3)", "Decl base @1:16", "Ident base"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			// The positional source takes precedence over --source.
			other := writeSource(t, "other.cst", "z = 0")

			err := tt.run(testContext(t, &out, other), sourceArgs{Source: []string{file}})
			if err != nil {
				t.Fatalf("fmt %s: %v", tt.name, err)
			}

			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("expected output to contain %q:\n%s", want, out.String())
				}
			}

			if strings.Contains(out.String(), "z") {
				t.Errorf("output read --source instead of the argument:\n%s", out.String())
			}
		})
	}
}

func TestFmtRunInvalidSyntax(t *testing.T) {
	file := writeSource(t, "bad.cst", "a = list(0,")

	var out bytes.Buffer

	err := (&JSON{sourceArgs{Source: []string{file}}}).Run(testContext(t, &out))
	if !errors.Is(err, lang.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF, got %v", err)
	}
}

func TestQueryRun(t *testing.T) {
	src := "num = 0o5\narr = list(num, 0)\nobj = begin\n value := num;\n" +
		" list_value := arr;\n inner := begin\n x := 0;\n end;\nend\n"
	file := writeSource(t, "query.cst", src)

	tests := []struct {
		expr string
		want string
	}{
		{"obj.inner.x", "0\n"},
		{"obj.list_value", "[5,0]\n"},
		{"sum(arr) + obj.value", "10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			var out bytes.Buffer
			if err := (&Query{Expr: tt.expr}).Run(testContext(t, &out, file)); err != nil {
				t.Fatalf("query: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("got %q, want %q", out.String(), tt.want)
			}
		})
	}

	var out bytes.Buffer

	err := (&Query{Expr: "missing"}).Run(testContext(t, &out, file))
	if !errors.Is(err, lang.ErrQueryCompile) {
		t.Errorf("expected query compile error, got %v", err)
	}
}

func TestVersionRun(t *testing.T) {
	var out bytes.Buffer
	if err := new(Version).Run(testContext(t, &out)); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out.String(), "constl ") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestInitRun(t *testing.T) {
	// The configuration directory does not exist yet.
	confPath := filepath.Join(t.TempDir(), "user", "constl", "config")

	var cli struct {
		MaxDepth int    `default:"100"`
		Caller   bool   `default:"true"`
		Level    string `default:"info"`
		Init     Init   `cmd:""`
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse([]string{"init"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)

	if err := cli.Init.Run(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	want := "config = begin\n  max_depth := 0o144;\n  caller := 0o1;\nend\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}

	// The written file must parse back to the same values.
	prog, err := lang.ParseString(t.Context(), string(data))
	if err != nil {
		t.Fatalf("config does not parse: %v", err)
	}

	v, _ := prog.Env.Lookup("config")
	if d, ok := v.(lang.Dict); !ok || d.Len() != 2 {
		t.Errorf("unexpected config value %v", v)
	}

	err = cli.Init.Run(ctx)
	if !errors.Is(err, ErrFileExists) {
		t.Errorf("expected ErrFileExists, got %v", err)
	}

	cli.Init.Force = true
	if err := cli.Init.Run(ctx); err != nil {
		t.Errorf("forced init: %v", err)
	}
}

func TestFlagLiteral(t *testing.T) {
	tests := []struct {
		val  any
		want string
		ok   bool
	}{
		{0, "0", true},
		{8, "0o10", true},
		{100, "0o144", true},
		{int64(7), "0o7", true},
		{uint(9), "0o11", true},
		{true, "0o1", true},
		{false, "0", true},
		{-1, "", false},
		{"text", "", false},
		{[]string{"a"}, "", false},
	}

	for _, tt := range tests {
		got, ok := flagLiteral(tt.val)
		if got != tt.want || ok != tt.ok {
			t.Errorf("flagLiteral(%#v) = %q, %v; want %q, %v", tt.val, got, ok, tt.want, tt.ok)
		}
	}
}
