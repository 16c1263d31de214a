package lang

import (
	"bytes"
	"strings"
	"testing"
)

const nestedSource = "num = 0o5\narr = list(num, 0)\nobj = begin\n value := num;\n" +
	" list_value := arr;\n inner := begin\n x := 0;\n end;\nend\n"

func TestProgram_Format(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:   "numbers keep their spelling",
			input:  "a = 0\nb = 0O10 c=0007",
			indent: 2,
			want:   "a = 0\nb = 0O10\nc = 0007\n",
		},
		{
			name:   "references kept",
			input:  "base = 0o2 values = list(0,base,list( base ))",
			indent: 2,
			want:   "base = 0o2\nvalues = list(0, base, list(base))\n",
		},
		{
			name:   "empty constructors",
			input:  "l = list() d = begin end",
			indent: 2,
			want:   "l = list()\nd = begin end\n",
		},
		{
			name:   "compact dict",
			input:  "d = begin a := 0; b := list(0); end",
			indent: 0,
			want:   "d = begin a := 0; b := list(0); end\n",
		},
		{
			name:   "indented dict",
			input:  "d = begin a := 0; b := begin c := 0; end; end",
			indent: 2,
			want:   "d = begin\n  a := 0;\n  b := begin\n    c := 0;\n  end;\nend\n",
		},
		{
			name:   "comments dropped",
			input:  "{{! header }} a = 0 {{! trailer }}",
			indent: 2,
			want:   "a = 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			var buf bytes.Buffer
			if err := prog.Format(t.Context(), &buf, tt.indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("format mismatch:\nwant: %q\ngot:  %q", tt.want, got)
			}
		})
	}
}

func TestProgram_FormatRoundTrip(t *testing.T) {
	inputs := []string{
		nestedSource,
		"base = 0o2\nvalues = list(0, base, list(base))\n",
		"e = list() f = begin end g = list(e, f)",
		"big = 0o7777777777777777777777777",
	}

	for _, input := range inputs {
		for _, indent := range []int{0, 2, 4} {
			prog := mustParse(t, input)

			var src bytes.Buffer
			if err := prog.Format(t.Context(), &src, indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			again := mustParse(t, src.String())

			if want, got := envJSON(t, prog.Env), envJSON(t, again.Env); want != got {
				t.Errorf("round trip with indent %d changed the result:\nwant: %s\ngot:  %s",
					indent, want, got)
			}
		}
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	prog := mustParse(t, "base = 0o2\nvalues = list(0, base, list(base))\ne = list()\nd = begin end\n")

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, DefaultIndent); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := `{
  "base": 2,
  "values": [
    0,
    2,
    [
      2
    ]
  ],
  "e": [],
  "d": {}
}
`
	if got := buf.String(); got != want {
		t.Errorf("format mismatch:\nwant: %q\ngot:  %q", want, got)
	}

	buf.Reset()

	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if got := buf.String(); got != `{"base":2,"values":[0,2,[2]],"e":[],"d":{}}`+"\n" {
		t.Errorf("unexpected compact output %q", got)
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	prog := mustParse(t, nestedSource+"big = 0o7777777777777777777777777\n")

	var buf bytes.Buffer
	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	got := buf.String()

	for _, want := range []string{"num: 5", "obj:", "value: 5", "inner:", "x: 0", "37778931862957161709567"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected YAML to contain %q:\n%s", want, got)
		}
	}

	order := []string{"num:", "arr:", "obj:", "big:"}
	last := -1

	for _, key := range order {
		i := strings.Index(got, key)
		if i < last {
			t.Errorf("key %q out of declaration order:\n%s", key, got)
		}

		last = i
	}
}

func TestProgram_Print(t *testing.T) {
	prog := mustParse(t, "a = 0\nb = list(a, begin k := 0o1; end)")

	var buf bytes.Buffer
	if err := prog.Print(&buf); err != nil {
		t.Fatalf("print error: %v", err)
	}

	want := `Program (2)
  Decl a @1:1
    Number 0 @1:5
  Decl b @2:1
    List (2) @2:5
      Ident a @2:10
      Dict (1) @2:13
        Pair k @2:19
          Number 0o1 @2:24
`
	if got := buf.String(); got != want {
		t.Errorf("print mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}
