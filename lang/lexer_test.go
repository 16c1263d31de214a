package lang

import (
	"errors"
	"testing"
)

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{
			name:  "empty",
			input: "",
			want:  []Kind{KindEOF},
		},
		{
			name:  "whitespace only",
			input: " \t\r\n ",
			want:  []Kind{KindEOF},
		},
		{
			name:  "declaration",
			input: "a = 0o7",
			want:  []Kind{KindIdent, KindEqual, KindNumber, KindEOF},
		},
		{
			name:  "list",
			input: "list(0, a)",
			want: []Kind{
				KindKeyword, KindLParen, KindNumber, KindComma, KindIdent,
				KindRParen, KindEOF,
			},
		},
		{
			name:  "dict",
			input: "begin k := 0; end",
			want: []Kind{
				KindKeyword, KindIdent, KindAssign, KindNumber, KindSemicolon,
				KindKeyword, KindEOF,
			},
		},
		{
			name:  "keyword prefix is identifier",
			input: "lists beginning ending",
			want:  []Kind{KindIdent, KindIdent, KindIdent, KindEOF},
		},
		{
			name:  "identifier with digits and underscore",
			input: "a_1 z9_",
			want:  []Kind{KindIdent, KindIdent, KindEOF},
		},
		{
			name:  "comment elided",
			input: "{{! comment\nspans lines }}\nx = 0\n",
			want:  []Kind{KindIdent, KindEqual, KindNumber, KindEOF},
		},
		{
			name:  "adjacent comments",
			input: "{{!a}}{{!b}}x",
			want:  []Kind{KindIdent, KindEOF},
		},
		{
			name:  "comment may contain anything",
			input: "{{! { } := 9 ? ü {{! }} x",
			want:  []Kind{KindIdent, KindEOF},
		},
		{
			name:  "number followed by identifier",
			input: "0abc",
			want:  []Kind{KindNumber, KindIdent, KindEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(toks) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.want), len(toks), toks)
			}

			for i, tok := range toks {
				if tok.Kind != tt.want[i] {
					t.Errorf("token %d: expected %s, got %s", i, tt.want[i], tok)
				}
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize("a = 0o7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind Kind
		text string
		pos  string
	}{
		{KindIdent, "a", "1:1"},
		{KindEqual, "=", "1:3"},
		{KindNumber, "0o7", "1:5"},
		{KindEOF, "", "1:8"},
	}

	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}

	for i, w := range want {
		if !toks[i].Is(w.kind, w.text) {
			t.Errorf("token %d: expected %s %q, got %s", i, w.kind, w.text, toks[i])
		}

		if got := toks[i].Pos.String(); got != w.pos {
			t.Errorf("token %d: expected position %s, got %s", i, w.pos, got)
		}
	}
}

func TestTokenize_MultilinePositions(t *testing.T) {
	toks, err := Tokenize("x = 0\n  ü_no")
	if err == nil {
		t.Fatalf("expected error, got tokens %v", toks)
	}

	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected LexError, got %T", err)
	}

	if got := le.Position().String(); got != "2:3" {
		t.Errorf("expected position 2:3, got %s", got)
	}

	if le.Subject() != "ü" {
		t.Errorf("expected subject 'ü', got %q", le.Subject())
	}
}

func TestTokenize_Numbers(t *testing.T) {
	tests := []struct {
		lexeme string
		want   string
	}{
		{"0", "0"},
		{"0o0", "0"},
		{"0o7", "7"},
		{"0o10", "8"},
		{"0O17", "15"},
		{"0007", "7"},
		{"0010", "8"},
		{"0o7777777777777777777777777", "37778931862957161709567"},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			toks, err := Tokenize(tt.lexeme)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !toks[0].Is(KindNumber, tt.lexeme) {
				t.Fatalf("expected NUMBER %q, got %s", tt.lexeme, toks[0])
			}

			n, ok := ParseNumber(toks[0].Text)
			if !ok {
				t.Fatalf("ParseNumber(%q) failed", toks[0].Text)
			}

			if n.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, n)
			}
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    error
		subject string
		pos     string
	}{
		{"digit after zero", "a = 09\n", ErrUnexpectedChar, "9", "1:6"},
		{"bare prefix", "0o", ErrInvalidNumber, "0o", "1:1"},
		{"double zero", "00", ErrInvalidNumber, "00", "1:1"},
		{"prefix then eight", "0o8", ErrInvalidNumber, "0o", "1:1"},
		{"second prefix", "0o7o7", ErrInvalidNumber, "0o7o7", "1:1"},
		{"lone colon", "a : 0", ErrUnexpectedChar, ":", "1:3"},
		{"nonzero digit", "a = 7", ErrUnexpectedChar, "7", "1:5"},
		{"uppercase identifier", "A = 0", ErrUnexpectedChar, "A", "1:1"},
		{"unterminated comment", "{{! x", ErrUnterminatedComment, "", "1:1"},
		{"unterminated after code", "x = 0\n {{! }", ErrUnterminatedComment, "", "2:2"},
		{"single brace", "{ x }", ErrUnexpectedChar, "{", "1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			var le *LexError
			if !errors.As(err, &le) {
				t.Fatalf("expected LexError, got %T", err)
			}

			if le.Subject() != tt.subject {
				t.Errorf("expected subject %q, got %q", tt.subject, le.Subject())
			}

			if got := le.Position().String(); got != tt.pos {
				t.Errorf("expected position %s, got %s", tt.pos, got)
			}
		})
	}
}

func TestLexer_EmitThenFail(t *testing.T) {
	var (
		toks []Token
		errs []error
	)

	for tok, err := range NewLexer("09").Tokens() {
		if err != nil {
			errs = append(errs, err)

			continue
		}

		toks = append(toks, tok)
	}

	if len(toks) != 1 || !toks[0].Is(KindNumber, "0") {
		t.Fatalf("expected a single NUMBER '0' before the error, got %v", toks)
	}

	if len(errs) != 1 || !errors.Is(errs[0], ErrUnexpectedChar) {
		t.Fatalf("expected one unexpected character error, got %v", errs)
	}
}

func TestLexer_Restartable(t *testing.T) {
	l := NewLexer("a = list(0, 0o1)")

	collect := func() []Token {
		var out []Token

		for tok, err := range l.Tokens() {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			out = append(out, tok)
		}

		return out
	}

	first, second := collect(), collect()
	if len(first) != len(second) {
		t.Fatalf("expected equal token counts, got %d and %d", len(first), len(second))
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestLexer_StopEarly(t *testing.T) {
	n := 0

	for range NewLexer("a b c d").Tokens() {
		n++
		if n == 2 {
			break
		}
	}

	if n != 2 {
		t.Errorf("expected iteration to stop after 2 tokens, got %d", n)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		lexeme string
		ok     bool
	}{
		{"0", true},
		{"0o1", true},
		{"001", true},
		{"0O1", true},
		{"", false},
		{"1", false},
		{"00", false},
		{"0o", false},
		{"0x1", false},
		{"0o8", false},
		{"1o1", false},
		{"0oo1", false},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			if _, ok := ParseNumber(tt.lexeme); ok != tt.ok {
				t.Errorf("ParseNumber(%q): expected ok=%v, got %v", tt.lexeme, tt.ok, ok)
			}
		})
	}
}
