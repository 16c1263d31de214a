package lang

//go:generate go tool stringer --linecomment --type Kind,ValueKind --output token_string.go

import "strconv"

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindEOF       Kind = iota // EOF
	KindIdent                 // IDENT
	KindKeyword               // KEYWORD
	KindNumber                // NUMBER
	KindLParen                // LPAREN
	KindRParen                // RPAREN
	KindComma                 // COMMA
	KindSemicolon             // SEMICOLON
	KindEqual                 // EQUAL
	KindAssign                // ASSIGN
)

// Reserved keyword spellings.
const (
	KeywordList  = "list"
	KeywordBegin = "begin"
	KeywordEnd   = "end"
)

// isKeyword reports whether s is one of the reserved keyword spellings.
func isKeyword(s string) bool {
	switch s {
	case KeywordList, KeywordBegin, KeywordEnd:
		return true
	}

	return false
}

// Position is a location in source text. Line and Column are 1-based and
// Column counts code points; Offset is the 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether p refers to an actual source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexeme produced by the [Lexer].
type Token struct {
	Text string
	Pos  Position
	Kind Kind
}

// Is reports whether the token has the given kind and, when text is
// non-empty, the given text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && (text == "" || t.Text == text)
}

// String returns a diagnostic representation such as "NUMBER '0o7'".
func (t Token) String() string {
	if t.Kind == KindEOF {
		return t.Kind.String()
	}

	return t.Kind.String() + " '" + t.Text + "'"
}
