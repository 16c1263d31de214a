package lang

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Comment delimiters.
const (
	commentOpen  = "{{!"
	commentClose = "}}"
)

// Lexer converts source text into a sequence of [Token] values.
//
// A Lexer is restartable: every call to [Lexer.Tokens] scans the source from
// the beginning. It cannot be resumed from the middle of a scan.
type Lexer struct {
	src string
}

// NewLexer returns a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize scans src eagerly and returns every token, ending with
// [KindEOF], or the first lexical error encountered.
func Tokenize(src string) ([]Token, error) {
	var toks []Token

	for tok, err := range NewLexer(src).Tokens() {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// Tokens returns an iterator over the tokens of the source. The last token
// yielded is always [KindEOF]. On error the iterator yields a zero Token
// together with the error and stops.
//
// Tokens are yielded as soon as they are complete, so a caller observes every
// valid token that precedes a lexical error: "09" yields NUMBER "0" first and
// then fails on "9".
func (l *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		s := scanner{src: l.src, line: 1, col: 1}

		for {
			tok, err := s.next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if !yield(tok, nil) || tok.Kind == KindEOF {
				return
			}
		}
	}
}

// scanner holds the cursor state of a single pass over the source.
type scanner struct {
	src  string
	pos  int
	line int
	col  int
}

func (s *scanner) position() Position {
	return Position{Offset: s.pos, Line: s.line, Column: s.col}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

// peek returns the byte n positions ahead of the cursor, or 0 past the end.
func (s *scanner) peek(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}

	return s.src[s.pos+n]
}

func (s *scanner) hasPrefix(p string) bool {
	return len(s.src)-s.pos >= len(p) && s.src[s.pos:s.pos+len(p)] == p
}

// advance moves the cursor past one code point, tracking line and column.
func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(s.src[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) advanceN(n int) {
	for range n {
		s.advance()
	}
}

// skipWhitespaceAndComments skips any run of whitespace and block comments.
func (s *scanner) skipWhitespaceAndComments() error {
	for {
		for !s.eof() {
			r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
			if !unicode.IsSpace(r) {
				break
			}

			s.advance()
		}

		if !s.hasPrefix(commentOpen) {
			return nil
		}

		start := s.position()
		s.advanceN(len(commentOpen))

		for !s.hasPrefix(commentClose) {
			if s.eof() {
				return lexError(ErrUnterminatedComment.At(start))
			}

			s.advance()
		}

		s.advanceN(len(commentClose))
	}
}

// next scans a single token.
func (s *scanner) next() (Token, error) {
	if err := s.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	start := s.position()

	if s.eof() {
		return Token{Kind: KindEOF, Pos: start}, nil
	}

	ch := s.peek(0)

	switch {
	case isIdentStart(ch):
		for !s.eof() && isIdentContinue(s.peek(0)) {
			s.advance()
		}

		text := s.src[start.Offset:s.pos]
		kind := KindIdent

		if isKeyword(text) {
			kind = KindKeyword
		}

		return Token{Kind: kind, Text: text, Pos: start}, nil

	case ch == '0':
		for !s.eof() && isNumberRun(s.peek(0)) {
			s.advance()
		}

		text := s.src[start.Offset:s.pos]
		if _, ok := ParseNumber(text); !ok {
			return Token{}, lexError(ErrInvalidNumber.About(text).At(start))
		}

		return Token{Kind: KindNumber, Text: text, Pos: start}, nil

	case ch == ':' && s.peek(1) == '=':
		s.advanceN(2)

		return Token{Kind: KindAssign, Text: ":=", Pos: start}, nil
	}

	if kind, ok := punctuation[ch]; ok {
		s.advance()

		return Token{Kind: kind, Text: string(ch), Pos: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])

	return Token{}, lexError(ErrUnexpectedChar.About(string(r)).At(start))
}

var punctuation = map[byte]Kind{
	'(': KindLParen,
	')': KindRParen,
	',': KindComma,
	';': KindSemicolon,
	'=': KindEqual,
}

// Character classification

func isIdentStart(c byte) bool { return c >= 'a' && c <= 'z' }

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isOctalDigit(c) || c == '8' || c == '9' || c == '_'
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

// isNumberRun reports whether c is consumed by the greedy number scan.
func isNumberRun(c byte) bool { return c == 'o' || c == 'O' || isOctalDigit(c) }
