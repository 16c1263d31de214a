package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"

	"github.com/ardnew/constl/log"
)

// DefaultMaxDepth is the default limit on nested list and dict constructors.
const DefaultMaxDepth = 100

// Option configures a parse.
type Option func(*options)

type options struct {
	logger   log.Logger
	env      *Environment
	maxDepth int
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMaxDepth limits how deeply list and dict constructors may nest.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultMaxDepth
		}

		o.maxDepth = n
	}
}

// WithLogger sets the logger that receives trace-level parse events.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEnvironment seeds the parse with existing bindings. The given
// environment is cloned and never modified.
func WithEnvironment(env *Environment) Option {
	return func(o *options) { o.env = env }
}

// ParseReader reads all of r and parses it as a program.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString tokenizes and parses src as a program.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	toks, err := Tokenize(src)
	if err != nil {
		o.logger.TraceContext(ctx, "lex failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "lex complete", slog.Int("token_count", len(toks)))

	return parse(ctx, toks, o)
}

// Parse parses and evaluates a token sequence, such as one returned by
// [Tokenize]. Evaluation is interleaved with parsing, so the first error in
// source order is the one reported.
func Parse(ctx context.Context, toks []Token, opts ...Option) (*Program, error) {
	return parse(ctx, toks, makeOptions(opts...))
}

func parse(ctx context.Context, toks []Token, o options) (*Program, error) {
	env := NewEnvironment()
	if o.env != nil {
		env = o.env.Clone()
	}

	p := &parser{
		ctx:    ctx,
		toks:   toks,
		env:    env,
		logger: o.logger,
		limit:  o.maxDepth,
	}

	prog := &Program{Env: env}

	for !p.peek().Is(KindEOF, "") {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}

		prog.Decls = append(prog.Decls, d)
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("declaration_count", len(prog.Decls)),
		slog.Int("constant_count", env.Len()))

	return prog, nil
}

// parser holds the cursor over a token sequence and the environment being
// built.
type parser struct {
	ctx    context.Context
	env    *Environment
	logger log.Logger
	toks   []Token
	pos    int
	limit  int
}

// peek returns the current token. Past the end of the sequence it returns a
// synthetic EOF so that a sequence missing its EOF still terminates.
func (p *parser) peek() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}

	var end Position
	if n := len(p.toks); n > 0 {
		end = p.toks[n-1].Pos
	}

	return Token{Kind: KindEOF, Pos: end}
}

func (p *parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}

	return tok
}

// expect consumes the current token if it has the given kind (and text, when
// non-empty).
func (p *parser) expect(kind Kind, text string) (Token, error) {
	tok := p.peek()
	if tok.Is(kind, text) {
		return p.next(), nil
	}

	want := kind.String()
	if text != "" {
		want = Token{Kind: kind, Text: text}.String()
	}

	return Token{}, p.unexpected(tok, want)
}

func (p *parser) unexpected(tok Token, want string) error {
	if tok.Kind == KindEOF {
		return parseError(ErrUnexpectedEOF.Detail("expected " + want).At(tok.Pos))
	}

	return parseError(ErrUnexpectedToken.About(tok.Text).
		Detail("expected " + want + ", got " + tok.Kind.String()).
		At(tok.Pos))
}

// parseDecl parses and binds: IDENT "=" expr.
func (p *parser) parseDecl() (*Decl, error) {
	name, err := p.expect(KindIdent, "")
	if err != nil {
		return nil, err
	}

	// Checked ahead of Bind so that the duplicate wins over errors in the
	// value.
	if p.env.Has(name.Text) {
		return nil, parseError(ErrDuplicateConstant.About(name.Text).At(name.Pos))
	}

	if _, err := p.expect(KindEqual, ""); err != nil {
		return nil, err
	}

	x, v, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if err := p.env.Bind(name.Text, v); err != nil {
		return nil, err
	}

	p.logger.TraceContext(p.ctx, "declaration bound",
		append(valueAttrs(v), slog.String("name", name.Text), positionAttr(name.Pos))...)

	return &Decl{Name: name.Text, Pos: name.Pos, Value: x}, nil
}

// parseExpr parses one expression and evaluates it against the bindings
// made so far. depth counts the enclosing list and dict constructors.
func (p *parser) parseExpr(depth int) (Expr, Value, error) {
	tok := p.peek()

	switch {
	case tok.Is(KindNumber, ""):
		p.next()

		n, ok := ParseNumber(tok.Text)
		if !ok {
			return nil, nil, lexError(ErrInvalidNumber.About(tok.Text).At(tok.Pos))
		}

		return &Number{Lexeme: tok.Text, Pos: tok.Pos}, Integer{n: n}, nil

	case tok.Is(KindIdent, ""):
		p.next()

		v, ok := p.env.Lookup(tok.Text)
		if !ok {
			return nil, nil, parseError(
				ErrUndeclaredConstant.About(tok.Text).At(tok.Pos))
		}

		return &Ident{Name: tok.Text, Pos: tok.Pos}, v, nil

	case tok.Is(KindKeyword, KeywordList):
		if err := p.enter(tok, depth); err != nil {
			return nil, nil, err
		}

		return p.parseList(depth + 1)

	case tok.Is(KindKeyword, KeywordBegin):
		if err := p.enter(tok, depth); err != nil {
			return nil, nil, err
		}

		return p.parseDict(depth + 1)
	}

	return nil, nil, p.unexpected(tok, "expression")
}

// enter fails if opening another constructor at tok would exceed the depth
// limit.
func (p *parser) enter(tok Token, depth int) error {
	if depth < p.limit {
		return nil
	}

	return parseError(ErrNestingTooDeep.
		Detail("limit is " + strconv.Itoa(p.limit)).
		At(tok.Pos))
}

// parseList parses: "list" "(" [ expr ( "," expr )* ] ")".
func (p *parser) parseList(depth int) (Expr, Value, error) {
	kw := p.next()

	if _, err := p.expect(KindLParen, ""); err != nil {
		return nil, nil, err
	}

	x := &ListExpr{Pos: kw.Pos}

	var items []Value

	if p.peek().Is(KindRParen, "") {
		p.next()

		return x, List{}, nil
	}

	for {
		item, v, err := p.parseExpr(depth)
		if err != nil {
			return nil, nil, err
		}

		x.Items = append(x.Items, item)
		items = append(items, v)

		if !p.peek().Is(KindComma, "") {
			break
		}

		p.next()
	}

	if _, err := p.expect(KindRParen, ""); err != nil {
		return nil, nil, err
	}

	return x, List{items: items}, nil
}

// parseDict parses: "begin" ( IDENT ":=" expr ";" )* "end".
func (p *parser) parseDict(depth int) (Expr, Value, error) {
	kw := p.next()

	x := &DictExpr{Pos: kw.Pos}
	b := NewDictBuilder()

	for {
		tok := p.peek()

		if tok.Is(KindKeyword, KeywordEnd) {
			p.next()

			break
		}

		if !tok.Is(KindIdent, "") {
			return nil, nil, p.unexpected(tok, "IDENT or KEYWORD 'end'")
		}

		p.next()

		if b.Has(tok.Text) {
			return nil, nil, parseError(ErrDuplicateKey.About(tok.Text).At(tok.Pos))
		}

		if _, err := p.expect(KindAssign, ""); err != nil {
			return nil, nil, err
		}

		item, v, err := p.parseExpr(depth)
		if err != nil {
			return nil, nil, err
		}

		if _, err := p.expect(KindSemicolon, ""); err != nil {
			return nil, nil, err
		}

		b.Add(tok.Text, v)
		x.Pairs = append(x.Pairs, &Pair{Key: tok.Text, Pos: tok.Pos, Value: item})
	}

	return x, b.Dict(), nil
}
