package lang

import (
	"fmt"
	"io"
	"strings"
)

// Expr is a node in expression position. It is a closed set: [*Number],
// [*Ident], [*ListExpr], and [*DictExpr].
type Expr interface {
	Position() Position

	expr()
}

// Number is an integer literal.
type Number struct {
	Lexeme string
	Pos    Position
}

// Ident is a reference to a previously declared constant.
type Ident struct {
	Name string
	Pos  Position
}

// ListExpr is a list(...) constructor.
type ListExpr struct {
	Items []Expr
	Pos   Position
}

// DictExpr is a begin ... end constructor.
type DictExpr struct {
	Pairs []*Pair
	Pos   Position
}

// Pair is a single key := value; entry of a [DictExpr].
type Pair struct {
	Value Expr
	Key   string
	Pos   Position
}

// Decl is a top-level name = value declaration.
type Decl struct {
	Value Expr
	Name  string
	Pos   Position
}

func (n *Number) Position() Position   { return n.Pos }
func (n *Ident) Position() Position    { return n.Pos }
func (n *ListExpr) Position() Position { return n.Pos }
func (n *DictExpr) Position() Position { return n.Pos }

func (*Number) expr()   {}
func (*Ident) expr()    {}
func (*ListExpr) expr() {}
func (*DictExpr) expr() {}

// Program is the result of parsing: the declarations in source order
// together with the environment they evaluate to.
type Program struct {
	Env   *Environment
	Decls []*Decl
}

// Lookup returns the declaration of name.
func (p *Program) Lookup(name string) (*Decl, bool) {
	for _, d := range p.Decls {
		if d.Name == name {
			return d, true
		}
	}

	return nil, false
}

// Print writes an indented dump of the syntax tree to w.
func (p *Program) Print(w io.Writer) error {
	tp := treePrinter{w: w}

	tp.line(0, "Program (%d)", len(p.Decls))

	for _, d := range p.Decls {
		tp.line(1, "Decl %s @%s", d.Name, d.Pos)
		tp.expr(2, d.Value)
	}

	return tp.err
}

// treePrinter remembers the first write error and drops all later output.
type treePrinter struct {
	w   io.Writer
	err error
}

func (tp *treePrinter) line(depth int, format string, args ...any) {
	if tp.err != nil {
		return
	}

	_, tp.err = fmt.Fprintf(tp.w, strings.Repeat("  ", depth)+format+"\n", args...)
}

func (tp *treePrinter) expr(depth int, e Expr) {
	switch e := e.(type) {
	case *Number:
		tp.line(depth, "Number %s @%s", e.Lexeme, e.Pos)

	case *Ident:
		tp.line(depth, "Ident %s @%s", e.Name, e.Pos)

	case *ListExpr:
		tp.line(depth, "List (%d) @%s", len(e.Items), e.Pos)

		for _, item := range e.Items {
			tp.expr(depth+1, item)
		}

	case *DictExpr:
		tp.line(depth, "Dict (%d) @%s", len(e.Pairs), e.Pos)

		for _, pair := range e.Pairs {
			tp.line(depth+1, "Pair %s @%s", pair.Key, pair.Pos)
			tp.expr(depth+2, pair.Value)
		}
	}
}
