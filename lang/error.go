package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Lexical errors.
var (
	ErrUnexpectedChar      = NewError("unexpected character")
	ErrInvalidNumber       = NewError("invalid number literal")
	ErrUnterminatedComment = NewError("unterminated comment")
)

// Parse and semantic errors.
var (
	ErrUnexpectedToken    = NewError("unexpected token")
	ErrUnexpectedEOF      = NewError("unexpected end of input")
	ErrDuplicateConstant  = NewError("duplicate constant")
	ErrDuplicateKey       = NewError("duplicate key")
	ErrUndeclaredConstant = NewError("undeclared constant")
	ErrNestingTooDeep     = NewError("nesting too deep")
)

// Errors outside the language itself.
var (
	ErrReadInput     = NewError("failed to read input")
	ErrWriteOutput   = NewError("failed to write output")
	ErrQueryCompile  = NewError("query compilation failed")
	ErrQueryEvaluate = NewError("query evaluation failed")
)

// Error represents an error with an optional source location and structured
// logging attributes. It implements both error and slog.LogValuer.
//
// Sentinel errors are created with [NewError]. Every derived error (via
// [Error.At], [Error.With], [Error.Wrap], ...) still matches its sentinel
// with [errors.Is].
type Error struct {
	base    *Error
	err     error // Wrapped error (for errors.Unwrap)
	msg     string
	subject string // offending lexeme or identifier
	detail  string
	attrs   []slog.Attr
	pos     Position
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
//
// The message is composed of whichever parts are set, in order:
//
//	<msg> '<subject>': <detail> at <line>:<col>: <err>
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.subject != "" {
		sb.WriteString(" '")
		sb.WriteString(e.subject)
		sb.WriteByte('\'')
	}

	if e.detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.detail)
	}

	if e.pos.IsValid() {
		sb.WriteString(" at ")
		sb.WriteString(e.pos.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.base != nil {
		return false
	}

	return e == t || e.base == t
}

// Position returns the source location attached to the error, if any.
func (e *Error) Position() Position { return e.pos }

// Subject returns the offending lexeme or identifier, if any.
func (e *Error) Subject() string { return e.subject }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.subject != "" {
		attrs = append(attrs, slog.String("subject", e.subject))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// derive returns a shallow copy of e linked to the same sentinel.
func (e *Error) derive() *Error {
	d := *e
	if e.base == nil {
		d.base = e
	}

	return &d
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(d.attrs, e.attrs)
	copy(d.attrs[len(e.attrs):], attrs)

	return d
}

// At returns a copy of the error located at pos.
func (e *Error) At(pos Position) *Error {
	d := e.derive()
	d.pos = pos

	return d
}

// About returns a copy of the error naming the offending lexeme or
// identifier.
func (e *Error) About(subject string) *Error {
	d := e.derive()
	d.subject = subject

	return d
}

// Detail returns a copy of the error with an explanatory suffix.
func (e *Error) Detail(detail string) *Error {
	d := e.derive()
	d.detail = detail

	return d
}

// LexError reports malformed source text: an invalid number literal, an
// unterminated comment, or a character that starts no token.
type LexError struct{ cause *Error }

// ParseError reports a grammar violation or a semantic error: unexpected
// token or end of input, duplicate constant or key, reference to an
// undeclared constant, or nesting beyond the configured depth.
type ParseError struct{ cause *Error }

func lexError(e *Error) error { return &LexError{cause: e} }

func parseError(e *Error) error { return &ParseError{cause: e} }

func (e *LexError) Error() string        { return e.cause.Error() }
func (e *LexError) Unwrap() error        { return e.cause }
func (e *LexError) Position() Position   { return e.cause.Position() }
func (e *LexError) Subject() string      { return e.cause.Subject() }
func (e *LexError) LogValue() slog.Value { return e.cause.LogValue() }

func (e *ParseError) Error() string        { return e.cause.Error() }
func (e *ParseError) Unwrap() error        { return e.cause }
func (e *ParseError) Position() Position   { return e.cause.Position() }
func (e *ParseError) Subject() string      { return e.cause.Subject() }
func (e *ParseError) LogValue() slog.Value { return e.cause.LogValue() }

// IsSyntaxError reports whether err is a [LexError] or a [ParseError], i.e.
// a failure caused by the program text rather than by I/O.
func IsSyntaxError(err error) bool {
	var (
		le *LexError
		pe *ParseError
	)

	return errors.As(err, &le) || errors.As(err, &pe)
}
