// Package lang implements constl, a small language for declaring named
// constants built from octal integers, lists, and dictionaries.
//
// # Grammar
//
// Informal EBNF:
//
//	program     → declaration* EOF
//	declaration → IDENT '=' expr
//	expr        → NUMBER | list | dict | IDENT
//	list        → 'list' '(' ( expr ( ',' expr )* )? ')'
//	dict        → 'begin' ( IDENT ':=' expr ';' )* 'end'
//
// Numbers are either 0 or 0 followed by one of o, O, or 0 and then one or
// more octal digits: 0, 0o17, 0O17, 0017. Comments are delimited by {{! and
// }} and do not nest.
//
// # Example
//
//	{{! shared settings }}
//	base = 0o2
//	values = list(0, base, list(base))
//	server = begin
//	  port := 0o17620;
//	  retries := base;
//	end
//
// # Evaluation
//
// Each declaration is evaluated as soon as it is parsed. An identifier in
// expression position refers to a constant declared earlier in the program;
// there are no forward references and a name can be declared only once.
// Dictionary keys must be unique within a single dictionary. The result of a
// program is its [Environment]: every constant in declaration order, which
// encodes to a JSON object with members in the same order.
//
// Errors are either a [LexError] or a [ParseError], and every error reports
// the source position where it was detected.
package lang
