package repl

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
)

// callParams lists the parameter names shown while typing the arguments of
// a call. A leading "..." marks a variadic parameter. Besides the expr-lang
// builtins, list is the constructor of the declaration syntax.
var callParams = map[string][]string{
	"list": {"...values"},

	"len":           {"v"},
	"all":           {"array", "predicate"},
	"any":           {"array", "predicate"},
	"one":           {"array", "predicate"},
	"none":          {"array", "predicate"},
	"map":           {"array", "mapper"},
	"filter":        {"array", "predicate"},
	"find":          {"array", "predicate"},
	"findIndex":     {"array", "predicate"},
	"findLast":      {"array", "predicate"},
	"findLastIndex": {"array", "predicate"},
	"groupBy":       {"array", "mapper"},
	"sortBy":        {"array", "mapper"},
	"count":         {"array", "predicate"},
	"sum":           {"array"},
	"mean":          {"array"},
	"median":        {"array"},
	"min":           {"array"},
	"max":           {"array"},
	"join":          {"array", "separator"},
	"split":         {"string", "separator"},
	"replace":       {"string", "old", "new"},
	"trim":          {"string"},
	"trimPrefix":    {"string", "prefix"},
	"trimSuffix":    {"string", "suffix"},
	"upper":         {"string"},
	"lower":         {"string"},
	"abs":           {"n"},
	"keys":          {"map"},
	"values":        {"map"},
	"flatten":       {"array"},
	"uniq":          {"array"},
	"reverse":       {"array"},
	"first":         {"array"},
	"last":          {"array"},
	"int":           {"v"},
	"float":         {"v"},
	"string":        {"v"},
	"type":          {"v"},
}

// ExprLangBuiltinNames returns the sorted names of all expr-lang builtin
// functions.
func ExprLangBuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtin.Index))
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost unclosed call around the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall scans backward from cursor for an unmatched '(' and
// reports the name before it and the number of top-level commas between it
// and the cursor. All delimiters are ASCII, so scanning bytes is safe in
// UTF-8 input.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	depth, commas := 0, 0

	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++

		case ',':
			if depth == 0 {
				commas++
			}

		case '(':
			if depth > 0 {
				depth--

				continue
			}

			start := i
			for start > 0 && isCallNameByte(input[start-1]) {
				start--
			}

			if start == i {
				return functionCall{}
			}

			return functionCall{name: input[start:i], argIndex: commas, inCall: true}
		}
	}

	return functionCall{}
}

// isCallNameByte reports whether c may appear in a possibly dotted function
// name.
func isCallNameByte(c byte) bool {
	return c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// getSignature returns the display signature of the function name and its
// parameters, or an empty signature if name is unknown.
func getSignature(name string) (string, []string) {
	params, ok := callParams[name]
	if !ok {
		return "", nil
	}

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders the name of signature followed by params, with
// the parameter receiving argument arg highlighted. A variadic parameter
// stays highlighted for every later argument.
func renderSignatureHint(signature string, params []string, arg int) string {
	name, _, ok := strings.Cut(signature, "(")
	if !ok {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		style := signatureStyle
		if i == arg || (arg > i && strings.HasPrefix(param, "...")) {
			style = currentParamStyle
		}

		b.WriteString(style.Render(param))
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
