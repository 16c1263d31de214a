package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultIndent is the indentation width used by the CLI encoders.
const DefaultIndent = 2

// Format writes the program as source text in its own language. References
// are written as references, so re-parsing the output yields the same
// environment. With indent 0 every declaration is written on one line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	for _, d := range p.Decls {
		sb.WriteString(d.Name)
		sb.WriteString(" = ")
		formatExpr(&sb, d.Value, indent, 0)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatJSON writes the program's environment as a JSON object followed by a
// newline. Non-ASCII text is written as-is. With indent 0 the output is
// compact.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(p.Env); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// FormatYAML writes the program's environment as a YAML mapping in
// declaration order. With indent 0 the output uses flow style.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.Env.rec.mapSlice(), opts...)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func formatExpr(sb *strings.Builder, e Expr, indent, depth int) {
	switch e := e.(type) {
	case *Number:
		sb.WriteString(e.Lexeme)

	case *Ident:
		sb.WriteString(e.Name)

	case *ListExpr:
		sb.WriteString(KeywordList)
		sb.WriteByte('(')

		for i, item := range e.Items {
			if i > 0 {
				sb.WriteString(", ")
			}

			formatExpr(sb, item, indent, depth)
		}

		sb.WriteByte(')')

	case *DictExpr:
		sb.WriteString(KeywordBegin)

		if indent == 0 || len(e.Pairs) == 0 {
			for _, pair := range e.Pairs {
				fmt.Fprintf(sb, " %s := ", pair.Key)
				formatExpr(sb, pair.Value, indent, depth+1)
				sb.WriteByte(';')
			}

			sb.WriteByte(' ')
			sb.WriteString(KeywordEnd)

			return
		}

		pad := strings.Repeat(" ", (depth+1)*indent)

		for _, pair := range e.Pairs {
			sb.WriteByte('\n')
			sb.WriteString(pad)
			sb.WriteString(pair.Key)
			sb.WriteString(" := ")
			formatExpr(sb, pair.Value, indent, depth+1)
			sb.WriteByte(';')
		}

		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", depth*indent))
		sb.WriteString(KeywordEnd)
	}
}
