package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Query evaluates an expr-lang expression against the constants of env.
// Each constant is visible by name in its native form (see [ToNative]), so
// dict members are reached with dot syntax and lists with indexing:
//
//	obj.inner.x
//	len(values)
//	sum(arr) + base
func Query(ctx context.Context, env *Environment, source string) (any, error) {
	native := env.Native()

	program, err := expr.Compile(source, expr.Env(native))
	if err != nil {
		return nil, ErrQueryCompile.Wrap(err).With(slog.String("query", source))
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrQueryEvaluate.Wrap(err)
	}

	result, err := vm.Run(program, native)
	if err != nil {
		return nil, ErrQueryEvaluate.Wrap(err).With(slog.String("query", source))
	}

	return result, nil
}

// FormatResult renders a query result as compact JSON. Values that cannot
// be encoded as JSON are rendered with their default Go format.
func FormatResult(v any) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
