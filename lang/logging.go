package lang

import "log/slog"

func positionAttr(pos Position) slog.Attr {
	return slog.String("position", pos.String())
}

// valueAttrs summarizes v without logging its full contents.
func valueAttrs(v Value) []slog.Attr {
	attrs := []slog.Attr{slog.String("kind", v.Kind().String())}

	switch v := v.(type) {
	case Integer:
		attrs = append(attrs, slog.String("value", v.String()))

	case List:
		attrs = append(attrs, slog.Int("len", v.Len()))

	case Dict:
		attrs = append(attrs, slog.Int("len", v.Len()))
	}

	return attrs
}
