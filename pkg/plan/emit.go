package plan

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Field is one key of a [Map].
type Field struct {
	Key   string
	Value any
}

// Map is an ordered mapping. Values are scalars (string, bool, int,
// float64), [Map] or [List].
type Map []Field

// List is a sequence of values.
type List []any

const indentUnit = "  "

// Emit renders v with the plan emitter.
//
// Scalars render as "key: value", nested maps and lists as "key:" followed by
// a block one level deeper, list items as "- " at the next level. The first
// key of a map inside a list shares the "- " line. Empty maps and lists
// render inline as {} and [].
func Emit(v any) string {
	var b strings.Builder
	emit(&b, v, 0)
	return b.String()
}

// Write emits p followed by a trailing newline.
func Write(w io.Writer, p Plan) error {
	if _, err := io.WriteString(w, Emit(p.Tree())+"\n"); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

func emit(b *strings.Builder, v any, depth int) {
	pad := strings.Repeat(indentUnit, depth)
	switch v := v.(type) {
	case Map:
		for i, f := range v {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(pad + f.Key + ":")
			if isBlock(f.Value) {
				b.WriteByte('\n')
				emit(b, f.Value, depth+1)
				continue
			}
			b.WriteString(" " + scalar(f.Value))
		}
	case List:
		for i, item := range v {
			if i > 0 {
				b.WriteByte('\n')
			}
			var inner strings.Builder
			emit(&inner, item, depth+1)
			b.WriteString(pad + "- " + strings.TrimLeft(inner.String(), " "))
		}
	default:
		b.WriteString(pad + scalar(v))
	}
}

// isBlock reports whether v renders on the lines below its key.
func isBlock(v any) bool {
	switch v := v.(type) {
	case Map:
		return len(v) > 0
	case List:
		return len(v) > 0
	}
	return false
}

func scalar(v any) string {
	switch v := v.(type) {
	case Map:
		return "{}"
	case List:
		return "[]"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}
