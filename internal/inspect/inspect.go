// Package inspect renders JavaScript values to display strings for console
// output and the human-readable event mirror.
package inspect

import (
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
)

// Display renders a single JS value the way a console would print it.
// Strings pass through unquoted; objects and arrays render as JSON.
func Display(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	if obj, ok := v.(*goja.Object); ok {
		if _, isFn := goja.AssertFunction(v); isFn {
			name := ""
			if nv := obj.Get("name"); nv != nil && !goja.IsUndefined(nv) {
				name = nv.String()
			}
			if name == "" {
				return "[Function (anonymous)]"
			}
			return "[Function: " + name + "]"
		}
	}

	switch ex := v.Export().(type) {
	case string:
		return ex
	case bool:
		return strconv.FormatBool(ex)
	case int64:
		return strconv.FormatInt(ex, 10)
	case float64:
		return strconv.FormatFloat(ex, 'f', -1, 64)
	default:
		if s, err := sonic.MarshalString(ex); err == nil {
			return s
		}
		return fmt.Sprintf("%v", ex)
	}
}

// Line joins the rendered forms of values with single spaces and appends the
// trailing newline console semantics require.
func Line(values []goja.Value) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += " "
		}
		out += Display(v)
	}
	return out + "\n"
}

// Payload renders an arbitrary Go payload (an event payload struct) as JSON
// for the mirror side channel.
func Payload(p interface{}) string {
	if s, err := sonic.MarshalString(p); err == nil {
		return s
	}
	return fmt.Sprintf("%v", p)
}
