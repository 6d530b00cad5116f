package capability

import (
	"sort"

	"github.com/dop251/goja"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Util is the general-purpose collection helper object injected as the `_`
// global: a few list utilities plus numeric summaries.
type Util struct{}

func NewUtil() *Util {
	return &Util{}
}

func (u *Util) Bind(vm *goja.Runtime) error {
	obj := vm.NewObject()
	fns := map[string]func(goja.FunctionCall) goja.Value{
		"range":  makeRange(vm),
		"chunk":  makeChunk(vm),
		"uniq":   makeUniq(vm),
		"sum":    numeric(vm, floats.Sum),
		"mean":   numeric(vm, func(xs []float64) float64 { return stat.Mean(xs, nil) }),
		"stdDev": numeric(vm, func(xs []float64) float64 { return stat.StdDev(xs, nil) }),
		"median": numeric(vm, median),
	}
	for name, fn := range fns {
		if err := obj.Set(name, fn); err != nil {
			return err
		}
	}
	return vm.Set("_", obj)
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

func numeric(vm *goja.Runtime, f func([]float64) float64) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		xs := floatSlice(call.Argument(0))
		if len(xs) == 0 {
			return goja.Null()
		}
		return vm.ToValue(f(xs))
	}
}

func makeRange(vm *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		start, stop, step := int64(0), call.Argument(0).ToInteger(), int64(1)
		if len(call.Arguments) > 1 {
			start, stop = stop, call.Argument(1).ToInteger()
		}
		if len(call.Arguments) > 2 {
			step = call.Argument(2).ToInteger()
		}
		if step == 0 {
			step = 1
		}
		out := []int64{}
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, i)
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, i)
			}
		}
		return vm.ToValue(out)
	}
}

func makeChunk(vm *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		items := anySlice(call.Argument(0))
		size := int(call.Argument(1).ToInteger())
		if size < 1 {
			size = 1
		}
		out := [][]interface{}{}
		for i := 0; i < len(items); i += size {
			end := i + size
			if end > len(items) {
				end = len(items)
			}
			out = append(out, items[i:end])
		}
		return vm.ToValue(out)
	}
}

func makeUniq(vm *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		items := anySlice(call.Argument(0))
		seen := make(map[interface{}]bool, len(items))
		out := []interface{}{}
		for _, it := range items {
			key := it
			switch key.(type) {
			case map[string]interface{}, []interface{}:
				// non-hashable: pass through untouched
				out = append(out, it)
				continue
			}
			if !seen[key] {
				seen[key] = true
				out = append(out, it)
			}
		}
		return vm.ToValue(out)
	}
}

func anySlice(v goja.Value) []interface{} {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if items, ok := v.Export().([]interface{}); ok {
		return items
	}
	return nil
}

func floatSlice(v goja.Value) []float64 {
	items := anySlice(v)
	out := make([]float64, 0, len(items))
	for _, it := range items {
		switch n := it.(type) {
		case int64:
			out = append(out, float64(n))
		case float64:
			out = append(out, n)
		}
	}
	return out
}
