package objects

import (
	"strconv"
	"strings"
)

// Stringify renders v the way WTTE stringifies a template-interpolated
// value (spec.md §4.4): cycle-aware, eliding a structure already being
// rendered as "…" rather than recursing forever.
func Stringify(v Value, seen map[Object]bool) string {
	switch v.Kind {
	case KEmpty:
		return "empty"
	case KBool:
		if v.I != 0 {
			return "true"
		}
		return "false"
	case KInt:
		return strconv.FormatInt(v.I, 10)
	case KFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case KObject:
		return stringifyObject(v.O, seen)
	}
	return "?"
}

func stringifyObject(o Object, seen map[Object]bool) string {
	if seen == nil {
		seen = make(map[Object]bool)
	}
	if seen[o] {
		return "…"
	}

	switch obj := o.(type) {
	case *StringObj:
		return obj.Data
	case *ArrayObj:
		seen[o] = true
		defer delete(seen, o)
		return joinElems("array(", obj.Elems, seen)
	case *ListObj:
		seen[o] = true
		defer delete(seen, o)
		return joinElems("list(", obj.Elems, seen)
	case *DictObj:
		seen[o] = true
		defer delete(seen, o)
		var b strings.Builder
		b.WriteString("dict(")
		first := true
		obj.Each(func(k, v Value) {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(Stringify(k, seen))
			b.WriteString(": ")
			b.WriteString(Stringify(v, seen))
		})
		b.WriteByte(')')
		return b.String()
	case *RecordObj:
		seen[o] = true
		defer delete(seen, o)
		var b strings.Builder
		b.WriteByte('{')
		for i, name := range obj.Shape {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(Stringify(obj.Values[i], seen))
		}
		b.WriteByte('}')
		return b.String()
	case *FunctionObj:
		return "<proc " + obj.Name() + ">"
	case *ClosureObj:
		return "<proc " + obj.Name() + ">"
	case *NativeFunctionObj:
		return "<native proc " + obj.Name + ">"
	case *NativeModuleObj:
		return "<module " + obj.Name + ">"
	case *ModuleObj:
		return "<module " + obj.Name + ">"
	case *NativeObj:
		return "<" + obj.TypeName() + ">"
	default:
		return "<?>"
	}
}

func joinElems(prefix string, elems []Value, seen map[Object]bool) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Stringify(e, seen))
	}
	b.WriteByte(')')
	return b.String()
}
