// Package objects implements zeus's runtime value model: the tagged Value
// union, the heap object kinds it can point to, and the tri-color
// mark-sweep collector (Heap) that owns their lifetime, per spec.md §3's
// data model and §4.6's collector. Every object kind embeds a Header (this
// file's Object.objHeader) that links it into whichever of the Heap's
// white/gray/black ObjLists currently owns it, mirroring
// original_source/include/vm/obj.h's `struct obj`.
package objects

// Kind tags the primitive space of a Value. KObject defers further typing to
// the Object held in the O field.
type Kind uint8

const (
	KEmpty Kind = iota
	KBool
	KInt
	KFloat
	KObject
)

// TypeTag matches the fixed tag set compiled by the `is` operator
// (spec.md §4.2): {empty, bool, int, float, str, array, list, dict, record,
// proc}.
type TypeTag uint8

const (
	TagEmpty TypeTag = iota
	TagBool
	TagInt
	TagFloat
	TagStr
	TagArray
	TagList
	TagDict
	TagRecord
	TagProc
)

// Value is zeus's tagged union: {empty, bool, int64, float64, object
// pointer}. It is a plain comparable struct, not an interface, so Go's `==`
// already implements spec.md's equality rule (primitives by contents,
// objects by pointer identity, strings by interned identity since equal
// string literals share one *StringObj).
type Value struct {
	Kind Kind
	I    int64
	F    float64
	O    Object
}

var Empty = Value{Kind: KEmpty}

func Bool(b bool) Value {
	var i int64
	if b {
		i = 1
	}
	return Value{Kind: KBool, I: i}
}

func Int(i int64) Value { return Value{Kind: KInt, I: i} }

func Float(f float64) Value { return Value{Kind: KFloat, F: f} }

func FromObject(o Object) Value { return Value{Kind: KObject, O: o} }

func (v Value) IsEmpty() bool { return v.Kind == KEmpty }

func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KEmpty:
		return false
	case KBool:
		return v.I != 0
	case KInt:
		return v.I != 0
	case KFloat:
		return v.F != 0
	case KObject:
		return v.O.Truthy()
	}
	return false
}

// Tag reports v's `is`-test tag.
func (v Value) Tag() TypeTag {
	switch v.Kind {
	case KEmpty:
		return TagEmpty
	case KBool:
		return TagBool
	case KInt:
		return TagInt
	case KFloat:
		return TagFloat
	case KObject:
		return v.O.Tag()
	}
	return TagEmpty
}

// TypeName is the display name used in runtime type-error messages.
func (v Value) TypeName() string {
	switch v.Kind {
	case KEmpty:
		return "empty"
	case KBool:
		return "bool"
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KObject:
		return v.O.TypeName()
	}
	return "?"
}

func (v Value) String() string { return Stringify(v, nil) }

// Object is implemented by every heap-allocated value kind. objHeader is
// unexported so only this package may add new kinds, matching obj.h's fixed
// ObjType enum.
type Object interface {
	Tag() TypeTag
	TypeName() string
	Truthy() bool
	objHeader() *Header
}
