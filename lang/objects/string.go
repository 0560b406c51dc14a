package objects

import (
	"strconv"

	"github.com/dolthub/swiss"
)

// StringObj is an interned, immutable byte string.
type StringObj struct {
	hdr  Header
	Data string
}

func (s *StringObj) objHeader() *Header { return &s.hdr }
func (s *StringObj) Tag() TypeTag       { return TagStr }
func (s *StringObj) TypeName() string   { return "str" }
func (s *StringObj) Truthy() bool       { return len(s.Data) > 0 }
func (s *StringObj) String() string     { return strconv.Quote(s.Data) }

// Interner keys strings by their byte content (spec.md §4.8: "(length,
// bytes)"), so that every occurrence of an equal string shares one
// *StringObj and Value equality reduces to pointer comparison. When the
// collector destroys a StringObj (Heap.destroyObj, driven by sweep), it
// calls Delete so the entry never outlives its object (spec.md §3/§4.8:
// "destroying a string removes that entry").
type Interner struct {
	m    *swiss.Map[string, *StringObj]
	heap *Heap // nil for a standalone interner with no pooled/tracked lifetime
}

// NewInterner builds a standalone interner whose strings are never pooled
// or tracked by a Heap: natmod's per-module argument/result string caches
// use this, since a native module instance itself lives for the whole VM
// run and is never heap-tracked either (Header's zero value is
// ColorTransparent, so it is simply never linked into a list the collector
// walks).
func NewInterner() *Interner {
	return &Interner{m: swiss.NewMap[string, *StringObj](256)}
}

// Intern returns the canonical StringObj for s, creating it on first sight.
func (in *Interner) Intern(s string) *StringObj {
	if obj, ok := in.m.Get(s); ok {
		return obj
	}
	var obj *StringObj
	if in.heap != nil {
		obj = in.heap.strPool.get()
		obj.Data = s
		in.heap.track(obj, KindStr, &in.heap.white)
	} else {
		obj = &StringObj{Data: s}
	}
	in.m.Put(s, obj)
	return obj
}

// Delete removes s's entry. Called only from Heap.destroyObj at sweep time.
func (in *Interner) Delete(s string) { in.m.Delete(s) }
