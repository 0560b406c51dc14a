package objects

import "github.com/dolthub/swiss"

// DictObj is zeus's `dict(...)` mapping value to value, backed by
// dolthub/swiss the way the teacher's machine.Map wraps it (lang/machine/
// map.go in mna-nenuphar): keys and values are boxed Values, compared by the
// tagged union's own equality (spec.md §3: "Equal keys by primitive contents
// or interned-string identity").
type DictObj struct {
	hdr Header
	m   *swiss.Map[Value, Value]
}

// NewDict builds a transparent DictObj outside any Heap's pooled
// allocation. Runtime-created dicts go through Heap.AllocDict instead.
func NewDict(size int) *DictObj {
	if size < 1 {
		size = 1
	}
	return &DictObj{m: swiss.NewMap[Value, Value](uint32(size))}
}

func (d *DictObj) objHeader() *Header { return &d.hdr }
func (d *DictObj) Tag() TypeTag       { return TagDict }
func (d *DictObj) TypeName() string   { return "dict" }
func (d *DictObj) Truthy() bool       { return d.m.Count() > 0 }
func (d *DictObj) Len() int           { return int(d.m.Count()) }

func (d *DictObj) Get(k Value) (Value, bool) { return d.m.Get(k) }
func (d *DictObj) Set(k, v Value)            { d.m.Put(k, v) }
func (d *DictObj) Delete(k Value) bool       { return d.m.Delete(k) }

// Each calls fn once per entry; iteration order is unspecified.
func (d *DictObj) Each(fn func(k, v Value)) { d.m.Iter(func(k, v Value) bool { fn(k, v); return false }) }
