package objects

import (
	"github.com/byteguy8/zeus/lang/compiler"
	"github.com/dolthub/swiss"
)

// pool is a per-kind free list, mirroring original_source's lzpool: instead
// of handing every dead object back to a general allocator, a destroyed
// object's struct is kept and handed back out on the next allocation of the
// same kind (spec.md §2 "Object pools").
type pool[T any] struct {
	free []T
	new_ func() T
}

func newPool[T any](new_ func() T) pool[T] { return pool[T]{new_: new_} }

func (p *pool[T]) get() T {
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		p.free = p.free[:n-1]
		return v
	}
	return p.new_()
}

func (p *pool[T]) put(v T) { p.free = append(p.free, v) }

// Heap owns every heap-allocated Object, its per-kind pools, the
// white/gray/black ObjLists and the string interner, and runs the
// tri-color mark-sweep collector over them (spec.md §4.6), grounded on
// original_source/src/vm/vmu.c's mark_objs/sweep_objs/normalize_objs and
// vm.c's vm_initialize (the white_objs/gray_objs/black_objs ObjLists and
// per-kind lzpool_init calls torn down again in vm_destroy).
type Heap struct {
	white, gray, black ObjList
	interner           *Interner

	strPool          pool[*StringObj]
	arrayPool        pool[*ArrayObj]
	listPool         pool[*ListObj]
	dictPool         pool[*DictObj]
	recordPool       pool[*RecordObj]
	nativePool       pool[*NativeObj]
	nativeFnPool     pool[*NativeFunctionObj]
	fnPool           pool[*FunctionObj]
	closurePool      pool[*ClosureObj]
	nativeModulePool pool[*NativeModuleObj]
	modulePool       pool[*ModuleObj]

	live   int // objects currently linked into white+gray+black
	nextGC int // ShouldCollect threshold, reset after each cycle to twice the survivors plus one
}

// NewHeap builds an empty heap with its budget set for an initial
// collection after 256 live tracked objects, matching the allocation-budget
// doubling original_source's allocator drives vm_collect with.
func NewHeap() *Heap {
	h := &Heap{nextGC: 256}
	h.interner = &Interner{m: swiss.NewMap[string, *StringObj](256), heap: h}
	h.strPool = newPool(func() *StringObj { return &StringObj{} })
	h.arrayPool = newPool(func() *ArrayObj { return &ArrayObj{} })
	h.listPool = newPool(func() *ListObj { return &ListObj{} })
	h.dictPool = newPool(func() *DictObj { return &DictObj{} })
	h.recordPool = newPool(func() *RecordObj { return &RecordObj{} })
	h.nativePool = newPool(func() *NativeObj { return &NativeObj{} })
	h.nativeFnPool = newPool(func() *NativeFunctionObj { return &NativeFunctionObj{} })
	h.fnPool = newPool(func() *FunctionObj { return &FunctionObj{} })
	h.closurePool = newPool(func() *ClosureObj { return &ClosureObj{} })
	h.nativeModulePool = newPool(func() *NativeModuleObj { return &NativeModuleObj{} })
	h.modulePool = newPool(func() *ModuleObj { return &ModuleObj{} })
	return h
}

// Interner returns the heap's string table, for a VM to hand to the opcodes
// that intern strings (STRING, CONCAT, WTTE, ...).
func (h *Heap) Interner() *Interner { return h.interner }

// track links a freshly allocated or pool-reused object into list as white,
// mirroring vmu.c's init_obj.
func (h *Heap) track(o Object, kind ObjKind, list *ObjList) {
	hd := o.objHeader()
	hd.Kind = kind
	hd.color = ColorWhite
	hd.prev, hd.next, hd.list = nil, nil, nil
	list.insert(o)
	h.live++
}

func (h *Heap) AllocArray(elems []Value) *ArrayObj {
	a := h.arrayPool.get()
	a.Elems = elems
	h.track(a, KindArray, &h.white)
	return a
}

func (h *Heap) AllocList(elems []Value) *ListObj {
	l := h.listPool.get()
	l.Elems = elems
	h.track(l, KindList, &h.white)
	return l
}

func (h *Heap) AllocDict(size int) *DictObj {
	if size < 1 {
		size = 1
	}
	d := h.dictPool.get()
	d.m = swiss.NewMap[Value, Value](uint32(size))
	h.track(d, KindDict, &h.white)
	return d
}

func (h *Heap) AllocRecord(shape []string, values []Value) *RecordObj {
	r := h.recordPool.get()
	r.Shape, r.Values = shape, values
	h.track(r, KindRecord, &h.white)
	return r
}

// AllocNative builds a heap-tracked native resource, swept (and so
// destroyed) once unreachable (spec.md §3). natmod's Host wraps this for
// native modules that hand out per-call resources (io.open, nbarray.new).
func (h *Heap) AllocNative(kind string, data any, destroy func(any)) *NativeObj {
	n := h.nativePool.get()
	n.Kind, n.Data, n.Destroy, n.destroyed = kind, data, destroy, false
	h.track(n, KindNative, &h.white)
	return n
}

func (h *Heap) AllocNativeFunction(modName, name string, arity int, fn func([]Value) (Value, error), bound Value) *NativeFunctionObj {
	n := h.nativeFnPool.get()
	n.ModuleName, n.Name, n.Arity, n.Fn, n.Bound = modName, name, arity, fn, bound
	h.track(n, KindNativeFn, &h.white)
	return n
}

func (h *Heap) AllocFunction(proto *compiler.FuncProto, mod *ModuleObj) *FunctionObj {
	f := h.fnPool.get()
	f.Proto, f.Module = proto, mod
	h.track(f, KindFn, &h.white)
	return f
}

func (h *Heap) AllocClosure(proto *compiler.FuncProto, mod *ModuleObj, captures []*OutValue) *ClosureObj {
	c := h.closurePool.get()
	c.Proto, c.Module, c.Captures = proto, mod, captures
	h.track(c, KindClosure, &h.white)
	return c
}

func (h *Heap) AllocModule(name, path string, program *compiler.Program) *ModuleObj {
	m := h.modulePool.get()
	m.Name, m.Path, m.Program = name, path, program
	m.Globals = make(map[string]*GlobalSlot)
	m.Entry, m.Resolved, m.Imports = nil, false, nil
	h.track(m, KindModule, &h.white)
	return m
}

// Gray moves v's object (if any, and still white) to the gray worklist, the
// single step every root and every traced child reference performs
// (vmu.c's repeated "color == WHITE -> GRAY, move list" blocks).
func (h *Heap) Gray(v Value) {
	if v.Kind != KObject || v.O == nil {
		return
	}
	h.grayObj(v.O)
}

func (h *Heap) grayObj(o Object) {
	hd := o.objHeader()
	if hd.color != ColorWhite {
		return
	}
	hd.color = ColorGray
	h.white.remove(o)
	h.gray.insert(o)
}

// markAll drains the gray worklist, tracing each object's children and
// turning it black, mirroring vmu.c's mark_objs.
func (h *Heap) markAll() {
	for h.gray.head != nil {
		cur := h.gray.head
		h.traceChildren(cur)
		cur.objHeader().color = ColorBlack
		h.gray.remove(cur)
		h.black.insert(cur)
	}
}

// traceChildren grays every Value an object holds a reference to. Str and
// Native objects hold none (mark_objs's STR_OBJ_TYPE/NATIVE_OBJ_TYPE cases
// are empty breaks); Closure and Module *are* traced here even though the
// original's mark_objs switch leaves CLOSURE_OBJ_TYPE/MODULE_OBJ_TYPE as
// empty breaks too — there, module globals are grayed up front by
// prepare_worklist/prepare_module_globals walking the modules stack
// directly, and apparently-unmarked closure captures reflect OutValues
// that, in that design, never outlive the frame that opened them. zeus's
// OutValues do outlive their frame once a closure escapes it (see
// TestRunClosureCapturesOuterLocal), so tracing captures and module globals
// here instead of via a separate root-preparation pass is this
// implementation's one deliberate divergence, kept for correctness.
func (h *Heap) traceChildren(o Object) {
	switch obj := o.(type) {
	case *ArrayObj:
		for _, v := range obj.Elems {
			h.Gray(v)
		}
	case *ListObj:
		for _, v := range obj.Elems {
			h.Gray(v)
		}
	case *DictObj:
		obj.Each(func(k, v Value) {
			h.Gray(k)
			h.Gray(v)
		})
	case *RecordObj:
		for _, v := range obj.Values {
			h.Gray(v)
		}
	case *NativeFunctionObj:
		h.Gray(obj.Bound)
	case *ClosureObj:
		if obj.Module != nil {
			h.grayObj(obj.Module)
		}
		for _, ov := range obj.Captures {
			if ov != nil && !ov.Linked {
				h.Gray(ov.Value)
			}
		}
	case *FunctionObj:
		if obj.Module != nil {
			h.grayObj(obj.Module)
		}
	case *NativeModuleObj:
		for _, v := range obj.Symbols {
			h.Gray(v)
		}
	case *ModuleObj:
		for _, slot := range obj.Globals {
			if slot != nil {
				h.Gray(slot.Value)
			}
		}
		for _, v := range obj.Imports {
			h.Gray(v)
		}
	}
}

// sweep destroys every still-white object and returns its struct to its
// kind's pool, mirroring vmu.c's sweep_objs.
func (h *Heap) sweep() {
	cur := h.white.head
	for cur != nil {
		next := cur.objHeader().next
		h.destroyObj(cur)
		h.live--
		cur = next
	}
	h.white.head, h.white.tail, h.white.len = nil, nil, 0
}

func (h *Heap) destroyObj(o Object) {
	switch obj := o.(type) {
	case *StringObj:
		h.interner.Delete(obj.Data)
		obj.Data = ""
		h.strPool.put(obj)
	case *ArrayObj:
		obj.Elems = nil
		h.arrayPool.put(obj)
	case *ListObj:
		obj.Elems = nil
		h.listPool.put(obj)
	case *DictObj:
		obj.m = nil
		h.dictPool.put(obj)
	case *RecordObj:
		obj.Shape, obj.Values = nil, nil
		h.recordPool.put(obj)
	case *NativeObj:
		obj.destroy()
		obj.Data = nil
		h.nativePool.put(obj)
	case *NativeFunctionObj:
		obj.Fn, obj.Bound = nil, Value{}
		h.nativeFnPool.put(obj)
	case *FunctionObj:
		obj.Proto, obj.Module = nil, nil
		h.fnPool.put(obj)
	case *ClosureObj:
		obj.Proto, obj.Module, obj.Captures = nil, nil, nil
		h.closurePool.put(obj)
	case *NativeModuleObj:
		obj.Symbols = nil
		h.nativeModulePool.put(obj)
	case *ModuleObj:
		obj.Entry, obj.Globals, obj.Imports = nil, nil, nil
		h.modulePool.put(obj)
	}
}

// normalize resets every survivor (now black) back to white for the next
// cycle, mirroring vmu.c's normalize_objs.
func (h *Heap) normalize() {
	cur := h.black.head
	for cur != nil {
		next := cur.objHeader().next
		hd := cur.objHeader()
		hd.color = ColorWhite
		h.black.remove(cur)
		h.white.insert(cur)
		cur = next
	}
}

// Collect runs one full tri-color cycle: enumRoots grays everything
// directly reachable from the VM (value stack, frames, loaded modules,
// open closures' OutValues), markAll chases every reference from there,
// sweep destroys whatever is left white, and normalize resets survivors to
// white for next time.
func (h *Heap) Collect(enumRoots func(gray func(Value))) {
	enumRoots(h.Gray)
	h.markAll()
	h.sweep()
	h.normalize()
	h.nextGC = (h.live + 1) * 2
}

// ShouldCollect reports whether the number of live tracked objects has
// crossed the allocation budget (spec.md §4.6's budget-doubling trigger;
// §1 scopes out only deterministic GC *timing*, not the existence of a
// trigger).
func (h *Heap) ShouldCollect() bool { return h.live >= h.nextGC }

// Live reports the number of objects currently linked into the heap's
// white, gray or black lists, for tests to assert a cycle actually freed
// something.
func (h *Heap) Live() int { return h.live }
