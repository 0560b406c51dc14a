package objects

// Color is one of the tri-color collector's four object colors
// (original_source/include/vm/obj.h's ObjColor; spec.md §4.6). An object
// starts white, turns gray when a root or a black object's trace reaches
// it, then black once its own children are traced. Whatever is still white
// once the gray worklist drains is garbage. Transparent objects (the zero
// value) are never linked into any of the heap's three lists and so are
// never marked, swept or moved: the VM's long-lived native-module
// singletons are built this way, never passing through a Heap allocator.
type Color uint8

const (
	ColorTransparent Color = iota
	ColorWhite
	ColorGray
	ColorBlack
)

// ObjKind tags the 11 heap object kinds obj.h's ObjType enumerates, in the
// same order, so a completeness check against the original reads directly.
type ObjKind uint8

const (
	KindStr ObjKind = iota
	KindArray
	KindList
	KindDict
	KindRecord
	KindNative
	KindNativeFn
	KindFn
	KindClosure
	KindNativeModule
	KindModule
)

// Header is the intrusive list node embedded (as an unexported field) in
// every heap object kind, mirroring obj.h's `struct obj`: a kind tag, a
// color, and prev/next links into whichever ObjList (white/gray/black)
// currently owns the object. list records that owner so remove doesn't need
// to be told which list to unlink from.
type Header struct {
	Kind  ObjKind
	color Color
	prev  Object
	next  Object
	list  *ObjList
}

// ObjList is the doubly-linked list obj.h's `struct obj_list` describes. The
// heap keeps three: white, gray and black.
type ObjList struct {
	head, tail Object
	len        int
}

func (l *ObjList) insert(o Object) {
	h := o.objHeader()
	h.prev, h.next = l.tail, nil
	if l.tail != nil {
		l.tail.objHeader().next = o
	} else {
		l.head = o
	}
	l.tail = o
	h.list = l
	l.len++
}

// remove unlinks o from whichever list it currently belongs to. A no-op if
// o isn't linked into l.
func (l *ObjList) remove(o Object) {
	h := o.objHeader()
	if h.list != l {
		return
	}
	if h.prev != nil {
		h.prev.objHeader().next = h.next
	} else {
		l.head = h.next
	}
	if h.next != nil {
		h.next.objHeader().prev = h.prev
	} else {
		l.tail = h.prev
	}
	h.prev, h.next, h.list = nil, nil, nil
	l.len--
}
