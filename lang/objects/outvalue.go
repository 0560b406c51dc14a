package objects

// OutValue is a captured closure variable. While Linked it aliases a live
// stack slot; once Closed it holds an independent copy (spec.md §3). Frames
// keep a doubly-linked list of the OutValues opened against their locals so
// RET can close them all before the frame disappears.
type OutValue struct {
	Linked bool
	Slot   int // frame-local offset, meaningful only while Linked
	Value  Value

	prev, next *OutValue
}

// Get reads the current value, resolving through locals, which must be the
// owning frame's locals, if still linked.
func (o *OutValue) Get(locals []Value) Value {
	if o.Linked {
		return locals[o.Slot]
	}
	return o.Value
}

// Set writes through to the owning frame's locals if still linked, or to the
// closed copy otherwise.
func (o *OutValue) Set(locals []Value, v Value) {
	if o.Linked {
		locals[o.Slot] = v
		return
	}
	o.Value = v
}

// Close copies the live slot value out and marks the OutValue independent of
// its originating frame.
func (o *OutValue) Close(locals []Value) {
	if !o.Linked {
		return
	}
	o.Value = locals[o.Slot]
	o.Linked = false
}

// OutValueList is the intrusive doubly-linked list a Frame hangs its open
// OutValues off, so RET can walk and close them in one pass.
type OutValueList struct {
	head, tail *OutValue
}

func (l *OutValueList) Push(o *OutValue) {
	o.prev, o.next = l.tail, nil
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
}

// CloseAll closes every OutValue in the list against locals and empties it.
func (l *OutValueList) CloseAll(locals []Value) {
	for o := l.head; o != nil; o = o.next {
		o.Close(locals)
	}
	l.head, l.tail = nil, nil
}

// Head returns the first open OutValue, or nil, so a caller (GC root
// enumeration) can walk the list without reaching into its unexported
// fields.
func (l *OutValueList) Head() *OutValue { return l.head }

// Next returns the OutValue following o in its owning list, or nil.
func (o *OutValue) Next() *OutValue { return o.next }

// FindBySlot returns an already-open OutValue aliasing slot, if any, so
// repeated captures of the same local share one OutValue.
func (l *OutValueList) FindBySlot(slot int) *OutValue {
	for o := l.head; o != nil; o = o.next {
		if o.Linked && o.Slot == slot {
			return o
		}
	}
	return nil
}
