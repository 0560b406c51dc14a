package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapCollectSweepsUnreachableAndKeepsRooted(t *testing.T) {
	h := NewHeap()
	root := h.AllocArray([]Value{Int(1)})
	garbage := h.AllocArray([]Value{Int(2)})
	assert.Equal(t, 2, h.Live())

	h.Collect(func(gray func(Value)) { gray(FromObject(root)) })

	assert.Equal(t, 1, h.Live())
	assert.Equal(t, []Value{Int(1)}, root.Elems)
	assert.Nil(t, garbage.Elems, "swept object should have its fields cleared")
}

func TestHeapCollectRecyclesSweptStructThroughPool(t *testing.T) {
	h := NewHeap()
	garbage := h.AllocArray([]Value{Int(9)})

	h.Collect(func(gray func(Value)) {})
	assert.Equal(t, 0, h.Live())

	reused := h.AllocArray([]Value{Int(1), Int(2)})
	assert.Same(t, garbage, reused, "pool should hand back the last freed struct")
	assert.Equal(t, 1, h.Live())
}

func TestHeapCollectTracesArrayChildrenTransitively(t *testing.T) {
	h := NewHeap()
	inner := h.AllocArray([]Value{Int(1)})
	outer := h.AllocArray([]Value{FromObject(inner)})

	h.Collect(func(gray func(Value)) { gray(FromObject(outer)) })

	assert.Equal(t, 2, h.Live())
	assert.Equal(t, []Value{Int(1)}, inner.Elems)
}

func TestHeapInternerDeletesEntryWhenStringSwept(t *testing.T) {
	h := NewHeap()
	in := h.Interner()
	obj := in.Intern("hello")
	assert.Equal(t, "hello", obj.Data)

	h.Collect(func(gray func(Value)) {})

	_, ok := in.m.Get("hello")
	assert.False(t, ok, "sweeping the only reference should delete the interner entry")

	again := in.Intern("hello")
	assert.NotSame(t, obj, again, "a fresh intern after sweep must not alias the destroyed object")
}

func TestHeapInternerKeepsRootedStringAcrossCollect(t *testing.T) {
	h := NewHeap()
	in := h.Interner()
	obj := in.Intern("kept")

	h.Collect(func(gray func(Value)) { gray(FromObject(obj)) })

	same, ok := in.m.Get("kept")
	assert.True(t, ok)
	assert.Same(t, obj, same)
}

func TestHeapCollectDestroysUnreachableNativeObj(t *testing.T) {
	h := NewHeap()
	destroyed := false
	h.AllocNative("test", 42, func(any) { destroyed = true })

	h.Collect(func(gray func(Value)) {})

	assert.True(t, destroyed, "sweep should run an unreachable native's destroy callback")
}

func TestHeapCollectSparesReachableNativeObj(t *testing.T) {
	h := NewHeap()
	destroyed := false
	n := h.AllocNative("test", 42, func(any) { destroyed = true })

	h.Collect(func(gray func(Value)) { gray(FromObject(n)) })

	assert.False(t, destroyed)
	assert.False(t, n.destroyed)
}

func TestNativeObjDestroyRunsCallbackAtMostOnce(t *testing.T) {
	calls := 0
	n := NewNative("test", nil, func(any) { calls++ })

	n.Close()
	n.destroy()
	n.Close()

	assert.Equal(t, 1, calls)
}

func TestHeapShouldCollectCrossesBudgetAndDoublesAfterCycle(t *testing.T) {
	h := NewHeap()
	assert.False(t, h.ShouldCollect())

	for i := 0; i < 256; i++ {
		h.AllocArray(nil)
	}
	assert.True(t, h.ShouldCollect())

	h.Collect(func(gray func(Value)) {})
	assert.Equal(t, 0, h.Live())
	assert.False(t, h.ShouldCollect())
}
