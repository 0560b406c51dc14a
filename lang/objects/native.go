package objects

// NativeObj wraps an opaque host resource (an open file, a PRNG, a byte
// buffer) with a destroy callback invoked when the collector sweeps the
// object (spec.md §3). A native function may also call Close itself to
// release the resource early on an explicit `io.close`-style request;
// destroy guards against running twice so either path is safe regardless of
// which runs first.
type NativeObj struct {
	hdr       Header
	Kind      string
	Data      any
	Destroy   func(any)
	destroyed bool
}

// NewNative builds a transparent (never pooled, never swept) NativeObj, for
// use outside a Heap-tracked allocation. Native modules that hand out
// resources with real per-call lifetime (io.open, nbarray.new) allocate
// through Heap.AllocNative instead, via natmod.Host.AllocNative.
func NewNative(kind string, data any, destroy func(any)) *NativeObj {
	return &NativeObj{Kind: kind, Data: data, Destroy: destroy}
}

func (n *NativeObj) objHeader() *Header { return &n.hdr }
func (n *NativeObj) Tag() TypeTag       { return TagEmpty }
func (n *NativeObj) TypeName() string   { return "native:" + n.Kind }
func (n *NativeObj) Truthy() bool       { return true }

// destroy runs the destroy callback at most once; called by Heap.destroyObj
// at sweep time, or directly by Close.
func (n *NativeObj) destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true
	if n.Destroy != nil {
		n.Destroy(n.Data)
	}
}

// Close requests early release of the wrapped resource, ahead of whenever
// the collector would otherwise sweep it.
func (n *NativeObj) Close() { n.destroy() }
