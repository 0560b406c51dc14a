package objects

import "github.com/byteguy8/zeus/lang/compiler"

// FunctionObj is a heap-managed reference to a module-owned Fn descriptor
// (spec.md §3). The descriptor itself (bytecode, constants, capture layout)
// lives in the compiler.Program and is not GC-managed; only this wrapper and
// ClosureObj are heap objects, allocated via Heap.AllocFunction.
type FunctionObj struct {
	hdr    Header
	Proto  *compiler.FuncProto
	Module *ModuleObj
}

func (f *FunctionObj) objHeader() *Header { return &f.hdr }
func (f *FunctionObj) Tag() TypeTag       { return TagProc }
func (f *FunctionObj) TypeName() string   { return "proc" }
func (f *FunctionObj) Truthy() bool       { return true }
func (f *FunctionObj) Arity() int         { return f.Proto.NumParams }
func (f *FunctionObj) Name() string       { return f.Proto.Name }

// ClosureObj pairs a Fn descriptor with its captured OutValues, bound when
// the defining frame executed the SGET that produced it. Allocated via
// Heap.AllocClosure.
type ClosureObj struct {
	hdr      Header
	Proto    *compiler.FuncProto
	Module   *ModuleObj
	Captures []*OutValue
}

func (c *ClosureObj) objHeader() *Header { return &c.hdr }
func (c *ClosureObj) Tag() TypeTag       { return TagProc }
func (c *ClosureObj) TypeName() string   { return "proc" }
func (c *ClosureObj) Truthy() bool       { return true }
func (c *ClosureObj) Arity() int         { return c.Proto.NumParams }
func (c *ClosureObj) Name() string       { return c.Proto.Name }
