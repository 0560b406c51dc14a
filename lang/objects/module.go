package objects

import "github.com/byteguy8/zeus/lang/compiler"

// GlobalSlot is a module-owned global: a value plus its export visibility
// (spec.md §3's "Global value").
type GlobalSlot struct {
	Public bool
	Value  Value
}

// ModuleObj is the dynamic counterpart to a compiler.Program: its globals
// table, its entry function, and whether that entry has already run
// (spec.md §3, §4.5). Allocated via Heap.AllocModule; a VM roots every
// module it has loaded (machine.VM.enumRoots), so one stays reachable for
// as long as the import table that named it does.
type ModuleObj struct {
	hdr      Header
	Name     string
	Path     string
	Program  *compiler.Program
	Entry    *FunctionObj
	Globals  map[string]*GlobalSlot
	Resolved bool

	// Imports holds, in Program.ModulePaths order, the already-resolved
	// value (NativeModuleObj or *ModuleObj) each import statement named.
	Imports []Value
}

func (m *ModuleObj) objHeader() *Header { return &m.hdr }
func (m *ModuleObj) Tag() TypeTag      { return TagEmpty }
func (m *ModuleObj) TypeName() string { return "module" }
func (m *ModuleObj) Truthy() bool     { return true }

func (m *ModuleObj) Attr(name string) (Value, bool, bool) {
	slot, ok := m.Globals[name]
	if !ok {
		return Value{}, false, false
	}
	return slot.Value, true, slot.Public
}
