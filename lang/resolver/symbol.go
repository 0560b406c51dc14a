package resolver

import "fmt"

// SymKind is the kind of a resolved symbol, per spec.md §4.3.
type SymKind uint8

const (
	SymLocal SymKind = iota
	SymGlobal
	SymFunction
	SymNativeFunction
	SymModule
)

var symKindNames = [...]string{
	SymLocal:          "local",
	SymGlobal:         "global",
	SymFunction:       "function",
	SymNativeFunction: "native function",
	SymModule:         "module",
}

func (k SymKind) String() string {
	if int(k) >= len(symKindNames) {
		return fmt.Sprintf("<invalid SymKind %d>", k)
	}
	return symKindNames[k]
}

// Symbol is a single declared name, recorded at the scope that owns it.
type Symbol struct {
	Name    string
	Kind    SymKind
	Mutable bool
	// Index is the frame-local slot (SymLocal), the Module globals-table
	// index (SymGlobal), the entry index into the compiled Funcs/natives/
	// module table (SymFunction, SymNativeFunction, SymModule).
	Index int
	// FuncDepth is the function-nesting depth (0 = top-level chunk, 1 =
	// inside the outermost proc/anon, ...) at which this symbol was declared.
	// Used to enforce the single-hop capture rule.
	FuncDepth int
}

// Capture describes one free variable a nested function reads or writes from
// its immediately enclosing function's locals.
type Capture struct {
	Name           string
	OuterLocalSlot int
	InnerLocalSlot int
}

// RefKind classifies how an identifier use was resolved.
type RefKind uint8

const (
	RefLocal RefKind = iota
	RefGlobal
	RefFunction
	RefNativeFunction
	RefModule
	RefCapture
)

// Ref is the resolution recorded for one identifier occurrence.
type Ref struct {
	Kind  RefKind
	Index int
}

// FuncInfo is the per-function resolution summary the compiler consumes to
// size locals and wire up closures.
type FuncInfo struct {
	NumParams int
	NumLocals int
	Captures  []Capture
}
