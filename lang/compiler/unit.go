package compiler

import "fmt"

// jmpRec is a pending relative jump patch: the byte offset of its 16-bit
// placeholder, the offset of the byte right after that placeholder (jump
// deltas are relative to there), and the label it targets.
type jmpRec struct {
	patchOffset  int
	originOffset int
	targetName   string
}

// markRec is a pending absolute-address patch (used for TRY_OPEN's catch
// address).
type markRec struct {
	patchOffset int
	targetName  string
}

type loopLabels struct {
	test, end string
}

// unit is the compiler's state for a single function body. Units nest via an
// explicit stack on compiler.units; per spec.md §4.1 each owns its own
// emission cursor, label table, pending jump/mark lists and loop stack.
type unit struct {
	proto *FuncProto

	labels      map[string]int
	jmps        []jmpRec
	marks       []markRec
	nextLabelID int

	loops []loopLabels

	// constant-pool indexes of int and float values already emitted, so a
	// repeated constant reuses its pool entry.
	intConstIndex   map[int64]int
	floatConstIndex map[float64]int
}

func newUnit(proto *FuncProto) *unit {
	return &unit{
		proto:           proto,
		labels:          make(map[string]int),
		intConstIndex:   make(map[int64]int),
		floatConstIndex: make(map[float64]int),
	}
}

func (u *unit) genLabel(prefix string) string {
	id := u.nextLabelID
	u.nextLabelID++
	return fmt.Sprintf("%s(%d)", prefix, id)
}

// emitByte appends one raw byte to the code and returns its offset.
func (u *unit) emitByte(b byte) int {
	off := len(u.proto.Code)
	u.proto.Code = append(u.proto.Code, b)
	return off
}

func (u *unit) emitOp(op Op) int { return u.emitByte(byte(op)) }

func (u *unit) emitU8(v uint8) int { return u.emitByte(v) }

func (u *unit) emitU16(v uint16) int {
	off := u.emitByte(byte(v >> 8))
	u.emitByte(byte(v))
	return off
}

func (u *unit) emitI16Placeholder() int {
	return u.emitU16(0)
}

func (u *unit) emitU32(v uint32) int {
	off := u.emitByte(byte(v >> 24))
	u.emitByte(byte(v >> 16))
	u.emitByte(byte(v >> 8))
	u.emitByte(byte(v))
	return off
}

func (u *unit) here() int { return len(u.proto.Code) }

// label records name at the current offset. Duplicate names are an internal
// compiler error.
func (u *unit) label(name string) {
	if _, ok := u.labels[name]; ok {
		panic(fmt.Sprintf("internal compiler error: duplicate label %q", name))
	}
	u.labels[name] = u.here()
}

// jmpLike emits op followed by a 16-bit placeholder, recording a pending
// relative-jump patch to targetName.
func (u *unit) jmpLike(op Op, targetName string) {
	u.emitOp(op)
	patch := u.here()
	u.emitI16Placeholder()
	origin := u.here()
	u.jmps = append(u.jmps, jmpRec{patchOffset: patch, originOffset: origin, targetName: targetName})
}

// mark emits a 16-bit placeholder recording a pending absolute-address patch
// to targetName (used for TRY_OPEN's catch label).
func (u *unit) mark(targetName string) {
	patch := u.here()
	u.emitI16Placeholder()
	u.marks = append(u.marks, markRec{patchOffset: patch, targetName: targetName})
}

// resolve patches every pending jmp/mark against the unit's label table. Any
// unresolved target is an internal compiler error.
func (u *unit) resolve() {
	code := u.proto.Code
	for _, j := range u.jmps {
		target, ok := u.labels[j.targetName]
		if !ok {
			panic(fmt.Sprintf("internal compiler error: unresolved label %q", j.targetName))
		}
		delta := int32(target - j.originOffset)
		code[j.patchOffset] = byte(delta >> 8)
		code[j.patchOffset+1] = byte(delta)
	}
	for _, m := range u.marks {
		target, ok := u.labels[m.targetName]
		if !ok {
			panic(fmt.Sprintf("internal compiler error: unresolved label %q", m.targetName))
		}
		code[m.patchOffset] = byte(target >> 8)
		code[m.patchOffset+1] = byte(target)
	}
}

func (u *unit) internInt(v int64) int {
	if idx, ok := u.intConstIndex[v]; ok {
		return idx
	}
	idx := len(u.proto.IntConsts)
	u.proto.IntConsts = append(u.proto.IntConsts, v)
	u.intConstIndex[v] = idx
	return idx
}

func (u *unit) internFloat(v float64) int {
	if idx, ok := u.floatConstIndex[v]; ok {
		return idx
	}
	idx := len(u.proto.FloatConsts)
	u.proto.FloatConsts = append(u.proto.FloatConsts, v)
	u.floatConstIndex[v] = idx
	return idx
}

// allocScratch grows the function's local-slot count by one and returns the
// new slot, for compiler-internal temporaries the catalogue's lack of a
// stack-duplicate opcode makes necessary (compound index/dot assignment
// needs to hold the computed value while re-pushing its target and index).
func (u *unit) allocScratch() int {
	slot := u.proto.NumLocals
	u.proto.NumLocals++
	return slot
}

func (u *unit) pushLoop(test, end string) { u.loops = append(u.loops, loopLabels{test: test, end: end}) }
func (u *unit) popLoop()                  { u.loops = u.loops[:len(u.loops)-1] }
func (u *unit) currentLoop() (loopLabels, bool) {
	if len(u.loops) == 0 {
		return loopLabels{}, false
	}
	return u.loops[len(u.loops)-1], true
}
