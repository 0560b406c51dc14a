package compiler

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of prog to w, one function at
// a time, in Program.Funcs order. This backs the CLI's `-d` stage.
func Disassemble(w io.Writer, prog *Program) error {
	for i, fn := range prog.Funcs {
		marker := ""
		if i == prog.EntryFunc {
			marker = " (entry)"
		}
		if _, err := fmt.Fprintf(w, "function %d: %s%s\n", i, fn.Name, marker); err != nil {
			return err
		}
		if err := disasmFunc(w, prog, fn); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func disasmFunc(w io.Writer, prog *Program, fn *FuncProto) error {
	code := fn.Code
	for off := 0; off < len(code); {
		op := Op(code[off])
		width := operandWidth(op)
		if _, err := fmt.Fprintf(w, "  %6d  %-10s", off, op); err != nil {
			return err
		}
		if off+1+width > len(code) {
			if _, err := fmt.Fprintln(w, "  <truncated>"); err != nil {
				return err
			}
			break
		}
		operands := code[off+1 : off+1+width]
		if err := printOperand(w, prog, fn, op, off, operands); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		off += 1 + width
	}
	return nil
}

func printOperand(w io.Writer, prog *Program, fn *FuncProto, op Op, off int, b []byte) error {
	switch op {
	case CINT:
		_, err := fmt.Fprintf(w, "%d", int64(int8(b[0])))
		return err
	case INT:
		idx := be16(b)
		return printf(w, "#%d (%d)", idx, fn.IntConsts[idx])
	case FLOAT:
		idx := be16(b)
		return printf(w, "#%d (%g)", idx, fn.FloatConsts[idx])
	case STRING, GDEF, GSET, GGET, ACCESS, RSET:
		idx := be16(b)
		return printf(w, "#%d %q", idx, safeStaticString(prog, idx))
	case NGET:
		idx := be16(b)
		return printf(w, "#%d %s", idx, safeModulePath(prog, idx))
	case GASET:
		idx := be16(b[:2])
		return printf(w, "#%d %q exported=%d", idx, safeStaticString(prog, idx), b[2])
	case TRY_OPEN:
		return printf(w, "-> %d", be16(b))
	case ARRAY, LIST, DICT, IARRAY, IRECORD:
		return printf(w, "%d", be16(b))
	case RECORD:
		idx := be16(b)
		return printf(w, "#%d %v", idx, safeShape(prog, idx))
	case OR, AND, JMP, JIF, JIT:
		delta := int16(be16(b))
		return printf(w, "%+d -> %d", delta, off+3+int(delta))
	case LSET, LGET, OSET, OGET, CALL, IS, THROW:
		_, err := fmt.Fprintf(w, "%d", b[0])
		return err
	case SGET:
		idx := be32(b)
		return printf(w, "#%d", idx)
	default:
		return nil
	}
}

func printf(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func be16(b []byte) int { return int(b[0])<<8 | int(b[1]) }
func be32(b []byte) int {
	return int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
}

func safeStaticString(prog *Program, idx int) string {
	if idx < 0 || idx >= len(prog.StaticStrings) {
		return "<out of range>"
	}
	return prog.StaticStrings[idx]
}

func safeModulePath(prog *Program, idx int) string {
	if idx < 0 || idx >= len(prog.ModulePaths) {
		return "<out of range>"
	}
	return prog.ModulePaths[idx]
}

func safeShape(prog *Program, idx int) []string {
	if idx < 0 || idx >= len(prog.Shapes) {
		return nil
	}
	return prog.Shapes[idx].Fields
}
