package nir

// This file implements the String() methods for Value and Instruction,
// and a disassembly-style printer for a whole Function, mirroring the
// shape of golang.org/x/tools' ssa/print.go. No textual format is part
// of the lowering core's contract (spec §6.2); this exists purely as a
// debugging and testing convenience.

import (
	"bytes"
	"fmt"
	"strings"
)

func (c *Constant) String() string {
	switch {
	case c.Literal.Str != "":
		return fmt.Sprintf("%q", c.Literal.Str)
	default:
		if c.typ != nil && c.typ.TypeID() == "Bool" {
			return fmt.Sprintf("%v", c.Literal.Bool)
		}
		return fmt.Sprintf("%d", c.Literal.Int)
	}
}

func (a *Alloca) String() string {
	return fmt.Sprintf("%s = alloca %s, %q", a.Name(), a.Elem, a.UserName)
}

func (l *Load) String() string {
	return fmt.Sprintf("%s = load %s, %s", l.Name(), l.Addr, l.typ)
}

func (s *Store) String() string {
	return fmt.Sprintf("store %s, %s", s.Addr, s.Val)
}

func (fa *FieldAddress) String() string {
	return fmt.Sprintf("%s = field_addr %s, [%s], %s", fa.Name(), fa.BaseAddr, strings.Join(fa.FieldPath, "."), fa.typ)
}

func (fe *FieldExtract) String() string {
	return fmt.Sprintf("%s = field_extract %s, %s, %s", fe.Name(), fe.Base, fe.Field, fe.typ)
}

func (b *BinaryOp) String() string {
	return fmt.Sprintf("%s = %s %s, %s", b.Name(), b.Op, b.Left, b.Right)
}

func (u *UnaryOp) String() string {
	return fmt.Sprintf("%s = %s %s", u.Name(), u.Op, u.Operand)
}

func (c *Cast) String() string {
	return fmt.Sprintf("%s = cast %s to %s", c.Name(), c.Value, c.typ)
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s = call %s(%s)", c.Name(), c.Callee, strings.Join(args, ", "))
}

func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value)
}

func (j *Jump) String() string {
	return fmt.Sprintf("jump %s(%s)", j.Target.Name, joinValues(j.Args))
}

func (b *Branch) String() string {
	return fmt.Sprintf("branch %s, %s(%s), %s(%s)",
		b.Cond, b.TrueTarget.Name, joinValues(b.TrueArgs), b.FalseTarget.Name, joinValues(b.FalseArgs))
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// WriteTo writes f's disassembly to buf.
func (f *Function) WriteTo(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "func %s(", f.Name)
	for i, t := range f.ParamTypes {
		if i > 0 {
			fmt.Fprint(buf, ", ")
		}
		fmt.Fprintf(buf, "%s", t)
	}
	fmt.Fprintf(buf, ") -> %s {\n", f.ReturnType)
	for _, b := range f.Blocks {
		fmt.Fprintf(buf, "%s(", b.Name)
		for i, p := range b.Params {
			if i > 0 {
				fmt.Fprint(buf, ", ")
			}
			fmt.Fprintf(buf, "%s", p.typ)
		}
		fmt.Fprintf(buf, "):\n")
		for _, instr := range b.Instrs {
			fmt.Fprintf(buf, "\t%s\n", instr)
		}
		if b.Terminator != nil {
			fmt.Fprintf(buf, "\t%s\n", b.Terminator)
		}
	}
	fmt.Fprint(buf, "}\n")
}

// String returns f's disassembly, for use in tests and debug output.
func (f *Function) String() string {
	var buf bytes.Buffer
	f.WriteTo(&buf)
	return buf.String()
}
