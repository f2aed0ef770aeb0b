package nir

// This file implements the instruction-emitting API that the function
// lowerer drives: one method per NIR instruction/terminator kind,
// mirroring golang.org/x/tools/go/ssa/emit.go's emitX free-function
// style but as methods on *Function so each can mint a fresh register
// id from the owning function's counter.

import (
	"fmt"

	"github.com/nirlang/nirc/types"
)

// Alloca emits an Alloca(elem, userName) instruction into block and
// returns it. Its result type is Pointer(elem).
func (f *Function) Alloca(block *BasicBlock, elem *types.Type, userName string) *Alloca {
	a := &Alloca{
		register: register{typ: types.NewPointer(elem), id: f.nextID()},
		Elem:     elem,
		UserName: userName,
	}
	block.emit(a)
	return a
}

// Load emits a Load(addr, t) instruction into block. Panics if addr is
// not pointer-typed: that is a contract violation in the lowerer,
// not a recoverable user error (§7).
func (f *Function) Load(block *BasicBlock, addr Value, t *types.Type) *Load {
	if addr.Type() == nil || addr.Type().Kind != types.PointerKind {
		panic(fmt.Sprintf("nir: Load address must be pointer-typed, got %s", addr.Type()))
	}
	l := &Load{register: register{typ: t, id: f.nextID()}, Addr: addr}
	block.emit(l)
	return l
}

// Store emits a Store(addr, val) instruction into block.
func (f *Function) Store(block *BasicBlock, addr, val Value) *Store {
	if addr.Type() == nil || addr.Type().Kind != types.PointerKind {
		panic(fmt.Sprintf("nir: Store address must be pointer-typed, got %s", addr.Type()))
	}
	s := &Store{Addr: addr, Val: val}
	block.emit(s)
	return s
}

// FieldAddress emits a FieldAddress(base, path, Pointer(t)) instruction.
func (f *Function) FieldAddress(block *BasicBlock, base Value, path []string, fieldType *types.Type) *FieldAddress {
	fa := &FieldAddress{
		register:  register{typ: types.NewPointer(fieldType), id: f.nextID()},
		BaseAddr:  base,
		FieldPath: append([]string(nil), path...),
	}
	block.emit(fa)
	return fa
}

// FieldExtract emits a FieldExtract(base, field, t) instruction.
func (f *Function) FieldExtract(block *BasicBlock, base Value, field string, t *types.Type) *FieldExtract {
	fe := &FieldExtract{register: register{typ: t, id: f.nextID()}, Base: base, Field: field}
	block.emit(fe)
	return fe
}

// BinaryOpInstr emits a BinaryOp instruction.
func (f *Function) BinaryOpInstr(block *BasicBlock, op BinaryOpKind, left, right Value, t *types.Type) *BinaryOp {
	b := &BinaryOp{register: register{typ: t, id: f.nextID()}, Op: op, Left: left, Right: right}
	block.emit(b)
	return b
}

// UnaryOpInstr emits a UnaryOp instruction.
func (f *Function) UnaryOpInstr(block *BasicBlock, op UnaryOpKind, operand Value, t *types.Type) *UnaryOp {
	u := &UnaryOp{register: register{typ: t, id: f.nextID()}, Op: op, Operand: operand}
	block.emit(u)
	return u
}

// CastInstr emits a Cast instruction.
func (f *Function) CastInstr(block *BasicBlock, val Value, target *types.Type) *Cast {
	c := &Cast{register: register{typ: target, id: f.nextID()}, Value: val}
	block.emit(c)
	return c
}

// CallInstr emits a Call(callee, args, t) instruction. t may be Void.
func (f *Function) CallInstr(block *BasicBlock, callee string, args []Value, t *types.Type) *Call {
	c := &Call{register: register{typ: t, id: f.nextID()}, Callee: callee, Args: append([]Value(nil), args...)}
	block.emit(c)
	return c
}

// SetReturn closes block with a Return terminator. Panics if block is
// already closed (§7).
func (f *Function) SetReturn(block *BasicBlock, value Value) *Return {
	r := &Return{Value: value}
	block.setTerminator(r)
	return r
}

// SetJump closes block with a Jump to target, passing args as target's
// block parameters. Panics if arity doesn't match target's parameter
// count (§7: a contract violation, not a user-facing diagnostic).
func (f *Function) SetJump(block *BasicBlock, target *BasicBlock, args []Value) *Jump {
	checkArity(target, args)
	j := &Jump{Target: target, Args: append([]Value(nil), args...)}
	block.setTerminator(j)
	return j
}

// SetBranch closes block with a conditional Branch. Panics if either
// arm's arity doesn't match its target's parameter count.
func (f *Function) SetBranch(block *BasicBlock, cond Value, trueTarget *BasicBlock, trueArgs []Value, falseTarget *BasicBlock, falseArgs []Value) *Branch {
	checkArity(trueTarget, trueArgs)
	checkArity(falseTarget, falseArgs)
	b := &Branch{
		Cond:        cond,
		TrueTarget:  trueTarget,
		TrueArgs:    append([]Value(nil), trueArgs...),
		FalseTarget: falseTarget,
		FalseArgs:   append([]Value(nil), falseArgs...),
	}
	block.setTerminator(b)
	return b
}

func checkArity(target *BasicBlock, args []Value) {
	if len(args) != len(target.Params) {
		panic(fmt.Sprintf("nir: jump/branch to block %q passes %d argument(s), want %d",
			target.Name, len(args), len(target.Params)))
	}
}
