// Package nir defines NewLang's intermediate representation: a typed,
// SSA-form, basic-block-structured function IR with explicit stack
// allocation, loads, stores, field addressing, and control flow via
// parameterized block branches (no phi nodes).
//
// The shapes here mirror golang.org/x/tools/go/ssa's Value/Instruction
// split (a Value is anything with a Type; an Instruction is anything
// that can be emitted into a block), adapted so that a conditional
// merge is expressed as block parameters fed by branch/jump arguments
// instead of Phi instructions, per the lowering spec's redesign notes.
package nir

import (
	"fmt"

	"github.com/nirlang/nirc/types"
)

// Value is anything that can be used as an operand: a block parameter,
// a register-producing instruction's result, a constant, or Undef.
type Value interface {
	// Type returns the value's static type.
	Type() *types.Type
	// String returns a debug form of the value; see print.go for the
	// disassembly-style textual form instructions use.
	String() string
}

// Instruction is anything that can be emitted into a basic block.
// Terminators (Return, Jump, Branch) also implement Instruction but
// are stored in BasicBlock.Terminator rather than BasicBlock.Instrs.
type Instruction interface {
	Block() *BasicBlock
	setBlock(*BasicBlock)
	String() string
}

// register is embedded by every instruction that produces a Value.
type register struct {
	typ   *types.Type
	block *BasicBlock
	id    int // assigned by the owning function for debug printing, e.g. "%3"
}

func (r *register) Type() *types.Type        { return r.typ }
func (r *register) Block() *BasicBlock       { return r.block }
func (r *register) setBlock(b *BasicBlock)   { r.block = b }
func (r *register) Name() string             { return fmt.Sprintf("%%%d", r.id) }

// BlockParameter is a value defined by a block's formal parameter
// slot. It plays the role of SSA's phi node: control-flow merges are
// expressed by jumping/branching to a block with arguments, rather
// than by a Phi instruction inside the block.
type BlockParameter struct {
	typ   *types.Type
	block *BasicBlock
	index int
}

func (p *BlockParameter) Type() *types.Type { return p.typ }
func (p *BlockParameter) Block() *BasicBlock { return p.block }
func (p *BlockParameter) String() string {
	return fmt.Sprintf("param%d", p.index)
}

// Literal is the payload carried by a Constant: an integer, a boolean,
// or a string.
type Literal struct {
	Int  int64
	Bool bool
	Str  string
}

// Constant is an immediate value of a given type. It is never emitted
// into a block; it is referenced directly as an operand.
type Constant struct {
	typ     *types.Type
	Literal Literal
}

// NewIntConstant returns an integer Constant of type t.
func NewIntConstant(t *types.Type, v int64) *Constant {
	return &Constant{typ: t, Literal: Literal{Int: v}}
}

// NewBoolConstant returns a boolean Constant of type t.
func NewBoolConstant(t *types.Type, v bool) *Constant {
	return &Constant{typ: t, Literal: Literal{Bool: v}}
}

// NewStringConstant returns a string Constant of type t.
func NewStringConstant(t *types.Type, v string) *Constant {
	return &Constant{typ: t, Literal: Literal{Str: v}}
}

func (c *Constant) Type() *types.Type { return c.typ }

// NewVoidConstant returns the nominal value yielded by a call to a
// Void-returning function (spec §4.3.3: "If return type is Void, still
// emit the call and yield a Void constant.").
func NewVoidConstant(t *types.Type) *Constant {
	return &Constant{typ: t}
}

// Undef is the bottom value, typed as requested by context. It is
// substituted by the lowerer for structurally recoverable errors
// (§7 of the spec) so that lowering can keep producing well-typed IR
// after emitting a diagnostic.
type Undef struct {
	typ *types.Type
}

// NewUndef returns an Undef value of type t.
func NewUndef(t *types.Type) *Undef { return &Undef{typ: t} }

func (u *Undef) Type() *types.Type { return u.typ }
func (u *Undef) String() string    { return "undef" }

// --- register-producing instructions ---

// Alloca allocates a stack slot of type Elem; its result type is
// Pointer(Elem).
type Alloca struct {
	register
	Elem     *types.Type
	UserName string // the source identifier this slot was declared for
}

// Load reads the value stored at Addr, which must have pointer type.
type Load struct {
	register
	Addr Value
}

// FieldAddress computes the address of a (possibly nested) field
// reached from a pointer-typed BaseAddr by walking FieldPath.
type FieldAddress struct {
	register
	BaseAddr  Value
	FieldPath []string
}

// FieldExtract projects a field out of an aggregate value held
// directly in a register, without going through memory.
type FieldExtract struct {
	register
	Base  Value
	Field string
}

// BinaryOpKind enumerates the binary operators of BinaryOp.
type BinaryOpKind int

const (
	Add BinaryOpKind = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

func (k BinaryOpKind) String() string {
	switch k {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Mod:
		return "mod"
	case Eq:
		return "eq"
	case Ne:
		return "ne"
	case Lt:
		return "lt"
	case Le:
		return "le"
	case Gt:
		return "gt"
	case Ge:
		return "ge"
	default:
		return "???"
	}
}

// BinaryOp applies a binary operator to two operands.
type BinaryOp struct {
	register
	Op          BinaryOpKind
	Left, Right Value
}

// UnaryOpKind enumerates the unary operators of UnaryOp.
type UnaryOpKind int

const (
	Negate UnaryOpKind = iota
	LogicalNot
)

func (k UnaryOpKind) String() string {
	switch k {
	case Negate:
		return "negate"
	case LogicalNot:
		return "not"
	default:
		return "???"
	}
}

// UnaryOp applies a unary operator to one operand.
type UnaryOp struct {
	register
	Op      UnaryOpKind
	Operand Value
}

// Cast converts Value to the instruction's result type.
type Cast struct {
	register
	Value Value
}

// Call invokes the function named Callee with Args. The result type
// may be Void; such a Call is still emitted for its side effect.
type Call struct {
	register
	Callee string
	Args   []Value
}

// --- effect-only instructions ---

// Store writes Val to the memory cell addressed by Addr, which must
// have pointer type. Store has no result.
type Store struct {
	block *BasicBlock
	Addr  Value
	Val   Value
}

func (s *Store) Block() *BasicBlock     { return s.block }
func (s *Store) setBlock(b *BasicBlock) { s.block = b }

// --- terminators ---

// Terminator is the instruction that ends a basic block.
type Terminator interface {
	Instruction
	isTerminator()
}

// Return exits the function, optionally yielding Value.
type Return struct {
	block *BasicBlock
	Value Value // nil for a Void return
}

func (r *Return) Block() *BasicBlock     { return r.block }
func (r *Return) setBlock(b *BasicBlock) { r.block = b }
func (r *Return) isTerminator()          {}

// Jump unconditionally transfers control to Target, passing Args as
// Target's block parameters.
type Jump struct {
	block  *BasicBlock
	Target *BasicBlock
	Args   []Value
}

func (j *Jump) Block() *BasicBlock     { return j.block }
func (j *Jump) setBlock(b *BasicBlock) { j.block = b }
func (j *Jump) isTerminator()          {}

// Branch transfers control to TrueTarget (with TrueArgs) if Cond is
// true, or to FalseTarget (with FalseArgs) otherwise.
type Branch struct {
	block                     *BasicBlock
	Cond                      Value
	TrueTarget, FalseTarget   *BasicBlock
	TrueArgs, FalseArgs       []Value
}

func (b *Branch) Block() *BasicBlock     { return b.block }
func (b *Branch) setBlock(bb *BasicBlock) { b.block = bb }
func (b *Branch) isTerminator()          {}

// BasicBlock is a single-entry, single-exit sequence of instructions
// ending in exactly one terminator once lowering completes.
type BasicBlock struct {
	Name       string
	Params     []*BlockParameter
	Instrs     []Instruction
	Terminator Terminator

	parent *Function
	index  int
}

// Index returns the block's position in its function's block list.
func (b *BasicBlock) Index() int { return b.index }

// Parent returns the function that owns b.
func (b *BasicBlock) Parent() *Function { return b.parent }

// emit appends instr to b. Panics if b is already closed: appending
// after a terminator is a compiler bug (§7), not a recoverable error.
func (b *BasicBlock) emit(instr Instruction) {
	if b.Terminator != nil {
		panic(fmt.Sprintf("nir: cannot append instruction to closed block %q", b.Name))
	}
	instr.setBlock(b)
	b.Instrs = append(b.Instrs, instr)
}

// setTerminator sets b's terminator. Panics if b already has one: a
// block terminated twice is a compiler bug (§7).
func (b *BasicBlock) setTerminator(term Terminator) {
	if b.Terminator != nil {
		panic(fmt.Sprintf("nir: block %q already has a terminator", b.Name))
	}
	term.setBlock(b)
	b.Terminator = term
}

// Closed reports whether b has a terminator.
func (b *BasicBlock) Closed() bool { return b.Terminator != nil }

// Function is a single NIR function or lowered method.
type Function struct {
	Name       string
	ParamTypes []*types.Type
	ReturnType *types.Type
	Blocks     []*BasicBlock

	nextReg int
}

// Entry returns the function's entry block (its first block).
func (f *Function) Entry() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// NewFunction constructs an NIRFunction with the given parameter types
// and return type, and creates its entry block with one BlockParameter
// per parameter type, in order.
func NewFunction(name string, paramTypes []*types.Type, returnType *types.Type) *Function {
	f := &Function{Name: name, ParamTypes: paramTypes, ReturnType: returnType}
	entry := f.CreateBlock("entry")
	for _, t := range paramTypes {
		f.addBlockParam(entry, t)
	}
	return f
}

// CreateBlock creates and appends a new, empty basic block named name
// (with no parameters). Use CreateBlockWithParams for a block that
// takes parameters.
func (f *Function) CreateBlock(name string) *BasicBlock {
	b := &BasicBlock{Name: name, parent: f, index: len(f.Blocks)}
	f.Blocks = append(f.Blocks, b)
	return b
}

// CreateBlockWithParams creates and appends a new basic block with one
// fresh BlockParameter per entry of paramTypes, in order, and returns
// both the block and its parameters.
func (f *Function) CreateBlockWithParams(name string, paramTypes ...*types.Type) (*BasicBlock, []*BlockParameter) {
	b := f.CreateBlock(name)
	params := make([]*BlockParameter, len(paramTypes))
	for i, t := range paramTypes {
		params[i] = f.addBlockParam(b, t)
	}
	return b, params
}

func (f *Function) addBlockParam(b *BasicBlock, t *types.Type) *BlockParameter {
	p := &BlockParameter{typ: t, block: b, index: len(b.Params)}
	b.Params = append(b.Params, p)
	return p
}

// nextID mints a fresh register id for debug printing.
func (f *Function) nextID() int {
	id := f.nextReg
	f.nextReg++
	return id
}
