// Package ast defines the typed AST contract the lowering core
// consumes (spec §6.1). It is produced by an external lexer, parser,
// and type checker that are out of scope for this module: an
// expression's ResolvedType is whatever the type checker recorded, and
// is nil where it left the type unset (the lowerer then applies its
// fallback rules).
//
// Rather than the visitor-dispatch shape described in spec §6.1
// ("each node has accept(visitor)"), nodes are plain Go interfaces
// discriminated by type switch, per the redesign note in spec §9: a
// single lower_expr/lower_stmt match replaces the visitor indirection
// entirely. This mirrors how golang.org/x/tools/go/ssa's own builder
// dispatches on the standard library's go/ast node types with type
// switches rather than a visitor.
package ast

import "github.com/nirlang/nirc/types"

// Range is a source span, carried for diagnostics only (spec §1: out
// of scope beyond what diagnostics need).
type Range struct {
	File                   string
	StartLine, StartColumn int
	EndLine, EndColumn     int
}

// File is the top-level container produced by decoding an input AST
// document (see internal/nirjson): an ordered list of declarations.
type File struct {
	Declarations []Decl
}

// Decl is a top-level declaration.
type Decl interface{ isDecl() }

// FunctionDeclaration declares a free function or a struct method. It
// is a method iff it appears inside a StructDeclaration.Methods.
type FunctionDeclaration struct {
	Name               string
	Parameters         []Parameter
	Body               *Block // nil for a declaration with no body
	IsExtern           bool
	ResolvedReturnType *types.Type // nil means Void
	Range              Range
}

func (*FunctionDeclaration) isDecl() {}

// ExternDeclaration declares an external symbol with no body to lower.
type ExternDeclaration struct {
	Name  string
	Range Range
}

func (*ExternDeclaration) isDecl() {}

// StructDeclaration declares a struct type and its methods.
type StructDeclaration struct {
	Name    string
	Fields  []Parameter // field name + declared/resolved type
	Methods []*FunctionDeclaration
	Range   Range
}

func (*StructDeclaration) isDecl() {}

// Parameter is a (name, type) pair, used for both function parameters
// and struct fields. ResolvedType may be nil if the type checker
// could not resolve it (the lowerer falls back to types.NewUnknown()).
type Parameter struct {
	Name         string
	ResolvedType *types.Type
	Range        Range
}

// Stmt is a statement.
type Stmt interface{ isStmt() }

// VarBinding is `let name [: T] = value?`.
type VarBinding struct {
	Name         string
	ResolvedType *types.Type // the declared annotation's resolved type, if any
	Value        Expr        // nil if the binding has no initializer
	Range        Range
}

func (*VarBinding) isStmt() {}

// AssignStatement is `name = value`.
type AssignStatement struct {
	Name  string
	Value Expr
	Range Range
}

func (*AssignStatement) isStmt() {}

// MemberAssignStatement is `base.a.b = value`.
type MemberAssignStatement struct {
	BaseName   string
	MemberPath []string
	Value      Expr
	Range      Range
}

func (*MemberAssignStatement) isStmt() {}

// LValueAssignStatement is `target = value` where target is an
// arbitrary lvalue expression (e.g. `*p = value`).
type LValueAssignStatement struct {
	Target Expr
	Value  Expr
	Range  Range
}

func (*LValueAssignStatement) isStmt() {}

// ReturnStatement is `return value?;`.
type ReturnStatement struct {
	Value Expr // nil for a bare `return;`
	Range Range
}

func (*ReturnStatement) isStmt() {}

// Block is an ordered sequence of statements.
type Block struct {
	Statements []Stmt
	Range      Range
}

func (*Block) isStmt() {}

// ExpressionStatement lowers an expression and discards its value.
type ExpressionStatement struct {
	Expression Expr
	Range      Range
}

func (*ExpressionStatement) isStmt() {}

// IfClause is one `if`/`elseif` condition-body pair.
type IfClause struct {
	Condition Expr
	Body      *Block
}

// IfStatement is an if/elseif/else chain.
type IfStatement struct {
	Clauses   []IfClause
	ElseBlock *Block // nil if there is no else
	Range     Range
}

func (*IfStatement) isStmt() {}

// Expr is an expression. Every expression carries an optional
// resolved type (spec §6.1); ResolvedType returns nil when the type
// checker left it unset, in which case the lowerer must pick a
// fallback per the rules in spec §4.3.3.
type Expr interface {
	isExpr()
	ResolvedType() *types.Type
	SourceRange() Range
}

type exprBase struct {
	Resolved *types.Type
	Range    Range
}

func (e exprBase) ResolvedType() *types.Type { return e.Resolved }
func (e exprBase) SourceRange() Range        { return e.Range }

// IntegerLiteralExpression is an integer literal. Value is the raw
// source text; an unparseable literal lowers to 0 without diagnostic
// (spec §4.3.3, §9 open question).
type IntegerLiteralExpression struct {
	exprBase
	Value string
}

func (*IntegerLiteralExpression) isExpr() {}

// StringLiteralExpression is a string literal.
type StringLiteralExpression struct {
	exprBase
	Value string
}

func (*StringLiteralExpression) isExpr() {}

// BooleanLiteralExpression is a boolean literal.
type BooleanLiteralExpression struct {
	exprBase
	Value bool
}

func (*BooleanLiteralExpression) isExpr() {}

// IdentifierExpression references a name: a local variable, a
// parameter, a self field, or (structurally) an unresolved name.
type IdentifierExpression struct {
	exprBase
	Name string
}

func (*IdentifierExpression) isExpr() {}

// UnaryOperator enumerates the operators UnaryExpression supports.
type UnaryOperator int

const (
	OpNegate UnaryOperator = iota
	OpLogicalNot
	OpDereference
	OpAddressOf
)

// UnaryExpression is `op operand`.
type UnaryExpression struct {
	exprBase
	Op      UnaryOperator
	Operand Expr
}

func (*UnaryExpression) isExpr() {}

// BinaryOperator enumerates the operators BinaryExpression supports,
// including the short-circuit logical operators.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLogicalAnd
	OpLogicalOr
)

// BinaryExpression is `left op right`.
type BinaryExpression struct {
	exprBase
	Op          BinaryOperator
	Left, Right Expr
}

func (*BinaryExpression) isExpr() {}

// CallArgument wraps a call argument expression (spec §6.1: "argument
// wrappers carrying a value").
type CallArgument struct {
	Value Expr
}

// CallExpression is `function(arguments...)`.
type CallExpression struct {
	exprBase
	Function  Expr
	Arguments []CallArgument
}

func (*CallExpression) isExpr() {}

// CastExpression is an explicit cast `expression as T` (the resolved
// type carries the cast's target type T).
type CastExpression struct {
	exprBase
	Expression Expr
}

func (*CastExpression) isExpr() {}

// MemberAccessExpression is `base.member`, possibly chained.
type MemberAccessExpression struct {
	exprBase
	Base   Expr
	Member string
}

func (*MemberAccessExpression) isExpr() {}

// The constructors below build expression nodes with exprBase set,
// since the exprBase type is unexported (callers outside this
// package, such as internal/nirjson, cannot name it in a composite
// literal; they can only assign its promoted fields afterwards).

func NewIntegerLiteral(t *types.Type, r Range, value string) *IntegerLiteralExpression {
	return &IntegerLiteralExpression{exprBase{Resolved: t, Range: r}, value}
}

func NewStringLiteral(t *types.Type, r Range, value string) *StringLiteralExpression {
	return &StringLiteralExpression{exprBase{Resolved: t, Range: r}, value}
}

func NewBooleanLiteral(t *types.Type, r Range, value bool) *BooleanLiteralExpression {
	return &BooleanLiteralExpression{exprBase{Resolved: t, Range: r}, value}
}

func NewIdentifier(t *types.Type, r Range, name string) *IdentifierExpression {
	return &IdentifierExpression{exprBase{Resolved: t, Range: r}, name}
}

func NewUnary(t *types.Type, r Range, op UnaryOperator, operand Expr) *UnaryExpression {
	return &UnaryExpression{exprBase{Resolved: t, Range: r}, op, operand}
}

func NewBinary(t *types.Type, r Range, op BinaryOperator, left, right Expr) *BinaryExpression {
	return &BinaryExpression{exprBase{Resolved: t, Range: r}, op, left, right}
}

func NewCall(t *types.Type, r Range, function Expr, args []CallArgument) *CallExpression {
	return &CallExpression{exprBase{Resolved: t, Range: r}, function, args}
}

func NewCast(t *types.Type, r Range, expression Expr) *CastExpression {
	return &CastExpression{exprBase{Resolved: t, Range: r}, expression}
}

func NewMemberAccess(t *types.Type, r Range, base Expr, member string) *MemberAccessExpression {
	return &MemberAccessExpression{exprBase{Resolved: t, Range: r}, base, member}
}
