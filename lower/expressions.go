package lower

import (
	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

// lowerExpr implements spec §4.3.3. A single type switch replaces the
// visitor dispatch the AST's accept(visitor) contract would otherwise
// require (spec §9).
func (l *FunctionLowerer) lowerExpr(expr ast.Expr) nir.Value {
	switch e := expr.(type) {
	case *ast.IntegerLiteralExpression:
		t := e.ResolvedType()
		if t == nil {
			t = types.TInt
		}
		return nir.NewIntConstant(t, parseIntLiteral(e.Value))

	case *ast.StringLiteralExpression:
		t := e.ResolvedType()
		if t == nil {
			t = types.NewPointer(types.TInt8)
		}
		return nir.NewStringConstant(t, e.Value)

	case *ast.BooleanLiteralExpression:
		t := e.ResolvedType()
		if t == nil {
			t = types.TBool
		}
		return nir.NewBoolConstant(t, e.Value)

	case *ast.IdentifierExpression:
		return l.identifierValue(e)

	case *ast.UnaryExpression:
		return l.lowerUnary(e)

	case *ast.BinaryExpression:
		return l.lowerBinary(e)

	case *ast.CallExpression:
		return l.lowerCall(e)

	case *ast.CastExpression:
		val := l.lowerExpr(e.Expression)
		if l.current == nil {
			return val
		}
		t := e.ResolvedType()
		if t == nil {
			t = types.TInt
		}
		return l.fn.CastInstr(l.current, val, t)

	case *ast.MemberAccessExpression:
		return l.lowerMemberAccess(e)

	default:
		panic("lower: unhandled expression type")
	}
}

func (l *FunctionLowerer) lowerUnary(e *ast.UnaryExpression) nir.Value {
	switch e.Op {
	case ast.OpNegate, ast.OpLogicalNot:
		operand := l.lowerExpr(e.Operand)
		if l.current == nil {
			return operand
		}
		t := e.ResolvedType()
		if t == nil {
			t = operand.Type()
		}
		op := nir.Negate
		if e.Op == ast.OpLogicalNot {
			op = nir.LogicalNot
		}
		return l.fn.UnaryOpInstr(l.current, op, operand, t)

	case ast.OpDereference:
		operand := l.lowerExpr(e.Operand)
		if l.current == nil {
			return operand
		}
		if operand.Type() == nil || operand.Type().Kind != types.PointerKind {
			l.sink.NirDereferenceNonPointer(e.Range, orUnknown(operand.Type()))
			return l.errorValue(e.ResolvedType())
		}
		t := e.ResolvedType()
		if t == nil {
			t = operand.Type().Pointee
		}
		return l.fn.Load(l.current, operand, t)

	case ast.OpAddressOf:
		addr, ok := l.addressOf(e.Operand)
		if !ok {
			l.sink.NirAddressOfNonLValue(e.Range, orUnknown(e.Operand.ResolvedType()))
			return l.errorValue(e.ResolvedType())
		}
		return addr

	default:
		panic("lower: unhandled unary operator")
	}
}

var comparisonOps = map[ast.BinaryOperator]bool{
	ast.OpEq: true, ast.OpNe: true, ast.OpLt: true, ast.OpLe: true, ast.OpGt: true, ast.OpGe: true,
}

var binOpKind = map[ast.BinaryOperator]nir.BinaryOpKind{
	ast.OpAdd: nir.Add, ast.OpSub: nir.Sub, ast.OpMul: nir.Mul, ast.OpDiv: nir.Div, ast.OpMod: nir.Mod,
	ast.OpEq: nir.Eq, ast.OpNe: nir.Ne, ast.OpLt: nir.Lt, ast.OpLe: nir.Le, ast.OpGt: nir.Gt, ast.OpGe: nir.Ge,
}

func (l *FunctionLowerer) lowerBinary(e *ast.BinaryExpression) nir.Value {
	if e.Op == ast.OpLogicalAnd || e.Op == ast.OpLogicalOr {
		return l.lowerShortCircuit(e)
	}
	left := l.lowerExpr(e.Left)
	if l.current == nil {
		return left
	}
	right := l.lowerExpr(e.Right)
	if l.current == nil {
		return right
	}
	t := e.ResolvedType()
	if t == nil {
		if comparisonOps[e.Op] {
			t = types.TBool
		} else {
			t = types.TInt
		}
	}
	return l.fn.BinaryOpInstr(l.current, binOpKind[e.Op], left, right, t)
}

// lowerCall implements spec §4.3.3's three CallExpression cases.
func (l *FunctionLowerer) lowerCall(e *ast.CallExpression) nir.Value {
	// Case 1: method call `base.member(args...)`.
	if ma, ok := e.Function.(*ast.MemberAccessExpression); ok {
		if ident, ok := ma.Base.(*ast.IdentifierExpression); ok {
			if base, bound := l.vars[ident.Name]; bound {
				structType := structTypeOf(base, l.selfStructType)
				if structType != nil {
					return l.lowerMethodCall(e, base, structType, ma.Member)
				}
			}
		}
	}

	// Case 2: a built-in primitive name called with exactly one
	// argument, where the call's resolved type is that primitive — a
	// Cast in disguise.
	if ident, ok := e.Function.(*ast.IdentifierExpression); ok {
		if prim, isPrim := types.Primitive(ident.Name); isPrim && len(e.Arguments) == 1 {
			if e.ResolvedType() != nil && e.ResolvedType().SameType(prim) {
				val := l.lowerExpr(e.Arguments[0].Value)
				if l.current == nil {
					return val
				}
				return l.fn.CastInstr(l.current, val, e.ResolvedType())
			}
		}
	}

	// Case 3: ordinary positional call.
	calleeName := "<indirect>"
	if ident, ok := e.Function.(*ast.IdentifierExpression); ok {
		calleeName = ident.Name
	}
	args := make([]nir.Value, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		v := l.lowerExpr(a.Value)
		if l.current == nil {
			return v
		}
		args = append(args, v)
	}
	t := e.ResolvedType()
	if t == nil {
		t = types.TVoid
	}
	return l.fn.CallInstr(l.current, calleeName, args, t)
}

// structTypeOf returns the struct type addressed by base, whether base
// is a local alloca (whose Elem is the struct) or self itself (whose
// struct type is selfStructType).
func structTypeOf(base nir.Value, selfStructType *types.Type) *types.Type {
	if alloc, ok := base.(*nir.Alloca); ok {
		return alloc.Elem
	}
	if _, ok := base.(*nir.BlockParameter); ok {
		return selfStructType
	}
	return nil
}

func (l *FunctionLowerer) lowerMethodCall(e *ast.CallExpression, base nir.Value, structType *types.Type, method string) nir.Value {
	mangled := structType.Name + "_" + method
	args := make([]nir.Value, 0, len(e.Arguments)+1)
	args = append(args, base)
	for _, a := range e.Arguments {
		v := l.lowerExpr(a.Value)
		if l.current == nil {
			return v
		}
		args = append(args, v)
	}
	t := e.ResolvedType()
	if t == nil {
		t = types.TVoid
	}
	call := l.fn.CallInstr(l.current, mangled, args, t)
	if t == types.TVoid {
		return nir.NewVoidConstant(types.TVoid)
	}
	return call
}

// lowerMemberAccess implements spec §4.3.7.
func (l *FunctionLowerer) lowerMemberAccess(e *ast.MemberAccessExpression) nir.Value {
	base, path := collapseMemberChain(e)
	if ident, ok := base.(*ast.IdentifierExpression); ok {
		if addr, leafType, ok := l.resolveMemberChain(ident.Name, path); ok {
			return l.fn.Load(l.current, addr, leafType)
		}
	}

	// Otherwise: lower the base as a value and project field-by-field.
	cur := l.lowerExpr(base)
	if l.current == nil {
		return cur
	}
	curType := cur.Type()
	for _, field := range path {
		var ft *types.Type
		if curType != nil && curType.Kind == types.StructKind {
			ft = curType.FieldType(field)
		}
		if ft == nil {
			ft = types.NewUnknown()
		}
		cur = l.fn.FieldExtract(l.current, cur, field, ft)
		curType = ft
	}
	return cur
}
