package lower

import (
	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

// lowerStmt implements spec §4.3.2. A single type switch replaces the
// visitor dispatch in the AST's accept(visitor) contract, per the
// redesign note in spec §9.
func (l *FunctionLowerer) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarBinding:
		l.lowerVarBinding(s)
	case *ast.AssignStatement:
		l.lowerAssignStatement(s)
	case *ast.MemberAssignStatement:
		l.lowerMemberAssignStatement(s)
	case *ast.LValueAssignStatement:
		l.lowerLValueAssignStatement(s)
	case *ast.ReturnStatement:
		l.lowerReturnStatement(s)
	case *ast.ExpressionStatement:
		l.lowerExpr(s.Expression)
	case *ast.Block:
		l.lowerBlock(s)
	case *ast.IfStatement:
		l.lowerIfStatement(s)
	default:
		panic("lower: unhandled statement type")
	}
}

func (l *FunctionLowerer) lowerVarBinding(s *ast.VarBinding) {
	var declaredType *types.Type
	if s.Value != nil && s.Value.ResolvedType() != nil {
		declaredType = s.Value.ResolvedType()
	} else if s.ResolvedType != nil {
		declaredType = s.ResolvedType
	}
	if declaredType == nil {
		// Neither the initializer nor the annotation resolved a type:
		// no binding is introduced (spec §4.3.2).
		return
	}

	// The alloca is placed into the block that was current at
	// statement entry, captured before lowering the initializer, so it
	// lands in the declaring block even when the initializer itself
	// introduces new blocks (spec §4.3.2).
	declBlock := l.current
	alloc := l.fn.Alloca(declBlock, declaredType, s.Name)

	if s.Value != nil {
		val := l.lowerExpr(s.Value)
		if l.current == nil {
			return
		}
		l.fn.Store(l.current, alloc, val)
	}
	l.vars[s.Name] = alloc
}

func (l *FunctionLowerer) lowerAssignStatement(s *ast.AssignStatement) {
	if v, ok := l.vars[s.Name]; ok && v.Type() != nil && v.Type().Kind == types.PointerKind {
		val := l.lowerExpr(s.Value)
		if l.current == nil {
			return
		}
		l.fn.Store(l.current, v, val)
		return
	}
	if l.selfStructType != nil {
		if ft := l.selfStructType.FieldType(s.Name); ft != nil {
			addr := l.fn.FieldAddress(l.current, l.selfParam, []string{s.Name}, ft)
			val := l.lowerExpr(s.Value)
			if l.current == nil {
				return
			}
			l.fn.Store(l.current, addr, val)
			return
		}
	}
	l.sink.NirCannotStore(s.Range, orUnknown(s.Value.ResolvedType()))
	l.lowerExpr(s.Value) // still evaluate for side effects (spec §7)
}

func (l *FunctionLowerer) lowerMemberAssignStatement(s *ast.MemberAssignStatement) {
	base, ok := l.vars[s.BaseName]
	if !ok || base.Type() == nil || base.Type().Kind != types.PointerKind {
		l.sink.NirCannotStore(s.Range, orUnknown(s.Value.ResolvedType()))
		l.lowerExpr(s.Value)
		return
	}
	leafType, ok := fieldPathType(base.Type().Pointee, s.MemberPath)
	if !ok {
		l.sink.NirCannotStore(s.Range, orUnknown(s.Value.ResolvedType()))
		l.lowerExpr(s.Value)
		return
	}
	addr := l.fn.FieldAddress(l.current, base, s.MemberPath, leafType)
	val := l.lowerExpr(s.Value)
	if l.current == nil {
		return
	}
	l.fn.Store(l.current, addr, val)
}

func (l *FunctionLowerer) lowerLValueAssignStatement(s *ast.LValueAssignStatement) {
	addr, ok := l.addressOf(s.Target)
	if !ok {
		l.sink.NirCannotStore(s.Range, orUnknown(s.Target.ResolvedType()))
		l.lowerExpr(s.Value) // still evaluate e for side effects (spec §4.3.2)
		return
	}
	val := l.lowerExpr(s.Value)
	if l.current == nil {
		return
	}
	l.fn.Store(l.current, addr, val)
}

func (l *FunctionLowerer) lowerReturnStatement(s *ast.ReturnStatement) {
	var v nir.Value
	if s.Value != nil {
		v = l.lowerExpr(s.Value)
		if l.current == nil {
			return
		}
	}
	l.fn.SetReturn(l.current, v)
	l.current = nil
}
