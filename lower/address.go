package lower

import (
	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

// addressOf implements spec §4.3.4's address_of(expr): it returns a
// pointer-typed value representing expr's memory location, or false
// if expr is not addressable.
func (l *FunctionLowerer) addressOf(expr ast.Expr) (nir.Value, bool) {
	switch e := expr.(type) {
	case *ast.IdentifierExpression:
		return l.addressOfIdentifier(e.Name)

	case *ast.MemberAccessExpression:
		base, path := collapseMemberChain(e)
		ident, ok := base.(*ast.IdentifierExpression)
		if !ok {
			return nil, false
		}
		addr, _, ok := l.resolveMemberChain(ident.Name, path)
		if !ok {
			return nil, false
		}
		return addr, true

	case *ast.UnaryExpression:
		if e.Op != ast.OpDereference {
			return nil, false
		}
		p := l.lowerExpr(e.Operand)
		if l.current == nil || p.Type() == nil || p.Type().Kind != types.PointerKind {
			return nil, false
		}
		return p, true

	default:
		return nil, false
	}
}

// addressOfIdentifier implements the first three rows of spec §4.3.4's
// table for a bare identifier.
func (l *FunctionLowerer) addressOfIdentifier(name string) (nir.Value, bool) {
	if v, ok := l.vars[name]; ok {
		if v.Type() != nil && v.Type().Kind == types.PointerKind {
			if _, isParam := v.(*nir.BlockParameter); isParam {
				// self: a pointer value, but not itself addressable —
				// it was never spilled (spec §4.3.1, §9).
				return nil, false
			}
			return v, true // an Alloca result
		}
		return nil, false
	}
	if l.selfStructType != nil {
		if ft := l.selfStructType.FieldType(name); ft != nil {
			return l.fn.FieldAddress(l.current, l.selfParam, []string{name}, ft), true
		}
	}
	return nil, false
}

// resolveMemberChain resolves a member-access chain `name.path...`,
// covering the two chained-access rows of spec §4.3.4's table: a root
// identifier bound to an alloca, or self itself (bound to a block
// parameter, whether referenced explicitly as "self.a.b" or implicitly
// as "a.b" when "a" is a field of the enclosing struct).
func (l *FunctionLowerer) resolveMemberChain(name string, path []string) (nir.Value, *types.Type, bool) {
	if v, bound := l.vars[name]; bound {
		if v.Type() == nil || v.Type().Kind != types.PointerKind {
			return nil, nil, false
		}
		if _, isParam := v.(*nir.BlockParameter); isParam {
			// "self.pos.x": self is the root, and path already excludes it.
			leafType, ok := fieldPathType(l.selfStructType, path)
			if !ok {
				return nil, nil, false
			}
			return l.fn.FieldAddress(l.current, v, path, leafType), leafType, true
		}
		if alloc, isAlloc := v.(*nir.Alloca); isAlloc {
			leafType, ok := fieldPathType(alloc.Elem, path)
			if !ok {
				return nil, nil, false
			}
			return l.fn.FieldAddress(l.current, alloc, path, leafType), leafType, true
		}
		return nil, nil, false
	}
	if l.selfStructType != nil {
		fullPath := append([]string{name}, path...)
		leafType, ok := fieldPathType(l.selfStructType, fullPath)
		if !ok {
			return nil, nil, false
		}
		return l.fn.FieldAddress(l.current, l.selfParam, fullPath, leafType), leafType, true
	}
	return nil, nil, false
}

// collapseMemberChain walks a (possibly chained) MemberAccessExpression
// down to its non-member-access base expression and the ordered list
// of field names accessed along the way.
func collapseMemberChain(e *ast.MemberAccessExpression) (ast.Expr, []string) {
	var path []string
	var cur ast.Expr = e
	for {
		ma, ok := cur.(*ast.MemberAccessExpression)
		if !ok {
			break
		}
		path = append([]string{ma.Member}, path...)
		cur = ma.Base
	}
	return cur, path
}

// fieldPathType walks path through nested struct fields starting at
// root, returning the type of the final field.
func fieldPathType(root *types.Type, path []string) (*types.Type, bool) {
	cur := root
	for _, name := range path {
		if cur == nil || cur.Kind != types.StructKind {
			return nil, false
		}
		next := cur.FieldType(name)
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// identifierValue implements spec §4.3.6.
func (l *FunctionLowerer) identifierValue(e *ast.IdentifierExpression) nir.Value {
	if v, ok := l.vars[e.Name]; ok {
		if bp, isParam := v.(*nir.BlockParameter); isParam {
			return bp // self: yielded directly, never spilled
		}
		t := e.ResolvedType()
		if t == nil {
			t = types.TInt
		}
		return l.fn.Load(l.current, v, t)
	}
	if l.selfStructType != nil {
		if ft := l.selfStructType.FieldType(e.Name); ft != nil {
			addr := l.fn.FieldAddress(l.current, l.selfParam, []string{e.Name}, ft)
			return l.fn.Load(l.current, addr, ft)
		}
	}
	l.sink.NirCannotComputeAddress(e.Range, orUnknown(e.ResolvedType()))
	return l.errorValue(e.ResolvedType())
}
