package lower

import (
	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

// lowerIfStatement implements spec §4.3.5's if/elseif/else lowering.
func (l *FunctionLowerer) lowerIfStatement(s *ast.IfStatement) {
	merge := l.fn.CreateBlock("merge")

	for i, clause := range s.Clauses {
		cond := l.lowerExpr(clause.Condition)
		if l.current == nil {
			return
		}
		then := l.fn.CreateBlock("then")

		var next *nir.BasicBlock
		switch {
		case i < len(s.Clauses)-1:
			next = l.fn.CreateBlock("cond")
		case s.ElseBlock != nil:
			next = l.fn.CreateBlock("else_block")
		default:
			next = merge
		}

		l.fn.SetBranch(l.current, cond, then, nil, next, nil)

		l.current = then
		l.lowerBlock(clause.Body)
		if l.current != nil {
			l.fn.SetJump(l.current, merge, nil)
		}
		l.current = next
	}

	if s.ElseBlock != nil {
		l.lowerBlock(s.ElseBlock)
		if l.current != nil {
			l.fn.SetJump(l.current, merge, nil)
		}
	}

	l.current = merge
}

// lowerShortCircuit implements spec §4.3.5's &&/|| encoding: a
// conditional branch feeds the merge block's single Bool parameter
// with the short-circuit literal on the skipped edge, and with the
// right operand's value on the evaluated edge. Block parameters play
// the role of a phi node here, without introducing one.
func (l *FunctionLowerer) lowerShortCircuit(e *ast.BinaryExpression) nir.Value {
	left := l.lowerExpr(e.Left)
	if l.current == nil {
		return left
	}

	isAnd := e.Op == ast.OpLogicalAnd
	contName, mergeName := "and_continue", "and_merge"
	if !isAnd {
		contName, mergeName = "or_continue", "or_merge"
	}

	cont := l.fn.CreateBlock(contName)
	merge, mergeParams := l.fn.CreateBlockWithParams(mergeName, types.TBool)

	shortValue := nir.NewBoolConstant(types.TBool, !isAnd)

	if isAnd {
		l.fn.SetBranch(l.current, left, cont, nil, merge, []nir.Value{shortValue})
	} else {
		l.fn.SetBranch(l.current, left, merge, []nir.Value{shortValue}, cont, nil)
	}

	l.current = cont
	right := l.lowerExpr(e.Right)
	if l.current != nil {
		l.fn.SetJump(l.current, merge, []nir.Value{right})
	}

	l.current = merge
	return mergeParams[0]
}
