package lower

import (
	"testing"

	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/diag"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

func boolLit(v bool) *ast.BooleanLiteralExpression {
	e := &ast.BooleanLiteralExpression{Value: v}
	e.Resolved = types.TBool
	return e
}

func TestShortCircuitAndShape(t *testing.T) {
	// fn f() -> Bool { return true && false; }
	and := &ast.BinaryExpression{Op: ast.OpLogicalAnd, Left: boolLit(true), Right: boolLit(false)}
	and.Resolved = types.TBool
	decl := &ast.FunctionDeclaration{
		Name:               "f",
		ResolvedReturnType: types.TBool,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.ReturnStatement{Value: and},
		}},
	}

	l := NewFunctionLowerer(&diag.Collector{})
	fn := l.Lower(decl, nil, "")

	// entry, and_continue, and_merge
	if len(fn.Blocks) != 3 {
		t.Fatalf("expected 3 blocks for a short-circuit &&, got %d", len(fn.Blocks))
	}
	entry := fn.Blocks[0]
	branch, ok := entry.Terminator.(*nir.Branch)
	if !ok {
		t.Fatal("entry should end in a conditional branch")
	}
	if branch.TrueTarget.Name != "and_continue" || branch.FalseTarget.Name != "and_merge" {
		t.Fatalf("unexpected branch targets: true=%s false=%s", branch.TrueTarget.Name, branch.FalseTarget.Name)
	}
	if len(branch.FalseArgs) != 1 {
		t.Fatal("the false edge should carry the short-circuit literal to the merge parameter")
	}
	if c, ok := branch.FalseArgs[0].(*nir.Constant); !ok || c.Literal.Bool != false {
		t.Fatal("&& short-circuits to false")
	}

	merge := fn.Blocks[2]
	if len(merge.Params) != 1 || merge.Params[0].Type() != types.TBool {
		t.Fatal("merge block should have one Bool parameter")
	}
}

func TestShortCircuitOrShape(t *testing.T) {
	or := &ast.BinaryExpression{Op: ast.OpLogicalOr, Left: boolLit(false), Right: boolLit(true)}
	or.Resolved = types.TBool
	decl := &ast.FunctionDeclaration{
		Name:               "f",
		ResolvedReturnType: types.TBool,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.ReturnStatement{Value: or},
		}},
	}
	l := NewFunctionLowerer(&diag.Collector{})
	fn := l.Lower(decl, nil, "")

	entry := fn.Blocks[0]
	branch := entry.Terminator.(*nir.Branch)
	if branch.TrueTarget.Name != "or_merge" || branch.FalseTarget.Name != "or_continue" {
		t.Fatalf("unexpected || branch targets: true=%s false=%s", branch.TrueTarget.Name, branch.FalseTarget.Name)
	}
	if c, ok := branch.TrueArgs[0].(*nir.Constant); !ok || c.Literal.Bool != true {
		t.Fatal("|| short-circuits to true")
	}
}

func TestIfElseIfElseMergesToOneBlock(t *testing.T) {
	// if true { return 1; } elseif false { return 2; } else { return 3; }
	one := &ast.IntegerLiteralExpression{Value: "1"}
	one.Resolved = types.TInt
	two := &ast.IntegerLiteralExpression{Value: "2"}
	two.Resolved = types.TInt
	three := &ast.IntegerLiteralExpression{Value: "3"}
	three.Resolved = types.TInt

	ifStmt := &ast.IfStatement{
		Clauses: []ast.IfClause{
			{Condition: boolLit(true), Body: &ast.Block{Statements: []ast.Stmt{&ast.ReturnStatement{Value: one}}}},
			{Condition: boolLit(false), Body: &ast.Block{Statements: []ast.Stmt{&ast.ReturnStatement{Value: two}}}},
		},
		ElseBlock: &ast.Block{Statements: []ast.Stmt{&ast.ReturnStatement{Value: three}}},
	}
	decl := &ast.FunctionDeclaration{
		Name:               "f",
		ResolvedReturnType: types.TInt,
		Body:               &ast.Block{Statements: []ast.Stmt{ifStmt}},
	}

	l := NewFunctionLowerer(&diag.Collector{})
	fn := l.Lower(decl, nil, "")

	for _, b := range fn.Blocks {
		if b.Terminator == nil {
			t.Fatalf("block %q was left unterminated", b.Name)
		}
	}
	// Every clause returns, so the merge block is unreachable dead code
	// with no predecessors jumping into it, but it must still exist and
	// be well-formed (closed by the epilogue).
	var mergeCount int
	for _, b := range fn.Blocks {
		if b.Name == "merge" {
			mergeCount++
		}
	}
	if mergeCount != 1 {
		t.Fatalf("expected exactly one merge block, got %d", mergeCount)
	}
}
