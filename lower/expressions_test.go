package lower

import (
	"testing"

	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/diag"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

// TestMethodCallLoweringMangledCalleeAndSelfArg exercises spec scenario
// S4 at a call site (TestMethodMangling, by contrast, only checks the
// mangled function declaration's shape): `p.move(1)` with p a local
// struct variable (a parameter, hence an Alloca, not self) must lower
// to a single Call naming "Point_move" with the base address as
// argument 0 and the literal as argument 1.
func TestMethodCallLoweringMangledCalleeAndSelfArg(t *testing.T) {
	st := pointType()

	one := ast.NewIntegerLiteral(types.TInt, ast.Range{}, "1")
	pRef := ast.NewIdentifier(st, ast.Range{}, "p")
	member := ast.NewMemberAccess(nil, ast.Range{}, pRef, "move")
	call := ast.NewCall(types.TVoid, ast.Range{}, member, []ast.CallArgument{{Value: one}})

	decl := &ast.FunctionDeclaration{
		Name: "f",
		Parameters: []ast.Parameter{
			{Name: "p", ResolvedType: st},
		},
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.ExpressionStatement{Expression: call},
		}},
	}

	sink := &diag.Collector{}
	l := NewFunctionLowerer(sink)
	fn := l.Lower(decl, nil, "")

	if !sink.Empty() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics())
	}

	entry := fn.Entry()
	var alloc *nir.Alloca
	var got *nir.Call
	for _, instr := range entry.Instrs {
		switch v := instr.(type) {
		case *nir.Alloca:
			alloc = v
		case *nir.Call:
			got = v
		}
	}
	if alloc == nil {
		t.Fatal("expected p's parameter spill to produce an alloca")
	}
	if got == nil {
		t.Fatal("expected a Call instruction for p.move(1)")
	}
	if got.Callee != "Point_move" {
		t.Fatalf("expected mangled callee Point_move, got %q", got.Callee)
	}
	if len(got.Args) != 2 {
		t.Fatalf("expected 2 args (self, dx), got %d", len(got.Args))
	}
	if got.Args[0] != nir.Value(alloc) {
		t.Fatal("expected arg 0 to be p's address")
	}
	c, ok := got.Args[1].(*nir.Constant)
	if !ok || c.Literal.Int != 1 {
		t.Fatal("expected arg 1 to be the constant 1")
	}
}

// TestBuiltinCastCallLowersToCast exercises spec testable property #8:
// a one-argument call to a built-in primitive name, where the call's
// own resolved type is that same primitive, is a Cast in disguise, not
// an ordinary Call.
func TestBuiltinCastCallLowersToCast(t *testing.T) {
	x := ast.NewIdentifier(types.TInt, ast.Range{}, "x")
	callee := ast.NewIdentifier(nil, ast.Range{}, "Int32")
	call := ast.NewCall(types.TInt32, ast.Range{}, callee, []ast.CallArgument{{Value: x}})

	decl := &ast.FunctionDeclaration{
		Name: "f",
		Parameters: []ast.Parameter{
			{Name: "x", ResolvedType: types.TInt},
		},
		ResolvedReturnType: types.TInt32,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.ReturnStatement{Value: call},
		}},
	}

	l := NewFunctionLowerer(&diag.Collector{})
	fn := l.Lower(decl, nil, "")

	entry := fn.Entry()
	for _, instr := range entry.Instrs {
		if _, ok := instr.(*nir.Call); ok {
			t.Fatal("Int32(x) must not lower to a Call")
		}
	}
	ret, ok := entry.Terminator.(*nir.Return)
	if !ok {
		t.Fatal("expected a Return terminator")
	}
	cast, ok := ret.Value.(*nir.Cast)
	if !ok {
		t.Fatal("expected the returned value to be a Cast")
	}
	if cast.Type() != types.TInt32 {
		t.Fatal("cast result type should be Int32")
	}
}
