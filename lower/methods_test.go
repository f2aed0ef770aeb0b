package lower

import (
	"testing"

	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/diag"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

func pointType() *types.Type {
	return types.NewStruct("Point", []types.Field{
		{Name: "x", Type: types.TInt},
		{Name: "y", Type: types.TInt},
	}, nil)
}

// TestMethodMangling exercises spec scenario S4: a struct method lowers
// to "<Struct>_<method>" with an implicit pointer-to-struct self
// parameter prepended, and self is never spilled.
func TestMethodMangling(t *testing.T) {
	st := pointType()
	xArg := &ast.IntegerLiteralExpression{Value: "1"}
	xArg.Resolved = types.TInt

	decl := &ast.FunctionDeclaration{
		Name: "move",
		Parameters: []ast.Parameter{
			{Name: "dx", ResolvedType: types.TInt},
		},
		Body: &ast.Block{},
	}

	l := NewFunctionLowerer(&diag.Collector{})
	fn := l.Lower(decl, st, st.Name+"_"+decl.Name)

	if fn.Name != "Point_move" {
		t.Fatalf("expected mangled name Point_move, got %s", fn.Name)
	}
	if len(fn.ParamTypes) != 2 {
		t.Fatalf("expected self+dx params, got %d", len(fn.ParamTypes))
	}
	if fn.ParamTypes[0].Kind != types.PointerKind || fn.ParamTypes[0].Pointee != st {
		t.Fatal("first parameter should be *Point for self")
	}

	entry := fn.Entry()
	// self must not be spilled: only dx gets an alloca+store pair.
	var allocaCount int
	for _, instr := range entry.Instrs {
		if _, ok := instr.(*nir.Alloca); ok {
			allocaCount++
		}
	}
	if allocaCount != 1 {
		t.Fatalf("expected exactly 1 alloca (for dx only), got %d", allocaCount)
	}
}

// TestMemberWriteThroughSelf exercises spec scenario S5: `self.pos.x = 3`.
func TestMemberWriteThroughSelf(t *testing.T) {
	posType := types.NewStruct("Position", []types.Field{
		{Name: "x", Type: types.TInt},
		{Name: "y", Type: types.TInt},
	}, nil)
	owner := types.NewStruct("Entity", []types.Field{
		{Name: "pos", Type: posType},
	}, nil)

	three := &ast.IntegerLiteralExpression{Value: "3"}
	three.Resolved = types.TInt

	selfExpr := &ast.IdentifierExpression{Name: "self"}
	selfExpr.Resolved = types.NewPointer(owner)
	posAccess := &ast.MemberAccessExpression{Base: selfExpr, Member: "pos"}
	posAccess.Resolved = posType
	target := &ast.MemberAccessExpression{Base: posAccess, Member: "x"}
	target.Resolved = types.TInt

	assign := &ast.LValueAssignStatement{Target: target, Value: three}
	decl := &ast.FunctionDeclaration{
		Name: "setX",
		Body: &ast.Block{Statements: []ast.Stmt{assign}},
	}

	l := NewFunctionLowerer(&diag.Collector{})
	fn := l.Lower(decl, owner, "Entity_setX")

	entry := fn.Entry()
	var fieldAddr *nir.FieldAddress
	var store *nir.Store
	for _, instr := range entry.Instrs {
		switch v := instr.(type) {
		case *nir.FieldAddress:
			fieldAddr = v
		case *nir.Store:
			store = v
		}
	}
	if fieldAddr == nil {
		t.Fatal("expected a FieldAddress instruction for self.pos.x")
	}
	if len(fieldAddr.FieldPath) != 2 || fieldAddr.FieldPath[0] != "pos" || fieldAddr.FieldPath[1] != "x" {
		t.Fatalf("expected field path [pos x], got %v", fieldAddr.FieldPath)
	}
	if store == nil || store.Addr != nir.Value(fieldAddr) {
		t.Fatal("expected the field address to be stored to")
	}
}

// TestAddressOfNonLValueEmitsDiagnostic checks that taking the address
// of a non-lvalue (`&5`) fails with a diagnostic rather than a panic,
// and the lowerer keeps producing well-typed IR.
func TestAddressOfNonLValueEmitsDiagnostic(t *testing.T) {
	lit := &ast.IntegerLiteralExpression{Value: "5"}
	lit.Resolved = types.TInt
	addrOf := &ast.UnaryExpression{Op: ast.OpAddressOf, Operand: lit}
	addrOf.Resolved = types.NewPointer(types.TInt)

	decl := &ast.FunctionDeclaration{
		Name:               "f",
		ResolvedReturnType: addrOf.Resolved,
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.ReturnStatement{Value: addrOf},
		}},
	}

	sink := &diag.Collector{}
	l := NewFunctionLowerer(sink)
	fn := l.Lower(decl, nil, "")

	ds := sink.Diagnostics()
	if len(ds) != 1 || ds[0].Kind != diag.AddressOfNonLValue {
		t.Fatalf("expected one AddressOfNonLValue diagnostic, got %v", ds)
	}
	if fn.Entry().Terminator == nil {
		t.Fatal("function must still terminate after the diagnostic")
	}
}
