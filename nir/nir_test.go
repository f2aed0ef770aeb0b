package nir

import (
	"testing"

	"github.com/nirlang/nirc/types"
)

func TestNewFunctionEntryParams(t *testing.T) {
	f := NewFunction("id", []*types.Type{types.TInt}, types.TInt)
	entry := f.Entry()
	if entry == nil || entry.Name != "entry" {
		t.Fatal("NewFunction must create an entry block named \"entry\"")
	}
	if len(entry.Params) != 1 {
		t.Fatalf("entry block should have 1 parameter, got %d", len(entry.Params))
	}
	if entry.Params[0].Type() != types.TInt {
		t.Fatal("entry block parameter type mismatch")
	}
}

func TestAllocaLoadStore(t *testing.T) {
	f := NewFunction("f", nil, types.TVoid)
	b := f.Entry()
	a := f.Alloca(b, types.TInt, "x")
	if a.Type().Kind != types.PointerKind || a.Type().Pointee != types.TInt {
		t.Fatal("Alloca(Int) should have type Pointer(Int)")
	}
	f.Store(b, a, NewIntConstant(types.TInt, 3))
	l := f.Load(b, a, types.TInt)
	if l.Type() != types.TInt {
		t.Fatal("Load result type mismatch")
	}
	if len(b.Instrs) != 3 {
		t.Fatalf("expected 3 instructions (alloca, store, load), got %d", len(b.Instrs))
	}
}

func TestBlockClosesOnceThenPanicsOnAppend(t *testing.T) {
	f := NewFunction("f", nil, types.TVoid)
	b := f.Entry()
	f.SetReturn(b, nil)
	if !b.Closed() {
		t.Fatal("block should be closed after SetReturn")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("appending to a closed block should panic")
		}
	}()
	f.Alloca(b, types.TInt, "late")
}

func TestDoubleTerminatorPanics(t *testing.T) {
	f := NewFunction("f", nil, types.TVoid)
	b := f.Entry()
	f.SetReturn(b, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("setting a second terminator should panic")
		}
	}()
	f.SetReturn(b, nil)
}

func TestJumpArityMismatchPanics(t *testing.T) {
	f := NewFunction("f", nil, types.TVoid)
	entry := f.Entry()
	merge, _ := f.CreateBlockWithParams("merge", types.TBool)
	defer func() {
		if recover() == nil {
			t.Fatal("jumping with the wrong argument count should panic")
		}
	}()
	f.SetJump(entry, merge, nil)
}

func TestCreateBlockWithParams(t *testing.T) {
	f := NewFunction("f", nil, types.TVoid)
	b, params := f.CreateBlockWithParams("merge", types.TBool)
	if len(params) != 1 || params[0].Type() != types.TBool {
		t.Fatal("CreateBlockWithParams should mint one BlockParameter per type")
	}
	if b.Index() != 1 {
		t.Fatalf("second created block should have index 1, got %d", b.Index())
	}
}

func TestFunctionPrinting(t *testing.T) {
	f := NewFunction("id", []*types.Type{types.TInt}, types.TInt)
	b := f.Entry()
	a := f.Alloca(b, types.TInt, "x")
	f.Store(b, a, b.Params[0])
	l := f.Load(b, a, types.TInt)
	f.SetReturn(b, l)
	out := f.String()
	if out == "" {
		t.Fatal("String() should not be empty")
	}
}
