package types

import "testing"

func TestSameTypePrimitives(t *testing.T) {
	if !TInt.SameType(TInt) {
		t.Fatal("Int should equal itself")
	}
	if TInt.SameType(TBool) {
		t.Fatal("Int should not equal Bool")
	}
}

func TestSameTypePointer(t *testing.T) {
	a := NewPointer(TInt)
	b := NewPointer(TInt)
	c := NewPointer(TBool)
	if !a.SameType(b) {
		t.Fatal("*Int should equal *Int structurally")
	}
	if a.SameType(c) {
		t.Fatal("*Int should not equal *Bool")
	}
}

func TestSameTypeStructIsNominal(t *testing.T) {
	a := NewStruct("Point", []Field{{"x", TInt}}, nil)
	b := NewStruct("Point", []Field{{"x", TInt}, {"y", TInt}}, nil)
	if !a.SameType(b) {
		t.Fatal("structs with the same name should be equal regardless of fields")
	}
	c := NewStruct("Vector", []Field{{"x", TInt}}, nil)
	if a.SameType(c) {
		t.Fatal("structs with different names should not be equal")
	}
}

func TestUnknownIdentity(t *testing.T) {
	a := NewUnknown()
	b := NewUnknown()
	if a.SameType(b) {
		t.Fatal("two freshly minted Unknowns must compare unequal")
	}
	if !a.SameType(a) {
		t.Fatal("an Unknown must equal itself")
	}
}

func TestImplicitlyConvertible(t *testing.T) {
	if !TInt.ImplicitlyConvertible(TInt) {
		t.Fatal("Int should be implicitly convertible to itself")
	}
	if TInt.ImplicitlyConvertible(TBool) {
		t.Fatal("Int should not be implicitly convertible to Bool")
	}
	u := NewUnknown()
	if u.ImplicitlyConvertible(u) {
		t.Fatal("Unknown should never be implicitly convertible, even to itself")
	}
	pInt := NewPointer(TInt)
	pInt2 := NewPointer(TInt)
	if !pInt.ImplicitlyConvertible(pInt2) {
		t.Fatal("*Int should be implicitly convertible to a structurally identical *Int")
	}
}

func TestIsConcrete(t *testing.T) {
	if !TInt.IsConcrete() {
		t.Fatal("Int must be concrete")
	}
	u := NewUnknown()
	if u.IsConcrete() {
		t.Fatal("Unknown must not be concrete")
	}
	if NewPointer(u).IsConcrete() {
		t.Fatal("a pointer to Unknown must not be concrete")
	}
	s := NewStruct("S", []Field{{"a", u}}, nil)
	if s.IsConcrete() {
		t.Fatal("a struct with an Unknown field must not be concrete")
	}
}

func TestTypeID(t *testing.T) {
	cases := []struct {
		t    *Type
		want string
	}{
		{TInt, "Int"},
		{NewPointer(TInt8), "*Int8"},
		{NewFunction([]*Type{TInt, TBool}, TVoid, false), "(Int, Bool) -> Void"},
		{NewFunction([]*Type{TInt32}, TInt, true), "(Int32...) -> Int"},
		{NewStruct("MyStruct", nil, nil), "MyStruct"},
	}
	for _, c := range cases {
		if got := c.t.TypeID(); got != c.want {
			t.Errorf("TypeID() = %q, want %q", got, c.want)
		}
	}
}

func TestTypeIDUnknownIsInjective(t *testing.T) {
	a, b := NewUnknown(), NewUnknown()
	if a.TypeID() == b.TypeID() {
		t.Fatal("distinct Unknowns must print distinct type ids")
	}
}

func TestPrimitive(t *testing.T) {
	if ty, ok := Primitive("Int32"); !ok || ty != TInt32 {
		t.Fatal("Primitive(\"Int32\") should resolve to TInt32")
	}
	if _, ok := Primitive("Widget"); ok {
		t.Fatal("Primitive(\"Widget\") should not resolve")
	}
}
