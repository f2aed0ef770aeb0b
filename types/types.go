// Package types defines NewLang's polymorphic type model: a closed set
// of type variants with identity, structural/nominal equality, implicit
// convertibility, and concreteness.
//
// The source compiler represented types with an open, existential
// protocol. This package instead uses a closed tagged variant (a
// *Type with a Kind discriminator) so that equality, convertibility
// and printing can all be exhaustive switches rather than dynamic
// dispatch, and so that Unknown's identity is an explicit field rather
// than an implicit heap address.
package types

import "github.com/google/uuid"

// Kind discriminates the variants of Type.
type Kind int

const (
	Int Kind = iota
	Int8
	Int32
	Bool
	Void
	CVarArgs
	PointerKind
	FunctionKind
	StructKind
	UnknownKind
)

// Field is one ordered (name, type) pair of a struct.
type Field struct {
	Name string
	Type *Type
}

// Type is a NewLang type value. Exactly one of its variant-specific
// fields is meaningful, selected by Kind; the zero value of the others
// is ignored.
type Type struct {
	Kind Kind

	// PointerKind
	Pointee *Type

	// FunctionKind
	Params   []*Type
	Result   *Type
	Variadic bool

	// StructKind
	Name    string
	Fields  []Field
	Methods map[string]*Type // each value has Kind == FunctionKind

	// UnknownKind
	id uuid.UUID
}

var (
	TInt      = &Type{Kind: Int}
	TInt8     = &Type{Kind: Int8}
	TInt32    = &Type{Kind: Int32}
	TBool     = &Type{Kind: Bool}
	TVoid     = &Type{Kind: Void}
	TCVarArgs = &Type{Kind: CVarArgs}
)

// NewPointer returns the type "pointer to pointee".
func NewPointer(pointee *Type) *Type {
	return &Type{Kind: PointerKind, Pointee: pointee}
}

// NewFunction returns a function type with the given parameter types,
// return type, and variadic flag.
func NewFunction(params []*Type, result *Type, variadic bool) *Type {
	return &Type{Kind: FunctionKind, Params: params, Result: result, Variadic: variadic}
}

// NewStruct returns a struct type. fields must be in declaration
// order; methods maps method name to its function type.
func NewStruct(name string, fields []Field, methods map[string]*Type) *Type {
	if methods == nil {
		methods = make(map[string]*Type)
	}
	return &Type{Kind: StructKind, Name: name, Fields: fields, Methods: methods}
}

// NewUnknown mints a fresh Unknown type. Its identity comes from a
// process-unique UUID rather than a shared counter, so that two
// function lowerers running concurrently (§5 of the spec permits this)
// never need to coordinate to keep their Unknowns distinct.
func NewUnknown() *Type {
	return &Type{Kind: UnknownKind, id: uuid.New()}
}

// FieldType returns the type of the named field, or nil if the struct
// has no such field. Panics if t is not a struct.
func (t *Type) FieldType(name string) *Type {
	if t.Kind != StructKind {
		panic("types: FieldType on non-struct type " + t.TypeID())
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

// SameType reports structural equality for primitives, pointers, and
// functions; nominal equality (by name only) for structs; and identity
// equality for Unknown.
func (t *Type) SameType(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Int, Int8, Int32, Bool, Void, CVarArgs:
		return true
	case PointerKind:
		return t.Pointee.SameType(other.Pointee)
	case FunctionKind:
		if t.Variadic != other.Variadic || len(t.Params) != len(other.Params) {
			return false
		}
		if !t.Result.SameType(other.Result) {
			return false
		}
		for i, p := range t.Params {
			if !p.SameType(other.Params[i]) {
				return false
			}
		}
		return true
	case StructKind:
		return t.Name == other.Name
	case UnknownKind:
		return t.id == other.id
	default:
		return false
	}
}

// ImplicitlyConvertible reports whether a value of type t may be used
// where a value of type other is expected without an explicit cast.
// Reflexive on primitives; structural (pointee-convertible) on
// pointers; identity on functions and structs; always false for
// Unknown on either side.
func (t *Type) ImplicitlyConvertible(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t.Kind == UnknownKind || other.Kind == UnknownKind {
		return false
	}
	switch t.Kind {
	case Int, Int8, Int32, Bool, Void, CVarArgs:
		return t.Kind == other.Kind
	case PointerKind:
		return other.Kind == PointerKind && t.Pointee.ImplicitlyConvertible(other.Pointee)
	case FunctionKind, StructKind:
		return t.SameType(other)
	default:
		return false
	}
}

// IsConcrete reports whether t contains no Unknown anywhere in its
// structure.
func (t *Type) IsConcrete() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case UnknownKind:
		return false
	case PointerKind:
		return t.Pointee.IsConcrete()
	case FunctionKind:
		if !t.Result.IsConcrete() {
			return false
		}
		for _, p := range t.Params {
			if !p.IsConcrete() {
				return false
			}
		}
		return true
	case StructKind:
		for _, f := range t.Fields {
			if !f.Type.IsConcrete() {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// TypeID returns the canonical string form of t, e.g. "Int", "*Int8",
// "(Int, Bool) -> Void", "(Int32...) -> Int", "MyStruct", "?<uuid>".
func (t *Type) TypeID() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Int:
		return "Int"
	case Int8:
		return "Int8"
	case Int32:
		return "Int32"
	case Bool:
		return "Bool"
	case Void:
		return "Void"
	case CVarArgs:
		return "CVarArgs"
	case PointerKind:
		return "*" + t.Pointee.TypeID()
	case FunctionKind:
		return functionTypeID(t)
	case StructKind:
		return t.Name
	case UnknownKind:
		return "?" + t.id.String()
	default:
		return "<invalid>"
	}
}

func functionTypeID(t *Type) string {
	s := "("
	for i, p := range t.Params {
		if i > 0 {
			s += ", "
		}
		s += p.TypeID()
	}
	if t.Variadic {
		if len(t.Params) > 0 {
			s += "..."
		} else {
			s += "..."
		}
	}
	s += ") -> " + t.Result.TypeID()
	return s
}

// String implements fmt.Stringer in terms of TypeID, matching the
// convention in the teacher corpus where a compiler type's debug
// String() is its canonical printed form.
func (t *Type) String() string { return t.TypeID() }

// Primitive returns the primitive type named by a built-in type
// keyword ("Int", "Int8", "Int32", "Bool"), and whether name names one.
// Used by call lowering to detect `Int32(x)`-shaped casts (§4.3.3).
func Primitive(name string) (*Type, bool) {
	switch name {
	case "Int":
		return TInt, true
	case "Int8":
		return TInt8, true
	case "Int32":
		return TInt32, true
	case "Bool":
		return TBool, true
	default:
		return nil, false
	}
}
