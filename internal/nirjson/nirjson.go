// Package nirjson decodes a JSON-encoded AST document into the ast
// package's node contract (SPEC_FULL.md §A.2). It stands in for the
// lexer, parser, and type checker that spec.md places out of scope
// (§1): cmd/nirc has no way to produce an *ast.File other than
// decoding one that was already typechecked elsewhere.
package nirjson

import (
	"encoding/json"
	"io"

	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/types"
	"golang.org/x/xerrors"
)

// rawType is the wire form of a resolved type: an object whose kind
// selects a primitive or struct (named by name), a fresh Unknown
// ("unknown"), or a composite pointer/function form.
type rawType struct {
	Kind    string     `json:"kind"` // "primitive", "pointer", "function", "struct", "unknown"
	Name    string     `json:"name,omitempty"`
	Pointee *rawType   `json:"pointee,omitempty"`
	Params  []*rawType `json:"params,omitempty"`
	Result  *rawType   `json:"result,omitempty"`
	Variadic bool      `json:"variadic,omitempty"`
}

// typeInterner re-interns struct types by name across one decode, so
// that two references to the same struct name become the same *Type
// (spec §3.1's nominal-equality invariant depends on call sites being
// free to compare structs by identity-of-name, not just SameType).
type typeInterner struct {
	structs map[string]*types.Type
}

func newTypeInterner() *typeInterner {
	return &typeInterner{structs: make(map[string]*types.Type)}
}

func (in *typeInterner) resolve(r *rawType) (*types.Type, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Kind {
	case "unknown":
		return types.NewUnknown(), nil
	case "primitive":
		t, ok := types.Primitive(r.Name)
		if !ok {
			switch r.Name {
			case "Void":
				return types.TVoid, nil
			case "CVarArgs":
				return types.TCVarArgs, nil
			}
			return nil, xerrors.Errorf("nirjson: unknown primitive type %q", r.Name)
		}
		return t, nil
	case "pointer":
		pointee, err := in.resolve(r.Pointee)
		if err != nil {
			return nil, xerrors.Errorf("nirjson: decoding pointer pointee: %w", err)
		}
		return types.NewPointer(pointee), nil
	case "function":
		params := make([]*types.Type, len(r.Params))
		for i, p := range r.Params {
			pt, err := in.resolve(p)
			if err != nil {
				return nil, xerrors.Errorf("nirjson: decoding function param %d: %w", i, err)
			}
			params[i] = pt
		}
		result, err := in.resolve(r.Result)
		if err != nil {
			return nil, xerrors.Errorf("nirjson: decoding function result: %w", err)
		}
		return types.NewFunction(params, result, r.Variadic), nil
	case "struct":
		if existing, ok := in.structs[r.Name]; ok {
			return existing, nil
		}
		// A forward reference to a struct declared later in the same
		// document: register an empty shell now, fields are filled in
		// when the declaration itself is decoded.
		st := types.NewStruct(r.Name, nil, nil)
		in.structs[r.Name] = st
		return st, nil
	default:
		return nil, xerrors.Errorf("nirjson: unknown type kind %q", r.Kind)
	}
}

// rawRange mirrors ast.Range.
type rawRange struct {
	File        string `json:"file"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
}

func (r rawRange) toAST() ast.Range {
	return ast.Range{
		File: r.File, StartLine: r.StartLine, StartColumn: r.StartColumn,
		EndLine: r.EndLine, EndColumn: r.EndColumn,
	}
}

type rawParameter struct {
	Name         string   `json:"name"`
	ResolvedType *rawType `json:"resolved_type,omitempty"`
	Range        rawRange `json:"range"`
}

type rawFile struct {
	Declarations []rawDecl `json:"declarations"`
}

type rawDecl struct {
	Kind               string          `json:"kind"` // "function", "extern", "struct"
	Name               string          `json:"name"`
	Parameters         []rawParameter  `json:"parameters,omitempty"`
	Body               *rawBlock       `json:"body,omitempty"`
	IsExtern           bool            `json:"is_extern,omitempty"`
	ResolvedReturnType *rawType        `json:"resolved_return_type,omitempty"`
	Fields             []rawParameter  `json:"fields,omitempty"`
	Methods            []rawDecl       `json:"methods,omitempty"`
	Range              rawRange        `json:"range"`
}

type rawBlock struct {
	Statements []rawStmt `json:"statements"`
	Range      rawRange  `json:"range"`
}

type rawStmt struct {
	Kind         string         `json:"kind"`
	Name         string         `json:"name,omitempty"`
	ResolvedType *rawType       `json:"resolved_type,omitempty"`
	Value        *rawExpr       `json:"value,omitempty"`
	BaseName     string         `json:"base_name,omitempty"`
	MemberPath   []string       `json:"member_path,omitempty"`
	Target       *rawExpr       `json:"target,omitempty"`
	Expression   *rawExpr       `json:"expression,omitempty"`
	Statements   []rawStmt      `json:"statements,omitempty"`
	Clauses      []rawIfClause  `json:"clauses,omitempty"`
	ElseBlock    *rawBlock      `json:"else_block,omitempty"`
	Range        rawRange       `json:"range"`
}

type rawIfClause struct {
	Condition rawExpr  `json:"condition"`
	Body      rawBlock `json:"body"`
}

type rawCallArgument struct {
	Value rawExpr `json:"value"`
}

type rawExpr struct {
	Kind         string            `json:"kind"`
	Resolved     *rawType          `json:"resolved_type,omitempty"`
	Range        rawRange          `json:"range"`
	Value        string            `json:"value,omitempty"`
	BoolValue    bool              `json:"bool_value,omitempty"`
	Name         string            `json:"name,omitempty"`
	Op           string            `json:"op,omitempty"`
	Operand      *rawExpr          `json:"operand,omitempty"`
	Left         *rawExpr          `json:"left,omitempty"`
	Right        *rawExpr          `json:"right,omitempty"`
	Function     *rawExpr          `json:"function,omitempty"`
	Arguments    []rawCallArgument `json:"arguments,omitempty"`
	Expression   *rawExpr          `json:"expression,omitempty"`
	Base         *rawExpr          `json:"base,omitempty"`
	Member       string            `json:"member,omitempty"`
}

// DecodeFile decodes a JSON AST document from r into an *ast.File.
func DecodeFile(r io.Reader) (*ast.File, error) {
	var raw rawFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, xerrors.Errorf("nirjson: decoding document: %w", err)
	}
	in := newTypeInterner()
	decls := make([]ast.Decl, 0, len(raw.Declarations))
	for i, d := range raw.Declarations {
		decl, err := in.decodeDecl(d)
		if err != nil {
			return nil, xerrors.Errorf("nirjson: decoding declaration %d: %w", i, err)
		}
		decls = append(decls, decl)
	}
	return &ast.File{Declarations: decls}, nil
}

func (in *typeInterner) decodeDecl(d rawDecl) (ast.Decl, error) {
	switch d.Kind {
	case "extern":
		return &ast.ExternDeclaration{Name: d.Name, Range: d.Range.toAST()}, nil

	case "function":
		return in.decodeFunction(d)

	case "struct":
		fields := make([]ast.Parameter, len(d.Fields))
		fieldDefs := make([]types.Field, len(d.Fields))
		for i, f := range d.Fields {
			t, err := in.resolve(f.ResolvedType)
			if err != nil {
				return nil, xerrors.Errorf("field %q: %w", f.Name, err)
			}
			fields[i] = ast.Parameter{Name: f.Name, ResolvedType: t, Range: f.Range.toAST()}
			fieldDefs[i] = types.Field{Name: f.Name, Type: t}
		}
		// Fill in (or create) the interned struct shell with its fields
		// now that they are known, so later references resolve fully.
		st, ok := in.structs[d.Name]
		if ok {
			st.Fields = fieldDefs
		} else {
			st = types.NewStruct(d.Name, fieldDefs, nil)
			in.structs[d.Name] = st
		}

		methods := make([]*ast.FunctionDeclaration, len(d.Methods))
		for i, m := range d.Methods {
			fn, err := in.decodeFunction(m)
			if err != nil {
				return nil, xerrors.Errorf("method %q: %w", m.Name, err)
			}
			methods[i] = fn
			if fn.ResolvedReturnType == nil {
				st.Methods[m.Name] = types.NewFunction(paramTypes(fn.Parameters), types.TVoid, false)
			} else {
				st.Methods[m.Name] = types.NewFunction(paramTypes(fn.Parameters), fn.ResolvedReturnType, false)
			}
		}
		return &ast.StructDeclaration{Name: d.Name, Fields: fields, Methods: methods, Range: d.Range.toAST()}, nil

	default:
		return nil, xerrors.Errorf("nirjson: unknown declaration kind %q", d.Kind)
	}
}

func paramTypes(params []ast.Parameter) []*types.Type {
	out := make([]*types.Type, len(params))
	for i, p := range params {
		out[i] = p.ResolvedType
	}
	return out
}

func (in *typeInterner) decodeFunction(d rawDecl) (*ast.FunctionDeclaration, error) {
	params := make([]ast.Parameter, len(d.Parameters))
	for i, p := range d.Parameters {
		t, err := in.resolve(p.ResolvedType)
		if err != nil {
			return nil, xerrors.Errorf("parameter %q: %w", p.Name, err)
		}
		params[i] = ast.Parameter{Name: p.Name, ResolvedType: t, Range: p.Range.toAST()}
	}
	ret, err := in.resolve(d.ResolvedReturnType)
	if err != nil {
		return nil, xerrors.Errorf("return type: %w", err)
	}
	var body *ast.Block
	if d.Body != nil {
		body, err = in.decodeBlock(*d.Body)
		if err != nil {
			return nil, err
		}
	}
	return &ast.FunctionDeclaration{
		Name: d.Name, Parameters: params, Body: body, IsExtern: d.IsExtern,
		ResolvedReturnType: ret, Range: d.Range.toAST(),
	}, nil
}

func (in *typeInterner) decodeBlock(b rawBlock) (*ast.Block, error) {
	stmts := make([]ast.Stmt, len(b.Statements))
	for i, s := range b.Statements {
		st, err := in.decodeStmt(s)
		if err != nil {
			return nil, xerrors.Errorf("statement %d: %w", i, err)
		}
		stmts[i] = st
	}
	return &ast.Block{Statements: stmts, Range: b.Range.toAST()}, nil
}

func (in *typeInterner) decodeStmt(s rawStmt) (ast.Stmt, error) {
	switch s.Kind {
	case "var_binding":
		t, err := in.resolve(s.ResolvedType)
		if err != nil {
			return nil, err
		}
		val, err := in.decodeOptExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.VarBinding{Name: s.Name, ResolvedType: t, Value: val, Range: s.Range.toAST()}, nil

	case "assign":
		val, err := in.decodeExpr(*s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStatement{Name: s.Name, Value: val, Range: s.Range.toAST()}, nil

	case "member_assign":
		val, err := in.decodeExpr(*s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.MemberAssignStatement{BaseName: s.BaseName, MemberPath: s.MemberPath, Value: val, Range: s.Range.toAST()}, nil

	case "lvalue_assign":
		target, err := in.decodeExpr(*s.Target)
		if err != nil {
			return nil, err
		}
		val, err := in.decodeExpr(*s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.LValueAssignStatement{Target: target, Value: val, Range: s.Range.toAST()}, nil

	case "return":
		val, err := in.decodeOptExpr(s.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Value: val, Range: s.Range.toAST()}, nil

	case "expression":
		expr, err := in.decodeExpr(*s.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Expression: expr, Range: s.Range.toAST()}, nil

	case "block":
		inner := rawBlock{Statements: s.Statements, Range: s.Range}
		return in.decodeBlock(inner)

	case "if":
		clauses := make([]ast.IfClause, len(s.Clauses))
		for i, c := range s.Clauses {
			cond, err := in.decodeExpr(c.Condition)
			if err != nil {
				return nil, err
			}
			body, err := in.decodeBlock(c.Body)
			if err != nil {
				return nil, err
			}
			clauses[i] = ast.IfClause{Condition: cond, Body: body}
		}
		var elseBlock *ast.Block
		if s.ElseBlock != nil {
			b, err := in.decodeBlock(*s.ElseBlock)
			if err != nil {
				return nil, err
			}
			elseBlock = b
		}
		return &ast.IfStatement{Clauses: clauses, ElseBlock: elseBlock, Range: s.Range.toAST()}, nil

	default:
		return nil, xerrors.Errorf("nirjson: unknown statement kind %q", s.Kind)
	}
}

func (in *typeInterner) decodeOptExpr(e *rawExpr) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	return in.decodeExpr(*e)
}

func (in *typeInterner) decodeExpr(e rawExpr) (ast.Expr, error) {
	t, err := in.resolve(e.Resolved)
	if err != nil {
		return nil, err
	}
	rng := e.Range.toAST()

	switch e.Kind {
	case "integer_literal":
		return ast.NewIntegerLiteral(t, rng, e.Value), nil
	case "string_literal":
		return ast.NewStringLiteral(t, rng, e.Value), nil
	case "boolean_literal":
		return ast.NewBooleanLiteral(t, rng, e.BoolValue), nil
	case "identifier":
		return ast.NewIdentifier(t, rng, e.Name), nil
	case "unary":
		operand, err := in.decodeExpr(*e.Operand)
		if err != nil {
			return nil, err
		}
		op, err := decodeUnaryOp(e.Op)
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(t, rng, op, operand), nil
	case "binary":
		left, err := in.decodeExpr(*e.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.decodeExpr(*e.Right)
		if err != nil {
			return nil, err
		}
		op, err := decodeBinaryOp(e.Op)
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(t, rng, op, left, right), nil
	case "call":
		fn, err := in.decodeExpr(*e.Function)
		if err != nil {
			return nil, err
		}
		args := make([]ast.CallArgument, len(e.Arguments))
		for i, a := range e.Arguments {
			v, err := in.decodeExpr(a.Value)
			if err != nil {
				return nil, err
			}
			args[i] = ast.CallArgument{Value: v}
		}
		return ast.NewCall(t, rng, fn, args), nil
	case "cast":
		inner, err := in.decodeExpr(*e.Expression)
		if err != nil {
			return nil, err
		}
		return ast.NewCast(t, rng, inner), nil
	case "member_access":
		base, err := in.decodeExpr(*e.Base)
		if err != nil {
			return nil, err
		}
		return ast.NewMemberAccess(t, rng, base, e.Member), nil
	default:
		return nil, xerrors.Errorf("nirjson: unknown expression kind %q", e.Kind)
	}
}

func decodeUnaryOp(op string) (ast.UnaryOperator, error) {
	switch op {
	case "negate":
		return ast.OpNegate, nil
	case "not":
		return ast.OpLogicalNot, nil
	case "deref":
		return ast.OpDereference, nil
	case "address_of":
		return ast.OpAddressOf, nil
	default:
		return 0, xerrors.Errorf("nirjson: unknown unary operator %q", op)
	}
}

func decodeBinaryOp(op string) (ast.BinaryOperator, error) {
	switch op {
	case "add":
		return ast.OpAdd, nil
	case "sub":
		return ast.OpSub, nil
	case "mul":
		return ast.OpMul, nil
	case "div":
		return ast.OpDiv, nil
	case "mod":
		return ast.OpMod, nil
	case "eq":
		return ast.OpEq, nil
	case "ne":
		return ast.OpNe, nil
	case "lt":
		return ast.OpLt, nil
	case "le":
		return ast.OpLe, nil
	case "gt":
		return ast.OpGt, nil
	case "ge":
		return ast.OpGe, nil
	case "and":
		return ast.OpLogicalAnd, nil
	case "or":
		return ast.OpLogicalOr, nil
	default:
		return 0, xerrors.Errorf("nirjson: unknown binary operator %q", op)
	}
}
