// Package lower implements the function lowerer: the component that
// walks one function's typed AST and produces NIR instructions and
// terminators in SSA form (spec §4.3), plus the top-level driver that
// instantiates a lowerer per declaration (spec §4.4).
package lower

import (
	"strconv"

	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/diag"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
)

// FunctionLowerer owns the per-function state described in spec §3.3:
// the variable map, the block currently being appended to, and (for
// methods) the self parameter and its struct type.
type FunctionLowerer struct {
	sink diag.Sink

	fn    *nir.Function
	vars  map[string]nir.Value
	current *nir.BasicBlock

	selfParam      nir.Value // the entry block's BlockParameter, for methods
	selfStructType *types.Type
}

// NewFunctionLowerer returns a lowerer that reports diagnostics to sink.
func NewFunctionLowerer(sink diag.Sink) *FunctionLowerer {
	return &FunctionLowerer{sink: sink, vars: make(map[string]nir.Value)}
}

// Lower lowers decl into an NIRFunction. methodOwner is non-nil when
// decl is a struct method; nameOverride replaces decl.Name when set
// (used by the driver for "<Struct>_<method>" mangling, spec §4.4).
//
// decl.Body may be nil, in which case only the prologue and the
// synthesized epilogue Return are produced. Extern declarations
// produce no NIR and are filtered by the driver before reaching the
// lowerer.
func (l *FunctionLowerer) Lower(decl *ast.FunctionDeclaration, methodOwner *types.Type, nameOverride string) *nir.Function {
	l.prologue(decl, methodOwner, nameOverride)
	if decl.Body != nil {
		l.lowerBlock(decl.Body)
	}
	l.epilogue()
	return l.fn
}

// prologue implements spec §4.3.1.
func (l *FunctionLowerer) prologue(decl *ast.FunctionDeclaration, methodOwner *types.Type, nameOverride string) {
	var paramTypes []*types.Type
	if methodOwner != nil {
		paramTypes = append(paramTypes, types.NewPointer(methodOwner))
	}
	for _, p := range decl.Parameters {
		paramTypes = append(paramTypes, orUnknown(p.ResolvedType))
	}

	name := decl.Name
	if nameOverride != "" {
		name = nameOverride
	}
	returnType := decl.ResolvedReturnType
	if returnType == nil {
		returnType = types.TVoid
	}

	l.fn = nir.NewFunction(name, paramTypes, returnType)
	entry := l.fn.Entry()
	l.current = entry

	paramIndex := 0
	if methodOwner != nil {
		l.selfParam = entry.Params[0]
		l.selfStructType = methodOwner
		l.vars["self"] = l.selfParam
		paramIndex = 1
	}

	// Spill every non-self parameter unconditionally (§4.3.1 step 4):
	// this gives every local a uniform lvalue representation so that
	// assignment, address-of, and re-reads after modification all work
	// without a later mem2reg pass.
	for _, p := range decl.Parameters {
		t := orUnknown(p.ResolvedType)
		alloc := l.fn.Alloca(entry, t, p.Name)
		l.fn.Store(entry, alloc, entry.Params[paramIndex])
		l.vars[p.Name] = alloc
		paramIndex++
	}
}

// epilogue implements spec §4.3.8: a function whose body does not
// explicitly terminate every path gets a synthesized Return so the
// produced IR is always well-formed.
func (l *FunctionLowerer) epilogue() {
	if l.current == nil {
		return
	}
	if l.fn.ReturnType == types.TVoid {
		l.fn.SetReturn(l.current, nil)
		return
	}
	l.fn.SetReturn(l.current, l.defaultValue(l.fn.ReturnType))
}

// defaultValue implements spec §4.3.8's default_value: 0 for integer
// types, false for Bool, and 0 (as a same-typed zero constant) for
// anything else. This is a deliberately narrow rule taken verbatim
// from the spec rather than "improved" into a Zero-initializer over
// every NIR type, since synthesized unreachable returns are never
// actually observed by a well-typed caller (spec §4.3.8 rationale).
func (l *FunctionLowerer) defaultValue(t *types.Type) nir.Value {
	switch t.Kind {
	case types.Bool:
		return nir.NewBoolConstant(t, false)
	default:
		return nir.NewIntConstant(t, 0)
	}
}

// lowerBlock lowers a statement list in order, stopping once the
// current block has been terminated (e.g. by a return): anything
// following a terminator in the same block is unreachable and is not
// lowered, matching the "no instructions after a terminator" invariant
// of the NIR model (spec §3.2).
func (l *FunctionLowerer) lowerBlock(b *ast.Block) {
	for _, stmt := range b.Statements {
		if l.current == nil {
			return
		}
		l.lowerStmt(stmt)
	}
}

// errorValue returns the placeholder value substituted for a
// structurally recoverable error (spec §7): Undef typed at t, or at
// Unknown if t itself is unresolved.
func (l *FunctionLowerer) errorValue(t *types.Type) nir.Value {
	return nir.NewUndef(orUnknown(t))
}

func orUnknown(t *types.Type) *types.Type {
	if t == nil {
		return types.NewUnknown()
	}
	return t
}

// parseIntLiteral implements spec §4.3.3/§9: an unparseable integer
// literal lowers to 0 without a diagnostic. Reimplementers are told
// this should really be a type-checker diagnostic, but the lowerer
// itself assumes well-formed integer text and silently falls back.
func parseIntLiteral(text string) int64 {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
