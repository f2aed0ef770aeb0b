package lower

import (
	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/diag"
	"github.com/nirlang/nirc/internal/logging"
	"github.com/nirlang/nirc/nir"
	"github.com/nirlang/nirc/types"
	"go.uber.org/zap"
)

// Driver is the top-level driver described in spec §4.4: it iterates a
// list of declarations and lowers each non-extern function or struct
// method with its own FunctionLowerer.
type Driver struct {
	Sink diag.Sink
	Log  *zap.SugaredLogger
}

// NewDriver returns a Driver that reports diagnostics to sink and logs
// nothing. Set the Log field to something built by internal/logging to
// observe lowering progress.
func NewDriver(sink diag.Sink) *Driver {
	return &Driver{Sink: sink, Log: logging.Noop()}
}

// Run lowers every function and struct method in decls, in encounter
// order, and returns the collected NIR functions.
//
// Each declaration gets its own FunctionLowerer instance; per spec §5
// these are independent and could run in parallel without
// interference (they touch no shared mutable state besides the
// diagnostic sink), though this reference driver runs them
// sequentially.
func (d *Driver) Run(decls []ast.Decl) []*nir.Function {
	var out []*nir.Function
	for _, decl := range decls {
		switch decl := decl.(type) {
		case *ast.FunctionDeclaration:
			if decl.IsExtern {
				continue
			}
			l := NewFunctionLowerer(d.Sink)
			fn := l.Lower(decl, nil, "")
			d.Log.Debugw("lowered function", "name", fn.Name, "blocks", len(fn.Blocks))
			out = append(out, fn)

		case *ast.StructDeclaration:
			structType := structDeclType(decl)
			for _, m := range decl.Methods {
				if m.IsExtern {
					continue
				}
				l := NewFunctionLowerer(d.Sink)
				fn := l.Lower(m, structType, structType.Name+"_"+m.Name)
				d.Log.Debugw("lowered method", "name", fn.Name, "blocks", len(fn.Blocks))
				out = append(out, fn)
			}

		case *ast.ExternDeclaration:
			// produces no NIR

		default:
			panic("lower: unhandled declaration type")
		}
	}
	d.Log.Infow("lowering complete", "functions", len(out))
	return out
}

// structDeclType builds the StructType for decl, per spec §4.4: fields
// in declaration order using resolved field types (or Unknown), and
// one FunctionType per method.
func structDeclType(decl *ast.StructDeclaration) *types.Type {
	fields := make([]types.Field, len(decl.Fields))
	for i, f := range decl.Fields {
		fields[i] = types.Field{Name: f.Name, Type: orUnknown(f.ResolvedType)}
	}
	methods := make(map[string]*types.Type, len(decl.Methods))
	st := types.NewStruct(decl.Name, fields, methods)
	for _, m := range decl.Methods {
		params := make([]*types.Type, len(m.Parameters))
		for i, p := range m.Parameters {
			params[i] = orUnknown(p.ResolvedType)
		}
		ret := m.ResolvedReturnType
		if ret == nil {
			ret = types.TVoid
		}
		methods[m.Name] = types.NewFunction(params, ret, false)
	}
	return st
}
