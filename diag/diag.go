// Package diag defines the diagnostic sink the function lowerer writes
// to (spec §6.3) and a default append-only collecting implementation.
package diag

import (
	"fmt"
	"sync"

	"github.com/nirlang/nirc/ast"
	"github.com/nirlang/nirc/types"
	"golang.org/x/xerrors"
)

// Kind discriminates the four diagnostic events the lowering core can
// emit (spec §6.3). The core never emits any other kind.
type Kind int

const (
	CannotComputeAddress Kind = iota
	CannotStore
	DereferenceNonPointer
	AddressOfNonLValue
)

func (k Kind) String() string {
	switch k {
	case CannotComputeAddress:
		return "nirCannotComputeAddress"
	case CannotStore:
		return "nirCannotStore"
	case DereferenceNonPointer:
		return "nirDereferenceNonPointer"
	case AddressOfNonLValue:
		return "nirAddressOfNonLValue"
	default:
		return "nirUnknownDiagnostic"
	}
}

// Diagnostic is one recorded event.
type Diagnostic struct {
	Kind  Kind
	Range ast.Range
	Type  *types.Type
}

func (d Diagnostic) Error() string {
	return xerrors.Errorf("%s: %s at %s:%d:%d: %w", d.Kind, d.Type, d.Range.File, d.Range.StartLine, d.Range.StartColumn, errSentinel(d.Kind)).Error()
}

// errSentinel gives each Kind a distinct wrapped sentinel so callers
// can errors.Is against a specific diagnostic kind if they need to.
func errSentinel(k Kind) error {
	switch k {
	case CannotComputeAddress:
		return ErrCannotComputeAddress
	case CannotStore:
		return ErrCannotStore
	case DereferenceNonPointer:
		return ErrDereferenceNonPointer
	case AddressOfNonLValue:
		return ErrAddressOfNonLValue
	default:
		return xerrors.New("nir: unknown diagnostic kind")
	}
}

var (
	ErrCannotComputeAddress  = xerrors.New("cannot compute address")
	ErrCannotStore           = xerrors.New("cannot store to target")
	ErrDereferenceNonPointer = xerrors.New("dereference of non-pointer value")
	ErrAddressOfNonLValue    = xerrors.New("address-of applied to a non-lvalue")
)

// Sink is the minimum diagnostic interface the function lowerer
// requires (spec §6.3). Implementations must tolerate concurrent
// append-only use (spec §5), since a driver may choose to parallelize
// per-function lowering even though the reference driver is
// sequential.
type Sink interface {
	NirCannotComputeAddress(r ast.Range, t *types.Type)
	NirCannotStore(r ast.Range, t *types.Type)
	NirDereferenceNonPointer(r ast.Range, t *types.Type)
	NirAddressOfNonLValue(r ast.Range, t *types.Type)
}

// Collector is the reference Sink: an append-only, mutex-protected
// slice of Diagnostics.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

var _ Sink = (*Collector)(nil)

func (c *Collector) record(k Kind, r ast.Range, t *types.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, Diagnostic{Kind: k, Range: r, Type: t})
}

func (c *Collector) NirCannotComputeAddress(r ast.Range, t *types.Type) {
	c.record(CannotComputeAddress, r, t)
}

func (c *Collector) NirCannotStore(r ast.Range, t *types.Type) {
	c.record(CannotStore, r, t)
}

func (c *Collector) NirDereferenceNonPointer(r ast.Range, t *types.Type) {
	c.record(DereferenceNonPointer, r, t)
}

func (c *Collector) NirAddressOfNonLValue(r ast.Range, t *types.Type) {
	c.record(AddressOfNonLValue, r, t)
}

// Diagnostics returns a snapshot of everything recorded so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Empty reports whether nothing has been recorded.
func (c *Collector) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics) == 0
}

// String renders all recorded diagnostics, one per line, for CLI
// and test output.
func (c *Collector) String() string {
	ds := c.Diagnostics()
	s := ""
	for _, d := range ds {
		s += fmt.Sprintln(d.Error())
	}
	return s
}
