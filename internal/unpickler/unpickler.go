// Package unpickler implements the tree/symbol unpickler orchestrator of
// spec.md §4.6: top-level indexing, symbol creation, per-symbol completion
// (run eagerly, as each symbol is created, not deferred until use), the
// type grammar reader, the minimal tree/term reader, and modifier
// reading. It is structured the way internal/types2/check.go structures a
// two-phase collect-then-check pass, split the same way across files
// (check.go/decl.go/resolver.go/typexpr.go there, index.go/create.go/
// complete.go/template.go/typereader.go/treereader.go/modifiers.go here).
package unpickler

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
	"github.com/tastyread/tasty/internal/tastyerr"
)

// Env is everything the unpickler consumes from outside itself: the host
// capabilities (spec.md §6) plus the name table and byte buffer the
// enclosing framer hands over.
type Env struct {
	Symbols hostapi.SymbolFactory
	Types   hostapi.TypeFactory
	Scopes  hostapi.ScopeOps
	Mirror  hostapi.Mirror
	Phases  hostapi.PhaseControl
	Escaper hostapi.NameEscaper
	Report  hostapi.Reporter

	Names *names.Table

	// NoAnnotations mirrors spec.md §6's "no-annotations" configuration
	// option: drop every annotation thunk at modifier-read time.
	NoAnnotations bool
	// DebugTasty mirrors spec.md §6's "debug-tasty" option: when set, echo
	// messages go through Report.Echo. The only decision echoed is the
	// scheduling of value-class extension-method synthesis; symbol
	// creation and completion are not echoed.
	DebugTasty bool
}

// TreeUnpickler is one unpickling run over one ASTs section (spec.md §2
// item 6, §4.6.1). It owns all the per-run mutable state spec.md §3
// describes as living "as long as the unpickler instance".
type TreeUnpickler struct {
	env *Env
	cur *tastybits.Cursor
	end tastybits.Addr // length of the ASTs section

	root *symtab.OwnerTree
	syms *symtab.SymAtAddr
	guard *symtab.CycleGuard
	typeAtAddr *symtab.TypeAtAddr

	classRoot, moduleRoot hostapi.Symbol
	rootClassTaken, rootModuleTaken bool

	// typeParamsOf records, per class, the ordered TYPEPARAM symbols
	// indexClassBody found in its body — completeTemplate needs these to
	// decide whether to wrap a ClassInfoType in a PolyType (spec.md §4.6.5
	// step 6).
	typeParamsOf map[hostapi.Symbol][]hostapi.Symbol
}

// New builds a TreeUnpickler over buf, ready to Unpickle once.
func New(env *Env, buf []byte) *TreeUnpickler {
	return &TreeUnpickler{
		env:        env,
		cur:        tastybits.NewCursor(buf),
		end:        tastybits.Addr(len(buf)),
		syms:         symtab.NewSymAtAddr(),
		guard:        symtab.NewCycleGuard(),
		typeAtAddr:   symtab.NewTypeAtAddr(),
		typeParamsOf: make(map[hostapi.Symbol][]hostapi.Symbol),
	}
}

// echo routes a debug-tasty decision through the reporter at
// "position-less echo level" (spec.md §6), a no-op unless DebugTasty is
// set.
func (u *TreeUnpickler) echo(msg string) {
	if u.env.DebugTasty && u.env.Report != nil {
		u.env.Report.Echo(msg)
	}
}

// wireErr wraps a cursor-level error (e.g. from ExpectEnd) into a
// tastyerr.TypeError at the call site, per the import-direction decision
// recorded in SPEC_FULL.md §4.1: tastybits never imports tastyerr.
func (u *TreeUnpickler) wireErr(where tastyerr.Location, err error) error {
	if err == nil {
		return nil
	}
	return tastyerr.WrapTypeError(where, err)
}

func (u *TreeUnpickler) locationAt(addr tastybits.Addr, ctx *symtab.Context) tastyerr.Location {
	owners := ctx.OwnerChain(func(s hostapi.Symbol) string {
		return symbolLabel(s)
	})
	return tastyerr.Location{Owners: owners, Addr: addr}
}

func symbolLabel(s hostapi.Symbol) string {
	if s == nil {
		return "<none>"
	}
	if named, ok := s.(interface{ Name() names.Name }); ok {
		return names.Source(named.Name())
	}
	return "<symbol>"
}

// Unpickle runs the whole orchestration of spec.md §4.6.1: given
// (classRoot, moduleRoot), build the top owner tree and, if the stream
// starts with IMPORT|PACKAGE, invoke the indexing pass.
func (u *TreeUnpickler) Unpickle(classRoot, moduleRoot hostapi.Symbol) error {
	u.classRoot, u.moduleRoot = classRoot, moduleRoot
	roots := []hostapi.Symbol{classRoot, moduleRoot}

	u.root = u.buildOwnerTree(0, u.end)

	u.cur.Goto(0)
	if u.cur.AtEnd(u.end) {
		return nil
	}
	first := u.peekTag()
	if first == tastybits.IMPORT || first == tastybits.PACKAGE {
		ctx := symtab.InitialContext(classRoot, "")
		return u.indexStats(0, u.end, classRoot, roots, ctx)
	}
	return nil
}

func (u *TreeUnpickler) peekTag() tastybits.Tag {
	return tastybits.Tag(u.cur.NextByte())
}
