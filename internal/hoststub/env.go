package hoststub

import "github.com/tastyread/tasty/internal/hostapi"

// Env bundles every hostapi capability behind one value, the way
// internal/types2/check.go's Checker carries pkg/scope/errors together —
// except here the bundle is the thing spec.md §9 calls a "HostEnv handle
// passed on the context" rather than a checker's own mutable fields.
type Env struct {
	Symbols hostapi.SymbolFactory
	Types   hostapi.TypeFactory
	Scopes  hostapi.ScopeOps
	Mirror  *stubMirror
	Phases  hostapi.PhaseControl
	Escaper hostapi.NameEscaper
	Report  *stubReporter
}

// New builds a fresh, independent Env — a new symbol table, mirror, and
// reporter, suitable for one unpickling run.
func New() *Env {
	return &Env{
		Symbols: stubSymbolFactory{},
		Types:   stubTypeFactory{},
		Scopes:  stubScopeOps{},
		Mirror:  newStubMirror(),
		Phases:  stubPhaseControl{},
		Escaper: stubEscaper{},
		Report:  &stubReporter{},
	}
}
