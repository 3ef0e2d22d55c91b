// Package hostapi declares the capability set spec.md §6 calls "consumed
// from the host compiler": everything the unpickler needs but never
// implements itself — symbol table, type constructors, scopes, the
// package/class mirror, phase control, and identifier escaping. The core
// never type-switches on a Symbol or Type; it only calls these interfaces.
package hostapi

import (
	"github.com/tastyread/tasty/internal/flagxlat"
	"github.com/tastyread/tasty/internal/names"
)

// FlagSet is an alias so hostapi signatures read naturally without forcing
// every caller to import flagxlat directly for this one type.
type FlagSet = flagxlat.FlagSet

// Symbol is an opaque handle owned by the host symbol table (spec.md §3).
// Its only role here is to flow through the unpickler untouched between a
// SymbolFactory call and a later ScopeOps/Completer use.
type Symbol interface {
	// hostSymbolMarker restricts implementations to a real host adapter.
	hostSymbolMarker()
}

// Type is the host's representation of a resolved type. Like Symbol, the
// unpickler treats it as opaque cargo produced by TypeFactory and consumed
// by SymbolFactory/ScopeOps.
type Type interface {
	hostTypeMarker()
}

// SymbolKind distinguishes the symbol-factory operation to invoke; it does
// not appear on the wire, only in the arguments the unpickler passes.
type SymbolKind int

const (
	KindClass SymbolKind = iota
	KindModuleVal
	KindModuleClass
	KindMethod
	KindConstructor
	KindTypeParam
	KindValueParam
	KindLocalDummy
	KindRefinementClass
	KindExtensionMethod
)

// SymbolFactory creates the symbol shells and completions spec.md §4.6.3
// and §4.6.5 describe. NewSymbol and NewRefinementClass return a fresh,
// uninitialized-info symbol; the unpickler assigns Info separately, through
// SetInfo, once completion runs.
type SymbolFactory interface {
	// NewSymbol allocates a symbol of kind, owned by owner, named name,
	// with the given host flag bits already set.
	NewSymbol(owner Symbol, kind SymbolKind, name names.Name, flags FlagSet) Symbol

	// NewRefinementClass allocates the synthetic class backing a
	// structural refinement type (spec.md §4.6.6 "Refined").
	NewRefinementClass(owner Symbol, parentScopeHint Symbol) Symbol

	// LinkModule records the module-val/module-class back-link pair
	// spec.md §3 calls out ("delayed module-class/source-module
	// back-links").
	LinkModule(moduleVal, moduleClass Symbol)

	// SetInfo assigns a symbol's completed type, satisfying testable
	// property 4 in spec.md §8 ("info is never a Completer" once this is
	// called).
	SetInfo(sym Symbol, info Type)

	// SetPrivateWithin records the qualifier symbol read for
	// PRIVATEqualified/PROTECTEDqualified (spec.md §4.3 rule 7).
	SetPrivateWithin(sym Symbol, within Symbol)

	// SetSelfType records the explicit self-type an optional SELFDEF
	// declares for a class (spec.md §4.6.5 step 5).
	SetSelfType(sym Symbol, self Type)
}

// Variance mirrors the three-way variance a type parameter or applied-type
// argument carries (spec.md §4.6.6 "Applied").
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TypeFactory builds every type shape spec.md §6 names. Each constructor
// takes already-resolved arguments; readType (internal/unpickler) is
// responsible for sequencing reads before calling these.
type TypeFactory interface {
	TypeRef(prefix Type, sym Symbol) Type
	SingleType(prefix Type, sym Symbol) Type
	ThisType(cls Symbol) Type
	SuperType(this, base Type) Type
	ConstantType(sym Symbol) Type
	AnnotatedType(underlying Type, annotThunk func() Type) Type
	IntersectionType(lhs, rhs Type) Type
	RefinedType(parent Type, refinementCls Symbol) Type
	ClassInfoType(parents []Type, decls Symbol, cls Symbol) Type
	MethodType(paramNames []names.Name, paramTypes []Type, result Type, implicit, given bool) Type
	NullaryMethodType(result Type) Type
	PolyType(paramNames []names.Name, bounds []Type, result Type) Type
	TypeBounds(lo, hi Type) Type
	ExistentialType(paramNames []names.Name, bounds []Type, result Type) Type
	ByNameType(underlying Type) Type
	RepeatedType(elem Type) Type
	AppliedType(tycon Type, args []Type, variances []Variance) Type
	LambdaFromParams(paramNames []names.Name, bounds []Type, body Type) Type

	// ErrorType is installed on a symbol before an unsupported-feature or
	// type error propagates (spec.md §7 recovery: "the currently
	// completing symbol's info is set to an error type").
	ErrorType() Type

	// NoType is the absence of a self-type (spec.md §4.6.5 step "seed
	// the class info ... self-type ... else noType").
	NoType() Type
}

// ScopeOps is the subset of scope behavior spec.md §6 lists: new scope,
// enter, enter-if-new, clone, escape-aware lookup.
type ScopeOps interface {
	NewScope(owner Symbol) Symbol
	Enter(scope Symbol, sym Symbol)
	EnterIfNew(scope Symbol, sym Symbol) (existing Symbol, inserted bool)
	Clone(scope Symbol) Symbol
	Lookup(scope Symbol, name names.Name) Symbol
}

// Mirror is the package/class lookup surface spec.md §6 calls "Mirror
// operations".
type Mirror interface {
	GetPackage(fqn names.Name) Symbol
	RootPackage() Symbol
	EmptyPackage() Symbol
	ClassIfDefined(fqn names.Name) Symbol
	ModuleIfDefined(fqn names.Name) Symbol
}

// Phase identifies one of the host compiler's ordered phases; the
// unpickler never compares phases itself, only threads the value through
// to PhaseControl.
type Phase int

// PhaseControl implements the "run the following in phase not later than
// X" operation spec.md §6 requires for the pickler and extension-methods
// phases (spec.md §4.6.5 step 4).
type PhaseControl interface {
	RunAtPhaseNotLaterThan(p Phase, f func())
}

// NameEscaper implements the host's symbolic-character escape/encode
// facility (spec.md §6 "Name facilities"), used by names.HostIdentifier.
type NameEscaper interface {
	Escape(fragment string) string
}

// Reporter is the diagnostic sink spec.md §7 calls "reported to the host"
// for category-1 errors that don't abort the whole run, and the target of
// the debug-tasty echo logging spec.md §6 configures.
type Reporter interface {
	ReportUnsupported(owner Symbol, msg string)
	Echo(msg string)
}
