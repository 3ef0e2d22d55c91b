// Package flagxlat translates the source dialect's modifier bit-set and a
// secondary "TASTy-only" bit-set into the host compiler's flag vocabulary
// (spec.md §4.3). It has no notion of trees or symbols; it only knows bits.
package flagxlat

import "github.com/tastyread/tasty/internal/tastybits"

// FlagSet is a set of host-compiler flags, one bit per flag.
type FlagSet uint64

// TastyFlagSet is a set of dialect-only flags that never made it into the
// host vocabulary; kept only so unsupported-flag detection (spec.md §4.3
// closing paragraph) can name what it refused.
type TastyFlagSet uint64

const (
	Deferred FlagSet = 1 << iota
	Method
	Stable
	Accessor
	Module
	Lazy
	Final
	Param
	ParamAccessor
	DefaultParameterized
	Protected
	Abstract
	AbsOverride
	Implicit
	Trait
	Enum
	Mutable
)

const (
	TastyOpaque TastyFlagSet = 1 << iota
	TastyInline
	TastyGiven
	TastyErased
	TastyTransparent
	TastyInfix
	TastyOpen
	TastySealed
)

// Has reports whether every bit in want is set in fs.
func (fs FlagSet) Has(want FlagSet) bool { return fs&want == want }

// Any reports whether any bit in want is set in fs.
func (fs FlagSet) Any(want FlagSet) bool { return fs&want != 0 }

// Has reports whether every bit in want is set in fs.
func (fs TastyFlagSet) Has(want TastyFlagSet) bool { return fs&want == want }

// tagFlag pairs a single modifier tag with the flag(s) it sets on its own,
// context-free (spec.md §4.8: "Tags map one-to-one onto either host flags
// or dialect flags"). Tags needing context (ABSTRACT+OVERRIDE collapse,
// PRIVATEqualified's trailing type) are handled outside this table by
// Reader.
var tagFlag = map[tastybits.Tag]FlagSet{
	tastybits.MUTABLE:  Mutable, // its absence on a VALDEF is what implies Stable (Normalize rule 3)
	tastybits.LOCAL:    0,
	tastybits.PRIVATE:  0,
	tastybits.PROTECTED: Protected,
	tastybits.SEALED:   0,
	tastybits.CASE:     0,
	tastybits.LAZY:     Lazy,
	tastybits.OPAQUE:   0,
	tastybits.OPEN:     0,
	tastybits.TRANSPARENT: 0,
	tastybits.INFIX:    0,
	tastybits.COVARIANT: 0,
	tastybits.CONTRAVARIANT: 0,
	tastybits.TRAIT:    Trait,
	tastybits.ENUM:     Enum,
	tastybits.INLINEflag: 0,
	tastybits.DEFAULTparameterized: DefaultParameterized,
}

var tagTastyFlag = map[tastybits.Tag]TastyFlagSet{
	tastybits.OPAQUE:      TastyOpaque,
	tastybits.INLINEflag:  TastyInline,
	tastybits.GIVEN:       TastyGiven,
	tastybits.TRANSPARENT: TastyTransparent,
	tastybits.INFIX:       TastyInfix,
	tastybits.OPEN:        TastyOpen,
	tastybits.SEALED:      TastySealed,
}

// unsupportedOnKind names dialect-only flags this reader has no host
// vocabulary slot for at all, on any kind — spec.md §4.3's closing
// paragraph ("Unsupported dialect-only flags on a given kind are reported
// via §7"). Kept empty for now: every TastyFlagSet bit this reader
// recognizes has a defined, if inert, meaning. A future dialect flag this
// reader has never seen falls through Reader.Tag's default case instead.
var unsupportedOnKind = map[TastyFlagSet]struct{}{}

// Kind identifies the member kind Normalize needs to apply rules 3-7 of
// spec.md §4.3; it is a small local echo of hostapi.SymbolKind so this
// package stays independent of hostapi.
type Kind int

const (
	KindOther Kind = iota
	KindValDef
	KindDefDef
	KindTypeDef
	KindTypeParam
	KindParam
)

// OwnerKind narrows Normalize rule 5 ("inside a class owner") and rule 4
// ("Module val/class").
type OwnerKind int

const (
	OwnerOther OwnerKind = iota
	OwnerClass
	OwnerTrait
	OwnerDefaultParameterized
)

// Reader accumulates flags across one member's modifier tail (spec.md
// §4.6.8 readModifiers) before Normalize applies the phase-dependent
// rules.
type Reader struct {
	Host  FlagSet
	Tasty TastyFlagSet

	pendingAbstract bool
}

// Tag folds one modifier tag into the reader. It implements the two
// context-sensitive exceptions of spec.md §4.8 directly (ABSTRACT+OVERRIDE
// collapse, GIVEN maps to Implicit) and defers PRIVATEqualified's trailing
// type read to the caller, which knows how to read a type subtree.
func (r *Reader) Tag(tag tastybits.Tag) {
	switch tag {
	case tastybits.ABSTRACT:
		r.pendingAbstract = true
		return
	case tastybits.OVERRIDE:
		if r.pendingAbstract {
			r.Host |= AbsOverride
			r.pendingAbstract = false
			return
		}
	case tastybits.GIVEN:
		r.Host |= Implicit
		r.Tasty |= TastyGiven
		return
	case tastybits.PROTECTEDqualified:
		r.Host |= Protected
		// The trailing privateWithin type is read by the caller (spec.md
		// §4.3 rule 7) via hostapi.SymbolFactory.SetPrivateWithin.
		return
	case tastybits.PRIVATEqualified:
		// Private has no dedicated bit of its own here; PrivateWithin is
		// what distinguishes it from PRIVATE, set by the same caller hook.
		return
	}
	if r.pendingAbstract {
		r.Host |= Abstract
		r.pendingAbstract = false
	}
	if hf, ok := tagFlag[tag]; ok {
		r.Host |= hf
	}
	if tf, ok := tagTastyFlag[tag]; ok {
		r.Tasty |= tf
	}
}

// Finish flushes a trailing bare ABSTRACT (one never followed by OVERRIDE).
func (r *Reader) Finish() {
	if r.pendingAbstract {
		r.Host |= Abstract
		r.pendingAbstract = false
	}
}

// NormalizeInput carries everything Normalize needs beyond the raw flag
// bits to apply spec.md §4.3 rules 1-7 in order.
type NormalizeInput struct {
	Kind          Kind
	Owner         OwnerKind
	HasRHS        bool
	IsAbsType     bool // next unshared tag is TYPEBOUNDS/TYPEBOUNDStpt, or lambda-applied abstract
	IsModule      bool
	IsParamAlias  bool // PARAM with a non-empty RHS
	HasDefaultName bool
}

// Normalize applies spec.md §4.3 rules 1-7, in the fixed order the spec
// gives, to a Reader's accumulated bits. It returns the finished FlagSet;
// Reader.Tasty is left untouched (dialect-only bits are never normalized
// away, only reported if unrecognized).
func Normalize(r FlagSet, in NormalizeInput) FlagSet {
	// Rule 1: no RHS, term, non-constructor, not param/accessor -> Deferred.
	if !in.HasRHS && (in.Kind == KindDefDef || in.Kind == KindValDef) && !r.Has(ParamAccessor) && !r.Has(Accessor) {
		r |= Deferred
	}
	// Rule 2: abstract type shape -> Deferred.
	if in.IsAbsType {
		r |= Deferred
	}
	// Rule 3: DEFDEF implies Method; VALDEF without Mutable implies
	// Stable; VALDEF in a Trait owner implies Accessor.
	if in.Kind == KindDefDef {
		r |= Method
	}
	if in.Kind == KindValDef {
		if !r.Has(Mutable) {
			r |= Stable
		}
		if in.Owner == OwnerTrait {
			r |= Accessor
		}
	}
	// Rule 4: Module val/class flag bundles.
	if in.IsModule {
		if in.Kind == KindValDef {
			r |= Module | Lazy | Final | Stable
		} else {
			r |= Module | Final
		}
	}
	// Rule 5: inside a class owner (a Trait is also a class owner), TYPEPARAM
	// -> Param; PARAM -> ParamAccessor|Accessor|Stable, plus Method if it's
	// a param alias.
	if in.Owner == OwnerClass || in.Owner == OwnerTrait {
		if in.Kind == KindTypeParam {
			r |= Param
		}
		if in.Kind == KindParam {
			r |= ParamAccessor | Accessor | Stable
			if in.IsParamAlias {
				r |= Method
			}
		}
	}
	// Rule 6: default-parameter naming or DefaultParameterized owner.
	if in.HasDefaultName || in.Owner == OwnerDefaultParameterized {
		r |= DefaultParameterized
	}
	return r
}
