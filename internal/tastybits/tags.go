package tastybits

// Tag is a single wire tag byte. Tags form a dense enum partitioned by
// magic ranges into four shapes (spec.md §4.5) so a scanner can skip any
// tag's payload without interpreting it.
type Tag byte

// TagShape classifies how a tag's payload is laid out on the wire.
type TagShape int

const (
	// NatOnly tags are followed by a small, tag-specific number of
	// variable-length naturals and nothing else.
	NatOnly TagShape = iota
	// ASTOnly tags are followed by exactly one nested, self-delimiting
	// subtree and nothing else.
	ASTOnly
	// NatThenAST tags are followed by one natural, then one nested
	// subtree.
	NatThenAST
	// LengthPrefixed tags carry an explicit end address (a natural
	// giving the length of everything that follows) so their internal
	// structure can be skipped in O(1) without interpretation.
	LengthPrefixed
)

// EMPTYTREE marks the deliberate absence of an optional subtree — an
// unbounded type-parameter's missing bound, a PARAM with no default, a
// constructor with no explicit RHS. It is its own NatOnly tag carrying no
// naturals: a single marker byte and nothing else.
const EMPTYTREE Tag = 0

// Member-defining and container tags.
const (
	VALDEF Tag = iota + 1
	DEFDEF
	TYPEDEF
	TYPEPARAM
	PARAM
	TEMPLATE
	PACKAGE
	IMPORT
)

// Type grammar tags (spec.md §4.6.6).
const (
	TYPEREFdirect Tag = iota + 32
	TERMREFdirect
	TYPEREFsymbol
	TERMREFsymbol
	TYPEREFpkg
	TERMREFpkg
	TYPEREF
	TERMREF
	TYPEREFin
	TERMREFin
	THIS
	SHAREDtype
	RECtype
	RECthis
	REFINEDtype
	APPLIEDtype
	TYPEBOUNDS
	TYPEBOUNDStpt
	ANDtype
	ORtype
	SUPERtype
	ANNOTATEDtype
	BYNAMEtype
	POLYtype
	METHODtype
	IMPLICITMETHODtype
	GIVENMETHODtype
	TYPELAMBDAtype
	PARAMtype
	MATCHtype
)

// Tree/term grammar tags (spec.md §4.6.7).
const (
	IDENT Tag = iota + 96
	IDENTtpt
	SELECT
	SELECTtpt
	BLOCK
	APPLY
	TYPEAPPLY
	REFINEDtpt
	LAMBDAtpt
)

// Explicitly unsupported constructs (spec.md §7 category 1, §9 open
// question). Kept as named tags so the scanner and readers can still skip
// or reject them uniformly rather than falling into a default case.
const (
	RETURN Tag = iota + 128
	INLINED
	MATCHtpt
	LAMBDA
	SELECTouter
	HOLE
	UNIONtpt
)

// Modifier tags (spec.md §4.3, §4.8). These never appear in scanTree's own
// recursion — they are always consumed in bulk, inside a LengthPrefixed
// member body, by readModifiers — so they carry no independent Shape.
const (
	ABSTRACT Tag = iota + 160
	OVERRIDE
	GIVEN
	MUTABLE
	MODULE
	TRAIT
	ENUM
	LOCAL
	PRIVATE
	PROTECTED
	PRIVATEqualified
	PROTECTEDqualified
	ANNOTATION
	DEFAULTparameterized
	INLINEflag
	SEALED
	CASE
	IMPLICIT
	LAZY
	OPAQUE
	OPEN
	TRANSPARENT
	INFIX
	COVARIANT
	CONTRAVARIANT
)

// natCount is the number of leading naturals a NatOnly tag carries.
var natCount = map[Tag]int{
	EMPTYTREE:  0, // marker only, no payload
	TERMREFpkg: 1, // package name ref
	TYPEREFpkg: 1, // package name ref
	RECthis:    1, // address of the enclosing RECtype
	SHAREDtype: 1, // address to re-read
	PARAMtype:  2, // binder address, bound index
}

// Shape reports the wire shape of tag, per the magic-range partition of
// spec.md §4.5.
func (t Tag) Shape() TagShape {
	switch t {
	case VALDEF, DEFDEF, TYPEDEF, TYPEPARAM, PARAM, TEMPLATE, PACKAGE, IMPORT,
		APPLIEDtype, TYPEBOUNDS, TYPEBOUNDStpt, REFINEDtype, ANDtype, ORtype,
		SUPERtype, ANNOTATEDtype, BYNAMEtype, POLYtype, METHODtype,
		IMPLICITMETHODtype, GIVENMETHODtype, TYPELAMBDAtype, MATCHtype,
		SELECT, SELECTtpt, BLOCK, APPLY, TYPEAPPLY, REFINEDtpt, LAMBDAtpt,
		TYPEREFin, TERMREFin,
		RETURN, INLINED, MATCHtpt, LAMBDA, SELECTouter, HOLE, UNIONtpt:
		return LengthPrefixed

	case IDENT, IDENTtpt, TYPEREFsymbol, TERMREFsymbol, TYPEREF, TERMREF:
		return NatThenAST

	case THIS, RECtype:
		return ASTOnly

	case TERMREFpkg, TYPEREFpkg, RECthis, SHAREDtype, PARAMtype, TYPEREFdirect, TERMREFdirect, EMPTYTREE:
		return NatOnly

	default:
		return NatOnly
	}
}

// NatCount reports how many leading naturals a NatOnly tag carries. Direct
// symbol references (TYPEREFdirect/TERMREFdirect) carry exactly one: the
// address of the referenced symbol's defining tag.
func (t Tag) NatCount() int {
	if n, ok := natCount[t]; ok {
		return n
	}
	return 1
}

// IsUnsupported reports whether t names a construct this reader refuses by
// design (spec.md §7 category 1, §9).
func (t Tag) IsUnsupported() bool {
	switch t {
	case RETURN, INLINED, MATCHtpt, LAMBDA, SELECTouter, HOLE, UNIONtpt, MATCHtype:
		return true
	default:
		return false
	}
}

// IsMemberDef reports whether t introduces a symbol at the top level of a
// statement sequence (spec.md §4.5's "member kinds").
func (t Tag) IsMemberDef() bool {
	switch t {
	case VALDEF, DEFDEF, TYPEDEF, TYPEPARAM, PARAM:
		return true
	default:
		return false
	}
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Tag(?)"
}

var tagNames = map[Tag]string{
	EMPTYTREE: "EMPTYTREE",
	VALDEF: "VALDEF", DEFDEF: "DEFDEF", TYPEDEF: "TYPEDEF", TYPEPARAM: "TYPEPARAM",
	PARAM: "PARAM", TEMPLATE: "TEMPLATE", PACKAGE: "PACKAGE", IMPORT: "IMPORT",
	TYPEREFdirect: "TYPEREFdirect", TERMREFdirect: "TERMREFdirect",
	TYPEREFsymbol: "TYPEREFsymbol", TERMREFsymbol: "TERMREFsymbol",
	TYPEREFpkg: "TYPEREFpkg", TERMREFpkg: "TERMREFpkg",
	TYPEREF: "TYPEREF", TERMREF: "TERMREF",
	TYPEREFin: "TYPEREFin", TERMREFin: "TERMREFin",
	THIS: "THIS", SHAREDtype: "SHAREDtype", RECtype: "RECtype", RECthis: "RECthis",
	REFINEDtype: "REFINEDtype", APPLIEDtype: "APPLIEDtype",
	TYPEBOUNDS: "TYPEBOUNDS", TYPEBOUNDStpt: "TYPEBOUNDStpt",
	ANDtype: "ANDtype", ORtype: "ORtype", SUPERtype: "SUPERtype",
	ANNOTATEDtype: "ANNOTATEDtype", BYNAMEtype: "BYNAMEtype",
	POLYtype: "POLYtype", METHODtype: "METHODtype",
	IMPLICITMETHODtype: "IMPLICITMETHODtype", GIVENMETHODtype: "GIVENMETHODtype",
	TYPELAMBDAtype: "TYPELAMBDAtype", PARAMtype: "PARAMtype", MATCHtype: "MATCHtype",
	IDENT: "IDENT", IDENTtpt: "IDENTtpt", SELECT: "SELECT", SELECTtpt: "SELECTtpt",
	BLOCK: "BLOCK", APPLY: "APPLY", TYPEAPPLY: "TYPEAPPLY",
	REFINEDtpt: "REFINEDtpt", LAMBDAtpt: "LAMBDAtpt",
	RETURN: "RETURN", INLINED: "INLINED", MATCHtpt: "MATCHtpt", LAMBDA: "LAMBDA",
	SELECTouter: "SELECTouter", HOLE: "HOLE", UNIONtpt: "UNIONtpt",
	ABSTRACT: "ABSTRACT", OVERRIDE: "OVERRIDE", GIVEN: "GIVEN", MUTABLE: "MUTABLE",
	MODULE: "MODULE", TRAIT: "TRAIT", ENUM: "ENUM", LOCAL: "LOCAL",
	PRIVATE: "PRIVATE", PROTECTED: "PROTECTED",
	PRIVATEqualified: "PRIVATEqualified", PROTECTEDqualified: "PROTECTEDqualified",
	ANNOTATION: "ANNOTATION", DEFAULTparameterized: "DEFAULTparameterized",
	INLINEflag: "INLINE", SEALED: "SEALED", CASE: "CASE", IMPLICIT: "IMPLICIT",
	LAZY: "LAZY", OPAQUE: "OPAQUE", OPEN: "OPEN", TRANSPARENT: "TRANSPARENT",
	INFIX: "INFIX", COVARIANT: "COVARIANT", CONTRAVARIANT: "CONTRAVARIANT",
}
