package unpickler

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
	"github.com/tastyread/tasty/internal/tastyerr"
)

// termResult is everything downstream readers need out of a minimal typed
// tree (spec.md §4.6.7): its type, and — for a bare reference or an
// application chain built on one — the symbol it denotes, which is what a
// parent-class term ultimately needs to resolve to.
type termResult struct {
	Type hostapi.Type
	Sym  hostapi.Symbol
}

// readTerm implements the minimal tree/term grammar of spec.md §4.6.7: just
// enough of IDENT/SELECT/BLOCK/APPLY/TYPEAPPLY/REFINEDtpt/LAMBDAtpt to
// recover a term's type and, where relevant, the symbol it names. Anything
// this reader has no reduction for (RETURN, INLINED, MATCHtpt, LAMBDA,
// SELECTouter, HOLE, UNIONtpt) is refused up front as a category-1
// unsupported feature.
func (u *TreeUnpickler) readTerm(ctx *symtab.Context) (termResult, error) {
	addr := u.cur.CurrentAddr()
	if peek := tastybits.Tag(u.cur.NextByte()); peek.IsUnsupported() {
		u.cur.ReadTag()
		return termResult{}, u.unsupported(ctx, addr, peek.String())
	}
	tag := u.cur.ReadTag()
	switch tag {
	case tastybits.IDENT, tastybits.IDENTtpt:
		nameRef := names.NameRef(u.cur.ReadNat())
		name := u.env.Names.Resolve(nameRef)
		ty, err := u.readType(ctx)
		if err != nil {
			return termResult{}, err
		}
		return termResult{Type: ty, Sym: u.env.Scopes.Lookup(ctx.Owner(), name)}, nil

	case tastybits.SELECT, tastybits.SELECTtpt:
		end := u.cur.ReadEnd()
		nameRef := names.NameRef(u.cur.ReadNat())
		name := u.env.Names.Resolve(nameRef)
		qual, err := u.readTerm(ctx)
		if err != nil {
			return termResult{}, err
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return termResult{}, err
		}
		sym := u.lookupMember(ctx, qual.Type, name)
		return termResult{Type: u.env.Types.SingleType(qual.Type, sym), Sym: sym}, nil

	case tastybits.BLOCK:
		end := u.cur.ReadEnd()
		n := int(u.cur.ReadNat())
		for i := 0; i < n; i++ {
			u.skipOneAST(u.cur)
		}
		result, err := u.readTerm(ctx)
		if err != nil {
			return termResult{}, err
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return termResult{}, err
		}
		return result, nil

	case tastybits.APPLY:
		end := u.cur.ReadEnd()
		fn, err := u.readTerm(ctx)
		if err != nil {
			return termResult{}, err
		}
		n := int(u.cur.ReadNat())
		for i := 0; i < n; i++ {
			u.skipOneAST(u.cur)
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return termResult{}, err
		}
		return fn, nil

	case tastybits.TYPEAPPLY:
		end := u.cur.ReadEnd()
		fn, err := u.readTerm(ctx)
		if err != nil {
			return termResult{}, err
		}
		n := int(u.cur.ReadNat())
		for i := 0; i < n; i++ {
			if _, err := u.readType(ctx); err != nil {
				return termResult{}, err
			}
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return termResult{}, err
		}
		return fn, nil

	case tastybits.REFINEDtpt:
		end := u.cur.ReadEnd()
		parent, err := u.readTerm(ctx)
		if err != nil {
			return termResult{}, err
		}
		refCls := u.env.Symbols.NewRefinementClass(ctx.Owner(), nil)
		memberAddr := u.cur.CurrentAddr()
		if tastybits.Tag(u.cur.NextByte()).IsMemberDef() {
			if _, err := u.createMemberSymbol(memberAddr, refCls, nil, ctx.WithOwner(refCls)); err != nil {
				return termResult{}, err
			}
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return termResult{}, err
		}
		return termResult{Type: u.env.Types.RefinedType(parent.Type, refCls)}, nil

	case tastybits.LAMBDAtpt:
		ty, err := u.readTypeLambdaTree(ctx, addr)
		if err != nil {
			return termResult{}, err
		}
		return termResult{Type: ty}, nil

	default:
		return termResult{}, tastyerr.NewTypeError(u.locationAt(addr, ctx), "unrecognized term tag %s", tag)
	}
}

// readTpt reads a type-position tree. In this dialect the term and
// type-tree grammars are structurally identical — the wire keeps separate
// tags only so a shape validator could flag a term appearing where a type
// was expected, which this reader doesn't attempt — so readTpt is readTerm
// under another name for callers where that distinction matters for
// readability (spec.md §4.6.7 parent-reading).
func (u *TreeUnpickler) readTpt(ctx *symtab.Context) (termResult, error) {
	return u.readTerm(ctx)
}

// readParentFromTerm implements spec.md §4.6.5's "parents: TPT or
// term-shaped reduced to type": whether a parent entry is written as a bare
// type tree or as a constructor-application term, only its resulting Type
// matters to ClassInfoType.
func (u *TreeUnpickler) readParentFromTerm(ctx *symtab.Context) (hostapi.Type, error) {
	res, err := u.readTerm(ctx)
	if err != nil {
		return nil, err
	}
	return res.Type, nil
}

// readAnnotationAt re-reads the annotation term stored at addr on demand,
// backing the AnnotatedType thunk spec.md §6 requires annotations be lazy
// behind (readType's caller never forces it unless something downstream
// actually inspects the annotation).
func (u *TreeUnpickler) readAnnotationAt(addr tastybits.Addr, ctx *symtab.Context) (hostapi.Type, error) {
	saved := u.cur
	sub := saved.Fork()
	sub.Goto(addr)
	u.cur = sub
	res, err := u.readTerm(ctx)
	u.cur = saved
	if err != nil {
		return nil, err
	}
	return res.Type, nil
}
