package unpickler

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
	"github.com/tastyread/tasty/internal/tastyerr"
)

// readType implements the type grammar of spec.md §4.6.6: a tag-driven
// dispatch that leaves the cursor exactly at end for every length-prefixed
// shape (the invariant SPEC_FULL.md §4.1 assigns to internal/unpickler as
// the seam wrapping Cursor.ExpectEnd).
func (u *TreeUnpickler) readType(ctx *symtab.Context) (hostapi.Type, error) {
	addr := u.cur.CurrentAddr()
	if peek := tastybits.Tag(u.cur.NextByte()); peek.IsUnsupported() {
		u.cur.ReadTag()
		return nil, u.unsupported(ctx, addr, peek.String()+" type")
	}
	tag := u.cur.ReadTag()
	switch tag {
	case tastybits.TYPEREFdirect, tastybits.TERMREFdirect:
		target := tastybits.Addr(u.cur.ReadNat())
		sym, err := u.resolveSymbolAt(target, ctx)
		if err != nil {
			return nil, err
		}
		if tag == tastybits.TERMREFdirect {
			return u.env.Types.SingleType(u.env.Types.NoType(), sym), nil
		}
		return u.env.Types.TypeRef(u.env.Types.NoType(), sym), nil

	case tastybits.TYPEREFsymbol, tastybits.TERMREFsymbol:
		target := tastybits.Addr(u.cur.ReadNat())
		prefix, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		sym, err := u.resolveSymbolAt(target, ctx)
		if err != nil {
			return nil, err
		}
		if tag == tastybits.TERMREFsymbol {
			return u.env.Types.SingleType(prefix, sym), nil
		}
		return u.env.Types.TypeRef(prefix, sym), nil

	case tastybits.TYPEREFpkg, tastybits.TERMREFpkg:
		nameRef := names.NameRef(u.cur.ReadNat())
		pkg := u.env.Mirror.GetPackage(u.env.Names.Resolve(nameRef))
		if tag == tastybits.TERMREFpkg {
			return u.env.Types.SingleType(u.env.Types.NoType(), pkg), nil
		}
		return u.env.Types.TypeRef(u.env.Types.NoType(), pkg), nil

	case tastybits.TYPEREF, tastybits.TERMREF:
		nameRef := names.NameRef(u.cur.ReadNat())
		name := u.env.Names.Resolve(nameRef)
		prefix, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		sym := u.lookupMember(ctx, prefix, name)
		if tag == tastybits.TERMREF {
			return u.env.Types.SingleType(prefix, sym), nil
		}
		return u.env.Types.TypeRef(prefix, sym), nil

	case tastybits.TYPEREFin, tastybits.TERMREFin:
		end := u.cur.ReadEnd()
		nameRef := names.NameRef(u.cur.ReadNat())
		name := u.env.Names.Resolve(nameRef)
		prefix, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		// The "in class C" qualifier: which class's view of the member to
		// use when it's ambiguous through the plain prefix. The stub mirror
		// has no separate resolution path for this, so it's read (to keep
		// the cursor in sync) and otherwise unused.
		if _, err := u.readType(ctx); err != nil {
			return nil, err
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		sym := u.lookupMember(ctx, prefix, name)
		if tag == tastybits.TERMREFin {
			return u.env.Types.SingleType(prefix, sym), nil
		}
		return u.env.Types.TypeRef(prefix, sym), nil

	case tastybits.THIS:
		cls, err := u.readSymbolRef(ctx)
		if err != nil {
			return nil, err
		}
		return u.env.Types.ThisType(cls), nil

	case tastybits.SUPERtype:
		end := u.cur.ReadEnd()
		this, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		base, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		return u.env.Types.SuperType(this, base), nil

	case tastybits.SHAREDtype:
		target := tastybits.Addr(u.cur.ReadNat())
		if cached := u.typeAtAddr.Lookup(target); cached != nil {
			return cached, nil
		}
		saved := u.cur
		sub := saved.Fork()
		sub.Goto(target)
		u.cur = sub
		ty, err := u.readType(ctx)
		u.cur = saved
		if err != nil {
			return nil, err
		}
		u.typeAtAddr.Seed(target, ty)
		return ty, nil

	case tastybits.RECtype:
		// A forward self-reference inside body resolves to whatever is
		// seeded at addr when RECthis looks it up; the stub seeds NoType
		// first since hostapi has no dedicated recursive-type wrapper to
		// mutate in place once body is known.
		u.typeAtAddr.Seed(addr, u.env.Types.NoType())
		body, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		u.typeAtAddr.Seed(addr, body)
		return body, nil

	case tastybits.RECthis:
		target := tastybits.Addr(u.cur.ReadNat())
		if ty := u.typeAtAddr.Lookup(target); ty != nil {
			return ty, nil
		}
		return u.env.Types.NoType(), nil

	case tastybits.REFINEDtype:
		end := u.cur.ReadEnd()
		parent, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		refCls := u.env.Symbols.NewRefinementClass(ctx.Owner(), nil)
		memberAddr := u.cur.CurrentAddr()
		memberTag := tastybits.Tag(u.cur.NextByte())
		if memberTag.IsMemberDef() {
			if _, err := u.createMemberSymbol(memberAddr, refCls, nil, ctx.WithOwner(refCls)); err != nil {
				return nil, err
			}
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		return u.env.Types.RefinedType(parent, refCls), nil

	case tastybits.APPLIEDtype:
		end := u.cur.ReadEnd()
		tycon, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		n := int(u.cur.ReadNat())
		args := make([]hostapi.Type, n)
		variances := make([]hostapi.Variance, n)
		for i := 0; i < n; i++ {
			variances[i] = hostapi.Variance(u.cur.ReadNat())
			arg, err := u.readType(ctx)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		return u.env.Types.AppliedType(tycon, args, variances), nil

	case tastybits.TYPEBOUNDS, tastybits.TYPEBOUNDStpt:
		end := u.cur.ReadEnd()
		lo, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		if u.cur.CurrentAddr() >= end {
			// Absent hi (spec.md §4.6.6): this is an alias, not a bounds pair.
			return lo, nil
		}
		hi, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		return u.env.Types.TypeBounds(lo, hi), nil

	case tastybits.ANDtype:
		end := u.cur.ReadEnd()
		lhs, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		rhs, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		return u.env.Types.IntersectionType(lhs, rhs), nil

	case tastybits.ORtype:
		// hostapi carries no union-type constructor; a union RHS is refused
		// the same way category-1 unsupported constructs are, rather than
		// silently degrading to one of its arms.
		return nil, u.unsupported(ctx, addr, "union type")

	case tastybits.ANNOTATEDtype:
		end := u.cur.ReadEnd()
		underlying, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		thunkAddr := u.cur.CurrentAddr()
		u.skipOneAST(u.cur)
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		thunk := func() hostapi.Type {
			t, err := u.readAnnotationAt(thunkAddr, ctx)
			if err != nil {
				return u.env.Types.ErrorType()
			}
			return t
		}
		return u.env.Types.AnnotatedType(underlying, thunk), nil

	case tastybits.BYNAMEtype:
		end := u.cur.ReadEnd()
		underlying, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		if err := u.expectEnd(end, addr, ctx); err != nil {
			return nil, err
		}
		return u.env.Types.ByNameType(underlying), nil

	case tastybits.POLYtype:
		end := u.cur.ReadEnd()
		paramNames, bounds, result, err := u.readMethodic(ctx, addr, end)
		if err != nil {
			return nil, err
		}
		return u.env.Types.PolyType(paramNames, bounds, result), nil

	case tastybits.TYPELAMBDAtype:
		end := u.cur.ReadEnd()
		paramNames, bounds, body, err := u.readMethodic(ctx, addr, end)
		if err != nil {
			return nil, err
		}
		return u.env.Types.LambdaFromParams(paramNames, bounds, body), nil

	case tastybits.METHODtype, tastybits.IMPLICITMETHODtype, tastybits.GIVENMETHODtype:
		end := u.cur.ReadEnd()
		paramNames, paramTypes, result, err := u.readMethodic(ctx, addr, end)
		if err != nil {
			return nil, err
		}
		implicit := tag == tastybits.IMPLICITMETHODtype
		given := tag == tastybits.GIVENMETHODtype
		return u.env.Types.MethodType(paramNames, paramTypes, result, implicit, given), nil

	case tastybits.LAMBDAtpt:
		// A TYPEBOUNDStpt's hi can itself be a LAMBDAtpt (spec.md §8
		// scenario 3, "higher-kinded bound"): readType reaches here
		// directly rather than through the term grammar.
		return u.readTypeLambdaTree(ctx, addr)

	case tastybits.PARAMtype:
		// A de Bruijn-style reference to an enclosing POLYtype/TYPELAMBDAtype
		// binder. The stub keeps no such index (hostapi's Type is opaque, so
		// there is nothing concrete to point back into) and returns NoType
		// as a harmless placeholder rather than fail the whole read.
		u.cur.ReadNat()
		u.cur.ReadNat()
		return u.env.Types.NoType(), nil

	default:
		return nil, tastyerr.NewTypeError(u.locationAt(addr, ctx), "unrecognized type tag %s", tag)
	}
}

// readMethodic reads the common lambda-binder shape POLYtype, METHODtype,
// IMPLICITMETHODtype, GIVENMETHODtype, and TYPELAMBDAtype all share (spec.md
// §4.6.6): a param count, that many (name, type) pairs, then a result/body
// type, with the cursor landing exactly at end.
func (u *TreeUnpickler) readMethodic(ctx *symtab.Context, start, end tastybits.Addr) ([]names.Name, []hostapi.Type, hostapi.Type, error) {
	n := int(u.cur.ReadNat())
	paramNames := make([]names.Name, n)
	paramTypes := make([]hostapi.Type, n)
	for i := 0; i < n; i++ {
		nameRef := names.NameRef(u.cur.ReadNat())
		paramNames[i] = u.env.Names.Resolve(nameRef)
		ty, err := u.readType(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		paramTypes[i] = ty
	}
	result, err := u.readType(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := u.expectEnd(end, start, ctx); err != nil {
		return nil, nil, nil, err
	}
	return paramNames, paramTypes, result, nil
}

// readTypeLambdaTree implements LAMBDAtpt (spec.md §4.6.7): build a type
// lambda from explicitly parsed type-parameter symbols and a body. Reachable
// both from readTerm's own tag switch (its native term-grammar position) and
// from readType's, since a TYPEBOUNDStpt's hi can itself be a LAMBDAtpt.
func (u *TreeUnpickler) readTypeLambdaTree(ctx *symtab.Context, addr tastybits.Addr) (hostapi.Type, error) {
	end := u.cur.ReadEnd()
	n := int(u.cur.ReadNat())
	paramNames := make([]names.Name, n)
	bounds := make([]hostapi.Type, n)
	for i := 0; i < n; i++ {
		paramAddr := u.cur.CurrentAddr()
		sym, err := u.createMemberSymbol(paramAddr, ctx.Owner(), nil, ctx)
		if err != nil {
			return nil, err
		}
		paramNames[i] = paramNameOf(sym)
		bounds[i] = paramBoundOf(sym)
	}
	body, err := u.readTpt(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.expectEnd(end, addr, ctx); err != nil {
		return nil, err
	}
	return u.env.Types.LambdaFromParams(paramNames, bounds, body.Type), nil
}

func paramNameOf(sym hostapi.Symbol) names.Name {
	if named, ok := sym.(interface{ Name() names.Name }); ok {
		return named.Name()
	}
	return names.Empty
}

func paramBoundOf(sym hostapi.Symbol) hostapi.Type {
	if infoed, ok := sym.(interface{ Info() hostapi.Type }); ok {
		return infoed.Info()
	}
	return nil
}

// readSymbolRef reads one of the symbol-referencing shapes (direct,
// symbol-table-indexed, or package) and returns the resolved Symbol
// directly rather than wrapping it in a Type — used where the grammar
// wants a bare symbol (THIS's class, a parent constructor's class).
func (u *TreeUnpickler) readSymbolRef(ctx *symtab.Context) (hostapi.Symbol, error) {
	addr := u.cur.CurrentAddr()
	tag := u.cur.ReadTag()
	switch tag {
	case tastybits.TYPEREFdirect, tastybits.TERMREFdirect:
		target := tastybits.Addr(u.cur.ReadNat())
		return u.resolveSymbolAt(target, ctx)
	case tastybits.TYPEREFsymbol, tastybits.TERMREFsymbol:
		target := tastybits.Addr(u.cur.ReadNat())
		if _, err := u.readType(ctx); err != nil {
			return nil, err
		}
		return u.resolveSymbolAt(target, ctx)
	case tastybits.TYPEREFpkg, tastybits.TERMREFpkg:
		nameRef := names.NameRef(u.cur.ReadNat())
		return u.env.Mirror.GetPackage(u.env.Names.Resolve(nameRef)), nil
	default:
		return nil, tastyerr.NewTypeError(u.locationAt(addr, ctx), "expected a symbol reference, got %s", tag)
	}
}

// resolveSymbolAt returns the symbol already registered at target (spec.md
// §4.6.3's symAtAddr) as it is. If nothing is registered there yet, it
// creates and completes that member on demand, on a forked cursor, so the
// caller's read position is left unchanged.
func (u *TreeUnpickler) resolveSymbolAt(target tastybits.Addr, ctx *symtab.Context) (hostapi.Symbol, error) {
	if sym := u.syms.Get(target); sym != nil {
		return sym, nil
	}
	// Not indexed yet: this can happen for a forward reference into a
	// sibling statement sequence indexStats hasn't reached. Index it now,
	// on demand, using the owner-tree node that covers it.
	owner := u.root.FindOwner(target)
	saved := u.cur
	u.cur = saved.Fork()
	sym, err := u.createMemberSymbol(target, u.ownerSymbolFor(owner, ctx), nil, ctx)
	u.cur = saved
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// ownerSymbolFor resolves the owning symbol for a lazily-indexed forward
// reference: the owner tree only carries byte ranges, so the symbol that
// owns node must itself already be registered (its defining tag always
// precedes any address nested inside it).
func (u *TreeUnpickler) ownerSymbolFor(node *symtab.OwnerTree, ctx *symtab.Context) hostapi.Symbol {
	if node == nil {
		return ctx.Owner()
	}
	if sym := u.syms.Get(node.Start); sym != nil {
		return sym
	}
	return ctx.Owner()
}

// lookupMember resolves a named member through prefix's scope. The stub's
// ScopeOps operates on the owning symbol as its own scope handle, so a
// name-based TYPEREF/TERMREF looks the name up against the current owner's
// scope; the prefix Type itself carries no scope handle of its own to
// consult directly, matching the boundary hostapi draws between Type and
// Symbol.
func (u *TreeUnpickler) lookupMember(ctx *symtab.Context, prefix hostapi.Type, name names.Name) hostapi.Symbol {
	_ = prefix
	return u.env.Scopes.Lookup(ctx.Owner(), name)
}

func (u *TreeUnpickler) expectEnd(end, start tastybits.Addr, ctx *symtab.Context) error {
	if err := u.cur.ExpectEnd(end); err != nil {
		return u.wireErr(u.locationAt(start, ctx), err)
	}
	return nil
}

func (u *TreeUnpickler) unsupported(ctx *symtab.Context, addr tastybits.Addr, noun string) error {
	err := tastyerr.NewUnsupported(noun, u.locationAt(addr, ctx))
	if u.env.Report != nil {
		u.env.Report.ReportUnsupported(ctx.Owner(), err.Error())
	}
	return err
}
