package unpickler

import (
	"github.com/tastyread/tasty/internal/flagxlat"
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
	"github.com/tastyread/tasty/internal/tastyerr"
)

// memberShape is everything createMemberSymbol discovers about one
// member-def's byte layout before it has decided what symbol to allocate —
// passed on to completeMember so the two don't have to re-derive it.
type memberShape struct {
	Tag       tastybits.Tag
	Addr      tastybits.Addr
	BodyEnd   tastybits.Addr
	TypeStart tastybits.Addr // the type/bounds subtree (DEFDEF/VALDEF/PARAM/TYPEPARAM), or unused for TYPEDEF
	RHSStart  tastybits.Addr // TYPEDEF's rhs subtree (alias type, TYPEBOUNDS, or TEMPLATE)
	RHSTag    tastybits.Tag
	HasRHS    bool
	Mods      modifierTail
	Owner     hostapi.Symbol
	Name      names.Name
}

// createMemberSymbol implements spec.md §4.6.3: read the member's tag, end,
// and name; skip past its type/signature subtree far enough to know whether
// it has an RHS; read the modifier tail; normalize flags; decide what kind
// of symbol this is (an adopted root, a module value with its synthesized
// module class, an ordinary class, or a plain method/value/param/type
// symbol); register it at addr; enter it in owner's scope; and — eagerly,
// rather than through a truly lazy completer — resolve its info now,
// guarded against cyclic self-reference by u.guard.
func (u *TreeUnpickler) createMemberSymbol(addr tastybits.Addr, owner hostapi.Symbol, roots []hostapi.Symbol, ctx *symtab.Context) (hostapi.Symbol, error) {
	if existing := u.syms.Get(addr); existing != nil {
		// Leave the cursor past the member, as a fresh creation does, so a
		// caller looping over statements moves on.
		u.cur.Goto(addr)
		u.skipOneAST(u.cur)
		return existing, nil
	}

	u.cur.Goto(addr)
	tag := u.cur.ReadTag()
	bodyEnd := u.cur.ReadEnd()
	name := u.env.Names.Resolve(names.NameRef(u.cur.ReadNat()))

	shape := memberShape{Tag: tag, Addr: addr, BodyEnd: bodyEnd, Owner: owner, Name: name}

	switch tag {
	case tastybits.DEFDEF, tastybits.VALDEF, tastybits.PARAM:
		shape.TypeStart = u.cur.CurrentAddr()
		u.skipOneAST(u.cur)
		shape.HasRHS, _, _ = u.peekOptionalRHS()
	case tastybits.TYPEPARAM:
		shape.TypeStart = u.cur.CurrentAddr()
		u.skipOneAST(u.cur)
	case tastybits.TYPEDEF:
		shape.RHSStart = u.cur.CurrentAddr()
		shape.RHSTag = tastybits.Tag(u.cur.NextByte())
		u.skipOneAST(u.cur)
	default:
		return nil, tastyerr.NewTypeError(u.locationAt(addr, ctx), "%s is not a member-defining tag", tag)
	}

	modStart := u.cur.CurrentAddr()
	mods, err := u.readModifiers(modStart, bodyEnd, ctx)
	if err != nil {
		return nil, err
	}
	shape.Mods = mods
	u.cur.Goto(bodyEnd)

	kind := memberKindOf(tag)
	isAbsType := tag == tastybits.TYPEDEF && (shape.RHSTag == tastybits.TYPEBOUNDS || shape.RHSTag == tastybits.TYPEBOUNDStpt)
	isParamAlias := tag == tastybits.PARAM && shape.HasRHS

	hostFlags := flagxlat.Normalize(mods.Host, flagxlat.NormalizeInput{
		Kind:           kind,
		Owner:          ownerKindOf(owner),
		HasRHS:         shape.HasRHS,
		IsAbsType:      isAbsType,
		IsModule:       mods.IsModule,
		IsParamAlias:   isParamAlias,
		HasDefaultName: hasDefaultParamName(name),
	})

	isRootCandidate := len(roots) == 2

	var sym hostapi.Symbol
	var symKind hostapi.SymbolKind
	switch {
	case tag == tastybits.TYPEDEF && !u.rootClassTaken && isRootCandidate:
		symKind = hostapi.KindClass
		sym, u.rootClassTaken = u.classRoot, true
	case tag == tastybits.VALDEF && mods.IsModule && !u.rootModuleTaken && isRootCandidate:
		symKind = hostapi.KindModuleVal
		sym, u.rootModuleTaken = u.moduleRoot, true
	case tag == tastybits.TYPEDEF && shape.RHSTag == tastybits.TEMPLATE:
		symKind = hostapi.KindClass
		sym = u.env.Symbols.NewSymbol(owner, symKind, name, hostFlags)
		u.env.Scopes.NewScope(sym)
	case tag == tastybits.VALDEF && mods.IsModule:
		symKind = hostapi.KindModuleVal
		sym = u.env.Symbols.NewSymbol(owner, symKind, name, hostFlags)
	case tag == tastybits.DEFDEF && names.Equal(name, names.Constructor):
		symKind = hostapi.KindConstructor
		sym = u.env.Symbols.NewSymbol(owner, symKind, name, hostFlags)
	case tag == tastybits.TYPEPARAM:
		symKind = hostapi.KindTypeParam
		sym = u.env.Symbols.NewSymbol(owner, symKind, name, hostFlags)
	case tag == tastybits.PARAM:
		symKind = hostapi.KindValueParam
		sym = u.env.Symbols.NewSymbol(owner, symKind, name, hostFlags)
	default:
		// Plain DEFDEF, plain VALDEF, or a type alias/abstract-type TYPEDEF:
		// hostapi's SymbolKind vocabulary has no separate "field" or "type
		// member" bucket, matching the uniform-access view that a val's
		// getter is method-shaped and a type member is class-shaped.
		if tag == tastybits.TYPEDEF {
			symKind = hostapi.KindClass
		} else {
			symKind = hostapi.KindMethod
		}
		sym = u.env.Symbols.NewSymbol(owner, symKind, name, hostFlags)
	}

	u.syms.Set(addr, sym)

	if mods.IsModule && sym != u.moduleRoot {
		// Rule 4 (spec.md §4.3) gives the module val Module|Lazy|Final|Stable
		// but the module class only Module|Final; hostFlags above was
		// normalized for the val, not the class, so recompute rather than
		// reuse it.
		classFlags := flagxlat.Normalize(mods.Host, flagxlat.NormalizeInput{
			Kind:     flagxlat.KindTypeDef,
			Owner:    ownerKindOf(owner),
			IsModule: true,
		})
		modCls := u.env.Symbols.NewSymbol(owner, hostapi.KindModuleClass, names.NewModule(name), classFlags)
		u.env.Scopes.NewScope(modCls)
		u.env.Symbols.LinkModule(sym, modCls)
	} else if sym == u.moduleRoot {
		u.env.Symbols.LinkModule(u.moduleRoot, u.classRoot)
	}

	if mods.PrivateWithin != nil {
		u.env.Symbols.SetPrivateWithin(sym, mods.PrivateWithin)
	}

	if symKind != hostapi.KindModuleClass && symKind != hostapi.KindTypeParam {
		u.env.Scopes.Enter(owner, sym)
	}

	if tag == tastybits.TYPEDEF && shape.RHSTag == tastybits.TEMPLATE {
		if err := u.indexClassBody(shape.RHSStart, sym, roots, ctx.WithOwner(sym)); err != nil {
			return nil, err
		}
	}

	if err := u.completeMember(sym, shape, ctx); err != nil {
		return sym, err
	}
	return sym, nil
}

func memberKindOf(tag tastybits.Tag) flagxlat.Kind {
	switch tag {
	case tastybits.VALDEF:
		return flagxlat.KindValDef
	case tastybits.DEFDEF:
		return flagxlat.KindDefDef
	case tastybits.TYPEDEF:
		return flagxlat.KindTypeDef
	case tastybits.TYPEPARAM:
		return flagxlat.KindTypeParam
	case tastybits.PARAM:
		return flagxlat.KindParam
	default:
		return flagxlat.KindOther
	}
}

// ownerKindOf narrows owner down to the small OwnerKind vocabulary
// flagxlat.Normalize needs, probing owner through the same kind of
// capability-typed assertion internal/types2/check.go uses when it needs
// more out of an ast.Node than the bare interface promises.
func ownerKindOf(owner hostapi.Symbol) flagxlat.OwnerKind {
	type kinder interface{ Kind() hostapi.SymbolKind }
	type flagger interface{ Flags() hostapi.FlagSet }
	k, hasKind := owner.(kinder)
	if !hasKind {
		return flagxlat.OwnerOther
	}
	if f, ok := owner.(flagger); ok && f.Flags().Has(flagxlat.DefaultParameterized) {
		return flagxlat.OwnerDefaultParameterized
	}
	if k.Kind() != hostapi.KindClass {
		return flagxlat.OwnerOther
	}
	if f, ok := owner.(flagger); ok && f.Flags().Has(flagxlat.Trait) {
		return flagxlat.OwnerTrait
	}
	return flagxlat.OwnerClass
}

func hasDefaultParamName(n names.Name) bool {
	_, ok := n.(names.Default)
	return ok
}

// peekOptionalRHS consumes either a bare EMPTYTREE marker (no RHS) or one
// full subtree (the RHS), returning whether one was present and where it
// started. Callers that don't need the RHS's contents (every kind this
// reader supports) just need to know it was there, for spec.md §4.3 rule 1.
func (u *TreeUnpickler) peekOptionalRHS() (hasRHS bool, rhsStart tastybits.Addr, rhsTag tastybits.Tag) {
	if tastybits.Tag(u.cur.NextByte()) == tastybits.EMPTYTREE {
		u.cur.ReadTag()
		return false, tastybits.NoAddr, tastybits.EMPTYTREE
	}
	rhsStart = u.cur.CurrentAddr()
	rhsTag = tastybits.Tag(u.cur.NextByte())
	u.skipOneAST(u.cur)
	return true, rhsStart, rhsTag
}

// indexClassBody implements the "for classes immediately walk the
// template-parameters to index type/value parameters" step of spec.md
// §4.6.3: it reads the TEMPLATE header at rhsStart on a private cursor and
// runs indexStats over its body with classSym as owner, so every
// constructor parameter, field, and nested type is registered before this
// class's own completion (or any forward reference into it) needs them.
func (u *TreeUnpickler) indexClassBody(rhsStart tastybits.Addr, classSym hostapi.Symbol, roots []hostapi.Symbol, ctx *symtab.Context) error {
	saved := u.cur
	c := saved.Fork()
	c.Goto(rhsStart)
	u.cur = c
	u.cur.ReadTag() // TEMPLATE
	bodyEnd := u.cur.ReadEnd()

	parentCount := u.cur.ReadNat()
	for i := uint64(0); i < parentCount; i++ {
		if _, err := u.readParentFromTerm(ctx); err != nil {
			u.cur = saved
			return err
		}
	}
	if u.cur.ReadNat() != 0 {
		if _, err := u.readType(ctx); err != nil {
			u.cur = saved
			return err
		}
	}
	bodyStart := u.cur.CurrentAddr()

	err := u.indexStats(bodyStart, bodyEnd, classSym, roots, ctx)
	if err == nil {
		if tparams := u.collectTypeParams(bodyStart, bodyEnd); len(tparams) > 0 {
			u.typeParamsOf[classSym] = tparams
		}
	}
	u.cur = saved
	return err
}

// collectTypeParams re-scans [start, end) on a private cursor for top-level
// TYPEPARAM member-defs, in source order, resolving each to the symbol
// indexStats already created for it. Kept as a separate pass rather than
// folded into indexStats because not every indexStats caller is indexing a
// class body whose type parameters completeTemplate will need.
func (u *TreeUnpickler) collectTypeParams(start, end tastybits.Addr) []hostapi.Symbol {
	c := u.cur.Fork()
	c.Goto(start)
	var out []hostapi.Symbol
	for c.CurrentAddr() < end {
		addr := c.CurrentAddr()
		tag := tastybits.Tag(c.NextByte())
		if tag == tastybits.TYPEPARAM {
			if sym := u.syms.Get(addr); sym != nil {
				out = append(out, sym)
			}
		}
		u.skipOneAST(c)
	}
	return out
}
