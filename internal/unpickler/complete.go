package unpickler

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
	"github.com/tastyread/tasty/internal/tastyerr"
)

// completeMember implements readNewMember (spec.md §4.6.4): compute sym's
// Info from the byte range createMemberSymbol already located, guarded
// against a re-entrant completion at the same address by u.guard, fold in
// any pending annotation thunks, and call SetInfo. Unlike a genuinely lazy
// completer, this runs synchronously right after shape creation — the
// guard still protects against the case a sibling forward reference
// (resolveSymbolAt) re-enters this same address while it's mid-completion.
func (u *TreeUnpickler) completeMember(sym hostapi.Symbol, shape memberShape, ctx *symtab.Context) error {
	if err := u.guard.Enter(shape.Addr); err != nil {
		u.env.Symbols.SetInfo(sym, u.env.Types.ErrorType())
		return err
	}
	defer u.guard.Leave(shape.Addr)

	memberCtx := ctx.WithOwner(shape.Owner)

	info, err := u.computeInfo(shape, memberCtx)
	if err != nil {
		u.env.Symbols.SetInfo(sym, u.env.Types.ErrorType())
		return err
	}

	for _, thunk := range shape.Mods.Annotations {
		info = u.env.Types.AnnotatedType(info, thunk)
	}
	u.env.Symbols.SetInfo(sym, info)
	return nil
}

func (u *TreeUnpickler) computeInfo(shape memberShape, ctx *symtab.Context) (hostapi.Type, error) {
	switch shape.Tag {
	case tastybits.TYPEPARAM, tastybits.PARAM, tastybits.VALDEF:
		return u.completeTypeOrBoundsAt(shape.TypeStart, ctx)

	case tastybits.DEFDEF:
		ty, err := u.completeTypeOrBoundsAt(shape.TypeStart, ctx)
		if err != nil {
			return nil, err
		}
		if !isMethodShaped(u.peekTagAt(shape.TypeStart)) {
			ty = u.env.Types.NullaryMethodType(ty)
		}
		return ty, nil

	case tastybits.TYPEDEF:
		if shape.RHSTag == tastybits.TEMPLATE {
			return u.completeTemplate(shape, ctx)
		}
		return u.completeTypeOrBoundsAt(shape.RHSStart, ctx)

	default:
		return nil, tastyerr.NewTypeError(u.locationAt(shape.Addr, ctx), "%s has no completion rule", shape.Tag)
	}
}

func isMethodShaped(tag tastybits.Tag) bool {
	switch tag {
	case tastybits.METHODtype, tastybits.IMPLICITMETHODtype, tastybits.GIVENMETHODtype,
		tastybits.POLYtype, tastybits.TYPELAMBDAtype:
		return true
	default:
		return false
	}
}

// completeTypeOrBoundsAt re-reads the type/bounds subtree starting at start
// on a forked cursor, leaving u.cur exactly as it found it.
func (u *TreeUnpickler) completeTypeOrBoundsAt(start tastybits.Addr, ctx *symtab.Context) (hostapi.Type, error) {
	saved := u.cur
	c := saved.Fork()
	c.Goto(start)
	u.cur = c
	ty, err := u.readType(ctx)
	u.cur = saved
	return ty, err
}

func (u *TreeUnpickler) peekTagAt(addr tastybits.Addr) tastybits.Tag {
	c := u.cur.Fork()
	c.Goto(addr)
	return tastybits.Tag(c.NextByte())
}
