package unpickler

import (
	"github.com/tastyread/tasty/internal/flagxlat"
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
)

// modifierTail is what readModifiers accumulates from a member's trailing
// modifier tags (spec.md §4.3, §4.6.8): the two flag sets Reader already
// normalizes, plus the two exceptions Reader.Tag defers to its caller:
// the qualifier symbol for PRIVATEqualified/PROTECTEDqualified, and the
// lazy annotation thunks.
type modifierTail struct {
	Host          flagxlat.FlagSet
	Tasty         flagxlat.TastyFlagSet
	IsModule      bool
	PrivateWithin hostapi.Symbol
	Annotations   []func() hostapi.Type
}

// readModifiers drives a flagxlat.Reader over [start, end): every plain
// modifier tag folds in via Reader.Tag; MODULE (which has no bit of its
// own in flagxlat — Normalize derives the Module flag bundle from
// NormalizeInput.IsModule instead) is caught directly; ANNOTATION's nested
// term is captured as a lazy thunk, or dropped outright under
// NoAnnotations; and PRIVATEqualified/PROTECTEDqualified's trailing
// qualifier symbol is read via readSymbolRef, the same helper readType
// uses for THIS's class reference.
func (u *TreeUnpickler) readModifiers(start, end tastybits.Addr, ctx *symtab.Context) (modifierTail, error) {
	u.cur.Goto(start)
	var out modifierTail
	var r flagxlat.Reader
	for u.cur.CurrentAddr() < end {
		tag := u.cur.ReadTag()
		switch tag {
		case tastybits.MODULE:
			out.IsModule = true

		case tastybits.ANNOTATION:
			annEnd := u.cur.ReadEnd()
			thunkAddr := u.cur.CurrentAddr()
			u.cur.Goto(annEnd)
			if u.env.NoAnnotations {
				continue
			}
			out.Annotations = append(out.Annotations, func() hostapi.Type {
				t, err := u.readAnnotationAt(thunkAddr, ctx)
				if err != nil {
					return u.env.Types.ErrorType()
				}
				return t
			})

		case tastybits.PRIVATEqualified, tastybits.PROTECTEDqualified:
			r.Tag(tag)
			within, err := u.readSymbolRef(ctx)
			if err != nil {
				return modifierTail{}, err
			}
			out.PrivateWithin = within

		default:
			r.Tag(tag)
		}
	}
	r.Finish()
	out.Host, out.Tasty = r.Host, r.Tasty
	return out, nil
}
