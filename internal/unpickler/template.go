package unpickler

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/symtab"
)

// extensionMethodsPhase stands in for the host compiler's real phase
// ordinal (spec.md §4.6.5 step 4: "run at a phase not later than the
// extension-methods phase"). hostapi.Phase carries no named constants of
// its own — phase identity is entirely the host's concern — so this
// package picks an arbitrary fixed value merely to thread something real
// through PhaseControl.RunAtPhaseNotLaterThan.
const extensionMethodsPhase hostapi.Phase = 0

// completeTemplate implements readTemplate (spec.md §4.6.5) for a TYPEDEF
// whose rhs is a TEMPLATE. Members were already indexed eagerly by
// indexClassBody at creation time; this re-reads the same parents/self-type
// prefix on a private cursor to build the ClassInfoType, since that
// information was discarded (not retained) during the indexing pass.
func (u *TreeUnpickler) completeTemplate(shape memberShape, ctx *symtab.Context) (hostapi.Type, error) {
	cls := u.syms.Get(shape.Addr)

	saved := u.cur
	c := saved.Fork()
	c.Goto(shape.RHSStart)
	u.cur = c
	defer func() { u.cur = saved }()

	u.cur.ReadTag() // TEMPLATE
	u.cur.ReadEnd()

	parentCount := int(u.cur.ReadNat())
	parents := make([]hostapi.Type, parentCount)
	parentSyms := make([]hostapi.Symbol, parentCount)
	for i := 0; i < parentCount; i++ {
		res, err := u.readTerm(ctx)
		if err != nil {
			return nil, err
		}
		parents[i] = u.rewriteObjectParent(res.Type, res.Sym)
		parentSyms[i] = res.Sym
	}

	if u.cur.ReadNat() != 0 {
		self, err := u.readType(ctx)
		if err != nil {
			return nil, err
		}
		if cls != nil {
			u.env.Symbols.SetSelfType(cls, self)
		}
	}

	if cls != nil {
		u.maybeSynthesizeValueClassExtensions(cls, parentSyms)
	}

	info := u.env.Types.ClassInfoType(parents, cls, cls)
	if tparams := u.typeParamsOf[cls]; len(tparams) > 0 {
		paramNames := make([]names.Name, len(tparams))
		bounds := make([]hostapi.Type, len(tparams))
		for i, p := range tparams {
			paramNames[i] = paramNameOf(p)
			bounds[i] = paramBoundOf(p)
		}
		info = u.env.Types.PolyType(paramNames, bounds, info)
	}
	return info, nil
}

// rewriteObjectParent implements spec.md §4.6.5 step 3's post-processing
// rule: a parent whose type symbol is the dialect's Object class is
// rewritten to AnyRef.
func (u *TreeUnpickler) rewriteObjectParent(ty hostapi.Type, sym hostapi.Symbol) hostapi.Type {
	if sym == nil || symbolLabel(sym) != "Object" {
		return ty
	}
	anyRef := u.env.Mirror.ClassIfDefined(names.NewSimple("AnyRef"))
	if anyRef == nil {
		return ty
	}
	return u.env.Types.TypeRef(u.env.Types.NoType(), anyRef)
}

// maybeSynthesizeValueClassExtensions schedules the host's extension-method
// synthesis for a class extending AnyVal (spec.md §4.6.5 step 4, a feature
// the distilled spec's member grammar omits but original_source/ carries).
// This reader's minimal tree surface has no way to enumerate or rewrite a
// value class's own method bodies, so the phase hook is exercised with an
// empty body — real synthesis is entirely the host's responsibility once
// scheduled at the right phase.
func (u *TreeUnpickler) maybeSynthesizeValueClassExtensions(cls hostapi.Symbol, parentSyms []hostapi.Symbol) {
	if !hasAnyValParent(parentSyms) {
		return
	}
	u.env.Phases.RunAtPhaseNotLaterThan(extensionMethodsPhase, func() {
		u.echo("scheduled extension-method synthesis for " + symbolLabel(cls))
	})
}

func hasAnyValParent(parentSyms []hostapi.Symbol) bool {
	for _, s := range parentSyms {
		if s == nil {
			continue
		}
		if symbolLabel(s) == "AnyVal" {
			return true
		}
	}
	return false
}
