package flagxlat

import (
	"testing"

	"github.com/tastyread/tasty/internal/tastybits"
)

func TestAbstractOverrideCollapsesToAbsOverride(t *testing.T) {
	var r Reader
	r.Tag(tastybits.ABSTRACT)
	r.Tag(tastybits.OVERRIDE)
	r.Finish()
	if !r.Host.Has(AbsOverride) {
		t.Errorf("ABSTRACT,OVERRIDE should set AbsOverride, got %b", r.Host)
	}
	if r.Host.Has(Abstract) {
		t.Errorf("ABSTRACT,OVERRIDE should not also leave a bare Abstract bit set")
	}
}

func TestBareAbstractSurvivesFinish(t *testing.T) {
	var r Reader
	r.Tag(tastybits.ABSTRACT)
	r.Finish()
	if !r.Host.Has(Abstract) {
		t.Errorf("a trailing bare ABSTRACT should still set Abstract after Finish")
	}
}

func TestGivenMapsToImplicit(t *testing.T) {
	var r Reader
	r.Tag(tastybits.GIVEN)
	if !r.Host.Has(Implicit) {
		t.Errorf("GIVEN should set Implicit")
	}
	if !r.Tasty.Has(TastyGiven) {
		t.Errorf("GIVEN should also record TastyGiven")
	}
}

func TestNormalizeRule1DeferredOnEmptyRHSMethod(t *testing.T) {
	got := Normalize(0, NormalizeInput{Kind: KindDefDef, HasRHS: false})
	if !got.Has(Deferred) {
		t.Errorf("a bodyless DEFDEF should be Deferred, got %b", got)
	}
}

func TestNormalizeRule3ValDefImpliesStable(t *testing.T) {
	got := Normalize(0, NormalizeInput{Kind: KindValDef, HasRHS: true})
	if !got.Has(Stable) {
		t.Errorf("VALDEF without Mutable should imply Stable")
	}
}

func TestNormalizeRule3ValDefInTraitImpliesAccessor(t *testing.T) {
	got := Normalize(0, NormalizeInput{Kind: KindValDef, HasRHS: true, Owner: OwnerTrait})
	if !got.Has(Accessor) {
		t.Errorf("VALDEF in a Trait owner should imply Accessor")
	}
}

func TestNormalizeRule4ModuleVal(t *testing.T) {
	got := Normalize(0, NormalizeInput{Kind: KindValDef, IsModule: true})
	want := Module | Lazy | Final | Stable
	if got&want != want {
		t.Errorf("module val should get Module|Lazy|Final|Stable, got %b", got)
	}
}

func TestNormalizeRule4ModuleClass(t *testing.T) {
	got := Normalize(0, NormalizeInput{Kind: KindTypeDef, IsModule: true})
	want := Module | Final
	if got&want != want {
		t.Errorf("module class should get Module|Final, got %b", got)
	}
	if got.Has(Stable) {
		t.Errorf("module class should not get Stable (only the module val does)")
	}
}

func TestNormalizeRule5ParamInClassOwner(t *testing.T) {
	got := Normalize(0, NormalizeInput{Kind: KindParam, Owner: OwnerClass})
	want := ParamAccessor | Accessor | Stable
	if got&want != want {
		t.Errorf("PARAM inside a class owner should get ParamAccessor|Accessor|Stable, got %b", got)
	}
	if got.Has(Method) {
		t.Errorf("PARAM without a param alias RHS should not get Method")
	}
}

func TestNormalizeRule5ParamAliasGetsMethod(t *testing.T) {
	got := Normalize(0, NormalizeInput{Kind: KindParam, Owner: OwnerClass, IsParamAlias: true})
	if !got.Has(Method) {
		t.Errorf("a param alias (PARAM with non-empty RHS) should get Method")
	}
}

func TestNormalizeRule6DefaultParameterized(t *testing.T) {
	got := Normalize(0, NormalizeInput{HasDefaultName: true})
	if !got.Has(DefaultParameterized) {
		t.Errorf("a default-parameter name should force DefaultParameterized")
	}
}
