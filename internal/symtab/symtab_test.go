package symtab

import (
	"testing"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/tastybits"
)

func TestCycleGuardDetectsReentry(t *testing.T) {
	g := NewCycleGuard()
	if err := g.Enter(tastybits.Addr(10)); err != nil {
		t.Fatalf("first Enter should succeed, got %v", err)
	}
	if err := g.Enter(tastybits.Addr(10)); err == nil {
		t.Fatalf("re-entering the same address while InProgress should error")
	}
	g.Leave(tastybits.Addr(10))
	if !g.Empty() {
		t.Errorf("guard should be empty after Leave")
	}
}

func TestCycleGuardIndependentAddresses(t *testing.T) {
	g := NewCycleGuard()
	if err := g.Enter(tastybits.Addr(1)); err != nil {
		t.Fatalf("Enter(1): %v", err)
	}
	if err := g.Enter(tastybits.Addr(2)); err != nil {
		t.Fatalf("Enter(2) should not be blocked by an unrelated InProgress address: %v", err)
	}
}

func TestTypeAtAddrLookupUnseededIsNil(t *testing.T) {
	c := NewTypeAtAddr()
	if got := c.Lookup(tastybits.Addr(5)); got != nil {
		t.Fatalf("Lookup on an unseeded address should return nil, got %v", got)
	}
}

func TestSymAtAddrHasAfterSet(t *testing.T) {
	m := NewSymAtAddr()
	if m.Has(tastybits.Addr(1)) {
		t.Fatalf("Has should be false before any Set")
	}
	var sym hostapi.Symbol
	m.Set(tastybits.Addr(1), sym)
	if !m.Has(tastybits.Addr(1)) {
		t.Errorf("Has should be true after Set, even for a nil symbol value")
	}
}

func TestOwnerTreeChildrenComputedOnce(t *testing.T) {
	calls := 0
	child := Leaf(tastybits.Addr(2), tastybits.Addr(4), tastybits.VALDEF)
	root := NewOwnerTree(tastybits.Addr(0), tastybits.Addr(10), tastybits.TEMPLATE, func() []*OwnerTree {
		calls++
		return []*OwnerTree{child}
	})
	root.Children()
	root.Children()
	if calls != 1 {
		t.Errorf("scan should run exactly once, ran %d times", calls)
	}
}

func TestOwnerTreeFindOwnerDescends(t *testing.T) {
	inner := Leaf(tastybits.Addr(4), tastybits.Addr(6), tastybits.DEFDEF)
	outer := NewOwnerTree(tastybits.Addr(2), tastybits.Addr(8), tastybits.TEMPLATE, func() []*OwnerTree {
		return []*OwnerTree{inner}
	})
	root := NewOwnerTree(tastybits.Addr(0), tastybits.Addr(20), tastybits.PACKAGE, func() []*OwnerTree {
		return []*OwnerTree{outer}
	})
	found := root.FindOwner(tastybits.Addr(5))
	if found != inner {
		t.Errorf("FindOwner(5) should descend to the innermost containing node")
	}
	found = root.FindOwner(tastybits.Addr(3))
	if found != outer {
		t.Errorf("FindOwner(3) should stop at outer since inner doesn't contain it")
	}
}

func TestContextOwnerChainWalksOuterLinks(t *testing.T) {
	root := InitialContext(nil, "Foo.tasty")
	child := root.WithMode(ModeReadingParents).AddMode(ModeReadingAnnotation)
	chain := child.OwnerChain(func(s hostapi.Symbol) string { return "x" })
	if len(chain) < 2 {
		t.Errorf("OwnerChain should walk at least two frames, got %d", len(chain))
	}
}

func TestContextAddModeThenRetract(t *testing.T) {
	root := InitialContext(nil, "")
	withMode := root.AddMode(ModeReadingParents | ModeReadingAnnotation)
	if withMode.Mode()&ModeReadingParents == 0 || withMode.Mode()&ModeReadingAnnotation == 0 {
		t.Fatalf("AddMode should set both bits, got %b", withMode.Mode())
	}
	retracted := withMode.RetractMode(ModeReadingAnnotation)
	if retracted.Mode()&ModeReadingAnnotation != 0 {
		t.Errorf("RetractMode should clear the bit")
	}
	if retracted.Mode()&ModeReadingParents == 0 {
		t.Errorf("RetractMode should leave unrelated bits untouched")
	}
	if root.Mode() != ModeNone {
		t.Errorf("the original frame must remain unchanged (immutability)")
	}
}
