package hoststub

import (
	"testing"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

func testSymbol(name string) *symbol {
	return &symbol{kind: hostapi.KindMethod, name: names.NewSimple(name)}
}

func TestScopeEnterIfNewRejectsDuplicate(t *testing.T) {
	s := NewScope(nil)
	x := testSymbol("x")
	existing, inserted := s.EnterIfNew(x)
	if !inserted || existing != nil {
		t.Fatalf("first EnterIfNew: inserted=%v existing=%v, want true, nil", inserted, existing)
	}
	dup := testSymbol("x")
	existing, inserted = s.EnterIfNew(dup)
	if inserted {
		t.Errorf("EnterIfNew should refuse a duplicate name")
	}
	if existing != x {
		t.Errorf("EnterIfNew should return the first symbol on a duplicate")
	}
}

func TestScopeEnterAllowsOverloads(t *testing.T) {
	s := NewScope(nil)
	a := testSymbol("f")
	b := testSymbol("f")
	s.Enter(a)
	s.Enter(b)
	members := s.Members()
	if len(members) != 2 {
		t.Fatalf("Members() = %d entries, want 2 overloads", len(members))
	}
	if members[0] != a || members[1] != b {
		t.Errorf("Members() should preserve source (insertion) order")
	}
}

func TestScopeLookupParentSearchesAncestors(t *testing.T) {
	parent := NewScope(nil)
	child := NewScope(parent)
	x := testSymbol("x")
	parent.Enter(x)

	found, foundScope := child.LookupParent(x.name)
	if found != x {
		t.Errorf("LookupParent did not find the parent's symbol")
	}
	if foundScope != parent {
		t.Errorf("LookupParent returned the wrong scope")
	}
	if child.Lookup(x.name) != nil {
		t.Errorf("direct Lookup in child must not see the parent's symbol")
	}
}

func TestScopeCloneIsIndependent(t *testing.T) {
	s := NewScope(nil)
	s.Enter(testSymbol("a"))
	clone := s.Clone()
	clone.Enter(testSymbol("b"))
	if len(s.Members()) != 1 {
		t.Errorf("mutating a clone must not affect the original scope")
	}
	if len(clone.Members()) != 2 {
		t.Errorf("Clone() should start from a copy of the original's members")
	}
}

func TestMirrorGetPackageIsStable(t *testing.T) {
	m := newStubMirror()
	fqn := names.NewSimple("scala")
	a := m.GetPackage(fqn)
	b := m.GetPackage(fqn)
	if a != b {
		t.Errorf("GetPackage should return the same symbol for the same fqn")
	}
}

func TestMirrorClassIfDefinedUnknown(t *testing.T) {
	m := newStubMirror()
	if m.ClassIfDefined(names.NewSimple("Nope")) != nil {
		t.Errorf("ClassIfDefined should return nil for an unregistered name")
	}
}

func TestEscaperReplacesSymbolicCharacters(t *testing.T) {
	e := stubEscaper{}
	if got, want := e.Escape("+"), "$plus"; got != want {
		t.Errorf("Escape(%q) = %q, want %q", "+", got, want)
	}
	if got, want := e.Escape("eq"), "eq"; got != want {
		t.Errorf("Escape should leave ordinary identifiers untouched, got %q", got)
	}
}
