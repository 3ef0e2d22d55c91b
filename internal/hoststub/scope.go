package hoststub

import (
	"sort"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

// Scope is a lexical scope over stub symbols, generalizing
// internal/types/scope.go's Scope from a single string key to a names.Name
// key (TASTy names carry more structure than plain Go identifiers) while
// keeping the same parent/children tree and enter-if-new insertion rule
// spec.md §8 property 6 requires ("non-overloadable symbols appear at most
// once").
type Scope struct {
	parent   *Scope
	children []*Scope
	order    []*symbol          // insertion order, for source-order enumeration
	elems    map[string][]*symbol // keyed by names.Debug rendering; slice holds overloads
}

// NewScope creates a scope as a child of parent (parent may be nil for a
// root scope).
func NewScope(parent *Scope) *Scope {
	s := &Scope{parent: parent, elems: make(map[string][]*symbol)}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

func key(n names.Name) string { return names.Debug(n) }

// Lookup returns the symbol bound to name in this scope only (no parent
// search), matching internal/types/scope.go's Lookup.
func (s *Scope) Lookup(name names.Name) *symbol {
	entries := s.elems[key(name)]
	if len(entries) == 0 {
		return nil
	}
	return entries[0]
}

// LookupParent searches this scope then its ancestors, exactly like
// internal/types/scope.go's LookupParent.
func (s *Scope) LookupParent(name names.Name) (*symbol, *Scope) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym := sc.Lookup(name); sym != nil {
			return sym, sc
		}
	}
	return nil, nil
}

// Enter inserts sym unconditionally, appending to any existing overload
// set. Used for method/value overloads spec.md §8 allows to repeat.
func (s *Scope) Enter(sym *symbol) {
	k := key(sym.name)
	s.elems[k] = append(s.elems[k], sym)
	s.order = append(s.order, sym)
}

// EnterIfNew inserts sym only if no symbol of the same rendered name
// exists yet, matching spec.md §8 property 6 ("non-overloadable symbols
// appear at most once") and internal/types/scope.go's Insert semantics.
func (s *Scope) EnterIfNew(sym *symbol) (existing *symbol, inserted bool) {
	k := key(sym.name)
	if len(s.elems[k]) > 0 {
		return s.elems[k][0], false
	}
	s.elems[k] = []*symbol{sym}
	s.order = append(s.order, sym)
	return nil, true
}

// Clone returns a fresh scope with the same parent and a shallow copy of
// this scope's entries — used when a refined type's nested refinement
// flattens an inherited scope (spec.md §4.6.6 "Refined").
func (s *Scope) Clone() *Scope {
	c := NewScope(s.parent)
	for k, v := range s.elems {
		cp := make([]*symbol, len(v))
		copy(cp, v)
		c.elems[k] = cp
	}
	c.order = append([]*symbol(nil), s.order...)
	return c
}

// Members returns every symbol in source order (spec.md §5 "member
// enumeration order within an owner matches source order").
func (s *Scope) Members() []*symbol {
	return s.order
}

// Names returns the rendered keys present in the scope, sorted, for
// deterministic debug output (mirrors internal/types/scope.go's Names).
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.elems))
	for k := range s.elems {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// stubScopeOps adapts *Scope to hostapi.ScopeOps, converting the opaque
// hostapi.Symbol/Scope handles at the boundary.
type stubScopeOps struct{}

func (stubScopeOps) NewScope(owner hostapi.Symbol) hostapi.Symbol {
	s := asSymbol(owner)
	sc := NewScope(nil)
	s.scope = sc
	return owner
}

func (stubScopeOps) Enter(scope hostapi.Symbol, sym hostapi.Symbol) {
	asSymbol(scope).scope.Enter(asSymbol(sym))
}

func (stubScopeOps) EnterIfNew(scope hostapi.Symbol, sym hostapi.Symbol) (hostapi.Symbol, bool) {
	existing, inserted := asSymbol(scope).scope.EnterIfNew(asSymbol(sym))
	if existing == nil {
		return nil, inserted
	}
	return existing, inserted
}

func (stubScopeOps) Clone(scope hostapi.Symbol) hostapi.Symbol {
	s := asSymbol(scope)
	clone := &symbol{kind: s.kind, name: s.name, flags: s.flags, scope: s.scope.Clone()}
	return clone
}

func (stubScopeOps) Lookup(scope hostapi.Symbol, name names.Name) hostapi.Symbol {
	sym := asSymbol(scope).scope.Lookup(name)
	if sym == nil {
		return nil
	}
	return sym
}
