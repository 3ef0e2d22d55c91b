package symtab

import (
	"github.com/tastyread/tasty/internal/flagxlat"
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/tastybits"
	"github.com/tastyread/tasty/internal/tastyerr"
)

// Completer is the deferred procedure attached to a symbol (spec.md §3,
// GLOSSARY). It carries the byte subrange to re-read, the accumulated
// TASTy-only flags, and optional delayed module linkage, and runs at most
// once per symbol.
type Completer struct {
	Start, End tastybits.Addr
	Tasty      flagxlat.TastyFlagSet

	// DelayedModuleClass/DelayedSourceModule are set when creating this
	// symbol required deferring the module-class/source-module back-link
	// spec.md §3 mentions until the partner symbol exists.
	DelayedModuleClass  hostapi.Symbol
	DelayedSourceModule hostapi.Symbol

	run  func(c *Completer) (hostapi.Type, error)
	done bool
}

// NewCompleter builds a Completer over [start, end) that invokes run on
// first Complete.
func NewCompleter(start, end tastybits.Addr, run func(c *Completer) (hostapi.Type, error)) *Completer {
	return &Completer{Start: start, End: end, run: run}
}

// Done reports whether Complete has already run, satisfying spec.md §8
// property 4 ("info is never a Completer" once resolved).
func (c *Completer) Done() bool { return c.done }

// Complete runs the completer's body exactly once; subsequent calls are a
// no-op returning the zero Type, since callers are expected to check Done
// or rely on the symbol's cached Info instead of calling Complete twice.
func (c *Completer) Complete() (hostapi.Type, error) {
	if c.done {
		return nil, nil
	}
	info, err := c.run(c)
	c.done = true
	return info, err
}

// CycleGuard is the cycleAtAddr map of spec.md §3: a re-entrant completion
// at the same address is a hard error, never silently tolerated.
type CycleGuard struct {
	inProgress map[tastybits.Addr]bool
}

// NewCycleGuard returns an empty guard.
func NewCycleGuard() *CycleGuard {
	return &CycleGuard{inProgress: make(map[tastybits.Addr]bool)}
}

// Enter marks addr InProgress. It returns a CyclicReferenceError if addr
// was already InProgress — the caller must not descend further in that
// case.
func (g *CycleGuard) Enter(addr tastybits.Addr) error {
	if g.inProgress[addr] {
		return tastyerr.NewCyclicReference(addr)
	}
	g.inProgress[addr] = true
	return nil
}

// Leave clears addr's InProgress bit on successful completion (spec.md §3:
// "entering InProgress before descent and removes it on successful
// return").
func (g *CycleGuard) Leave(addr tastybits.Addr) {
	delete(g.inProgress, addr)
}

// Empty reports whether no address remains InProgress — spec.md §8
// property 5 requires this to hold at the end of unpickling whenever no
// cyclic-reference error was raised.
func (g *CycleGuard) Empty() bool { return len(g.inProgress) == 0 }

// TypeAtAddr binds addresses of type subtrees to the Type read there, so a
// later SHAREDtype or RECthis reference to the same address gets that value
// back (spec.md §3). An entry can be replaced: RECtype seeds a NoType
// placeholder at its own address before reading its body and replaces it
// with the body afterwards, so a RECthis read inside that body gets the
// placeholder, not the finished type.
type TypeAtAddr struct {
	entries map[tastybits.Addr]hostapi.Type
}

// NewTypeAtAddr returns an empty cache.
func NewTypeAtAddr() *TypeAtAddr {
	return &TypeAtAddr{entries: make(map[tastybits.Addr]hostapi.Type)}
}

// Seed records ty at addr, replacing any earlier entry. In
// internal/unpickler, RECtype calls it twice for its own address
// (placeholder, then body) and SHAREDtype calls it after reading its
// target; neither call goes through CycleGuard.
func (t *TypeAtAddr) Seed(addr tastybits.Addr, ty hostapi.Type) {
	t.entries[addr] = ty
}

// Lookup returns the type seeded at addr, or nil if none was seeded (on a
// miss, SHAREDtype reads the target itself and seeds the result).
func (t *TypeAtAddr) Lookup(addr tastybits.Addr) hostapi.Type {
	return t.entries[addr]
}

// SymAtAddr is the symAtAddr map of spec.md §3/§4.6.3: every address the
// indexer ever passes to symbol creation resolves here afterward.
type SymAtAddr struct {
	entries map[tastybits.Addr]hostapi.Symbol
}

// NewSymAtAddr returns an empty map.
func NewSymAtAddr() *SymAtAddr {
	return &SymAtAddr{entries: make(map[tastybits.Addr]hostapi.Symbol)}
}

// Set records sym at addr (spec.md §4.6.3: "Register (addr -> sym)").
func (m *SymAtAddr) Set(addr tastybits.Addr, sym hostapi.Symbol) {
	m.entries[addr] = sym
}

// Get returns the symbol at addr, or nil if none was ever registered.
func (m *SymAtAddr) Get(addr tastybits.Addr) hostapi.Symbol {
	return m.entries[addr]
}

// Has reports whether addr has a registered symbol.
func (m *SymAtAddr) Has(addr tastybits.Addr) bool {
	_, ok := m.entries[addr]
	return ok
}
