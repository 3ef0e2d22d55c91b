package hoststub

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

// stubMirror is a minimal package/class registry, generalizing
// internal/types/package.go's single *Package (one per compilation unit)
// to the small map of packages and top-level classes/modules a TASTy
// artifact can reference by fully qualified name.
type stubMirror struct {
	root     *symbol
	empty    *symbol
	packages map[string]*symbol
	classes  map[string]*symbol
	modules  map[string]*symbol
}

func newStubMirror() *stubMirror {
	m := &stubMirror{
		packages: make(map[string]*symbol),
		classes:  make(map[string]*symbol),
		modules:  make(map[string]*symbol),
	}
	m.root = &symbol{kind: hostapi.KindModuleClass, name: names.Empty, scope: NewScope(nil)}
	m.empty = &symbol{kind: hostapi.KindModuleClass, name: names.NewSimple("<empty>"), owner: m.root, scope: NewScope(m.root.scope)}
	return m
}

func fqnKey(fqn names.Name) string { return names.Debug(fqn) }

func (m *stubMirror) GetPackage(fqn names.Name) hostapi.Symbol {
	k := fqnKey(fqn)
	if pkg, ok := m.packages[k]; ok {
		return pkg
	}
	pkg := &symbol{kind: hostapi.KindModuleClass, name: fqn, owner: m.root, scope: NewScope(m.root.scope)}
	m.packages[k] = pkg
	return pkg
}

func (m *stubMirror) RootPackage() hostapi.Symbol { return m.root }

func (m *stubMirror) EmptyPackage() hostapi.Symbol { return m.empty }

func (m *stubMirror) ClassIfDefined(fqn names.Name) hostapi.Symbol {
	if c, ok := m.classes[fqnKey(fqn)]; ok {
		return c
	}
	return nil
}

func (m *stubMirror) ModuleIfDefined(fqn names.Name) hostapi.Symbol {
	if c, ok := m.modules[fqnKey(fqn)]; ok {
		return c
	}
	return nil
}

// Register records sym as the class/module known under fqn, so a later
// ClassIfDefined/ModuleIfDefined call can find a root symbol the
// unpickler adopted (spec.md §4.6.3 "Root match").
func (m *stubMirror) Register(fqn names.Name, sym hostapi.Symbol, isModule bool) {
	s := asSymbol(sym)
	if isModule {
		m.modules[fqnKey(fqn)] = s
	} else {
		m.classes[fqnKey(fqn)] = s
	}
}
