package unpickler

import (
	"testing"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/hoststub"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/tastybits"
)

// kindOf/infoOf narrow an opaque hostapi.Symbol back to the small
// accessor surface hoststub's concrete symbol exposes, the same
// capability-typed assertion create.go's ownerKindOf uses — the concrete
// type itself is unexported, so this is the only way a test outside
// package hoststub can inspect what a stub symbol carries.
func kindOf(t *testing.T, s hostapi.Symbol) hostapi.SymbolKind {
	t.Helper()
	k, ok := s.(interface{ Kind() hostapi.SymbolKind })
	if !ok {
		t.Fatalf("symbol %v has no Kind() accessor", s)
	}
	return k.Kind()
}

func infoOf(t *testing.T, s hostapi.Symbol) hostapi.Type {
	t.Helper()
	i, ok := s.(interface{ Info() hostapi.Type })
	if !ok {
		t.Fatalf("symbol %v has no Info() accessor", s)
	}
	return i.Info()
}

// buildPlainValPackage assembles a top-level "package p; val x: <pkg p>"
// artifact: a PACKAGE statement wrapping a package type reference, followed
// by one VALDEF member with a package-typed type slot and no RHS.
func buildPlainValPackage(t *testing.T) ([]byte, *names.Table) {
	t.Helper()
	table := nameTableSimple(t, "p", "x")

	valBody := &wbuf{}
	valBody.nat(2) // name ref "x"
	valBody.append(natOnly(tastybits.TYPEREFpkg, 1))
	valBody.append(emptyTree())
	valDef := block(tastybits.VALDEF, valBody.bytes())

	pkgBody := &wbuf{}
	pkgBody.append(natOnly(tastybits.TYPEREFpkg, 1))
	pkgBody.append(valDef)
	pkg := block(tastybits.PACKAGE, pkgBody.bytes())

	return pkg, table
}

func TestUnpicklePlainValAtPackageLevel(t *testing.T) {
	buf, table := buildPlainValPackage(t)
	host := hoststub.New()
	env := newEnv(host, table)

	classRoot := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("Root"), 0)
	moduleRoot := host.Symbols.NewSymbol(nil, hostapi.KindModuleVal, names.NewSimple("Root$"), 0)
	host.Scopes.NewScope(classRoot)

	u := New(env, buf)
	if err := u.Unpickle(classRoot, moduleRoot); err != nil {
		t.Fatalf("Unpickle: %v", err)
	}

	pkgSym := host.Mirror.GetPackage(names.NewSimple("p"))
	got := host.Scopes.Lookup(pkgSym, names.NewSimple("x"))
	if got == nil {
		t.Fatalf("expected \"x\" to be entered in package p's scope")
	}
	if kindOf(t, got) != hostapi.KindMethod {
		t.Errorf("a plain VALDEF should become KindMethod (no dedicated field kind), got %v", kindOf(t, got))
	}
	if infoOf(t, got) == nil {
		t.Errorf("expected x's Info to be set by completion")
	}
}

// buildRootClassTemplate assembles "package p; class C" where C's TYPEDEF
// is expected to adopt the caller-supplied classRoot symbol (spec.md
// §4.6.3 "Root match"), with an empty TEMPLATE body (no parents, no
// self-type, no members).
func buildRootClassTemplate(t *testing.T) ([]byte, *names.Table) {
	t.Helper()
	table := nameTableSimple(t, "p", "C")

	tmplBody := &wbuf{}
	tmplBody.nat(0) // parent count
	tmplBody.nat(0) // no self-type
	template := block(tastybits.TEMPLATE, tmplBody.bytes())

	typedefBody := &wbuf{}
	typedefBody.nat(2) // name ref "C"
	typedefBody.append(template)
	// no modifiers
	typedef := block(tastybits.TYPEDEF, typedefBody.bytes())

	pkgBody := &wbuf{}
	pkgBody.append(natOnly(tastybits.TYPEREFpkg, 1))
	pkgBody.append(typedef)
	pkg := block(tastybits.PACKAGE, pkgBody.bytes())

	return pkg, table
}

func TestUnpickleRootClassMatchAdoptsClassRoot(t *testing.T) {
	buf, table := buildRootClassTemplate(t)
	host := hoststub.New()
	env := newEnv(host, table)

	classRoot := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("C"), 0)
	moduleRoot := host.Symbols.NewSymbol(nil, hostapi.KindModuleVal, names.NewSimple("C$"), 0)
	host.Scopes.NewScope(classRoot)

	u := New(env, buf)
	if err := u.Unpickle(classRoot, moduleRoot); err != nil {
		t.Fatalf("Unpickle: %v", err)
	}

	pkgSym := host.Mirror.GetPackage(names.NewSimple("p"))
	got := host.Scopes.Lookup(pkgSym, names.NewSimple("C"))
	if got != classRoot {
		t.Fatalf("expected the root TYPEDEF to adopt classRoot rather than allocate a fresh symbol")
	}
	if infoOf(t, classRoot) == nil {
		t.Errorf("expected classRoot's Info (a ClassInfoType) to be set by completion")
	}
}

// TestUnpickleForwardReferenceResolvesOnDemand assembles a VALDEF at the package level whose type
// slot references a second, later VALDEF by direct address (spec.md §4.6.6
// TYPEREFdirect) — exercising resolveSymbolAt's on-demand indexing path
// rather than the ordinary indexStats-first-then-complete order.
func TestUnpickleForwardReferenceResolvesOnDemand(t *testing.T) {
	table := nameTableSimple(t, "p", "first", "second")
	host := hoststub.New()
	env := newEnv(host, table)

	// second's body: name ref, type (package ref), no RHS, no modifiers.
	secondBody := &wbuf{}
	secondBody.nat(3) // "second"
	secondBody.append(natOnly(tastybits.TYPEREFpkg, 1))
	secondBody.append(emptyTree())
	secondDef := block(tastybits.VALDEF, secondBody.bytes())

	// first's type slot is a TYPEREFdirect pointing at second's address.
	// The address is computed after laying out the package prefix:
	// [PACKAGE tag+length][TYPEREFpkg tag+nat][firstDef][secondDef], so second's address is
	// known once firstDef's own length is fixed — built by reserving the
	// placeholder and patching it in, the same two-pass approach a real
	// encoder would need for any forward link.
	pkgPrefix := natOnly(tastybits.TYPEREFpkg, 1)

	// First, lay out firstDef with a placeholder target of 0, to learn its
	// length, then compute second's real address and rebuild.
	buildFirst := func(target uint64) []byte {
		firstBody := &wbuf{}
		firstBody.nat(2) // "first"
		firstBody.append(natOnly(tastybits.TYPEREFdirect, target))
		firstBody.append(emptyTree())
		return block(tastybits.VALDEF, firstBody.bytes())
	}

	const pkgHeader = 2 // PACKAGE tag byte plus its one-byte length prefix
	firstDefGuess := buildFirst(0)
	secondAddr := uint64(pkgHeader + len(pkgPrefix) + len(firstDefGuess))
	firstDef := buildFirst(secondAddr)
	if len(firstDef) != len(firstDefGuess) {
		t.Fatalf("forward-address patch changed firstDef's length (%d vs %d); natOnly's varint width assumption broke", len(firstDef), len(firstDefGuess))
	}

	pkgBody := &wbuf{}
	pkgBody.append(pkgPrefix)
	pkgBody.append(firstDef)
	pkgBody.append(secondDef)
	buf := block(tastybits.PACKAGE, pkgBody.bytes())

	classRoot := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("Root"), 0)
	moduleRoot := host.Symbols.NewSymbol(nil, hostapi.KindModuleVal, names.NewSimple("Root$"), 0)
	host.Scopes.NewScope(classRoot)

	u := New(env, buf)
	if err := u.Unpickle(classRoot, moduleRoot); err != nil {
		t.Fatalf("Unpickle: %v", err)
	}

	pkgSym := host.Mirror.GetPackage(names.NewSimple("p"))
	first := host.Scopes.Lookup(pkgSym, names.NewSimple("first"))
	second := host.Scopes.Lookup(pkgSym, names.NewSimple("second"))
	if first == nil || second == nil {
		t.Fatalf("expected both first and second to be registered, got first=%v second=%v", first, second)
	}
	if infoOf(t, first) == nil {
		t.Errorf("expected first's Info (a TypeRef to second) to be set")
	}
	if infoOf(t, second) == nil {
		t.Errorf("expected second to have been completed as a side effect of resolving first's forward reference")
	}
}
