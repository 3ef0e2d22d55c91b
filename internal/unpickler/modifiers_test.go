package unpickler

import (
	"testing"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/hoststub"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
)

func TestReadModifiersModuleFlag(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t))
	buf := []byte{byte(tastybits.MODULE)}
	u := New(env, buf)

	mods, err := u.readModifiers(0, tastybits.Addr(len(buf)), symtab.InitialContext(nil, ""))
	if err != nil {
		t.Fatalf("readModifiers: %v", err)
	}
	if !mods.IsModule {
		t.Errorf("MODULE tag should set IsModule")
	}
}

func TestReadModifiersPrivateQualifiedRecordsWithin(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t))
	within := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("Q"), 0)

	w := &wbuf{}
	w.tag(tastybits.PRIVATEqualified)
	w.append(natOnly(tastybits.TYPEREFdirect, 99))
	buf := w.bytes()

	u := New(env, buf)
	// Pre-register the qualifier symbol at the address the TYPEREFdirect
	// points at, standing in for an already-indexed sibling the way
	// resolveSymbolAt expects one.
	u.syms.Set(tastybits.Addr(99), within)

	mods, err := u.readModifiers(0, tastybits.Addr(len(buf)), symtab.InitialContext(nil, ""))
	if err != nil {
		t.Fatalf("readModifiers: %v", err)
	}
	if mods.PrivateWithin != within {
		t.Errorf("PRIVATEqualified should record the read symbol as PrivateWithin, got %v", mods.PrivateWithin)
	}
}

func TestReadModifiersAnnotationDroppedUnderNoAnnotations(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t, "A"))
	env.NoAnnotations = true

	annBody := natOnly(tastybits.TYPEREFpkg, 1)
	buf := block(tastybits.ANNOTATION, annBody)

	u := New(env, buf)
	mods, err := u.readModifiers(0, tastybits.Addr(len(buf)), symtab.InitialContext(nil, ""))
	if err != nil {
		t.Fatalf("readModifiers: %v", err)
	}
	if len(mods.Annotations) != 0 {
		t.Errorf("NoAnnotations should drop every annotation thunk, got %d", len(mods.Annotations))
	}
}

func TestReadModifiersAnnotationThunkForcesLazily(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t, "A"))

	annBody := natOnly(tastybits.TYPEREFpkg, 1)
	buf := block(tastybits.ANNOTATION, annBody)

	u := New(env, buf)
	mods, err := u.readModifiers(0, tastybits.Addr(len(buf)), symtab.InitialContext(nil, ""))
	if err != nil {
		t.Fatalf("readModifiers: %v", err)
	}
	if len(mods.Annotations) != 1 {
		t.Fatalf("expected exactly one annotation thunk, got %d", len(mods.Annotations))
	}
	if ty := mods.Annotations[0](); ty == nil {
		t.Errorf("forcing the annotation thunk should yield a Type")
	}
}
