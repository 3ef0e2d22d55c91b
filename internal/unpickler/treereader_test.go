package unpickler

import (
	"testing"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/hoststub"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
)

func TestReadTermIdent(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t, "p", "x"))

	owner := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("Owner"), 0)
	host.Scopes.NewScope(owner)
	xSym := host.Symbols.NewSymbol(owner, hostapi.KindMethod, names.NewSimple("x"), 0)
	host.Scopes.Enter(owner, xSym)

	w := &wbuf{}
	w.tag(tastybits.IDENT)
	w.nat(2) // name ref "x"
	w.append(natOnly(tastybits.TYPEREFpkg, 1))
	buf := w.bytes()

	u := New(env, buf)
	res, err := u.readTerm(symtab.InitialContext(owner, ""))
	if err != nil {
		t.Fatalf("readTerm: %v", err)
	}
	if res.Type == nil {
		t.Errorf("expected IDENT to carry a Type")
	}
	if res.Sym != xSym {
		t.Errorf("expected IDENT \"x\" to resolve to the symbol entered in owner's scope, got %v", res.Sym)
	}
}

func TestReadTermSelect(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t, "p", "x"))

	owner := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("Owner"), 0)
	host.Scopes.NewScope(owner)
	xSym := host.Symbols.NewSymbol(owner, hostapi.KindMethod, names.NewSimple("x"), 0)
	host.Scopes.Enter(owner, xSym)

	identBody := &wbuf{}
	identBody.tag(tastybits.IDENT)
	identBody.nat(2)
	identBody.append(natOnly(tastybits.TYPEREFpkg, 1))

	selectBody := &wbuf{}
	selectBody.nat(2) // name ref "x", reused for the select itself
	selectBody.append(identBody.bytes())
	buf := block(tastybits.SELECT, selectBody.bytes())

	u := New(env, buf)
	res, err := u.readTerm(symtab.InitialContext(owner, ""))
	if err != nil {
		t.Fatalf("readTerm: %v", err)
	}
	if res.Type == nil {
		t.Errorf("expected SELECT to carry a Type")
	}
}

func TestReadTermApply(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t, "p", "x"))

	owner := host.Symbols.NewSymbol(nil, hostapi.KindClass, names.NewSimple("Owner"), 0)
	host.Scopes.NewScope(owner)
	xSym := host.Symbols.NewSymbol(owner, hostapi.KindMethod, names.NewSimple("x"), 0)
	host.Scopes.Enter(owner, xSym)

	fn := &wbuf{}
	fn.tag(tastybits.IDENT)
	fn.nat(2)
	fn.append(natOnly(tastybits.TYPEREFpkg, 1))

	applyBody := &wbuf{}
	applyBody.append(fn.bytes())
	applyBody.nat(0) // zero arguments
	buf := block(tastybits.APPLY, applyBody.bytes())

	u := New(env, buf)
	res, err := u.readTerm(symtab.InitialContext(owner, ""))
	if err != nil {
		t.Fatalf("readTerm: %v", err)
	}
	if res.Sym != xSym {
		t.Errorf("APPLY should resolve to its callee's symbol, got %v", res.Sym)
	}
}

func TestReadTermLambdaIsUnsupported(t *testing.T) {
	host := hoststub.New()
	env := newEnv(host, nameTableSimple(t, "p"))
	buf := []byte{byte(tastybits.LAMBDA)}

	u := New(env, buf)
	if _, err := u.readTerm(symtab.InitialContext(nil, "")); err == nil {
		t.Fatalf("expected LAMBDA to be refused as unsupported")
	}
}
