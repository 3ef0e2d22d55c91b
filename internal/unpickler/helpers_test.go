package unpickler

import (
	"testing"

	"github.com/tastyread/tasty/internal/hoststub"
	"github.com/tastyread/tasty/internal/names"
	"github.com/tastyread/tasty/internal/tastybits"
)

// wbuf is a tiny byte-buffer builder for hand-assembling wire snippets in
// tests, in the same spirit as tastybits' own cursor_test.go appendNat/
// zigzag helpers: a fixture encoder that mirrors the decode side without
// depending on a separate, real encoder existing anywhere in this module.
type wbuf struct {
	b []byte
}

func (w *wbuf) nat(v uint64) *wbuf {
	for v >= 0x80 {
		w.b = append(w.b, byte(v)|0x80)
		v >>= 7
	}
	w.b = append(w.b, byte(v))
	return w
}

func (w *wbuf) tag(t tastybits.Tag) *wbuf {
	w.b = append(w.b, byte(t))
	return w
}

func (w *wbuf) raw(bs ...byte) *wbuf {
	w.b = append(w.b, bs...)
	return w
}

func (w *wbuf) append(other []byte) *wbuf {
	w.b = append(w.b, other...)
	return w
}

func (w *wbuf) bytes() []byte { return w.b }

// block wraps body behind tag and its length prefix, the layout every
// LengthPrefixed tag uses (spec.md §4.1, §4.5).
func block(t tastybits.Tag, body []byte) []byte {
	w := &wbuf{}
	w.tag(t)
	w.nat(uint64(len(body)))
	return w.append(body).bytes()
}

// natOnly encodes a NatOnly tag followed by its naturals (e.g. TYPEREFpkg,
// TYPEREFdirect, EMPTYTREE with zero naturals).
func natOnly(t tastybits.Tag, nats ...uint64) []byte {
	w := &wbuf{}
	w.tag(t)
	for _, n := range nats {
		w.nat(n)
	}
	return w.bytes()
}

// emptyTree is the one-byte EMPTYTREE marker (spec.md §4.5, tastybits/tags.go).
func emptyTree() []byte { return []byte{byte(tastybits.EMPTYTREE)} }

// nameTableSimple builds the wire form of a name-table section holding
// entries as plain Simple names, in declaration order, then decodes it
// through names.ReadTable — the only exported way to build a *names.Table,
// keeping tests honest about the actual wire format rather than
// constructing a Table by hand.
func nameTableSimple(t *testing.T, entries ...string) *names.Table {
	t.Helper()
	w := &wbuf{}
	w.nat(uint64(len(entries)))
	for _, e := range entries {
		w.raw(1) // entrySimple, names/table.go
		w.nat(uint64(len(e)))
		w.b = append(w.b, e...)
	}
	table, err := names.ReadTable(tastybits.NewCursor(w.b))
	if err != nil {
		t.Fatalf("nameTableSimple(%v): %v", entries, err)
	}
	return table
}

// newEnv wires a fresh hoststub.Env into an *Env with table, the same
// assembly a real host performs per spec.md §6.
func newEnv(host *hoststub.Env, table *names.Table) *Env {
	return &Env{
		Symbols: host.Symbols,
		Types:   host.Types,
		Scopes:  host.Scopes,
		Mirror:  host.Mirror,
		Phases:  host.Phases,
		Escaper: host.Escaper,
		Report:  host.Report,
		Names:   table,
	}
}
