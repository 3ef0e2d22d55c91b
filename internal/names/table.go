package names

import (
	"fmt"

	"github.com/tastyread/tasty/internal/tastybits"
)

// NameRef is a 1-based index into a Table, exactly as the wire format uses
// it (spec.md §6: "Names reference the name table by 1-based index").
// NoNameRef (0) means "absent" wherever a NameRef field is optional.
type NameRef int32

const NoNameRef NameRef = 0

// IsValid reports whether r refers to a real table entry.
func (r NameRef) IsValid() bool { return r > 0 }

// Table is the dense array of Name values a TASTy artifact's name section
// decodes to. It is built once and read many times; ReadTable is the only
// way to mutate it.
type Table struct {
	entries []Name // entries[i] is the name at NameRef(i+1)
}

// Resolve returns the Name bound to ref. It panics on an out-of-range ref,
// which can only happen for a malformed artifact; its callers (ReadTable's
// own decoding and the unpickler) pass wire refs to it unchecked.
func (t *Table) Resolve(ref NameRef) Name {
	if !ref.IsValid() || int(ref) > len(t.entries) {
		panic(fmt.Sprintf("invalid name ref %d (table has %d entries)", ref, len(t.entries)))
	}
	return t.entries[ref-1]
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return len(t.entries) }

// Wire tags for name-table entries. Distinct from tastybits.Tag, which
// tags tree/type nodes; the name table has its own small, flat vocabulary.
const (
	entrySimple byte = iota + 1
	entryQualified
	entryModule
	entryTypeView
	entrySigned
	entryUnique
	entryDefault
	entryPrefix
)

// ReadTable reads a length-prefixed name-table section: a count, then that
// many entries in order, each allowed to reference only strictly earlier
// entries.
func ReadTable(c *tastybits.Cursor) (*Table, error) {
	count := c.ReadNat()
	t := &Table{entries: make([]Name, 0, count)}
	for i := uint64(0); i < count; i++ {
		n, err := t.readEntry(c)
		if err != nil {
			return nil, fmt.Errorf("name table entry %d: %w", i, err)
		}
		t.entries = append(t.entries, n)
	}
	return t, nil
}

func (t *Table) readEntry(c *tastybits.Cursor) (Name, error) {
	tag := c.ReadByte()
	switch tag {
	case entrySimple:
		return NewSimple(c.ReadUTF8()), nil
	case entryQualified:
		qual := t.Resolve(NameRef(c.ReadNat()))
		sep := t.Resolve(NameRef(c.ReadNat()))
		sel := t.Resolve(NameRef(c.ReadNat()))
		return NewQualified(qual, sep, sel), nil
	case entryModule:
		return NewModule(t.Resolve(NameRef(c.ReadNat()))), nil
	case entryTypeView:
		return NewTypeView(t.Resolve(NameRef(c.ReadNat()))), nil
	case entrySigned:
		qual := t.Resolve(NameRef(c.ReadNat()))
		n := c.ReadNat()
		params := make([]NameRef, n)
		for i := range params {
			params[i] = NameRef(c.ReadNat())
		}
		result := NameRef(c.ReadNat())
		return NewSigned(qual, MethodSig{ParamTypes: params, Result: result}), nil
	case entryUnique:
		qual := t.Resolve(NameRef(c.ReadNat()))
		sep := c.ReadUTF8()
		num := int(c.ReadNat())
		return NewUnique(qual, sep, num), nil
	case entryDefault:
		qual := t.Resolve(NameRef(c.ReadNat()))
		n := int(c.ReadNat())
		return NewDefault(qual, n), nil
	case entryPrefix:
		prefix := t.Resolve(NameRef(c.ReadNat()))
		qual := t.Resolve(NameRef(c.ReadNat()))
		return NewPrefix(prefix, qual), nil
	default:
		return nil, fmt.Errorf("unknown name-table entry tag %d", tag)
	}
}
