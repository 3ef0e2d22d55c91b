// Package names implements the TASTy name algebra (spec.md §3, §4.2): a
// small closed set of ways a name can be built from simpler names, a dense
// table of them read once from the wire, and three renderers that turn a
// Name back into a string for different audiences.
package names

import "fmt"

// Name is the interface implemented by every name variant. Beyond the
// marker method it carries only String (a debug rendering), matching the
// closed-sum-type shape internal/types/type.go uses for its own Type
// interface.
type Name interface {
	// isName restricts implementations to this package.
	isName()
	fmt.Stringer
}

type name struct{}

func (name) isName() {}

// Simple is a raw identifier fragment, the leaf of every other variant.
type Simple struct {
	name
	Text string
}

func NewSimple(text string) Simple { return Simple{Text: text} }

func (s Simple) String() string { return s.Text }

// Empty is the zero-length Simple name, used as Qualified's base and as
// Unique's qual for compiler-synthesized wildcard names.
var Empty = Simple{}

// Qualified is a dotted path: qual, an explicit separator name, then a
// selector.
type Qualified struct {
	name
	Qual     Name
	Sep      Name
	Selector Name
}

func NewQualified(qual, sep, selector Name) Qualified {
	return Qualified{Qual: qual, Sep: sep, Selector: selector}
}

func (q Qualified) String() string {
	return q.Qual.String() + q.Sep.String() + q.Selector.String()
}

// Module is the view of Base as the module's companion class name.
type Module struct {
	name
	Base Name
}

func NewModule(base Name) Module { return Module{Base: base} }

func (m Module) String() string { return m.Base.String() }

// TypeView is the view of Base as a type. Construction collapses
// TypeView(TypeView(n)) to TypeView(n) so the idempotence invariant
// (spec.md §3) holds structurally rather than needing a special case at
// every comparison site.
type TypeView struct {
	name
	Base Name
}

// NewTypeView builds the type-view of base, collapsing nested views.
func NewTypeView(base Name) TypeView {
	if tv, ok := base.(TypeView); ok {
		return tv
	}
	return TypeView{Base: base}
}

func (t TypeView) String() string { return t.Base.String() }

// MethodSig carries the erased parameter and result type references that
// disambiguate an overload on the wire.
type MethodSig struct {
	ParamTypes []NameRef
	Result     NameRef
}

// Signed is an overload-disambiguating adornment. It is only ever
// constructed with a method signature (spec.md §3 invariant).
type Signed struct {
	name
	Qual Name
	Sig  MethodSig
}

func NewSigned(qual Name, sig MethodSig) Signed {
	return Signed{Qual: qual, Sig: sig}
}

func (s Signed) String() string { return s.Qual.String() }

// Unique is an internally generated fresh name with a numeric tag. The
// wildcard name is Unique(Empty, "_$", n) for some n.
type Unique struct {
	name
	Qual Name
	Sep  string
	N    int
}

func NewUnique(qual Name, sep string, n int) Unique {
	return Unique{Qual: qual, Sep: sep, N: n}
}

// IsWildcard reports whether u is the compiler-synthesized wildcard name.
func (u Unique) IsWildcard() bool {
	return u.Qual == Empty && u.Sep == "_$"
}

func (u Unique) String() string {
	return fmt.Sprintf("%s%s%d", u.Qual, u.Sep, u.N)
}

// Default is the n-th default-argument getter for qual.
type Default struct {
	name
	Qual Name
	N    int
}

func NewDefault(qual Name, n int) Default { return Default{Qual: qual, N: n} }

func (d Default) String() string {
	return fmt.Sprintf("%s$default$%d", d.Qual, d.N+1)
}

// Prefix is a prefix decoration, e.g. a super- or inline-access marker.
type Prefix struct {
	name
	PrefixName Name
	Qual       Name
}

func NewPrefix(prefix, qual Name) Prefix { return Prefix{PrefixName: prefix, Qual: qual} }

func (p Prefix) String() string { return p.PrefixName.String() + p.Qual.String() }

// Constructor is the fixed name every primary/secondary constructor is
// stored under on the wire.
var Constructor Name = Simple{Text: "<init>"}

// Equal reports whether a and b are structurally identical names. Because
// NewTypeView already collapses nested views at construction time, a plain
// deep comparison (rather than a normalize-then-compare routine) suffices
// here — the same trick internal/types/predicates.go relies on for Named
// type identity.
func Equal(a, b Name) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Simple:
		y, ok := b.(Simple)
		return ok && x.Text == y.Text
	case Qualified:
		y, ok := b.(Qualified)
		return ok && Equal(x.Qual, y.Qual) && Equal(x.Sep, y.Sep) && Equal(x.Selector, y.Selector)
	case Module:
		y, ok := b.(Module)
		return ok && Equal(x.Base, y.Base)
	case TypeView:
		y, ok := b.(TypeView)
		return ok && Equal(x.Base, y.Base)
	case Signed:
		y, ok := b.(Signed)
		return ok && Equal(x.Qual, y.Qual) && equalSig(x.Sig, y.Sig)
	case Unique:
		y, ok := b.(Unique)
		return ok && Equal(x.Qual, y.Qual) && x.Sep == y.Sep && x.N == y.N
	case Default:
		y, ok := b.(Default)
		return ok && Equal(x.Qual, y.Qual) && x.N == y.N
	case Prefix:
		y, ok := b.(Prefix)
		return ok && Equal(x.PrefixName, y.PrefixName) && Equal(x.Qual, y.Qual)
	default:
		return false
	}
}

func equalSig(a, b MethodSig) bool {
	if a.Result != b.Result || len(a.ParamTypes) != len(b.ParamTypes) {
		return false
	}
	for i := range a.ParamTypes {
		if a.ParamTypes[i] != b.ParamTypes[i] {
			return false
		}
	}
	return true
}
