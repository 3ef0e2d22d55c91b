package hoststub

import (
	"strings"

	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

// hostType is the stub implementation of hostapi.Type. Unlike
// internal/types/composite.go's family of Type implementations, every
// constructor returns this one struct, told apart by its kind string;
// String renders a debug form only (it has no bearing on the actual host
// compiler's type representation).
type hostType struct {
	kind string
	sub  []hostType_
	sym  *symbol
	i64  int64
	str  string
}

// hostType_ is a plain alias for hostapi.Type, so sub-terms are stored as
// interface values; the alias only keeps the struct literal above short.
type hostType_ = hostapi.Type

func (*hostType) hostTypeMarker() {}

func (t *hostType) String() string {
	var b strings.Builder
	b.WriteString(t.kind)
	if t.sym != nil {
		b.WriteByte('(')
		b.WriteString(names.Source(t.sym.name))
		b.WriteByte(')')
	}
	return b.String()
}

type stubTypeFactory struct{}

func (stubTypeFactory) TypeRef(prefix hostapi.Type, sym hostapi.Symbol) hostapi.Type {
	return &hostType{kind: "TypeRef", sym: asSymbol(sym)}
}

func (stubTypeFactory) SingleType(prefix hostapi.Type, sym hostapi.Symbol) hostapi.Type {
	return &hostType{kind: "SingleType", sym: asSymbol(sym)}
}

func (stubTypeFactory) ThisType(cls hostapi.Symbol) hostapi.Type {
	return &hostType{kind: "ThisType", sym: asSymbol(cls)}
}

func (stubTypeFactory) SuperType(this, base hostapi.Type) hostapi.Type {
	return &hostType{kind: "SuperType", sub: []hostType_{this, base}}
}

func (stubTypeFactory) ConstantType(sym hostapi.Symbol) hostapi.Type {
	return &hostType{kind: "ConstantType", sym: asSymbol(sym)}
}

func (stubTypeFactory) AnnotatedType(underlying hostapi.Type, annotThunk func() hostapi.Type) hostapi.Type {
	return &hostType{kind: "AnnotatedType", sub: []hostType_{underlying}}
}

func (stubTypeFactory) IntersectionType(lhs, rhs hostapi.Type) hostapi.Type {
	return &hostType{kind: "AndType", sub: []hostType_{lhs, rhs}}
}

func (stubTypeFactory) RefinedType(parent hostapi.Type, refinementCls hostapi.Symbol) hostapi.Type {
	return &hostType{kind: "RefinedType", sub: []hostType_{parent}, sym: asSymbol(refinementCls)}
}

func (stubTypeFactory) ClassInfoType(parents []hostapi.Type, decls hostapi.Symbol, cls hostapi.Symbol) hostapi.Type {
	return &hostType{kind: "ClassInfoType", sub: append([]hostType_(nil), parents...), sym: asSymbol(cls)}
}

func (stubTypeFactory) MethodType(paramNames []names.Name, paramTypes []hostapi.Type, result hostapi.Type, implicit, given bool) hostapi.Type {
	kind := "MethodType"
	switch {
	case given:
		kind = "GivenMethodType"
	case implicit:
		kind = "ImplicitMethodType"
	}
	return &hostType{kind: kind, sub: append(append([]hostType_(nil), paramTypes...), result)}
}

func (stubTypeFactory) NullaryMethodType(result hostapi.Type) hostapi.Type {
	return &hostType{kind: "NullaryMethodType", sub: []hostType_{result}}
}

func (stubTypeFactory) PolyType(paramNames []names.Name, bounds []hostapi.Type, result hostapi.Type) hostapi.Type {
	return &hostType{kind: "PolyType", sub: append(append([]hostType_(nil), bounds...), result)}
}

func (stubTypeFactory) TypeBounds(lo, hi hostapi.Type) hostapi.Type {
	return &hostType{kind: "TypeBounds", sub: []hostType_{lo, hi}}
}

func (stubTypeFactory) ExistentialType(paramNames []names.Name, bounds []hostapi.Type, result hostapi.Type) hostapi.Type {
	return &hostType{kind: "ExistentialType", sub: append(append([]hostType_(nil), bounds...), result)}
}

func (stubTypeFactory) ByNameType(underlying hostapi.Type) hostapi.Type {
	return &hostType{kind: "ByNameType", sub: []hostType_{underlying}}
}

func (stubTypeFactory) RepeatedType(elem hostapi.Type) hostapi.Type {
	return &hostType{kind: "RepeatedType", sub: []hostType_{elem}}
}

func (stubTypeFactory) AppliedType(tycon hostapi.Type, args []hostapi.Type, variances []hostapi.Variance) hostapi.Type {
	return &hostType{kind: "AppliedType", sub: append([]hostType_{tycon}, args...)}
}

func (stubTypeFactory) LambdaFromParams(paramNames []names.Name, bounds []hostapi.Type, body hostapi.Type) hostapi.Type {
	return &hostType{kind: "TypeLambda", sub: append(append([]hostType_(nil), bounds...), body)}
}

func (stubTypeFactory) ErrorType() hostapi.Type { return &hostType{kind: "ErrorType"} }

func (stubTypeFactory) NoType() hostapi.Type { return &hostType{kind: "NoType"} }
