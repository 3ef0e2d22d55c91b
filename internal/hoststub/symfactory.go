package hoststub

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

type stubSymbolFactory struct{}

func (stubSymbolFactory) NewSymbol(owner hostapi.Symbol, kind hostapi.SymbolKind, name names.Name, flags hostapi.FlagSet) hostapi.Symbol {
	return &symbol{kind: kind, name: name, owner: asSymbol(owner), flags: flags}
}

func (stubSymbolFactory) NewRefinementClass(owner hostapi.Symbol, parentScopeHint hostapi.Symbol) hostapi.Symbol {
	cls := &symbol{kind: hostapi.KindRefinementClass, name: names.NewUnique(names.Empty, "$refinement$", 0), owner: asSymbol(owner)}
	cls.scope = NewScope(nil)
	if hint := asSymbol(parentScopeHint); hint != nil && hint.scope != nil {
		cls.scope = hint.scope.Clone()
	}
	return cls
}

func (stubSymbolFactory) LinkModule(moduleVal, moduleClass hostapi.Symbol) {
	v, c := asSymbol(moduleVal), asSymbol(moduleClass)
	v.moduleClass = c
	c.moduleVal = v
}

func (stubSymbolFactory) SetInfo(sym hostapi.Symbol, info hostapi.Type) {
	asSymbol(sym).info = info
}

func (stubSymbolFactory) SetPrivateWithin(sym hostapi.Symbol, within hostapi.Symbol) {
	asSymbol(sym).privateWithin = asSymbol(within)
}

func (stubSymbolFactory) SetSelfType(sym hostapi.Symbol, self hostapi.Type) {
	asSymbol(sym).selfType = self
}
