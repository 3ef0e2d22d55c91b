// Package hoststub is a concrete, testable stand-in for "the host
// compiler's symbol table" that spec.md §6 keeps external. It exists so
// internal/unpickler has something real to run against outside the actual
// host compiler; production wiring would replace it with an adapter over
// the real symbol table while keeping hostapi unchanged.
//
// The shape follows internal/types/object.go and scope.go: a small base
// struct embedding common fields, with typed wrappers adding
// kind-specific state, and a tree of *Scope values built once and mutated
// only through Enter/EnterIfNew.
package hoststub

import (
	"github.com/tastyread/tasty/internal/flagxlat"
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/names"
)

// symbol is the base struct every stub symbol embeds, mirroring
// internal/types/object.go's object struct.
type symbol struct {
	kind          hostapi.SymbolKind
	name          names.Name
	owner         *symbol
	flags         flagxlat.FlagSet
	info          hostapi.Type
	scope         *Scope // this symbol's own member scope, if it has one
	moduleClass   *symbol
	moduleVal     *symbol
	privateWithin *symbol
	selfType      hostapi.Type
}

func (s *symbol) hostSymbolMarker() {}

// Name returns the symbol's stored Name, exactly as read from the wire.
func (s *symbol) Name() names.Name { return s.name }

// Kind returns the symbol's SymbolKind.
func (s *symbol) Kind() hostapi.SymbolKind { return s.kind }

// Owner returns the enclosing symbol, or nil at the root.
func (s *symbol) Owner() *symbol { return s.owner }

// Flags returns the host flag bits attached at creation time.
func (s *symbol) Flags() flagxlat.FlagSet { return s.flags }

// Info returns the completed type, or nil before SetInfo runs.
func (s *symbol) Info() hostapi.Type { return s.info }

// ModuleClass returns the linked module class for a module value, or nil.
func (s *symbol) ModuleClass() *symbol { return s.moduleClass }

// ModuleVal returns the linked module value for a module class, or nil.
func (s *symbol) ModuleVal() *symbol { return s.moduleVal }

// PrivateWithin returns the qualifier symbol set by rule 7 of spec.md
// §4.3, or nil if the symbol carries no such qualifier.
func (s *symbol) PrivateWithin() *symbol { return s.privateWithin }

// SelfType returns the explicit self-type recorded from a class's optional
// SELFDEF, or nil if none was declared.
func (s *symbol) SelfType() hostapi.Type { return s.selfType }

// asSymbol narrows an opaque hostapi.Symbol back to *symbol. It panics on
// a foreign implementation, which can only mean a caller mixed two
// unrelated hostapi.SymbolFactory instances — a programmer error, not a
// TASTy-input error.
func asSymbol(s hostapi.Symbol) *symbol {
	if s == nil {
		return nil
	}
	return s.(*symbol)
}
