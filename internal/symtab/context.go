// Package symtab implements the mutable bookkeeping spec.md §3 and §4.4
// describe: the Context cactus stack, the owner-tree index, the cycle
// guard, and the per-address type cache. None of it knows how to decode a
// tag; internal/unpickler drives all of this from the outside.
package symtab

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/tastybits"
)

// Mode is the small bit-set of traversal modes spec.md §4.4 names:
// "reading parents", "reading annotation", and so on.
type Mode uint8

const ModeNone Mode = 0

const (
	ModeReadingParents Mode = 1 << iota
	ModeReadingAnnotation
	ModeReadingParams
	ModeInSuperCall
)

// Context is one immutable cactus-stack frame (spec.md §4.4). Every
// With*/add*/retract* operation returns a new frame sharing everything
// unchanged with its parent; nothing here is ever mutated in place,
// mirroring how internal/types2/check.go treats c.scope and c.pos as
// plain fields that get saved/restored around a recursive call rather
// than a frame object — Context just makes that save/restore explicit and
// shareable.
type Context struct {
	outer  *Context
	owner  hostapi.Symbol
	mode   Mode
	source string // diagnostic-only file handle name
}

// InitialContext builds a fresh root frame whose owner is the top-level
// class symbol, with no mode bits set; the unpickler builds one per run.
func InitialContext(classRoot hostapi.Symbol, source string) *Context {
	return &Context{owner: classRoot, source: source}
}

// Owner returns the frame's current owner symbol.
func (c *Context) Owner() hostapi.Symbol { return c.owner }

// Mode returns the frame's traversal mode bit-set.
func (c *Context) Mode() Mode { return c.mode }

// Source returns the frame's diagnostic file handle name.
func (c *Context) Source() string { return c.source }

// WithOwner returns a new frame with owner replaced.
func (c *Context) WithOwner(owner hostapi.Symbol) *Context {
	cp := *c
	cp.outer = c
	cp.owner = owner
	return &cp
}

// WithNewScope returns a new frame whose owner becomes a fresh local
// dummy scoped under the current owner (spec.md §4.4).
func (c *Context) WithNewScope(localDummy hostapi.Symbol) *Context {
	return c.WithOwner(localDummy)
}

// WithMode returns a new frame with mode replaced outright.
func (c *Context) WithMode(m Mode) *Context {
	cp := *c
	cp.outer = c
	cp.mode = m
	return &cp
}

// AddMode returns a new frame with bits added to mode.
func (c *Context) AddMode(m Mode) *Context {
	return c.WithMode(c.mode | m)
}

// RetractMode returns a new frame with bits removed from mode.
func (c *Context) RetractMode(m Mode) *Context {
	return c.WithMode(c.mode &^ m)
}

// WithSource returns a new frame with the diagnostic source handle
// replaced.
func (c *Context) WithSource(source string) *Context {
	cp := *c
	cp.outer = c
	cp.source = source
	return &cp
}

// OwnerChain walks outer links from this frame to the root, innermost
// first — the walk tastyerr.Location needs (spec.md §7 "a location
// computed by walking the owner chain").
func (c *Context) OwnerChain(render func(hostapi.Symbol) string) []string {
	var out []string
	for f := c; f != nil; f = f.outer {
		out = append(out, render(f.owner))
	}
	return out
}

// addrKey is used only by the caches below; kept here since Context and
// its caches are conceptually one "unpickler session" in spec.md §3.
type addrKey = tastybits.Addr
