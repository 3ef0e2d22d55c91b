package unpickler

import (
	"github.com/tastyread/tasty/internal/hostapi"
	"github.com/tastyread/tasty/internal/symtab"
	"github.com/tastyread/tasty/internal/tastybits"
)

// buildOwnerTree builds the lazy nesting index of spec.md §4.5 over
// [start, end). The root node itself is never returned as a "member" —
// it's only ever used via FindOwner/Children.
func (u *TreeUnpickler) buildOwnerTree(start, end tastybits.Addr) *symtab.OwnerTree {
	return symtab.NewOwnerTree(start, end, tastybits.PACKAGE, func() []*symtab.OwnerTree {
		return u.scanChildren(start, end)
	})
}

// scanChildren implements scanTree (spec.md §4.5): it classifies every
// tag in [start, end) by its wire shape, recording an OwnerTree node for
// each member-def and recursing (without recording) for everything else,
// until it reaches end. No node is recorded for a TEMPLATE itself: its
// member-defs are spliced into the enclosing level. It never mutates u.cur's position as seen
// by its caller — it forks a private cursor.
func (u *TreeUnpickler) scanChildren(start, end tastybits.Addr) []*symtab.OwnerTree {
	c := u.cur.Fork()
	c.Goto(start)
	var out []*symtab.OwnerTree
	for c.CurrentAddr() < end {
		nodes := u.scanOne(c)
		out = append(out, nodes...)
	}
	return out
}

// scanOne reads one tag at c's current position and returns zero or more
// OwnerTree nodes discovered at this level (zero for most tags, one for a
// recorded member-def node, possibly several when the member-defs of a
// TEMPLATE or other non-member block are spliced into the enclosing level
// per spec.md §4.5).
func (u *TreeUnpickler) scanOne(c *tastybits.Cursor) []*symtab.OwnerTree {
	addr := c.CurrentAddr()
	tag := c.ReadTag()
	switch tag.Shape() {
	case tastybits.NatOnly:
		for i := 0; i < tag.NatCount(); i++ {
			c.ReadNat()
		}
		return nil

	case tastybits.ASTOnly:
		u.skipOneAST(c)
		return nil

	case tastybits.NatThenAST:
		c.ReadNat()
		u.skipOneAST(c)
		return nil

	case tastybits.LengthPrefixed:
		bodyEnd := c.ReadEnd()
		bodyStart := c.CurrentAddr()

		if tag == tastybits.TEMPLATE {
			// Member-defs inside a TEMPLATE are recorded at the
			// enclosing level (spec.md §4.5): splice rather than nest.
			children := u.scanChildren(bodyStart, bodyEnd)
			c.Goto(bodyEnd)
			return children
		}

		if tag.IsMemberDef() {
			node := symtab.NewOwnerTree(addr, bodyEnd, tag, func() []*symtab.OwnerTree {
				return u.scanChildren(bodyStart, bodyEnd)
			})
			c.Goto(bodyEnd)
			return []*symtab.OwnerTree{node}
		}

		// Recurse without recording: splice any member-defs found inside
		// into the enclosing level.
		children := u.scanChildren(bodyStart, bodyEnd)
		c.Goto(bodyEnd)
		return children

	default:
		return nil
	}
}

// skipOneAST skips exactly one self-delimiting subtree starting at c's
// current position, without recording any OwnerTree node for it (used for
// ASTOnly/NatThenAST tags, whose single nested subtree is never itself a
// member-def boundary).
func (u *TreeUnpickler) skipOneAST(c *tastybits.Cursor) {
	tag := c.ReadTag()
	switch tag.Shape() {
	case tastybits.NatOnly:
		for i := 0; i < tag.NatCount(); i++ {
			c.ReadNat()
		}
	case tastybits.ASTOnly:
		u.skipOneAST(c)
	case tastybits.NatThenAST:
		c.ReadNat()
		u.skipOneAST(c)
	case tastybits.LengthPrefixed:
		end := c.ReadEnd()
		c.Goto(end)
	}
}

// indexStats implements indexStats (spec.md §4.6.2): for each top-level
// statement up to end, create symbol shells for member-defs, descend into
// PACKAGE with the package's module class as owner, and skip everything
// else.
func (u *TreeUnpickler) indexStats(start, end tastybits.Addr, owner hostapi.Symbol, roots []hostapi.Symbol, ctx *symtab.Context) error {
	u.cur.Goto(start)
	for u.cur.CurrentAddr() < end {
		addr := u.cur.CurrentAddr()
		tag := u.peekTag()
		switch {
		case tag.IsMemberDef():
			if _, err := u.createMemberSymbol(addr, owner, roots, ctx); err != nil {
				return err
			}
		case tag == tastybits.PACKAGE:
			u.cur.ReadTag()
			pkgEnd := u.cur.ReadEnd()
			pkgOwner, err := u.readPackageRef(ctx)
			if err != nil {
				return err
			}
			if err := u.indexStats(u.cur.CurrentAddr(), pkgEnd, pkgOwner, roots, ctx.WithOwner(pkgOwner)); err != nil {
				return err
			}
			u.cur.Goto(pkgEnd)
		default:
			u.skipStatement(tag)
		}
	}
	return nil
}

// readPackageRef reads the package reference following a PACKAGE tag
// and resolves it to the package's module class via the mirror.
func (u *TreeUnpickler) readPackageRef(ctx *symtab.Context) (hostapi.Symbol, error) {
	return u.readSymbolRef(ctx)
}

// skipStatement discards one top-level statement that indexStats doesn't
// care about (IMPORT, or anything else per spec.md §4.6.2). scanOne
// already advances past a full statement uniformly regardless of shape,
// and discarding any OwnerTree nodes it would have recorded is exactly
// what "skip" means here — indexStats keeps its own, separate symAtAddr
// bookkeeping for member-defs it does care about.
func (u *TreeUnpickler) skipStatement(tag tastybits.Tag) {
	u.scanOne(u.cur)
}
