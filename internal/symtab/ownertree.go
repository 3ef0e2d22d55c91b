package symtab

import "github.com/tastyread/tasty/internal/tastybits"

// OwnerTree is one node of the lazy nesting index spec.md §3/§4.5
// describes: a (start, tag, end) triple plus a lazily computed child
// list. The shape mirrors internal/types/scope.go's parent/children tree,
// but children here are computed by a scan over the byte stream instead
// of accumulated by Insert calls, and that scan runs at most once per
// node (spec.md §3: "children is populated at most once").
type OwnerTree struct {
	Start, End tastybits.Addr
	Tag        tastybits.Tag

	scan     func() []*OwnerTree
	children []*OwnerTree
	scanned  bool
}

// NewOwnerTree builds a node that defers computing its children to scan,
// called at most once on first Children access.
func NewOwnerTree(start, end tastybits.Addr, tag tastybits.Tag, scan func() []*OwnerTree) *OwnerTree {
	return &OwnerTree{Start: start, End: end, Tag: tag, scan: scan}
}

// Leaf builds a node with no children and nothing left to scan.
// internal/unpickler does not use it: its scanOne gives member-def nodes a
// lazy scan of their body through NewOwnerTree instead.
func Leaf(start, end tastybits.Addr, tag tastybits.Tag) *OwnerTree {
	return &OwnerTree{Start: start, End: end, Tag: tag, scanned: true}
}

// Children returns this node's children, computing them via scan on first
// access (spec.md §5 "suspension point: OwnerTree.children on first
// access").
func (t *OwnerTree) Children() []*OwnerTree {
	if !t.scanned {
		t.children = t.scan()
		t.scanned = true
		t.scan = nil
	}
	return t.children
}

// Contains reports whether addr falls within [Start, End).
func (t *OwnerTree) Contains(addr tastybits.Addr) bool {
	return !addr.Before(t.Start) && addr.Before(t.End)
}

// FindOwner descends the lazy child list using interval containment,
// spec.md §4.5: "unique enclosure is an invariant of well-formed input".
// It returns the innermost node whose range contains addr, or t itself if
// no child does.
func (t *OwnerTree) FindOwner(addr tastybits.Addr) *OwnerTree {
	for _, child := range t.Children() {
		if child.Contains(addr) {
			return child.FindOwner(addr)
		}
	}
	return t
}
