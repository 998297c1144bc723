package tree

import (
	"github.com/deepgen/famtree/pkg/kinship"
	"github.com/deepgen/famtree/pkg/person"
)

// Builder produces ancestor and descendant trees from one person list.
// A Builder is immutable and may be reused for any number of builds; create
// a new one whenever the person list changes.
type Builder struct {
	lookup *person.Lookup
	index  *kinship.Index
}

// NewBuilder creates a Builder over persons. If index is nil it is built
// from persons.
func NewBuilder(persons []person.Record, index *kinship.Index) *Builder {
	if index == nil {
		index = kinship.Build(persons)
	}
	return &Builder{lookup: person.NewLookup(persons), index: index}
}

// Lookup exposes the xref lookup the builder resolves identifiers with.
func (b *Builder) Lookup() *person.Lookup { return b.lookup }

// Ancestors builds the ancestor tree of rootXref down to maxDepth.
//
// Every known person above the depth bound gets exactly two children, the
// father branch then the mother branch. A branch whose identifier is absent
// or unknown is a placeholder leaf. A branch whose person is already on the
// path from the root is a cycle leaf. Persons at maxDepth are plain leaves.
// An unknown root yields a root placeholder. Ancestors never fails.
func (b *Builder) Ancestors(rootXref string, maxDepth int) *Node {
	w := b.newWalk(maxDepth)
	return w.ancestors(rootXref, 0, RoleRoot, rootKey)
}

// Descendants builds the descendant tree of rootXref down to maxDepth.
//
// Children come from the kinship index in its stored order, so a node may
// have any number of children. Cycle and depth handling match [Builder.Ancestors].
func (b *Builder) Descendants(rootXref string, maxDepth int) *Node {
	w := b.newWalk(maxDepth)
	return w.descendants(rootXref, 0, RoleRoot, rootKey)
}

// walk holds the state of a single build. onPath is a bitset keyed by person
// index that holds exactly the persons on the current root-to-node path: a
// bit is set on entry to a person and cleared on exit.
type walk struct {
	*Builder
	maxDepth int
	onPath   pathSet
}

// pathSet is a bitset over person indexes.
type pathSet []uint64

func newPathSet(n int) pathSet { return make(pathSet, (n+63)/64) }

func (p pathSet) has(i int) bool { return p[i/64]&(1<<(uint(i)%64)) != 0 }
func (p pathSet) set(i int)      { p[i/64] |= 1 << (uint(i) % 64) }
func (p pathSet) clear(i int)    { p[i/64] &^= 1 << (uint(i) % 64) }

func (b *Builder) newWalk(maxDepth int) *walk {
	return &walk{
		Builder:  b,
		maxDepth: max(0, maxDepth),
		onPath:   newPathSet(b.lookup.Len()),
	}
}

// enter resolves xref into a leaf node and reports the person index when the
// caller may recurse through it.
func (w *walk) enter(xref string, depth int, role Role, key string) (*Node, int, bool) {
	n := &Node{Key: key, Depth: depth, Role: role}

	i, ok := w.lookup.Index(xref)
	if xref == "" || !ok {
		n.Subject = Placeholder{Xref: xref}
		return n, 0, false
	}
	if w.onPath.has(i) {
		n.Subject = Cycle{Xref: xref}
		return n, 0, false
	}
	n.Subject = Resolved{Person: w.lookup.Get(xref)}
	return n, i, depth < w.maxDepth
}

func (w *walk) ancestors(xref string, depth int, role Role, key string) *Node {
	n, i, recurse := w.enter(xref, depth, role, key)
	if !recurse {
		return n
	}

	p := n.Person()
	w.onPath.set(i)
	n.Children = []*Node{
		w.ancestors(p.FatherXref, depth+1, RoleFather, childKey(key, RoleFather, 0)),
		w.ancestors(p.MotherXref, depth+1, RoleMother, childKey(key, RoleMother, 0)),
	}
	w.onPath.clear(i)
	return n
}

func (w *walk) descendants(xref string, depth int, role Role, key string) *Node {
	n, i, recurse := w.enter(xref, depth, role, key)
	if !recurse {
		return n
	}

	kids := w.index.Children(xref)
	if len(kids) == 0 {
		return n
	}

	w.onPath.set(i)
	n.Children = make([]*Node, len(kids))
	for ord, kid := range kids {
		n.Children[ord] = w.descendants(kid, depth+1, RoleChild, childKey(key, RoleChild, ord))
	}
	w.onPath.clear(i)
	return n
}
