package tree

import (
	"strconv"

	"github.com/deepgen/famtree/pkg/person"
)

// Role is the relation of a node to its parent node in the rendered tree.
type Role string

// Roles. Ancestor trees use father and mother; descendant trees use child.
const (
	RoleRoot   Role = "root"
	RoleFather Role = "father"
	RoleMother Role = "mother"
	RoleChild  Role = "child"
)

// LabelCycle is the label reported for nodes that close a cycle.
const LabelCycle = "cycle"

// =============================================================================
// Subject - what a node stands for
// =============================================================================

// Subject is the tagged variant behind a node: exactly one of [Resolved],
// [Placeholder] or [Cycle]. Each variant only carries the fields valid for it.
type Subject interface {
	subject()
}

// Resolved is a node backed by a known person.
type Resolved struct {
	Person *person.Record
}

// Placeholder is a node whose identifier is absent or names nobody in the
// person list. Xref holds the dangling identifier, if there was one.
type Placeholder struct {
	Xref string
}

// Cycle is a node whose person already appears on the path from the root to
// this node. The branch stops here.
type Cycle struct {
	Xref string
}

func (Resolved) subject()    {}
func (Placeholder) subject() {}
func (Cycle) subject()       {}

// =============================================================================
// Node
// =============================================================================

// Node is one box in the rendered tree. It is not a person: several nodes
// may reference the same person, and placeholders reference none.
//
// The tree is a strict ownership tree. Each node is owned by exactly one
// parent and nodes are never shared or mutated after the build returns; a
// stale tree is discarded and rebuilt.
type Node struct {
	// Key is a deterministic identifier, unique within the tree, composed from
	// the parent's key and this node's role and sibling ordinal.
	Key      string
	Depth    int
	Role     Role
	Subject  Subject
	Children []*Node
}

// Person returns the backing record, or nil for placeholders and cycles.
func (n *Node) Person() *person.Record {
	if r, ok := n.Subject.(Resolved); ok {
		return r.Person
	}
	return nil
}

// Xref returns the identifier the node refers to. Placeholders for an absent
// parent return "".
func (n *Node) Xref() string {
	switch s := n.Subject.(type) {
	case Resolved:
		return s.Person.Xref
	case Placeholder:
		return s.Xref
	case Cycle:
		return s.Xref
	}
	return ""
}

// Placeholder reports whether no person is rendered behind the node. Cycle
// nodes are placeholders too.
func (n *Node) Placeholder() bool {
	_, resolved := n.Subject.(Resolved)
	return !resolved
}

// IsCycle reports whether the node closes a cycle.
func (n *Node) IsCycle() bool {
	_, ok := n.Subject.(Cycle)
	return ok
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Label returns "cycle" for cycle nodes and the role otherwise.
func (n *Node) Label() string {
	if n.IsCycle() {
		return LabelCycle
	}
	return string(n.Role)
}

// childKey derives a child's key from its parent's key.
func childKey(parent string, role Role, ordinal int) string {
	switch role {
	case RoleFather:
		return parent + ".f"
	case RoleMother:
		return parent + ".m"
	default:
		return parent + ".c" + strconv.Itoa(ordinal)
	}
}

const rootKey = "r"

// =============================================================================
// Traversal helpers
// =============================================================================

// Walk visits root and its descendants in pre-order. Returning false from fn
// skips the node's subtree.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil || !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node) bool { n++; return true })
	return n
}

// Find returns the node with key, or nil.
func Find(root *Node, key string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// MaxDepth converts a user-facing generation count into the depth bound used
// by the builders: one generation is the root alone.
func MaxDepth(generations int) int {
	return max(0, generations-1)
}
