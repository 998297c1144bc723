// Package kinship builds the parent → children lookup the descendant tree
// walks over.
//
// The index is a pure function of a person list. Child order depends on
// birth years and names of every sibling, so any edit can reorder a list:
// rebuild the index on every refresh instead of patching it.
//
// # Child Ordering
//
// Siblings are sorted by ascending birth year when both compared children
// have a known year. Otherwise, or when the years are equal, they fall back
// to name and then xref, case-insensitive. The sort is stable, so children
// that compare equal keep their person-list order.
//
// Mixing known and unknown years makes the comparison non-transitive: with
// Zed (1800), Mid (no year) and Abe (1900), Zed sorts before Abe by year
// while Mid sorts before Zed and Abe before Mid by name. Such siblings have
// no single correct order, and the stable sort leaves them in an order that
// depends on the person list. Reordering the list can reorder them.
package kinship

import (
	"cmp"
	"slices"
	"strings"

	"github.com/deepgen/famtree/pkg/person"
)

// Index maps a parent xref to the ordered xrefs of its children.
type Index struct {
	children map[string][]string
}

// Build constructs the relationship index for persons.
//
// Every value in the index is the xref of a person in persons. Keys are
// whatever the records name as father or mother, so a key may be dangling.
// A person whose father and mother fields name the same xref is listed once.
func Build(persons []person.Record) *Index {
	lookup := person.NewLookup(persons)
	children := make(map[string][]string)

	for i := range persons {
		p := &persons[i]
		if p.FatherXref != "" {
			children[p.FatherXref] = append(children[p.FatherXref], p.Xref)
		}
		if p.MotherXref != "" && p.MotherXref != p.FatherXref {
			children[p.MotherXref] = append(children[p.MotherXref], p.Xref)
		}
	}

	for parent, kids := range children {
		slices.SortStableFunc(kids, func(a, b string) int {
			return compareSiblings(lookup.Get(a), lookup.Get(b))
		})
		children[parent] = kids
	}

	return &Index{children: children}
}

// compareSiblings orders two children of the same parent.
func compareSiblings(a, b *person.Record) int {
	if a.BirthYear != nil && b.BirthYear != nil {
		if c := cmp.Compare(*a.BirthYear, *b.BirthYear); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(a.Xref), strings.ToLower(b.Xref))
}

// Children returns the ordered children of parent, or nil. The returned
// slice is shared with the index and must not be modified.
func (x *Index) Children(parent string) []string {
	return x.children[parent]
}

// HasChildren reports whether parent has at least one child.
func (x *Index) HasChildren(parent string) bool {
	return len(x.children[parent]) > 0
}

// Parents returns every parent xref in the index, sorted.
func (x *Index) Parents() []string {
	keys := make([]string, 0, len(x.children))
	for k := range x.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of parents with at least one child.
func (x *Index) Len() int { return len(x.children) }
