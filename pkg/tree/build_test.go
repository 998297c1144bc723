package tree

import (
	"fmt"
	"testing"

	"github.com/deepgen/famtree/pkg/person"
)

func TestAncestorsTwoCycle(t *testing.T) {
	persons := []person.Record{
		{Xref: "@I1@", Name: "One", FatherXref: "@I2@"},
		{Xref: "@I2@", Name: "Two", FatherXref: "@I1@"},
	}
	root := NewBuilder(persons, nil).Ancestors("@I1@", MaxDepth(3))

	father := root.Children[0]
	if father.Xref() != "@I2@" || father.Placeholder() {
		t.Fatalf("father branch = %s (placeholder=%v), want resolved @I2@", father.Xref(), father.Placeholder())
	}
	grand := father.Children[0]
	if grand.Xref() != "@I1@" {
		t.Fatalf("grandfather = %s, want @I1@", grand.Xref())
	}
	if !grand.IsCycle() || !grand.Placeholder() {
		t.Errorf("grandfather should be cycle+placeholder, got cycle=%v placeholder=%v", grand.IsCycle(), grand.Placeholder())
	}
	if grand.Label() != LabelCycle {
		t.Errorf("Label() = %q, want %q", grand.Label(), LabelCycle)
	}
	if !grand.IsLeaf() {
		t.Error("cycle node must not recurse")
	}
}

func TestAncestorsThreeCycleTerminates(t *testing.T) {
	persons := []person.Record{
		{Xref: "A", FatherXref: "B"},
		{Xref: "B", FatherXref: "C"},
		{Xref: "C", FatherXref: "A"},
	}
	b := NewBuilder(persons, nil)

	for _, depth := range []int{3, 4, 10} {
		t.Run(fmt.Sprintf("depth %d", depth), func(t *testing.T) {
			root := b.Ancestors("A", depth)
			n := root.Children[0].Children[0].Children[0]
			if n.Xref() != "A" || !n.IsCycle() {
				t.Errorf("third father = %s cycle=%v, want cycle A", n.Xref(), n.IsCycle())
			}
			if got, limit := Count(root), 1<<(depth+1)-1; got > limit {
				t.Errorf("Count() = %d exceeds 2^(d+1)-1 = %d", got, limit)
			}
		})
	}
}

func TestAncestorsMissingParents(t *testing.T) {
	persons := []person.Record{{Xref: "@I1@", Name: "Solo"}}
	b := NewBuilder(persons, nil)

	t.Run("one generation", func(t *testing.T) {
		root := b.Ancestors("@I1@", MaxDepth(1))
		if !root.IsLeaf() || root.Placeholder() {
			t.Errorf("root should be a resolved leaf, children=%d placeholder=%v", len(root.Children), root.Placeholder())
		}
	})

	t.Run("two generations", func(t *testing.T) {
		root := b.Ancestors("@I1@", MaxDepth(2))
		if len(root.Children) != 2 {
			t.Fatalf("children = %d, want 2", len(root.Children))
		}
		for i, role := range []Role{RoleFather, RoleMother} {
			c := root.Children[i]
			if !c.Placeholder() || c.IsCycle() || c.Role != role || c.Depth != 1 {
				t.Errorf("child %d = %+v, want %s placeholder at depth 1", i, c, role)
			}
			if !c.IsLeaf() {
				t.Errorf("placeholder %s must be a leaf", role)
			}
		}
	})
}

func TestAncestorsDanglingParent(t *testing.T) {
	persons := []person.Record{{Xref: "@I1@", MotherXref: "@GONE@"}}
	root := NewBuilder(persons, nil).Ancestors("@I1@", 2)

	mother := root.Children[1]
	if !mother.Placeholder() || mother.Xref() != "@GONE@" {
		t.Errorf("mother = %q placeholder=%v, want placeholder @GONE@", mother.Xref(), mother.Placeholder())
	}
}

func TestAncestorsUnknownRoot(t *testing.T) {
	root := NewBuilder(nil, nil).Ancestors("@NOPE@", 5)
	if !root.Placeholder() || !root.IsLeaf() || root.Role != RoleRoot {
		t.Errorf("unknown root should be a root placeholder leaf, got %+v", root)
	}
}

func TestAncestorsDepthBound(t *testing.T) {
	persons := []person.Record{
		{Xref: "C", FatherXref: "F", MotherXref: "M"},
		{Xref: "F", FatherXref: "GF"},
		{Xref: "M"},
		{Xref: "GF"},
	}
	root := NewBuilder(persons, nil).Ancestors("C", 1)

	for _, c := range root.Children {
		if c.Placeholder() {
			t.Errorf("%s should be resolved", c.Key)
		}
		if !c.IsLeaf() {
			t.Errorf("%s at max depth must be a leaf", c.Key)
		}
	}
}

func TestAncestorsPedigreeCollapseIsNotCycle(t *testing.T) {
	// Cousins married: both parents share grandfather G.
	persons := []person.Record{
		{Xref: "C", FatherXref: "F", MotherXref: "M"},
		{Xref: "F", FatherXref: "G"},
		{Xref: "M", FatherXref: "G"},
		{Xref: "G"},
	}
	root := NewBuilder(persons, nil).Ancestors("C", 3)

	for _, parent := range root.Children {
		g := parent.Children[0]
		if g.Xref() != "G" || g.Placeholder() {
			t.Errorf("%s: grandfather = %s placeholder=%v, want resolved G", parent.Key, g.Xref(), g.Placeholder())
		}
	}
}

func TestAncestorsKeysAreDeterministic(t *testing.T) {
	persons := []person.Record{{Xref: "C", FatherXref: "F"}, {Xref: "F"}}
	b := NewBuilder(persons, nil)
	a1 := b.Ancestors("C", 2)
	a2 := b.Ancestors("C", 2)

	var keys1, keys2 []string
	Walk(a1, func(n *Node) bool { keys1 = append(keys1, n.Key); return true })
	Walk(a2, func(n *Node) bool { keys2 = append(keys2, n.Key); return true })

	want := []string{"r", "r.f", "r.f.f", "r.f.m", "r.m"}
	if fmt.Sprint(keys1) != fmt.Sprint(want) || fmt.Sprint(keys2) != fmt.Sprint(want) {
		t.Errorf("keys = %v / %v, want %v", keys1, keys2, want)
	}
	if Find(a1, "r.f.m") == nil || Find(a1, "r.x") != nil {
		t.Error("Find by key failed")
	}
}

func TestDescendants(t *testing.T) {
	yr := func(y int) *int { return &y }
	persons := []person.Record{
		{Xref: "P", Name: "Parent"},
		{Xref: "K2", Name: "Younger", BirthYear: yr(1902), FatherXref: "P"},
		{Xref: "K1", Name: "Elder", BirthYear: yr(1900), FatherXref: "P"},
		{Xref: "GK", Name: "Grandkid", FatherXref: "K1"},
	}
	b := NewBuilder(persons, nil)

	t.Run("order and roles", func(t *testing.T) {
		root := b.Descendants("P", 2)
		if len(root.Children) != 2 {
			t.Fatalf("children = %d, want 2", len(root.Children))
		}
		if root.Children[0].Xref() != "K1" || root.Children[1].Xref() != "K2" {
			t.Errorf("order = %s,%s want K1,K2", root.Children[0].Xref(), root.Children[1].Xref())
		}
		for _, c := range root.Children {
			if c.Role != RoleChild {
				t.Errorf("role = %s, want child", c.Role)
			}
		}
		if root.Children[0].Children[0].Xref() != "GK" {
			t.Error("grandchild missing")
		}
		if !root.Children[1].IsLeaf() {
			t.Error("childless person should have zero children")
		}
		if root.Children[1].Key != "r.c1" {
			t.Errorf("key = %s, want r.c1", root.Children[1].Key)
		}
	})

	t.Run("depth bound", func(t *testing.T) {
		root := b.Descendants("P", 0)
		if !root.IsLeaf() || root.Placeholder() {
			t.Error("depth 0 should be a single resolved leaf")
		}
	})

	t.Run("unknown root", func(t *testing.T) {
		root := b.Descendants("nobody", 3)
		if !root.Placeholder() {
			t.Error("unknown root should be a placeholder")
		}
	})
}

func TestDescendantsCycle(t *testing.T) {
	persons := []person.Record{
		{Xref: "A", FatherXref: "B"},
		{Xref: "B", FatherXref: "A"},
	}
	root := NewBuilder(persons, nil).Descendants("A", 5)

	b := root.Children[0]
	if b.Xref() != "B" || b.Placeholder() {
		t.Fatalf("child = %s, want resolved B", b.Xref())
	}
	back := b.Children[0]
	if !back.IsCycle() || back.Xref() != "A" || !back.IsLeaf() {
		t.Errorf("grandchild = %s cycle=%v, want cycle leaf A", back.Xref(), back.IsCycle())
	}
}

func TestMaxDepth(t *testing.T) {
	tests := []struct{ generations, want int }{
		{4, 3}, {1, 0}, {0, 0}, {-2, 0},
	}
	for _, tt := range tests {
		if got := MaxDepth(tt.generations); got != tt.want {
			t.Errorf("MaxDepth(%d) = %d, want %d", tt.generations, got, tt.want)
		}
	}
}

func TestPathSet(t *testing.T) {
	p := newPathSet(130)
	if len(p) != 3 {
		t.Fatalf("words = %d, want 3", len(p))
	}
	for _, i := range []int{0, 63, 64, 129} {
		p.set(i)
	}
	for i := 0; i < 130; i++ {
		want := i == 0 || i == 63 || i == 64 || i == 129
		if p.has(i) != want {
			t.Errorf("has(%d) = %v, want %v", i, p.has(i), want)
		}
	}
	p.clear(64)
	if p.has(64) || !p.has(63) {
		t.Error("clear(64) touched the wrong bit")
	}
}

func TestAncestorsLongCycle(t *testing.T) {
	const n = 70
	persons := make([]person.Record, n)
	for i := range persons {
		persons[i] = person.Record{
			Xref:       fmt.Sprintf("@P%d@", i),
			Name:       fmt.Sprintf("Person %d", i),
			FatherXref: fmt.Sprintf("@P%d@", (i+1)%n),
		}
	}
	root := NewBuilder(persons, nil).Ancestors("@P0@", n+5)

	var cycles []*Node
	Walk(root, func(node *Node) bool {
		if node.IsCycle() {
			cycles = append(cycles, node)
		}
		return true
	})
	if len(cycles) != 1 {
		t.Fatalf("cycle nodes = %d, want 1", len(cycles))
	}
	if c := cycles[0]; c.Xref() != "@P0@" || c.Depth != n {
		t.Errorf("cycle at %s depth %d, want @P0@ depth %d", c.Xref(), c.Depth, n)
	}
}
