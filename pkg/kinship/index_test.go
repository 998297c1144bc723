package kinship

import (
	"slices"
	"testing"

	"github.com/deepgen/famtree/pkg/person"
)

func yr(y int) *int { return &y }

func TestBuildOrdersChildren(t *testing.T) {
	tests := []struct {
		name    string
		persons []person.Record
		parent  string
		want    []string
	}{
		{
			name: "by birth year",
			persons: []person.Record{
				{Xref: "@P@", Name: "Parent"},
				{Xref: "@C1@", Name: "Zed", BirthYear: yr(1890), FatherXref: "@P@"},
				{Xref: "@C2@", Name: "Amy", BirthYear: yr(1885), FatherXref: "@P@"},
				{Xref: "@C3@", Name: "Bob", BirthYear: yr(1888), FatherXref: "@P@"},
			},
			parent: "@P@",
			want:   []string{"@C2@", "@C3@", "@C1@"},
		},
		{
			name: "names when years unknown",
			persons: []person.Record{
				{Xref: "@C1@", Name: "walter", MotherXref: "@M@"},
				{Xref: "@C2@", Name: "Anna", MotherXref: "@M@"},
				{Xref: "@C3@", Name: "beth", MotherXref: "@M@"},
			},
			parent: "@M@",
			want:   []string{"@C2@", "@C3@", "@C1@"},
		},
		{
			name: "same year falls back to name",
			persons: []person.Record{
				{Xref: "@C1@", Name: "Tom", BirthYear: yr(1900), FatherXref: "@P@"},
				{Xref: "@C2@", Name: "Sam", BirthYear: yr(1900), FatherXref: "@P@"},
			},
			parent: "@P@",
			want:   []string{"@C2@", "@C1@"},
		},
		{
			name: "same name falls back to xref",
			persons: []person.Record{
				{Xref: "@i9@", Name: "Twin", FatherXref: "@P@"},
				{Xref: "@I2@", Name: "twin", FatherXref: "@P@"},
			},
			parent: "@P@",
			want:   []string{"@I2@", "@i9@"},
		},
		{
			name: "unknown year compares by name",
			persons: []person.Record{
				{Xref: "@C1@", Name: "Zed", BirthYear: yr(1800), FatherXref: "@P@"},
				{Xref: "@C2@", Name: "Amy", FatherXref: "@P@"},
			},
			parent: "@P@",
			want:   []string{"@C2@", "@C1@"},
		},
		{
			// Zed < Abe by year, Mid < Zed and Abe < Mid by name: no total
			// order exists, so the result follows the person list.
			name: "unknown year between dated children",
			persons: []person.Record{
				{Xref: "@A@", Name: "Zed", BirthYear: yr(1800), FatherXref: "@P@"},
				{Xref: "@B@", Name: "Mid", FatherXref: "@P@"},
				{Xref: "@C@", Name: "Abe", BirthYear: yr(1900), FatherXref: "@P@"},
			},
			parent: "@P@",
			want:   []string{"@B@", "@A@", "@C@"},
		},
		{
			name: "unknown year between dated children reversed",
			persons: []person.Record{
				{Xref: "@C@", Name: "Abe", BirthYear: yr(1900), FatherXref: "@P@"},
				{Xref: "@B@", Name: "Mid", FatherXref: "@P@"},
				{Xref: "@A@", Name: "Zed", BirthYear: yr(1800), FatherXref: "@P@"},
			},
			parent: "@P@",
			want:   []string{"@C@", "@B@", "@A@"},
		},
		{
			name: "dangling parent still indexed",
			persons: []person.Record{
				{Xref: "@C1@", Name: "Orphan", FatherXref: "@GONE@"},
			},
			parent: "@GONE@",
			want:   []string{"@C1@"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Build(tt.persons)
			if got := idx.Children(tt.parent); !slices.Equal(got, tt.want) {
				t.Errorf("Children(%s) = %v, want %v", tt.parent, got, tt.want)
			}
		})
	}
}

func TestBuildBothParents(t *testing.T) {
	persons := []person.Record{
		{Xref: "@F@", Name: "Father"},
		{Xref: "@M@", Name: "Mother"},
		{Xref: "@C@", Name: "Child", FatherXref: "@F@", MotherXref: "@M@"},
		{Xref: "@S@", Name: "Self", FatherXref: "@X@", MotherXref: "@X@"},
	}
	idx := Build(persons)

	if !slices.Equal(idx.Children("@F@"), []string{"@C@"}) {
		t.Errorf("father children = %v", idx.Children("@F@"))
	}
	if !slices.Equal(idx.Children("@M@"), []string{"@C@"}) {
		t.Errorf("mother children = %v", idx.Children("@M@"))
	}
	if got := idx.Children("@X@"); len(got) != 1 {
		t.Errorf("same father and mother should list child once, got %v", got)
	}
	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
	if !slices.Equal(idx.Parents(), []string{"@F@", "@M@", "@X@"}) {
		t.Errorf("Parents() = %v", idx.Parents())
	}
}

func TestBuildNoParents(t *testing.T) {
	idx := Build([]person.Record{{Xref: "@I1@"}, {Xref: "@I2@"}})
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
	if idx.HasChildren("@I1@") {
		t.Error("HasChildren(@I1@) = true")
	}
	if idx.Children("@I1@") != nil {
		t.Error("Children of childless person should be nil")
	}
}

func TestBuildIsPure(t *testing.T) {
	persons := []person.Record{
		{Xref: "@C2@", Name: "B", FatherXref: "@P@"},
		{Xref: "@C1@", Name: "A", FatherXref: "@P@"},
	}
	before := slices.Clone(persons)
	a := Build(persons)
	b := Build(persons)

	if !slices.Equal(a.Children("@P@"), b.Children("@P@")) {
		t.Error("Build should be deterministic")
	}
	for i := range persons {
		if persons[i].Xref != before[i].Xref {
			t.Fatal("Build must not reorder its input")
		}
	}
}
