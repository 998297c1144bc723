package pipeline

import (
	"github.com/deepgen/famtree/pkg/cache"
	"github.com/deepgen/famtree/pkg/kinship"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/tree"
)

// Dataset is an immutable person list together with its relationship index
// and content hash. A changed list means a new Dataset; nothing is patched.
type Dataset struct {
	persons []person.Record
	index   *kinship.Index
	builder *tree.Builder
	hash    string
}

// NewDataset indexes persons. The slice is not copied and must not be
// modified afterwards.
func NewDataset(persons []person.Record) *Dataset {
	idx := kinship.Build(persons)
	h, err := DatasetHash(persons)
	if err != nil {
		h = ""
	}
	return &Dataset{
		persons: persons,
		index:   idx,
		builder: tree.NewBuilder(persons, idx),
		hash:    h,
	}
}

// Persons returns the underlying list.
func (d *Dataset) Persons() []person.Record { return d.persons }

// Index returns the relationship index.
func (d *Dataset) Index() *kinship.Index { return d.index }

// Hash returns the content hash, or "" if the list could not be hashed.
func (d *Dataset) Hash() string { return d.hash }

// Len returns the number of persons.
func (d *Dataset) Len() int { return len(d.persons) }

// Empty reports whether the dataset has no persons.
func (d *Dataset) Empty() bool { return d == nil || len(d.persons) == 0 }

// DatasetHash is the SHA-256 of the canonical JSON encoding of persons. Any
// change to any record, or to the order of the list, changes the hash.
func DatasetHash(persons []person.Record) (string, error) {
	if persons == nil {
		persons = []person.Record{}
	}
	return cache.HashJSON(persons)
}
