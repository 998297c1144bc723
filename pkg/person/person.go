package person

import (
	"strings"

	fterrors "github.com/deepgen/famtree/pkg/errors"
)

// Record is a single person as supplied by the data-access layer. The engine
// treats records as read-only and never assumes the parent links are acyclic,
// present, or pointing at anyone who exists.
type Record struct {
	Xref       string `json:"xref" yaml:"xref" bson:"xref"`
	Name       string `json:"name" yaml:"name" bson:"name"`
	Sex        string `json:"sex,omitempty" yaml:"sex,omitempty" bson:"sex,omitempty"`
	BirthDate  string `json:"birth_date,omitempty" yaml:"birth_date,omitempty" bson:"birth_date,omitempty"`
	DeathDate  string `json:"death_date,omitempty" yaml:"death_date,omitempty" bson:"death_date,omitempty"`
	BirthYear  *int   `json:"birth_year,omitempty" yaml:"birth_year,omitempty" bson:"birth_year,omitempty"`
	IsLiving   bool   `json:"is_living" yaml:"is_living" bson:"is_living"`
	FatherXref string `json:"father_xref,omitempty" yaml:"father_xref,omitempty" bson:"father_xref,omitempty"`
	MotherXref string `json:"mother_xref,omitempty" yaml:"mother_xref,omitempty" bson:"mother_xref,omitempty"`
}

// HasParents reports whether the record names a father or a mother.
func (r *Record) HasParents() bool {
	return r.FatherXref != "" || r.MotherXref != ""
}

// DisplayName returns the name, or "Unknown" when it is blank.
func (r *Record) DisplayName() string {
	if n := strings.TrimSpace(r.Name); n != "" {
		return n
	}
	return UnknownName
}

// SearchText is the string the root resolver matches queries against.
func (r *Record) SearchText() string {
	return r.DisplayName() + " " + r.Xref
}

// UnknownName is used for records without a name.
const UnknownName = "Unknown"

// =============================================================================
// Lookup
// =============================================================================

// Lookup indexes a person list by xref. Each index holds the position of the
// record in the source list so callers can key dense bitsets by it.
type Lookup struct {
	records []Record
	byXref  map[string]int
}

// NewLookup builds a Lookup over persons. The slice is not copied; callers
// must treat it as immutable for the Lookup's lifetime. When an xref appears
// more than once the first occurrence wins.
func NewLookup(persons []Record) *Lookup {
	byXref := make(map[string]int, len(persons))
	for i := range persons {
		if _, dup := byXref[persons[i].Xref]; !dup {
			byXref[persons[i].Xref] = i
		}
	}
	return &Lookup{records: persons, byXref: byXref}
}

// Get returns the record for xref, or nil.
func (l *Lookup) Get(xref string) *Record {
	if i, ok := l.byXref[xref]; ok {
		return &l.records[i]
	}
	return nil
}

// Index returns the list position of xref.
func (l *Lookup) Index(xref string) (int, bool) {
	i, ok := l.byXref[xref]
	return i, ok
}

// Has reports whether xref names a known person.
func (l *Lookup) Has(xref string) bool {
	_, ok := l.byXref[xref]
	return ok
}

// Len returns the number of records in the source list.
func (l *Lookup) Len() int { return len(l.records) }

// Records returns the source list.
func (l *Lookup) Records() []Record { return l.records }

// =============================================================================
// Validation
// =============================================================================

// Validate rejects person lists that cannot be addressed unambiguously:
// empty or malformed identifiers and duplicate identifiers. Dangling or
// cyclic parent references are not validation errors.
func Validate(persons []Record) error {
	seen := make(map[string]struct{}, len(persons))
	for i := range persons {
		xref := persons[i].Xref
		if err := fterrors.ValidateXref(xref); err != nil {
			return fterrors.Wrap(fterrors.GetCode(err), err, "person #%d", i+1)
		}
		if _, dup := seen[xref]; dup {
			return fterrors.New(fterrors.ErrCodeDuplicateXref, "duplicate identifier %s", xref)
		}
		seen[xref] = struct{}{}
	}
	return nil
}
