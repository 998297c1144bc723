// Package resolve turns free-text user input into a root person identifier.
//
// Resolution is first-found-first-returned over the person list order, with
// no ranking. [Root] and [Suggest] share one substring predicate so the top
// suggestion is always what pressing enter would resolve to. [Fuzzy] is a
// separate "did you mean" helper for interactive surfaces and never
// influences Root or Suggest.
package resolve

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/deepgen/famtree/pkg/person"
)

// DefaultLimit is used by Suggest and Fuzzy when limit is not positive.
const DefaultLimit = 8

// bracketed returns the GEDCOM-style identifiers such as @I12@ embedded in
// text, ordered by where they start. Every @ is tried as an opening
// delimiter, so identifiers that share a delimiter ("@X@I2@") are all found.
func bracketed(s string) []string {
	var ids []string
	for i := 0; i < len(s); i++ {
		if s[i] != '@' {
			continue
		}
		j := strings.IndexByte(s[i+1:], '@')
		if j <= 0 {
			continue
		}
		id := s[i : i+j+2]
		if strings.ContainsFunc(id[1:len(id)-1], unicode.IsSpace) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Xref     string `json:"xref"`
	Name     string `json:"name"`
	Lifespan string `json:"lifespan"`
}

// Label renders the suggestion as "Name (@I1@)". Root resolves a label back
// to the same identifier.
func (s Suggestion) Label() string {
	return s.Name + " (" + s.Xref + ")"
}

func suggestionFor(p *person.Record) Suggestion {
	return Suggestion{Xref: p.Xref, Name: p.DisplayName(), Lifespan: person.Lifespan(p)}
}

// Root resolves raw input to a person identifier:
//
//  1. the first bracketed identifier in the input that names a person
//  2. an input equal to an identifier, with or without the @ delimiters
//  3. the first person whose "name xref" contains the input, ignoring case
//
// It reports false when nothing matches or the input is blank.
func Root(raw string, persons []person.Record) (string, bool) {
	q := strings.TrimSpace(raw)
	if q == "" || len(persons) == 0 {
		return "", false
	}

	lookup := person.NewLookup(persons)
	for _, id := range bracketed(q) {
		if lookup.Has(id) {
			return id, true
		}
	}

	if lookup.Has(q) {
		return q, true
	}
	if bare := strings.Trim(q, "@"); bare != "" && lookup.Has("@"+bare+"@") {
		return "@" + bare + "@", true
	}

	needle := strings.ToLower(q)
	for i := range persons {
		if matches(&persons[i], needle) {
			return persons[i].Xref, true
		}
	}
	return "", false
}

// Suggest returns up to limit persons matching query, in list order. It stops
// scanning once the limit is reached. A blank query yields no suggestions.
func Suggest(query string, persons []person.Record, limit int) []Suggestion {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var out []Suggestion
	for i := range persons {
		if !matches(&persons[i], needle) {
			continue
		}
		out = append(out, suggestionFor(&persons[i]))
		if len(out) == limit {
			break
		}
	}
	return out
}

func matches(p *person.Record, needle string) bool {
	return strings.Contains(strings.ToLower(p.SearchText()), needle)
}

// =============================================================================
// Fuzzy fallback
// =============================================================================

// searchSource adapts a person list to fuzzy.Source.
type searchSource []person.Record

func (s searchSource) String(i int) string { return s[i].SearchText() }
func (s searchSource) Len() int            { return len(s) }

// Fuzzy returns up to limit persons whose "name xref" fuzzy-matches query,
// best match first. Interactive callers use it when Suggest finds nothing,
// e.g. for a misspelled name.
func Fuzzy(query string, persons []person.Record, limit int) []Suggestion {
	q := strings.TrimSpace(query)
	if q == "" || len(persons) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	found := fuzzy.FindFrom(q, searchSource(persons))
	out := make([]Suggestion, 0, min(limit, len(found)))
	for _, m := range found {
		out = append(out, suggestionFor(&persons[m.Index]))
		if len(out) == limit {
			break
		}
	}
	return out
}

// SuggestOrFuzzy returns Suggest results, falling back to Fuzzy when the
// substring search finds nothing. The second result reports whether the
// fallback was used.
func SuggestOrFuzzy(query string, persons []person.Record, limit int) ([]Suggestion, bool) {
	if s := Suggest(query, persons, limit); len(s) > 0 {
		return s, false
	}
	f := Fuzzy(query, persons, limit)
	return f, len(f) > 0
}
