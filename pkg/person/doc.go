// Package person defines the person record consumed by the family-tree engine.
//
// Records arrive from an external data-access layer (file, database, HTTP
// body) as a flat, ordered list. Each record carries an xref identifier, a
// display name, optional birth and death date strings, a derived birth year,
// a living-status flag, and optional father and mother identifiers.
//
// # Parent References
//
// Father and mother identifiers are plain strings. They may be empty, point
// at an identifier that does not exist in the list, or participate in a
// cycle. Nothing in this package rejects such links; the tree builder turns
// them into placeholder and cycle nodes.
//
// # Refresh Semantics
//
// A person list is always replaced wholesale after an upload, edit or merge.
// Derived structures ([Lookup], the kinship index, built trees) must be
// rebuilt from the new list, never patched.
//
// # Dates
//
// [ExtractYear] reads the last four-digit year out of a GEDCOM-style date
// phrase. [InferLiving] applies the conservative living heuristic used by the
// importer, and [Lifespan] produces the short lifespan line shown on nodes.
package person
