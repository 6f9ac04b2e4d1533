// Package compat implements the livestock compatibility engine: it resolves
// free-text species names against a trait catalog, evaluates a fixed ordered
// rule set over every ordered pair of stocked species, and aggregates the
// resulting findings into a directional severity matrix.
//
// The engine is synchronous, has no I/O, and holds no mutable state; it may
// be invoked repeatedly on the same input and yields identical output. The
// catalog it reads is immutable and replaced wholesale via CatalogRef.
package compat
