// Package store is a content-addressed object store with mutable tags.
//
// Four kinds of entity are kept:
//   - Values: opaque text contents
//   - Trees: sorted, named entries pointing at values or other trees
//   - Revisions: snapshots of a root tree with parents, author and message
//   - Tags: mutable names pointing at any key
//
// Values, trees and revisions are immutable and addressed by the SHA-256 of
// their canonical form, so adding the same entity twice yields the same key.
//
// On top of these, Store offers a hierarchical path surface (Read, Mem, List,
// Update, Remove) over the head revision of a branch tag. Every Update or
// Remove that changes the tree records a new revision and moves the tag.
//
// Persistence is delegated to a Backend. Memory keeps everything in maps;
// the sqlite subpackage persists objects and refs in SQLite.
package store
