// Package layout defines the contract between a value domain and the
// B+Tree page engine.
//
// A Layout binds one mutable Schema Key type and one Schema Value type to the
// tree: it allocates scratch instances, reports their encoded sizes, encodes
// and decodes them through a page Cursor, and orders keys.
//
// # Ordering
//
// Keys are ordered by their domain value first. Only when two values are
// equal does the entity id take part, and how it takes part is fixed when a
// layout singleton is constructed:
//
//	UniqueTieBreak    - equal unless either key has CompareID set
//	NonUniqueTieBreak - always compare entity ids
//
// # Identity
//
// Every layout carries a persisted identifier built by NamedIdentifier from a
// 4-character mnemonic and the value size class, plus a (major, minor) format
// version. Verify is the open-time check a storage engine performs against
// the identifier and version it persisted.
//
// # Ownership
//
// Layouts are immutable and safe for concurrent use. Keys and values are
// scratch buffers owned by exactly one operation at a time.
package layout
