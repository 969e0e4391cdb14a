// Package schemaidx provides persistent schema indexes for Go.
//
// A schema index maps property values to the entities that hold them. Each
// index is bound to one layout (see package layout) that defines how keys
// are encoded, how they are ordered, and whether a value may belong to more
// than one entity.
//
// # Quick Start
//
// Local mode:
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//	idx, _ := schemaidx.Create(ctx, store, "person_born", temporal.UniqueLocalDateTime)
//	idx, _ := schemaidx.Open(ctx, store, "person_born", temporal.UniqueLocalDateTime) // re-open existing
//
// Cloud mode:
//
//	s3Store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("indexes/"))
//	idx, _ := schemaidx.Open(ctx, s3Store, "person_born", temporal.UniqueLocalDateTime)
//
// # Writing
//
// Insert copies the key, so callers can reuse one scratch key:
//
//	key := temporal.UniqueLocalDateTime.NewKey()
//	for _, p := range people {
//	    key.Initialize(p.ID)
//	    key.From(p.Born)
//	    if err := idx.Insert(ctx, key, layout.NativeValueInstance); err != nil { ... }
//	}
//
// Under a unique layout, inserting a value owned by another entity fails
// with ErrUniqueConstraint.
//
// # Durability Model
//
// Inserts are buffered in memory until Flush writes them as an immutable,
// checksummed segment and atomically records it in the index manifest:
//
//	idx.Insert(ctx, key, value) // buffered in memory
//	idx.Flush(ctx)              // durable after this
//
// Close flushes as well. WithMemtableLimit flushes automatically.
//
// # Querying
//
// Range and Lookup return the matching entity ids as a roaring bitmap:
//
//	ids, _ := idx.Range(ctx, from, to, true, false) // [from, to)
//	ids, _ := idx.Lookup(ctx, key)
//
// # Compatibility
//
// Every segment and manifest records the layout identifier and version.
// Opening data written by another layout or major version fails with
// ErrFormatMismatch before any key is decoded.
package schemaidx
