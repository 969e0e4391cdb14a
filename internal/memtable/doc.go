// Package memtable holds the unflushed entries of an index in layout order.
//
// A MemTable is a B-tree of owned keys and values ordered by the layout
// comparator. It is not safe for concurrent mutation; the index serializes
// writers and lets readers share it under a read lock.
//
// Once its byte estimate reaches the configured limit, the index writes the
// MemTable out as a segment and resets it.
package memtable
