package memtable

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/google/btree"

	"github.com/hupe1980/schemaidx/layout"
)

// degree is the B-tree node degree.
const degree = 32

// entryOverhead approximates the tree slot and the two pointers per entry.
const entryOverhead = 32

type entry[K, V any] struct {
	key   K
	value V
}

// MemTable is an in-memory ordered run of (key, value) entries.
type MemTable[K layout.Key, V any] struct {
	l    layout.Layout[K, V]
	tree *btree.BTreeG[entry[K, V]]
	size int64
}

// New creates an empty MemTable ordered by l.
func New[K layout.Key, V any](l layout.Layout[K, V]) *MemTable[K, V] {
	return &MemTable[K, V]{
		l: l,
		tree: btree.NewG(degree, func(a, b entry[K, V]) bool {
			return l.Compare(a.key, b.key) < 0
		}),
	}
}

// EntrySize estimates the memory an entry occupies once inserted.
func EntrySize[K, V any](l layout.Layout[K, V], key K, value V) int64 {
	return int64(l.KeySize(key)+l.ValueSize(value)) + entryOverhead
}

// Len returns the number of entries.
func (m *MemTable[K, V]) Len() int { return m.tree.Len() }

// Size returns the byte estimate of all entries.
func (m *MemTable[K, V]) Size() int64 { return m.size }

// Insert adds key and value, taking ownership of both. It reports false and
// leaves the table unchanged when an entry comparing equal is present.
func (m *MemTable[K, V]) Insert(key K, value V) bool {
	e := entry[K, V]{key: key, value: value}
	if m.tree.Has(e) {
		return false
	}
	m.tree.ReplaceOrInsert(e)
	m.size += EntrySize(m.l, key, value)
	return true
}

// Ascend calls fn in order for every entry e with from <= e < to.
// The keys passed to fn are owned by the table and must not be modified.
func (m *MemTable[K, V]) Ascend(from, to K, fn func(K, V) bool) {
	m.tree.AscendGreaterOrEqual(entry[K, V]{key: from}, func(e entry[K, V]) bool {
		if m.l.Compare(e.key, to) >= 0 {
			return false
		}
		return fn(e.key, e.value)
	})
}

// Scan calls fn for every entry in order.
func (m *MemTable[K, V]) Scan(fn func(K, V) bool) {
	m.tree.Ascend(func(e entry[K, V]) bool {
		return fn(e.key, e.value)
	})
}

// Range returns the entity ids of entries between from and to. The domain
// values of from and to are read; the keys themselves are not modified.
func (m *MemTable[K, V]) Range(from, to K, fromInclusive, toInclusive bool) *roaring64.Bitmap {
	lo := m.l.CopyKey(from, m.l.NewKey())
	hi := m.l.CopyKey(to, m.l.NewKey())
	layout.InitRange(lo, hi, fromInclusive, toInclusive)

	ids := roaring64.New()
	m.Ascend(lo, hi, func(k K, _ V) bool {
		ids.Add(uint64(k.EntityID()))
		return true
	})
	return ids
}

// Lookup returns the entity ids of entries whose value equals key's value.
func (m *MemTable[K, V]) Lookup(key K) *roaring64.Bitmap {
	return m.Range(key, key, true, true)
}

// Reset drops all entries and returns the byte estimate they held.
func (m *MemTable[K, V]) Reset() int64 {
	size := m.size
	m.tree.Clear(false)
	m.size = 0
	return size
}
