package schemaidx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/schemaidx/blobstore"
	"github.com/hupe1980/schemaidx/internal/manifest"
	"github.com/hupe1980/schemaidx/internal/memtable"
	"github.com/hupe1980/schemaidx/internal/resource"
	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/pagecursor"
	"github.com/hupe1980/schemaidx/schema"
	"github.com/hupe1980/schemaidx/segment"
)

const segmentExt = ".seg"

// Index is a persistent schema index over one layout.
//
// Inserts go to an in-memory table that is written out as an immutable
// segment on Flush, on Close, or when the memtable limit is reached.
// Range and Lookup merge the memtable with every segment.
type Index[K layout.Key, V any] struct {
	mu sync.RWMutex

	name   string
	store  blobstore.BlobStore
	l      layout.Layout[K, V]
	unique bool
	opts   options
	rc     *resource.Controller

	manifests *manifest.Store
	manifest  *manifest.Manifest
	mem       *memtable.MemTable[K, V]
	segments  []*segment.Reader[K, V]

	logger  *Logger
	metrics MetricsCollector
	closed  bool
}

// Create creates a new, empty index called name in store.
// It fails with ErrIndexExists if the index is already present.
func Create[K layout.Key, V any](ctx context.Context, store blobstore.BlobStore, name string, l layout.Layout[K, V], optFns ...Option) (*Index[K, V], error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	idx := newIndex(store, name, l, optFns)

	_, err := idx.manifests.Load(ctx)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrIndexExists, name)
	}
	if !errors.Is(err, manifest.ErrNotFound) {
		return nil, translateError(err)
	}

	m := manifest.New(name, l.Identifier(), l.MajorVersion(), l.MinorVersion())
	if err := idx.manifests.Save(ctx, m); err != nil {
		return nil, translateError(err)
	}
	idx.manifest = m

	idx.logger.InfoContext(ctx, "index created", "layout", l.Identifier(), "unique", idx.unique)
	return idx, nil
}

// Open opens an existing index. The persisted layout identifier and major
// version are checked before any segment is read.
func Open[K layout.Key, V any](ctx context.Context, store blobstore.BlobStore, name string, l layout.Layout[K, V], optFns ...Option) (*Index[K, V], error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	start := time.Now()
	idx := newIndex(store, name, l, optFns)

	err := idx.open(ctx)

	idx.metrics.RecordOpen(len(idx.segments), time.Since(start), err)
	var entries uint64
	if idx.manifest != nil {
		entries = idx.manifest.EntryCount()
	}
	idx.logger.LogOpen(ctx, len(idx.segments), entries, err)

	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index[K, V]) open(ctx context.Context) error {
	m, err := idx.manifests.Load(ctx)
	if err != nil {
		return translateError(err)
	}
	if err := layout.Verify(idx.l, m.LayoutIdentifier, m.LayoutMajor); err != nil {
		return translateError(err)
	}
	if layout.NewerMinor(idx.l, m.LayoutMinor) {
		idx.logger.WarnContext(ctx, "index written by a newer minor version",
			"persisted", m.LayoutMinor,
			"runtime", idx.l.MinorVersion(),
		)
	}

	readers := make([]*segment.Reader[K, V], len(m.Segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.rc.Workers())
	for i, info := range m.Segments {
		g.Go(func() error {
			r, err := idx.openSegment(gctx, info.Path)
			if err != nil {
				return fmt.Errorf("segment %s: %w", info.Path, err)
			}
			readers[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return translateError(err)
	}

	idx.manifest = m
	idx.segments = readers

	idx.logOrphans(ctx)
	return nil
}

func newIndex[K layout.Key, V any](store blobstore.BlobStore, name string, l layout.Layout[K, V], optFns []Option) *Index[K, V] {
	opts := applyOptions(optFns)

	return &Index[K, V]{
		name:   name,
		store:  store,
		l:      l,
		unique: isUnique(l),
		opts:   opts,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:     opts.memtableLimitBytes,
			MaxBackgroundWorkers: opts.maxBackgroundWorkers,
			IOLimitBytesPerSec:   opts.ioLimitBytesPerSec,
		}),
		manifests: manifest.NewStore(store, name),
		mem:       memtable.New(l),
		logger:    opts.logger.WithIndex(name),
		metrics:   opts.metricsCollector,
	}
}

// isUnique asks the layout for its uniqueness. Layouts without a
// UniquenessReporter are unique when two keys that differ only in entity id
// compare equal.
func isUnique[K layout.Key, V any](l layout.Layout[K, V]) bool {
	if r, ok := any(l).(layout.UniquenessReporter); ok {
		return r.Uniqueness() == schema.Unique
	}
	a, b := l.NewKey(), l.NewKey()
	a.SetEntityID(1)
	b.SetEntityID(2)
	return l.Compare(a, b) == 0
}

func validateName(name string) error {
	if name == "" || name == "." || !fs.ValidPath(name) || path.Clean(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func segmentFileName(id uint64) string {
	return fmt.Sprintf("%06d%s", id, segmentExt)
}

func (idx *Index[K, V]) blobPath(name string) string {
	return path.Join(idx.name, name)
}

func (idx *Index[K, V]) openSegment(ctx context.Context, name string) (*segment.Reader[K, V], error) {
	blob, err := idx.store.Open(ctx, idx.blobPath(name))
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	return segment.Open(ctx, blob, idx.l, segment.WithIOLimiter(idx.rc))
}

func (idx *Index[K, V]) logOrphans(ctx context.Context) {
	names, err := idx.store.List(ctx, idx.name+"/")
	if err != nil {
		idx.logger.WarnContext(ctx, "listing segments failed", "error", err)
		return
	}

	known := make(map[string]struct{}, len(idx.manifest.Segments))
	for _, s := range idx.manifest.Segments {
		known[idx.blobPath(s.Path)] = struct{}{}
	}
	for _, n := range names {
		if !strings.HasSuffix(n, segmentExt) {
			continue
		}
		if _, ok := known[n]; !ok {
			idx.logger.LogOrphan(ctx, n)
		}
	}
}

// Name returns the index name.
func (idx *Index[K, V]) Name() string { return idx.name }

// Unique reports whether the layout allows at most one entity per value.
func (idx *Index[K, V]) Unique() bool { return idx.unique }

// Len returns the number of entries in the memtable and all segments.
func (idx *Index[K, V]) Len() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return uint64(idx.mem.Len()) + idx.manifest.EntryCount()
}

// Insert adds key and value. Both are copied; the caller may reuse them.
//
// Inserting an entry that is already present is a no-op. Under a unique
// layout, a value already owned by another entity fails with
// ErrUniqueConstraint.
func (idx *Index[K, V]) Insert(ctx context.Context, key K, value V) (err error) {
	start := time.Now()
	defer func() {
		idx.metrics.RecordInsert(time.Since(start), err)
		idx.logger.LogInsert(ctx, key.EntityID(), err)
	}()

	if err := layout.CheckEntityID(key.EntityID()); err != nil {
		return err
	}

	k := idx.l.CopyKey(key, idx.l.NewKey())
	k.SetCompareID(false)
	v, err := idx.copyValue(value)
	if err != nil {
		return err
	}
	size := memtable.EntrySize(idx.l, k, v)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	ids, err := idx.lookupLocked(ctx, k)
	if err != nil {
		return translateError(err)
	}
	if ids.Contains(uint64(k.EntityID())) {
		return nil
	}
	if idx.unique && !ids.IsEmpty() {
		return fmt.Errorf("%w: value is owned by entity %d", ErrUniqueConstraint, ids.Minimum())
	}

	if err := idx.rc.AcquireMemory(size); err != nil {
		if !errors.Is(err, resource.ErrMemoryLimitExceeded) || idx.mem.Len() == 0 {
			return translateError(err)
		}
		if err := idx.flushLocked(ctx); err != nil {
			return err
		}
		if err := idx.rc.AcquireMemory(size); err != nil {
			return translateError(err)
		}
	}

	idx.mem.Insert(k, v)
	return nil
}

// copyValue round-trips value through the layout codec into a fresh instance.
func (idx *Index[K, V]) copyValue(value V) (V, error) {
	n := idx.l.ValueSize(value)
	c := pagecursor.New(n)
	if err := idx.l.WriteValue(c, value); err != nil {
		return value, err
	}
	c.Reset()

	v := idx.l.NewValue()
	if err := idx.l.ReadValue(c, v, n); err != nil {
		return value, err
	}
	return v, nil
}

// Flush writes the memtable as a new segment and records it in the manifest.
func (idx *Index[K, V]) Flush(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}
	return idx.flushLocked(ctx)
}

func (idx *Index[K, V]) flushLocked(ctx context.Context) (err error) {
	n := idx.mem.Len()
	if n == 0 {
		return nil
	}

	start := time.Now()
	id := idx.manifest.NextSegmentID
	name := segmentFileName(id)
	defer func() {
		idx.metrics.RecordFlush(n, time.Since(start), err)
		idx.logger.LogFlush(ctx, name, n, err)
	}()

	if err := idx.rc.AcquireBackground(ctx); err != nil {
		return err
	}
	defer idx.rc.ReleaseBackground()

	size, err := idx.writeSegment(ctx, name)
	if err != nil {
		_ = idx.store.Delete(ctx, idx.blobPath(name))
		return translateError(err)
	}

	r, err := idx.openSegment(ctx, name)
	if err != nil {
		_ = idx.store.Delete(ctx, idx.blobPath(name))
		return translateError(err)
	}

	next := idx.manifest.Clone()
	next.NextSegmentID++
	next.Segments = append(next.Segments, manifest.SegmentInfo{
		ID:         id,
		EntryCount: uint64(n),
		Size:       size,
		Path:       name,
	})
	if err := idx.manifests.Save(ctx, next); err != nil {
		_ = idx.store.Delete(ctx, idx.blobPath(name))
		return translateError(err)
	}

	idx.manifest = next
	idx.segments = append(idx.segments, r)
	idx.rc.ReleaseMemory(idx.mem.Reset())
	return nil
}

func (idx *Index[K, V]) writeSegment(ctx context.Context, name string) (int64, error) {
	wb, err := idx.store.Create(ctx, idx.blobPath(name))
	if err != nil {
		return 0, err
	}

	sw, err := segment.NewWriter(resource.NewRateLimitedWriter(ctx, wb, idx.rc), idx.l,
		segment.WithCodec(idx.opts.codec),
		segment.WithPageSize(idx.opts.pageSize),
	)
	if err != nil {
		_ = wb.Close()
		return 0, err
	}

	idx.mem.Scan(func(k K, v V) bool {
		err = sw.Add(k, v)
		return err == nil
	})
	if err == nil {
		err = sw.Close()
	}
	if err == nil {
		err = wb.Sync()
	}
	if cerr := wb.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}

	h := sw.Header()
	return segment.HeaderSize + int64(h.PayloadLength), nil
}

// Range returns the entity ids of all entries whose value lies between the
// values of from and to. Entity ids and CompareID of from and to are ignored.
func (idx *Index[K, V]) Range(ctx context.Context, from, to K, fromInclusive, toInclusive bool) (ids *roaring64.Bitmap, err error) {
	start := time.Now()
	defer func() {
		var n uint64
		if ids != nil {
			n = ids.GetCardinality()
		}
		idx.metrics.RecordRange(n, time.Since(start), err)
		idx.logger.LogRange(ctx, n, err)
	}()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, ErrClosed
	}

	ids, err = idx.rangeLocked(ctx, from, to, fromInclusive, toInclusive)
	return ids, translateError(err)
}

// Lookup returns the entity ids of all entries whose value equals key's value.
func (idx *Index[K, V]) Lookup(ctx context.Context, key K) (*roaring64.Bitmap, error) {
	return idx.Range(ctx, key, key, true, true)
}

func (idx *Index[K, V]) lookupLocked(ctx context.Context, key K) (*roaring64.Bitmap, error) {
	return idx.rangeLocked(ctx, key, key, true, true)
}

func (idx *Index[K, V]) rangeLocked(ctx context.Context, from, to K, fromInclusive, toInclusive bool) (*roaring64.Bitmap, error) {
	ids := idx.mem.Range(from, to, fromInclusive, toInclusive)
	if len(idx.segments) == 0 {
		return ids, nil
	}

	parts := make([]*roaring64.Bitmap, len(idx.segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.rc.Workers())
	for i, r := range idx.segments {
		g.Go(func() error {
			part, err := r.Range(gctx, from, to, fromInclusive, toInclusive)
			parts[i] = part
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, part := range parts {
		ids.Or(part)
	}
	return ids, nil
}

// Close flushes the memtable and closes the index.
// Further operations return ErrClosed.
func (idx *Index[K, V]) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	err := idx.flushLocked(context.Background())
	idx.closed = true
	idx.segments = nil
	return err
}
