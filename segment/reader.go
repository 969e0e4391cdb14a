package segment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/schemaidx/blobstore"
	"github.com/hupe1980/schemaidx/codec"
	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/pagecursor"
	"github.com/klauspost/crc32"
)

// Reader serves ordered scans over one decoded segment.
// It is safe for concurrent use.
type Reader[K layout.Key, V any] struct {
	l      layout.Layout[K, V]
	header Header

	pages     [][]byte
	firstKeys []K
}

// Open reads and validates a segment from blob. The header is checked
// against l before any key is decoded.
func Open[K layout.Key, V any](ctx context.Context, blob blobstore.Blob, l layout.Layout[K, V], optFns ...Option) (*Reader[K, V], error) {
	opts := applyOptions(optFns)

	size := blob.Size()
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: blob is %d bytes", ErrCorrupt, size)
	}

	buf := make([]byte, HeaderSize)
	if err := readFull(ctx, blob, buf, 0); err != nil {
		return nil, err
	}

	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	if err := checkLayout(&h, l); err != nil {
		return nil, err
	}

	if size != HeaderSize+int64(h.PayloadLength) {
		return nil, fmt.Errorf("%w: blob is %d bytes, header declares %d", ErrCorrupt, size, HeaderSize+int64(h.PayloadLength))
	}

	if err := opts.acquireIO(ctx, int(h.PayloadLength)); err != nil {
		return nil, err
	}
	payload := make([]byte, h.PayloadLength)
	if err := readFull(ctx, blob, payload, HeaderSize); err != nil {
		return nil, err
	}
	if sum := crc32.ChecksumIEEE(payload); sum != h.Checksum {
		return nil, &ChecksumMismatchError{Expected: h.Checksum, Actual: sum}
	}

	r := &Reader[K, V]{l: l, header: h}
	if err := r.decodePages(payload); err != nil {
		return nil, err
	}
	return r, nil
}

func readFull(ctx context.Context, blob blobstore.Blob, p []byte, off int64) error {
	n, err := blob.ReadAt(ctx, p, off)
	if n == len(p) && (err == nil || errors.Is(err, io.EOF)) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: short read of %d/%d bytes at %d", ErrCorrupt, n, len(p), off)
	}
	return err
}

func checkLayout[K, V any](h *Header, l layout.Layout[K, V]) error {
	if err := layout.Verify(l, h.LayoutIdentifier, int(h.LayoutMajor)); err != nil {
		return err
	}
	h.NewerMinor = layout.NewerMinor(l, int(h.LayoutMinor))

	if h.FixedSize() != l.FixedSize() {
		return &layout.FormatMismatchError{Field: "fixed size", Expected: boolToInt(l.FixedSize()), Actual: boolToInt(h.FixedSize())}
	}
	if !l.FixedSize() {
		return nil
	}
	if ks := l.KeySize(l.NewKey()); int64(ks) != int64(h.KeySize) {
		return &layout.FormatMismatchError{Field: "key size", Expected: int64(ks), Actual: int64(h.KeySize)}
	}
	if vs := l.ValueSize(l.NewValue()); int64(vs) != int64(h.ValueSize) {
		return &layout.FormatMismatchError{Field: "value size", Expected: int64(vs), Actual: int64(h.ValueSize)}
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (r *Reader[K, V]) decodePages(payload []byte) error {
	r.pages = make([][]byte, 0, r.header.PageCount)
	r.firstKeys = make([]K, 0, r.header.PageCount)

	var total uint64
	for off := 0; off < len(payload); {
		n, err := codec.BlockLen(payload[off:])
		if err != nil {
			return err
		}
		if off+n > len(payload) {
			return fmt.Errorf("%w: page %d overruns payload", ErrCorrupt, len(r.pages))
		}

		page, err := r.header.Codec.Decompress(payload[off : off+n])
		if err != nil {
			return err
		}
		if len(page) < pageHeaderSize || len(page) > int(r.header.PageSize) {
			return fmt.Errorf("%w: page %d is %d bytes", ErrCorrupt, len(r.pages), len(page))
		}

		c := pagecursor.Wrap(page)
		count := c.GetInt()
		if count <= 0 {
			return fmt.Errorf("%w: page %d holds %d entries", ErrCorrupt, len(r.pages), count)
		}
		total += uint64(count)

		first := r.l.NewKey()
		if err := r.readEntry(c, first, r.l.NewValue()); err != nil {
			return fmt.Errorf("page %d: %w", len(r.pages), err)
		}

		r.pages = append(r.pages, page)
		r.firstKeys = append(r.firstKeys, first)
		off += n
	}

	if uint32(len(r.pages)) != r.header.PageCount {
		return fmt.Errorf("%w: decoded %d pages, header declares %d", ErrCorrupt, len(r.pages), r.header.PageCount)
	}
	if total != r.header.EntryCount {
		return fmt.Errorf("%w: decoded %d entries, header declares %d", ErrCorrupt, total, r.header.EntryCount)
	}
	return nil
}

func (r *Reader[K, V]) readEntry(c *pagecursor.Cursor, key K, value V) error {
	ks, vs := int(r.header.KeySize), int(r.header.ValueSize)
	if !r.header.FixedSize() {
		if c.Remaining() < entryHeaderSize {
			return fmt.Errorf("%w: entry header at offset %d", layout.ErrTruncatedRead, c.Offset())
		}
		ks = int(uint16(c.GetShort()))
		vs = int(uint16(c.GetShort()))
	}
	if err := r.l.ReadKey(c, key, ks); err != nil {
		return err
	}
	return r.l.ReadValue(c, value, vs)
}

// Header returns the validated segment header.
func (r *Reader[K, V]) Header() Header { return r.header }

// Len returns the number of entries.
func (r *Reader[K, V]) Len() uint64 { return r.header.EntryCount }

// scanPage decodes entries of page i in order and calls fn for each.
// fn returns false to stop the scan.
func (r *Reader[K, V]) scanPage(i int, key K, value V, fn func(K, V) bool) (bool, error) {
	c := pagecursor.Wrap(r.pages[i])
	count := int(c.GetInt())
	for range count {
		if err := r.readEntry(c, key, value); err != nil {
			return false, fmt.Errorf("page %d: %w", i, err)
		}
		if !fn(key, value) {
			return false, nil
		}
	}
	return true, nil
}

// Scan calls fn for every entry in order. key and value are reused between
// calls; copy them with the layout to retain them.
func (r *Reader[K, V]) Scan(fn func(K, V) bool) error {
	key, value := r.l.NewKey(), r.l.NewValue()
	for i := range r.pages {
		more, err := r.scanPage(i, key, value, fn)
		if err != nil || !more {
			return err
		}
	}
	return nil
}

// Seek calls fn in order for every entry e with from <= e < to under the
// layout comparator. key and value are reused between calls.
func (r *Reader[K, V]) Seek(ctx context.Context, from, to K, fn func(K, V) bool) error {
	// last page whose first key sorts before from
	start := sort.Search(len(r.firstKeys), func(i int) bool {
		return r.l.Compare(r.firstKeys[i], from) >= 0
	})
	if start > 0 {
		start--
	}

	key, value := r.l.NewKey(), r.l.NewValue()
	done := false
	visit := func(k K, v V) bool {
		if r.l.Compare(k, from) < 0 {
			return true
		}
		if r.l.Compare(k, to) >= 0 {
			done = true
			return false
		}
		return fn(k, v)
	}

	for i := start; i < len(r.pages); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := r.scanPage(i, key, value, visit)
		if err != nil || !more || done {
			return err
		}
	}
	return nil
}

// Range returns the entity ids of entries between from and to. The domain
// values of from and to are read; the keys themselves are not modified.
func (r *Reader[K, V]) Range(ctx context.Context, from, to K, fromInclusive, toInclusive bool) (*roaring64.Bitmap, error) {
	lo := r.l.CopyKey(from, r.l.NewKey())
	hi := r.l.CopyKey(to, r.l.NewKey())
	layout.InitRange(lo, hi, fromInclusive, toInclusive)

	ids := roaring64.New()
	err := r.Seek(ctx, lo, hi, func(k K, _ V) bool {
		ids.Add(uint64(k.EntityID()))
		return true
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Lookup returns the entity ids of entries whose value equals key's value.
func (r *Reader[K, V]) Lookup(ctx context.Context, key K) (*roaring64.Bitmap, error) {
	return r.Range(ctx, key, key, true, true)
}
