package segment

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/pagecursor"
	"github.com/klauspost/crc32"
)

// Writer builds a segment from entries added in strictly increasing order.
// The payload is buffered and written to the underlying writer on Close.
type Writer[K layout.Key, V any] struct {
	w    io.Writer
	l    layout.Layout[K, V]
	opts options

	page        *pagecursor.Cursor
	pageEntries int32
	pageCount   uint32
	payload     bytes.Buffer

	keySize   int
	valueSize int

	last    K
	hasLast bool
	count   uint64
	closed  bool
	header  Header
}

// NewWriter returns a Writer for layout l.
func NewWriter[K layout.Key, V any](w io.Writer, l layout.Layout[K, V], optFns ...Option) (*Writer[K, V], error) {
	opts := applyOptions(optFns)

	if opts.pageSize < MinPageSize || opts.pageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: page size %d not in [%d, %d]", ErrInvalidOption, opts.pageSize, MinPageSize, MaxPageSize)
	}
	if !opts.codec.Valid() {
		return nil, fmt.Errorf("%w: codec %d", ErrInvalidOption, uint8(opts.codec))
	}

	sw := &Writer[K, V]{
		w:    w,
		l:    l,
		opts: opts,
		page: pagecursor.New(opts.pageSize),
		last: l.NewKey(),
	}
	if l.FixedSize() {
		sw.keySize = l.KeySize(l.NewKey())
		sw.valueSize = l.ValueSize(l.NewValue())
	}
	sw.page.SetOffset(pageHeaderSize)

	return sw, nil
}

// Len returns the number of entries added so far.
func (w *Writer[K, V]) Len() uint64 { return w.count }

// Add appends one entry. key must sort strictly after the previous key.
func (w *Writer[K, V]) Add(key K, value V) error {
	if w.closed {
		return ErrClosed
	}

	if w.hasLast {
		switch c := w.l.Compare(w.last, key); {
		case c == 0:
			return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
		case c > 0:
			return fmt.Errorf("%w: %v after %v", ErrOutOfOrder, key, w.last)
		}
	}

	ks, vs := w.l.KeySize(key), w.l.ValueSize(value)
	size := ks + vs
	if !w.l.FixedSize() {
		if ks > math.MaxUint16 || vs > math.MaxUint16 {
			return fmt.Errorf("%w: entry of %d+%d bytes", layout.ErrInvariant, ks, vs)
		}
		size += entryHeaderSize
	}
	if size > w.opts.pageSize-pageHeaderSize {
		return fmt.Errorf("%w: entry of %d bytes exceeds page of %d bytes", layout.ErrCursorOverflow, size, w.opts.pageSize)
	}

	if w.page.Remaining() < size {
		if err := w.flushPage(); err != nil {
			return err
		}
	}

	start := w.page.Offset()
	if !w.l.FixedSize() {
		w.page.PutShort(int16(uint16(ks)))
		w.page.PutShort(int16(uint16(vs)))
	}
	if err := w.l.WriteKey(w.page, key); err != nil {
		w.page.SetOffset(start)
		return err
	}
	if err := w.l.WriteValue(w.page, value); err != nil {
		w.page.SetOffset(start)
		return err
	}
	if err := layout.CheckBounds(w.page, layout.ErrCursorOverflow); err != nil {
		w.page.SetOffset(start)
		return err
	}

	w.l.CopyKey(key, w.last)
	w.last.SetCompareID(false)
	w.hasLast = true
	w.pageEntries++
	w.count++
	return nil
}

func (w *Writer[K, V]) flushPage() error {
	if w.pageEntries == 0 {
		return nil
	}

	end := w.page.Offset()
	w.page.SetOffset(0)
	w.page.PutInt(w.pageEntries)

	block, err := w.opts.codec.Compress(w.page.Bytes()[:end])
	if err != nil {
		return err
	}
	w.payload.Write(block)

	if w.payload.Len() > math.MaxUint32 {
		return fmt.Errorf("%w: payload exceeds %d bytes", layout.ErrInvariant, uint32(math.MaxUint32))
	}

	w.pageCount++
	w.pageEntries = 0
	w.page.Zero()
	w.page.SetOffset(pageHeaderSize)
	return nil
}

// Close flushes the last page and writes header and payload.
// It does not close the underlying writer.
func (w *Writer[K, V]) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	if err := w.flushPage(); err != nil {
		return err
	}

	payload := w.payload.Bytes()

	w.header = Header{
		Magic:            Magic,
		ContainerVersion: ContainerVersion,
		LayoutIdentifier: w.l.Identifier(),
		LayoutMajor:      uint16(w.l.MajorVersion()),
		LayoutMinor:      uint16(w.l.MinorVersion()),
		KeySize:          uint32(w.keySize),
		ValueSize:        uint32(w.valueSize),
		EntryCount:       w.count,
		PageSize:         uint32(w.opts.pageSize),
		PageCount:        w.pageCount,
		Codec:            w.opts.codec,
		PayloadLength:    uint32(len(payload)),
		Checksum:         crc32.ChecksumIEEE(payload),
	}
	if w.l.FixedSize() {
		w.header.Flags |= FlagFixedSize
	}

	hdr, err := w.header.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.w.Write(hdr); err != nil {
		return err
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}
	return nil
}

// Header returns the header written by Close.
func (w *Writer[K, V]) Header() Header { return w.header }
