// Package pagecursor provides a positioned reader/writer over one page.
//
// All integers are little-endian and fixed width. Accesses that would leave
// the page never touch memory: they raise a sticky bounds flag instead, and
// reads return zero. Callers check the flag once after a group of accesses,
// the way a page engine validates an optimistic read.
package pagecursor

import "encoding/binary"

// Cursor is a page cursor over a fixed-size byte slice.
// It is not safe for concurrent use.
type Cursor struct {
	page   []byte
	offset int
	oob    bool
}

// New allocates a zeroed page of size bytes.
func New(size int) *Cursor {
	return &Cursor{page: make([]byte, size)}
}

// Wrap positions a cursor at offset 0 of page. The page is not copied.
func Wrap(page []byte) *Cursor {
	return &Cursor{page: page}
}

// Bytes returns the underlying page.
func (c *Cursor) Bytes() []byte { return c.page }

// Len returns the page size.
func (c *Cursor) Len() int { return len(c.page) }

// Offset returns the current position.
func (c *Cursor) Offset() int { return c.offset }

// SetOffset moves the cursor. Offsets outside the page raise the bounds flag
// on the next access.
func (c *Cursor) SetOffset(off int) { c.offset = off }

// Remaining returns the bytes between the current offset and the page end.
func (c *Cursor) Remaining() int {
	if c.offset < 0 || c.offset > len(c.page) {
		return 0
	}
	return len(c.page) - c.offset
}

// Reset rewinds to offset 0 and clears the bounds flag.
func (c *Cursor) Reset() {
	c.offset = 0
	c.oob = false
}

// Zero clears the page contents and resets the cursor.
func (c *Cursor) Zero() {
	clear(c.page)
	c.Reset()
}

// CheckAndClearBoundsFlag reports whether any access since the last call
// went out of bounds, and clears the flag.
func (c *Cursor) CheckAndClearBoundsFlag() bool {
	oob := c.oob
	c.oob = false
	return oob
}

// claim returns the slice for the next n bytes and advances, or nil and
// raises the bounds flag.
func (c *Cursor) claim(n int) []byte {
	if c.offset < 0 || n < 0 || c.offset+n > len(c.page) {
		c.oob = true
		return nil
	}
	b := c.page[c.offset : c.offset+n]
	c.offset += n
	return b
}

func (c *Cursor) PutLong(v int64) {
	if b := c.claim(8); b != nil {
		binary.LittleEndian.PutUint64(b, uint64(v))
	}
}

func (c *Cursor) PutInt(v int32) {
	if b := c.claim(4); b != nil {
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
}

func (c *Cursor) PutShort(v int16) {
	if b := c.claim(2); b != nil {
		binary.LittleEndian.PutUint16(b, uint16(v))
	}
}

func (c *Cursor) PutByte(v byte) {
	if b := c.claim(1); b != nil {
		b[0] = v
	}
}

// PutBytes writes p in full or not at all.
func (c *Cursor) PutBytes(p []byte) {
	if b := c.claim(len(p)); b != nil {
		copy(b, p)
	}
}

func (c *Cursor) GetLong() int64 {
	if b := c.claim(8); b != nil {
		return int64(binary.LittleEndian.Uint64(b))
	}
	return 0
}

func (c *Cursor) GetInt() int32 {
	if b := c.claim(4); b != nil {
		return int32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func (c *Cursor) GetShort() int16 {
	if b := c.claim(2); b != nil {
		return int16(binary.LittleEndian.Uint16(b))
	}
	return 0
}

func (c *Cursor) GetByte() byte {
	if b := c.claim(1); b != nil {
		return b[0]
	}
	return 0
}

// GetBytes fills dst in full, or zeroes it and raises the bounds flag.
func (c *Cursor) GetBytes(dst []byte) {
	if b := c.claim(len(dst)); b != nil {
		copy(dst, b)
		return
	}
	clear(dst)
}
