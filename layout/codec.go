package layout

import "fmt"

// CheckWrite fails with ErrCursorOverflow unless n bytes fit at the
// cursor's current offset.
func CheckWrite(c Cursor, n int) error {
	if c.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes, %d remaining", ErrCursorOverflow, n, c.Remaining())
	}
	return nil
}

// CheckRead validates a declared entry size against the size the layout
// will consume and against the bytes the cursor still holds.
func CheckRead(c Cursor, declared, want int) error {
	if declared < want {
		return fmt.Errorf("%w: declared %d bytes, layout needs %d", ErrTruncatedRead, declared, want)
	}
	if declared > want {
		return fmt.Errorf("%w: declared %d bytes, layout consumes %d", ErrInvariant, declared, want)
	}
	if c.Remaining() < want {
		return fmt.Errorf("%w: need %d bytes, %d remaining", ErrTruncatedRead, want, c.Remaining())
	}
	return nil
}

// CheckBounds converts a raised cursor bounds flag into kind.
func CheckBounds(c Cursor, kind error) error {
	if c.CheckAndClearBoundsFlag() {
		return fmt.Errorf("%w: cursor out of bounds at offset %d", kind, c.Offset())
	}
	return nil
}

// CheckEntityID rejects negative entity ids at write time.
func CheckEntityID(id int64) error {
	if id < 0 {
		return fmt.Errorf("%w: entity id %d is negative", ErrInvariant, id)
	}
	return nil
}
