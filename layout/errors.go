package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrCursorOverflow is returned when a write does not fit the remaining
	// page region.
	ErrCursorOverflow = errors.New("layout: cursor overflow")

	// ErrTruncatedRead is returned when fewer bytes are available, or were
	// declared, than the layout needs.
	ErrTruncatedRead = errors.New("layout: truncated read")

	// ErrInvariant is returned for values the format cannot represent.
	ErrInvariant = errors.New("layout: invariant violation")

	// ErrFormatMismatch is matched by every *FormatMismatchError.
	ErrFormatMismatch = errors.New("layout: format mismatch")

	// ErrInvalidName is returned by NamedIdentifier for unusable mnemonics.
	ErrInvalidName = errors.New("layout: invalid identifier name")
)

// FormatMismatchError reports a stored identifier or version that does not
// match the runtime layout.
type FormatMismatchError struct {
	Field    string
	Expected int64
	Actual   int64
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("layout: format mismatch: %s expected 0x%x, got 0x%x", e.Field, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrFormatMismatch) hold.
func (e *FormatMismatchError) Is(target error) bool { return target == ErrFormatMismatch }

// IsFormatMismatch returns true if err is or wraps a format mismatch.
func IsFormatMismatch(err error) bool {
	return errors.Is(err, ErrFormatMismatch)
}
