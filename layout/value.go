package layout

import "fmt"

// NativeValueSize is the encoded size of NativeValue.
const NativeValueSize = 0

// NativeValue is the empty payload of an existence-only index entry.
type NativeValue struct{}

// NativeValueInstance is the shared NativeValue. It carries no state.
var NativeValueInstance = &NativeValue{}

// WriteNativeValue writes nothing.
func WriteNativeValue(_ Cursor, _ *NativeValue) error { return nil }

// ReadNativeValue consumes nothing and rejects any non-zero size.
func ReadNativeValue(_ Cursor, _ *NativeValue, valueSize int) error {
	if valueSize != NativeValueSize {
		return fmt.Errorf("%w: value size %d, want %d", ErrTruncatedRead, valueSize, NativeValueSize)
	}
	return nil
}
