package layout

import "fmt"

// MaxNameLength is the longest mnemonic NamedIdentifier accepts.
const MaxNameLength = 4

// NamedIdentifier packs an ASCII mnemonic of up to 4 characters into the
// upper 32 bits and sizeClass into the lower 32 bits.
//
//	"UTld", 0  ->  0x5554_6c64_0000_0000
//
// The first character lands in the most significant byte used, so shorter
// names are right-aligned in the upper half.
func NamedIdentifier(name string, sizeClass int) (int64, error) {
	if len(name) == 0 || len(name) > MaxNameLength {
		return 0, fmt.Errorf("%w: %q must have 1 to %d characters", ErrInvalidName, name, MaxNameLength)
	}
	if sizeClass < 0 || int64(sizeClass) > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: size class %d out of range", ErrInvalidName, sizeClass)
	}
	var upper uint64
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == 0 || c > 0x7F {
			return 0, fmt.Errorf("%w: %q is not printable ASCII", ErrInvalidName, name)
		}
		upper = upper<<8 | uint64(c)
	}
	return int64(upper<<32 | uint64(uint32(sizeClass))), nil
}

// MustNamedIdentifier is NamedIdentifier for package-level singletons.
func MustNamedIdentifier(name string, sizeClass int) int64 {
	id, err := NamedIdentifier(name, sizeClass)
	if err != nil {
		panic(err)
	}
	return id
}

// IdentifierName recovers the mnemonic and size class of an identifier.
// Useful for diagnostics only.
func IdentifierName(id int64) (string, int) {
	upper := uint32(uint64(id) >> 32)
	var buf [4]byte
	n := 0
	for shift := 24; shift >= 0; shift -= 8 {
		if c := byte(upper >> uint(shift)); c != 0 {
			buf[n] = c
			n++
		}
	}
	return string(buf[:n]), int(uint32(uint64(id)))
}
