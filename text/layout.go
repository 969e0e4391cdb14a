// Package text implements the variable-size string index layout.
//
// Keys hold raw UTF-8 bytes and are ordered byte-lexicographically, then by
// entity id according to the layout's uniqueness. The key size is
// len(bytes)+8, so the page engine stores text entries in length-prefixed
// slots rather than at a fixed stride.
package text

import (
	"bytes"
	"fmt"

	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/schema"
)

// MaxKeySize bounds the encoded key so that at least two entries fit a
// default 8 KiB page.
const MaxKeySize = 4039

// MaxValueBytes is the longest string value a key can hold.
const MaxValueBytes = MaxKeySize - layout.EntityIDSize

// Key is the scratch key of the text domain.
type Key struct {
	layout.Entity
	Bytes []byte
}

// Initialize clears the value and CompareID and sets the entity id. The
// byte buffer is kept for reuse.
func (k *Key) Initialize(entityID int64) {
	k.Bytes = k.Bytes[:0]
	k.ResetEntity(entityID)
}

// From sets the value, reusing the key's buffer.
func (k *Key) From(s string) {
	k.Bytes = append(k.Bytes[:0], s...)
}

// Value returns the value as a string.
func (k *Key) Value() string { return string(k.Bytes) }

// CompareValueTo orders by unsigned byte comparison.
func (k *Key) CompareValueTo(other *Key) int {
	return bytes.Compare(k.Bytes, other.Bytes)
}

func (k *Key) String() string {
	return fmt.Sprintf("Text[%q entity=%d compareId=%t]", k.Bytes, k.EntityID(), k.CompareID())
}

var (
	// Unique is the layout of unique text indexes.
	Unique = newLayout("UTst", schema.Unique)

	// NonUnique is the layout of non-unique text indexes.
	NonUnique = newLayout("NTst", schema.NonUnique)
)

// LayoutOf selects the text layout singleton for d.
func LayoutOf(d schema.Descriptor) *Layout {
	if d.Uniqueness() == schema.Unique {
		return Unique
	}
	return NonUnique
}

// Layout encodes Key as the raw value bytes followed by the entity id.
type Layout struct {
	identifier int64
	uniqueness schema.Uniqueness
	tieBreak   layout.TieBreak
}

var _ layout.Layout[*Key, *layout.NativeValue] = (*Layout)(nil)

func newLayout(name string, u schema.Uniqueness) *Layout {
	return &Layout{
		identifier: layout.MustNamedIdentifier(name, layout.NativeValueSize),
		uniqueness: u,
		tieBreak:   layout.TieBreakFor(u),
	}
}

func (l *Layout) Identifier() int64 { return l.identifier }
func (l *Layout) MajorVersion() int { return 0 }
func (l *Layout) MinorVersion() int { return 1 }

// Uniqueness reports whether this singleton serves unique indexes.
func (l *Layout) Uniqueness() schema.Uniqueness { return l.uniqueness }

func (l *Layout) NewKey() *Key { return &Key{} }

// CopyKey copies the value into dst's own buffer; src and dst never share
// backing arrays.
func (l *Layout) CopyKey(src, dst *Key) *Key {
	dst.Bytes = append(dst.Bytes[:0], src.Bytes...)
	dst.CopyEntity(&src.Entity)
	return dst
}

func (l *Layout) NewValue() *layout.NativeValue { return layout.NativeValueInstance }

func (l *Layout) KeySize(key *Key) int              { return len(key.Bytes) + layout.EntityIDSize }
func (l *Layout) ValueSize(*layout.NativeValue) int { return layout.NativeValueSize }
func (l *Layout) FixedSize() bool                   { return false }

func (l *Layout) WriteKey(c layout.Cursor, key *Key) error {
	size := l.KeySize(key)
	if size > MaxKeySize {
		return fmt.Errorf("%w: text key of %d bytes exceeds %d", layout.ErrInvariant, size, MaxKeySize)
	}
	if err := layout.CheckEntityID(key.EntityID()); err != nil {
		return err
	}
	if err := layout.CheckWrite(c, size); err != nil {
		return err
	}
	c.PutBytes(key.Bytes)
	c.PutLong(key.EntityID())
	return layout.CheckBounds(c, layout.ErrCursorOverflow)
}

func (l *Layout) WriteValue(c layout.Cursor, value *layout.NativeValue) error {
	return layout.WriteNativeValue(c, value)
}

func (l *Layout) ReadKey(c layout.Cursor, into *Key, keySize int) error {
	if keySize < layout.EntityIDSize {
		return fmt.Errorf("%w: text key size %d below entity id width", layout.ErrTruncatedRead, keySize)
	}
	if keySize > MaxKeySize {
		return fmt.Errorf("%w: text key size %d exceeds %d", layout.ErrInvariant, keySize, MaxKeySize)
	}
	if err := layout.CheckRead(c, keySize, keySize); err != nil {
		return err
	}
	n := keySize - layout.EntityIDSize
	if cap(into.Bytes) < n {
		into.Bytes = make([]byte, n)
	}
	into.Bytes = into.Bytes[:n]
	c.GetBytes(into.Bytes)
	entityID := c.GetLong()
	if err := layout.CheckBounds(c, layout.ErrTruncatedRead); err != nil {
		return err
	}
	into.ResetEntity(entityID)
	return nil
}

func (l *Layout) ReadValue(c layout.Cursor, into *layout.NativeValue, valueSize int) error {
	return layout.ReadNativeValue(c, into, valueSize)
}

func (l *Layout) Compare(a, b *Key) int {
	if c := a.CompareValueTo(b); c != 0 {
		return c
	}
	return l.tieBreak(&a.Entity, &b.Entity)
}
