package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLayout only answers identity questions.
type stubLayout struct {
	Layout[*Entity, *NativeValue]
	id           int64
	major, minor int
}

func (s stubLayout) Identifier() int64 { return s.id }
func (s stubLayout) MajorVersion() int { return s.major }
func (s stubLayout) MinorVersion() int { return s.minor }

func TestVerify(t *testing.T) {
	l := stubLayout{id: MustNamedIdentifier("UTld", 0), major: 0, minor: 1}

	require.NoError(t, Verify[*Entity, *NativeValue](l, l.id, 0))

	err := Verify[*Entity, *NativeValue](l, MustNamedIdentifier("NTld", 0), 0)
	require.Error(t, err)
	assert.True(t, IsFormatMismatch(err))
	var fm *FormatMismatchError
	require.True(t, errors.As(err, &fm))
	assert.Equal(t, "identifier", fm.Field)

	err = Verify[*Entity, *NativeValue](l, l.id, 1)
	assert.ErrorIs(t, err, ErrFormatMismatch)
	assert.Contains(t, err.Error(), "major version")

	assert.False(t, NewerMinor[*Entity, *NativeValue](l, 1))
	assert.True(t, NewerMinor[*Entity, *NativeValue](l, 2))
}

func TestNativeValue(t *testing.T) {
	assert.NoError(t, WriteNativeValue(nil, NativeValueInstance))
	assert.NoError(t, ReadNativeValue(nil, NativeValueInstance, 0))
	assert.ErrorIs(t, ReadNativeValue(nil, NativeValueInstance, 4), ErrTruncatedRead)
}
