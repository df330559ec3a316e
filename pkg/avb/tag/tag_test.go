package tag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"avbcore/pkg/avb/avberr"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	w := NewWriter(1 + 1 + 2 + 4 + 8 + 8 + SizeString("hello") + SizeBlob([]byte{1, 2, 3}) + 8)
	w.WriteU8(0xAB)
	w.WriteBool(true)
	w.WriteU16(0xBEEF)
	w.WriteS32(-12345)
	w.WriteU64(0x0102030405060708)
	w.WriteF64(3.5)
	w.WriteString("hello")
	w.WriteBlob([]byte{1, 2, 3})
	w.WriteExpRational(ExpRational{Mantissa: 2997, Exponent: -2})

	r := NewReader(bytes.NewReader(w.Bytes()))
	require.Equal(t, uint8(0xAB), r.ReadU8())
	require.True(t, r.ReadBool())
	require.Equal(t, uint16(0xBEEF), r.ReadU16())
	require.Equal(t, int32(-12345), r.ReadS32())
	require.Equal(t, uint64(0x0102030405060708), r.ReadU64())
	require.Equal(t, 3.5, r.ReadF64())
	require.Equal(t, "hello", r.ReadString())
	require.Equal(t, []byte{1, 2, 3}, r.ReadBlob())
	rat := r.ReadExpRational()
	require.Equal(t, ExpRational{Mantissa: 2997, Exponent: -2}, rat)
	require.InDelta(t, 29.97, rat.Float64(), 0.001)
	require.NoError(t, r.Err())
}

func TestAssertTagMismatchIsStructuralMismatch(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x03}))
	r.AssertTag(Open)
	require.ErrorIs(t, r.Err(), avberr.ErrStructuralMismatch)
}

func TestAssertTagMatchLeavesReaderClean(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{Open, 0x01, Close}))
	r.AssertTag(Open)
	require.NoError(t, r.Err())
	require.Equal(t, uint8(1), r.ReadU8())
	r.AssertTag(Close)
	require.NoError(t, r.Err())
}

func TestStickyErrorShortCircuitsFurtherReads(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_ = r.ReadU32()
	require.ErrorIs(t, r.Err(), avberr.ErrEndOfStream)
	// Further reads must not panic and must keep returning the zero value.
	require.Equal(t, uint8(0), r.ReadU8())
	require.ErrorIs(t, r.Err(), avberr.ErrEndOfStream)
}

func TestPeekTagDoesNotConsume(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{Close, 0xAA}))
	require.Equal(t, Close, r.PeekTag())
	require.Equal(t, Close, r.PeekTag())
	require.Equal(t, Close, r.ReadTag())
	require.Equal(t, uint8(0xAA), r.ReadU8())
	require.NoError(t, r.Err())
}

func TestEmptyStringRoundTrip(t *testing.T) {
	w := NewWriter(SizeString(""))
	w.WriteString("")
	r := NewReader(bytes.NewReader(w.Bytes()))
	require.Equal(t, "", r.ReadString())
	require.NoError(t, r.Err())
}

func TestWriterSizeMismatchPanics(t *testing.T) {
	w := NewWriter(4)
	w.WriteU8(1)
	require.Panics(t, func() { w.Bytes() })
}
