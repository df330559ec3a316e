// Package tag implements the tagged-scalar stream primitives every AVB
// object body speaks: little-endian integers, strings, the exp10
// rational used for edit rates, and the 0x02/<version>/.../0x03
// envelope discipline that brackets every persisted object.
//
// The decode side wraps the input in a github.com/icza/bitio.Reader.
// AVB primitives are byte-aligned, so only whole-byte reads are ever
// requested; the little-endian assembly is done by hand.
package tag

import (
	"io"
	"math"

	"github.com/icza/bitio"

	"avbcore/pkg/avb/avberr"
)

// Explicit type-tag codes used by extension-block fields, Attributes
// values, and the ASPI tagged MobID. Width is implied by the code.
const (
	TagByteArray byte = 65 // s32 length + N bytes
	TagBool      byte = 66 // 1 byte
	TagU8        byte = 68 // 1 byte
	TagU16       byte = 70 // 2 bytes LE
	TagS32       byte = 71 // 4 bytes LE
	TagU32       byte = 72 // 4 bytes LE
	TagF64       byte = 75 // 8 bytes LE
	TagS64       byte = 77 // 8 bytes LE
)

// Envelope markers.
const (
	Open       byte = 0x02 // opens a section: 0x02 <version>
	Close      byte = 0x03 // closes the innermost open section
	SubOpen    byte = 0x01 // opens an inner sub-section / trailer
	ExtContinue byte = 0x01 // extension-block continuation marker
)

// Reader reads tagged-scalar primitives from a byte stream positioned
// at the start of an object body. Every Read* method is safe to call
// after a prior error: once set, the sticky error short-circuits all
// further reads so a decoder can issue a long run of reads and check
// Err() once.
type Reader struct {
	br     *bitio.Reader
	err    error
	peeked *byte // one-byte pushback, used by PeekTag/ext.Next
}

// NewReader returns a Reader sourcing bytes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bitio.NewReader(r)}
}

// Err returns the first error encountered, or nil.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) readByte() byte {
	if r.peeked != nil {
		b := *r.peeked
		r.peeked = nil
		return b
	}
	return r.readRawByte()
}

func (r *Reader) readRawByte() byte {
	if r.err != nil {
		return 0
	}
	v, err := r.br.ReadBits(8)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.fail(avberr.ErrEndOfStream)
		} else {
			r.fail(err)
		}
		return 0
	}
	return byte(v)
}

// PeekTag reads one byte without consuming it: the next readByte-based
// call returns the same byte. Used by the extension-block iterator,
// which must decide whether the next byte is the closing 0x03 before
// committing to consuming it as an extension-continuation marker.
func (r *Reader) PeekTag() byte {
	if r.err != nil {
		return 0
	}
	if r.peeked == nil {
		b := r.readRawByte()
		if r.err != nil {
			return 0
		}
		r.peeked = &b
	}
	return *r.peeked
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() uint8 { return r.readByte() }

// ReadS8 reads one signed byte.
func (r *Reader) ReadS8() int8 { return int8(r.readByte()) }

// ReadBool reads a one-byte boolean (nonzero is true).
func (r *Reader) ReadBool() bool { return r.readByte() != 0 }

// ReadU16 reads an unsigned 16-bit little-endian integer.
func (r *Reader) ReadU16() uint16 {
	b0 := r.readByte()
	b1 := r.readByte()
	return uint16(b0) | uint16(b1)<<8
}

// ReadS16 reads a signed 16-bit little-endian integer.
func (r *Reader) ReadS16() int16 { return int16(r.ReadU16()) }

// ReadU32 reads an unsigned 32-bit little-endian integer.
func (r *Reader) ReadU32() uint32 {
	b0 := uint32(r.readByte())
	b1 := uint32(r.readByte())
	b2 := uint32(r.readByte())
	b3 := uint32(r.readByte())
	return b0 | b1<<8 | b2<<16 | b3<<24
}

// ReadS32 reads a signed 32-bit little-endian integer.
func (r *Reader) ReadS32() int32 { return int32(r.ReadU32()) }

// ReadU64 reads an unsigned 64-bit little-endian integer.
func (r *Reader) ReadU64() uint64 {
	lo := uint64(r.ReadU32())
	hi := uint64(r.ReadU32())
	return lo | hi<<32
}

// ReadS64 reads a signed 64-bit little-endian integer.
func (r *Reader) ReadS64() int64 { return int64(r.ReadU64()) }

// ReadF64 reads an IEEE-754 double, little-endian.
func (r *Reader) ReadF64() float64 {
	return math.Float64frombits(r.ReadU64())
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) []byte {
	if n < 0 {
		r.fail(avberr.ErrInvariantViolation)
		return nil
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = r.readByte()
		if r.err != nil {
			return nil
		}
	}
	return buf
}

// ReadBlob reads a u32 length followed by that many raw bytes (the
// BOB/byte-array wire shape used by Attributes and tag 65 fields).
func (r *Reader) ReadBlob() []byte {
	n := r.ReadU32()
	return r.ReadBytes(int(n))
}

// ReadString reads a u16 byte-length followed by that many bytes. No
// nul terminator; an empty string is length 0. The raw bytes are
// exposed as-is (best-effort UTF-8) so a caller needing exact
// round-trip can keep them instead of the decoded string.
func (r *Reader) ReadString() string {
	n := r.ReadU16()
	return string(r.ReadBytes(int(n)))
}

// ExpRational is the exp10-encoded rational used for edit rates:
// value = mantissa * 10^exponent. Stored as the raw mantissa/exponent
// pair, not a computed float, so encode(decode(x)) reproduces the
// exact original bytes even though the decimal value itself may not
// be exactly representable in binary floating point.
type ExpRational struct {
	Mantissa int32
	Exponent int32
}

// Float64 evaluates the rational to a float64, for display/comparison
// only, never for re-encoding.
func (e ExpRational) Float64() float64 {
	return float64(e.Mantissa) * math.Pow(10, float64(e.Exponent))
}

// ReadExpRational reads the mantissa/exponent pair.
func (r *Reader) ReadExpRational() ExpRational {
	m := r.ReadS32()
	e := r.ReadS32()
	return ExpRational{Mantissa: m, Exponent: e}
}

// DateTime is the raw two-word datetime payload. The format predates a
// documented epoch in any retrievable source; the core stores the raw
// words and leaves interpretation to a best-effort decode.
type DateTime struct {
	Raw [2]int32
}

// ReadDateTime reads the two-word datetime payload.
func (r *Reader) ReadDateTime() DateTime {
	var d DateTime
	d.Raw[0] = r.ReadS32()
	d.Raw[1] = r.ReadS32()
	return d
}

// ReadTag reads one raw tag byte without interpreting it.
func (r *Reader) ReadTag() byte { return r.readByte() }

// AssertTag reads one byte and fails with ErrStructuralMismatch if it
// does not equal expected. This is the primary structural sanity check
// across the format.
func (r *Reader) AssertTag(expected byte) {
	got := r.ReadTag()
	if r.err != nil {
		return
	}
	if got != expected {
		r.fail(avberr.ErrStructuralMismatch)
	}
}

