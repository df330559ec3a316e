// Package mobid implements the SMPTE UMID-derived MobID used to
// identify mobs (SourceClip/Composition targets) across the whole bin,
// plus the blake2b-based generation helpers this core adds for callers
// that mint new mobs rather than round-tripping existing ones.
package mobid

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/tag"
)

// MobID is the 32-byte basic-form SMPTE UMID used throughout AVB to
// name mobs. The zero value is the legacy "no mob" id.
type MobID struct {
	SMPTELabel   [12]byte
	Length       uint8
	InstanceHigh byte
	InstanceMid  byte
	InstanceLow  byte
	Data1        uint32
	Data2        uint16
	Data3        uint16
	Data4        [8]byte
}

// Size is the fixed wire size of a raw (untagged) MobID.
const Size = 32

// IsZero reports whether m is the all-zero legacy sentinel. Old bins
// sometimes carry a legacy (mob_id_hi, mob_id_lo) pair of (0, 0) in
// place of a real MobID; callers map that pair to the zero MobID
// before comparing with IsZero so the two legacy encodings converge.
func (m MobID) IsZero() bool {
	return m == MobID{}
}

// Decode reads the 32-byte raw MobID layout used inline by
// SourceClip/Composition (not the tagged ASPI-extension variant; see
// DecodeTagged for that).
func Decode(r *tag.Reader) MobID {
	var m MobID
	copy(m.SMPTELabel[:], r.ReadBytes(12))
	m.Length = r.ReadU8()
	m.InstanceHigh = r.ReadU8()
	m.InstanceMid = r.ReadU8()
	m.InstanceLow = r.ReadU8()
	m.Data1 = r.ReadU32()
	m.Data2 = r.ReadU16()
	m.Data3 = r.ReadU16()
	copy(m.Data4[:], r.ReadBytes(8))
	return m
}

// Encode writes the 32-byte raw MobID layout.
func Encode(w *tag.Writer, m MobID) {
	w.WriteBytes(m.SMPTELabel[:])
	w.WriteU8(m.Length)
	w.WriteU8(m.InstanceHigh)
	w.WriteU8(m.InstanceMid)
	w.WriteU8(m.InstanceLow)
	w.WriteU32(m.Data1)
	w.WriteU16(m.Data2)
	w.WriteU16(m.Data3)
	w.WriteBytes(m.Data4[:])
}

// DecodeTagged reads the explicitly tagged MobID layout used by the
// AudioSuitePluginEffect extension slot that carries a MobID rather
// than inlining it raw: every field group is prefixed with its
// tag.Tag* byte, asserted before the value is read. The SMPTELabel and
// Data4 blobs must carry exactly 12 and 8 bytes.
func DecodeTagged(r *tag.Reader) (MobID, error) {
	var m MobID
	r.AssertTag(tag.TagByteArray)
	label := r.ReadBlob()
	if r.Err() == nil && len(label) != len(m.SMPTELabel) {
		return MobID{}, fmt.Errorf("mobid: SMPTELabel length %d: %w", len(label), avberr.ErrInvariantViolation)
	}
	copy(m.SMPTELabel[:], label)
	r.AssertTag(tag.TagU8)
	m.Length = r.ReadU8()
	r.AssertTag(tag.TagU8)
	m.InstanceHigh = r.ReadU8()
	r.AssertTag(tag.TagU8)
	m.InstanceMid = r.ReadU8()
	r.AssertTag(tag.TagU8)
	m.InstanceLow = r.ReadU8()
	r.AssertTag(tag.TagU32)
	m.Data1 = r.ReadU32()
	r.AssertTag(tag.TagU16)
	m.Data2 = r.ReadU16()
	r.AssertTag(tag.TagU16)
	m.Data3 = r.ReadU16()
	r.AssertTag(tag.TagByteArray)
	data4 := r.ReadBlob()
	if r.Err() == nil && len(data4) != len(m.Data4) {
		return MobID{}, fmt.Errorf("mobid: Data4 length %d: %w", len(data4), avberr.ErrInvariantViolation)
	}
	copy(m.Data4[:], data4)
	return m, r.Err()
}

// EncodeTagged writes the explicitly tagged MobID layout.
func EncodeTagged(w *tag.Writer, m MobID) {
	w.WriteU8(tag.TagByteArray)
	w.WriteBlob(m.SMPTELabel[:])
	w.WriteU8(tag.TagU8)
	w.WriteU8(m.Length)
	w.WriteU8(tag.TagU8)
	w.WriteU8(m.InstanceHigh)
	w.WriteU8(tag.TagU8)
	w.WriteU8(m.InstanceMid)
	w.WriteU8(tag.TagU8)
	w.WriteU8(m.InstanceLow)
	w.WriteU8(tag.TagU32)
	w.WriteU32(m.Data1)
	w.WriteU8(tag.TagU16)
	w.WriteU16(m.Data2)
	w.WriteU8(tag.TagU16)
	w.WriteU16(m.Data3)
	w.WriteU8(tag.TagByteArray)
	w.WriteBlob(m.Data4[:])
}

// SizeTagged returns the encoded size of the tagged MobID layout.
func SizeTagged(m MobID) int {
	return 1 + tag.SizeBlob(m.SMPTELabel[:]) + // TagByteArray, SMPTELabel
		4*(1+1) + // TagU8+byte, for length/instanceHigh/instanceMid/instanceLow
		1 + 4 + // TagU32, Data1
		1 + 2 + // TagU16, Data2
		1 + 2 + // TagU16, Data3
		1 + tag.SizeBlob(m.Data4[:]) // TagByteArray, Data4
}

// avidLabel is the fixed SMPTE label prefix this core stamps on every
// newly minted MobID; existing decoded MobIDs keep whatever label they
// were decoded with.
var avidLabel = [12]byte{0x06, 0x0a, 0x2b, 0x34, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x0f, 0x00}

// NewMobID deterministically derives a MobID's material fields (Data1
// through Data4) from the first 16 bytes of blake2b-256(seed), for
// callers that need
// reproducible ids in tests or content-addressed pipelines rather than
// a fresh random one per run.
func NewMobID(seed []byte) MobID {
	sum := blake2b.Sum256(seed)
	var m MobID
	m.SMPTELabel = avidLabel
	m.Length = 0x13
	m.Data1 = uint32(sum[0]) | uint32(sum[1])<<8 | uint32(sum[2])<<16 | uint32(sum[3])<<24
	m.Data2 = uint16(sum[4]) | uint16(sum[5])<<8
	m.Data3 = uint16(sum[6]) | uint16(sum[7])<<8
	copy(m.Data4[:], sum[8:16])
	return m
}

// NewRandomMobID mints a MobID with a cryptographically random
// material-generation field, for callers creating wholly new mobs.
func NewRandomMobID() (MobID, error) {
	var m MobID
	m.SMPTELabel = avidLabel
	m.Length = 0x13
	var rnd [16]byte
	if _, err := io.ReadFull(rand.Reader, rnd[:]); err != nil {
		return MobID{}, err
	}
	m.Data1 = uint32(rnd[0]) | uint32(rnd[1])<<8 | uint32(rnd[2])<<16 | uint32(rnd[3])<<24
	m.Data2 = uint16(rnd[4]) | uint16(rnd[5])<<8
	m.Data3 = uint16(rnd[6]) | uint16(rnd[7])<<8
	copy(m.Data4[:], rnd[8:16])
	return m, nil
}

// ComputePrecomputed returns a blake2b-256 content hash of an encoded
// object body, used by callers maintaining an out-of-band precompute
// cache keyed by content rather than by the wire Precomputed
// ObjectRef field (which, per the wire format, names another object,
// typically a cached-effect render, not a hash).
func ComputePrecomputed(encoded []byte) [32]byte {
	return blake2b.Sum256(encoded)
}
