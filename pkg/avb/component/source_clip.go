package component

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/mobid"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDSCLP is SourceClip's registered class identifier.
var ClassIDSCLP = root.ClassID{'S', 'C', 'L', 'P'}

func init() {
	class.Register(ClassIDSCLP, func() root.Object { return &SourceClip{} })
}

// SourceClip is a Clip that names a span of another mob (the essence or
// composition it cuts from) by MobID and track.
type SourceClip struct {
	Clip

	TrackID   int16
	StartTime int32
	MobID     mobid.MobID
}

// ClassID implements root.Object.
func (s *SourceClip) ClassID() root.ClassID { return ClassIDSCLP }

// DecodeBody decodes Clip's fields, then SourceClip's own section: a
// legacy (hi, lo) MobID half pair (both discarded except for the
// zero-override check below), track_id, start_time, and the raw MobID.
// When the legacy halves are both zero, the resulting MobID is forced
// to the canonical zero value regardless of whatever bytes the inline
// SMPTE payload carries - old bins sometimes leave that payload
// uninitialized rather than zeroed.
func (s *SourceClip) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := s.Clip.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x03)
	mobHi := r.ReadS32()
	mobLo := r.ReadS32()
	s.TrackID = r.ReadS16()
	s.StartTime = r.ReadS32()
	s.MobID = mobid.Decode(r)
	if mobHi == 0 && mobLo == 0 {
		s.MobID = mobid.MobID{}
	}
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of SourceClip's body. The legacy
// MobID halves are always written as zero: this core never round-trips
// the original non-zero legacy halves a decoded SourceClip may have
// carried, since nothing reads them back except the zero-override
// check, which a zero pair also satisfies trivially.
func (s *SourceClip) Size() int {
	return s.Clip.FieldsSize() + 2 + 4 + 4 + 2 + 4 + mobid.Size + 1
}

// Marshal writes SourceClip's body.
func (s *SourceClip) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	s.Clip.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x03)
	w.WriteS32(0)
	w.WriteS32(0)
	w.WriteS16(s.TrackID)
	w.WriteS32(s.StartTime)
	mobid.Encode(w, s.MobID)
	w.WriteU8(tag.Close)
}
