package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/tag"
)

// TimeWarp is the TrackGroup specialization underlying CaptureMask,
// MotionEffect and Repeat. It is never registered directly - the
// format has no bare WARP class, only these three leaves.
type TimeWarp struct {
	TrackGroup

	PhaseOffset int32
}

// DecodeFields decodes TrackGroup's fields, then TimeWarp's own
// section: a single phase_offset scalar. Does not consume a closing
// 0x03.
func (t *TimeWarp) DecodeFields(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := t.TrackGroup.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x02)
	t.PhaseOffset = r.ReadS32()
	return r.Err()
}

// FieldsSize returns the marshaled size of TrackGroup's section plus
// TimeWarp's own.
func (t *TimeWarp) FieldsSize() int {
	return t.TrackGroup.FieldsSize() + 2 + 4
}

// MarshalFields writes TrackGroup's section followed by TimeWarp's
// own.
func (t *TimeWarp) MarshalFields(ctx *class.EncodeContext, w *tag.Writer) {
	t.TrackGroup.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x02)
	w.WriteS32(t.PhaseOffset)
}
