package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDTNFX is TransitionEffect's registered class identifier.
var ClassIDTNFX = root.ClassID{'T', 'N', 'F', 'X'}

func init() {
	class.Register(ClassIDTNFX, func() root.Object { return &TransitionEffect{} })
}

// TransitionEffect is a TrackGroup (not a TrackEffect, despite sharing
// TrackEffect's full field tail) describing a transition between two
// adjacent tracks: a cut point plus the same "global info" block
// TrackEffect carries.
type TransitionEffect struct {
	TrackGroup
	EffectInfo

	CutPoint int32
}

// ClassID implements root.Object.
func (t *TransitionEffect) ClassID() root.ClassID { return ClassIDTNFX }

// DecodeBody decodes TrackGroup's fields, then TransitionEffect's own
// cutpoint section, then the shared effect-info tail.
func (t *TransitionEffect) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := t.TrackGroup.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)
	t.CutPoint = r.ReadS32()

	info, err := decodeEffectInfo(ctx, r, "TNFX", trackmanSlotTNFX)
	if err != nil {
		return err
	}
	t.EffectInfo = info

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of TransitionEffect's body.
func (t *TransitionEffect) Size() int {
	return t.TrackGroup.FieldsSize() + 2 + 4 + sizeEffectInfo(t.EffectInfo) + 1
}

// Marshal writes TransitionEffect's body.
func (t *TransitionEffect) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	t.TrackGroup.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	w.WriteS32(t.CutPoint)
	marshalEffectInfo(w, t.EffectInfo, trackmanSlotTNFX)
	w.WriteU8(tag.Close)
}
