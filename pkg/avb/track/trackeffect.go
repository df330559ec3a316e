package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDTKFX is TrackEffect's registered class identifier.
var ClassIDTKFX = root.ClassID{'T', 'K', 'F', 'X'}

func init() {
	class.Register(ClassIDTKFX, func() root.Object { return &TrackEffect{} })
}

// TrackEffect is a TrackGroup carrying Avid's motion-effect "global
// info" block and a keyframes/trackman reference pair. PanVolumeEffect,
// EqualizerMultiBand and AudioSuitePluginEffect each layer their own
// section on top of TrackEffect's own (unclosed) fields.
type TrackEffect struct {
	TrackGroup
	EffectInfo
}

// ClassID implements root.Object.
func (t *TrackEffect) ClassID() root.ClassID { return ClassIDTKFX }

// DecodeFields decodes TrackGroup's fields, then TrackEffect's own
// EffectInfo section. Does not consume a closing 0x03.
func (t *TrackEffect) DecodeFields(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := t.TrackGroup.DecodeFields(ctx, r); err != nil {
		return err
	}
	info, err := decodeEffectInfo(ctx, r, "TKFX", trackmanSlotTKFX)
	if err != nil {
		return err
	}
	t.EffectInfo = info
	return r.Err()
}

// FieldsSize returns the marshaled size of TrackGroup's section plus
// TrackEffect's own.
func (t *TrackEffect) FieldsSize() int {
	return t.TrackGroup.FieldsSize() + sizeEffectInfo(t.EffectInfo)
}

// MarshalFields writes TrackGroup's section followed by TrackEffect's
// own.
func (t *TrackEffect) MarshalFields(ctx *class.EncodeContext, w *tag.Writer) {
	t.TrackGroup.MarshalFields(ctx, w)
	marshalEffectInfo(w, t.EffectInfo, trackmanSlotTKFX)
}

// DecodeBody implements class.Decoder for a standalone TKFX object.
func (t *TrackEffect) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := t.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of a standalone TKFX body.
func (t *TrackEffect) Size() int { return t.FieldsSize() + 1 }

// Marshal writes a standalone TKFX body.
func (t *TrackEffect) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	t.MarshalFields(ctx, w)
	w.WriteU8(tag.Close)
}
