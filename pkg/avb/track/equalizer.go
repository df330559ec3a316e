package track

import (
	"fmt"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDEQMB is EqualizerMultiBand's registered class identifier.
var ClassIDEQMB = root.ClassID{'E', 'Q', 'M', 'B'}

func init() {
	class.Register(ClassIDEQMB, func() root.Object { return &EqualizerMultiBand{} })
}

// EqualizerBand is one band of an EqualizerMultiBand's filter.
type EqualizerBand struct {
	Type   int32
	Freq   int32
	Gain   int32
	Q      int32
	Enable bool
}

// EqualizerMultiBand is a TrackEffect carrying an ordered multi-band
// EQ filter description.
type EqualizerMultiBand struct {
	TrackEffect

	Bands        []EqualizerBand
	EffectEnable bool
	FilterName   string
}

// ClassID implements root.Object.
func (e *EqualizerMultiBand) ClassID() root.ClassID { return ClassIDEQMB }

// DecodeBody decodes TrackEffect's fields, then EqualizerMultiBand's
// own section: a non-negative band count, that many bands, then the
// effect-enable flag and filter name.
func (e *EqualizerMultiBand) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := e.TrackEffect.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x05)

	numBands := r.ReadS32()
	if r.Err() == nil && numBands < 0 {
		return fmt.Errorf("EQMB: num_bands %d: %w", numBands, avberr.ErrInvariantViolation)
	}
	e.Bands = make([]EqualizerBand, 0, max0(int(numBands)))
	for i := int32(0); i < numBands && r.Err() == nil; i++ {
		var b EqualizerBand
		b.Type = r.ReadS32()
		b.Freq = r.ReadS32()
		b.Gain = r.ReadS32()
		b.Q = r.ReadS32()
		b.Enable = r.ReadBool()
		e.Bands = append(e.Bands, b)
	}

	e.EffectEnable = r.ReadBool()
	e.FilterName = r.ReadString()

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of EqualizerMultiBand's body.
func (e *EqualizerMultiBand) Size() int {
	return e.TrackEffect.FieldsSize() + 2 + 4 + 17*len(e.Bands) + 1 + tag.SizeString(e.FilterName) + 1
}

// Marshal writes EqualizerMultiBand's body.
func (e *EqualizerMultiBand) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	e.TrackEffect.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x05)
	w.WriteS32(int32(len(e.Bands)))
	for _, b := range e.Bands {
		w.WriteS32(b.Type)
		w.WriteS32(b.Freq)
		w.WriteS32(b.Gain)
		w.WriteS32(b.Q)
		w.WriteBool(b.Enable)
	}
	w.WriteBool(e.EffectEnable)
	w.WriteString(e.FilterName)
	w.WriteU8(tag.Close)
}
