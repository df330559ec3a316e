package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/ext"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDSPED is MotionEffect's registered class identifier.
var ClassIDSPED = root.ClassID{'S', 'P', 'E', 'D'}

func init() {
	class.Register(ClassIDSPED, func() root.Object { return &MotionEffect{} })
}

// RationalPair is a raw numerator/denominator pair, distinct from
// tag.ExpRational (exp10-encoded): MotionEffect's rate is never
// interpreted as mantissa*10^exponent, only stored as the two halves.
type RationalPair struct {
	Num int32
	Den int32
}

// MotionEffect is a TimeWarp applying a constant playback-rate change.
type MotionEffect struct {
	TimeWarp

	Rate RationalPair

	HasOffsetAdjust bool
	OffsetAdjust    float64

	HasSourceParamList bool
	SourceParamList    root.ObjectRef

	HasNewSourceCalculation bool
	NewSourceCalculation    bool
}

// ClassID implements root.Object.
func (m *MotionEffect) ClassID() root.ClassID { return ClassIDSPED }

// DecodeBody decodes TimeWarp's fields, then MotionEffect's own
// section.
func (m *MotionEffect) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := m.TimeWarp.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x03)

	m.Rate.Num = r.ReadS32()
	m.Rate.Den = r.ReadS32()

	for {
		slot, ok := ext.Next(r)
		if !ok {
			break
		}
		switch slot {
		case 0x01:
			r.AssertTag(tag.TagF64)
			m.OffsetAdjust = r.ReadF64()
			m.HasOffsetAdjust = true
		case 0x02:
			r.AssertTag(tag.TagU32)
			m.SourceParamList = root.ReadObjectRef(ctx.Root, r)
			m.HasSourceParamList = true
		case 0x03:
			r.AssertTag(tag.TagBool)
			m.NewSourceCalculation = r.ReadBool()
			m.HasNewSourceCalculation = true
		default:
			if err := ext.HandleUnknown(ctx, r, "SPED", slot); err != nil {
				return err
			}
		}
	}

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of MotionEffect's body.
func (m *MotionEffect) Size() int {
	n := m.TimeWarp.FieldsSize() + 2 + 4 + 4
	if m.HasOffsetAdjust {
		n += 2 + 1 + 8
	}
	if m.HasSourceParamList {
		n += 2 + 1 + 4
	}
	if m.HasNewSourceCalculation {
		n += 2 + 1 + 1
	}
	return n + 1
}

// Marshal writes MotionEffect's body.
func (m *MotionEffect) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	m.TimeWarp.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x03)
	w.WriteS32(m.Rate.Num)
	w.WriteS32(m.Rate.Den)

	if m.HasOffsetAdjust {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x01)
		w.WriteU8(tag.TagF64)
		w.WriteF64(m.OffsetAdjust)
	}
	if m.HasSourceParamList {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x02)
		w.WriteU8(tag.TagU32)
		root.WriteObjectRef(w, m.SourceParamList)
	}
	if m.HasNewSourceCalculation {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x03)
		w.WriteU8(tag.TagBool)
		w.WriteBool(m.NewSourceCalculation)
	}

	w.WriteU8(tag.Close)
}
