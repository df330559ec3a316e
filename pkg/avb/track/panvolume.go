package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/ext"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDPVOL is PanVolumeEffect's registered class identifier.
var ClassIDPVOL = root.ClassID{'P', 'V', 'O', 'L'}

func init() {
	class.Register(ClassIDPVOL, func() root.Object { return &PanVolumeEffect{} })
}

// PanVolumeEffect is a TrackEffect carrying a level/pan pair and the
// validation flags the host application uses to decide whether those
// values are user-set.
type PanVolumeEffect struct {
	TrackEffect

	Level              int32
	Pan                int32
	SuppressValidation bool
	LevelSet           bool
	PanSet             bool

	HasSupportsSeperateGain bool
	SupportsSeperateGain    int32
	HasIsTrimGainEffect     bool
	IsTrimGainEffect        int32
}

// ClassID implements root.Object.
func (p *PanVolumeEffect) ClassID() root.ClassID { return ClassIDPVOL }

// DecodeBody decodes TrackEffect's fields, then PanVolumeEffect's own
// section.
func (p *PanVolumeEffect) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := p.TrackEffect.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x05)

	p.Level = r.ReadS32()
	p.Pan = r.ReadS32()
	p.SuppressValidation = r.ReadBool()
	p.LevelSet = r.ReadBool()
	p.PanSet = r.ReadBool()

	for {
		slot, ok := ext.Next(r)
		if !ok {
			break
		}
		switch slot {
		case 0x01:
			r.AssertTag(tag.TagS32)
			p.SupportsSeperateGain = r.ReadS32()
			p.HasSupportsSeperateGain = true
		case 0x02:
			r.AssertTag(tag.TagS32)
			p.IsTrimGainEffect = r.ReadS32()
			p.HasIsTrimGainEffect = true
		default:
			if err := ext.HandleUnknown(ctx, r, "PVOL", slot); err != nil {
				return err
			}
		}
	}

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of PanVolumeEffect's body.
func (p *PanVolumeEffect) Size() int {
	n := p.TrackEffect.FieldsSize() + 2 + 4 + 4 + 1 + 1 + 1
	if p.HasSupportsSeperateGain {
		n += 2 + 1 + 4
	}
	if p.HasIsTrimGainEffect {
		n += 2 + 1 + 4
	}
	return n + 1
}

// Marshal writes PanVolumeEffect's body.
func (p *PanVolumeEffect) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	p.TrackEffect.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x05)
	w.WriteS32(p.Level)
	w.WriteS32(p.Pan)
	w.WriteBool(p.SuppressValidation)
	w.WriteBool(p.LevelSet)
	w.WriteBool(p.PanSet)

	if p.HasSupportsSeperateGain {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x01)
		w.WriteU8(tag.TagS32)
		w.WriteS32(p.SupportsSeperateGain)
	}
	if p.HasIsTrimGainEffect {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x02)
		w.WriteU8(tag.TagS32)
		w.WriteS32(p.IsTrimGainEffect)
	}
	w.WriteU8(tag.Close)
}
