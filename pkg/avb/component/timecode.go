package component

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDTCCP is Timecode's registered class identifier.
var ClassIDTCCP = root.ClassID{'T', 'C', 'C', 'P'}

func init() {
	class.Register(ClassIDTCCP, func() root.Object { return &Timecode{} })
}

// Timecode is a Clip carrying a starting timecode and its frame rate.
type Timecode struct {
	Clip

	Flags    uint32
	FPS      uint16
	Reserved [6]byte
	Start    uint32
}

// ClassID implements root.Object.
func (t *Timecode) ClassID() root.ClassID { return ClassIDTCCP }

// DecodeBody decodes Clip's fields, then Timecode's own section.
func (t *Timecode) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := t.Clip.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)
	t.Flags = r.ReadU32()
	t.FPS = r.ReadU16()
	copy(t.Reserved[:], r.ReadBytes(6))
	t.Start = r.ReadU32()
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of Timecode's body.
func (t *Timecode) Size() int {
	return t.Clip.FieldsSize() + 2 + 4 + 2 + 6 + 4 + 1
}

// Marshal writes Timecode's body.
func (t *Timecode) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	t.Clip.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	w.WriteU32(t.Flags)
	w.WriteU16(t.FPS)
	w.WriteBytes(t.Reserved[:])
	w.WriteU32(t.Start)
	w.WriteU8(tag.Close)
}
