package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDMASK is CaptureMask's registered class identifier.
var ClassIDMASK = root.ClassID{'M', 'A', 'S', 'K'}

func init() {
	class.Register(ClassIDMASK, func() root.Object { return &CaptureMask{} })
}

// CaptureMask is a TimeWarp recording which of the source pixels a
// capture pass should keep.
type CaptureMask struct {
	TimeWarp

	IsDouble bool
	MaskBits uint32
}

// ClassID implements root.Object.
func (c *CaptureMask) ClassID() root.ClassID { return ClassIDMASK }

// DecodeBody decodes TimeWarp's fields, then CaptureMask's own section.
func (c *CaptureMask) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := c.TimeWarp.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)
	c.IsDouble = r.ReadBool()
	c.MaskBits = r.ReadU32()
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of CaptureMask's body.
func (c *CaptureMask) Size() int {
	return c.TimeWarp.FieldsSize() + 2 + 1 + 4 + 1
}

// Marshal writes CaptureMask's body.
func (c *CaptureMask) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	c.TimeWarp.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	w.WriteBool(c.IsDouble)
	w.WriteU32(c.MaskBits)
	w.WriteU8(tag.Close)
}
