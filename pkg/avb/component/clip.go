package component

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/tag"
)

// Clip is embedded by every concrete Clip specialization
// (SourceClip, Timecode, Filler, Edgecode, TrackRef, ParamClip). Its
// own section carries only Length; like Component's, it is never
// independently closed - each leaf type supplies its own close.
type Clip struct {
	Component
}

// DecodeFields decodes Clip's own section: 0x02/0x01/<u32 length>, no
// close.
func (c *Clip) DecodeFields(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := c.Component.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)
	c.Length = r.ReadU32()
	return r.Err()
}

// FieldsSize returns the marshaled size of Component's section plus
// Clip's own.
func (c *Clip) FieldsSize() int {
	return c.Component.FieldsSize() + 2 + 4
}

// MarshalFields writes Component's section followed by Clip's own.
func (c *Clip) MarshalFields(ctx *class.EncodeContext, w *tag.Writer) {
	c.Component.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	w.WriteU32(c.Length)
}

// decodeEmptyTrailer consumes the 0x02/0x01/0x03 no-op section that
// Filler carries immediately after Clip's fields. Edgecode, TrackRef
// and ParamClip carry no such trailer - their bodies end at Clip's own
// fields.
func decodeEmptyTrailer(r *tag.Reader) {
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)
	r.AssertTag(tag.Close)
}

func marshalEmptyTrailer(w *tag.Writer) {
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	w.WriteU8(tag.Close)
}

const emptyTrailerSize = 3
