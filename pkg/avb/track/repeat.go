package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDREPT is Repeat's registered class identifier.
var ClassIDREPT = root.ClassID{'R', 'E', 'P', 'T'}

func init() {
	class.Register(ClassIDREPT, func() root.Object { return &Repeat{} })
}

// Repeat is a TimeWarp with no state of its own beyond phase_offset; it
// carries an empty versioned section purely to close its envelope.
type Repeat struct {
	TimeWarp
}

// ClassID implements root.Object.
func (rp *Repeat) ClassID() root.ClassID { return ClassIDREPT }

// DecodeBody decodes TimeWarp's fields, then consumes Repeat's empty
// trailing section.
func (rp *Repeat) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := rp.TimeWarp.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of Repeat's body.
func (rp *Repeat) Size() int { return rp.TimeWarp.FieldsSize() + 3 }

// Marshal writes Repeat's body.
func (rp *Repeat) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	rp.TimeWarp.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	w.WriteU8(tag.Close)
}
