package component

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDSEQU is Sequence's registered class identifier.
var ClassIDSEQU = root.ClassID{'S', 'E', 'Q', 'U'}

func init() {
	class.Register(ClassIDSEQU, func() root.Object { return &Sequence{} })
}

// Sequence orders a list of child Components end to end, the core
// building block of an edited timeline.
type Sequence struct {
	Component

	ComponentRefs []root.ObjectRef
}

// ClassID implements root.Object.
func (s *Sequence) ClassID() root.ClassID { return ClassIDSEQU }

// DecodeBody decodes Component's fields, then Sequence's own section: a
// u32 count followed by that many child references.
func (s *Sequence) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := s.Component.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x03)
	count := r.ReadU32()
	s.ComponentRefs = make([]root.ObjectRef, 0, count)
	for i := uint32(0); i < count && r.Err() == nil; i++ {
		s.ComponentRefs = append(s.ComponentRefs, root.ReadObjectRef(ctx.Root, r))
	}
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of Sequence's body.
func (s *Sequence) Size() int {
	return s.Component.FieldsSize() + 2 + 4 + 4*len(s.ComponentRefs) + 1
}

// Marshal writes Sequence's body.
func (s *Sequence) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	s.Component.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x03)
	w.WriteU32(uint32(len(s.ComponentRefs)))
	for _, ref := range s.ComponentRefs {
		root.WriteObjectRef(w, ref)
	}
	w.WriteU8(tag.Close)
}
