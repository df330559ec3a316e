package attr

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDPRLS is ParameterList's registered class identifier.
var ClassIDPRLS = root.ClassID{'P', 'R', 'L', 'S'}

// ClassIDTMCS is TimeCrumbList's registered class identifier.
var ClassIDTMCS = root.ClassID{'T', 'M', 'C', 'S'}

func init() {
	class.Register(ClassIDPRLS, func() root.Object { return &ParameterList{} })
	class.Register(ClassIDTMCS, func() root.Object { return &TimeCrumbList{} })
}

// ParameterList is an ordered sequence of ObjectRef with an s32 count
// prefix - the indirection target of Component.ParamList and the
// MotionEffect.SourceParamList extension field.
type ParameterList struct {
	root.Header
	Refs []root.ObjectRef
}

// ClassID implements root.Object.
func (p *ParameterList) ClassID() root.ClassID { return ClassIDPRLS }

// DecodeBody decodes the 0x02/0x01/<s32 count>/refs…/0x03 envelope.
func (p *ParameterList) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	r.AssertTag(tag.Open)
	r.AssertTag(tag.SubOpen)
	count := r.ReadS32()
	p.Refs = make([]root.ObjectRef, 0, max0(count))
	for i := int32(0); i < count && r.Err() == nil; i++ {
		p.Refs = append(p.Refs, root.ReadObjectRef(ctx.Root, r))
	}
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of the ParameterList body.
func (p *ParameterList) Size() int { return 2 + 4 + 4*len(p.Refs) + 1 }

// Marshal writes the ParameterList body.
func (p *ParameterList) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	w.WriteU8(tag.Open)
	w.WriteU8(tag.SubOpen)
	w.WriteS32(int32(len(p.Refs)))
	for _, ref := range p.Refs {
		root.WriteObjectRef(w, ref)
	}
	w.WriteU8(tag.Close)
}

// TimeCrumbList is an ordered sequence of ObjectRef with a 16-bit count
// prefix, otherwise identical in shape to ParameterList.
type TimeCrumbList struct {
	root.Header
	Refs []root.ObjectRef
}

// ClassID implements root.Object.
func (t *TimeCrumbList) ClassID() root.ClassID { return ClassIDTMCS }

// DecodeBody decodes the 0x02/0x01/<s16 count>/refs…/0x03 envelope.
func (t *TimeCrumbList) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	r.AssertTag(tag.Open)
	r.AssertTag(tag.SubOpen)
	count := r.ReadS16()
	t.Refs = make([]root.ObjectRef, 0, max0(int32(count)))
	for i := int16(0); i < count && r.Err() == nil; i++ {
		t.Refs = append(t.Refs, root.ReadObjectRef(ctx.Root, r))
	}
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of the TimeCrumbList body.
func (t *TimeCrumbList) Size() int { return 2 + 2 + 4*len(t.Refs) + 1 }

// Marshal writes the TimeCrumbList body.
func (t *TimeCrumbList) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	w.WriteU8(tag.Open)
	w.WriteU8(tag.SubOpen)
	w.WriteS16(int16(len(t.Refs)))
	for _, ref := range t.Refs {
		root.WriteObjectRef(w, ref)
	}
	w.WriteU8(tag.Close)
}

func max0(n int32) int32 {
	if n < 0 {
		return 0
	}
	return n
}
