package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/ext"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDRSET is RepSet's registered class identifier.
var ClassIDRSET = root.ClassID{'R', 'S', 'E', 'T'}

func init() {
	class.Register(ClassIDRSET, func() root.Object { return &RepSet{} })
}

// RepSet is a TrackGroup (not a TimeWarp) grouping a set of repeated
// tracks under a single repeat-set type tag.
type RepSet struct {
	TrackGroup

	HasRepSetType bool
	RepSetType    int32
}

// ClassID implements root.Object.
func (s *RepSet) ClassID() root.ClassID { return ClassIDRSET }

// DecodeBody decodes TrackGroup's fields, then RepSet's own section.
func (s *RepSet) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := s.TrackGroup.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)

	for {
		slot, ok := ext.Next(r)
		if !ok {
			break
		}
		switch slot {
		case 0x01:
			r.AssertTag(tag.TagS32)
			s.RepSetType = r.ReadS32()
			s.HasRepSetType = true
		default:
			if err := ext.HandleUnknown(ctx, r, "RSET", slot); err != nil {
				return err
			}
		}
	}

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of RepSet's body.
func (s *RepSet) Size() int {
	n := s.TrackGroup.FieldsSize() + 2
	if s.HasRepSetType {
		n += 2 + 1 + 4
	}
	return n + 1
}

// Marshal writes RepSet's body.
func (s *RepSet) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	s.TrackGroup.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	if s.HasRepSetType {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x01)
		w.WriteU8(tag.TagS32)
		w.WriteS32(s.RepSetType)
	}
	w.WriteU8(tag.Close)
}
