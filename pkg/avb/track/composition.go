package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/ext"
	"avbcore/pkg/avb/mobid"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDCMPO is Composition's registered class identifier.
var ClassIDCMPO = root.ClassID{'C', 'M', 'P', 'O'}

func init() {
	class.Register(ClassIDCMPO, func() root.Object { return &Composition{} })
}

// Mob type and usage code closed enumerations, per the glossary.
const (
	MobTypeComposition int8 = 1
	MobTypeMaster      int8 = 2
	MobTypeSource      int8 = 3
)

// MobTypeName returns the symbolic name for a mob_type_id, or
// "unknown" for anything outside {1,2,3}.
func MobTypeName(id int8) string {
	switch id {
	case MobTypeComposition:
		return "CompositionMob"
	case MobTypeMaster:
		return "MasterMob"
	case MobTypeSource:
		return "SourceMob"
	default:
		return "unknown"
	}
}

// UsageName returns the symbolic name for a usage_code, or "unknown"
// for any value not in the documented set (including 8 and 10-14,
// which the format leaves undocumented).
func UsageName(code int32) string {
	switch code {
	case 0:
		return "none"
	case 1:
		return "precompute"
	case 2:
		return "subclip"
	case 3:
		return "effect"
	case 4:
		return "group"
	case 5:
		return "groupoofter"
	case 6:
		return "motion"
	case 7:
		return "mastermob"
	case 9:
		return "precompute_file"
	default:
		return "unknown"
	}
}

// Composition is a TrackGroup naming a complete mob: a composition,
// master, or source mob, identified by its own MobID.
type Composition struct {
	TrackGroup

	LastModified int32
	MobTypeID    int8
	UsageCode    int32
	Descriptor   root.ObjectRef

	HasCreationTime bool
	CreationTime    tag.DateTime
	MobID           mobid.MobID
}

// ClassID implements root.Object.
func (c *Composition) ClassID() root.ClassID { return ClassIDCMPO }

// MobType returns the symbolic mob type name for c.MobTypeID.
func (c *Composition) MobType() string { return MobTypeName(c.MobTypeID) }

// Usage returns the symbolic usage name for c.UsageCode.
func (c *Composition) Usage() string { return UsageName(c.UsageCode) }

// DecodeBody decodes TrackGroup's fields, then Composition's own
// section: legacy mob-id halves (discarded), last_modified, mob type
// and usage code, a descriptor reference, and an extension slot
// carrying creation_time plus the full MobID.
func (c *Composition) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := c.TrackGroup.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x02)

	_ = r.ReadS32() // legacy mob_id_hi, discarded
	_ = r.ReadS32() // legacy mob_id_lo, discarded
	c.LastModified = r.ReadS32()

	c.MobTypeID = r.ReadS8()
	c.UsageCode = r.ReadS32()
	c.Descriptor = root.ReadObjectRef(ctx.Root, r)

	for {
		slot, ok := ext.Next(r)
		if !ok {
			break
		}
		switch slot {
		case 0x01:
			r.AssertTag(tag.TagS32)
			c.CreationTime = r.ReadDateTime()
			c.MobID = mobid.Decode(r)
			c.HasCreationTime = true
		default:
			if err := ext.HandleUnknown(ctx, r, "CMPO", slot); err != nil {
				return err
			}
		}
	}

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of Composition's body.
func (c *Composition) Size() int {
	n := c.TrackGroup.FieldsSize() + 2 + 4 + 4 + 4 + 1 + 4 + 4
	if c.HasCreationTime {
		n += 2 + 1 + 8 + mobid.Size
	}
	return n + 1
}

// Marshal writes Composition's body.
func (c *Composition) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	c.TrackGroup.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x02)

	w.WriteS32(0)
	w.WriteS32(0)
	w.WriteS32(c.LastModified)

	w.WriteS8(c.MobTypeID)
	w.WriteS32(c.UsageCode)
	root.WriteObjectRef(w, c.Descriptor)

	if c.HasCreationTime {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x01)
		w.WriteU8(tag.TagS32)
		w.WriteDateTime(c.CreationTime)
		mobid.Encode(w, c.MobID)
	}

	w.WriteU8(tag.Close)
}
