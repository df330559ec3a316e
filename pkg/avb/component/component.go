// Package component implements the Component hierarchy: the base
// media-component header every timeline object shares, and its direct
// specializations (Sequence and the Clip family). Component itself
// registers no class identifier - it is never decoded standalone, only
// embedded at the top of every concrete variant's body.
package component

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// MediaKind is Component.MediaKindID mapped to the closed symbolic set
// the format defines. Anything outside {0..7} is opaque and prints as
// "unknown<n>".
type MediaKind int16

// The closed set of known media kinds.
const (
	MediaKindNone                MediaKind = 0
	MediaKindPicture             MediaKind = 1
	MediaKindSound               MediaKind = 2
	MediaKindTimecode            MediaKind = 3
	MediaKindEdgecode            MediaKind = 4
	MediaKindAttribute           MediaKind = 5
	MediaKindEffectData          MediaKind = 6
	MediaKindDescriptiveMetadata MediaKind = 7
)

// String returns the symbolic media kind name, or "unknown<n>" for any
// value outside the closed set.
func (k MediaKind) String() string {
	switch k {
	case MediaKindNone:
		return "none"
	case MediaKindPicture:
		return "picture"
	case MediaKindSound:
		return "sound"
	case MediaKindTimecode:
		return "timecode"
	case MediaKindEdgecode:
		return "edgecode"
	case MediaKindAttribute:
		return "attribute"
	case MediaKindEffectData:
		return "effectdata"
	case MediaKindDescriptiveMetadata:
		return "DescriptiveMetadata"
	default:
		return "unknown" + itoa(int(k))
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Component is the base record embedded at the top of every concrete
// timeline object: Sequence, every Clip specialization, and (via
// track.TrackGroup) every multi-track container. Its own wire section
// is version-tagged (0x02, 0x03) but never independently closed with a
// matching 0x03: each concrete leaf type supplies its own terminal
// close as part of its own section(s).
type Component struct {
	root.Header

	LeftBob, RightBob root.ObjectRef
	MediaKindID       int16
	EditRate          tag.ExpRational
	Name              string
	EffectID          string
	AttributeRef      root.ObjectRef
	SessionRef        root.ObjectRef

	// Precomputed references another object (typically a cached-effect
	// render the host application produced), not a hash. See
	// mobid.ComputePrecomputed for this core's own content-hash helper,
	// which is unrelated to this wire field.
	Precomputed root.ObjectRef

	// ParamList references a attr.ParameterList object elsewhere in the
	// pool; Component does not inline the list itself.
	ParamList root.ObjectRef

	// Length defaults to 0 here; Clip's own section overrides it by
	// actually decoding a value from the wire.
	Length uint32
}

// MediaKind returns the symbolic media kind for MediaKindID.
func (c *Component) MediaKind() MediaKind { return MediaKind(c.MediaKindID) }

// DecodeFields decodes Component's own section: the version-tagged
// header of refs/scalars, then the 0x01/0x01/tag72 trailer that holds
// the ParamList reference. Does not consume a closing 0x03 - see the
// type doc.
func (c *Component) DecodeFields(ctx *class.DecodeContext, r *tag.Reader) error {
	r.AssertTag(tag.Open)
	r.AssertTag(0x03)
	c.LeftBob = root.ReadObjectRef(ctx.Root, r)
	c.RightBob = root.ReadObjectRef(ctx.Root, r)
	c.MediaKindID = r.ReadS16()
	c.EditRate = r.ReadExpRational()
	c.Name = r.ReadString()
	c.EffectID = r.ReadString()
	c.AttributeRef = root.ReadObjectRef(ctx.Root, r)
	c.SessionRef = root.ReadObjectRef(ctx.Root, r)
	c.Precomputed = root.ReadObjectRef(ctx.Root, r)

	r.AssertTag(tag.SubOpen)
	r.AssertTag(0x01)
	r.AssertTag(tag.TagU32)
	c.ParamList = root.ReadObjectRef(ctx.Root, r)
	c.Length = 0
	return r.Err()
}

// FieldsSize returns the marshaled size of Component's own section.
func (c *Component) FieldsSize() int {
	return 2 + 4 + 4 + 2 + 8 + tag.SizeString(c.Name) + tag.SizeString(c.EffectID) +
		4 + 4 + 4 + 2 + 1 + 4
}

// MarshalFields writes Component's own section.
func (c *Component) MarshalFields(ctx *class.EncodeContext, w *tag.Writer) {
	w.WriteU8(tag.Open)
	w.WriteU8(0x03)
	root.WriteObjectRef(w, c.LeftBob)
	root.WriteObjectRef(w, c.RightBob)
	w.WriteS16(c.MediaKindID)
	w.WriteExpRational(c.EditRate)
	w.WriteString(c.Name)
	w.WriteString(c.EffectID)
	root.WriteObjectRef(w, c.AttributeRef)
	root.WriteObjectRef(w, c.SessionRef)
	root.WriteObjectRef(w, c.Precomputed)

	w.WriteU8(tag.SubOpen)
	w.WriteU8(0x01)
	w.WriteU8(tag.TagU32)
	root.WriteObjectRef(w, c.ParamList)
}
