package track

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/ext"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// Trackman extension slot numbers. TrackEffect and TransitionEffect
// share the same EffectInfo field layout but disagree on which
// extension slot carries the trackman reference.
const (
	trackmanSlotTKFX byte = 0x02
	trackmanSlotTNFX byte = 0x01
)

// EffectInfo is the field block shared verbatim by TrackEffect and
// TransitionEffect (which carries the block by composition rather than
// embedding TrackEffect): two lengths, seven motion-effect "global
// info" scalars, a keyframes reference, two booleans, and an extension
// slot carrying a trackman reference.
type EffectInfo struct {
	LeftLength        int32
	RightLength       int32
	InfoVersion       int16
	InfoCurrent       int32
	InfoSmooth        int32
	InfoColorItem     int16
	InfoQuality       int16
	InfoIsReversed    int8
	InfoAspectOn      bool
	Keyframes         root.ObjectRef
	InfoForceSoftware bool
	InfoNeverHardware bool

	HasTrackman bool
	Trackman    root.ObjectRef
}

// decodeEffectInfo reads the open(0x02,0x06) section, its fields, and
// the trailing extension block (trackmanSlot -> trackman, tag 72).
// TrackEffect (TKFX) carries trackman on slot 0x02; TransitionEffect
// (TNFX) carries it on slot 0x01. The extension block ends at a closing
// 0x03 or at the 0x02 that opens a TKFX subclass's own section; neither
// is consumed.
func decodeEffectInfo(ctx *class.DecodeContext, r *tag.Reader, className string, trackmanSlot byte) (EffectInfo, error) {
	var e EffectInfo
	r.AssertTag(tag.Open)
	r.AssertTag(0x06)

	e.LeftLength = r.ReadS32()
	e.RightLength = r.ReadS32()
	e.InfoVersion = r.ReadS16()
	e.InfoCurrent = r.ReadS32()
	e.InfoSmooth = r.ReadS32()
	e.InfoColorItem = r.ReadS16()
	e.InfoQuality = r.ReadS16()
	e.InfoIsReversed = r.ReadS8()
	e.InfoAspectOn = r.ReadBool()

	e.Keyframes = root.ReadObjectRef(ctx.Root, r)
	e.InfoForceSoftware = r.ReadBool()
	e.InfoNeverHardware = r.ReadBool()

	for {
		if r.PeekTag() == tag.Open {
			break
		}
		slot, ok := ext.Next(r)
		if !ok {
			break
		}
		switch slot {
		case trackmanSlot:
			r.AssertTag(tag.TagU32)
			e.Trackman = root.ReadObjectRef(ctx.Root, r)
			e.HasTrackman = true
		default:
			if err := ext.HandleUnknown(ctx, r, className, slot); err != nil {
				return e, err
			}
		}
	}
	return e, r.Err()
}

func sizeEffectInfo(e EffectInfo) int {
	n := 2 + 4 + 4 + 2 + 4 + 4 + 2 + 2 + 1 + 1 + 4 + 1 + 1
	if e.HasTrackman {
		n += 2 + 1 + 4
	}
	return n
}

func marshalEffectInfo(w *tag.Writer, e EffectInfo, trackmanSlot byte) {
	w.WriteU8(tag.Open)
	w.WriteU8(0x06)
	w.WriteS32(e.LeftLength)
	w.WriteS32(e.RightLength)
	w.WriteS16(e.InfoVersion)
	w.WriteS32(e.InfoCurrent)
	w.WriteS32(e.InfoSmooth)
	w.WriteS16(e.InfoColorItem)
	w.WriteS16(e.InfoQuality)
	w.WriteS8(e.InfoIsReversed)
	w.WriteBool(e.InfoAspectOn)
	root.WriteObjectRef(w, e.Keyframes)
	w.WriteBool(e.InfoForceSoftware)
	w.WriteBool(e.InfoNeverHardware)

	if e.HasTrackman {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(trackmanSlot)
		w.WriteU8(tag.TagU32)
		root.WriteObjectRef(w, e.Trackman)
	}
}
