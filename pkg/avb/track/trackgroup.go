package track

import (
	"fmt"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/component"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDTRKG is TrackGroup's registered class identifier.
var ClassIDTRKG = root.ClassID{'T', 'R', 'K', 'G'}

func init() {
	class.Register(ClassIDTRKG, func() root.Object { return &TrackGroup{} })
}

// TrackGroup is the multi-track container Component specialization:
// every effect, transition, selector and composition class in this
// package embeds it. Its own section carries the mode/length/scalar
// header followed by the flags-driven track list and its lock-number
// trailer.
type TrackGroup struct {
	component.Component

	MCMode     uint8
	Length     int32
	NumScalars int32
	Tracks     []Track
}

// ClassID implements root.Object for a bare, standalone TrackGroup.
func (g *TrackGroup) ClassID() root.ClassID { return ClassIDTRKG }

// refCountForFlags maps a track's flags to the number of ObjectRefs
// its record carries, per the closed reference-count table. Returns
// avberr.ErrUnknownTrackFlag for anything outside it.
func refCountForFlags(flags uint16) (int, error) {
	switch flags {
	case 4, 5, 16:
		return 1, nil
	case 12, 13, 21, 517:
		return 2, nil
	case 29, 519, 525, 533:
		return 3, nil
	case 541, 527:
		return 4, nil
	case 543:
		return 5, nil
	default:
		return 0, fmt.Errorf("track group: flags %d: %w", flags, avberr.ErrUnknownTrackFlag)
	}
}

// DecodeFields decodes Component's fields, then TrackGroup's own
// section: mode/length/num_scalars, the declared track count, that
// many track records under the flags grammar, and the lock-number
// trailer. Does not consume a closing 0x03 - the concrete leaf type
// supplies it.
func (g *TrackGroup) DecodeFields(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := g.Component.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x08)
	g.MCMode = r.ReadU8()
	g.Length = r.ReadS32()
	g.NumScalars = r.ReadS32()

	trackCount := int(r.ReadS32())
	g.Tracks = make([]Track, 0, max0(trackCount))
	hasTracks := true

	for i := 0; i < trackCount && r.Err() == nil; i++ {
		var t Track
		t.Flags = r.ReadU16()

		// Sentinel: an all-zero flags record carries no further state.
		if t.Flags == 0 {
			g.Tracks = append(g.Tracks, t)
			continue
		}

		var refs []root.ObjectRef

		// PVOL-shape: a single ref plus one or two control-code fields,
		// in place of the usual reference-count table.
		if t.Flags == 36 || t.Flags == 100 {
			refs = append(refs, root.ReadObjectRef(ctx.Root, r))
			t.Index = int16(i + 1)
			t.ControlCode = r.ReadS16()
			if t.Flags == 100 {
				t.ControlSubCode = r.ReadS16()
			}
			if err := classifyTrackRefs(&t, refs); err != nil {
				return err
			}
			t.Refs = refs
			g.Tracks = append(g.Tracks, t)
			continue
		}

		t.Index = int16(i + 1)

		// These flags carry no separate label field.
		if t.Flags != 4 && t.Flags != 12 && t.Flags != 16 {
			t.Index = r.ReadS16()
		}

		// Early-termination check. In practice unreachable: flags == 0
		// is always caught by the sentinel case above, so this can
		// never see flags == 0 here.
		if t.Flags == 0 && t.Index == 0 {
			hasTracks = false
			break
		}

		refCount, err := refCountForFlags(t.Flags)
		if err != nil {
			return err
		}
		for j := 0; j < refCount; j++ {
			refs = append(refs, root.ReadObjectRef(ctx.Root, r))
		}
		if err := classifyTrackRefs(&t, refs); err != nil {
			return err
		}
		t.Refs = refs
		g.Tracks = append(g.Tracks, t)
	}

	r.AssertTag(tag.SubOpen)
	r.AssertTag(0x01)
	for i := 0; i < trackCount && r.Err() == nil; i++ {
		r.AssertTag(69)
		lock := r.ReadS16()
		if hasTracks && i < len(g.Tracks) {
			g.Tracks[i].LockNumber = lock
		}
	}
	return r.Err()
}

// FieldsSize returns the marshaled size of Component's section plus
// TrackGroup's own. The declared track count on re-encode is always
// len(Tracks): this core does not separately track a header count that
// diverges from the materialized track list.
func (g *TrackGroup) FieldsSize() int {
	n := g.Component.FieldsSize() + 2 + 1 + 4 + 4 + 4
	for _, t := range g.Tracks {
		n += 2
		if t.Flags == 0 {
			continue
		}
		if t.Flags == 36 || t.Flags == 100 {
			n += 4 + 2
			if t.Flags == 100 {
				n += 2
			}
			continue
		}
		if t.Flags != 4 && t.Flags != 12 && t.Flags != 16 {
			n += 2
		}
		n += 4 * len(t.Refs)
	}
	n += 2 + 1*len(g.Tracks) + 2*len(g.Tracks)
	return n
}

// MarshalFields writes Component's section followed by TrackGroup's
// own.
func (g *TrackGroup) MarshalFields(ctx *class.EncodeContext, w *tag.Writer) {
	g.Component.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x08)
	w.WriteU8(g.MCMode)
	w.WriteS32(g.Length)
	w.WriteS32(g.NumScalars)
	w.WriteS32(int32(len(g.Tracks)))

	for _, t := range g.Tracks {
		w.WriteU16(t.Flags)
		if t.Flags == 0 {
			continue
		}
		if t.Flags == 36 || t.Flags == 100 {
			if len(t.Refs) > 0 {
				root.WriteObjectRef(w, t.Refs[0])
			} else {
				root.WriteObjectRef(w, root.ObjectRef{})
			}
			w.WriteS16(t.ControlCode)
			if t.Flags == 100 {
				w.WriteS16(t.ControlSubCode)
			}
			continue
		}
		if t.Flags != 4 && t.Flags != 12 && t.Flags != 16 {
			w.WriteS16(t.Index)
		}
		for _, ref := range t.Refs {
			root.WriteObjectRef(w, ref)
		}
	}

	w.WriteU8(tag.SubOpen)
	w.WriteU8(0x01)
	for _, t := range g.Tracks {
		w.WriteU8(69)
		w.WriteS16(t.LockNumber)
	}
}

// DecodeBody implements class.Decoder for a standalone TrackGroup.
// Every concrete subclass's own DecodeBody supplies its own closing
// 0x03 instead of calling this.
func (g *TrackGroup) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := g.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of a standalone TrackGroup's body.
func (g *TrackGroup) Size() int { return g.FieldsSize() + 1 }

// Marshal writes a standalone TrackGroup's body.
func (g *TrackGroup) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	g.MarshalFields(ctx, w)
	w.WriteU8(tag.Close)
}
