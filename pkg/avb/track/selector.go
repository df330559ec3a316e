package track

import (
	"fmt"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDSLCT is Selector's registered class identifier.
var ClassIDSLCT = root.ClassID{'S', 'L', 'C', 'T'}

func init() {
	class.Register(ClassIDSLCT, func() root.Object { return &Selector{} })
}

// Selector is a TrackGroup choosing one of its tracks as the active
// one, optionally ganging every track's selection together.
type Selector struct {
	TrackGroup

	IsGanged bool
	Selected uint16
}

// ClassID implements root.Object.
func (s *Selector) ClassID() root.ClassID { return ClassIDSLCT }

// DecodeBody decodes TrackGroup's fields, then Selector's own section.
// Enforces the selected < len(tracks) invariant.
func (s *Selector) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := s.TrackGroup.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)

	s.IsGanged = r.ReadBool()
	s.Selected = r.ReadU16()

	if r.Err() == nil && int(s.Selected) >= len(s.Tracks) {
		return fmt.Errorf("SLCT: selected %d >= %d tracks: %w", s.Selected, len(s.Tracks), avberr.ErrInvariantViolation)
	}

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of Selector's body.
func (s *Selector) Size() int {
	return s.TrackGroup.FieldsSize() + 2 + 1 + 2 + 1
}

// Marshal writes Selector's body.
func (s *Selector) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	s.TrackGroup.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)
	w.WriteBool(s.IsGanged)
	w.WriteU16(s.Selected)
	w.WriteU8(tag.Close)
}

// Segments yields the segment (see Track.Segment) of every track in
// order, skipping tracks with no resolvable Component-derived child.
func (s *Selector) Segments(rt root.Root) []root.Object {
	out := make([]root.Object, 0, len(s.Tracks))
	for i := range s.Tracks {
		if obj, ok := s.Tracks[i].Segment(rt); ok {
			out = append(out, obj)
		}
	}
	return out
}
