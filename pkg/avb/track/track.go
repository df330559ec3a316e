// Package track implements the TrackGroup hierarchy: the multi-track
// container Component specialization, its flags-driven track grammar,
// and the family of effect/transition/selector/composition subclasses
// built on top of it.
package track

import (
	"fmt"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/component"
	"avbcore/pkg/avb/root"
)

// segmentObject is satisfied by any Component-derived object (a plain
// component.Component specialization or a nested TrackGroup, which
// embeds component.Component in turn).
type segmentObject interface {
	MediaKind() component.MediaKind
}

// classAttr, classTrkr are the class identifiers a track's raw refs are
// classified against before being slotted into Track's named fields.
var (
	classAttr = root.ClassID{'A', 'T', 'T', 'R'}
	classTrkr = root.ClassID{'T', 'R', 'K', 'R'}
)

// Track is one record of a TrackGroup's track list: a flags/index
// header plus the slots its refs classify into once read.
type Track struct {
	Flags          uint16
	Index          int16
	ControlCode    int16
	ControlSubCode int16
	LockNumber     int16

	Attributes  root.ObjectRef
	SessionAttr root.ObjectRef
	Component   root.ObjectRef
	FillerProxy root.ObjectRef
	BobData     root.ObjectRef

	// Refs is the raw child reference sequence as read from the wire,
	// prior to classification. Classified slots above are derived from
	// it; Refs itself is preserved for round-trip and for Segment.
	Refs []root.ObjectRef
}

// Segment returns the first ref in t.Refs that resolves to a
// Component-derived object (a plain Component specialization or a
// nested TrackGroup, which is itself a Component). Mirrors a Selector's
// per-track "what does this select" projection.
func (t *Track) Segment(rt root.Root) (root.Object, bool) {
	for _, ref := range t.Refs {
		obj, ok := rt.Resolve(ref)
		if !ok {
			continue
		}
		if _, isComponent := obj.(segmentObject); isComponent {
			return obj, true
		}
	}
	return nil, false
}

// classifyTrackRefs slots refs's elements into t's named fields
// according to each ref's resolved class identifier: ATTR refs go to
// Attributes/SessionAttr, TRKR to FillerProxy, the null sentinel is
// dropped, everything else goes to Component/BobData.
func classifyTrackRefs(t *Track, refs []root.ObjectRef) error {
	var attrs, trkr, plain, null []root.ObjectRef
	for _, ref := range refs {
		switch ref.ClassID() {
		case classAttr:
			attrs = append(attrs, ref)
		case classTrkr:
			trkr = append(trkr, ref)
		case root.NullClassID:
			null = append(null, ref)
		default:
			plain = append(plain, ref)
		}
	}
	if len(attrs) > 2 || len(trkr) > 1 || len(plain) > 2 || len(null) > 5 {
		return fmt.Errorf("track: ref classification out of bounds: %w", avberr.ErrInvariantViolation)
	}

	switch len(attrs) {
	case 2:
		t.Attributes = attrs[0]
		t.SessionAttr = attrs[1]
	case 1:
		t.SessionAttr = attrs[0]
	}
	if len(trkr) == 1 {
		t.FillerProxy = trkr[0]
	}
	switch len(plain) {
	case 2:
		t.Component = plain[0]
		t.BobData = plain[1]
	case 1:
		t.Component = plain[0]
	}
	return nil
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
