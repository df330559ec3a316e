package track

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"avbcore/pkg/avb/attr"
	"avbcore/pkg/avb/avbconfig"
	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/avblog"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/component"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

func decodeCtx(rt root.Root) *class.DecodeContext {
	return &class.DecodeContext{Root: rt, Policy: avbconfig.DefaultPolicy(), Log: avblog.Default()}
}

func TestRefCountForFlags(t *testing.T) {
	cases := []struct {
		flags int
		want  int
	}{
		{4, 1}, {5, 1}, {16, 1},
		{12, 2}, {13, 2}, {21, 2}, {517, 2},
		{29, 3}, {519, 3}, {525, 3}, {533, 3},
		{541, 4}, {527, 4},
		{543, 5},
	}
	for _, c := range cases {
		got, err := refCountForFlags(uint16(c.flags))
		require.NoError(t, err, "flags %d", c.flags)
		require.Equal(t, c.want, got, "flags %d", c.flags)
	}
}

func TestRefCountForFlagsUnknown(t *testing.T) {
	_, err := refCountForFlags(9999)
	require.Error(t, err)
	require.True(t, errors.Is(err, avberr.ErrUnknownTrackFlag))
}

func TestTrackGroupRoundTrip(t *testing.T) {
	rt := root.NewMemRoot()
	rt.SetReading(true)

	filler := &component.Filler{}
	rt.Alloc(filler)
	filler2 := &component.Filler{}
	rt.Alloc(filler2)
	trkr := &component.TrackRef{}
	rt.Alloc(trkr)
	a1 := attr.New(rt)
	rt.Alloc(a1)
	a2 := attr.New(rt)
	rt.Alloc(a2)

	g := &TrackGroup{}
	g.MCMode = 1
	g.Length = 100
	g.NumScalars = 2

	g.Tracks = []Track{
		{Flags: 0, LockNumber: 0},
		{Flags: 16, Refs: []root.ObjectRef{root.NewObjectRef(rt, filler.Index())}, LockNumber: 11},
		{Flags: 12, Refs: []root.ObjectRef{root.NewObjectRef(rt, a1.Index()), root.NewObjectRef(rt, a2.Index())}, LockNumber: 12},
		{Flags: 36, ControlCode: 7, Refs: []root.ObjectRef{root.NewObjectRef(rt, trkr.Index())}, LockNumber: 13},
		{Flags: 100, ControlCode: 3, ControlSubCode: 9, Refs: []root.ObjectRef{{}}, LockNumber: 14},
		{Flags: 5, Index: 42, Refs: []root.ObjectRef{root.NewObjectRef(rt, filler2.Index())}, LockNumber: 15},
	}

	w := tag.NewWriter(g.Size())
	g.Marshal(&class.EncodeContext{Root: rt}, w)

	got := &TrackGroup{}
	err := got.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w.Bytes())))
	require.NoError(t, err)
	require.Equal(t, g.MCMode, got.MCMode)
	require.Equal(t, g.Length, got.Length)
	require.Equal(t, g.NumScalars, got.NumScalars)
	require.Len(t, got.Tracks, len(g.Tracks))

	require.Equal(t, uint16(0), got.Tracks[0].Flags)
	require.Equal(t, int16(0), got.Tracks[0].LockNumber)

	require.Equal(t, uint16(16), got.Tracks[1].Flags)
	require.Equal(t, int16(2), got.Tracks[1].Index) // label-less: recomputed as i+1
	require.Equal(t, int16(11), got.Tracks[1].LockNumber)
	require.Equal(t, filler.Index(), got.Tracks[1].Component.Index())

	require.Equal(t, uint16(12), got.Tracks[2].Flags)
	require.Equal(t, a1.Index(), got.Tracks[2].Attributes.Index())
	require.Equal(t, a2.Index(), got.Tracks[2].SessionAttr.Index())

	require.Equal(t, uint16(36), got.Tracks[3].Flags)
	require.Equal(t, int16(7), got.Tracks[3].ControlCode)
	require.Equal(t, trkr.Index(), got.Tracks[3].FillerProxy.Index())

	require.Equal(t, uint16(100), got.Tracks[4].Flags)
	require.Equal(t, int16(3), got.Tracks[4].ControlCode)
	require.Equal(t, int16(9), got.Tracks[4].ControlSubCode)
	require.True(t, got.Tracks[4].Component.IsNull())

	require.Equal(t, uint16(5), got.Tracks[5].Flags)
	require.Equal(t, int16(42), got.Tracks[5].Index)
	require.Equal(t, filler2.Index(), got.Tracks[5].Component.Index())
	require.Equal(t, int16(15), got.Tracks[5].LockNumber)

	obj, ok := got.Tracks[1].Segment(rt)
	require.True(t, ok)
	require.Equal(t, filler.Index(), obj.Index())
}

// TestClassifyTrackRefsLoneAttrGoesToSessionAttr pins the single-ATTR
// case of the reference classification table: with only one ATTR ref
// present, it slots into SessionAttr, not Attributes (Attributes is
// only populated alongside a second ATTR ref).
func TestClassifyTrackRefsLoneAttrGoesToSessionAttr(t *testing.T) {
	rt := root.NewMemRoot()
	rt.SetReading(true)
	a := attr.New(rt)
	rt.Alloc(a)

	var tr Track
	err := classifyTrackRefs(&tr, []root.ObjectRef{root.NewObjectRef(rt, a.Index())})
	require.NoError(t, err)
	require.True(t, tr.Attributes.IsNull())
	require.Equal(t, a.Index(), tr.SessionAttr.Index())
}

func TestClassifyTrackRefsOutOfBounds(t *testing.T) {
	var tr Track
	refs := make([]root.ObjectRef, 6) // all-null: exceeds the 5-null bound
	err := classifyTrackRefs(&tr, refs)
	require.Error(t, err)
	require.True(t, errors.Is(err, avberr.ErrInvariantViolation))
}

func TestSelectorBound(t *testing.T) {
	rt := root.NewMemRoot()
	rt.SetReading(true)

	s := &Selector{}
	s.IsGanged = true
	s.Selected = 0
	s.Tracks = []Track{{Flags: 0}}

	w := tag.NewWriter(s.Size())
	s.Marshal(&class.EncodeContext{Root: rt}, w)
	got := &Selector{}
	require.NoError(t, got.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w.Bytes()))))
	require.Equal(t, uint16(0), got.Selected)

	bad := &Selector{}
	bad.Selected = 1 // == len(tracks), out of bounds
	bad.Tracks = []Track{{Flags: 0}}
	w2 := tag.NewWriter(bad.Size())
	bad.Marshal(&class.EncodeContext{Root: rt}, w2)
	got2 := &Selector{}
	err := got2.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w2.Bytes())))
	require.Error(t, err)
	require.True(t, errors.Is(err, avberr.ErrInvariantViolation))
}

func TestClassRegistryWired(t *testing.T) {
	ids := []root.ClassID{
		ClassIDTRKG, ClassIDTKFX, ClassIDPVOL, ClassIDEQMB, ClassIDASPI,
		ClassIDMASK, ClassIDSPED, ClassIDREPT, ClassIDRSET, ClassIDTNFX,
		ClassIDSLCT, ClassIDCMPO,
	}
	for _, id := range ids {
		_, ok := class.Lookup(id)
		require.True(t, ok, "expected %s registered", id)
	}
}

func TestTimeWarpNotRegistered(t *testing.T) {
	_, ok := class.Lookup(root.ClassID{'W', 'A', 'R', 'P'})
	require.False(t, ok)
}
