package component

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"avbcore/pkg/avb/avbconfig"
	"avbcore/pkg/avb/avblog"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/mobid"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

func decodeCtx(rt root.Root) *class.DecodeContext {
	return &class.DecodeContext{Root: rt, Policy: avbconfig.DefaultPolicy(), Log: avblog.Default()}
}

func roundTrip(t *testing.T, rt root.Root, obj interface {
	class.Encoder
}, fresh class.Decoder) {
	t.Helper()
	w := tag.NewWriter(obj.Size())
	obj.Marshal(&class.EncodeContext{Root: rt}, w)
	err := fresh.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w.Bytes())))
	require.NoError(t, err)
}

func TestMediaKindString(t *testing.T) {
	require.Equal(t, "sound", MediaKind(2).String())
	require.Equal(t, "unknown42", MediaKind(42).String())
}

func TestSequenceRoundTrip(t *testing.T) {
	rt := root.NewMemRoot()
	rt.SetReading(true)
	child := rt.Alloc(&Filler{})

	seq := &Sequence{ComponentRefs: []root.ObjectRef{child, child}}
	seq.Name = "main"
	seq.EditRate = tag.ExpRational{Mantissa: 30000, Exponent: -3}

	got := &Sequence{}
	roundTrip(t, rt, seq, got)
	require.Equal(t, "main", got.Name)
	require.Len(t, got.ComponentRefs, 2)
	require.Equal(t, child.Index(), got.ComponentRefs[0].Index())
}

func TestFillerRoundTrip(t *testing.T) {
	rt := root.NewMemRoot()
	f := &Filler{}
	f.Length = 90000

	got := &Filler{}
	roundTrip(t, rt, f, got)
	require.EqualValues(t, 90000, got.Length)
}

func TestSourceClipZeroMobID(t *testing.T) {
	rt := root.NewMemRoot()
	sc := &SourceClip{TrackID: 1, StartTime: 0}
	sc.MobID = mobid.NewMobID([]byte("fixture"))

	w := tag.NewWriter(sc.Size())
	sc.Marshal(&class.EncodeContext{Root: rt}, w)

	got := &SourceClip{}
	err := got.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w.Bytes())))
	require.NoError(t, err)
	require.True(t, got.MobID.IsZero(), "legacy (hi,lo)=(0,0) must force the zero MobID regardless of the encoded SMPTE payload")
}

func TestTimecodeRoundTrip(t *testing.T) {
	rt := root.NewMemRoot()
	tc := &Timecode{Flags: 1, FPS: 30, Start: 108000}

	got := &Timecode{}
	roundTrip(t, rt, tc, got)
	require.Equal(t, uint16(30), got.FPS)
	require.EqualValues(t, 108000, got.Start)
}

func TestLeafClipsNoExtraState(t *testing.T) {
	rt := root.NewMemRoot()
	for _, tc := range []struct {
		name   string
		obj    class.Encoder
		fresh  class.Decoder
	}{
		{"FILL", &Filler{}, &Filler{}},
		{"ECCP", &Edgecode{}, &Edgecode{}},
		{"TRKR", &TrackRef{}, &TrackRef{}},
		{"PRCL", &ParamClip{}, &ParamClip{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			roundTrip(t, rt, tc.obj, tc.fresh)
		})
	}
}

// TestOnlyFillerCarriesEmptyTrailer pins the wire-shape difference
// between the four no-extra-state Clip leaves: only Filler's body
// carries the trailing 0x02/0x01/0x03 no-op section. Edgecode, TrackRef
// and ParamClip end immediately after Clip's own fields, three bytes
// shorter than Filler for an otherwise identical Clip.
func TestOnlyFillerCarriesEmptyTrailer(t *testing.T) {
	f := &Filler{}
	e := &Edgecode{}
	tr := &TrackRef{}
	p := &ParamClip{}

	require.Equal(t, f.Clip.FieldsSize()+emptyTrailerSize, f.Size())
	require.Equal(t, e.Clip.FieldsSize(), e.Size())
	require.Equal(t, tr.Clip.FieldsSize(), tr.Size())
	require.Equal(t, p.Clip.FieldsSize(), p.Size())
}

// TestEdgecodeBodyEndsAfterClipFields decodes a wire buffer containing
// exactly Clip's fields and nothing else, independent of Edgecode's own
// Marshal, and asserts DecodeBody consumes no extra bytes.
func TestEdgecodeBodyEndsAfterClipFields(t *testing.T) {
	rt := root.NewMemRoot()
	src := &Edgecode{}
	src.Length = 42

	w := tag.NewWriter(src.Clip.FieldsSize())
	src.Clip.MarshalFields(&class.EncodeContext{Root: rt}, w)

	got := &Edgecode{}
	err := got.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w.Bytes())))
	require.NoError(t, err)
	require.EqualValues(t, 42, got.Length)
}

func TestClassRegistryWired(t *testing.T) {
	for _, id := range []root.ClassID{
		ClassIDSEQU, ClassIDSCLP, ClassIDTCCP, ClassIDFILL, ClassIDECCP, ClassIDTRKR, ClassIDPRCL,
	} {
		_, ok := class.Lookup(id)
		require.True(t, ok, "class %s must be registered", id)
	}
}
