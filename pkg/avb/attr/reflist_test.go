package attr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

func TestParameterListRoundTrip(t *testing.T) {
	rt := root.NewMemRoot()
	rt.SetReading(true)
	a := rt.Alloc(&stubObject{})
	b := rt.Alloc(&stubObject{})

	pl := &ParameterList{Refs: []root.ObjectRef{a, b}}
	w := tag.NewWriter(pl.Size())
	pl.Marshal(&class.EncodeContext{Root: rt}, w)

	got := &ParameterList{}
	err := got.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w.Bytes())))
	require.NoError(t, err)
	require.Len(t, got.Refs, 2)
	require.Equal(t, a.Index(), got.Refs[0].Index())
	require.Equal(t, b.Index(), got.Refs[1].Index())
}

func TestTimeCrumbListRoundTrip(t *testing.T) {
	rt := root.NewMemRoot()
	rt.SetReading(true)
	a := rt.Alloc(&stubObject{})

	tcl := &TimeCrumbList{Refs: []root.ObjectRef{a}}
	w := tag.NewWriter(tcl.Size())
	tcl.Marshal(&class.EncodeContext{Root: rt}, w)

	got := &TimeCrumbList{}
	err := got.DecodeBody(decodeCtx(rt), tag.NewReader(bytes.NewReader(w.Bytes())))
	require.NoError(t, err)
	require.Len(t, got.Refs, 1)
	require.Equal(t, a.Index(), got.Refs[0].Index())
}

func TestParameterListEmpty(t *testing.T) {
	rt := root.NewMemRoot()
	pl := &ParameterList{}
	w := tag.NewWriter(pl.Size())
	pl.Marshal(&class.EncodeContext{Root: rt}, w)
	require.Equal(t, []byte{tag.Open, tag.SubOpen, 0, 0, 0, 0, tag.Close}, w.Bytes())
}
