package root

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubObject struct {
	Header
	class ClassID
}

func (s *stubObject) ClassID() ClassID { return s.class }

func TestAllocAssignsDenseIndexStartingAtOne(t *testing.T) {
	rt := NewMemRoot()
	a := &stubObject{class: ClassID{'S', 'E', 'Q', 'U'}}
	b := &stubObject{class: ClassID{'F', 'I', 'L', 'L'}}

	refA := rt.Alloc(a)
	refB := rt.Alloc(b)

	require.Equal(t, 1, refA.Index())
	require.Equal(t, 2, refB.Index())
	require.Equal(t, 1, a.Index())
	require.Equal(t, 2, b.Index())
}

func TestResolveReturnsAllocatedObject(t *testing.T) {
	rt := NewMemRoot()
	a := &stubObject{class: ClassID{'S', 'E', 'Q', 'U'}}
	ref := rt.Alloc(a)

	got, ok := rt.Resolve(ref)
	require.True(t, ok)
	require.Same(t, a, got)
}

func TestResolveOutOfRangeIndexIsNotOk(t *testing.T) {
	rt := NewMemRoot()
	_, ok := rt.Resolve(NewObjectRef(rt, 99))
	require.False(t, ok)

	_, ok = rt.Resolve(ObjectRef{})
	require.False(t, ok)
}

func TestNullObjectRefResolvesToNullClassID(t *testing.T) {
	var ref ObjectRef
	require.True(t, ref.IsNull())
	require.Equal(t, NullClassID, ref.ClassID())
}

func TestObjectRefClassIDLazilyResolves(t *testing.T) {
	rt := NewMemRoot()
	a := &stubObject{class: ClassID{'T', 'R', 'K', 'G'}}
	ref := rt.Alloc(a)

	require.False(t, ref.IsNull())
	require.Equal(t, ClassID{'T', 'R', 'K', 'G'}, ref.ClassID())
}

func TestAddModifiedIsIdempotent(t *testing.T) {
	rt := NewMemRoot()
	a := &stubObject{class: ClassID{'A', 'T', 'T', 'R'}}
	rt.Alloc(a)

	rt.AddModified(a)
	rt.AddModified(a)

	require.Len(t, rt.Modified(), 1)
	require.Equal(t, 1, rt.Stats().ModifiedCount)
}

func TestReadingFlagSuppressesNothingByItselfButIsObservable(t *testing.T) {
	rt := NewMemRoot()
	require.False(t, rt.Reading())
	rt.SetReading(true)
	require.True(t, rt.Reading())
	rt.SetReading(false)
	require.False(t, rt.Reading())
}

func TestClearModifiedEmptiesDirtySet(t *testing.T) {
	rt := NewMemRoot()
	a := &stubObject{class: ClassID{'A', 'T', 'T', 'R'}}
	rt.Alloc(a)
	rt.AddModified(a)
	require.NotEmpty(t, rt.Modified())

	rt.ClearModified()
	require.Empty(t, rt.Modified())
}

// TestReferenceStability pins the reference-stability property:
// every ObjectRef stored anywhere resolves either to an object that is
// also in the Root, or to the null sentinel.
func TestReferenceStability(t *testing.T) {
	rt := NewMemRoot()
	a := &stubObject{class: ClassID{'S', 'E', 'Q', 'U'}}
	refA := rt.Alloc(a)

	var refs []ObjectRef
	refs = append(refs, refA, ObjectRef{}, NewObjectRef(rt, refA.Index()))

	for _, ref := range refs {
		if ref.IsNull() {
			continue
		}
		obj, ok := ref.Resolve()
		require.True(t, ok)
		_, inPool := rt.Resolve(NewObjectRef(rt, obj.Index()))
		require.True(t, inPool)
	}
}
