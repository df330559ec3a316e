// Package root implements the object root / reference resolver: the
// process-wide container of decoded objects, addressable by a dense
// nonnegative index, that every Component and TrackGroup is owned by
// and references other objects through.
package root

import "avbcore/pkg/avb/tag"

// ClassID is a 4-byte ASCII class identifier, e.g. "SEQU" or "TRKG".
type ClassID [4]byte

func (c ClassID) String() string { return string(c[:]) }

// NullClassID is the reserved sentinel meaning "intentionally empty
// reference". It is never a registered decodable class.
var NullClassID = ClassID{'N', 'U', 'L', 'L'}

// Object is anything the Root can own: a class identifier and a stable
// index into the pool it lives in.
type Object interface {
	ClassID() ClassID
	Index() int
}

// indexSetter lets Root assign an index to a freshly allocated Object
// without exposing mutation on the public Object interface.
type indexSetter interface {
	setIndex(int)
}

// Header is embedded by every concrete Object to provide the Index()
// half of the interface. ClassID() is implemented per concrete type
// since it's determined by the type, not the instance.
type Header struct {
	index int
}

// Index returns the object's index in its owning Root.
func (h *Header) Index() int { return h.index }

func (h *Header) setIndex(i int) { h.index = i }

// AssignIndex gives obj a stable index without going through a Root's own
// Alloc. Exported for Root implementations living outside this package
// (e.g. a persistence-backed Root that reconstructs an object from a
// store and must stamp it with the index it was stored under, rather
// than minting a fresh one).
func AssignIndex(obj Object, idx int) bool {
	setter, ok := obj.(indexSetter)
	if !ok {
		return false
	}
	setter.setIndex(idx)
	return true
}

// Root is the contract a decoder/encoder needs from its backing object
// pool: lazy resolution by index, modification tracking, and the
// reading flag that suppresses self-registration during bulk decode.
type Root interface {
	// Resolve dereferences ref. ok is false for the null sentinel or
	// for an index with nothing allocated at it yet.
	Resolve(ref ObjectRef) (obj Object, ok bool)

	// AddModified enqueues obj for eventual persistence. Idempotent.
	AddModified(obj Object)

	// Reading is true during a bulk decode pass; attribute mutations
	// consult it to avoid registering themselves as modified while
	// simply being constructed from the wire.
	Reading() bool

	// Alloc registers a freshly constructed Object, assigns it a
	// stable index, and returns an ObjectRef to it. Decoders call this
	// immediately after instantiating an object (before decoding its
	// body) so that cyclic or forward references resolve correctly.
	Alloc(obj Object) ObjectRef
}

// ObjectRef is an opaque, non-owning handle: an index into a Root plus
// that Root, dereferenced lazily. The zero value (index 0, no root) is
// the null sentinel.
type ObjectRef struct {
	root  Root
	index int
}

// Index returns the ref's index. Index 0 is reserved for the null
// sentinel.
func (r ObjectRef) Index() int { return r.index }

// ClassID lazily resolves the ref and returns its target's class id,
// or NullClassID if the ref is null or unresolved.
func (r ObjectRef) ClassID() ClassID {
	if r.root == nil {
		return NullClassID
	}
	obj, ok := r.root.Resolve(r)
	if !ok || obj == nil {
		return NullClassID
	}
	return obj.ClassID()
}

// IsNull reports whether this is an intentionally empty reference.
func (r ObjectRef) IsNull() bool { return r.ClassID() == NullClassID }

// Resolve dereferences the ref through its Root, returning the same
// (Object, ok) pair Root.Resolve would.
func (r ObjectRef) Resolve() (Object, bool) {
	if r.root == nil {
		return nil, false
	}
	return r.root.Resolve(r)
}

// NewObjectRef constructs an ObjectRef to a specific index against a
// Root. Used by Root.Alloc implementations and by tests that need to
// hand-build a reference graph.
func NewObjectRef(r Root, index int) ObjectRef {
	return ObjectRef{root: r, index: index}
}

// ReadObjectRef reads an index (width defined by the outer chunk
// framer; this core defaults to a u32 little-endian index, the common
// case) and returns an ObjectRef carrying it. Dereference happens
// lazily through r.
func ReadObjectRef(r Root, tr *tag.Reader) ObjectRef {
	idx := tr.ReadU32()
	return ObjectRef{root: r, index: int(idx)}
}

// WriteObjectRef writes ref's index. No resolution is required to
// encode a reference: the index is already known.
func WriteObjectRef(w *tag.Writer, ref ObjectRef) {
	w.WriteU32(uint32(ref.Index()))
}
