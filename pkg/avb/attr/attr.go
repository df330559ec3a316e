// Package attr implements the Attributes dictionary and the two
// reference-list containers (ParameterList, TimeCrumbList) that hang
// off Components and Tracks. Attributes is the one object in the core
// whose mutation is persistence-aware: every insert/remove/clear/pop
// enqueues it onto its owning Root's dirty set, unless that Root is
// still in its bulk-decode pass.
package attr

import (
	"fmt"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// Kind selects which of the four wire encodings an attribute value uses.
type Kind uint32

// Wire codes for the four attribute value shapes.
const (
	KindInt   Kind = 1
	KindStr   Kind = 2
	KindObj   Kind = 3
	KindBytes Kind = 4
)

// Value is the sum type an Attributes entry holds: exactly one of Int,
// Str, Obj, Bytes is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Int   int32
	Str   string
	Obj   root.ObjectRef
	Bytes []byte
}

// IntValue builds an INT-kind Value.
func IntValue(v int32) Value { return Value{Kind: KindInt, Int: v} }

// StrValue builds a STR-kind Value.
func StrValue(v string) Value { return Value{Kind: KindStr, Str: v} }

// ObjValue builds an OBJ-kind Value.
func ObjValue(v root.ObjectRef) Value { return Value{Kind: KindObj, Obj: v} }

// BytesValue builds a BOB-kind Value. b is not copied.
func BytesValue(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// ValueOf builds a Value from a generic Go value, mirroring the
// runtime-shape dispatch the wire format's writer performs: int32 maps
// to INT, string to STR, an ObjectRef to OBJ, and []byte to BOB. Any
// other shape - notably a bare string-ish byte sequence the caller
// hasn't committed to a kind for - is ErrAmbiguousAttributeValue: the
// caller must disambiguate before encode.
func ValueOf(v interface{}) (Value, error) {
	switch x := v.(type) {
	case int32:
		return IntValue(x), nil
	case string:
		return StrValue(x), nil
	case root.ObjectRef:
		return ObjValue(x), nil
	case []byte:
		return BytesValue(x), nil
	default:
		return Value{}, fmt.Errorf("attr: value of type %T: %w", v, avberr.ErrAmbiguousAttributeValue)
	}
}

func valueSize(v Value) int {
	switch v.Kind {
	case KindInt:
		return 4
	case KindStr:
		return tag.SizeString(v.Str)
	case KindObj:
		return 4
	case KindBytes:
		return tag.SizeBlob(v.Bytes)
	default:
		return 0
	}
}

// ClassIDATTR is the registered class identifier for Attributes.
var ClassIDATTR = root.ClassID{'A', 'T', 'T', 'R'}

func init() {
	class.Register(ClassIDATTR, func() root.Object { return &Attributes{} })
}

type entry struct {
	name  string
	value Value
}

// Attributes is a UTF-8-keyed dictionary of Value, in load order. Every
// mutating method enqueues the receiver onto its owning Root's dirty
// set via AddModified, unless the Root is mid-decode (Root.Reading()).
type Attributes struct {
	root.Header
	rt      root.Root
	entries []entry
	idx     map[string]int
}

// New returns an empty Attributes owned by rt. rt may be nil for
// Attributes that are never mutated outside a decode pass (e.g. test
// fixtures), since markModified is a no-op without a Root.
func New(rt root.Root) *Attributes {
	return &Attributes{rt: rt, idx: map[string]int{}}
}

// ClassID implements root.Object.
func (a *Attributes) ClassID() root.ClassID { return ClassIDATTR }

func (a *Attributes) markModified() {
	if a.rt != nil && !a.rt.Reading() {
		a.rt.AddModified(a)
	}
}

// Len returns the number of entries.
func (a *Attributes) Len() int { return len(a.entries) }

// Keys returns the attribute names in load/insertion order.
func (a *Attributes) Keys() []string {
	keys := make([]string, len(a.entries))
	for i, e := range a.entries {
		keys[i] = e.name
	}
	return keys
}

// Get returns the value stored under name, if any.
func (a *Attributes) Get(name string) (Value, bool) {
	i, ok := a.idx[name]
	if !ok {
		return Value{}, false
	}
	return a.entries[i].value, true
}

func (a *Attributes) insert(name string, value Value) {
	if a.idx == nil {
		a.idx = map[string]int{}
	}
	if i, ok := a.idx[name]; ok {
		a.entries[i].value = value
		return
	}
	a.idx[name] = len(a.entries)
	a.entries = append(a.entries, entry{name: name, value: value})
}

// Insert sets name to value, overwriting any existing entry with the
// same name, and marks the Attributes modified.
func (a *Attributes) Insert(name string, value Value) {
	a.insert(name, value)
	a.markModified()
}

// Remove deletes name, if present, and marks the Attributes modified.
// Reports whether name was present.
func (a *Attributes) Remove(name string) bool {
	i, ok := a.idx[name]
	if !ok {
		return false
	}
	a.entries = append(a.entries[:i], a.entries[i+1:]...)
	delete(a.idx, name)
	for j := i; j < len(a.entries); j++ {
		a.idx[a.entries[j].name] = j
	}
	a.markModified()
	return true
}

// Clear removes every entry and marks the Attributes modified.
func (a *Attributes) Clear() {
	a.entries = nil
	a.idx = map[string]int{}
	a.markModified()
}

// Pop removes and returns name's value. The receiver is marked
// modified even when name is absent.
func (a *Attributes) Pop(name string) (Value, bool) {
	v, ok := a.Get(name)
	if ok {
		a.Remove(name)
		return v, true
	}
	a.markModified()
	return Value{}, false
}

// DecodeBody decodes the 0x02/0x01/<u32 count>/entries…/0x03 envelope.
func (a *Attributes) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	a.rt = ctx.Root
	r.AssertTag(tag.Open)
	r.AssertTag(tag.SubOpen)
	count := r.ReadU32()
	for i := uint32(0); i < count && r.Err() == nil; i++ {
		attrType := Kind(r.ReadU32())
		name := r.ReadString()
		var v Value
		switch attrType {
		case KindInt:
			v = IntValue(r.ReadS32())
		case KindStr:
			v = StrValue(r.ReadString())
		case KindObj:
			v = ObjValue(root.ReadObjectRef(ctx.Root, r))
		case KindBytes:
			v = BytesValue(r.ReadBlob())
		default:
			return fmt.Errorf("attributes: entry %d name %q: attr type %d: %w",
				i, name, attrType, avberr.ErrInvariantViolation)
		}
		if r.Err() != nil {
			break
		}
		a.insert(name, v)
	}
	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of the Attributes body.
func (a *Attributes) Size() int {
	n := 2 + 4 // open+version, count
	for _, e := range a.entries {
		n += 4 + tag.SizeString(e.name) + valueSize(e.value)
	}
	return n + 1 // close
}

// Marshal writes the Attributes body.
func (a *Attributes) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	w.WriteU8(tag.Open)
	w.WriteU8(tag.SubOpen)
	w.WriteU32(uint32(len(a.entries)))
	for _, e := range a.entries {
		w.WriteU32(uint32(e.value.Kind))
		w.WriteString(e.name)
		switch e.value.Kind {
		case KindInt:
			w.WriteS32(e.value.Int)
		case KindStr:
			w.WriteString(e.value.Str)
		case KindObj:
			root.WriteObjectRef(w, e.value.Obj)
		case KindBytes:
			w.WriteBlob(e.value.Bytes)
		}
	}
	w.WriteU8(tag.Close)
}
