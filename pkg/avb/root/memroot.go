package root

// MemRoot is the reference in-memory Root implementation: a
// slice-backed object pool addressed by a dense 1-based index (index 0
// is reserved for the null sentinel), a dirty set, and the Reading
// flag bulk decode toggles. It is the Root the core's own tests decode
// against, and a reasonable Root for any caller that doesn't need
// cross-process persistence.
type MemRoot struct {
	objects  []Object
	modified map[int]struct{}
	reading  bool

	unknownClassCount int
}

// NewMemRoot returns an empty MemRoot.
func NewMemRoot() *MemRoot {
	return &MemRoot{modified: map[int]struct{}{}}
}

// Alloc appends obj to the pool, assigns it the next 1-based index, and
// returns an ObjectRef to it.
func (r *MemRoot) Alloc(obj Object) ObjectRef {
	idx := len(r.objects) + 1
	r.objects = append(r.objects, obj)
	if setter, ok := obj.(indexSetter); ok {
		setter.setIndex(idx)
	}
	return ObjectRef{root: r, index: idx}
}

// Resolve implements Root.
func (r *MemRoot) Resolve(ref ObjectRef) (Object, bool) {
	if ref.index <= 0 || ref.index > len(r.objects) {
		return nil, false
	}
	obj := r.objects[ref.index-1]
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// AddModified implements Root. Idempotent: the dirty set is keyed by
// index.
func (r *MemRoot) AddModified(obj Object) {
	if r.modified == nil {
		r.modified = map[int]struct{}{}
	}
	r.modified[obj.Index()] = struct{}{}
}

// Reading implements Root.
func (r *MemRoot) Reading() bool { return r.reading }

// SetReading sets the Reading flag. A bulk decode pass sets this true
// before allocating any object and false once the pass completes.
func (r *MemRoot) SetReading(v bool) { r.reading = v }

// Modified returns every object currently enqueued in the dirty set, in
// index order.
func (r *MemRoot) Modified() []Object {
	out := make([]Object, 0, len(r.modified))
	for i := 1; i <= len(r.objects); i++ {
		if _, ok := r.modified[i]; ok {
			out = append(out, r.objects[i-1])
		}
	}
	return out
}

// ClearModified empties the dirty set, e.g. after a caller has
// persisted every enqueued object.
func (r *MemRoot) ClearModified() {
	r.modified = map[int]struct{}{}
}

// IncrUnknownClass records one more decode encountering a class
// identifier with no registered decoder. The collaborator driving bulk
// decode calls this when it chooses to skip such an object rather than
// abort the whole pass.
func (r *MemRoot) IncrUnknownClass() { r.unknownClassCount++ }

// RootStats is a read-only snapshot of a Root's bookkeeping counters,
// for observability (e.g. reporting how many objects a decode pass
// produced, or how many remain dirty).
type RootStats struct {
	ObjectCount       int
	ModifiedCount     int
	UnknownClassCount int
}

// Stats returns a snapshot of r's current counters.
func (r *MemRoot) Stats() RootStats {
	return RootStats{
		ObjectCount:       len(r.objects),
		ModifiedCount:     len(r.modified),
		UnknownClassCount: r.unknownClassCount,
	}
}
