// Package boltroot implements a bbolt-backed root.Root: objects live in
// an in-memory pool like root.MemRoot, but AddModified additionally
// persists the dirty object's encoded bytes into a bbolt bucket inside
// a single db.Update transaction. A restarted process can still Resolve
// an index it never allocated this run by lazily decoding it back out
// of that bucket.
package boltroot

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"avbcore/pkg/avb/avbconfig"
	"avbcore/pkg/avb/avblog"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

var bucketModified = []byte("modified")

// Root is a root.Root backed by a bbolt file. Resolve and Alloc operate
// on an in-memory object pool; AddModified additionally durably persists
// the object, so a later process can Resolve an index it never
// allocated itself by decoding it back out of the bucket.
type Root struct {
	db *bolt.DB

	mu        sync.Mutex
	objects   map[int]root.Object
	nextIndex int
	reading   bool

	policy avbconfig.DecodePolicy
	log    *avblog.Logger
}

// Open opens (creating if necessary) the bbolt file at path and returns
// a ready Root. The caller must Close it when done.
func Open(path string) (*Root, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltroot: could not open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketModified)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltroot: could not create bucket: %w", err)
	}
	return &Root{
		db:      db,
		objects: map[int]root.Object{},
		policy:  avbconfig.DefaultPolicy(),
		log:     avblog.Default(),
	}, nil
}

// Close closes the underlying bbolt file.
func (r *Root) Close() error { return r.db.Close() }

// SetReading sets the Reading flag, mirroring root.MemRoot.SetReading.
func (r *Root) SetReading(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reading = v
}

// Reading implements root.Root.
func (r *Root) Reading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reading
}

// SetPolicy replaces the decode policy used when lazily resolving an
// object out of the modified bucket.
func (r *Root) SetPolicy(p avbconfig.DecodePolicy) { r.policy = p }

// Alloc implements root.Root: obj is kept in the in-memory pool under a
// freshly minted index. It is not persisted until a caller calls
// AddModified on it.
func (r *Root) Alloc(obj root.Object) root.ObjectRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextIndex++
	idx := r.nextIndex
	root.AssignIndex(obj, idx)
	r.objects[idx] = obj
	return root.NewObjectRef(r, idx)
}

// Resolve implements root.Root. The in-memory pool is checked first;
// failing that, the object is decoded back out of the modified bucket,
// covering the case where it was persisted by an earlier process and
// this one never called Alloc for it.
func (r *Root) Resolve(ref root.ObjectRef) (root.Object, bool) {
	idx := ref.Index()
	if idx <= 0 {
		return nil, false
	}

	r.mu.Lock()
	if obj, ok := r.objects[idx]; ok {
		r.mu.Unlock()
		return obj, true
	}
	r.mu.Unlock()

	obj, err := r.loadFromBucket(idx)
	if err != nil || obj == nil {
		return nil, false
	}

	r.mu.Lock()
	r.objects[idx] = obj
	if idx > r.nextIndex {
		r.nextIndex = idx
	}
	r.mu.Unlock()
	return obj, true
}

func (r *Root) loadFromBucket(idx int) (root.Object, error) {
	var raw []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModified)
		v := b.Get(encodeKey(idx))
		if v == nil {
			return nil
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil || raw == nil {
		return nil, err
	}
	return decodeEntry(r, r.policy, r.log, idx, raw)
}

// AddModified implements root.Root: obj is encoded (class id + body)
// and persisted into the modified bucket keyed by its index, inside a
// single db.Update transaction.
func (r *Root) AddModified(obj root.Object) {
	enc, ok := obj.(class.Encoder)
	if !ok {
		return
	}
	w := tag.NewWriter(4 + enc.Size())
	id := obj.ClassID()
	w.WriteBytes(id[:])
	enc.Marshal(&class.EncodeContext{Root: r}, w)
	value := w.Bytes()

	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModified)
		return b.Put(encodeKey(obj.Index()), value)
	})
	if err != nil {
		r.log.Error().Msgf("boltroot: could not persist index %d: %v", obj.Index(), err)
	}
}

// Modified returns every index currently recorded in the modified
// bucket, in ascending order, for callers that need to audit what has
// been durably enqueued.
func (r *Root) Modified() ([]int, error) {
	var out []int
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketModified)
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			out = append(out, decodeKey(k))
		}
		return nil
	})
	return out, err
}

func decodeEntry(rt root.Root, policy avbconfig.DecodePolicy, log *avblog.Logger, idx int, raw []byte) (root.Object, error) {
	if len(raw) < 4 {
		return nil, fmt.Errorf("boltroot: entry %d too short for a class id", idx)
	}
	var id root.ClassID
	copy(id[:], raw[:4])

	factory, ok := class.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("boltroot: entry %d: %s: no registered class", idx, id)
	}
	obj := factory()
	root.AssignIndex(obj, idx)

	decoder, ok := obj.(class.Decoder)
	if !ok {
		return nil, fmt.Errorf("boltroot: entry %d: %s: registered type is not a Decoder", idx, id)
	}
	ctx := &class.DecodeContext{Root: rt, Policy: policy, Log: log}
	if err := decoder.DecodeBody(ctx, tag.NewReader(bytes.NewReader(raw[4:]))); err != nil {
		return nil, err
	}
	return obj, nil
}

func encodeKey(idx int) []byte {
	key := make([]byte, 8)
	v := uint64(idx)
	for i := 7; i >= 0; i-- {
		key[i] = byte(v)
		v >>= 8
	}
	return key
}

func decodeKey(key []byte) int {
	var v uint64
	for _, b := range key {
		v = v<<8 | uint64(b)
	}
	return int(v)
}
