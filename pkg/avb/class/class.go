// Package class is the registry that maps a 4-byte class identifier to
// a constructor for the Go type that decodes/encodes it, and drives the
// decode dispatch every bin-file reader bottoms out in.
package class

import (
	"fmt"

	"avbcore/pkg/avb/avbconfig"
	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/avblog"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// DecodeContext bundles the state threaded through every DecodeBody
// call: the owning Root, the active policy, and a logger.
type DecodeContext struct {
	Root   root.Root
	Policy avbconfig.DecodePolicy
	Log    *avblog.Logger
}

// EncodeContext bundles the state threaded through every Marshal call.
type EncodeContext struct {
	Root root.Root
}

// Decoder is implemented by every registered class. DecodeBody reads
// the object's body (everything between its own 0x02/<version> open
// and matching 0x03 close) from r; the envelope itself is handled by
// each concrete type so that version-specific field layouts stay
// local to that type.
type Decoder interface {
	DecodeBody(ctx *DecodeContext, r *tag.Reader) error
}

// Encoder is implemented by every registered class: Size is computed
// first so Marshal writes into a single pre-sized buffer.
type Encoder interface {
	Size() int
	Marshal(ctx *EncodeContext, w *tag.Writer)
}

// Factory constructs a zero-value instance of a registered class,
// ready for Root.Alloc followed by DecodeBody.
type Factory func() root.Object

var registry = map[root.ClassID]Factory{}

// Register associates id with factory. Called from the init() of each
// package that defines a concrete class.
func Register(id root.ClassID, factory Factory) {
	if _, exists := registry[id]; exists {
		panic(fmt.Sprintf("class: %s already registered", id))
	}
	registry[id] = factory
}

// Lookup returns the factory registered for id, if any.
func Lookup(id root.ClassID) (Factory, bool) {
	f, ok := registry[id]
	return f, ok
}

// Decode looks up id, allocates a new instance in ctx.Root, decodes
// its body from r, and returns it. Returns avberr.ErrUnknownClass if
// id has no registered factory.
func Decode(ctx *DecodeContext, id root.ClassID, r *tag.Reader) (root.Object, error) {
	factory, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("class %s: %w", id, avberr.ErrUnknownClass)
	}
	obj := factory()
	ctx.Root.Alloc(obj)
	decoder, ok := obj.(Decoder)
	if !ok {
		return nil, fmt.Errorf("class %s: %w: registered type is not a Decoder", id, avberr.ErrInvariantViolation)
	}
	if err := decoder.DecodeBody(ctx, r); err != nil {
		return nil, err
	}
	return obj, nil
}
