// Package avberr defines the error taxonomy shared by every AVB decoder
// and encoder. Callers use errors.Is against these sentinels; error
// strings are for humans, not control flow.
package avberr

import "errors"

// Sentinel errors, one per taxonomy kind. Wrap with fmt.Errorf("...: %w", ...)
// to attach call-site context before returning.
var (
	// ErrStructuralMismatch means an expected tag or version byte did not
	// match the literal required by the schema (e.g. a missing 0x03 close).
	// Fatal; abort the current object.
	ErrStructuralMismatch = errors.New("avb: structural mismatch")

	// ErrUnknownClass means a class identifier has no registered decoder.
	// Recoverable by the caller; the core itself never skips silently.
	ErrUnknownClass = errors.New("avb: unknown class")

	// ErrUnknownTrackFlag means a track's flags value isn't in the
	// reference-count table. Fatal for the enclosing TrackGroup.
	ErrUnknownTrackFlag = errors.New("avb: unknown track flag")

	// ErrUnknownExtension means an extension-block tag wasn't claimed by
	// the current class. Fatal for the current object.
	ErrUnknownExtension = errors.New("avb: unknown extension")

	// ErrInvariantViolation covers schema invariants such as
	// selected >= len(tracks) or number_of_plugins != 1.
	ErrInvariantViolation = errors.New("avb: invariant violation")

	// ErrAmbiguousAttributeValue means an Attributes value's runtime
	// shape doesn't select one of the four wire encodings unambiguously.
	ErrAmbiguousAttributeValue = errors.New("avb: ambiguous attribute value")

	// ErrEndOfStream means the stream ended while reading a primitive.
	ErrEndOfStream = errors.New("avb: unexpected end of stream")
)
