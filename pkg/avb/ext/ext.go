// Package ext implements the forward-compatible extension-block
// iterator shared by every class body that has one: a run of
// 0x01 <slot-tag> <payload> groups terminated by the enclosing 0x03
// close tag, with unrecognized slot tags governed by the active
// avbconfig.DecodePolicy.
package ext

import (
	"fmt"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/avblog"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/tag"
)

// Next peeks the next byte in r. If it is the section close (0x03) it
// returns ok=false without consuming anything, so the caller's own
// trailing AssertTag(tag.Close) still sees it. Otherwise it consumes
// the 0x01 continuation marker and the slot tag that follows, and
// returns that slot tag for the caller's class-specific dispatch to
// consume the payload.
func Next(r *tag.Reader) (slotTag byte, ok bool) {
	if r.Err() != nil {
		return 0, false
	}
	peeked := r.PeekTag()
	if r.Err() != nil {
		return 0, false
	}
	if peeked == tag.Close {
		return 0, false
	}
	r.AssertTag(tag.ExtContinue)
	if r.Err() != nil {
		return 0, false
	}
	t := r.ReadTag()
	return t, r.Err() == nil
}

// Unknown builds the diagnostic error for a slot tag no case in the
// calling class's switch claimed. Every extension loop funnels its
// default case through this so the wrapped class name is consistent.
func Unknown(className string, slotTag byte) error {
	return fmt.Errorf("%s: extension slot %d: %w", className, slotTag, avberr.ErrUnknownExtension)
}

// skipValue discards the tagged-scalar value of the type tag already
// consumed, the same width table tag.Reader's Read* methods use. Every
// extension slot this core knows about opens with exactly one of these
// type tags, which makes an unrecognized slot's payload skippable
// without the calling class knowing its shape.
func skipValue(r *tag.Reader, typeTag byte) error {
	switch typeTag {
	case tag.TagByteArray:
		r.ReadBlob()
	case tag.TagBool:
		r.ReadBool()
	case tag.TagU8:
		r.ReadU8()
	case tag.TagU16:
		r.ReadU16()
	case tag.TagS32, tag.TagU32:
		r.ReadU32()
	case tag.TagF64, tag.TagS64:
		r.ReadU64()
	default:
		return fmt.Errorf("ext: skip: type tag %d: %w", typeTag, avberr.ErrStructuralMismatch)
	}
	return nil
}

// HandleUnknown is what a class's default case calls instead of
// returning Unknown directly: under the active DecodePolicy's strict
// mode (the wire-contract default) it returns the same fatal
// ErrUnknownExtension. Under a non-strict policy it logs the skip at
// the policy's LogLevel (warning when that is unset or unrecognized)
// and discards the slot's payload by reading and
// discarding its leading type tag's value, letting the decode loop
// continue to the next slot instead of aborting the object.
func HandleUnknown(ctx *class.DecodeContext, r *tag.Reader, className string, slotTag byte) error {
	if ctx.Policy.Strict() {
		return Unknown(className, slotTag)
	}
	if ctx.Log != nil {
		ev := ctx.Log.Warn()
		if lvl, err := avblog.ParseLevel(ctx.Policy.LogLevel); err == nil {
			switch lvl {
			case avblog.LevelError:
				ev = ctx.Log.Error()
			case avblog.LevelInfo:
				ev = ctx.Log.Info()
			case avblog.LevelDebug:
				ev = ctx.Log.Debug()
			}
		}
		ev.Src(className).Msgf("extension slot %d: unknown, skipping", slotTag)
	}
	if err := skipValue(r, r.ReadTag()); err != nil {
		return err
	}
	return r.Err()
}
