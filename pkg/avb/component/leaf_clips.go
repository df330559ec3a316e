package component

import (
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// Class identifiers for the four Clip specializations that carry no
// state beyond Clip's own Length.
var (
	ClassIDFILL = root.ClassID{'F', 'I', 'L', 'L'}
	ClassIDECCP = root.ClassID{'E', 'C', 'C', 'P'}
	ClassIDTRKR = root.ClassID{'T', 'R', 'K', 'R'}
	ClassIDPRCL = root.ClassID{'P', 'R', 'C', 'L'}
)

func init() {
	class.Register(ClassIDFILL, func() root.Object { return &Filler{} })
	class.Register(ClassIDECCP, func() root.Object { return &Edgecode{} })
	class.Register(ClassIDTRKR, func() root.Object { return &TrackRef{} })
	class.Register(ClassIDPRCL, func() root.Object { return &ParamClip{} })
}

// Filler is a placeholder Clip occupying time with no media.
type Filler struct{ Clip }

// ClassID implements root.Object.
func (f *Filler) ClassID() root.ClassID { return ClassIDFILL }

// DecodeBody decodes Clip's fields plus the trailing empty section.
func (f *Filler) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := f.Clip.DecodeFields(ctx, r); err != nil {
		return err
	}
	decodeEmptyTrailer(r)
	return r.Err()
}

// Size returns the marshaled size of Filler's body.
func (f *Filler) Size() int { return f.Clip.FieldsSize() + emptyTrailerSize }

// Marshal writes Filler's body.
func (f *Filler) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	f.Clip.MarshalFields(ctx, w)
	marshalEmptyTrailer(w)
}

// Edgecode references an edge-code track; carries no state beyond Clip.
type Edgecode struct{ Clip }

// ClassID implements root.Object.
func (e *Edgecode) ClassID() root.ClassID { return ClassIDECCP }

// DecodeBody decodes Clip's fields. Edgecode's body ends there - no
// trailing section beyond Clip's own.
func (e *Edgecode) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := e.Clip.DecodeFields(ctx, r); err != nil {
		return err
	}
	return r.Err()
}

// Size returns the marshaled size of Edgecode's body.
func (e *Edgecode) Size() int { return e.Clip.FieldsSize() }

// Marshal writes Edgecode's body.
func (e *Edgecode) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	e.Clip.MarshalFields(ctx, w)
}

// TrackRef is a lightweight pointer to another track; carries no state
// beyond Clip.
type TrackRef struct{ Clip }

// ClassID implements root.Object.
func (t *TrackRef) ClassID() root.ClassID { return ClassIDTRKR }

// DecodeBody decodes Clip's fields. TrackRef's body ends there - no
// trailing section beyond Clip's own.
func (t *TrackRef) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := t.Clip.DecodeFields(ctx, r); err != nil {
		return err
	}
	return r.Err()
}

// Size returns the marshaled size of TrackRef's body.
func (t *TrackRef) Size() int { return t.Clip.FieldsSize() }

// Marshal writes TrackRef's body.
func (t *TrackRef) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	t.Clip.MarshalFields(ctx, w)
}

// ParamClip is a Clip whose segment is itself parameter/keyframe data;
// carries no state beyond Clip.
type ParamClip struct{ Clip }

// ClassID implements root.Object.
func (p *ParamClip) ClassID() root.ClassID { return ClassIDPRCL }

// DecodeBody decodes Clip's fields. ParamClip's body ends there - no
// trailing section beyond Clip's own.
func (p *ParamClip) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := p.Clip.DecodeFields(ctx, r); err != nil {
		return err
	}
	return r.Err()
}

// Size returns the marshaled size of ParamClip's body.
func (p *ParamClip) Size() int { return p.Clip.FieldsSize() }

// Marshal writes ParamClip's body.
func (p *ParamClip) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	p.Clip.MarshalFields(ctx, w)
}
