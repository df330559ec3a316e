package track

import (
	"fmt"

	"avbcore/pkg/avb/avberr"
	"avbcore/pkg/avb/class"
	"avbcore/pkg/avb/ext"
	"avbcore/pkg/avb/mobid"
	"avbcore/pkg/avb/root"
	"avbcore/pkg/avb/tag"
)

// ClassIDASPI is AudioSuitePluginEffect's registered class identifier.
var ClassIDASPI = root.ClassID{'A', 'S', 'P', 'I'}

func init() {
	class.Register(ClassIDASPI, func() root.Object { return &AudioSuitePluginEffect{} })
}

// ASPIPluginChunk is one data chunk belonging to an ASPIPlugin.
type ASPIPluginChunk struct {
	Version        int32
	ManufacturerID uint32
	ProductID      uint32
	PluginID       uint32
	ChunkID        uint32
	Name           string
	Data           []byte
}

// ASPIPlugin is one audio-suite plugin instance, identified by its
// manufacturer/product/plugin triplet, carrying an ordered list of
// opaque state chunks.
type ASPIPlugin struct {
	Name           string
	ManufacturerID uint32
	ProductID      uint32
	PluginID       uint32
	Chunks         []ASPIPluginChunk
}

// AudioSuitePluginEffect is a TrackEffect binding an Avid AudioSuite
// plugin's preset state to a track. The current format asserts exactly
// one plugin with exactly one chunk; the decoder enforces this as an
// InvariantViolation rather than silently truncating.
type AudioSuitePluginEffect struct {
	TrackEffect

	Plugins []ASPIPlugin

	MobID mobid.MobID

	MarkIn  int64
	MarkOut int64

	TracksToAffect uint32
	RenderingMode  int32
	PaddingSecs    int32
	PresetPath     []byte

	// HasLegacyMobHalves and the two fields below preserve ASPI
	// extension slot 1's undocumented two-u32-half payload on
	// round-trip without interpreting it.
	HasLegacyMobHalves bool
	legacyMobHi        int32
	legacyMobLo        int32
}

// ClassID implements root.Object.
func (a *AudioSuitePluginEffect) ClassID() root.ClassID { return ClassIDASPI }

// DecodeBody decodes TrackEffect's fields, then AudioSuitePluginEffect's
// own section.
func (a *AudioSuitePluginEffect) DecodeBody(ctx *class.DecodeContext, r *tag.Reader) error {
	if err := a.TrackEffect.DecodeFields(ctx, r); err != nil {
		return err
	}
	r.AssertTag(tag.Open)
	r.AssertTag(0x01)

	numPlugins := r.ReadS32()
	if numPlugins != 1 {
		return fmt.Errorf("ASPI: number_of_plugins %d: %w", numPlugins, avberr.ErrInvariantViolation)
	}

	var plugin ASPIPlugin
	plugin.Name = r.ReadString()
	plugin.ManufacturerID = r.ReadU32()
	plugin.ProductID = r.ReadU32()
	plugin.PluginID = r.ReadU32()

	numChunks := r.ReadS32()
	if numChunks != 1 {
		return fmt.Errorf("ASPI: num_of_chunks %d: %w", numChunks, avberr.ErrInvariantViolation)
	}

	chunkSize := r.ReadS32()
	if chunkSize < 0 {
		return fmt.Errorf("ASPI: chunk_size %d: %w", chunkSize, avberr.ErrInvariantViolation)
	}

	var chunk ASPIPluginChunk
	chunk.Version = r.ReadS32()
	chunk.ManufacturerID = r.ReadU32()
	chunk.ProductID = r.ReadU32()
	chunk.PluginID = r.ReadU32()
	chunk.ChunkID = r.ReadU32()
	chunk.Name = r.ReadString()
	chunk.Data = r.ReadBytes(int(chunkSize))

	plugin.Chunks = append(plugin.Chunks, chunk)
	a.Plugins = append(a.Plugins, plugin)

	for {
		slot, ok := ext.Next(r)
		if !ok {
			break
		}
		switch slot {
		case 0x01:
			r.AssertTag(tag.TagS32)
			a.legacyMobHi = r.ReadS32()
			r.AssertTag(tag.TagS32)
			a.legacyMobLo = r.ReadS32()
			a.HasLegacyMobHalves = true
		case 0x02:
			r.AssertTag(tag.TagS64)
			a.MarkIn = r.ReadS64()
		case 0x03:
			r.AssertTag(tag.TagS64)
			a.MarkOut = r.ReadS64()
		case 0x04:
			r.AssertTag(tag.TagU32)
			a.TracksToAffect = r.ReadU32()
		case 0x05:
			r.AssertTag(tag.TagS32)
			a.RenderingMode = r.ReadS32()
		case 0x06:
			r.AssertTag(tag.TagS32)
			a.PaddingSecs = r.ReadS32()
		case 0x08:
			m, err := mobid.DecodeTagged(r)
			if err != nil {
				return fmt.Errorf("ASPI: %w", err)
			}
			a.MobID = m
		case 0x09:
			r.AssertTag(tag.TagU32)
			presetPathLength := r.ReadU32()
			r.AssertTag(tag.TagByteArray)
			blobLength := r.ReadU32()
			if presetPathLength != blobLength {
				return fmt.Errorf("ASPI: preset_path length mismatch %d != %d: %w", presetPathLength, blobLength, avberr.ErrInvariantViolation)
			}
			a.PresetPath = r.ReadBytes(int(blobLength))
		default:
			if err := ext.HandleUnknown(ctx, r, "ASPI", slot); err != nil {
				return err
			}
		}
	}

	r.AssertTag(tag.Close)
	return r.Err()
}

// Size returns the marshaled size of AudioSuitePluginEffect's body.
// Only the single-plugin, single-chunk shape this core decodes is
// supported on encode.
func (a *AudioSuitePluginEffect) Size() int {
	n := a.TrackEffect.FieldsSize() + 2 + 4

	plugin := a.Plugins[0]
	chunk := plugin.Chunks[0]
	n += tag.SizeString(plugin.Name) + 4 + 4 + 4
	n += 4 // num_of_chunks
	n += 4 // chunk_size
	n += 4 + 4 + 4 + 4 + 4 + tag.SizeString(chunk.Name) + len(chunk.Data)

	if a.HasLegacyMobHalves {
		n += 2 + 1 + 4 + 1 + 4
	}
	n += 2 + 1 + 8 // mark_in
	n += 2 + 1 + 8 // mark_out
	n += 2 + 1 + 4 // tracks_to_affect
	n += 2 + 1 + 4 // rendering_mode
	n += 2 + 1 + 4 // padding_secs
	n += 2 + mobid.SizeTagged(a.MobID)
	n += 2 + 1 + 4 + 1 + tag.SizeBlob(a.PresetPath)
	return n + 1
}

// Marshal writes AudioSuitePluginEffect's body.
func (a *AudioSuitePluginEffect) Marshal(ctx *class.EncodeContext, w *tag.Writer) {
	a.TrackEffect.MarshalFields(ctx, w)
	w.WriteU8(tag.Open)
	w.WriteU8(0x01)

	w.WriteS32(1)
	plugin := a.Plugins[0]
	w.WriteString(plugin.Name)
	w.WriteU32(plugin.ManufacturerID)
	w.WriteU32(plugin.ProductID)
	w.WriteU32(plugin.PluginID)

	w.WriteS32(1)
	chunk := plugin.Chunks[0]
	w.WriteS32(int32(len(chunk.Data)))
	w.WriteS32(chunk.Version)
	w.WriteU32(chunk.ManufacturerID)
	w.WriteU32(chunk.ProductID)
	w.WriteU32(chunk.PluginID)
	w.WriteU32(chunk.ChunkID)
	w.WriteString(chunk.Name)
	w.WriteBytes(chunk.Data)

	if a.HasLegacyMobHalves {
		w.WriteU8(tag.ExtContinue)
		w.WriteU8(0x01)
		w.WriteU8(tag.TagS32)
		w.WriteS32(a.legacyMobHi)
		w.WriteU8(tag.TagS32)
		w.WriteS32(a.legacyMobLo)
	}

	w.WriteU8(tag.ExtContinue)
	w.WriteU8(0x02)
	w.WriteU8(tag.TagS64)
	w.WriteS64(a.MarkIn)

	w.WriteU8(tag.ExtContinue)
	w.WriteU8(0x03)
	w.WriteU8(tag.TagS64)
	w.WriteS64(a.MarkOut)

	w.WriteU8(tag.ExtContinue)
	w.WriteU8(0x04)
	w.WriteU8(tag.TagU32)
	w.WriteU32(a.TracksToAffect)

	w.WriteU8(tag.ExtContinue)
	w.WriteU8(0x05)
	w.WriteU8(tag.TagS32)
	w.WriteS32(a.RenderingMode)

	w.WriteU8(tag.ExtContinue)
	w.WriteU8(0x06)
	w.WriteU8(tag.TagS32)
	w.WriteS32(a.PaddingSecs)

	w.WriteU8(tag.ExtContinue)
	w.WriteU8(0x08)
	mobid.EncodeTagged(w, a.MobID)

	w.WriteU8(tag.ExtContinue)
	w.WriteU8(0x09)
	w.WriteU8(tag.TagU32)
	w.WriteU32(uint32(len(a.PresetPath)))
	w.WriteU8(tag.TagByteArray)
	w.WriteBlob(a.PresetPath)

	w.WriteU8(tag.Close)
}
